package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"deadline-tracker/internal/model"
)

// DigestService builds human-readable summaries of the collection.
type DigestService struct{}

func NewDigestService() *DigestService {
	return &DigestService{}
}

// Summary renders the stat tiles followed by every pending deadline.
func (s *DigestService) Summary(deadlines []model.Deadline, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("📋 <b>Deadline overview</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("Mon, Jan 2 2006")))
	builder.WriteString(s.Stats(SummaryCounts(deadlines, now)))

	pending := VisibleDeadlines(deadlines, AllCategories, false)
	builder.WriteString("\n\n🔥 <b>Pending</b>\n")
	if len(pending) == 0 {
		builder.WriteString("— nothing pending, enjoy the break\n")
	} else {
		for _, d := range pending {
			builder.WriteString(FormatDeadline(d, now))
		}
	}

	return strings.TrimSpace(builder.String())
}

// Stats renders the four aggregate tiles.
func (s *DigestService) Stats(sum Summary) string {
	return fmt.Sprintf("🎯 Total: <b>%d</b>\n✅ Completed: <b>%d</b>\n⚠️ Urgent: <b>%d</b>\n⏳ Coming Soon: <b>%d</b>",
		sum.Total, sum.Completed, sum.Urgent, sum.Upcoming)
}

// EmptyState is shown when a list has nothing to display.
func (s *DigestService) EmptyState(filtered bool) string {
	if filtered {
		return "🗓 <b>No matching deadlines</b>\nTry adjusting your filters to see more deadlines."
	}
	return "🗓 <b>No deadlines yet</b>\nStart tracking your academic deadlines by adding your first one with /add."
}

// FormatDeadline renders one deadline as a multi-line card.
func FormatDeadline(d model.Deadline, now time.Time) string {
	var sb strings.Builder

	status := ClassifyUrgency(d.DueDate, now).Icon()
	if d.Completed {
		status = "✅"
	}
	title := html.EscapeString(strings.TrimSpace(d.Title))
	if d.Completed {
		title = "<s>" + title + "</s>"
	}
	sb.WriteString(fmt.Sprintf("%s %s %s", status, d.Priority.Icon(), title))
	if course := strings.TrimSpace(d.Course); course != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(course)))
	}

	sb.WriteString(fmt.Sprintf("\n   %s %s · %s priority", d.Category.Icon(), d.Category.Label(), d.Priority.Label()))
	sb.WriteString(fmt.Sprintf("\n   ⏰ %s · %s", CountdownText(d.DueDate, now), FormatDisplay(d.DueDate, now)))

	if desc := strings.TrimSpace(d.Description); desc != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(desc)))
	}

	sb.WriteByte('\n')
	return sb.String()
}
