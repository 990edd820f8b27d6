package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"deadline-tracker/internal/model"
)

// AllCategories is the category filter that keeps every record.
const AllCategories model.Category = "all"

// ViewState holds the transient list filters. It is never persisted.
type ViewState struct {
	Category      model.Category
	ShowCompleted bool
}

// DefaultViewState shows every category including completed records.
func DefaultViewState() ViewState {
	return ViewState{Category: AllCategories, ShowCompleted: true}
}

// Filtered reports whether the state hides anything.
func (v ViewState) Filtered() bool {
	return v.Category != AllCategories || !v.ShowCompleted
}

// ParseCategoryFilter accepts "all" or a category.
func ParseCategoryFilter(raw string) (model.Category, error) {
	if strings.EqualFold(strings.TrimSpace(raw), string(AllCategories)) {
		return AllCategories, nil
	}
	c, err := model.ParseCategory(raw)
	if err != nil {
		return "", fmt.Errorf("filter: %w", err)
	}
	return c, nil
}

// VisibleDeadlines filters by category and completion, then orders incomplete
// before completed and each group by due date. Equal keys keep collection order.
func VisibleDeadlines(deadlines []model.Deadline, category model.Category, showCompleted bool) []model.Deadline {
	out := make([]model.Deadline, 0, len(deadlines))
	for _, d := range deadlines {
		if category != AllCategories && d.Category != category {
			continue
		}
		if !showCompleted && d.Completed {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// Summary is the set of aggregate counts shown above the list.
type Summary struct {
	Total     int
	Completed int
	Urgent    int
	Upcoming  int
}

// SummaryCounts aggregates the collection; urgent and upcoming count only incomplete records.
func SummaryCounts(deadlines []model.Deadline, now time.Time) Summary {
	var s Summary
	s.Total = len(deadlines)
	for _, d := range deadlines {
		if d.Completed {
			s.Completed++
			continue
		}
		switch ClassifyUrgency(d.DueDate, now) {
		case UrgencyUrgent:
			s.Urgent++
		case UrgencySoon:
			s.Upcoming++
		case UrgencyNormal:
		}
	}
	return s
}
