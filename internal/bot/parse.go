package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"deadline-tracker/internal/model"
)

var dueLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseDue reads a due date in loc. A bare date means 23:59 that day.
func parseDue(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(23*time.Hour + 59*time.Minute)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func parseRef(arg string) (int, error) {
	arg = strings.TrimPrefix(strings.TrimSpace(arg), "#")
	if arg == "" {
		return 0, fmt.Errorf("give the deadline number from /list, e.g. /done 2")
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("deadline number must be a positive integer")
	}
	return n, nil
}

// splitEditArgs splits "<n> <field> <value...>".
func splitEditArgs(args string) (ref, field, value string, err error) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		return "", "", "", fmt.Errorf("usage: /edit <n> <field> <value>, e.g. /edit 2 priority high")
	}
	ref, field = parts[0], strings.ToLower(parts[1])
	rest := strings.TrimSpace(args)
	for _, p := range parts[:2] {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, p))
	}
	return ref, field, rest, nil
}

// buildPatch turns one edited field into a partial update.
func buildPatch(field, value string, loc *time.Location) (model.DeadlinePatch, error) {
	var patch model.DeadlinePatch
	switch field {
	case "title":
		if value == "" {
			return patch, fmt.Errorf("title can't be empty")
		}
		patch.Title = &value
	case "course":
		if value == "" {
			return patch, fmt.Errorf("course can't be empty")
		}
		patch.Course = &value
	case "description", "notes":
		if value == "-" {
			value = ""
		}
		patch.Description = &value
	case "category":
		c, err := model.ParseCategory(value)
		if err != nil {
			return patch, err
		}
		patch.Category = &c
	case "priority":
		p, err := model.ParsePriority(value)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	case "due", "date":
		due, err := parseDue(value, loc)
		if err != nil {
			return patch, err
		}
		patch.DueDate = &due
	default:
		return patch, fmt.Errorf("unknown field %q, use title, description, course, category, priority or due", field)
	}
	return patch, nil
}

// stripIcon drops a leading emoji from a keyboard label.
func stripIcon(label string) string {
	label = strings.TrimSpace(label)
	idx := strings.IndexFunc(label, func(r rune) bool {
		return unicode.IsLetter(r)
	})
	if idx < 0 {
		return label
	}
	return label[idx:]
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
