package model

import (
	"fmt"
	"strings"
)

// Category of a deadline.
type Category string

const (
	CategoryAssignment Category = "assignment"
	CategoryExam       Category = "exam"
	CategoryProject    Category = "project"
	CategoryQuiz       Category = "quiz"
	CategoryOther      Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryAssignment, CategoryExam, CategoryProject, CategoryQuiz, CategoryOther}

func (c Category) Valid() bool {
	switch c {
	case CategoryAssignment, CategoryExam, CategoryProject, CategoryQuiz, CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) Label() string {
	switch c {
	case CategoryAssignment:
		return "Assignment"
	case CategoryExam:
		return "Exam"
	case CategoryProject:
		return "Project"
	case CategoryQuiz:
		return "Quiz"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

func (c Category) Icon() string {
	switch c {
	case CategoryAssignment:
		return "📄"
	case CategoryExam:
		return "🎓"
	case CategoryProject:
		return "🗂"
	case CategoryQuiz:
		return "📖"
	case CategoryOther:
		return "❔"
	default:
		return "🏷️"
	}
}

// ParseCategory accepts a category value or label, case-insensitively.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}

// Priority of a deadline.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

func (p Priority) Icon() string {
	switch p {
	case PriorityHigh:
		return "❗"
	case PriorityMedium:
		return "⬆️"
	case PriorityLow:
		return "➖"
	default:
		return "•"
	}
}

// ParsePriority accepts a priority value or label, case-insensitively.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", raw)
	}
	return p, nil
}
