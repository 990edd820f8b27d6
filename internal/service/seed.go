package service

import (
	"time"

	"deadline-tracker/internal/model"
)

const day = 24 * time.Hour

// SampleDeadlines is the first-run collection, due relative to now.
func SampleDeadlines(now time.Time, newID func() string) []model.Deadline {
	now = now.UTC()
	return []model.Deadline{
		{
			ID:          newID(),
			Title:       "Calculus Final Exam",
			Description: "Chapters 1-12, bring calculator",
			DueDate:     now.Add(2 * day),
			Category:    model.CategoryExam,
			Priority:    model.PriorityHigh,
			Course:      "MATH 201",
			CreatedAt:   now,
		},
		{
			ID:          newID(),
			Title:       "Research Paper Draft",
			Description: "First draft of research paper on AI ethics",
			DueDate:     now.Add(5 * day),
			Category:    model.CategoryAssignment,
			Priority:    model.PriorityHigh,
			Course:      "CS 450",
			CreatedAt:   now,
		},
		{
			ID:          newID(),
			Title:       "Group Project Presentation",
			Description: "Prepare slides and practice presentation",
			DueDate:     now.Add(7 * day),
			Category:    model.CategoryProject,
			Priority:    model.PriorityMedium,
			Course:      "BUS 301",
			CreatedAt:   now,
		},
		{
			ID:          newID(),
			Title:       "Physics Quiz",
			Description: "Chapters 5-6: Thermodynamics",
			DueDate:     now.Add(1 * day),
			Category:    model.CategoryQuiz,
			Priority:    model.PriorityMedium,
			Course:      "PHYS 101",
			CreatedAt:   now,
		},
	}
}
