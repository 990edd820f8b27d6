package model

import "time"

// Deadline is one academic due-date entry. JSON names match the persisted layout.
type Deadline struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`
	Course      string    `json:"course"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DeadlineInput carries everything the caller supplies on creation.
type DeadlineInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Category    Category
	Priority    Priority
	Course      string
	Completed   bool
}

// DeadlinePatch is a partial update; nil fields are left untouched.
// ID and CreatedAt are deliberately absent.
type DeadlinePatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Category    *Category
	Priority    *Priority
	Course      *string
	Completed   *bool
}

// Apply merges the non-nil fields of p into d.
func (p DeadlinePatch) Apply(d *Deadline) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.DueDate != nil {
		d.DueDate = p.DueDate.UTC()
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.Course != nil {
		d.Course = *p.Course
	}
	if p.Completed != nil {
		d.Completed = *p.Completed
	}
}

// Empty reports whether the patch changes nothing.
func (p DeadlinePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Category == nil && p.Priority == nil && p.Course == nil && p.Completed == nil
}
