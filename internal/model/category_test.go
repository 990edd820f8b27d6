package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw     string
		want    Category
		wantErr bool
	}{
		{raw: "exam", want: CategoryExam},
		{raw: "  Quiz ", want: CategoryQuiz},
		{raw: "ASSIGNMENT", want: CategoryAssignment},
		{raw: "homework", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "all", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCategory(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("High")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestEveryVariantHasLabelAndIcon(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid())
		assert.NotEqual(t, string(c), c.Label(), "category %s has no label", c)
		assert.NotEqual(t, "🏷️", c.Icon(), "category %s has no icon", c)
	}
	for _, p := range Priorities {
		assert.True(t, p.Valid())
		assert.NotEqual(t, string(p), p.Label(), "priority %s has no label", p)
		assert.NotEqual(t, "•", p.Icon(), "priority %s has no icon", p)
	}
}

func TestDeadlinePatchApply(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	d := Deadline{
		ID:        "abc",
		Title:     "Essay",
		DueDate:   created.Add(48 * time.Hour),
		Category:  CategoryAssignment,
		Priority:  PriorityMedium,
		Course:    "ENG 101",
		CreatedAt: created,
	}

	title := "Final essay"
	done := true
	DeadlinePatch{Title: &title, Completed: &done}.Apply(&d)

	assert.Equal(t, "Final essay", d.Title)
	assert.True(t, d.Completed)
	assert.Equal(t, "abc", d.ID)
	assert.Equal(t, created, d.CreatedAt)
	assert.Equal(t, "ENG 101", d.Course)
	assert.Equal(t, PriorityMedium, d.Priority)
}

func TestDeadlinePatchEmpty(t *testing.T) {
	assert.True(t, DeadlinePatch{}.Empty())
	course := "X"
	assert.False(t, DeadlinePatch{Course: &course}.Empty())
}
