package model

import "time"

// ExamStatus enumerates the possible states of an exam.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusPublished ExamStatus = "PUBLISHED"
	ExamStatusActive    ExamStatus = "ACTIVE"
	ExamStatusCompleted ExamStatus = "COMPLETED"
)

// Exam is an exam as served by the portal's exam service. The JSON field
// names follow the backend wire format and must not change independently.
type Exam struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	TotalMarks      int        `json:"totalMarks"`
	PassingMarks    int        `json:"passingMarks"`
	MaxAttempts     int        `json:"maxAttempts,omitempty"`
	Status          ExamStatus `json:"status"`
	CreatedBy       int64      `json:"createdBy,omitempty"`
	StartTime       *time.Time `json:"startTime,omitempty"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Duration returns the exam duration, falling back to 60 minutes when the
// backend record carries no usable value.
func (e Exam) Duration() time.Duration {
	minutes := e.DurationMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	TotalMarks      int    `json:"totalMarks"`
	PassingMarks    int    `json:"passingMarks"`
	MaxAttempts     int    `json:"maxAttempts"`
}
