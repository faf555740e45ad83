package model

import "time"

// SessionStatus enumerates backend exam-session states.
type SessionStatus string

const (
	SessionStatusNotStarted SessionStatus = "NOT_STARTED"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusSubmitted  SessionStatus = "SUBMITTED"
	SessionStatusExpired    SessionStatus = "EXPIRED"
)

// AttemptSession is a backend-tracked exam attempt. A locally synthesized
// fallback session reuses only the identifier, never this record.
type AttemptSession struct {
	ID                   int64         `json:"id"`
	ExamID               int64         `json:"examId"`
	UserID               int64         `json:"userId"`
	Status               SessionStatus `json:"status"`
	TimeRemainingSeconds int           `json:"timeRemainingSeconds"`
	TotalQuestions       int           `json:"totalQuestions"`
	AnsweredQuestions    int           `json:"answeredQuestions"`
	StartTime            *time.Time    `json:"startTime,omitempty"`
	SubmittedTime        *time.Time    `json:"submittedTime,omitempty"`
}
