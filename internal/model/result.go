package model

import "time"

// ResultStatus is the lifecycle status the client writes on a result record.
// The client always submits COMPLETED; other values are backend-owned.
type ResultStatus string

const ResultStatusCompleted ResultStatus = "COMPLETED"

// PassingStatus is display-only on the client. The persisted record never
// carries a client-derived pass/fail verdict.
type PassingStatus string

const (
	PassingStatusPass    PassingStatus = "PASS"
	PassingStatusFail    PassingStatus = "FAIL"
	PassingStatusPending PassingStatus = "PENDING"
)

// Result is the outcome record the client constructs once at submission and
// the result service persists. SessionID may be a fallback identifier.
type Result struct {
	ID            int64         `json:"id,omitempty"`
	UserID        int64         `json:"userId"`
	ExamID        int64         `json:"examId"`
	SessionID     string        `json:"sessionId"`
	Score         int           `json:"score"`
	TotalMarks    int           `json:"totalMarks"`
	Percentage    float64       `json:"percentage"`
	Status        ResultStatus  `json:"status"`
	PassingStatus PassingStatus `json:"passingStatus,omitempty"`
	SubmittedAt   *time.Time    `json:"submittedAt,omitempty"`
}
