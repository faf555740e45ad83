package model

import "time"

// Notification is a per-user message from the notification service.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	ExamID    int64      `json:"examId,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// SendNotificationRequest is the payload for pushing a notification to a user.
type SendNotificationRequest struct {
	UserID  int64  `json:"userId"`
	ExamID  int64  `json:"examId,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
