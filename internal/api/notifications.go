package api

import (
	"context"
	"net/http"

	"github.com/examportal/examterm/internal/model"
)

// ListNotifications fetches every notification for a user, newest first.
func (c *Client) ListNotifications(ctx context.Context, cred Credential, userID int64) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.doJSON(ctx, cred, http.MethodGet, "/notifications/user/"+formatID(userID), nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListUnreadNotifications fetches only unread notifications for a user.
func (c *Client) ListUnreadNotifications(ctx context.Context, cred Credential, userID int64) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.doJSON(ctx, cred, http.MethodGet, "/notifications/user/"+formatID(userID)+"/unread", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, cred Credential, notificationID int64) error {
	return c.doJSON(ctx, cred, http.MethodPut, "/notifications/"+formatID(notificationID)+"/read", nil, nil)
}

// NotifyExamPublished fans out an exam-published notification to students
// (admin/teacher only).
func (c *Client) NotifyExamPublished(ctx context.Context, cred Credential, examID int64) error {
	return c.doJSON(ctx, cred, http.MethodPost, "/notifications/exam-published/"+formatID(examID), nil, nil)
}

// SendNotification pushes a notification to one user (admin/teacher only).
func (c *Client) SendNotification(ctx context.Context, cred Credential, req model.SendNotificationRequest) error {
	return c.doJSON(ctx, cred, http.MethodPost, "/notifications/send", req, nil)
}
