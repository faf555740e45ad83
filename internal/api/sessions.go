package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/examportal/examterm/internal/model"
)

// CreateSession asks the session service to open an attempt for
// (exam, user). The service expects query parameters and an empty body.
func (c *Client) CreateSession(ctx context.Context, cred Credential, examID, userID int64, durationMinutes, totalQuestions int) (model.AttemptSession, error) {
	query := url.Values{}
	query.Set("examId", formatID(examID))
	query.Set("userId", formatID(userID))
	query.Set("durationMinutes", strconv.Itoa(durationMinutes))
	query.Set("totalQuestions", strconv.Itoa(totalQuestions))

	var session model.AttemptSession
	if err := c.doJSON(ctx, cred, http.MethodPost, queryPath("/sessions/create", query), nil, &session); err != nil {
		return model.AttemptSession{}, err
	}
	return session, nil
}

// StartSession marks a created session active.
func (c *Client) StartSession(ctx context.Context, cred Credential, sessionID int64) error {
	return c.doJSON(ctx, cred, http.MethodPost, "/sessions/"+formatID(sessionID)+"/start", nil, nil)
}

// SubmitAnswer records one answer against an active session.
func (c *Client) SubmitAnswer(ctx context.Context, cred Credential, sessionID, questionID int64, answerText string) error {
	query := url.Values{}
	query.Set("questionId", formatID(questionID))
	query.Set("answerText", answerText)

	return c.doJSON(ctx, cred, http.MethodPost, queryPath("/sessions/"+formatID(sessionID)+"/answer", query), nil, nil)
}

// SubmitSession finalizes a session. After this call the backend considers
// the attempt terminal.
func (c *Client) SubmitSession(ctx context.Context, cred Credential, sessionID int64) (model.AttemptSession, error) {
	var session model.AttemptSession
	if err := c.doJSON(ctx, cred, http.MethodPost, "/sessions/"+formatID(sessionID)+"/submit", nil, &session); err != nil {
		return model.AttemptSession{}, err
	}
	return session, nil
}

// GetSession fetches a session record.
func (c *Client) GetSession(ctx context.Context, cred Credential, sessionID int64) (model.AttemptSession, error) {
	var session model.AttemptSession
	if err := c.doJSON(ctx, cred, http.MethodGet, "/sessions/"+formatID(sessionID), nil, &session); err != nil {
		return model.AttemptSession{}, err
	}
	return session, nil
}
