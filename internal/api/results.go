package api

import (
	"context"
	"net/http"

	"github.com/examportal/examterm/internal/model"
)

// CreateResult persists the outcome record for an attempt. This is the one
// write the submit flow performs even for fallback sessions.
func (c *Client) CreateResult(ctx context.Context, cred Credential, result model.Result) (model.Result, error) {
	var created model.Result
	if err := c.doJSON(ctx, cred, http.MethodPost, "/results", result, &created); err != nil {
		return model.Result{}, err
	}
	return created, nil
}

// ListResultsByUser fetches a user's results, newest first.
func (c *Client) ListResultsByUser(ctx context.Context, cred Credential, userID int64) ([]model.Result, error) {
	var results []model.Result
	if err := c.doJSON(ctx, cred, http.MethodGet, "/results/user/"+formatID(userID), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ListResultsByExam fetches every result for an exam (admin/teacher only).
func (c *Client) ListResultsByExam(ctx context.Context, cred Credential, examID int64) ([]model.Result, error) {
	var results []model.Result
	if err := c.doJSON(ctx, cred, http.MethodGet, "/results/exam/"+formatID(examID), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// CheckExamCompleted reports whether the user already has a completed result
// for the exam. The dashboard uses this to block repeat attempts.
func (c *Client) CheckExamCompleted(ctx context.Context, cred Credential, userID, examID int64) (bool, error) {
	var resp struct {
		Completed bool `json:"completed"`
	}
	if err := c.doJSON(ctx, cred, http.MethodGet, "/results/check/"+formatID(userID)+"/"+formatID(examID), nil, &resp); err != nil {
		return false, err
	}
	return resp.Completed, nil
}
