package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/examportal/examterm/internal/model"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ListExams fetches every exam visible to the caller.
func (c *Client) ListExams(ctx context.Context, cred Credential) ([]model.Exam, error) {
	var exams []model.Exam
	if err := c.doJSON(ctx, cred, http.MethodGet, "/exams", nil, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

// ListActiveExams fetches exams currently open for taking.
func (c *Client) ListActiveExams(ctx context.Context, cred Credential) ([]model.Exam, error) {
	var exams []model.Exam
	if err := c.doJSON(ctx, cred, http.MethodGet, "/exams/active", nil, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

// GetExam fetches one exam's metadata.
func (c *Client) GetExam(ctx context.Context, cred Credential, id int64) (model.Exam, error) {
	var exam model.Exam
	if err := c.doJSON(ctx, cred, http.MethodGet, "/exams/"+formatID(id), nil, &exam); err != nil {
		return model.Exam{}, err
	}
	return exam, nil
}

// SearchExams searches exams by title with pagination.
func (c *Client) SearchExams(ctx context.Context, cred Credential, title string, page, size int) (Page[model.Exam], error) {
	query := url.Values{}
	query.Set("title", title)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result Page[model.Exam]
	if err := c.doJSON(ctx, cred, http.MethodGet, "/exams/search?"+query.Encode(), nil, &result); err != nil {
		return Page[model.Exam]{}, err
	}
	return result, nil
}

// ListExamsPaginated fetches one page of exams, sorted server-side.
func (c *Client) ListExamsPaginated(ctx context.Context, cred Credential, page, size int, sortBy, sortDir string) (Page[model.Exam], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	if sortBy != "" {
		query.Set("sortBy", sortBy)
	}
	if sortDir != "" {
		query.Set("sortDir", sortDir)
	}

	var result Page[model.Exam]
	if err := c.doJSON(ctx, cred, http.MethodGet, "/exams/paginated?"+query.Encode(), nil, &result); err != nil {
		return Page[model.Exam]{}, err
	}
	return result, nil
}

// CreateExam creates a new draft exam (admin/teacher only).
func (c *Client) CreateExam(ctx context.Context, cred Credential, req model.CreateExamRequest) (model.Exam, error) {
	var exam model.Exam
	if err := c.doJSON(ctx, cred, http.MethodPost, "/exams", req, &exam); err != nil {
		return model.Exam{}, err
	}
	return exam, nil
}

// UpdateExam replaces an exam's metadata.
func (c *Client) UpdateExam(ctx context.Context, cred Credential, id int64, req model.CreateExamRequest) (model.Exam, error) {
	var exam model.Exam
	if err := c.doJSON(ctx, cred, http.MethodPut, "/exams/"+formatID(id), req, &exam); err != nil {
		return model.Exam{}, err
	}
	return exam, nil
}

// DeleteExam removes an exam.
func (c *Client) DeleteExam(ctx context.Context, cred Credential, id int64) error {
	return c.doJSON(ctx, cred, http.MethodDelete, "/exams/"+formatID(id), nil, nil)
}

// PublishExam moves a draft exam to PUBLISHED.
func (c *Client) PublishExam(ctx context.Context, cred Credential, id int64) (model.Exam, error) {
	return c.examTransition(ctx, cred, id, "publish")
}

// ActivateExam moves a published exam to ACTIVE.
func (c *Client) ActivateExam(ctx context.Context, cred Credential, id int64) (model.Exam, error) {
	return c.examTransition(ctx, cred, id, "activate")
}

// UnpublishExam moves an exam back to DRAFT.
func (c *Client) UnpublishExam(ctx context.Context, cred Credential, id int64) (model.Exam, error) {
	return c.examTransition(ctx, cred, id, "unpublish")
}

func (c *Client) examTransition(ctx context.Context, cred Credential, id int64, action string) (model.Exam, error) {
	var exam model.Exam
	if err := c.doJSON(ctx, cred, http.MethodPut, "/exams/"+formatID(id)+"/"+action, nil, &exam); err != nil {
		return model.Exam{}, err
	}
	return exam, nil
}
