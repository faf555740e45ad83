package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/examportal/examterm/internal/model"
)

// ListQuestionsByExam fetches the ordered question list for an exam.
func (c *Client) ListQuestionsByExam(ctx context.Context, cred Credential, examID int64) ([]model.Question, error) {
	var questions []model.Question
	if err := c.doJSON(ctx, cred, http.MethodGet, "/questions/exam/"+formatID(examID), nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// TotalMarksByExam returns the sum of marks across an exam's questions as
// computed by the question service.
func (c *Client) TotalMarksByExam(ctx context.Context, cred Credential, examID int64) (int, error) {
	var total int
	if err := c.doJSON(ctx, cred, http.MethodGet, "/questions/exam/"+formatID(examID)+"/total-marks", nil, &total); err != nil {
		return 0, err
	}
	return total, nil
}

// CreateQuestion adds a question to an exam (admin/teacher only).
func (c *Client) CreateQuestion(ctx context.Context, cred Credential, req model.CreateQuestionRequest) (model.Question, error) {
	var question model.Question
	if err := c.doJSON(ctx, cred, http.MethodPost, "/questions", req, &question); err != nil {
		return model.Question{}, err
	}
	return question, nil
}

// UpdateQuestion replaces a question.
func (c *Client) UpdateQuestion(ctx context.Context, cred Credential, id int64, req model.CreateQuestionRequest) (model.Question, error) {
	var question model.Question
	if err := c.doJSON(ctx, cred, http.MethodPut, "/questions/"+formatID(id), req, &question); err != nil {
		return model.Question{}, err
	}
	return question, nil
}

// DeleteQuestion removes a question.
func (c *Client) DeleteQuestion(ctx context.Context, cred Credential, id int64) error {
	return c.doJSON(ctx, cred, http.MethodDelete, "/questions/"+formatID(id), nil, nil)
}

// ImportCSVResponse is the question service's reply to a CSV import.
type ImportCSVResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ImportQuestionsCSV uploads a question CSV for an exam as multipart form
// data. The caller is expected to have validated the file locally first.
func (c *Client) ImportQuestionsCSV(ctx context.Context, cred Credential, examID, createdBy int64, filename string, file io.Reader) (ImportCSVResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return ImportCSVResponse{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return ImportCSVResponse{}, err
	}
	if err := writer.WriteField("examId", formatID(examID)); err != nil {
		return ImportCSVResponse{}, err
	}
	if err := writer.WriteField("createdBy", formatID(createdBy)); err != nil {
		return ImportCSVResponse{}, err
	}
	if err := writer.Close(); err != nil {
		return ImportCSVResponse{}, err
	}

	var resp ImportCSVResponse
	if err := c.doRaw(ctx, cred, http.MethodPost, "/questions/import-csv", writer.FormDataContentType(), &buf, &resp); err != nil {
		return ImportCSVResponse{}, err
	}
	return resp, nil
}

// CSVTemplate downloads the question CSV template served by the portal.
func (c *Client) CSVTemplate(ctx context.Context, cred Credential) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/questions/csv-template", nil)
	if err != nil {
		return nil, err
	}
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func queryPath(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
