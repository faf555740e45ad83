package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Credential is a request-scoped bearer credential. It is passed explicitly
// to every authenticated call instead of being looked up from ambient state,
// so a call can never silently run with a stale or missing token.
type Credential struct {
	Token string
}

// Anonymous is the zero credential for unauthenticated endpoints.
var Anonymous = Credential{}

// Client talks to the exam portal gateway. All endpoint groups share this one
// adapter so request construction, auth and error decoding are defined once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a portal API client. baseURL is the gateway prefix, typically
// ending in /api. A nil httpClient falls back to http.DefaultClient.
func New(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log.With().Str("component", "api").Logger(),
	}
}

// doJSON performs one JSON round trip. requestBody and responseBody may be
// nil. Non-2xx statuses decode into *APIError; transport failures wrap
// ErrUnavailable.
func (c *Client) doJSON(ctx context.Context, cred Credential, method, path string, requestBody, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, cred, responseBody)
}

// doRaw performs a round trip with a caller-built body (multipart uploads,
// raw downloads). contentType may be empty.
func (c *Client) doRaw(ctx context.Context, cred Credential, method, path, contentType string, body io.Reader, responseBody any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return c.do(req, cred, responseBody)
}

func (c *Client) do(req *http.Request, cred Credential, responseBody any) error {
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("request_id", requestID).
			Str("path", req.URL.Path).Msg("transport failure")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := decodeAPIError(resp)
		c.log.Debug().Int("status", apiErr.StatusCode).Str("request_id", requestID).
			Str("path", req.URL.Path).Msg(apiErr.Message)
		return apiErr
	}

	if responseBody == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for keep-alive
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(responseBody)
}

// Page mirrors the portal's paginated list envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}
