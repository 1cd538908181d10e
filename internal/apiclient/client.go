// Package apiclient is a thin client for the interviewd HTTP API, used by the
// schedule CLI command.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ivstih/interviewd/internal/interview"

	"go.uber.org/zap"
)

// Client talks to a running interviewd server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	logger     *zap.Logger
}

// New creates an API client for the given server address.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Scheduling waits on plan generation, so the budget is generous.
			Timeout: 2 * time.Minute,
		},
		logger: logger,
	}
}

// ScheduleUpload carries the schedule form fields and documents.
type ScheduleUpload struct {
	CandidateEmail string
	HREmail        string
	InterviewDate  string
	InterviewTime  string
	CVPath         string
	CVData         []byte
	JDPath         string
	JDData         []byte
}

// ScheduleResponse mirrors the server's scheduling reply.
type ScheduleResponse struct {
	Success       bool                      `json:"success"`
	SessionID     string                    `json:"sessionId"`
	InterviewLink string                    `json:"interviewLink"`
	HRPortalLink  string                    `json:"hrPortalLink"`
	InterviewPlan *interview.ScheduleResult `json:"interviewPlan"`
}

// Schedule submits the multipart scheduling request.
func (c *Client) Schedule(ctx context.Context, upload ScheduleUpload) (*ScheduleResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"candidateEmail": upload.CandidateEmail,
		"hrEmail":        upload.HREmail,
		"interviewDate":  upload.InterviewDate,
		"interviewTime":  upload.InterviewTime,
	}
	for key, val := range fields {
		field, err := w.CreateFormField(key)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(field, strings.NewReader(val)); err != nil {
			return nil, err
		}
	}

	files := []struct {
		field string
		name  string
		data  []byte
	}{
		{"cv", upload.CVPath, upload.CVData},
		{"jd", upload.JDPath, upload.JDData},
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/schedule", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var result ScheduleResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) do(req *http.Request, target any) error {
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
