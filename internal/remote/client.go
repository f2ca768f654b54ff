// Package remote proxies the asynchronous image-generation API: one call to
// submit a job, one call to poll it. Polling cadence and retries belong to
// the caller.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"henji/internal/logger"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api-inference.modelscope.cn"

const (
	submitPath = "/v1/images/generations"
	tasksPath  = "/v1/tasks/"

	taskTypeImageGeneration = "image_generation"
)

// ErrEmptyTaskID is returned by TaskStatus when no task id is given.
var ErrEmptyTaskID = errors.New("remote: task id is empty")

// Options configures a Client.
type Options struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// HeaderPrefix is inserted after "X-" in the mode headers, e.g.
	// "ModelScope-" yields X-ModelScope-Async-Mode.
	HeaderPrefix string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	Logger     *logger.AsyncLogger
}

// Client talks to the image-generation API. It is safe for concurrent use.
type Client struct {
	baseURL      string
	headerPrefix string
	httpClient   *http.Client
	log          *logger.AsyncLogger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:      base,
		headerPrefix: opts.HeaderPrefix,
		httpClient:   hc,
		log:          logger.Or(opts.Logger),
	}
}

// SubmitTask submits a generation job in asynchronous mode.
func (c *Client) SubmitTask(ctx context.Context, apiKey string, req GenerationRequest) (*Task, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("remote: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(c.header("Async-Mode"), "true")

	var task Task
	if err := c.do(httpReq, &task); err != nil {
		return nil, err
	}
	c.log.Infof("submitted generation task %s (model %s, request %s)", task.TaskID, req.Model, task.RequestID)
	return &task, nil
}

// TaskStatus fetches the current state of a task.
func (c *Client) TaskStatus(ctx context.Context, apiKey, taskID string) (*TaskStatus, error) {
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tasksPath+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set(c.header("Task-Type"), taskTypeImageGeneration)

	var status TaskStatus
	if err := c.do(httpReq, &status); err != nil {
		return nil, err
	}
	c.log.Debugf("task %s status %s", taskID, status.Status)
	return &status, nil
}

func (c *Client) header(name string) string {
	return "X-" + c.headerPrefix + name
}

// do sends req and decodes a 2xx body into out. Non-2xx responses become an
// *APIError when the body carries {errors, request_id}, else an *HTTPError.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if apiErr := parseAPIError(resp.StatusCode, body); apiErr != nil {
			c.log.Warnf("%s %s: %v", req.Method, req.URL.Path, apiErr)
			return apiErr
		}
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
		c.log.Warnf("%s %s: %v", req.Method, req.URL.Path, httpErr)
		return httpErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("remote: decode response: %v - body: %s", err, body)
	}
	return nil
}

// parseAPIError returns nil unless body has both an errors value and a
// string request_id.
func parseAPIError(status int, body []byte) *APIError {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}
	errs, ok := fields["errors"]
	if !ok {
		return nil
	}
	rawID, ok := fields["request_id"]
	if !ok {
		return nil
	}
	var requestID *string
	if err := json.Unmarshal(rawID, &requestID); err != nil || requestID == nil {
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, errs); err == nil {
		errs = compact.Bytes()
	}
	return &APIError{StatusCode: status, Errors: errs, RequestID: *requestID}
}
