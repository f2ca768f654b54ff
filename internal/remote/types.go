package remote

import (
	"encoding/json"
	"fmt"
)

// GenerationRequest is the job-submission payload. Optional fields are
// omitted from the request body when unset.
type GenerationRequest struct {
	Model          string   `json:"model"`
	Prompt         string   `json:"prompt"`
	NegativePrompt *string  `json:"negative_prompt,omitempty"`
	Size           *string  `json:"size,omitempty"`
	Steps          *int     `json:"steps,omitempty"`
	Guidance       *float32 `json:"guidance,omitempty"`
	Seed           *int     `json:"seed,omitempty"`
	ImageURLs      []string `json:"image_url,omitempty"`
}

// Task identifies a submitted job.
type Task struct {
	TaskID    string `json:"task_id"`
	RequestID string `json:"request_id"`
}

// Task states reported by the API.
const (
	StatusPending    = "PENDING"
	StatusRunning    = "RUNNING"
	StatusProcessing = "PROCESSING"
	StatusSucceed    = "SUCCEED"
	StatusFailed     = "FAILED"
)

// TaskStatus is the result of a status poll.
type TaskStatus struct {
	Status       string   `json:"task_status"`
	OutputImages []string `json:"output_images,omitempty"`
	RequestID    string   `json:"request_id"`
}

// Terminal reports whether the task has finished, successfully or not.
func (s *TaskStatus) Terminal() bool {
	return s.Status == StatusSucceed || s.Status == StatusFailed
}

// APIError is a structured error body returned with a non-success status.
type APIError struct {
	StatusCode int
	Errors     json.RawMessage
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote: API error (status %d, request %s): %s", e.StatusCode, e.RequestID, string(e.Errors))
}

// HTTPError is a non-success response whose body was not a structured error.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("remote: HTTP error %s: %s", e.Status, e.Body)
}
