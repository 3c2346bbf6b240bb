package models

import (
	"encoding/json"
	"time"
)

type JobKind string

const (
	JobHealthCheck      JobKind = "health_check"
	JobClassifyItem     JobKind = "classify_item"
	JobClassifyWithVLM  JobKind = "classify_with_vlm"
	JobClassifyRouted   JobKind = "classify"
	JobRemoveBackground JobKind = "remove_background"
)

// NeedsImage reports whether the job kind operates on an image locator.
func (k JobKind) NeedsImage() bool {
	return k != JobHealthCheck
}

func (k JobKind) Valid() bool {
	switch k {
	case JobHealthCheck, JobClassifyItem, JobClassifyWithVLM, JobClassifyRouted, JobRemoveBackground:
		return true
	}
	return false
}

type SubmitJobRequest struct {
	Kind     JobKind `json:"kind" binding:"required"`
	ImageURL string  `json:"image_url"`
}

// InferenceJob is an asynchronous invocation of one of the inference
// operations. Result holds the serialized record of that operation.
type InferenceJob struct {
	ID          string          `json:"id"`
	Kind        JobKind         `json:"kind"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
