package types

import "github.com/killallgit/ieeg-clips/internal/models"

// Status constants for API responses
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
	StatusQueued     = "queued"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// DatasetsResponse for dataset lists
type DatasetsResponse struct {
	BaseResponse
	Datasets []models.Recording `json:"datasets"`
	Count    int                `json:"count"`
}

// SingleDatasetResponse for getting a single dataset
type SingleDatasetResponse struct {
	BaseResponse
	Dataset *models.Recording `json:"dataset"`
}

// ClipsResponse for clip lists
type ClipsResponse struct {
	BaseResponse
	DatasetID string        `json:"dataset_id"`
	Clips     []models.Clip `json:"clips"`
	Count     int           `json:"count"`
}

// ExcludedClipsResponse carries the exclusion audit list
type ExcludedClipsResponse struct {
	BaseResponse
	DatasetID string                `json:"dataset_id"`
	Excluded  []models.ExcludedClip `json:"excluded"`
	Count     int                   `json:"count"`
}

// AnnotationsResponse for merged annotation lists
type AnnotationsResponse struct {
	BaseResponse
	DatasetID   string              `json:"dataset_id"`
	Annotations []models.Annotation `json:"annotations"`
	Count       int                 `json:"count"`
}

// JobResponse for async job status
type JobResponse struct {
	BaseResponse
	JobID    uint             `json:"jobId"`
	JobType  models.JobType   `json:"jobType"`
	State    models.JobStatus `json:"state"`
	Progress int              `json:"progress,omitempty"` // 0-100
	Error    string           `json:"error,omitempty"`
	Result   interface{}      `json:"result,omitempty"`
}
