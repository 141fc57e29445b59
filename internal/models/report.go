package models

import "fmt"

// AnomalyCode classifies a recoverable problem encountered while
// generating clips for one dataset.
type AnomalyCode string

const (
	AnomalyRangeParse          AnomalyCode = "range_parse"
	AnomalyTimestampResolution AnomalyCode = "timestamp_resolution"
)

// Anomaly is one recoverable problem. Fatal errors abort a dataset's
// pipeline instead and never appear here.
type Anomaly struct {
	Code    AnomalyCode `json:"code"`
	Message string      `json:"message"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s", a.Code, a.Message)
}

// GenerationReport consolidates the recoverable anomalies of one dataset
// run, so a caller processing hundreds of datasets gets one list per
// dataset rather than a stream of interruptions.
type GenerationReport struct {
	DatasetID string    `json:"dataset_id"`
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// Add appends an anomaly to the report.
func (r *GenerationReport) Add(code AnomalyCode, format string, args ...interface{}) {
	r.Anomalies = append(r.Anomalies, Anomaly{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Clean reports whether the run finished without anomalies.
func (r *GenerationReport) Clean() bool {
	return len(r.Anomalies) == 0
}
