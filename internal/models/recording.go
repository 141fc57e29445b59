package models

import (
	"time"

	"gorm.io/gorm"
)

// Recording represents the metadata of a single portal recording segment.
// Sample counts and rates come from the portal; the absolute start time is
// nullable because many datasets only carry a validated start time after
// manual review.
type Recording struct {
	gorm.Model
	DatasetID    string  `json:"dataset_id" gorm:"uniqueIndex;not null;size:255"`
	RecordID     string  `json:"record_id" gorm:"index;size:64"` // Subject record ID, e.g. "sub-RID0596"
	HUPNumber    string  `json:"hup_number,omitempty" gorm:"size:32"`
	SegmentIndex int     `json:"segment_index" gorm:"default:1"` // D-number within a multi-day recording
	SampleRate   float64 `json:"sample_rate_hz" gorm:"not null"`
	NumSamples   int64   `json:"num_samples" gorm:"not null"`

	// Absolute wall-clock start of the recording. NULL when neither the
	// portal nor manual validation provided one.
	StartTime *time.Time `json:"start_time,omitempty"`

	// IANA zone name the start time should be interpreted in.
	Timezone string `json:"timezone" gorm:"size:64"`
}

// TableName returns the table name for the Recording model
func (Recording) TableName() string {
	return "recordings"
}

// DurationSeconds derives the recording length from sample count and rate.
// Callers must validate the metadata first (see timeline.Resolve); a zero
// sample rate here would divide by zero.
func (r *Recording) DurationSeconds() float64 {
	return float64(r.NumSamples) / r.SampleRate
}
