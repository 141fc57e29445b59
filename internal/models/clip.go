package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// DiurnalClass labels a clip by the local clock time of its start.
type DiurnalClass string

const (
	DiurnalDay     DiurnalClass = "day"
	DiurnalNight   DiurnalClass = "night"
	DiurnalUnknown DiurnalClass = "unknown"
)

// LabelSet is a sorted, deduplicated set of annotation labels attached to a
// clip. Stored as a JSON column.
type LabelSet []string

// Value implements driver.Valuer interface for LabelSet
func (l LabelSet) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for LabelSet
func (l *LabelSet) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, l)
}

// Contains reports whether the set carries the given label.
func (l LabelSet) Contains(label string) bool {
	for _, s := range l {
		if s == label {
			return true
		}
	}
	return false
}

// Clip represents one fixed-length analysis window over a recording. Clips
// are regenerated on every run; (DatasetID, Index) is their only identity.
type Clip struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DatasetID string `json:"dataset_id" gorm:"not null;index:idx_clips_dataset_index,unique;size:255"`
	Index     int    `json:"index" gorm:"not null;column:clip_index;index:idx_clips_dataset_index,unique"`

	// Window bounds in seconds from the recording start, half-open [Start, End).
	Start float64 `json:"start_offset_seconds" gorm:"not null;column:start_offset_seconds"`
	End   float64 `json:"end_offset_seconds" gorm:"not null;column:end_offset_seconds"`

	// Absolute wall-clock start, NULL when the recording start time could
	// not be resolved.
	AbsoluteStart *time.Time `json:"absolute_start,omitempty"`

	Labels     LabelSet     `json:"labels" gorm:"type:json"`
	Diurnal    DiurnalClass `json:"diurnal_class" gorm:"size:16;default:unknown"`
	Interictal bool         `json:"is_interictal" gorm:"default:false;index"`
}

// TableName returns the table name for the Clip model
func (Clip) TableName() string {
	return "clips"
}

// DurationSeconds returns the window length; the last clip of a recording
// may be shorter than the configured window.
func (c *Clip) DurationSeconds() float64 {
	return c.End - c.Start
}

// HasEvents reports whether any annotation overlapped the clip window.
func (c *Clip) HasEvents() bool {
	return len(c.Labels) > 0
}

// ExclusionReason says why a clip was rejected from the interictal subset.
type ExclusionReason string

const (
	// ExclusionSeizureOverlap marks clips whose own window intersects a
	// seizure annotation.
	ExclusionSeizureOverlap ExclusionReason = "seizure-overlap"
	// ExclusionBufferOverlap marks clips that only intersect the temporal
	// exclusion buffer around a seizure.
	ExclusionBufferOverlap ExclusionReason = "buffer-overlap"
)

// ExcludedClip records a clip rejected from the interictal subset together
// with the reason, for audit. Under-inclusion in interictal baselines is a
// correctness-sensitive research concern, so the audit trail is mandatory.
type ExcludedClip struct {
	Clip   Clip            `json:"clip"`
	Reason ExclusionReason `json:"reason"`
}
