package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnotationSource identifies where an annotation came from. Sources form
// an explicit precedence order: manual validation corrects portal data, and
// derived annotations rank below both.
type AnnotationSource string

const (
	SourcePortal           AnnotationSource = "portal"
	SourceManualValidation AnnotationSource = "manual-validation"
	SourceDerived          AnnotationSource = "derived"
)

// Priority returns the precedence rank of a source (higher wins).
func (s AnnotationSource) Priority() int {
	switch s {
	case SourceManualValidation:
		return 2
	case SourcePortal:
		return 1
	default:
		return 0
	}
}

// LabelSeizure is the canonical event label for seizure annotations.
const LabelSeizure = "seizure"

// Annotation represents a labeled time interval (or instant) within a
// recording. Offsets are seconds relative to the recording start.
type Annotation struct {
	gorm.Model
	UUID      string           `json:"uuid" gorm:"uniqueIndex"`
	DatasetID string           `json:"dataset_id" gorm:"not null;index;size:255"`
	Label     string           `json:"label" gorm:"not null;index;size:100"`
	Start     float64          `json:"start_offset_seconds" gorm:"not null;column:start_offset_seconds"`
	End       float64          `json:"end_offset_seconds" gorm:"not null;column:end_offset_seconds"`
	Source    AnnotationSource `json:"source" gorm:"not null;size:32;default:portal"`

	// Free-text provenance from the portal layer or sheet, kept for audit.
	Annotator string `json:"annotator,omitempty" gorm:"size:100"`
	Layer     string `json:"layer,omitempty" gorm:"size:100"`
}

// BeforeCreate generates a UUID before creating a new annotation
func (a *Annotation) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Annotation model
func (Annotation) TableName() string {
	return "annotations"
}

// IsInstant reports whether the annotation marks a single point in time.
func (a *Annotation) IsInstant() bool {
	return a.Start == a.End
}

// IsSeizure reports whether the annotation carries the seizure label.
func (a *Annotation) IsSeizure() bool {
	return a.Label == LabelSeizure
}

// Overlaps applies the half-open interval intersection test against the
// window [start, end). Instants overlap iff start <= t < end.
func (a *Annotation) Overlaps(start, end float64) bool {
	if a.IsInstant() {
		return a.Start >= start && a.Start < end
	}
	return a.Start < end && a.End > start
}

// AnnotationKey identifies an annotation for deduplication purposes.
type AnnotationKey struct {
	Label  string
	Start  float64
	End    float64
	Source AnnotationSource
}

// Key returns the deduplication key (label, start, end, source).
func (a *Annotation) Key() AnnotationKey {
	return AnnotationKey{Label: a.Label, Start: a.Start, End: a.End, Source: a.Source}
}
