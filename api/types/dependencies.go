package types

import (
	"github.com/killallgit/ieeg-clips/internal/database"
	"github.com/killallgit/ieeg-clips/internal/services/annotations"
	"github.com/killallgit/ieeg-clips/internal/services/clips"
	"github.com/killallgit/ieeg-clips/internal/services/jobs"
	"github.com/killallgit/ieeg-clips/internal/services/pipeline"
	"github.com/killallgit/ieeg-clips/internal/services/recordings"
	"github.com/killallgit/ieeg-clips/internal/services/workers"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	RecordingService  recordings.Service
	AnnotationService annotations.Service
	ClipService       clips.Service
	JobService        jobs.Service
	WorkerPool        *workers.WorkerPool
	PipelineConfig    pipeline.Config
}
