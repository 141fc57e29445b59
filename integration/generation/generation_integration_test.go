package generation_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/annotations"
	"github.com/killallgit/ieeg-clips/internal/services/clips"
	"github.com/killallgit/ieeg-clips/internal/services/export"
	"github.com/killallgit/ieeg-clips/internal/services/jobs"
	"github.com/killallgit/ieeg-clips/internal/services/pipeline"
	"github.com/killallgit/ieeg-clips/internal/services/recordings"
	"github.com/killallgit/ieeg-clips/internal/services/workers"
)

// generationSuite wires the real services over an in-memory database with
// a running worker pool, end to end.
type generationSuite struct {
	db                *gorm.DB
	jobService        jobs.Service
	recordingService  recordings.Service
	annotationService annotations.Service
	clipService       clips.Service
	workerPool        *workers.WorkerPool
}

func setupGenerationSuite(t *testing.T) *generationSuite {
	t.Helper()

	// A file-backed database: workers claim jobs over separate pool
	// connections, which an in-memory sqlite would not share.
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	err = db.AutoMigrate(&models.Recording{}, &models.Annotation{}, &models.Clip{}, &models.Job{})
	require.NoError(t, err, "Failed to migrate test database")

	jobService := jobs.NewService(jobs.NewRepository(db))
	recordingService := recordings.NewService(recordings.NewRepository(db))
	annotationService := annotations.NewService(annotations.NewRepository(db))
	clipService := clips.NewService(clips.NewRepository(db))

	workerPool := workers.NewWorkerPool(jobService, 2, 50*time.Millisecond)
	processor := workers.NewGenerationProcessor(
		jobService, recordingService, annotationService, clipService,
		export.NewWriter(t.TempDir()), pipeline.DefaultConfig())
	workerPool.RegisterProcessor(processor)

	require.NoError(t, workerPool.Start(context.Background()))
	t.Cleanup(workerPool.Stop)

	return &generationSuite{
		db:                db,
		jobService:        jobService,
		recordingService:  recordingService,
		annotationService: annotationService,
		clipService:       clipService,
		workerPool:        workerPool,
	}
}

func (s *generationSuite) waitForJob(t *testing.T, jobID uint) *models.Job {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job, err := s.jobService.GetJob(context.Background(), jobID)
		require.NoError(t, err)
		if job.IsTerminal() {
			return job
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("job %d did not finish in time", jobID)
	return nil
}

func TestGenerationJob_EndToEnd(t *testing.T) {
	suite := setupGenerationSuite(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, suite.recordingService.SaveRecording(ctx, &models.Recording{
		DatasetID:  "HUP100_phaseII_D1",
		SampleRate: 500,
		NumSamples: 500 * 7325,
		StartTime:  &start,
	}))
	require.NoError(t, suite.annotationService.ReplaceSourceAnnotations(ctx,
		"HUP100_phaseII_D1", models.SourcePortal, []models.Annotation{
			{Label: models.LabelSeizure, Start: 3600, End: 3660},
		}))

	job, err := suite.jobService.EnqueueUniqueJob(ctx, models.JobTypeClipGeneration,
		models.JobPayload{"dataset_id": "HUP100_phaseII_D1"}, "dataset_id")
	require.NoError(t, err)

	done := suite.waitForJob(t, job.ID)
	require.Equal(t, models.JobStatusCompleted, done.Status, "job error: %s", done.Error)
	assert.EqualValues(t, 123, done.Result["clips"])

	stored, err := suite.clipService.GetClips(ctx, "HUP100_phaseII_D1")
	require.NoError(t, err)
	require.Len(t, stored, 123)
	assert.Equal(t, 0, stored[0].Index)
	assert.Equal(t, 7325.0, stored[122].End)

	interictal, err := suite.clipService.GetInterictalClips(ctx, "HUP100_phaseII_D1")
	require.NoError(t, err)
	// Seizure at [3600,3660) with a one-hour buffer leaves only the last
	// two windows.
	require.Len(t, interictal, 2)
	assert.Equal(t, 121, interictal[0].Index)
	assert.Equal(t, 122, interictal[1].Index)
}

func TestGenerationJob_Rerun(t *testing.T) {
	suite := setupGenerationSuite(t)
	ctx := context.Background()

	require.NoError(t, suite.recordingService.SaveRecording(ctx, &models.Recording{
		DatasetID:  "HUP101_D1",
		SampleRate: 512,
		NumSamples: 512 * 300,
	}))

	job, err := suite.jobService.EnqueueUniqueJob(ctx, models.JobTypeClipGeneration,
		models.JobPayload{"dataset_id": "HUP101_D1"}, "dataset_id")
	require.NoError(t, err)
	first := suite.waitForJob(t, job.ID)
	require.Equal(t, models.JobStatusCompleted, first.Status)

	// A second run replaces the clip sequence instead of duplicating it.
	job2, err := suite.jobService.EnqueueUniqueJob(ctx, models.JobTypeClipGeneration,
		models.JobPayload{"dataset_id": "HUP101_D1"}, "dataset_id")
	require.NoError(t, err)
	require.NotEqual(t, job.ID, job2.ID)
	second := suite.waitForJob(t, job2.ID)
	require.Equal(t, models.JobStatusCompleted, second.Status)

	stored, err := suite.clipService.GetClips(ctx, "HUP101_D1")
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestGenerationJob_FailsOnBadMetadata(t *testing.T) {
	suite := setupGenerationSuite(t)
	ctx := context.Background()

	// SaveRecording validates metadata, so plant the bad row directly.
	require.NoError(t, suite.db.Create(&models.Recording{
		DatasetID:  "HUP102_D1",
		SampleRate: -1,
		NumSamples: 1000,
	}).Error)

	job, err := suite.jobService.EnqueueUniqueJob(ctx, models.JobTypeClipGeneration,
		models.JobPayload{"dataset_id": "HUP102_D1"}, "dataset_id")
	require.NoError(t, err)

	done := suite.waitForJob(t, job.ID)
	assert.Equal(t, models.JobStatusFailed, done.Status)
	assert.Contains(t, done.Error, "INVALID_METADATA")
}
