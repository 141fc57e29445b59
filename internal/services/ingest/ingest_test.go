package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/segments"
	"github.com/killallgit/ieeg-clips/internal/services/validation"
)

type fakeManifest struct {
	rows []segments.Row
	err  error
}

func (f *fakeManifest) FetchManifest(ctx context.Context) ([]segments.Row, error) {
	return f.rows, f.err
}

type fakeValidation struct {
	anns      []models.Annotation
	overrides []validation.StartTimeOverride
}

func (f *fakeValidation) FetchSeizureAnnotations(ctx context.Context) ([]models.Annotation, error) {
	return f.anns, nil
}

func (f *fakeValidation) FetchStartTimeOverrides(ctx context.Context) ([]validation.StartTimeOverride, error) {
	return f.overrides, nil
}

type mockRecordingService struct {
	mock.Mock
}

func (m *mockRecordingService) SaveRecording(ctx context.Context, recording *models.Recording) error {
	args := m.Called(ctx, recording)
	return args.Error(0)
}

func (m *mockRecordingService) GetRecording(ctx context.Context, datasetID string) (*models.Recording, error) {
	args := m.Called(ctx, datasetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recording), args.Error(1)
}

func (m *mockRecordingService) ListRecordings(ctx context.Context) ([]models.Recording, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recording), args.Error(1)
}

func (m *mockRecordingService) OverrideStartTime(ctx context.Context, datasetID string, start time.Time) error {
	args := m.Called(ctx, datasetID, start)
	return args.Error(0)
}

type mockAnnotationService struct {
	mock.Mock
}

func (m *mockAnnotationService) CreateAnnotation(ctx context.Context, annotation *models.Annotation) error {
	args := m.Called(ctx, annotation)
	return args.Error(0)
}

func (m *mockAnnotationService) ReplaceSourceAnnotations(ctx context.Context, datasetID string, source models.AnnotationSource, annotations []models.Annotation) error {
	args := m.Called(ctx, datasetID, source, annotations)
	return args.Error(0)
}

func (m *mockAnnotationService) GetMergedAnnotations(ctx context.Context, datasetID string) ([]models.Annotation, error) {
	args := m.Called(ctx, datasetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Annotation), args.Error(1)
}

func TestSync_LinksExpandedDatasets(t *testing.T) {
	manifest := &fakeManifest{rows: []segments.Row{
		{RecordID: "sub-RID0031", PortalName: "HUP100_phaseII_D1-D2", HUPNumber: "100"},
		{RecordID: "sub-RID0042", PortalName: "HUP101_Dx-D2"},
	}}

	recSvc := new(mockRecordingService)
	recSvc.On("GetRecording", mock.Anything, "HUP100_phaseII_D1").
		Return(&models.Recording{DatasetID: "HUP100_phaseII_D1", SampleRate: 512, NumSamples: 1000}, nil)
	recSvc.On("GetRecording", mock.Anything, "HUP100_phaseII_D2").
		Return(nil, errors.New("recording not found"))
	recSvc.On("SaveRecording", mock.Anything, mock.MatchedBy(func(rec *models.Recording) bool {
		return rec.DatasetID == "HUP100_phaseII_D1" &&
			rec.RecordID == "sub-RID0031" &&
			rec.HUPNumber == "100" &&
			rec.SegmentIndex == 1
	})).Return(nil)

	svc := NewService(manifest, nil, recSvc, new(mockAnnotationService))
	report, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.ManifestRows)
	assert.Equal(t, 2, report.ExpandedDatasets)
	assert.Equal(t, 1, report.LinkedDatasets)

	// One anomaly for the malformed range token, one for the dataset
	// without portal metadata.
	require.Len(t, report.Anomalies, 2)
	assert.Equal(t, models.AnomalyRangeParse, report.Anomalies[0].Code)
	recSvc.AssertExpectations(t)
}

func TestSync_ReplacesValidatedSeizuresPerDataset(t *testing.T) {
	val := &fakeValidation{anns: []models.Annotation{
		{DatasetID: "HUP100_D2", Label: models.LabelSeizure, Start: 200, End: 260, Source: models.SourceManualValidation},
		{DatasetID: "HUP100_D1", Label: models.LabelSeizure, Start: 100, End: 160, Source: models.SourceManualValidation},
		{DatasetID: "HUP100_D1", Label: models.LabelSeizure, Start: 400, End: 420, Source: models.SourceManualValidation},
	}}

	annSvc := new(mockAnnotationService)
	annSvc.On("ReplaceSourceAnnotations", mock.Anything, "HUP100_D1", models.SourceManualValidation,
		mock.MatchedBy(func(anns []models.Annotation) bool { return len(anns) == 2 })).Return(nil)
	annSvc.On("ReplaceSourceAnnotations", mock.Anything, "HUP100_D2", models.SourceManualValidation,
		mock.MatchedBy(func(anns []models.Annotation) bool { return len(anns) == 1 })).Return(nil)

	svc := NewService(nil, val, new(mockRecordingService), annSvc)
	report, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.SeizureDatasets)
	annSvc.AssertExpectations(t)
}

func TestSync_StartOverrideFailureIsRecoverable(t *testing.T) {
	at := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	val := &fakeValidation{overrides: []validation.StartTimeOverride{
		{DatasetID: "HUP100_D1", Start: at},
		{DatasetID: "HUP999_D1", Start: at},
	}}

	recSvc := new(mockRecordingService)
	recSvc.On("OverrideStartTime", mock.Anything, "HUP100_D1", at).Return(nil)
	recSvc.On("OverrideStartTime", mock.Anything, "HUP999_D1", at).Return(errors.New("recording not found"))

	svc := NewService(nil, val, recSvc, new(mockAnnotationService))
	report, err := svc.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.StartOverrides)
	require.Len(t, report.Anomalies, 1)
	assert.Contains(t, report.Anomalies[0].Message, "HUP999_D1")
}

func TestSync_NilFetchersSkip(t *testing.T) {
	svc := NewService(nil, nil, new(mockRecordingService), new(mockAnnotationService))
	report, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.ManifestRows)
	assert.Empty(t, report.Anomalies)
}

func TestSync_ManifestFetchErrorIsFatal(t *testing.T) {
	manifest := &fakeManifest{err: errors.New("redcap unavailable")}
	svc := NewService(manifest, nil, new(mockRecordingService), new(mockAnnotationService))

	report, err := svc.Sync(context.Background())
	assert.Nil(t, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching manifest")
}
