package annotations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/ieeg-clips/internal/models"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateAnnotation(ctx context.Context, annotation *models.Annotation) error {
	args := m.Called(ctx, annotation)
	return args.Error(0)
}

func (m *mockRepository) CreateAnnotations(ctx context.Context, annotations []models.Annotation) error {
	args := m.Called(ctx, annotations)
	return args.Error(0)
}

func (m *mockRepository) GetAnnotationByUUID(ctx context.Context, uuid string) (*models.Annotation, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Annotation), args.Error(1)
}

func (m *mockRepository) GetAnnotationsByDatasetID(ctx context.Context, datasetID string) ([]models.Annotation, error) {
	args := m.Called(ctx, datasetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Annotation), args.Error(1)
}

func (m *mockRepository) DeleteAnnotationsByDatasetID(ctx context.Context, datasetID string, source models.AnnotationSource) error {
	args := m.Called(ctx, datasetID, source)
	return args.Error(0)
}

func TestCreateAnnotation_Validation(t *testing.T) {
	tests := []struct {
		name       string
		annotation models.Annotation
		wantErr    string
	}{
		{
			name:       "missing label",
			annotation: models.Annotation{DatasetID: "HUP100_D1", Start: 0, End: 10},
			wantErr:    "label is required",
		},
		{
			name:       "missing dataset ID",
			annotation: models.Annotation{Label: "spike", Start: 0, End: 10},
			wantErr:    "dataset ID is required",
		},
		{
			name:       "negative start",
			annotation: models.Annotation{DatasetID: "HUP100_D1", Label: "spike", Start: -1, End: 10},
			wantErr:    "start offset must not be negative",
		},
		{
			name:       "inverted interval",
			annotation: models.Annotation{DatasetID: "HUP100_D1", Label: "spike", Start: 10, End: 5},
			wantErr:    "end offset must not precede start offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			service := NewService(repo)

			err := service.CreateAnnotation(context.Background(), &tt.annotation)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			repo.AssertNotCalled(t, "CreateAnnotation")
		})
	}
}

func TestCreateAnnotation_DefaultsApplied(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateAnnotation", mock.Anything, mock.Anything).Return(nil)
	service := NewService(repo)

	ann := &models.Annotation{DatasetID: "HUP100_D1", Label: "spike", Start: 5, End: 10}
	err := service.CreateAnnotation(context.Background(), ann)
	require.NoError(t, err)

	assert.Equal(t, models.SourcePortal, ann.Source, "source defaults to portal")
	assert.NotEmpty(t, ann.UUID)
	repo.AssertExpectations(t)
}

func TestCreateAnnotation_InstantAllowed(t *testing.T) {
	repo := new(mockRepository)
	repo.On("CreateAnnotation", mock.Anything, mock.Anything).Return(nil)
	service := NewService(repo)

	ann := &models.Annotation{DatasetID: "HUP100_D1", Label: "marker", Start: 42, End: 42}
	require.NoError(t, service.CreateAnnotation(context.Background(), ann))
	assert.True(t, ann.IsInstant())
}

func TestReplaceSourceAnnotations(t *testing.T) {
	repo := new(mockRepository)
	repo.On("DeleteAnnotationsByDatasetID", mock.Anything, "HUP100_D1", models.SourceManualValidation).Return(nil)
	repo.On("CreateAnnotations", mock.Anything, mock.MatchedBy(func(anns []models.Annotation) bool {
		if len(anns) != 2 {
			return false
		}
		for _, a := range anns {
			if a.DatasetID != "HUP100_D1" || a.Source != models.SourceManualValidation || a.UUID == "" {
				return false
			}
		}
		return true
	})).Return(nil)

	service := NewService(repo)
	err := service.ReplaceSourceAnnotations(context.Background(), "HUP100_D1", models.SourceManualValidation, []models.Annotation{
		{Label: models.LabelSeizure, Start: 100, End: 160},
		{Label: models.LabelSeizure, Start: 400, End: 430},
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReplaceSourceAnnotations_ValidatesBeforeDeleting(t *testing.T) {
	repo := new(mockRepository)
	service := NewService(repo)

	err := service.ReplaceSourceAnnotations(context.Background(), "HUP100_D1", models.SourcePortal, []models.Annotation{
		{Label: "", Start: 0, End: 10},
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "DeleteAnnotationsByDatasetID")
	repo.AssertNotCalled(t, "CreateAnnotations")
}

func TestGetMergedAnnotations(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetAnnotationsByDatasetID", mock.Anything, "HUP100_D1").Return([]models.Annotation{
		{Label: models.LabelSeizure, Start: 100, End: 160, Source: models.SourcePortal},
		{Label: models.LabelSeizure, Start: 105, End: 150, Source: models.SourceManualValidation},
		{Label: "spike", Start: 10, End: 20, Source: models.SourcePortal},
	}, nil)

	service := NewService(repo)
	merged, err := service.GetMergedAnnotations(context.Background(), "HUP100_D1")
	require.NoError(t, err)

	require.Len(t, merged, 2)
	assert.Equal(t, "spike", merged[0].Label)
	assert.Equal(t, models.SourceManualValidation, merged[1].Source)
	repo.AssertExpectations(t)
}
