package datasets

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/ieeg-clips/api/types"
	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/interictal"
	"github.com/killallgit/ieeg-clips/internal/services/recordings"
)

// List returns all known datasets
//
// @Summary List datasets
// @Tags datasets
// @Produce json
// @Success 200 {object} types.DatasetsResponse
// @Router /api/v1/datasets [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := deps.RecordingService.ListRecordings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to list datasets",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.DatasetsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Datasets:     recs,
			Count:        len(recs),
		})
	}
}

// GetByID returns one dataset's recording metadata
//
// @Summary Get dataset metadata
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} types.SingleDatasetResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/datasets/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")

		rec, err := deps.RecordingService.GetRecording(c.Request.Context(), datasetID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, recordings.ErrRecordingNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get dataset",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.SingleDatasetResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Dataset:      rec,
		})
	}
}

// GetClips returns all generated clips for a dataset
//
// @Summary List clips for a dataset
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} types.ClipsResponse
// @Router /api/v1/datasets/{id}/clips [get]
func GetClips(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")

		clips, err := deps.ClipService.GetClips(c.Request.Context(), datasetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get clips",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.ClipsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			DatasetID:    datasetID,
			Clips:        clips,
			Count:        len(clips),
		})
	}
}

// GetInterictalClips returns the interictal subset for a dataset
//
// @Summary List interictal clips for a dataset
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} types.ClipsResponse
// @Router /api/v1/datasets/{id}/clips/interictal [get]
func GetInterictalClips(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")

		clips, err := deps.ClipService.GetInterictalClips(c.Request.Context(), datasetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get interictal clips",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.ClipsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			DatasetID:    datasetID,
			Clips:        clips,
			Count:        len(clips),
		})
	}
}

// GetExcludedClips returns the exclusion audit list for a dataset. The
// exclusion reason is recomputed from the stored clips and the merged
// seizure annotations, the same way generation derived it.
//
// @Summary List excluded clips with exclusion reasons
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} types.ExcludedClipsResponse
// @Router /api/v1/datasets/{id}/clips/excluded [get]
func GetExcludedClips(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")
		ctx := c.Request.Context()

		clips, err := deps.ClipService.GetClips(ctx, datasetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get clips",
				Error:   err.Error(),
			})
			return
		}

		anns, err := deps.AnnotationService.GetMergedAnnotations(ctx, datasetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get annotations",
				Error:   err.Error(),
			})
			return
		}

		var seizures []models.Annotation
		for _, a := range anns {
			if a.IsSeizure() {
				seizures = append(seizures, a)
			}
		}

		sel := interictal.Select(clips, seizures, deps.PipelineConfig.BufferSeconds)

		c.JSON(http.StatusOK, types.ExcludedClipsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			DatasetID:    datasetID,
			Excluded:     sel.Excluded,
			Count:        len(sel.Excluded),
		})
	}
}

// GetAnnotations returns the merged annotation set for a dataset
//
// @Summary List merged annotations for a dataset
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} types.AnnotationsResponse
// @Router /api/v1/datasets/{id}/annotations [get]
func GetAnnotations(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")

		anns, err := deps.AnnotationService.GetMergedAnnotations(c.Request.Context(), datasetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get annotations",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.AnnotationsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			DatasetID:    datasetID,
			Annotations:  anns,
			Count:        len(anns),
		})
	}
}

// Generate queues a clip generation job for a dataset
//
// @Summary Trigger clip generation for a dataset
// @Tags datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 202 {object} types.JobResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/datasets/{id}/generate [post]
func Generate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")
		ctx := c.Request.Context()

		if _, err := deps.RecordingService.GetRecording(ctx, datasetID); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, recordings.ErrRecordingNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get dataset",
				Error:   err.Error(),
			})
			return
		}

		job, err := deps.JobService.EnqueueUniqueJob(ctx, models.JobTypeClipGeneration,
			models.JobPayload{"dataset_id": datasetID}, "dataset_id")
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to queue generation",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusQueued,
				Message: "Clip generation queued",
			},
			JobID:    job.ID,
			JobType:  job.Type,
			State:    job.Status,
			Progress: job.Progress,
		})
	}
}
