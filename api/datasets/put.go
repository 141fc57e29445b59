package datasets

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/ieeg-clips/api/types"
	"github.com/killallgit/ieeg-clips/internal/models"
)

// DatasetRequest carries portal metadata for one recording segment
type DatasetRequest struct {
	RecordID     string     `json:"record_id"`
	HUPNumber    string     `json:"hup_number"`
	SegmentIndex int        `json:"segment_index"`
	SampleRate   float64    `json:"sample_rate_hz" binding:"required"`
	NumSamples   int64      `json:"num_samples"`
	StartTime    *time.Time `json:"start_time"`
	Timezone     string     `json:"timezone"`
}

// AnnotationsRequest replaces one source's annotations for a dataset
type AnnotationsRequest struct {
	Source      models.AnnotationSource `json:"source" binding:"required"`
	Annotations []AnnotationRequest     `json:"annotations"`
}

// AnnotationRequest is one annotation row in a replace request
type AnnotationRequest struct {
	Label     string   `json:"label" binding:"required"`
	Start     float64  `json:"start_seconds"`
	End       *float64 `json:"end_seconds"`
	Annotator string   `json:"annotator"`
	Layer     string   `json:"layer"`
}

// Put upserts portal metadata for a dataset
//
// @Summary Upsert dataset recording metadata
// @Tags datasets
// @Accept json
// @Produce json
// @Param id path string true "Dataset ID"
// @Param dataset body DatasetRequest true "Recording metadata"
// @Success 200 {object} types.SingleDatasetResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /api/v1/datasets/{id} [put]
func Put(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")

		var req DatasetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Invalid request body",
				Error:   err.Error(),
			})
			return
		}

		rec := &models.Recording{
			DatasetID:    datasetID,
			RecordID:     req.RecordID,
			HUPNumber:    req.HUPNumber,
			SegmentIndex: req.SegmentIndex,
			SampleRate:   req.SampleRate,
			NumSamples:   req.NumSamples,
			StartTime:    req.StartTime,
			Timezone:     req.Timezone,
		}

		if err := deps.RecordingService.SaveRecording(c.Request.Context(), rec); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to save dataset",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.SingleDatasetResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Dataset saved",
			},
			Dataset: rec,
		})
	}
}

// PutAnnotations replaces one source's annotations for a dataset
//
// @Summary Replace a source's annotations for a dataset
// @Tags datasets
// @Accept json
// @Produce json
// @Param id path string true "Dataset ID"
// @Param annotations body AnnotationsRequest true "Annotation set"
// @Success 200 {object} types.AnnotationsResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /api/v1/datasets/{id}/annotations [put]
func PutAnnotations(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		datasetID := c.Param("id")

		var req AnnotationsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Invalid request body",
				Error:   err.Error(),
			})
			return
		}

		anns := make([]models.Annotation, 0, len(req.Annotations))
		for _, a := range req.Annotations {
			end := a.Start
			if a.End != nil {
				end = *a.End
			}
			anns = append(anns, models.Annotation{
				DatasetID: datasetID,
				Label:     a.Label,
				Start:     a.Start,
				End:       end,
				Source:    req.Source,
				Annotator: a.Annotator,
				Layer:     a.Layer,
			})
		}

		if err := deps.AnnotationService.ReplaceSourceAnnotations(
			c.Request.Context(), datasetID, req.Source, anns); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to replace annotations",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.AnnotationsResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusOK,
				Message: "Annotations replaced",
			},
			DatasetID:   datasetID,
			Annotations: anns,
			Count:       len(anns),
		})
	}
}
