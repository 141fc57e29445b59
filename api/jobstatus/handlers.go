package jobstatus

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/ieeg-clips/api/types"
	"github.com/killallgit/ieeg-clips/internal/models"
	"github.com/killallgit/ieeg-clips/internal/services/jobs"
)

// Get returns the status of a queued or finished job
//
// @Summary Get job status
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} types.JobResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Invalid job ID",
			})
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), uint(jobID))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, jobs.ErrJobNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to get job",
				Error:   err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: statusFor(job.Status)},
			JobID:        job.ID,
			JobType:      job.Type,
			State:        job.Status,
			Progress:     job.Progress,
			Error:        job.Error,
			Result:       job.Result,
		})
	}
}

func statusFor(s models.JobStatus) string {
	switch s {
	case models.JobStatusPending:
		return types.StatusQueued
	case models.JobStatusProcessing:
		return types.StatusProcessing
	case models.JobStatusFailed:
		return types.StatusFailed
	default:
		return types.StatusOK
	}
}
