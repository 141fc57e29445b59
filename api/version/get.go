package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Get handles version requests
//
// @Summary Service version
// @Tags version
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "iEEG Clip Engine API",
			"version":     "1.0.0",
			"description": "API for generating and serving iEEG recording clips",
			"status":      "running",
		})
	}
}
