package datasets

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/ieeg-clips/api/types"
)

// RegisterRoutes registers dataset routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", List(deps))
	router.GET("/:id", GetByID(deps))
	router.PUT("/:id", Put(deps))
	router.PUT("/:id/annotations", PutAnnotations(deps))
	router.GET("/:id/clips", GetClips(deps))
	router.GET("/:id/clips/interictal", GetInterictalClips(deps))
	router.GET("/:id/clips/excluded", GetExcludedClips(deps))
	router.GET("/:id/annotations", GetAnnotations(deps))
	router.POST("/:id/generate", Generate(deps))
}
