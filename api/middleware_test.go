package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/ieeg-clips/api/types"
)

func TestPerClientRateLimit_ExhaustedBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	limiters := &sync.Map{}
	stop := make(chan struct{})
	defer close(stop)
	var once sync.Once

	router.Use(PerClientRateLimit(limiters, stop, &once, 1, 2))
	router.GET("/datasets", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	var lastBody []byte
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
		lastBody = w.Body.Bytes()
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(lastBody, &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "RATE_LIMITED", resp.Error)
	assert.Contains(t, resp.Message, "dataset")
}

func TestPerClientRateLimit_ZeroConfigFallsBackToDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	limiters := &sync.Map{}
	stop := make(chan struct{})
	defer close(stop)
	var once sync.Once

	router.Use(PerClientRateLimit(limiters, stop, &once, 0, 0))
	router.GET("/datasets", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestSizeLimit_RejectsOversizeBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestSizeLimit(16))
	router.POST("/datasets", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader(strings.Repeat("x", 64)))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/datasets", strings.NewReader("ok"))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestSizeLimit_GetUnlimited(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestSizeLimit(16))
	router.GET("/datasets", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
