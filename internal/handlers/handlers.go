// Package handlers provides HTTP request handlers
package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"celestial-api/internal/domain"
	"celestial-api/internal/ephemeris"
	"celestial-api/internal/frame"
	"celestial-api/internal/services"
	"celestial-api/internal/timescale"
)

// Handler holds all service dependencies
type Handler struct {
	MoonService *services.MoonService
	MarsService *services.MarsService
}

// NewHandler creates a new handler with services
func NewHandler(moon *services.MoonService, mars *services.MarsService) *Handler {
	return &Handler{
		MoonService: moon,
		MarsService: mars,
	}
}

// Health handles health check requests
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Health{
		Status: "ok",
		Now:    time.Now().UTC(),
	})
}

// parseObservation binds the optional request body. An absent or empty
// body is a valid request meaning "here and now, geocentric".
func parseObservation(c *gin.Context) (domain.ObservationRequest, bool) {
	var req domain.ObservationRequest
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse("request body must be a valid JSON object"))
		return req, false
	}
	return req, true
}

// resolveRequest turns the bound request into the time context and
// observer frame the services consume, answering 400 on invalid input.
func resolveRequest(c *gin.Context, req domain.ObservationRequest) (timescale.Context, frame.Frame, bool) {
	tc, err := timescale.Normalize(req.Timestamp, time.Now)
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse(err.Error()))
		return timescale.Context{}, frame.Frame{}, false
	}

	f, err := frame.Build(req.Latitude, req.Longitude, req.Height)
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse(err.Error()))
		return timescale.Context{}, frame.Frame{}, false
	}
	return tc, f, true
}

// GetMoon handles Moon observation requests
func (h *Handler) GetMoon(c *gin.Context) {
	req, ok := parseObservation(c)
	if !ok {
		return
	}
	tc, f, ok := resolveRequest(c, req)
	if !ok {
		return
	}

	report, err := h.MoonService.Compute(tc, f)
	if err != nil {
		respondComputeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMars handles Mars observation requests
func (h *Handler) GetMars(c *gin.Context) {
	req, ok := parseObservation(c)
	if !ok {
		return
	}
	tc, f, ok := resolveRequest(c, req)
	if !ok {
		return
	}

	report, err := h.MarsService.Compute(tc, f)
	if err != nil {
		respondComputeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func respondComputeError(c *gin.Context, err error) {
	if errors.Is(err, ephemeris.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, domain.ErrorResponse(err.Error()))
}

// SetupRoutes configures all routes
func SetupRoutes(r *gin.Engine, h *Handler) {
	// Health check
	r.GET("/health", h.Health)

	// Body endpoints; GET serves the default here-and-now request
	r.GET("/api/moon", h.GetMoon)
	r.POST("/api/moon", h.GetMoon)
	r.GET("/api/mars", h.GetMars)
	r.POST("/api/mars", h.GetMars)
}
