package handlers

import (
	"errors"
	"net/http"

	"plant_monitor/internal/models"
	"plant_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetSnapshot     = "failed to load snapshot"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// ReadingRequest documents the advisory payload for Swagger.
type ReadingRequest struct {
	Temperature float64 `json:"temperature" example:"24.5"`
	Humidity    float64 `json:"humidity" example:"55"`
	// Percentage (0..100) or "wet"/"dry" for a binary probe
	Moisture interface{} `json:"moisture" swaggertype:"string" example:"42"`
	Light    float64     `json:"light" example:"500"`
	PH       float64     `json:"ph" example:"6.5"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Latest snapshot
// @Description  Latest reading with its advisory and the watering-due flag
// @Tags         plant
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string  "nothing sampled yet"
// @Router       /api/v1/plant/snapshot [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	snap, err := h.services.Latest()
	if err != nil {
		if errors.Is(err, service.ErrNoReading) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSnapshot, "plant_snapshot_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Evaluate a reading
// @Description  Computes the advisory for an arbitrary reading without storing it
// @Tags         plant
// @Accept       json
// @Produce      json
// @Param        body  body      ReadingRequest  true  "Sensor reading"
// @Success      200   {object}  models.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/plant/advisory [post]
// @Security     BearerAuth
func (h *Handler) evaluateAdvisory(c *gin.Context) {
	var r models.SensorReading
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.services.Evaluate(r))
}
