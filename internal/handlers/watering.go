package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"plant_monitor/internal/evaluator"
	"plant_monitor/internal/models"
	"plant_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusWatered     = "watered"
	statusIntervalSet = "interval_set"

	errWaterNow    = "failed to record watering"
	errSetInterval = "failed to set interval"
	errLimit       = "invalid 'limit'; use a positive integer"
)

// WateringResponse is the watering view returned by GET /api/v1/watering.
type WateringResponse struct {
	LastWateredAt time.Time   `json:"last_watered_at"`
	IntervalHours int         `json:"interval_hours"`
	NextDueAt     time.Time   `json:"next_due_at"`
	Due           bool        `json:"due"`
	History       []time.Time `json:"history"`
}

// IntervalRequest is the body of PUT /api/v1/watering/interval.
type IntervalRequest struct {
	Hours int `json:"hours" binding:"required" example:"24"`
}

func (h *Handler) wateringView(st models.WateringState, due bool, limit int) WateringResponse {
	return WateringResponse{
		LastWateredAt: st.LastWateredAt,
		IntervalHours: st.IntervalHours,
		NextDueAt:     evaluator.NextDue(st),
		Due:           due,
		History:       st.Tail(limit),
	}
}

// @Summary      Watering state
// @Tags         watering
// @Produce      json
// @Param        limit  query     int  false  "History entries to return"  example(5)
// @Success      200    {object}  WateringResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/watering [get]
// @Security     BearerAuth
func (h *Handler) getWatering(c *gin.Context) {
	limit := h.historyDisplay
	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimit})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, h.wateringView(h.services.State(), h.services.Due(), limit))
}

// @Summary      Water now
// @Description  Records a watering regardless of whether one is due
// @Tags         watering
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, watering"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/watering/water [post]
// @Security     BearerAuth
func (h *Handler) waterNow(c *gin.Context) {
	st, err := h.services.WaterNow(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errWaterNow, "watering_water_now_failed", err, "user_id", operatorID(c))
		return
	}
	if h.log != nil {
		h.log.Infow("watering_manual", "user_id", operatorID(c), "at", st.LastWateredAt)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   statusWatered,
		"watering": h.wateringView(st, h.services.Due(), h.historyDisplay),
	})
}

// @Summary      Set watering interval
// @Description  Interval in whole hours, 1 to 72
// @Tags         watering
// @Accept       json
// @Produce      json
// @Param        body  body      IntervalRequest  true  "Interval payload"
// @Success      200   {object}  map[string]interface{}  "status, watering"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/watering/interval [put]
// @Security     BearerAuth
func (h *Handler) setInterval(c *gin.Context) {
	var req IntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	st, err := h.services.SetInterval(c.Request.Context(), req.Hours)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInterval) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSetInterval, "watering_set_interval_failed", err, "hours", req.Hours, "user_id", operatorID(c))
		return
	}
	if h.log != nil {
		h.log.Infow("watering_interval_set", "user_id", operatorID(c), "hours", st.IntervalHours)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   statusIntervalSet,
		"watering": h.wateringView(st, h.services.Due(), h.historyDisplay),
	})
}
