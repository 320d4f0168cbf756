package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"purposeful/services/scheduling"
	"purposeful/utils"
)

// SchedulingHandler serves the public availability endpoints that back the
// booking calendar.
type SchedulingHandler struct {
	Service scheduling.SchedulingService
}

// GetAvailableSlotsHandler handles GET /api/scheduling/slots.
// Query: coachId, date (2006-01-02), duration (minutes).
func (h *SchedulingHandler) GetAvailableSlotsHandler(c *gin.Context) {
	coachID := c.Query("coachId")
	date := c.Query("date")
	if coachID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "coachId and date are required")
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "duration must be a number of minutes")
		return
	}

	slots, err := h.Service.GetAvailableSlots(c.Request.Context(), coachID, date, duration)
	if err != nil {
		utils.GetLogger().Warn("failed to resolve slots",
			zap.String("coachId", coachID), zap.String("date", date), zap.Error(err))
		utils.JSONError(c, utils.HTTPStatus(err), "Could not resolve availability", err.Error())
		return
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	c.JSON(http.StatusOK, gin.H{
		"coachId": coachID,
		"date":    date,
		"slots":   out,
	})
}

// GetWeeklyAvailabilityHandler handles GET /api/scheduling/weekly.
// Query: coachId, duration (minutes).
func (h *SchedulingHandler) GetWeeklyAvailabilityHandler(c *gin.Context) {
	coachID := c.Query("coachId")
	if coachID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "coachId is required")
		return
	}
	duration, err := strconv.Atoi(c.DefaultQuery("duration", "60"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "duration must be a number of minutes")
		return
	}

	weekly, err := h.Service.GetWeeklyAvailability(c.Request.Context(), coachID, duration)
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not resolve weekly availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, weekly)
}
