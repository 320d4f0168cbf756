package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"purposeful/services/scheduling"
	"purposeful/services/socialproof"
	"purposeful/utils"
)

// SocialProofHandler serves the marketing pages' activity, recent-booking
// and urgency widgets.
type SocialProofHandler struct {
	Proof     *socialproof.Service
	Scheduler scheduling.SchedulingService
}

// PageActivityHandler handles GET /api/social-proof/activity?pageType=...
func (h *SocialProofHandler) PageActivityHandler(c *gin.Context) {
	activity, err := h.Proof.GetPageActivity(c.Query("pageType"))
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not fetch page activity", err.Error())
		return
	}
	c.JSON(http.StatusOK, activity)
}

// RecentBookingsHandler handles GET /api/social-proof/recent-bookings?limit=5.
func (h *SocialProofHandler) RecentBookingsHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "limit must be a number")
		return
	}
	c.JSON(http.StatusOK, h.Proof.RecentBookings(limit))
}

// UrgencyMetricsHandler handles GET /api/social-proof/urgency.
func (h *SocialProofHandler) UrgencyMetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Proof.UrgencyMetrics())
}

// WeeklyAvailabilityHandler handles GET /api/social-proof/weekly-availability.
// It reports the true count of open slots this week for the scarcity banner.
func (h *SocialProofHandler) WeeklyAvailabilityHandler(c *gin.Context) {
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

	weekly, err := h.Scheduler.GetWeeklyAvailability(c.Request.Context(), coachID, duration)
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not resolve weekly availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, weekly)
}
