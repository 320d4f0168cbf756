package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coachService "purposeful/services/coach"
	"purposeful/models"
	"purposeful/utils"
)

// CoachHandler serves coach account and schedule configuration endpoints.
type CoachHandler struct {
	Service coachService.CoachService
}

func (h *CoachHandler) RegisterCoachHandler(c *gin.Context) {
	var coach models.Coach
	if err := c.ShouldBindJSON(&coach); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration payload", err.Error())
		return
	}

	resp, err := h.Service.Register(c.Request.Context(), &coach)
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Registration failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CoachHandler) LoginCoachHandler(c *gin.Context) {
	var creds struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login payload", err.Error())
		return
	}

	resp, err := h.Service.Login(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		// Credential failures surface as 401, not 400.
		status := utils.HTTPStatus(err)
		if status == http.StatusBadRequest {
			status = http.StatusUnauthorized
		}
		utils.JSONError(c, status, "Login failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CoachHandler) LogoutCoachHandler(c *gin.Context) {
	if err := h.Service.Logout(c.Request.Context(), c.GetString("coachID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Logout failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// DeleteAccountHandler handles DELETE /api/coaches/me.
func (h *CoachHandler) DeleteAccountHandler(c *gin.Context) {
	if err := h.Service.DeleteAccount(c.Request.Context(), c.GetString("coachID")); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not delete account", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// ListCoachesHandler handles GET /api/coaches: the public directory of
// active coaches for the booking page.
func (h *CoachHandler) ListCoachesHandler(c *gin.Context) {
	coaches, err := h.Service.ListActive(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not list coaches", err.Error())
		return
	}
	c.JSON(http.StatusOK, coaches)
}

// GetProfileHandler handles GET /api/coaches/me.
func (h *CoachHandler) GetProfileHandler(c *gin.Context) {
	coach, err := h.Service.GetByID(c.Request.Context(), c.GetString("coachID"))
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not load profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, coach)
}

// UpdateProfileHandler handles PATCH /api/coaches/me.
func (h *CoachHandler) UpdateProfileHandler(c *gin.Context) {
	var coach models.Coach
	if err := c.ShouldBindJSON(&coach); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid profile payload", err.Error())
		return
	}
	coach.ID = c.GetString("coachID")

	updated, err := h.Service.UpdateProfile(c.Request.Context(), &coach)
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Profile update failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetWeeklyRulesHandler handles PUT /api/coaches/me/availability.
func (h *CoachHandler) SetWeeklyRulesHandler(c *gin.Context) {
	var rules []models.WeeklyRule
	if err := c.ShouldBindJSON(&rules); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid availability payload", err.Error())
		return
	}

	if err := h.Service.SetWeeklyRules(c.Request.Context(), c.GetString("coachID"), rules); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not update availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated"})
}

// AddExceptionHandler handles POST /api/coaches/me/exceptions.
func (h *CoachHandler) AddExceptionHandler(c *gin.Context) {
	var exc models.AvailabilityException
	if err := c.ShouldBindJSON(&exc); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid exception payload", err.Error())
		return
	}

	if err := h.Service.AddException(c.Request.Context(), c.GetString("coachID"), exc); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not add exception", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Exception added"})
}

// RemoveExceptionHandler handles DELETE /api/coaches/me/exceptions/:exceptionID.
func (h *CoachHandler) RemoveExceptionHandler(c *gin.Context) {
	if err := h.Service.RemoveException(c.Request.Context(), c.GetString("coachID"), c.Param("exceptionID")); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not remove exception", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exception removed"})
}
