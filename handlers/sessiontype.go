package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionTypeRepo "purposeful/database/repository/sessiontype"
	"purposeful/models"
	"purposeful/utils"
)

// SessionTypeHandler serves session type management for coaches and the
// public listing for the booking page.
type SessionTypeHandler struct {
	Repo sessionTypeRepo.SessionTypeRepository
}

// ListPublicHandler handles GET /api/session-types?coachId=...: the active
// offerings shown on the booking page.
func (h *SessionTypeHandler) ListPublicHandler(c *gin.Context) {
	coachID := c.Query("coachId")
	if coachID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "coachId is required")
		return
	}

	types, err := h.Repo.ListActiveByCoach(c.Request.Context(), coachID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not list session types", err.Error())
		return
	}
	c.JSON(http.StatusOK, types)
}

func (h *SessionTypeHandler) CreateSessionTypeHandler(c *gin.Context) {
	var st models.SessionType
	if err := c.ShouldBindJSON(&st); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid session type payload", err.Error())
		return
	}
	st.CoachID = c.GetString("coachID")

	if err := h.Repo.Create(c.Request.Context(), &st); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not create session type", err.Error())
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *SessionTypeHandler) UpdateSessionTypeHandler(c *gin.Context) {
	existing, err := h.Repo.GetByID(c.Request.Context(), c.Param("typeID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not fetch session type", err.Error())
		return
	}
	if existing == nil || existing.CoachID != c.GetString("coachID") {
		utils.JSONError(c, http.StatusNotFound, "Session type not found", "")
		return
	}

	var st models.SessionType
	if err := c.ShouldBindJSON(&st); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid session type payload", err.Error())
		return
	}
	st.ID = existing.ID
	st.CoachID = existing.CoachID

	if err := h.Repo.Update(c.Request.Context(), &st); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not update session type", err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionTypeHandler) DeleteSessionTypeHandler(c *gin.Context) {
	existing, err := h.Repo.GetByID(c.Request.Context(), c.Param("typeID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not fetch session type", err.Error())
		return
	}
	if existing == nil || existing.CoachID != c.GetString("coachID") {
		utils.JSONError(c, http.StatusNotFound, "Session type not found", "")
		return
	}

	if err := h.Repo.Delete(c.Request.Context(), existing.ID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not delete session type", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session type deleted"})
}
