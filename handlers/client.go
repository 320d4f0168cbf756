package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	clientRepo "purposeful/database/repository/client"
	"purposeful/models"
	"purposeful/utils"
)

// ClientHandler serves the coach portal's client roster.
type ClientHandler struct {
	Repo clientRepo.ClientRepository
}

func (h *ClientHandler) CreateClientHandler(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid client payload", err.Error())
		return
	}
	client.CoachID = c.GetString("coachID")

	if err := h.Repo.Create(c.Request.Context(), &client); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not create client", err.Error())
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) ListClientsHandler(c *gin.Context) {
	clients, err := h.Repo.ListByCoach(c.Request.Context(), c.GetString("coachID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not list clients", err.Error())
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClientHandler(c *gin.Context) {
	client, err := h.Repo.GetByID(c.Request.Context(), c.Param("clientID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not fetch client", err.Error())
		return
	}
	if client == nil || client.CoachID != c.GetString("coachID") {
		utils.JSONError(c, http.StatusNotFound, "Client not found", "")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) UpdateClientHandler(c *gin.Context) {
	existing, err := h.Repo.GetByID(c.Request.Context(), c.Param("clientID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not fetch client", err.Error())
		return
	}
	if existing == nil || existing.CoachID != c.GetString("coachID") {
		utils.JSONError(c, http.StatusNotFound, "Client not found", "")
		return
	}

	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid client payload", err.Error())
		return
	}
	client.ID = existing.ID
	client.CoachID = existing.CoachID

	if err := h.Repo.Update(c.Request.Context(), &client); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not update client", err.Error())
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClientHandler(c *gin.Context) {
	existing, err := h.Repo.GetByID(c.Request.Context(), c.Param("clientID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not fetch client", err.Error())
		return
	}
	if existing == nil || existing.CoachID != c.GetString("coachID") {
		utils.JSONError(c, http.StatusNotFound, "Client not found", "")
		return
	}

	if err := h.Repo.Delete(c.Request.Context(), existing.ID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not delete client", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}
