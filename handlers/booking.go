package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sessionRepo "purposeful/database/repository/session"
	"purposeful/models"
	"purposeful/services/booking"
	"purposeful/services/payment"
	"purposeful/utils"
)

// BookingHandler serves the public booking flow and the coach portal's
// session management endpoints.
type BookingHandler struct {
	Booking  booking.BookingService
	Payments payment.PaymentService
	Sessions sessionRepo.SessionRepository
}

// CreateBookingHandler handles POST /api/bookings. On success it returns
// the committed session plus a Stripe checkout URL for payment.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking payload", err.Error())
		return
	}

	resp, err := h.Booking.Book(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Booking failed", err.Error())
		return
	}

	// Payment is collected after the slot is secured; a checkout failure
	// leaves the booking pending, not lost.
	if h.Payments != nil && resp.Session.Price > 0 {
		checkout, err := h.Payments.CreateSessionCheckout(c.Request.Context(), resp.Session.ID, req.DiscountCode)
		if err != nil {
			utils.GetLogger().Error("failed to create checkout for booking",
				zap.String("sessionId", resp.Session.ID), zap.Error(err))
		} else {
			resp.CheckoutURL = checkout.URL
		}
	}

	resp.BookedAt = time.Now().UTC()
	c.JSON(http.StatusCreated, resp)
}

// RescheduleBookingHandler handles PATCH /api/bookings/:sessionID.
func (h *BookingHandler) RescheduleBookingHandler(c *gin.Context) {
	var body struct {
		Start string `json:"start" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid reschedule payload", err.Error())
		return
	}

	session, err := h.Booking.Reschedule(c.Request.Context(), c.Param("sessionID"), body.Start)
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Reschedule failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, session)
}

// CancelBookingHandler handles DELETE /api/bookings/:sessionID.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := h.Booking.Cancel(c.Request.Context(), sessionID, body.Reason); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Cancellation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session cancelled"})
}

// ListSessionsHandler handles GET /api/coaches/sessions for the
// authenticated coach.
func (h *BookingHandler) ListSessionsHandler(c *gin.Context) {
	coachID := c.GetString("coachID")
	if coachID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	sessions, err := h.Sessions.ListByCoach(c.Request.Context(), coachID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not list sessions", err.Error())
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// CompleteSessionHandler handles POST /api/coaches/sessions/:sessionID/complete.
func (h *BookingHandler) CompleteSessionHandler(c *gin.Context) {
	if err := h.Booking.Complete(c.Request.Context(), c.Param("sessionID")); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not complete session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session completed"})
}

// NoShowSessionHandler handles POST /api/coaches/sessions/:sessionID/no-show.
func (h *BookingHandler) NoShowSessionHandler(c *gin.Context) {
	if err := h.Booking.MarkNoShow(c.Request.Context(), c.Param("sessionID")); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not mark no-show", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session marked as no-show"})
}
