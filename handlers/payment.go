package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"purposeful/services/payment"
	"purposeful/utils"
)

// PaymentHandler serves the Stripe-facing endpoints: the product catalogue,
// checkout creation, subscription management and the webhook.
type PaymentHandler struct {
	Service payment.PaymentService
}

// ListProductsHandler handles GET /api/payments/products.
func (h *PaymentHandler) ListProductsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, payment.Products())
}

// CreateCheckoutHandler handles POST /api/payments/checkout.
func (h *PaymentHandler) CreateCheckoutHandler(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Name      string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid checkout payload", err.Error())
		return
	}

	result, err := h.Service.CreateSubscriptionCheckout(c.Request.Context(), req.ProductID, req.Email, req.Name)
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not create checkout", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListSubscriptionsHandler handles GET /api/payments/subscriptions?email=...
func (h *PaymentHandler) ListSubscriptionsHandler(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "email is required")
		return
	}

	subs, err := h.Service.ListSubscriptions(c.Request.Context(), email)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Could not list subscriptions", err.Error())
		return
	}
	c.JSON(http.StatusOK, subs)
}

// CancelSubscriptionHandler handles DELETE /api/payments/subscriptions/:subscriptionID.
func (h *PaymentHandler) CancelSubscriptionHandler(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "email is required")
		return
	}

	if err := h.Service.CancelSubscription(c.Request.Context(), c.Param("subscriptionID"), email); err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Could not cancel subscription", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ValidateDiscountHandler handles GET /api/payments/discounts/:code.
func (h *PaymentHandler) ValidateDiscountHandler(c *gin.Context) {
	discount, err := h.Service.ValidateDiscount(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.JSONError(c, utils.HTTPStatus(err), "Discount not valid", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":            discount.Code,
		"discountPercent": discount.DiscountPercent,
		"discountAmount":  discount.DiscountAmount,
	})
}

// StripeWebhookHandler handles POST /api/webhooks/stripe. The raw body is
// needed for signature verification.
func (h *PaymentHandler) StripeWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read webhook body", err.Error())
		return
	}
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing signature", "")
		return
	}

	if err := h.Service.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		utils.GetLogger().Error("webhook processing failed", zap.Error(err))
		utils.JSONError(c, utils.HTTPStatus(err), "Webhook processing failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
