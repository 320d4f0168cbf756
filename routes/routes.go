package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"purposeful/handlers"
	"purposeful/middleware"
)

// RegisterSchedulingRoutes registers the public availability endpoints.
func RegisterSchedulingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/scheduling")
	{
		api.GET("/slots", hb.GetAvailableSlotsHandler)
		api.GET("/weekly", hb.GetWeeklyAvailabilityHandler)
	}
}

// RegisterBookingRoutes registers the public booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.CreateBookingHandler)
		api.PATCH("/:sessionID", hb.RescheduleBookingHandler)
		api.DELETE("/:sessionID", hb.CancelBookingHandler)
	}
}

// RegisterCoachRoutes registers the coach portal.
func RegisterCoachRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/coaches")
	{
		api.POST("/register", hb.RegisterCoachHandler)
		api.POST("/login", hb.LoginCoachHandler)
		api.GET("", hb.ListCoachesHandler)

		// Protected routes (require authentication).
		protected := api.Group("")
		protected.Use(middleware.JWTAuthCoachMiddleware(hb.CoachRepo))
		protected.POST("/logout", hb.LogoutCoachHandler)
		protected.GET("/me", hb.GetProfileHandler)
		protected.PATCH("/me", hb.UpdateProfileHandler)
		protected.DELETE("/me", hb.DeleteAccountHandler)
		protected.PUT("/me/availability", hb.SetWeeklyRulesHandler)
		protected.POST("/me/exceptions", hb.AddExceptionHandler)
		protected.DELETE("/me/exceptions/:exceptionID", hb.RemoveExceptionHandler)

		protected.GET("/sessions", hb.ListSessionsHandler)
		protected.POST("/sessions/:sessionID/complete", hb.CompleteSessionHandler)
		protected.POST("/sessions/:sessionID/no-show", hb.NoShowSessionHandler)

		protected.POST("/clients", hb.CreateClientHandler)
		protected.GET("/clients", hb.ListClientsHandler)
		protected.GET("/clients/:clientID", hb.GetClientHandler)
		protected.PUT("/clients/:clientID", hb.UpdateClientHandler)
		protected.DELETE("/clients/:clientID", hb.DeleteClientHandler)

		protected.POST("/session-types", hb.CreateSessionTypeHandler)
		protected.PUT("/session-types/:typeID", hb.UpdateSessionTypeHandler)
		protected.DELETE("/session-types/:typeID", hb.DeleteSessionTypeHandler)
	}
}

// RegisterSessionTypeRoutes registers the public session type listing for
// the booking page.
func RegisterSessionTypeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/session-types", hb.ListSessionTypesHandler)
}

// RegisterPaymentRoutes registers checkout, subscription and webhook
// endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.GET("/products", hb.ListProductsHandler)
		api.POST("/checkout", hb.CreateCheckoutHandler)
		api.GET("/subscriptions", hb.ListSubscriptionsHandler)
		api.DELETE("/subscriptions/:subscriptionID", hb.CancelSubscriptionHandler)
		api.GET("/discounts/:code", hb.ValidateDiscountHandler)
	}
	r.POST("/api/webhooks/stripe", hb.StripeWebhookHandler)
}

// RegisterSocialProofRoutes registers the marketing widgets.
func RegisterSocialProofRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/social-proof")
	{
		api.GET("/activity", hb.PageActivityHandler)
		api.GET("/recent-bookings", hb.RecentBookingsHandler)
		api.GET("/urgency", hb.UrgencyMetricsHandler)
		api.GET("/weekly-availability", hb.WeeklyAvailabilityHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Purposeful Live Coaching API"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSchedulingRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCoachRoutes(r, hb)
	RegisterSessionTypeRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterSocialProofRoutes(r, hb)
	RegisterHealthRoute(r)
}
