package handlers

import (
	"github.com/gin-gonic/gin"

	coachRepoPkg "purposeful/database/repository/coach"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	CoachRepo coachRepoPkg.CoachRepository

	// Availability endpoints
	GetAvailableSlotsHandler     gin.HandlerFunc
	GetWeeklyAvailabilityHandler gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler     gin.HandlerFunc
	RescheduleBookingHandler gin.HandlerFunc
	CancelBookingHandler     gin.HandlerFunc
	ListSessionsHandler      gin.HandlerFunc
	CompleteSessionHandler   gin.HandlerFunc
	NoShowSessionHandler     gin.HandlerFunc

	// Coach endpoints
	RegisterCoachHandler   gin.HandlerFunc
	LoginCoachHandler      gin.HandlerFunc
	LogoutCoachHandler     gin.HandlerFunc
	DeleteAccountHandler   gin.HandlerFunc
	ListCoachesHandler     gin.HandlerFunc
	GetProfileHandler      gin.HandlerFunc
	UpdateProfileHandler   gin.HandlerFunc
	SetWeeklyRulesHandler  gin.HandlerFunc
	AddExceptionHandler    gin.HandlerFunc
	RemoveExceptionHandler gin.HandlerFunc

	// Client endpoints
	CreateClientHandler gin.HandlerFunc
	ListClientsHandler  gin.HandlerFunc
	GetClientHandler    gin.HandlerFunc
	UpdateClientHandler gin.HandlerFunc
	DeleteClientHandler gin.HandlerFunc

	// Session type endpoints
	ListSessionTypesHandler  gin.HandlerFunc
	CreateSessionTypeHandler gin.HandlerFunc
	UpdateSessionTypeHandler gin.HandlerFunc
	DeleteSessionTypeHandler gin.HandlerFunc

	// Payment endpoints
	ListProductsHandler       gin.HandlerFunc
	CreateCheckoutHandler     gin.HandlerFunc
	ListSubscriptionsHandler  gin.HandlerFunc
	CancelSubscriptionHandler gin.HandlerFunc
	ValidateDiscountHandler   gin.HandlerFunc
	StripeWebhookHandler      gin.HandlerFunc

	// Social proof endpoints
	PageActivityHandler       gin.HandlerFunc
	RecentBookingsHandler     gin.HandlerFunc
	UrgencyMetricsHandler     gin.HandlerFunc
	WeeklyAvailabilityHandler gin.HandlerFunc
}
