package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"purposeful/config"
	"purposeful/cron"
	"purposeful/database"
	clientRepoPkg "purposeful/database/repository/client"
	coachRepoPkg "purposeful/database/repository/coach"
	discountRepoPkg "purposeful/database/repository/discount"
	sessionRepoPkg "purposeful/database/repository/session"
	sessionTypeRepoPkg "purposeful/database/repository/sessiontype"
	subscriptionRepoPkg "purposeful/database/repository/subscription"
	"purposeful/handlers"
	"purposeful/middleware"
	"purposeful/routes"
	"purposeful/services/booking"
	coachService "purposeful/services/coach"
	"purposeful/services/notification"
	"purposeful/services/payment"
	"purposeful/services/scheduling"
	"purposeful/services/socialproof"
	"purposeful/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	coachRepo := coachRepoPkg.NewMongoCoachRepo()
	clientRepo := clientRepoPkg.NewMongoClientRepo()
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	sessionTypeRepo := sessionTypeRepoPkg.NewMongoSessionTypeRepo()
	subscriptionRepo := subscriptionRepoPkg.NewMongoSubscriptionRepo()
	discountRepo := discountRepoPkg.NewMongoDiscountRepo()

	// Services.
	schedulingService := &scheduling.DefaultSchedulingService{
		Repo: scheduling.NewRepository(coachRepo, sessionRepo),
	}

	notifier := notification.NewEmailNotifier(clientRepo, sessionTypeRepo, notification.NewSMTPMailer())
	proofService := socialproof.NewService()
	reminderQueue := cron.NewReminderQueue()
	defer reminderQueue.Close()

	bookingService := &booking.DefaultBookingService{
		Sessions:     sessionRepo,
		SessionTypes: sessionTypeRepo,
		Clients:      clientRepo,
		Scheduler:    schedulingService,
		Reminders:    reminderQueue,
		Notify:       notifier,
		Proof:        proofService,
		Logger:       logger,
	}

	paymentService := payment.NewDefaultPaymentService(
		subscriptionRepo, sessionRepo, sessionTypeRepo, discountRepo, notifier,
	)

	coachSvc := coachService.NewDefaultCoachService(coachRepo)

	// Start the reminder worker.
	cron.InitReminderWorker(sessionRepo, notifier)

	// Handlers.
	schedulingHandler := &handlers.SchedulingHandler{Service: schedulingService}
	bookingHandler := &handlers.BookingHandler{
		Booking:  bookingService,
		Payments: paymentService,
		Sessions: sessionRepo,
	}
	coachHandler := &handlers.CoachHandler{Service: coachSvc}
	clientHandler := &handlers.ClientHandler{Repo: clientRepo}
	sessionTypeHandler := &handlers.SessionTypeHandler{Repo: sessionTypeRepo}
	paymentHandler := &handlers.PaymentHandler{Service: paymentService}
	socialProofHandler := &handlers.SocialProofHandler{
		Proof:     proofService,
		Scheduler: schedulingService,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CoachRepo: coachRepo,

		GetAvailableSlotsHandler:     schedulingHandler.GetAvailableSlotsHandler,
		GetWeeklyAvailabilityHandler: schedulingHandler.GetWeeklyAvailabilityHandler,

		CreateBookingHandler:     bookingHandler.CreateBookingHandler,
		RescheduleBookingHandler: bookingHandler.RescheduleBookingHandler,
		CancelBookingHandler:     bookingHandler.CancelBookingHandler,
		ListSessionsHandler:      bookingHandler.ListSessionsHandler,
		CompleteSessionHandler:   bookingHandler.CompleteSessionHandler,
		NoShowSessionHandler:     bookingHandler.NoShowSessionHandler,

		RegisterCoachHandler:   coachHandler.RegisterCoachHandler,
		LoginCoachHandler:      coachHandler.LoginCoachHandler,
		LogoutCoachHandler:     coachHandler.LogoutCoachHandler,
		DeleteAccountHandler:   coachHandler.DeleteAccountHandler,
		ListCoachesHandler:     coachHandler.ListCoachesHandler,
		GetProfileHandler:      coachHandler.GetProfileHandler,
		UpdateProfileHandler:   coachHandler.UpdateProfileHandler,
		SetWeeklyRulesHandler:  coachHandler.SetWeeklyRulesHandler,
		AddExceptionHandler:    coachHandler.AddExceptionHandler,
		RemoveExceptionHandler: coachHandler.RemoveExceptionHandler,

		CreateClientHandler: clientHandler.CreateClientHandler,
		ListClientsHandler:  clientHandler.ListClientsHandler,
		GetClientHandler:    clientHandler.GetClientHandler,
		UpdateClientHandler: clientHandler.UpdateClientHandler,
		DeleteClientHandler: clientHandler.DeleteClientHandler,

		ListSessionTypesHandler:  sessionTypeHandler.ListPublicHandler,
		CreateSessionTypeHandler: sessionTypeHandler.CreateSessionTypeHandler,
		UpdateSessionTypeHandler: sessionTypeHandler.UpdateSessionTypeHandler,
		DeleteSessionTypeHandler: sessionTypeHandler.DeleteSessionTypeHandler,

		ListProductsHandler:       paymentHandler.ListProductsHandler,
		CreateCheckoutHandler:     paymentHandler.CreateCheckoutHandler,
		ListSubscriptionsHandler:  paymentHandler.ListSubscriptionsHandler,
		CancelSubscriptionHandler: paymentHandler.CancelSubscriptionHandler,
		ValidateDiscountHandler:   paymentHandler.ValidateDiscountHandler,
		StripeWebhookHandler:      paymentHandler.StripeWebhookHandler,

		PageActivityHandler:       socialProofHandler.PageActivityHandler,
		RecentBookingsHandler:     socialProofHandler.RecentBookingsHandler,
		UrgencyMetricsHandler:     socialProofHandler.UrgencyMetricsHandler,
		WeeklyAvailabilityHandler: socialProofHandler.WeeklyAvailabilityHandler,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
