package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skybook/config"
	"skybook/database"
	"skybook/database/repository"
	"skybook/handlers"
	"skybook/middleware"
	"skybook/routes"
	"skybook/services/availability"
	"skybook/services/audit"
	"skybook/services/booking"
	"skybook/services/notification"
	"skybook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Drains partner notifications enqueued by the coordinator's notifier.
	notification.InitPartnerNotifyWorker()

	// The coordinator builds its collaborators per attempt from derived
	// parameters, so it receives constructors rather than instances.
	coordinator := booking.NewDefaultBookingCoordinator(time.Now())
	coordinator.ConnectionString = config.AppConfig.BookingConnString
	coordinator.LogBaseDir = config.AppConfig.AuditLogBaseDir
	coordinator.NewRepository = repository.NewMongoBookingRepo
	coordinator.NewAvailability = availability.NewMongoAvailabilityService
	coordinator.NewNotifier = notification.NewQueuedPartnerNotifier
	coordinator.NewAudit = audit.NewFileAuditLogger

	// Read-path repository for booking lookups.
	lookupRepo := repository.NewMongoBookingRepo(config.AppConfig.BookingConnString, 1)

	bookingHandler := handlers.NewBookingHandler(coordinator, lookupRepo, logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	routes.SetupRoutes(router, bookingHandler)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("main: shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: forced shutdown: %v", err)
	}
	if err := notification.CloseQueueClient(); err != nil {
		logger.Sugar().Warnf("main: failed to close notification queue client: %v", err)
	}
	logger.Info("main: server stopped")
}
