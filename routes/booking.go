package routes

import (
	"skybook/handlers"
	"skybook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	booking.Use(middleware.JWTAuthMiddleware())
	{
		booking.POST("/flights", h.BookFlightHandler)
		booking.GET("/flights/:reference", h.GetBookingHandler)
	}
}
