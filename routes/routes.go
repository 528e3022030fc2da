package routes

import (
	"net/http"

	"skybook/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all route groups onto the router.
func SetupRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterBookingRoutes(r, bookingHandler)
}
