package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"skybook/services/booking"
	"skybook/utils"
)

// BookingHandler exposes the booking coordinator over HTTP. The mutex
// serializes BookFlight calls: the coordinator assumes at most one booking
// in flight per instance, and its own processing flag is advisory only.
type BookingHandler struct {
	coordinator booking.BookingCoordinator
	repo        booking.BookingRepository
	logger      *zap.Logger
	mu          sync.Mutex
}

func NewBookingHandler(coordinator booking.BookingCoordinator, repo booking.BookingRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		coordinator: coordinator,
		repo:        repo,
		logger:      logger,
	}
}

type bookFlightRequest struct {
	PassengerName   string    `json:"passengerName" binding:"required"`
	FlightNumber    string    `json:"flightNumber" binding:"required"`
	DepartureDate   time.Time `json:"departureDate" binding:"required"`
	PassengerCount  int       `json:"passengerCount" binding:"required,gt=0"`
	AirlineCode     string    `json:"airlineCode" binding:"required"`
	SpecialRequests string    `json:"specialRequests"`
}

// BookFlightHandler handles POST /api/booking/flights.
func (h *BookingHandler) BookFlightHandler(c *gin.Context) {
	var req bookFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	h.mu.Lock()
	result, err := h.coordinator.BookFlight(
		req.PassengerName,
		req.FlightNumber,
		req.DepartureDate,
		req.PassengerCount,
		req.AirlineCode,
		req.SpecialRequests,
	)
	h.mu.Unlock()

	switch {
	case booking.IsValidationError(err):
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
	case booking.IsCapacityError(err):
		utils.JSONError(c, http.StatusConflict, "insufficient availability", err.Error())
	case err != nil:
		h.logger.Error("booking failed", zap.String("flightNumber", req.FlightNumber), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking failed", err.Error())
	default:
		c.JSON(http.StatusCreated, result)
	}
}

// GetBookingHandler handles GET /api/booking/flights/:reference.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	reference := c.Param("reference")

	info, err := h.repo.GetBookingInfo(reference)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		utils.JSONError(c, http.StatusNotFound, "booking not found", reference)
	case err != nil:
		h.logger.Error("booking lookup failed", zap.String("reference", reference), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking lookup failed", err.Error())
	default:
		c.JSON(http.StatusOK, info)
	}
}
