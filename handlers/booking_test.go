package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"skybook/services/booking"
)

type stubRepository struct {
	info map[string]any
	err  error
}

func (s *stubRepository) SaveBookingDetails(passengerName, flightDetails string, price float64, bookingDate time.Time) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubRepository) GetBookingInfo(bookingRef string) (map[string]any, error) {
	return s.info, s.err
}

func (s *stubRepository) ValidateAndEnrichBookingData(bookingRef string) (booking.EnrichedBookingData, error) {
	return booking.EnrichedBookingData{}, nil
}

func (s *stubRepository) GetHistoricalPricingData(flightNumber string, date time.Time, dayRange int) (float64, error) {
	return 0, nil
}

func getBooking(t *testing.T, repo booking.BookingRepository, reference string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewBookingHandler(nil, repo, zap.NewNop())
	router := gin.New()
	router.GET("/api/booking/flights/:reference", h.GetBookingHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/booking/flights/"+reference, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetBookingHandlerFound(t *testing.T) {
	repo := &stubRepository{info: map[string]any{"reference": "BK-1A2B3C4D"}}

	rec := getBooking(t, repo, "BK-1A2B3C4D")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BK-1A2B3C4D")
}

func TestGetBookingHandlerNotFound(t *testing.T) {
	repo := &stubRepository{err: fmt.Errorf("failed to fetch booking BK-MISSING1: %w", mongo.ErrNoDocuments)}

	rec := getBooking(t, repo, "BK-MISSING1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBookingHandlerStoreFailure(t *testing.T) {
	// A connectivity failure is not a missing booking.
	repo := &stubRepository{err: fmt.Errorf("failed to fetch booking BK-1A2B3C4D: %w", errors.New("server selection timeout"))}

	rec := getBooking(t, repo, "BK-1A2B3C4D")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
