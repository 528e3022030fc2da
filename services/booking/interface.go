package booking

import (
	"time"

	"skybook/models"
)

// BookingRepository defines the persistence contract for finalized bookings.
type BookingRepository interface {
	// SaveBookingDetails persists the booking and returns the authoritative
	// booking reference assigned by the store.
	SaveBookingDetails(passengerName, flightDetails string, price float64, bookingDate time.Time) (string, error)
	GetBookingInfo(bookingRef string) (map[string]any, error)
	ValidateAndEnrichBookingData(bookingRef string) (EnrichedBookingData, error)
	GetHistoricalPricingData(flightNumber string, date time.Time, dayRange int) (float64, error)
}

// EnrichedBookingData is the result of a repository enrichment lookup.
type EnrichedBookingData struct {
	Success            bool    `json:"success"`
	ActualPrice        float64 `json:"actualPrice,omitempty"`
	EnrichedFlightInfo string  `json:"enrichedFlightInfo,omitempty"`
}

// FlightAvailabilityService reports seat inventory for a flight.
type FlightAvailabilityService interface {
	CheckAndGetAvailableSeatsForBooking(flightNumber string, departureDate time.Time, passengerCount int) ([]string, error)
	IsFlightFullyBooked(flightNumber string, departureDate time.Time) (bool, error)
}

// PartnerNotifier informs airline partners about bookings and status changes.
type PartnerNotifier interface {
	NotifyPartnerAboutBooking(airlineCode, bookingRef string, totalPrice float64, passengerName, flightDetails string, isRebooking bool) error
	ValidateAndNotifySpecialRequests(airlineCode, specialRequests, bookingRef string) (bool, error)
	UpdatePartnerBookingStatus(airlineCode, bookingRef, newStatus string) error
}

// AuditLogger records booking and pricing events.
type AuditLogger interface {
	LogBookingActivity(activity, bookingRef, userInfo string) error
	RecordPricingCalculation(calculationDetails string, finalPrice float64, flightInfo string) error
	LogErrorWithAlert(err error, context, bookingRef string) error
	FlushAndArchiveLogs() error
}

// Collaborator factories. The coordinator constructs its collaborators per
// attempt with parameters derived from its own run state, so the assembler
// supplies constructors rather than instances.
type (
	RepositoryFactory   func(connectionString string, maxRetries int) BookingRepository
	AvailabilityFactory func(connectionString string) FlightAvailabilityService
	NotifierFactory     func(smtpServer string, useEncryption bool) PartnerNotifier
	AuditFactory        func(logDirectory string, verboseMode bool) AuditLogger
)

// BookingCoordinator is the entry point for the end-to-end booking flow.
type BookingCoordinator interface {
	BookFlight(passengerName, flightNumber string, departureDate time.Time, passengerCount int, airlineCode, specialRequests string) (*models.Booking, error)
}

// DefaultBookingCoordinator implements BookingCoordinator.
//
// Repeated calls on one instance are NOT independent: every attempt reads
// and writes the shared scratch state, so the tax rate, airline fees, log
// directory and notification eligibility of call N depend on calls 1..N-1.
// The Processing flag is advisory only; the coordinator provides no mutual
// exclusion of its own.
type DefaultBookingCoordinator struct {
	NewRepository   RepositoryFactory
	NewAvailability AvailabilityFactory
	NewNotifier     NotifierFactory
	NewAudit        AuditFactory

	// Discounts drives the promotional draw. Tests substitute a fixed source.
	Discounts DiscountSource

	// ConnectionString is the base repository connection string; the
	// availability variant is derived from it per attempt.
	ConnectionString string
	// LogBaseDir is the root under which audit log directories are derived.
	LogBaseDir string

	// State is the run-scoped scratch memory shared across attempts.
	State *ScratchState

	bookingDate time.Time
}

const (
	defaultConnectionString = "mongodb://production-db:27017/FlightBookings"
	defaultLogBaseDir       = "/var/logs/BookingLogs"
)

// NewDefaultBookingCoordinator builds a coordinator with a fixed reference
// timestamp. A zero bookingDate means "now". Collaborator factories must be
// assigned by the caller before BookFlight is invoked.
func NewDefaultBookingCoordinator(bookingDate time.Time) *DefaultBookingCoordinator {
	if bookingDate.IsZero() {
		bookingDate = time.Now()
	}
	return &DefaultBookingCoordinator{
		Discounts:        NewSystemDiscountSource(),
		ConnectionString: defaultConnectionString,
		LogBaseDir:       defaultLogBaseDir,
		State:            NewScratchState(),
		bookingDate:      bookingDate,
	}
}

// BookingDate returns the coordinator's fixed reference timestamp.
func (c *DefaultBookingCoordinator) BookingDate() time.Time {
	return c.bookingDate
}
