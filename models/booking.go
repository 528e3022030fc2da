package models

import (
	"fmt"
	"strings"
	"time"
)

// Booking statuses. Exactly one is assigned when a booking is finalized;
// later rules in the coordinator override earlier ones.
const (
	StatusConfirmed        = "CONFIRMED"
	StatusConfirmedPeak    = "CONFIRMED_PEAK"
	StatusConfirmedPremium = "CONFIRMED_PREMIUM"
	StatusConfirmedGroup   = "CONFIRMED_GROUP"
)

// Booking represents a finalized flight booking record.
type Booking struct {
	Reference       string    `bson:"reference" json:"reference"`               // Repository-assigned booking reference
	PassengerName   string    `bson:"passenger_name" json:"passengerName"`     // Lead passenger name
	FlightNumber    string    `bson:"flight_number" json:"flightNumber"`       // e.g. "AA123"
	DepartureDate   time.Time `bson:"departure_date" json:"departureDate"`     // Scheduled departure
	PassengerCount  int       `bson:"passenger_count" json:"passengerCount"`   // Number of seats booked
	AirlineCode     string    `bson:"airline_code" json:"airlineCode"`         // Two-letter partner code
	FinalPrice      float64   `bson:"final_price" json:"finalPrice"`           // Total price after all adjustments
	SpecialRequests string    `bson:"special_requests" json:"specialRequests"` // Comma-separated free text, may be empty
	BookingDate     time.Time `bson:"booking_date" json:"bookingDate"`         // When the booking was made
	Status          string    `bson:"status" json:"status"`                    // One of the Status* constants
}

// String renders the booking as a human-readable summary.
func (b Booking) String() string {
	format := func(t time.Time) string { return t.Format("2006-01-02 15:04") }

	lines := []string{
		fmt.Sprintf("New booking: %s", b.Reference),
		fmt.Sprintf("  👤 %s", b.PassengerName),
		fmt.Sprintf("  ✈️ %s", b.FlightNumber),
		fmt.Sprintf("  📅 %s", format(b.DepartureDate)),
		fmt.Sprintf("  👥 %d", b.PassengerCount),
		fmt.Sprintf("  🏢 %s", b.AirlineCode),
		fmt.Sprintf("  💰 $%.2f", b.FinalPrice),
	}
	if b.SpecialRequests != "" {
		lines = append(lines, fmt.Sprintf("  🎯 %s", b.SpecialRequests))
	}
	lines = append(lines,
		fmt.Sprintf("  📝 %s", format(b.BookingDate)),
		fmt.Sprintf("  ✅ %s", b.Status),
	)
	return strings.Join(lines, "\n")
}
