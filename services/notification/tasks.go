package notification

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingNotify   = "partner:booking_notify"
	TypeSpecialRequests = "partner:special_requests"
	TypeStatusUpdate    = "partner:status_update"
)

// BookingNotifyPayload carries a new-booking notification to the worker.
type BookingNotifyPayload struct {
	AirlineCode   string  `json:"airlineCode"`
	BookingRef    string  `json:"bookingRef"`
	TotalPrice    float64 `json:"totalPrice"`
	PassengerName string  `json:"passengerName"`
	FlightDetails string  `json:"flightDetails"`
	IsRebooking   bool    `json:"isRebooking"`
	SMTPServer    string  `json:"smtpServer"`
	UseEncryption bool    `json:"useEncryption"`
}

// SpecialRequestsPayload carries a special-requests notification.
type SpecialRequestsPayload struct {
	AirlineCode     string `json:"airlineCode"`
	SpecialRequests string `json:"specialRequests"`
	BookingRef      string `json:"bookingRef"`
	SMTPServer      string `json:"smtpServer"`
	UseEncryption   bool   `json:"useEncryption"`
}

// StatusUpdatePayload carries a partner booking status change.
type StatusUpdatePayload struct {
	AirlineCode   string `json:"airlineCode"`
	BookingRef    string `json:"bookingRef"`
	NewStatus     string `json:"newStatus"`
	SMTPServer    string `json:"smtpServer"`
	UseEncryption bool   `json:"useEncryption"`
}

func NewBookingNotifyTask(payload BookingNotifyPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingNotify, b), nil
}

func NewSpecialRequestsTask(payload SpecialRequestsPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSpecialRequests, b), nil
}

func NewStatusUpdateTask(payload StatusUpdatePayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStatusUpdate, b), nil
}
