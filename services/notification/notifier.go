package notification

import (
	"fmt"
	"strings"
	"sync"

	"skybook/config"
	"skybook/services/booking"

	"github.com/hibiken/asynq"
)

// Partners are flooded if a single booking carries an unbounded request
// list; validation caps it well below any airline's handling limit.
const maxSpecialRequestSegments = 10

// The asynq client owns a Redis connection pool, so the package holds a
// single one for all notifiers. The coordinator constructs a notifier per
// booking attempt; those carry per-attempt delivery parameters only.
var (
	queueClientOnce sync.Once
	queueClient     *asynq.Client
)

// GetQueueClient returns the shared notification queue client.
func GetQueueClient() *asynq.Client {
	queueClientOnce.Do(func() {
		queueClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisNotifyQueueDB,
		})
	})
	return queueClient
}

// CloseQueueClient releases the shared queue client's connections. Called
// on server shutdown.
func CloseQueueClient() error {
	if queueClient == nil {
		return nil
	}
	return queueClient.Close()
}

// QueuedPartnerNotifier implements booking.PartnerNotifier by enqueueing
// typed asynq tasks; the worker in this package drains them and performs
// SMTP delivery. Enqueueing is synchronous, delivery is not.
type QueuedPartnerNotifier struct {
	client        *asynq.Client
	smtpServer    string
	useEncryption bool
}

// NewQueuedPartnerNotifier creates a notifier bound to the given partner
// SMTP endpoint. All notifiers enqueue through the shared queue client.
func NewQueuedPartnerNotifier(smtpServer string, useEncryption bool) booking.PartnerNotifier {
	return &QueuedPartnerNotifier{
		client:        GetQueueClient(),
		smtpServer:    smtpServer,
		useEncryption: useEncryption,
	}
}

func (n *QueuedPartnerNotifier) NotifyPartnerAboutBooking(airlineCode, bookingRef string, totalPrice float64, passengerName, flightDetails string, isRebooking bool) error {
	task, err := NewBookingNotifyTask(BookingNotifyPayload{
		AirlineCode:   airlineCode,
		BookingRef:    bookingRef,
		TotalPrice:    totalPrice,
		PassengerName: passengerName,
		FlightDetails: flightDetails,
		IsRebooking:   isRebooking,
		SMTPServer:    n.smtpServer,
		UseEncryption: n.useEncryption,
	})
	if err != nil {
		return fmt.Errorf("failed to build booking notification task: %w", err)
	}
	if _, err := n.client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue booking notification: %w", err)
	}
	return nil
}

func (n *QueuedPartnerNotifier) ValidateAndNotifySpecialRequests(airlineCode, specialRequests, bookingRef string) (bool, error) {
	if !validSpecialRequests(specialRequests) {
		return false, nil
	}

	task, err := NewSpecialRequestsTask(SpecialRequestsPayload{
		AirlineCode:     airlineCode,
		SpecialRequests: specialRequests,
		BookingRef:      bookingRef,
		SMTPServer:      n.smtpServer,
		UseEncryption:   n.useEncryption,
	})
	if err != nil {
		return false, fmt.Errorf("failed to build special requests task: %w", err)
	}
	if _, err := n.client.Enqueue(task); err != nil {
		return false, fmt.Errorf("failed to enqueue special requests notification: %w", err)
	}
	return true, nil
}

func (n *QueuedPartnerNotifier) UpdatePartnerBookingStatus(airlineCode, bookingRef, newStatus string) error {
	task, err := NewStatusUpdateTask(StatusUpdatePayload{
		AirlineCode:   airlineCode,
		BookingRef:    bookingRef,
		NewStatus:     newStatus,
		SMTPServer:    n.smtpServer,
		UseEncryption: n.useEncryption,
	})
	if err != nil {
		return fmt.Errorf("failed to build status update task: %w", err)
	}
	if _, err := n.client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue status update: %w", err)
	}
	return nil
}

// validSpecialRequests rejects empty, blank-segment or oversized request
// lists before anything reaches a partner.
func validSpecialRequests(specialRequests string) bool {
	if strings.TrimSpace(specialRequests) == "" {
		return false
	}
	segments := strings.Split(specialRequests, ",")
	if len(segments) > maxSpecialRequestSegments {
		return false
	}
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			return false
		}
	}
	return true
}
