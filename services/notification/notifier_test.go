package notification

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifiersShareQueueClient(t *testing.T) {
	first := NewQueuedPartnerNotifier("smtp.american.com", true).(*QueuedPartnerNotifier)
	second := NewQueuedPartnerNotifier("smtp.britishairways.com", false).(*QueuedPartnerNotifier)

	// One Redis pool per process; notifiers differ only in delivery
	// parameters.
	assert.Same(t, first.client, second.client)
	assert.Same(t, GetQueueClient(), first.client)
	assert.Equal(t, "smtp.american.com", first.smtpServer)
	assert.True(t, first.useEncryption)
	assert.False(t, second.useEncryption)
}

func TestValidSpecialRequests(t *testing.T) {
	tests := []struct {
		name     string
		requests string
		want     bool
	}{
		{"single request", "meal", true},
		{"several requests", "meal,wheelchair,seat", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"blank segment", "meal,,seat", false},
		{"whitespace segment", "meal, ,seat", false},
		{"at the segment cap", strings.Repeat("x,", maxSpecialRequestSegments-1) + "x", true},
		{"over the segment cap", strings.Repeat("x,", maxSpecialRequestSegments) + "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validSpecialRequests(tt.requests))
		})
	}
}

func TestBookingNotifyTaskPayload(t *testing.T) {
	task, err := NewBookingNotifyTask(BookingNotifyPayload{
		AirlineCode:   "AA",
		BookingRef:    "BK-1A2B3C4D",
		TotalPrice:    1171.37,
		PassengerName: "John Doe",
		FlightDetails: "AA123 departing 2025-07-03T12:42:00Z",
		SMTPServer:    "smtp.american.com",
		UseEncryption: true,
	})
	require.NoError(t, err)
	assert.Equal(t, TypeBookingNotify, task.Type())

	var p BookingNotifyPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "BK-1A2B3C4D", p.BookingRef)
	assert.Equal(t, "smtp.american.com", p.SMTPServer)
	assert.True(t, p.UseEncryption)
}

func TestStatusUpdateTaskType(t *testing.T) {
	task, err := NewStatusUpdateTask(StatusUpdatePayload{
		AirlineCode: "BA",
		BookingRef:  "BK-1A2B3C4D",
		NewStatus:   "CONFIRMED_PEAK",
		SMTPServer:  "smtp.britishairways.com",
	})
	require.NoError(t, err)
	assert.Equal(t, TypeStatusUpdate, task.Type())
}
