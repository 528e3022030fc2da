package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"skybook/config"
	"skybook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitPartnerNotifyWorker runs the async notification worker in background.
func InitPartnerNotifyWorker() {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingNotify, handleBookingNotify)
	mux.HandleFunc(TypeSpecialRequests, handleSpecialRequests)
	mux.HandleFunc(TypeStatusUpdate, handleStatusUpdate)

	go monitorRedisConnection()

	go func() {
		logger.Info("starting partner notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("partner notification worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("partner notification worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleBookingNotify(ctx context.Context, task *asynq.Task) error {
	var p BookingNotifyPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid booking notify payload: %w", err)
	}

	subject := fmt.Sprintf("New booking %s", p.BookingRef)
	if p.IsRebooking {
		subject = fmt.Sprintf("Rebooking %s", p.BookingRef)
	}
	body := fmt.Sprintf("Airline: %s\nPassenger: %s\nFlight: %s\nTotal: $%.2f\n",
		p.AirlineCode, p.PassengerName, p.FlightDetails, p.TotalPrice)

	return sendPartnerMail(p.SMTPServer, p.UseEncryption, subject, body)
}

func handleSpecialRequests(ctx context.Context, task *asynq.Task) error {
	var p SpecialRequestsPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid special requests payload: %w", err)
	}

	subject := fmt.Sprintf("Special requests for booking %s", p.BookingRef)
	body := fmt.Sprintf("Airline: %s\nRequests: %s\n", p.AirlineCode, p.SpecialRequests)

	return sendPartnerMail(p.SMTPServer, p.UseEncryption, subject, body)
}

func handleStatusUpdate(ctx context.Context, task *asynq.Task) error {
	var p StatusUpdatePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid status update payload: %w", err)
	}

	subject := fmt.Sprintf("Status update for booking %s", p.BookingRef)
	body := fmt.Sprintf("Airline: %s\nNew status: %s\n", p.AirlineCode, p.NewStatus)

	return sendPartnerMail(p.SMTPServer, p.UseEncryption, subject, body)
}

// sendPartnerMail delivers one message to the partner mailbox behind the
// given SMTP endpoint. Encrypted endpoints listen on the submission port
// and negotiate STARTTLS; the rest take plain port 25.
func sendPartnerMail(server string, useEncryption bool, subject, body string) error {
	addr := server + ":25"
	if useEncryption {
		addr = server + ":587"
	}

	from := config.AppConfig.PartnerMailFrom
	to := "bookings@" + strings.TrimPrefix(server, "smtp.")
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body))

	if err := smtp.SendMail(addr, nil, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to deliver partner mail via %s: %w", addr, err)
	}
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	logger := utils.GetLogger()
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("notification queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
