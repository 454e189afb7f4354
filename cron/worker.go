package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"sammies/config"
	"sammies/services/notification"
)

// gatewayClient posts notification bodies to the configured SMS/email
// webhooks. Bounded so a slow gateway cannot pile up worker goroutines.
var gatewayClient = &http.Client{Timeout: 10 * time.Second}

// InitNotificationWorker runs the async notification worker in background.
func InitNotificationWorker(businessName string) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(notification.TypeBookingNotify, handleBookingTask(businessName))
	mux.HandleFunc(notification.TypeVoicemailNotify, handleVoicemailTask(businessName))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[NotifyWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotifyWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotifyWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleBookingTask(businessName string) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.BookingPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifyHandler] Invalid booking payload: %v", err)
			return err
		}
		if p.Booking == nil {
			return nil
		}

		// Customer confirmation SMS.
		if p.Booking.Phone != nil {
			body := notification.BuildCustomerSMS(businessName, p.Booking)
			if err := sendSMS(ctx, *p.Booking.Phone, body); err != nil {
				log.Printf("[NotifyHandler] Customer SMS failed: %v", err)
				return err
			}
		}

		// Owner alert SMS.
		if owner := config.AppConfig.OwnerMobile; owner != "" {
			body := notification.BuildOwnerSMS(businessName, p.Booking)
			if err := sendSMS(ctx, owner, body); err != nil {
				log.Printf("[NotifyHandler] Owner SMS failed: %v", err)
				return err
			}
		}

		// Owner email.
		if config.AppConfig.EmailTo != "" {
			subject := "New Booking Request - " + businessName
			if err := sendEmail(ctx, subject, notification.BuildOwnerEmail(p.Booking)); err != nil {
				log.Printf("[NotifyHandler] Owner email failed: %v", err)
				return err
			}
		}
		return nil
	}
}

func handleVoicemailTask(businessName string) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.VoicemailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifyHandler] Invalid voicemail payload: %v", err)
			return err
		}
		owner := config.AppConfig.OwnerMobile
		if owner == "" {
			return nil
		}
		body := notification.BuildVoicemailSMS(businessName, p.From, p.Transcript)
		if err := sendSMS(ctx, owner, body); err != nil {
			log.Printf("[NotifyHandler] Voicemail SMS failed: %v", err)
			return err
		}
		return nil
	}
}

func sendSMS(ctx context.Context, to, body string) error {
	gateway := config.AppConfig.SMSGatewayURL
	if gateway == "" {
		log.Printf("[NotifyHandler] SMS_GATEWAY_URL not set, dropping SMS to %s", to)
		return nil
	}
	payload, err := json.Marshal(map[string]string{
		"from": config.AppConfig.SMSFrom,
		"to":   to,
		"body": body,
	})
	if err != nil {
		return err
	}
	return postJSON(ctx, gateway, payload)
}

func sendEmail(ctx context.Context, subject, text string) error {
	gateway := config.AppConfig.EmailGatewayURL
	if gateway == "" {
		log.Printf("[NotifyHandler] EMAIL_GATEWAY_URL not set, dropping email %q", subject)
		return nil
	}
	payload, err := json.Marshal(map[string]string{
		"from":    config.AppConfig.EmailFrom,
		"to":      config.AppConfig.EmailTo,
		"subject": subject,
		"text":    text,
	})
	if err != nil {
		return err
	}
	return postJSON(ctx, gateway, payload)
}

func postJSON(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := gatewayClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway %s returned status %d", url, resp.StatusCode)
	}
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotifyWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
