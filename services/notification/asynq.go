package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"sammies/models"
)

// AsynqDispatcher enqueues notification tasks on Redis; the cron worker
// drains the queue and performs delivery. Enqueueing is cheap enough to
// call inline from a conversation turn.
type AsynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(redisOpts asynq.RedisClientOpt) *AsynqDispatcher {
	return &AsynqDispatcher{client: asynq.NewClient(redisOpts)}
}

func (d *AsynqDispatcher) NotifyBookingComplete(ctx context.Context, booking *models.BookingRecord) error {
	payload, err := json.Marshal(BookingPayload{Booking: booking})
	if err != nil {
		return fmt.Errorf("marshal booking notification: %w", err)
	}
	_, err = d.client.EnqueueContext(ctx, asynq.NewTask(TypeBookingNotify, payload), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue booking notification: %w", err)
	}
	return nil
}

func (d *AsynqDispatcher) NotifyVoicemail(ctx context.Context, from, transcript string) error {
	payload, err := json.Marshal(VoicemailPayload{From: from, Transcript: transcript})
	if err != nil {
		return fmt.Errorf("marshal voicemail notification: %w", err)
	}
	_, err = d.client.EnqueueContext(ctx, asynq.NewTask(TypeVoicemailNotify, payload), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue voicemail notification: %w", err)
	}
	return nil
}

func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
