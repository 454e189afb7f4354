package notification

import (
	"context"

	"sammies/models"
)

// Asynq task type names handled by the notification worker.
const (
	TypeBookingNotify   = "notify:booking"
	TypeVoicemailNotify = "notify:voicemail"
)

// BookingPayload is the task payload for a completed booking.
type BookingPayload struct {
	Booking *models.BookingRecord `json:"booking"`
}

// VoicemailPayload is the task payload for a voicemail transcript.
type VoicemailPayload struct {
	From       string `json:"from"`
	Transcript string `json:"transcript"`
}

// Dispatcher delivers out-of-band notifications. Calls are
// fire-and-forget from the conversation's point of view: failures are
// logged by callers but never propagated back into a turn.
type Dispatcher interface {
	// NotifyBookingComplete sends the customer confirmation and owner
	// alert for a finished booking record.
	NotifyBookingComplete(ctx context.Context, booking *models.BookingRecord) error

	// NotifyVoicemail forwards a voicemail transcript to the owner.
	NotifyVoicemail(ctx context.Context, from, transcript string) error
}

// NoopDispatcher drops all notifications. Used in development when no
// queue is configured, and in tests.
type NoopDispatcher struct{}

func (NoopDispatcher) NotifyBookingComplete(ctx context.Context, booking *models.BookingRecord) error {
	return nil
}

func (NoopDispatcher) NotifyVoicemail(ctx context.Context, from, transcript string) error {
	return nil
}
