package conversation

import (
	"context"
	"errors"

	"sammies/models"
)

// Store holds per-session transcripts and booking records. A session is
// created on first reference to an unseen id and removed by Clear or
// expiry. Stores never interpret booking contents; merge semantics live
// on models.BookingRecord.
type Store interface {
	// GetOrCreate returns the session for id, creating an empty one if
	// it does not exist.
	GetOrCreate(ctx context.Context, id string) (*models.Session, error)

	// AppendTurn appends one transcript entry.
	AppendTurn(ctx context.Context, id, role, text string) error

	// MergeBooking applies patch to the session's record. Nil patch
	// fields mean "unknown this turn" and never clear existing values.
	MergeBooking(ctx context.Context, id string, patch *models.BookingRecord) error

	// Snapshot returns copies of the transcript and record so callers
	// can read them without holding store locks.
	Snapshot(ctx context.Context, id string) ([]models.Message, *models.BookingRecord, error)

	// Clear removes the session entirely.
	Clear(ctx context.Context, id string) error

	Close() error
}

var (
	ErrInvalidStoreType = errors.New("conversation: invalid store type")
	ErrInvalidConfig    = errors.New("conversation: invalid store configuration")
)
