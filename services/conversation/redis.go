package conversation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"sammies/models"
)

const sessionKeyPrefix = "recept:sess:"

// redisStore keeps sessions as JSON blobs with a TTL refreshed on every
// write. Read-modify-write here is not atomic on its own; the turn
// executor serializes mutations per session id, which is the concurrency
// contract this store is used under.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisStore) load(ctx context.Context, id string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err == redis.Nil {
		now := time.Now()
		return &models.Session{
			ID:        id,
			Booking:   &models.BookingRecord{Escalation: models.Escalation{Priority: models.PriorityNormal}},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	if sess.Booking == nil {
		sess.Booking = &models.BookingRecord{Escalation: models.Escalation{Priority: models.PriorityNormal}}
	}
	return &sess, nil
}

func (s *redisStore) save(ctx context.Context, sess *models.Session) error {
	sess.UpdatedAt = time.Now()
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+sess.ID, b, s.ttl).Err()
}

func (s *redisStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(sess.Messages) == 0 {
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *redisStore) AppendTurn(ctx context.Context, id, role, text string) error {
	sess, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	sess.Messages = append(sess.Messages, models.Message{Role: role, Content: text})
	return s.save(ctx, sess)
}

func (s *redisStore) MergeBooking(ctx context.Context, id string, patch *models.BookingRecord) error {
	sess, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	sess.Booking.Merge(patch)
	return s.save(ctx, sess)
}

func (s *redisStore) Snapshot(ctx context.Context, id string) ([]models.Message, *models.BookingRecord, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sess.Messages, sess.Booking, nil
}

func (s *redisStore) Clear(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

func (s *redisStore) Close() error {
	return nil
}
