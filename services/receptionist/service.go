package receptionist

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"sammies/models"
	"sammies/services/conversation"
	"sammies/services/llm"
	"sammies/services/notification"
)

// Service is the single entry point both transport adapters call into.
type Service interface {
	// HandleTurn runs one conversation turn for a session: prompt
	// assembly, model completion, parsing, transcript append, booking
	// merge and completion evaluation. Provider failures are returned
	// as *llm.ProviderError; malformed model output is absorbed into a
	// fallback reply and never errors.
	HandleTurn(ctx context.Context, sessionID, utterance string) (*models.TurnResponse, error)

	// ClearSession drops a session's transcript and record.
	ClearSession(ctx context.Context, sessionID string) error

	// Profile exposes the active domain profile (greeting text etc.).
	Profile() *DomainProfile
}

// sessionLockStripes sizes the lock pool. Distinct sessions can share a
// stripe and contend briefly; a stripe is never discarded, so a queued
// turn always waits on the same mutex a clear or another turn holds.
const sessionLockStripes = 256

// DefaultService is the production receptionist engine.
type DefaultService struct {
	completer  llm.Completer
	store      conversation.Store
	dispatcher notification.Dispatcher
	profile    *DomainProfile
	timeout    time.Duration
	logger     *zap.Logger

	// Striped by session id hash. Serializes the whole
	// read→complete→merge sequence; duplicate webhook deliveries for
	// the same call must not interleave transcript entries or lose a
	// booking merge. Fixed size keeps memory flat no matter how many
	// session ids pass through.
	locks [sessionLockStripes]sync.Mutex
}

func NewDefaultService(
	completer llm.Completer,
	store conversation.Store,
	dispatcher notification.Dispatcher,
	profile *DomainProfile,
	timeout time.Duration,
	logger *zap.Logger,
) *DefaultService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DefaultService{
		completer:  completer,
		store:      store,
		dispatcher: dispatcher,
		profile:    profile,
		timeout:    timeout,
		logger:     logger,
	}
}

func (s *DefaultService) Profile() *DomainProfile {
	return s.profile
}

func (s *DefaultService) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%sessionLockStripes]
}

func (s *DefaultService) HandleTurn(ctx context.Context, sessionID, utterance string) (*models.TurnResponse, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	transcript, prior, err := s.store.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	messages := make([]llm.Message, 0, len(transcript)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.profile.SystemPrompt})
	for _, m := range transcript {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: utterance})

	// The completion call is the only operation that blocks for real
	// latency; bound it so a hung provider cannot stall the session
	// forever. Expiry surfaces as a timeout ProviderError, not as the
	// parse fallback.
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	raw, err := s.completer.Complete(callCtx, messages)
	cancel()
	if err != nil {
		return nil, err
	}

	out, ok := parseModelOutput(raw)
	if !ok {
		s.logger.Warn("model output unparseable, using fallback",
			zap.String("sessionID", sessionID),
			zap.String("raw", raw))
	}

	merged := prior.Clone()
	merged.Merge(out.Patch)
	complete := EvaluateComplete(merged, s.profile)
	if complete {
		out.Patch.Complete = true
		merged.Complete = true
	}

	assistantContent := serializeTurn(out)
	if err := s.store.AppendTurn(ctx, sessionID, models.RoleUser, utterance); err != nil {
		return nil, fmt.Errorf("append user turn: %w", err)
	}
	if err := s.store.AppendTurn(ctx, sessionID, models.RoleAssistant, assistantContent); err != nil {
		return nil, fmt.Errorf("append assistant turn: %w", err)
	}
	if err := s.store.MergeBooking(ctx, sessionID, out.Patch); err != nil {
		return nil, fmt.Errorf("merge booking: %w", err)
	}

	if complete && !prior.Complete {
		s.notifyComplete(sessionID, merged)
	}

	return &models.TurnResponse{
		SessionID:  sessionID,
		Response:   out.Reply,
		Booking:    merged,
		Escalation: out.Escalation,
		Complete:   complete,
	}, nil
}

// notifyComplete fires the booking notification without tying its fate
// to the turn. Dispatch failures are logged and nothing else.
func (s *DefaultService) notifyComplete(sessionID string, booking *models.BookingRecord) {
	record := booking.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.dispatcher.NotifyBookingComplete(ctx, record); err != nil {
			s.logger.Error("booking notification dispatch failed",
				zap.String("sessionID", sessionID),
				zap.Error(err))
		}
	}()
}

func (s *DefaultService) ClearSession(ctx context.Context, sessionID string) error {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()
	return s.store.Clear(ctx, sessionID)
}

// serializeTurn renders the normalized output back to the contract JSON.
// The transcript stores this serialized form so later turns show the
// model its own prior structured state.
func serializeTurn(out *turnOutput) string {
	wire := struct {
		NextMessage string                `json:"next_message_to_customer"`
		Booking     *models.BookingRecord `json:"booking"`
		Escalation  models.Escalation     `json:"escalation"`
	}{
		NextMessage: out.Reply,
		Booking:     out.Patch,
		Escalation:  out.Escalation,
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return out.Reply
	}
	return string(b)
}
