package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sammies/models"
	"sammies/services/llm"
	"sammies/services/receptionist"
)

// fakeService returns a fixed result or error for every turn.
type fakeService struct {
	result  *models.TurnResponse
	err     error
	cleared []string
}

func (f *fakeService) HandleTurn(ctx context.Context, sessionID, utterance string) (*models.TurnResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.SessionID = sessionID
	return &res, nil
}

func (f *fakeService) ClearSession(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func (f *fakeService) Profile() *receptionist.DomainProfile {
	return receptionist.AutomotiveProfile()
}

func newTurnRouter(svc receptionist.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReceptionistHandler(svc)
	r := gin.New()
	r.POST("/receptionist", h.HandleTurn)
	r.POST("/receptionist/session", h.NewSession)
	r.DELETE("/receptionist/session/:sessionID", h.ClearSession)
	return r
}

func postTurn(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/receptionist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTurnEndpointSuccess(t *testing.T) {
	svc := &fakeService{result: &models.TurnResponse{
		Response: "What's the best number for you?",
		Booking:  &models.BookingRecord{},
	}}
	w := postTurn(t, newTurnRouter(svc), `{"sessionId": "s1", "userMessage": "hi, it's Jane"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var resp models.TurnResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.SessionID != "s1" {
		t.Errorf("sessionId: got %q, want s1", resp.SessionID)
	}
	if resp.Response != "What's the best number for you?" {
		t.Errorf("response: got %q", resp.Response)
	}
}

func TestTurnEndpointRejectsMissingFields(t *testing.T) {
	r := newTurnRouter(&fakeService{result: &models.TurnResponse{}})
	for name, body := range map[string]string{
		"no session id": `{"userMessage": "hi"}`,
		"no message":    `{"sessionId": "s1"}`,
		"not json":      `hello`,
	} {
		t.Run(name, func(t *testing.T) {
			if w := postTurn(t, r, body); w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
}

func TestTurnEndpointProviderErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"rate limit", &llm.ProviderError{Kind: llm.KindRateLimit, Status: 429, Err: errors.New("quota")}, http.StatusServiceUnavailable},
		{"auth", &llm.ProviderError{Kind: llm.KindAuth, Status: 401, Err: errors.New("bad key")}, http.StatusInternalServerError},
		{"timeout", &llm.ProviderError{Kind: llm.KindTimeout, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTurnRouter(&fakeService{err: tc.err})
			w := postTurn(t, r, `{"sessionId": "s1", "userMessage": "hi"}`)
			if w.Code != tc.wantCode {
				t.Errorf("status: got %d, want %d", w.Code, tc.wantCode)
			}
		})
	}
}

func TestTurnEndpointAuthErrorKeepsDistinctBody(t *testing.T) {
	r := newTurnRouter(&fakeService{err: &llm.ProviderError{Kind: llm.KindAuth, Status: 401, Err: errors.New("bad key")}})
	w := postTurn(t, r, `{"sessionId": "s1", "userMessage": "hi"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "configuration") {
		t.Errorf("auth failure body should point at configuration, got %q", w.Body.String())
	}
}

func TestTurnEndpointRateLimitStaysRetryable(t *testing.T) {
	r := newTurnRouter(&fakeService{err: &llm.ProviderError{Kind: llm.KindRateLimit, Status: 429, Err: errors.New("quota")}})
	w := postTurn(t, r, `{"sessionId": "s1", "userMessage": "hi"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "try again") {
		t.Errorf("rate-limit body should ask the caller to retry, got %q", w.Body.String())
	}
}

func TestNewSessionMintsID(t *testing.T) {
	r := newTurnRouter(&fakeService{result: &models.TurnResponse{}})
	req := httptest.NewRequest(http.MethodPost, "/receptionist/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var resp models.NewSessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("empty session id")
	}
}

func TestClearSessionEndpoint(t *testing.T) {
	svc := &fakeService{result: &models.TurnResponse{}}
	r := newTurnRouter(svc)
	req := httptest.NewRequest(http.MethodDelete, "/receptionist/session/s1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if len(svc.cleared) != 1 || svc.cleared[0] != "s1" {
		t.Errorf("cleared sessions: got %v, want [s1]", svc.cleared)
	}
}
