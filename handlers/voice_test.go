package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"sammies/config"
	"sammies/models"
)

type recordingDispatcher struct {
	mu         sync.Mutex
	voicemails []string
}

func (d *recordingDispatcher) NotifyBookingComplete(ctx context.Context, booking *models.BookingRecord) error {
	return nil
}

func (d *recordingDispatcher) NotifyVoicemail(ctx context.Context, from, transcript string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.voicemails = append(d.voicemails, from+": "+transcript)
	return nil
}

func newVoiceRouter(svc *fakeService, dispatcher *recordingDispatcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if dispatcher == nil {
		dispatcher = &recordingDispatcher{}
	}
	h := NewVoiceHandler(svc, dispatcher)
	r := gin.New()
	r.POST("/twilio/voice", h.Voice)
	r.POST("/twilio/after-transfer", h.AfterTransfer)
	r.POST("/twilio/take-message", h.TakeMessage)
	return r
}

func postForm(t *testing.T, r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVoiceGreetsOnFirstHit(t *testing.T) {
	svc := &fakeService{result: &models.TurnResponse{}}
	r := newVoiceRouter(svc, nil)

	w := postForm(t, r, "/twilio/voice", url.Values{"CallSid": {"CA1"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/xml") {
		t.Errorf("content type: got %q, want text/xml", got)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Gather") || !strings.Contains(body, `action="/twilio/voice"`) {
		t.Errorf("first hit should gather speech back to the voice webhook, got %s", body)
	}
	if !strings.Contains(body, "Sammies Automotive") {
		t.Errorf("greeting missing from TwiML: %s", body)
	}
}

func TestVoiceNormalTurnGathersNextQuestion(t *testing.T) {
	svc := &fakeService{result: &models.TurnResponse{
		Response: "What day suits you best?",
		Booking:  &models.BookingRecord{},
	}}
	r := newVoiceRouter(svc, nil)

	w := postForm(t, r, "/twilio/voice", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"my brakes are grinding"},
	})

	body := w.Body.String()
	if !strings.Contains(body, "What day suits you best?") {
		t.Errorf("reply missing from TwiML: %s", body)
	}
	if !strings.Contains(body, "<Gather") {
		t.Errorf("mid-conversation turn should keep gathering, got %s", body)
	}
}

func TestVoiceErrorSaysApologyWithoutGather(t *testing.T) {
	svc := &fakeService{err: errors.New("provider down")}
	r := newVoiceRouter(svc, nil)

	w := postForm(t, r, "/twilio/voice", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"hello"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Twilio webhooks must still get a 200 TwiML on errors, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<Say>") {
		t.Errorf("error path should speak an apology, got %s", body)
	}
	if strings.Contains(body, "<Gather") {
		t.Errorf("error path should not keep gathering, got %s", body)
	}
}

func TestVoiceEscalationDialsMechanic(t *testing.T) {
	prev := config.AppConfig.MechanicMobile
	config.AppConfig.MechanicMobile = "+61400111222"
	t.Cleanup(func() { config.AppConfig.MechanicMobile = prev })

	svc := &fakeService{result: &models.TurnResponse{
		Response:   "One moment.",
		Booking:    &models.BookingRecord{},
		Escalation: models.Escalation{EscalateToHuman: true, Priority: models.PriorityHigh},
	}}
	r := newVoiceRouter(svc, nil)

	w := postForm(t, r, "/twilio/voice", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"I want to speak to a human"},
	})

	body := w.Body.String()
	if !strings.Contains(body, "<Dial") || !strings.Contains(body, "+61400111222") {
		t.Errorf("escalation should dial the mechanic, got %s", body)
	}
	if !strings.Contains(body, `action="/twilio/after-transfer"`) {
		t.Errorf("dial outcome should post to the after-transfer webhook, got %s", body)
	}
}

func TestVoiceEscalationWithoutNumberKeepsTalking(t *testing.T) {
	prev := config.AppConfig.MechanicMobile
	config.AppConfig.MechanicMobile = ""
	t.Cleanup(func() { config.AppConfig.MechanicMobile = prev })

	svc := &fakeService{result: &models.TurnResponse{
		Response:   "I'll pass your details on.",
		Booking:    &models.BookingRecord{},
		Escalation: models.Escalation{EscalateToHuman: true},
	}}
	r := newVoiceRouter(svc, nil)

	w := postForm(t, r, "/twilio/voice", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"get me a person"},
	})

	body := w.Body.String()
	if strings.Contains(body, "<Dial") {
		t.Errorf("no transfer number configured, should not dial: %s", body)
	}
	if !strings.Contains(body, "<Gather") {
		t.Errorf("conversation should continue when transfer is impossible, got %s", body)
	}
}

func TestVoiceCompleteBookingConfirmsAndHangsUp(t *testing.T) {
	name := "Jane"
	job := "brake service"
	svc := &fakeService{result: &models.TurnResponse{
		Response: "All booked!",
		Booking:  &models.BookingRecord{Name: &name, JobType: &job},
		Complete: true,
	}}
	r := newVoiceRouter(svc, nil)

	w := postForm(t, r, "/twilio/voice", url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"Tuesday works"},
	})

	body := w.Body.String()
	if !strings.Contains(body, "Jane") || !strings.Contains(body, "brake service") {
		t.Errorf("confirmation should name the caller and the job, got %s", body)
	}
	if strings.Contains(body, "<Gather") {
		t.Errorf("completed booking should end the conversation, got %s", body)
	}
}

func TestAfterTransferCompletedEndsQuietly(t *testing.T) {
	r := newVoiceRouter(&fakeService{result: &models.TurnResponse{}}, nil)

	w := postForm(t, r, "/twilio/after-transfer", url.Values{"DialCallStatus": {"completed"}})

	body := w.Body.String()
	if strings.Contains(body, "<Gather") || strings.Contains(body, "<Say") {
		t.Errorf("completed transfer should return an empty response, got %s", body)
	}
}

func TestAfterTransferFailureOffersVoicemail(t *testing.T) {
	r := newVoiceRouter(&fakeService{result: &models.TurnResponse{}}, nil)

	for _, status := range []string{"busy", "no-answer", "failed"} {
		t.Run(status, func(t *testing.T) {
			w := postForm(t, r, "/twilio/after-transfer", url.Values{"DialCallStatus": {status}})
			body := w.Body.String()
			if !strings.Contains(body, `action="/twilio/take-message"`) {
				t.Errorf("failed transfer should gather a voicemail, got %s", body)
			}
		})
	}
}

func TestTakeMessageForwardsVoicemail(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	r := newVoiceRouter(&fakeService{result: &models.TurnResponse{}}, dispatcher)

	w := postForm(t, r, "/twilio/take-message", url.Values{
		"From":         {"+61400999888"},
		"SpeechResult": {"it's Bob, my ute won't start, call me back"},
	})

	if !strings.Contains(w.Body.String(), "<Say>") {
		t.Errorf("caller should hear a thank-you, got %s", w.Body.String())
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		dispatcher.mu.Lock()
		n := len(dispatcher.voicemails)
		dispatcher.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	if len(dispatcher.voicemails) != 1 {
		t.Fatalf("voicemails forwarded: got %d, want 1", len(dispatcher.voicemails))
	}
	if !strings.Contains(dispatcher.voicemails[0], "+61400999888") {
		t.Errorf("voicemail should carry the caller's number, got %q", dispatcher.voicemails[0])
	}
}
