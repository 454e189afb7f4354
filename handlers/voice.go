package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sammies/config"
	"sammies/services/notification"
	"sammies/services/receptionist"
	"sammies/utils"
)

// VoiceHandler serves the Twilio voice webhooks. Twilio performs the
// speech-to-text upstream and posts the transcription as SpeechResult;
// the call leg's CallSid doubles as the session id.
type VoiceHandler struct {
	Svc        receptionist.Service
	Dispatcher notification.Dispatcher
}

func NewVoiceHandler(svc receptionist.Service, dispatcher notification.Dispatcher) *VoiceHandler {
	return &VoiceHandler{Svc: svc, Dispatcher: dispatcher}
}

// Voice handles POST /twilio/voice for every conversational hop of a call.
func (h *VoiceHandler) Voice(c *gin.Context) {
	logger := utils.GetLogger()
	callSid := c.PostForm("CallSid")
	speech := c.PostForm("SpeechResult")

	// First hit: no speech yet -> greet + gather.
	if speech == "" {
		renderTwiML(c, &TwiML{
			Gather: gatherSpeech("/twilio/voice", h.Svc.Profile().VoiceGreeting),
		})
		return
	}

	result, err := h.Svc.HandleTurn(c.Request.Context(), callSid, speech)
	if err != nil {
		logger.Error("Voice turn failed", zap.String("callSid", callSid), zap.Error(err))
		renderTwiML(c, &TwiML{
			Say: []TwiMLSay{{Text: "Sorry, there was a problem on our end. Please try calling again later."}},
		})
		return
	}

	// Escalation requested -> try to transfer to the mechanic.
	if result.Escalation.EscalateToHuman && config.AppConfig.MechanicMobile != "" {
		renderTwiML(c, &TwiML{
			Say: []TwiMLSay{{Text: "One moment please, I'll try to put you through to the mechanic now."}},
			Dial: &TwiMLDial{
				Action:  "/twilio/after-transfer",
				Method:  "POST",
				Timeout: 20,
				Number:  config.AppConfig.MechanicMobile,
			},
		})
		return
	}

	// Booking complete -> confirm and finish; the confirmation SMS is
	// already on its way from the dispatcher.
	if result.Complete {
		name := ""
		if result.Booking != nil && result.Booking.Name != nil {
			name = " " + *result.Booking.Name
		}
		job := "your vehicle"
		if result.Booking != nil && result.Booking.JobType != nil {
			job = *result.Booking.JobType
		}
		renderTwiML(c, &TwiML{
			Say: []TwiMLSay{
				{Text: "Thanks" + name + ". I've recorded your booking for " + job + "."},
				{Text: "You'll receive a confirmation message shortly. The mechanic will be in touch soon. Goodbye."},
			},
		})
		return
	}

	// Normal conversational turn -> ask the next question.
	prompt := result.Response
	if prompt == "" {
		prompt = "Sorry, I didn't catch that. Could you please say that again?"
	}
	renderTwiML(c, &TwiML{Gather: gatherSpeech("/twilio/voice", prompt)})
}

// AfterTransfer handles POST /twilio/after-transfer, posted by Twilio
// once a Dial attempt finishes. A failed transfer falls back to
// voicemail.
func (h *VoiceHandler) AfterTransfer(c *gin.Context) {
	status := c.PostForm("DialCallStatus") // 'completed', 'busy', 'no-answer', etc.

	if status == "completed" {
		// Mechanic spoke to caller; nothing else to do.
		renderTwiML(c, &TwiML{})
		return
	}

	renderTwiML(c, &TwiML{
		Gather: gatherSpeech("/twilio/take-message",
			"Sorry, the mechanic is currently busy on another job and couldn't take your call. "+
				"Please leave your name, best phone number, and a brief description of the issue after the tone, "+
				"and we'll call you back as soon as we're available."),
	})
}

// TakeMessage handles POST /twilio/take-message: forwards the voicemail
// transcript to the owner and thanks the caller.
func (h *VoiceHandler) TakeMessage(c *gin.Context) {
	logger := utils.GetLogger()
	transcript := c.PostForm("SpeechResult")
	from := c.PostForm("From")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Dispatcher.NotifyVoicemail(ctx, from, transcript); err != nil {
			logger.Error("Voicemail notification failed", zap.String("from", from), zap.Error(err))
		}
	}()

	renderTwiML(c, &TwiML{
		Say: []TwiMLSay{{Text: "Thanks, we've recorded your message. The mechanic will call you back as soon as they're free. Goodbye."}},
	})
}
