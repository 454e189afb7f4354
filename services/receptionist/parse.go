package receptionist

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sammies/models"
)

// FallbackReply is spoken whenever the model's output cannot be parsed.
// The conversation must always be able to continue.
const FallbackReply = "Sorry, I had trouble understanding that. Could you please repeat that for me?"

// turnOutput is the normalized form of one model reply: the next message
// to speak, a booking patch (nil fields = no new information), and the
// escalation signal.
type turnOutput struct {
	Reply      string
	Patch      *models.BookingRecord
	Escalation models.Escalation
}

func fallbackOutput() *turnOutput {
	return &turnOutput{
		Reply:      FallbackReply,
		Patch:      &models.BookingRecord{Escalation: models.Escalation{Priority: models.PriorityNormal}},
		Escalation: models.Escalation{Priority: models.PriorityNormal},
	}
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// extractJSON pulls the JSON object out of raw model text. Models are
// told to answer in pure JSON but occasionally wrap it in markdown
// fences or prose, so take the fenced block if present, otherwise the
// outermost brace span.
func extractJSON(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}

// parseModelOutput converts raw model text into a normalized turnOutput.
// Any malformed-output path (invalid JSON, missing or mistyped required
// keys) returns the deterministic fallback and ok=false; it never errors.
func parseModelOutput(raw string) (*turnOutput, bool) {
	var wire struct {
		NextMessage json.RawMessage `json:"next_message_to_customer"`
		Booking     json.RawMessage `json:"booking"`
		Escalation  json.RawMessage `json:"escalation"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &wire); err != nil {
		return fallbackOutput(), false
	}

	var reply string
	if err := json.Unmarshal(wire.NextMessage, &reply); err != nil || reply == "" {
		return fallbackOutput(), false
	}

	var booking map[string]any
	if err := json.Unmarshal(wire.Booking, &booking); err != nil || booking == nil {
		return fallbackOutput(), false
	}

	out := &turnOutput{
		Reply:      reply,
		Patch:      normalizeBooking(booking),
		Escalation: normalizeEscalation(wire.Escalation),
	}
	out.Patch.Escalation = out.Escalation
	return out, true
}

// normalizeBooking maps the model's booking object onto the canonical
// record shape: missing keys become nil, unknown keys are ignored, and
// boolean-like values are coerced.
func normalizeBooking(m map[string]any) *models.BookingRecord {
	return &models.BookingRecord{
		Name:          stringField(m, "name"),
		Phone:         stringField(m, "phone"),
		JobType:       stringField(m, "job_type"),
		Description:   stringField(m, "description"),
		Location:      stringField(m, "location"),
		Urgency:       stringField(m, "urgency"),
		PreferredTime: stringField(m, "preferred_time"),
		VehicleMake:   stringField(m, "vehicle_make"),
		VehicleModel:  stringField(m, "vehicle_model"),
		VehicleYear:   stringField(m, "vehicle_year"),
		Registration:  stringField(m, "registration"),
		VIN:           stringField(m, "vin"),
		OdometerKM:    stringField(m, "odometer_km"),
		MessageOnly:   boolField(m, "message_only"),
		Escalation:    models.Escalation{Priority: models.PriorityNormal},
	}
}

// stringField reads a nullable string, stringifying stray numbers (the
// model sometimes emits vehicle_year or odometer_km as a number).
func stringField(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		return &s
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	case bool:
		s := fmt.Sprintf("%t", t)
		return &s
	default:
		return nil
	}
}

func boolField(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	case float64:
		return t != 0
	default:
		return false
	}
}

// normalizeEscalation shape-validates the model's escalation object,
// defaulting missing fields safely. Priority is coerced to normal/high.
func normalizeEscalation(raw json.RawMessage) models.Escalation {
	esc := models.Escalation{Priority: models.PriorityNormal}
	if len(raw) == 0 {
		return esc
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return esc
	}
	esc.EscalateToHuman = boolField(m, "escalate_to_human")
	esc.Reason = stringField(m, "reason")
	if p := stringField(m, "priority"); p != nil && strings.EqualFold(*p, models.PriorityHigh) {
		esc.Priority = models.PriorityHigh
	}
	return esc
}
