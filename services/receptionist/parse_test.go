package receptionist

import (
	"testing"

	"sammies/models"
)

func TestParseWellFormedOutput(t *testing.T) {
	raw := `{
		"next_message_to_customer": "Thanks Jane, what's the best number for you?",
		"booking": {
			"name": "Jane",
			"phone": null,
			"job_type": "brakes",
			"description": "grinding noise when stopping",
			"vehicle_year": 2018,
			"message_only": false
		},
		"escalation": {"escalate_to_human": false, "reason": null, "priority": "normal"}
	}`

	out, ok := parseModelOutput(raw)
	if !ok {
		t.Fatal("well-formed output parsed as fallback")
	}
	if out.Reply != "Thanks Jane, what's the best number for you?" {
		t.Errorf("Reply: got %q", out.Reply)
	}
	if out.Patch.Name == nil || *out.Patch.Name != "Jane" {
		t.Errorf("Name: got %v, want Jane", out.Patch.Name)
	}
	if out.Patch.Phone != nil {
		t.Errorf("Phone: got %v, want nil", out.Patch.Phone)
	}
	if out.Patch.VehicleYear == nil || *out.Patch.VehicleYear != "2018" {
		t.Errorf("VehicleYear: got %v, want stringified 2018", out.Patch.VehicleYear)
	}
	if out.Escalation.EscalateToHuman {
		t.Error("EscalateToHuman: got true, want false")
	}
}

func TestParseFallbackCases(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"invalid json", "I'm sorry, let me think about that."},
		{"truncated json", `{"next_message_to_customer": "hi", "booking": {`},
		{"missing booking key", `{"next_message_to_customer": "hi", "escalation": {}}`},
		{"booking not an object", `{"next_message_to_customer": "hi", "booking": "none"}`},
		{"empty reply", `{"next_message_to_customer": "", "booking": {}}`},
		{"reply not a string", `{"next_message_to_customer": 42, "booking": {}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := parseModelOutput(tc.raw)
			if ok {
				t.Fatal("malformed output parsed as ok")
			}
			if out.Reply != FallbackReply {
				t.Errorf("Reply: got %q, want fallback", out.Reply)
			}
			if out.Patch == nil {
				t.Fatal("fallback patch is nil")
			}
			if out.Patch.Name != nil || out.Patch.Complete {
				t.Error("fallback patch carries booking data")
			}
			if out.Escalation.EscalateToHuman {
				t.Error("fallback escalates")
			}
		})
	}
}

func TestParseStripsMarkdownFences(t *testing.T) {
	raw := "Here you go:\n```json\n{\"next_message_to_customer\": \"hi\", \"booking\": {\"name\": \"Bob\"}, \"escalation\": {}}\n```"
	out, ok := parseModelOutput(raw)
	if !ok {
		t.Fatal("fenced output parsed as fallback")
	}
	if out.Patch.Name == nil || *out.Patch.Name != "Bob" {
		t.Errorf("Name: got %v, want Bob", out.Patch.Name)
	}
}

func TestParseExtractsBraceSpanFromProse(t *testing.T) {
	raw := `Sure! {"next_message_to_customer": "hi", "booking": {}, "escalation": {}} Hope that helps.`
	if _, ok := parseModelOutput(raw); !ok {
		t.Fatal("prose-wrapped output parsed as fallback")
	}
}

func TestParseCoercion(t *testing.T) {
	raw := `{
		"next_message_to_customer": "noted",
		"booking": {
			"name": "  Sam  ",
			"odometer_km": 142350.25,
			"location": "",
			"message_only": "true",
			"favourite_colour": "blue"
		},
		"escalation": {}
	}`
	out, ok := parseModelOutput(raw)
	if !ok {
		t.Fatal("parsed as fallback")
	}
	if out.Patch.Name == nil || *out.Patch.Name != "Sam" {
		t.Errorf("Name not trimmed: got %v", out.Patch.Name)
	}
	if out.Patch.OdometerKM == nil || *out.Patch.OdometerKM != "142350.25" {
		t.Errorf("fractional number should round-trip exactly: got %v, want 142350.25", out.Patch.OdometerKM)
	}
	if out.Patch.Location != nil {
		t.Errorf("empty string should normalize to nil, got %v", out.Patch.Location)
	}
	if !out.Patch.MessageOnly {
		t.Error("message_only string \"true\" not coerced")
	}
}

func TestParseEscalationNormalization(t *testing.T) {
	raw := `{
		"next_message_to_customer": "connecting you now",
		"booking": {},
		"escalation": {"escalate_to_human": true, "reason": "angry customer", "priority": "URGENT"}
	}`
	out, ok := parseModelOutput(raw)
	if !ok {
		t.Fatal("parsed as fallback")
	}
	if !out.Escalation.EscalateToHuman {
		t.Error("EscalateToHuman lost")
	}
	if out.Escalation.Reason == nil || *out.Escalation.Reason != "angry customer" {
		t.Errorf("Reason: got %v", out.Escalation.Reason)
	}
	if out.Escalation.Priority != models.PriorityNormal {
		t.Errorf("unknown priority should coerce to normal, got %q", out.Escalation.Priority)
	}
	if out.Patch.Escalation.EscalateToHuman != true {
		t.Error("escalation not mirrored onto the patch")
	}
}

func TestParseHighPriority(t *testing.T) {
	raw := `{"next_message_to_customer": "on it", "booking": {}, "escalation": {"escalate_to_human": true, "priority": "high"}}`
	out, _ := parseModelOutput(raw)
	if out.Escalation.Priority != models.PriorityHigh {
		t.Errorf("Priority: got %q, want high", out.Escalation.Priority)
	}
}

func TestParseMissingEscalationDefaultsSafe(t *testing.T) {
	raw := `{"next_message_to_customer": "hi", "booking": {"name": "Ann"}}`
	out, ok := parseModelOutput(raw)
	if !ok {
		t.Fatal("parsed as fallback")
	}
	if out.Escalation.EscalateToHuman {
		t.Error("missing escalation object should not escalate")
	}
	if out.Escalation.Priority != models.PriorityNormal {
		t.Errorf("Priority: got %q, want normal", out.Escalation.Priority)
	}
}
