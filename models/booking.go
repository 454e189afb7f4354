package models

// Escalation priority levels.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Escalation signals that a human must take over the conversation.
// It is reported by the model and shape-validated by the policy layer.
type Escalation struct {
	EscalateToHuman bool    `json:"escalate_to_human"`
	Reason          *string `json:"reason"`
	Priority        string  `json:"priority"` // "normal" or "high"
}

// BookingRecord is the structured data a session accumulates toward.
// Every field is nil until the caller has provided it. Fields only move
// from unset to set; a nil field in a merge patch means "unknown this
// turn", never "unset".
type BookingRecord struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	JobType       *string `json:"job_type"`
	Description   *string `json:"description"`
	Location      *string `json:"location"`
	Urgency       *string `json:"urgency"`
	PreferredTime *string `json:"preferred_time"`

	// Automotive profile fields. VIN and odometer are always optional
	// and never block completeness.
	VehicleMake  *string `json:"vehicle_make"`
	VehicleModel *string `json:"vehicle_model"`
	VehicleYear  *string `json:"vehicle_year"`
	Registration *string `json:"registration"`
	VIN          *string `json:"vin"`
	OdometerKM   *string `json:"odometer_km"`

	MessageOnly bool `json:"message_only"`
	Complete    bool `json:"complete"`

	Escalation Escalation `json:"escalation"`
}

// Merge applies patch fields where the patch value is non-nil. Existing
// non-nil fields are preserved when the patch supplies nil. Booleans are
// sticky: once true they stay true. Merging the same patch twice yields
// the same record as merging it once.
func (r *BookingRecord) Merge(patch *BookingRecord) {
	if patch == nil {
		return
	}
	mergeField(&r.Name, patch.Name)
	mergeField(&r.Phone, patch.Phone)
	mergeField(&r.JobType, patch.JobType)
	mergeField(&r.Description, patch.Description)
	mergeField(&r.Location, patch.Location)
	mergeField(&r.Urgency, patch.Urgency)
	mergeField(&r.PreferredTime, patch.PreferredTime)
	mergeField(&r.VehicleMake, patch.VehicleMake)
	mergeField(&r.VehicleModel, patch.VehicleModel)
	mergeField(&r.VehicleYear, patch.VehicleYear)
	mergeField(&r.Registration, patch.Registration)
	mergeField(&r.VIN, patch.VIN)
	mergeField(&r.OdometerKM, patch.OdometerKM)

	r.MessageOnly = r.MessageOnly || patch.MessageOnly
	r.Complete = r.Complete || patch.Complete

	if patch.Escalation.EscalateToHuman {
		r.Escalation = patch.Escalation
	}
}

func mergeField(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// Clone returns a deep copy so callers can hand records across goroutines
// without sharing pointers.
func (r *BookingRecord) Clone() *BookingRecord {
	if r == nil {
		return nil
	}
	out := &BookingRecord{
		MessageOnly: r.MessageOnly,
		Complete:    r.Complete,
		Escalation:  r.Escalation,
	}
	out.Escalation.Reason = copyField(r.Escalation.Reason)
	out.Name = copyField(r.Name)
	out.Phone = copyField(r.Phone)
	out.JobType = copyField(r.JobType)
	out.Description = copyField(r.Description)
	out.Location = copyField(r.Location)
	out.Urgency = copyField(r.Urgency)
	out.PreferredTime = copyField(r.PreferredTime)
	out.VehicleMake = copyField(r.VehicleMake)
	out.VehicleModel = copyField(r.VehicleModel)
	out.VehicleYear = copyField(r.VehicleYear)
	out.Registration = copyField(r.Registration)
	out.VIN = copyField(r.VIN)
	out.OdometerKM = copyField(r.OdometerKM)
	return out
}

func copyField(src *string) *string {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}
