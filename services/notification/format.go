package notification

import (
	"fmt"
	"strings"

	"sammies/models"
)

// BuildCustomerSMS is the confirmation text sent to the caller once
// their booking is recorded.
func BuildCustomerSMS(businessName string, b *models.BookingRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s, thanks for booking with %s.\n", orEmpty(b.Name), businessName)
	fmt.Fprintf(&sb, "Service: %s\n", orDefault(b.JobType, "mechanic service"))
	if b.VehicleMake != nil || b.VehicleModel != nil {
		fmt.Fprintf(&sb, "Vehicle: %s %s %s\n", orEmpty(b.VehicleYear), orEmpty(b.VehicleMake), orEmpty(b.VehicleModel))
	}
	if b.Registration != nil {
		fmt.Fprintf(&sb, "Rego: %s\n", *b.Registration)
	}
	if b.PreferredTime != nil {
		fmt.Fprintf(&sb, "Preferred time: %s\n", *b.PreferredTime)
	}
	if b.Location != nil {
		fmt.Fprintf(&sb, "Location: %s\n", *b.Location)
	}
	sb.WriteString("We'll be in touch to confirm the exact time.")
	return sb.String()
}

// BuildOwnerSMS is the full alert sent to the business owner.
func BuildOwnerSMS(businessName string, b *models.BookingRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "NEW BOOKING - %s\n", businessName)
	fmt.Fprintf(&sb, "Name: %s\n", orDash(b.Name))
	fmt.Fprintf(&sb, "Phone: %s\n", orDash(b.Phone))
	fmt.Fprintf(&sb, "Service: %s\n", orDash(b.JobType))
	fmt.Fprintf(&sb, "Vehicle: %s %s %s\n", orEmpty(b.VehicleYear), orEmpty(b.VehicleMake), orEmpty(b.VehicleModel))
	fmt.Fprintf(&sb, "Rego: %s\n", orDash(b.Registration))
	fmt.Fprintf(&sb, "VIN: %s\n", orDash(b.VIN))
	fmt.Fprintf(&sb, "Odometer: %s km\n", orDash(b.OdometerKM))
	fmt.Fprintf(&sb, "Location: %s\n", orDash(b.Location))
	fmt.Fprintf(&sb, "Urgency: %s\n", orDash(b.Urgency))
	fmt.Fprintf(&sb, "Preferred time: %s\n", orDash(b.PreferredTime))
	fmt.Fprintf(&sb, "Desc: %s", orDash(b.Description))
	return sb.String()
}

// BuildOwnerEmail is the plain-text email body for a new booking.
func BuildOwnerEmail(b *models.BookingRecord) string {
	return fmt.Sprintf(`New booking request received:

Name: %s
Phone: %s

Job: %s

Vehicle: %s %s %s
Rego: %s
VIN: %s
Odometer: %s

Location: %s
Urgency: %s
Preferred Time: %s

Problem Description:
%s

-- Sent automatically by your AI Receptionist
`,
		orNA(b.Name), orNA(b.Phone), orNA(b.JobType),
		orEmpty(b.VehicleYear), orEmpty(b.VehicleMake), orEmpty(b.VehicleModel),
		orNA(b.Registration), orNA(b.VIN), orNA(b.OdometerKM),
		orNA(b.Location), orNA(b.Urgency), orNA(b.PreferredTime),
		orNA(b.Description))
}

// BuildVoicemailSMS forwards a voicemail transcript to the owner.
func BuildVoicemailSMS(businessName, from, transcript string) string {
	return fmt.Sprintf("VOICEMAIL - %s\nFrom: %s\nMessage: %s", businessName, from, transcript)
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s *string) string {
	return orDefault(s, "-")
}

func orNA(s *string) string {
	return orDefault(s, "N/A")
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
