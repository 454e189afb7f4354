package receptionist

import (
	"strings"

	"sammies/models"
)

// EvaluateComplete derives completeness from the record alone; the
// model's own complete flag is never trusted. Message-only records use
// the reduced required set. Escalation plays no part here — a record can
// be incomplete yet escalated, or complete without escalation.
func EvaluateComplete(r *models.BookingRecord, p *DomainProfile) bool {
	if r == nil {
		return false
	}
	required := p.RequiredFull
	if r.MessageOnly {
		required = p.RequiredMessageOnly
	}
	for _, req := range required {
		if !requirementMet(r, req) {
			return false
		}
	}
	return true
}

// requirementMet checks one required entry; "a|b" means either field
// satisfies the requirement.
func requirementMet(r *models.BookingRecord, req string) bool {
	for _, key := range strings.Split(req, "|") {
		if fieldValue(r, key) != nil {
			return true
		}
	}
	return false
}

func fieldValue(r *models.BookingRecord, key string) *string {
	switch key {
	case "name":
		return r.Name
	case "phone":
		return r.Phone
	case "job_type":
		return r.JobType
	case "description":
		return r.Description
	case "location":
		return r.Location
	case "urgency":
		return r.Urgency
	case "preferred_time":
		return r.PreferredTime
	case "vehicle_make":
		return r.VehicleMake
	case "vehicle_model":
		return r.VehicleModel
	case "vehicle_year":
		return r.VehicleYear
	case "registration":
		return r.Registration
	case "vin":
		return r.VIN
	case "odometer_km":
		return r.OdometerKM
	default:
		return nil
	}
}
