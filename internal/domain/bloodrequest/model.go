package bloodrequest

import (
	"time"

	"github.com/google/uuid"
)

// Request states. OPEN is the only non-terminal state.
const (
	StatusOpen      = "OPEN"
	StatusFulfilled = "FULFILLED"
	StatusCancelled = "CANCELLED"
)

// Urgency tiers.
const (
	UrgencyEmergency = "EMERGENCY"
	UrgencyUrgent    = "URGENT"
	UrgencyNormal    = "NORMAL"
)

var Urgencies = map[string]bool{
	UrgencyEmergency: true, UrgencyUrgent: true, UrgencyNormal: true,
}

// BloodRequest maps to the blood_requests table. RequestedBy is null for
// anonymous requests; FulfilledBy is set when a donor accepts.
type BloodRequest struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	HospitalName         string     `db:"hospital_name" json:"hospital_name"`
	BloodGroup           string     `db:"blood_group" json:"blood_group"`
	UnitsNeeded          int        `db:"units_needed" json:"units_needed"`
	Urgency              string     `db:"urgency" json:"urgency"`
	Lat                  float64    `db:"lat" json:"lat"`
	Lng                  float64    `db:"lng" json:"lng"`
	Address              string     `db:"address" json:"address"`
	ContactPhone         string     `db:"contact_phone" json:"contact_phone"`
	Status               string     `db:"status" json:"status"`
	PatientName          string     `db:"patient_name" json:"patient_name"`
	Relationship         string     `db:"relationship" json:"relationship,omitempty"`
	IsThalassemiaPatient bool       `db:"is_thalassemia_patient" json:"is_thalassemia_patient"`
	RequestedBy          *uuid.UUID `db:"requested_by" json:"requested_by,omitempty"`
	FulfilledBy          *uuid.UUID `db:"fulfilled_by" json:"fulfilled_by,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// Filter narrows request listings.
type Filter struct {
	Status     string
	BloodGroup string
	Urgency    string
}
