package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment states. SCHEDULED is the only non-terminal state; NO_SHOW is
// part of the stored enum but no operation sets it yet.
const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"
)

// CooldownDays is the minimum gap between completed donations.
const CooldownDays = 120

// Appointment maps to the appointments table. Donor name/phone/blood group
// are copied at creation time and never re-derived from the profile; the row
// is an audit-stable record of who booked under what identity.
type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	DonorID         uuid.UUID  `db:"donor_id" json:"donor_id"`
	DonorName       string     `db:"donor_name" json:"donor_name"`
	DonorPhone      string     `db:"donor_phone" json:"donor_phone"`
	DonorBloodGroup string     `db:"donor_blood_group" json:"donor_blood_group"`
	HospitalID      string     `db:"hospital_id" json:"hospital_id"`
	HospitalName    string     `db:"hospital_name" json:"hospital_name"`
	HospitalAddress string     `db:"hospital_address" json:"hospital_address"`
	HospitalPhone   string     `db:"hospital_phone" json:"hospital_phone"`
	BloodGroup      string     `db:"blood_group" json:"blood_group"`
	AppointmentDate time.Time  `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string     `db:"appointment_time" json:"appointment_time"`
	Status          string     `db:"status" json:"status"`
	Notes           string     `db:"notes" json:"notes,omitempty"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
