package identity

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	RoleDonor = "DONOR"
	RoleAdmin = "ADMIN"

	// DonationPoints is credited per completed donation.
	DonationPoints = 50

	// Default coordinates (Dhaka centroid) for donors who never set a location.
	DefaultLat = 23.8103
	DefaultLng = 90.4125

	MinWeightKg = 50
)

// BloodGroups enumerates the eight valid blood group labels.
var BloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// Bangladesh mobile numbers only.
var phoneRe = regexp.MustCompile(`^\+8801[3-9]\d{8}$`)

// ValidPhone reports whether phone is a well-formed Bangladesh mobile number.
func ValidPhone(phone string) bool { return phoneRe.MatchString(phone) }

// User maps to the users table: identity plus donor profile.
type User struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	Phone            string     `db:"phone" json:"phone"`
	BloodGroup       string     `db:"blood_group" json:"blood_group"`
	DOB              *time.Time `db:"dob" json:"dob,omitempty"`
	District         string     `db:"district" json:"district"`
	Gender           *string    `db:"gender" json:"gender,omitempty"`
	WeightKg         float64    `db:"weight_kg" json:"weight_kg"`
	LastDonationDate *time.Time `db:"last_donation_date" json:"last_donation_date,omitempty"`
	Points           int        `db:"points" json:"points"`
	IsAvailable      bool       `db:"is_available" json:"is_available"`
	Role             string     `db:"role" json:"role"`
	Lat              float64    `db:"lat" json:"lat"`
	Lng              float64    `db:"lng" json:"lng"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// DonorFilter narrows donor listings.
type DonorFilter struct {
	BloodGroup string
	District   string
	Available  *bool
}
