package inventory

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stock status tiers, derived from quantity on every persist.
const (
	StatusCritical = "CRITICAL"
	StatusLow      = "LOW"
	StatusOptimal  = "OPTIMAL"
)

// Hospital types. GOVERNMENT is the fabrication default when a completed
// donation references a hospital the inventory has never seen.
const (
	TypeGovernment = "GOVERNMENT"
	TypePrivate    = "PRIVATE"
	TypeNGO        = "NGO"
)

var HospitalTypes = map[string]bool{
	TypeGovernment: true, TypePrivate: true, TypeNGO: true,
}

// Fabricated rows get a 35-day shelf life from the donation date.
const fabricatedShelfLife = 35 * 24 * time.Hour

// DeriveStatus is the persistence invariant: a pure step function of quantity.
func DeriveStatus(quantity int) string {
	switch {
	case quantity < 10:
		return StatusCritical
	case quantity < 30:
		return StatusLow
	default:
		return StatusOptimal
	}
}

// BloodInventory maps to the blood_inventory table. One row per
// (hospital_name, blood_type) pair; hospital identity is the name string.
type BloodInventory struct {
	ID           uuid.UUID `db:"id" json:"id"`
	HospitalName string    `db:"hospital_name" json:"hospital_name"`
	HospitalType string    `db:"hospital_type" json:"hospital_type"`
	City         string    `db:"city" json:"city"`
	Division     string    `db:"division" json:"division"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	Is247        bool      `db:"is_247" json:"is_247"`
	BloodType    string    `db:"blood_type" json:"blood_type"`
	Quantity     int       `db:"quantity" json:"quantity"`
	ExpiryDate   time.Time `db:"expiry_date" json:"expiry_date"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// HospitalStock is the grouped-by-hospital read view.
type HospitalStock struct {
	HospitalName string            `json:"hospital_name"`
	HospitalType string            `json:"hospital_type"`
	City         string            `json:"city"`
	Division     string            `json:"division"`
	Phone        string            `json:"phone"`
	Is247        bool              `json:"is_247"`
	TotalUnits   int               `json:"total_units"`
	Stock        []*BloodInventory `json:"stock"`
}

// Filter narrows inventory listings.
type Filter struct {
	BloodType    string
	Status       string
	HospitalName string
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a hospital name and collapses runs of non-alphanumerics
// to single hyphens.
func Slugify(name string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

// ParseCityDivision splits a free-text address on commas: first segment is
// the city, second the division, falling back to the city when absent.
func ParseCityDivision(address string) (city, division string) {
	parts := strings.Split(address, ",")
	city = strings.TrimSpace(parts[0])
	division = city
	if len(parts) > 1 {
		if d := strings.TrimSpace(parts[1]); d != "" {
			division = d
		}
	}
	return city, division
}
