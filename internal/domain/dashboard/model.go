package dashboard

// LivesPerFulfilledRequest is the fixed multiplier behind the "lives saved"
// headline number.
const LivesPerFulfilledRequest = 3

// Stats is the landing-page headline block.
type Stats struct {
	TotalDonors         int `json:"total_donors"`
	RecentRequestsCount int `json:"recent_requests_count"`
	LivesSaved          int `json:"lives_saved"`
}

// MonthCount is one (year, month) aggregation bucket.
type MonthCount struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// Trends is the trailing-six-month fulfilled-request series. Months with no
// activity are zero-filled; HasData is false when every bucket is zero.
type Trends struct {
	Months  []MonthCount `json:"months"`
	HasData bool         `json:"has_data"`
}

// BloodTypeTotal is one row of the inventory summary.
type BloodTypeTotal struct {
	BloodType  string `json:"blood_type"`
	TotalUnits int    `json:"total_units"`
}
