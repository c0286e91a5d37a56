package models

// Bucket is a labelled count.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	Contacts       int       `json:"contacts"`
	Companies      int       `json:"companies"`
	Prospects      int       `json:"prospects"`
	MigratedLegacy int       `json:"migrated_prospects"`
	TopIndustries  []*Bucket `json:"top_industries"`
	TopCountries   []*Bucket `json:"top_countries"`
}
