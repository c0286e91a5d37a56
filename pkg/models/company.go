package models

import "time"

// Company is a deduplicated employer, unique by name.
// Stored in the companies table.
type Company struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Domain      *string   `json:"domain"`
	Industry    *string   `json:"industry"`
	SubIndustry *string   `json:"sub_industry"`
	Size        *string   `json:"size"`
	Website     *string   `json:"website"`
	FoundedYear *int      `json:"founded_year"`
	Headcount   *int      `json:"headcount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompanyAggregate is a company with the contacts currently working there.
type CompanyAggregate struct {
	Company
	ContactCount int        `json:"contact_count"`
	Contacts     []*Contact `json:"contacts"`
}

// Company sort keys accepted by the listing endpoint.
const (
	CompanySortRecent = "recent"
	CompanySortName   = "name"
)

// CompanyFilter is the request-scoped filter set of GET /api/companies.
type CompanyFilter struct {
	Query    string // name + domain, accent-insensitive
	Industry string
	Sort     string
}

// Suggestion fields for GET /api/companies/suggestions.
const (
	SuggestionFieldDomain    = "domain"
	SuggestionFieldSector    = "sector"
	SuggestionFieldSubSector = "sub_sector"
	SuggestionFieldAll       = "all"
)

// MinSuggestionQueryLength is the shortest query that produces suggestions.
const MinSuggestionQueryLength = 2

// NormalizeSuggestionField maps unknown fields to SuggestionFieldAll.
func NormalizeSuggestionField(field string) string {
	switch field {
	case SuggestionFieldDomain, SuggestionFieldSector, SuggestionFieldSubSector:
		return field
	default:
		return SuggestionFieldAll
	}
}
