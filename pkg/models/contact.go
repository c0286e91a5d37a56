package models

import "time"

// Contact is a person record in the current CRM schema.
// Stored in the contacts table.
type Contact struct {
	ID                 int64     `json:"id"`
	FullName           string    `json:"full_name"`
	Headline           *string   `json:"headline"`
	Location           *string   `json:"location"`
	Country            *string   `json:"country"`
	CompanyName        *string   `json:"current_company_name"`
	CompanyIndustry    *string   `json:"current_company_industry"`
	CompanySubIndustry *string   `json:"current_company_subindustry"`
	Title              *string   `json:"current_title"` // normalized current job title
	YearsExperience    *int      `json:"years_experience"`
	Connections        *int      `json:"connections"`
	LeadScore          *int      `json:"lead_score"`
	ProfileURL         *string   `json:"profile_url"`
	LinkedInURL        *string   `json:"linkedin_url"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ContactUpdate carries the admin-editable fields of a contact.
// Nil fields are left unchanged.
type ContactUpdate struct {
	FullName           *string `json:"full_name"`
	Headline           *string `json:"headline"`
	Location           *string `json:"location"`
	Country            *string `json:"country"`
	CompanyName        *string `json:"current_company_name"`
	CompanyIndustry    *string `json:"current_company_industry"`
	CompanySubIndustry *string `json:"current_company_subindustry"`
	Title              *string `json:"current_title"`
	YearsExperience    *int    `json:"years_experience"`
	LeadScore          *int    `json:"lead_score"`
	LinkedInURL        *string `json:"linkedin_url"`
}

// IsEmpty reports whether no field is set.
func (u *ContactUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Headline == nil && u.Location == nil && u.Country == nil &&
		u.CompanyName == nil && u.CompanyIndustry == nil && u.CompanySubIndustry == nil &&
		u.Title == nil && u.YearsExperience == nil && u.LeadScore == nil && u.LinkedInURL == nil
}

// Contact sort keys accepted by the listing endpoint.
const (
	ContactSortRecent      = "recent"
	ContactSortName        = "name"
	ContactSortCompany     = "company"
	ContactSortScore       = "score"
	ContactSortConnections = "connections"
)

// ContactFilter is the request-scoped filter set of GET /api/contacts.
// Every field is optional; present fields combine with AND.
type ContactFilter struct {
	Query           string // full name + current company, accent-insensitive
	Title           string
	Country         string
	YearsExperience *int // exact match
	CompanyName     string
	Industry        string
	SubIndustry     string
	Sort            string
}

// TextValues returns the free-text filter values keyed by their query parameter name.
func (f ContactFilter) TextValues() map[string]string {
	values := map[string]string{
		"q":            f.Query,
		"title":        f.Title,
		"country":      f.Country,
		"company_name": f.CompanyName,
		"industry":     f.Industry,
		"subindustry":  f.SubIndustry,
	}
	for k, v := range values {
		if v == "" {
			delete(values, k)
		}
	}
	return values
}
