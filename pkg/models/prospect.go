package models

import (
	"time"

	"github.com/google/uuid"
)

// Prospect status values
const (
	ProspectStatusNew       = "new"
	ProspectStatusContacted = "contacted"
	ProspectStatusQualified = "qualified"
	ProspectStatusLost      = "lost"
)

// Prospect is a person record in the legacy schema.
// Stored in the prospects table; superseded by Contact/Company/Experience.
type Prospect struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Company     *string   `json:"company"`
	Position    *string   `json:"position"`
	Sector      *string   `json:"sector"`
	SubSector   *string   `json:"sub_sector"`
	Country     *string   `json:"country"`
	City        *string   `json:"city"`
	LinkedInURL *string   `json:"linkedin_url"`
	Notes       *string   `json:"notes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProspectFilter is the request-scoped filter set of GET /api/prospects.
type ProspectFilter struct {
	Query   string // name + company + email, accent-insensitive
	Sector  string
	Country string
	Status  string
}

// MigrationMapping records which contact a legacy prospect became.
type MigrationMapping struct {
	ProspectID int64     `json:"prospect_id"`
	ContactID  int64     `json:"contact_id"`
	CompanyID  *int64    `json:"company_id"`
	RunID      uuid.UUID `json:"run_id"`
	MigratedAt time.Time `json:"migrated_at"`
}
