package models

import "time"

// Experience links a contact to a company with a role.
// At most one experience per contact has IsCurrent set.
type Experience struct {
	ID          int64     `json:"id"`
	ContactID   int64     `json:"contact_id"`
	CompanyID   *int64    `json:"company_id"`
	CompanyName *string   `json:"company_name,omitempty"` // joined from companies on read
	Title       *string   `json:"title"`
	JobCategory *string   `json:"job_category"`
	IsCurrent   bool      `json:"is_current"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}
