package models

// JobCategory is a row of categories_poste.
type JobCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Sector is a row of secteurs. Parent is empty for top-level industries.
type Sector struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// Country is a row of pays.
type Country struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CompanySize is a row of tailles_entreprise.
type CompanySize struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	MinStaff *int   `json:"min_staff"`
	MaxStaff *int   `json:"max_staff"`
}

// Lookups bundles every reference table used by the admin forms.
type Lookups struct {
	Categories   []*JobCategory `json:"categories"`
	Sectors      []*Sector      `json:"sectors"`
	Countries    []*Country     `json:"countries"`
	CompanySizes []*CompanySize `json:"company_sizes"`
}
