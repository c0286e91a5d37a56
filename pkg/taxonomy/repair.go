package taxonomy

import "strings"

// UnresolvedReason explains why a pair could not be repaired automatically.
type UnresolvedReason string

const (
	// ReasonUnknownSubIndustry: no industry lists the sub-industry.
	ReasonUnknownSubIndustry UnresolvedReason = "unknown_sub_industry"
	// ReasonAmbiguousSubIndustry: several industries list the sub-industry.
	ReasonAmbiguousSubIndustry UnresolvedReason = "ambiguous_sub_industry"
)

// Pair is an (industry, sub-industry) combination observed in stored records.
type Pair struct {
	Industry    string `json:"industry"`
	SubIndustry string `json:"sub_industry"`
	Rows        int    `json:"rows"`
}

// Resolution rewrites Pair.Industry to NewIndustry.
type Resolution struct {
	Pair
	NewIndustry string `json:"new_industry"`
}

// Unresolved is a violating pair left untouched.
type Unresolved struct {
	Pair
	Reason     UnresolvedReason `json:"reason"`
	Candidates []string         `json:"candidates,omitempty"`
}

// Plan is the outcome of checking observed pairs against a taxonomy.
type Plan struct {
	Valid      int          `json:"valid"`
	Resolved   []Resolution `json:"resolved"`
	Unresolved []Unresolved `json:"unresolved"`
}

// PlanRepair checks each observed pair. Pairs already present in the taxonomy
// count as valid; pairs with a blank sub-industry are not checked. A violating
// pair is resolved only when its sub-industry has exactly one parent.
func PlanRepair(t *Taxonomy, pairs []Pair) Plan {
	plan := Plan{
		Resolved:   make([]Resolution, 0),
		Unresolved: make([]Unresolved, 0),
	}

	for _, p := range pairs {
		sub := strings.TrimSpace(p.SubIndustry)
		if sub == "" {
			continue
		}
		if t.Contains(p.Industry, sub) {
			plan.Valid++
			continue
		}

		parents := t.ParentsOf(sub)
		switch len(parents) {
		case 0:
			plan.Unresolved = append(plan.Unresolved, Unresolved{Pair: p, Reason: ReasonUnknownSubIndustry})
		case 1:
			plan.Resolved = append(plan.Resolved, Resolution{Pair: p, NewIndustry: parents[0]})
		default:
			plan.Unresolved = append(plan.Unresolved, Unresolved{
				Pair:       p,
				Reason:     ReasonAmbiguousSubIndustry,
				Candidates: parents,
			})
		}
	}
	return plan
}
