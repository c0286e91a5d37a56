// Package taxonomy holds the two-level industry / sub-industry classification
// and the planning logic used to repair records that violate it.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// Taxonomy is an immutable industry -> sub-industries mapping.
// The zero value is an empty taxonomy.
type Taxonomy struct {
	industries []string
	subs       map[string][]string
	members    map[string]map[string]bool
	parents    map[string][]string
}

type fileFormat struct {
	Industries map[string][]string `yaml:"industries"`
}

// New builds a Taxonomy from a mapping. The input is copied; blank names are
// dropped and duplicate sub-industries under one industry are collapsed.
func New(mapping map[string][]string) *Taxonomy {
	t := &Taxonomy{
		subs:    make(map[string][]string, len(mapping)),
		members: make(map[string]map[string]bool, len(mapping)),
		parents: make(map[string][]string),
	}

	for industry, subs := range mapping {
		industry = strings.TrimSpace(industry)
		if industry == "" {
			continue
		}
		set := t.members[industry]
		if set == nil {
			set = make(map[string]bool)
			t.members[industry] = set
			t.industries = append(t.industries, industry)
		}
		for _, sub := range subs {
			sub = strings.TrimSpace(sub)
			if sub == "" || set[sub] {
				continue
			}
			set[sub] = true
			t.subs[industry] = append(t.subs[industry], sub)
			t.parents[sub] = append(t.parents[sub], industry)
		}
	}

	sort.Strings(t.industries)
	for _, p := range t.parents {
		sort.Strings(p)
	}
	return t
}

// Parse reads a taxonomy from YAML of the form `industries: {name: [subs...]}`.
func Parse(data []byte) (*Taxonomy, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	if len(f.Industries) == 0 {
		return nil, fmt.Errorf("taxonomy has no industries")
	}
	return New(f.Industries), nil
}

// Load reads a taxonomy file. An empty path returns the embedded default.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded canonical taxonomy.
func Default() *Taxonomy {
	t, err := Parse(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return t
}

// Industries returns industry names in alphabetical order.
func (t *Taxonomy) Industries() []string {
	return append([]string(nil), t.industries...)
}

// SubIndustries returns the sub-industries of industry in declaration order.
func (t *Taxonomy) SubIndustries(industry string) []string {
	return append([]string(nil), t.subs[industry]...)
}

// Contains reports whether (industry, sub) is a valid pair.
func (t *Taxonomy) Contains(industry, sub string) bool {
	return t.members[industry][sub]
}

// ParentsOf returns every industry listing sub, alphabetically.
func (t *Taxonomy) ParentsOf(sub string) []string {
	return append([]string(nil), t.parents[sub]...)
}

// Mapping returns a copy of the full mapping, suitable for serialization.
func (t *Taxonomy) Mapping() map[string][]string {
	out := make(map[string][]string, len(t.subs))
	for _, industry := range t.industries {
		out[industry] = t.SubIndustries(industry)
	}
	return out
}
