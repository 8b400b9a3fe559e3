// Package record models the transaction records ingested from the
// transaction-management API and projects named fields out of their
// schema-less attribute bags.
package record

import "time"

// Attribute is one entry in a record's sparse key/value bag. The upstream
// API labels some entries by machine key and some by display label, so both
// are carried and either may match a requested field.
type Attribute struct {
	ID    int    `json:"id"`
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Record is one transaction/contract event. ID, Team and the other
// top-level fields are denormalized by the API; everything else lives in
// Attributes. Records are immutable once loaded.
type Record struct {
	ID         string
	Team       string
	CreatedAt  time.Time
	Timezone   string
	CreatedBy  string
	Attributes []Attribute
}

// Absent marks a field with no value in a Projection.
const Absent = ""

// Extract returns the value of the named field from the record's attribute
// bag. Keys are not unique: when a field appears more than once the last
// occurrence wins, matching the upstream iteration order. The second return
// is false when the field is absent.
func (r *Record) Extract(field string) (string, bool) {
	value := ""
	found := false
	for _, attr := range r.Attributes {
		if attr.Key == field || attr.Label == field {
			value = attr.Value
			found = true
		}
	}
	return value, found
}

// Projection is a wide, named-column view of one record: field name to
// extracted value, with Absent for fields the bag does not carry.
type Projection map[string]string

// Get returns the projected value and whether the field was present.
func (p Projection) Get(field string) (string, bool) {
	v, ok := p[field]
	return v, ok
}

// ExtractBatch projects every schema field in a single pass over the
// attribute bag. The result is identical to calling Extract once per field;
// the last occurrence of a duplicated key still wins because later
// attributes overwrite earlier ones.
func (r *Record) ExtractBatch(schema []string) Projection {
	wanted := make(map[string]struct{}, len(schema))
	for _, field := range schema {
		wanted[field] = struct{}{}
	}
	out := make(Projection, len(schema))
	for _, attr := range r.Attributes {
		if _, ok := wanted[attr.Key]; ok {
			out[attr.Key] = attr.Value
		}
		if attr.Label != attr.Key {
			if _, ok := wanted[attr.Label]; ok {
				out[attr.Label] = attr.Value
			}
		}
	}
	return out
}

// Collection is the immutable record set one run operates on.
type Collection []Record

// Teams returns the distinct team names in first-seen order.
func (c Collection) Teams() []string {
	seen := make(map[string]struct{})
	var teams []string
	for _, r := range c {
		if _, ok := seen[r.Team]; !ok {
			seen[r.Team] = struct{}{}
			teams = append(teams, r.Team)
		}
	}
	return teams
}
