// Package aggregate turns a record collection into period-bucketed summary
// tables. Tables always cover the full requested horizon: a period with no
// matching records reports an explicit zero, never a missing column.
package aggregate

import (
	"time"

	"otc-reports/internal/category"
	"otc-reports/internal/period"
	"otc-reports/internal/record"
)

// Mode selects how a record's date is attributed to a horizon bucket.
type Mode int

const (
	// ModeBucket counts a record in the period containing its date.
	ModeBucket Mode = iota

	// ModeShiftBack attributes a record dated in month m to the bucket
	// labeled m-1; January records are dropped entirely. This encodes the
	// "future closings, next month" reporting convention: the count shown
	// under a month is the closings already booked for the month after it.
	ModeShiftBack

	// ModeRestOfYear reports, for each horizon month m, the count of
	// records dated strictly after m within the same year. Buckets overlap
	// deliberately; they do not sum to the record total.
	ModeRestOfYear
)

// Request describes one aggregation: which field carries the date, which
// category gates membership, and the horizon the table must cover.
type Request struct {
	Title       string
	DateField   string
	StatusField string
	Category    category.Category
	// FieldEquals adds exact-match constraints on further projected fields
	// (for example contract_client_type = "Buyer").
	FieldEquals map[string]string
	Granularity period.Granularity
	Mode        Mode
	Horizon     []period.Period
}

// Table is a completed summary: a title plus one non-negative count per
// horizon label, in calendar order.
type Table struct {
	Title  string
	Labels []string
	Counts map[string]int
}

// Get returns the count for a label. Labels outside the horizon are zero.
func (t *Table) Get(label string) int {
	return t.Counts[label]
}

// Row renders the table as an ordered header/value pair for publication,
// leading with the identifying "state" column.
func (t *Table) Row() ([]string, []interface{}) {
	header := make([]string, 0, len(t.Labels)+1)
	values := make([]interface{}, 0, len(t.Labels)+1)
	header = append(header, "state")
	values = append(values, t.Title)
	for _, label := range t.Labels {
		header = append(header, label)
		values = append(values, t.Counts[label])
	}
	return header, values
}

// Aggregate builds the summary table for req over the record collection.
// Records with an absent or unparseable date are dropped, never coerced to
// the run date. A record lands in at most one bucket even when its
// attribute bag duplicates the date key, because extraction resolves each
// field to a single value first.
func Aggregate(records record.Collection, req Request) *Table {
	table := &Table{
		Title:  req.Title,
		Labels: period.Labels(req.Horizon),
		Counts: make(map[string]int, len(req.Horizon)),
	}
	for _, label := range table.Labels {
		table.Counts[label] = 0
	}
	inHorizon := make(map[string]struct{}, len(table.Labels))
	for _, label := range table.Labels {
		inHorizon[label] = struct{}{}
	}

	var matchedDates []time.Time
	schema := req.schema()
	for i := range records {
		rec := &records[i]
		if !req.Category.EligibleTeam(rec.Team) {
			continue
		}
		proj := rec.ExtractBatch(schema)
		if req.StatusField != "" {
			status, _ := proj.Get(req.StatusField)
			if !req.Category.Matches(status) {
				continue
			}
		}
		if !fieldsEqual(proj, req.FieldEquals) {
			continue
		}
		d := period.ParseDate(firstOf(proj, req.DateField))
		if d.IsAbsent() {
			continue
		}

		switch req.Mode {
		case ModeBucket:
			p, _ := period.Of(d, req.Granularity)
			if _, ok := inHorizon[p.Label()]; ok {
				table.Counts[p.Label()]++
			}
		case ModeShiftBack:
			if d.Time().Month() == time.January {
				continue
			}
			// Shift from the month's first day so day-of-month overflow
			// can never skew the target month.
			monthStart := time.Date(d.Time().Year(), d.Time().Month(), 1, 0, 0, 0, 0, d.Time().Location())
			p, _ := period.Of(period.NewDate(monthStart.AddDate(0, -1, 0)), period.Monthly)
			if _, ok := inHorizon[p.Label()]; ok {
				table.Counts[p.Label()]++
			}
		case ModeRestOfYear:
			matchedDates = append(matchedDates, d.Time())
		}
	}

	if req.Mode == ModeRestOfYear {
		for _, p := range req.Horizon {
			count := 0
			for _, t := range matchedDates {
				if t.Year() == p.Start.Year() && t.Month() > p.Start.Month() {
					count++
				}
			}
			table.Counts[p.Label()] = count
		}
	}

	return table
}

// schema lists every field the request projects, for one-pass extraction.
func (r Request) schema() []string {
	fields := []string{r.DateField}
	if r.StatusField != "" {
		fields = append(fields, r.StatusField)
	}
	for field := range r.FieldEquals {
		fields = append(fields, field)
	}
	return fields
}

func fieldsEqual(proj record.Projection, want map[string]string) bool {
	for field, expected := range want {
		got, ok := proj.Get(field)
		if !ok || got != expected {
			return false
		}
	}
	return true
}

func firstOf(proj record.Projection, field string) string {
	v, _ := proj.Get(field)
	return v
}
