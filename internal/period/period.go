// Package period computes reporting-period boundaries and labels.
// All arithmetic is driven by an injected "as of" time so that repeated runs
// against the same snapshot produce identical output.
package period

import (
	"fmt"
	"time"
)

// Granularity selects the bucketing scheme for a period.
type Granularity int

const (
	// Monthly buckets records by calendar month.
	Monthly Granularity = iota
	// SemiMonthly splits each month into day 1-15 and day 16-end halves.
	SemiMonthly
)

// Edge selects which boundary of a period to compute.
type Edge int

const (
	Start Edge = iota
	End
)

// Date is a timestamp with an explicit absent state. The upstream system
// represents missing dates with a 1990-01-01 filler value; here absence is
// carried in the type so it can never be mistaken for a real date.
type Date struct {
	t     time.Time
	valid bool
}

// Absent is the missing-date value.
var Absent = Date{}

// NewDate wraps a concrete time as a present Date.
func NewDate(t time.Time) Date {
	return Date{t: t, valid: true}
}

// dateFormats are the layouts the transaction-management API emits.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// ParseDate parses an upstream date string. Empty or unparseable input
// yields Absent; callers never see an error because a bad date only means
// the record drops out of date-bucketed aggregation.
func ParseDate(s string) Date {
	if s == "" {
		return Absent
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t)
		}
	}
	return Absent
}

// IsAbsent reports whether the date carries no value.
func (d Date) IsAbsent() bool { return !d.valid }

// Time returns the underlying time. Only meaningful when the date is present.
func (d Date) Time() time.Time { return d.t }

// Before reports d < other. Absent dates compare before everything.
func (d Date) Before(other Date) bool {
	if d.IsAbsent() {
		return !other.IsAbsent()
	}
	if other.IsAbsent() {
		return false
	}
	return d.t.Before(other.t)
}

// Bounds computes the requested boundary of the period containing d.
// Absent propagates: no date, no period. Month ends land on 23:59:59 of the
// last day, so callers compare inclusively against End.
func Bounds(d Date, g Granularity, e Edge) Date {
	if d.IsAbsent() {
		return Absent
	}
	y, m, day := d.t.Date()
	loc := d.t.Location()

	switch g {
	case Monthly:
		if e == Start {
			return NewDate(time.Date(y, m, 1, 0, 0, 0, 0, loc))
		}
		return NewDate(endOfMonth(y, m, loc))
	case SemiMonthly:
		if day <= 15 {
			if e == Start {
				return NewDate(time.Date(y, m, 1, 0, 0, 0, 0, loc))
			}
			return NewDate(time.Date(y, m, 15, 23, 59, 59, 0, loc))
		}
		if e == Start {
			return NewDate(time.Date(y, m, 16, 0, 0, 0, 0, loc))
		}
		return NewDate(endOfMonth(y, m, loc))
	}
	return Absent
}

// endOfMonth is 23:59:59 on the month's last day. December rolls the year.
// Calendar arithmetic only; wall-clock Add would drift across DST changes.
func endOfMonth(y int, m time.Month, loc *time.Location) time.Time {
	lastDay := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1)
	return time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), 23, 59, 59, 0, loc)
}

// NextMonthEnd returns the last instant of the month after d's month.
// Used by "pending for next month" projections.
func NextMonthEnd(d Date) Date {
	if d.IsAbsent() {
		return Absent
	}
	y, m, _ := d.t.Date()
	next := time.Date(y, m, 1, 0, 0, 0, 0, d.t.Location()).AddDate(0, 1, 0)
	return NewDate(endOfMonth(next.Year(), next.Month(), d.t.Location()))
}

// Period is a half-open reporting interval with a canonical label.
// Start and End are both inclusive instants (End sits on a :59:59 boundary).
type Period struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// Of returns the period containing d under g. The second return is false
// when d is absent.
func Of(d Date, g Granularity) (Period, bool) {
	if d.IsAbsent() {
		return Period{}, false
	}
	return Period{
		Start:       Bounds(d, g, Start).Time(),
		End:         Bounds(d, g, End).Time(),
		Granularity: g,
	}, true
}

// Label renders the period for human display: "Jan 2025" for calendar
// months, an explicit date range for semi-monthly halves.
func (p Period) Label() string {
	if p.Granularity == SemiMonthly {
		return fmt.Sprintf("%s - %s", p.Start.Format("2006/01/02"), p.End.Format("2006/01/02"))
	}
	return p.Start.Format("Jan 2006")
}

// Contains reports whether t falls inside the period, inclusive of both ends.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Next shifts a calendar-month period forward by exactly one month.
// Semi-monthly periods advance to the other half (or the next month's
// first half).
func (p Period) Next() Period {
	if p.Granularity == SemiMonthly {
		var next Date
		if p.Start.Day() == 1 {
			next = NewDate(time.Date(p.Start.Year(), p.Start.Month(), 16, 0, 0, 0, 0, p.Start.Location()))
		} else {
			next = NewDate(p.Start.AddDate(0, 1, -15))
		}
		out, _ := Of(next, SemiMonthly)
		return out
	}
	out, _ := Of(NewDate(p.Start.AddDate(0, 1, 0)), Monthly)
	return out
}

// Horizon returns the ordered calendar-month periods from January of the
// as-of year through the as-of month. This is the exact label set a summary
// table must cover, regardless of how sparse the data is.
func Horizon(asOf time.Time) []Period {
	return HorizonOf(asOf, Monthly)
}

// HorizonOf returns the ordered periods from the start of the as-of year
// through the period containing asOf, under the given granularity. A
// semi-monthly horizon yields two date-range buckets per month.
func HorizonOf(asOf time.Time, g Granularity) []Period {
	last, _ := Of(NewDate(asOf), g)
	p, _ := Of(NewDate(time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location())), g)

	var periods []Period
	for {
		periods = append(periods, p)
		if !p.Start.Before(last.Start) {
			return periods
		}
		p = p.Next()
	}
}

// Window returns the n calendar-month periods ending at the as-of month.
func Window(asOf time.Time, n int) []Period {
	periods := make([]Period, 0, n)
	first := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()).AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		p, _ := Of(NewDate(first.AddDate(0, i, 0)), Monthly)
		periods = append(periods, p)
	}
	return periods
}

// Labels projects a period sequence onto its label strings.
func Labels(periods []Period) []string {
	labels := make([]string, len(periods))
	for i, p := range periods {
		labels[i] = p.Label()
	}
	return labels
}
