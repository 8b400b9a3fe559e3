// Package summary composes the extraction, period, classification and
// aggregation pieces into the named contract summaries the business
// consumes. Each summary is a declarative Recipe; the package adds no
// aggregation logic of its own.
package summary

import (
	"time"

	"otc-reports/internal/aggregate"
	"otc-reports/internal/category"
	"otc-reports/internal/period"
)

// Recipe is one named summary definition: which field carries the date,
// which status category gates membership, which roster applies, and how
// dates map onto horizon buckets. Recipes are data; two summaries differ
// only in their recipe values.
type Recipe struct {
	Title       string
	DateField   string
	StatusField string
	Category    category.Category
	Teams       []string
	FieldEquals map[string]string
	Granularity period.Granularity
	Mode        aggregate.Mode
}

// Request resolves the recipe against an as-of time into a concrete
// aggregation request with a fully expanded horizon.
func (r Recipe) Request(asOf time.Time) aggregate.Request {
	return aggregate.Request{
		Title:       r.Title,
		DateField:   r.DateField,
		StatusField: r.StatusField,
		Category:    r.Category.WithTeams(r.Teams),
		FieldEquals: r.FieldEquals,
		Granularity: r.Granularity,
		Mode:        r.Mode,
		Horizon:     period.HorizonOf(asOf, r.Granularity),
	}
}

// DefaultRecipes is the daily contract count suite: the full set of
// year-over-year summaries published to the overview sheet, in publication
// order.
func DefaultRecipes() []Recipe {
	return []Recipe{
		{
			Title:       "CTC - Preferred Started",
			DateField:   "ctc_started_with_empower",
			StatusField: "contract_status",
			Category:    category.PreferredPending,
			Teams:       category.PreferredTeams,
		},
		{
			Title:       "CTC - Preferred Closing",
			DateField:   "closing_date",
			StatusField: "contract_status",
			Category:    category.PreferredClosedReadyToBill,
			Teams:       category.PreferredTeams,
		},
		{
			Title:     "CTC - Started",
			DateField: "ctc_started_with_empower",
			Category:  category.Any,
			Teams:     category.CTCTeams,
		},
		{
			Title:     "CTC - Closing",
			DateField: "closing_date",
			Category:  category.Any,
			Teams:     category.CTCTeams,
		},
		{
			Title:       "CTC - Terminated",
			DateField:   "closing_date",
			StatusField: "contract_status",
			Category:    category.Terminated,
			Teams:       category.CTCTeams,
		},
		{
			Title:       "CTC - Withdrawn",
			DateField:   "closing_date",
			StatusField: "contract_status",
			Category:    category.Withdrawn,
			Teams:       category.CTCTeams,
		},
		{
			Title:       "Client Type-Buyer",
			DateField:   "closing_date",
			StatusField: "contract_status",
			Category:    category.ClosedPaid,
			Teams:       category.CTCTeams,
			FieldEquals: map[string]string{"contract_client_type": "Buyer"},
		},
		{
			Title:       "Preferred (epique) Buyer Closed",
			DateField:   "closing_date",
			Category:    category.Any,
			Teams:       category.PreferredTeams,
			FieldEquals: map[string]string{"contract_client_type": "Buyer"},
		},
		{
			Title:       "Client Type-Seller",
			DateField:   "closing_date",
			Category:    category.Any,
			Teams:       category.CTCTeams,
			FieldEquals: map[string]string{"contract_client_type": "Seller"},
		},
		{
			Title:       "Preferred (epique) Seller Closed",
			DateField:   "closing_date",
			Category:    category.Any,
			Teams:       category.PreferredTeams,
			FieldEquals: map[string]string{"contract_client_type": "Seller"},
		},
		{
			Title:     "Listing - Started",
			DateField: "listing_started_with_empower",
			Category:  category.Any,
		},
		{
			Title:       "Listing - Paid",
			DateField:   "listing_paid_date",
			StatusField: "contract_status",
			Category:    category.ListingPaid,
		},
		{
			Title:       "Compliance - Started with Empower",
			DateField:   "compliance_started_with_empower",
			StatusField: "contract_status",
			Category:    category.Compliance,
		},
		{
			Title:       "Compliance - Paid",
			DateField:   "compliance_paid_date",
			StatusField: "contract_status",
			Category:    category.Compliance,
		},
		{
			Title:     "All Closing Current Month",
			DateField: "closing_date",
			Category:  category.Any,
		},
		{
			Title:     "Future Closing Next Month - Preferred",
			DateField: "closing_date",
			Category:  category.Any,
			Teams:     category.PreferredTeams,
			Mode:      aggregate.ModeShiftBack,
		},
		{
			Title:     "Future Closing Next Month - CTC",
			DateField: "closing_date",
			Category:  category.Any,
			Teams:     category.CTCTeams,
			Mode:      aggregate.ModeShiftBack,
		},
		{
			Title:     "Future Closing All Other Month - Preferred",
			DateField: "closing_date",
			Category:  category.Any,
			Teams:     category.PreferredTeams,
			Mode:      aggregate.ModeRestOfYear,
		},
		{
			Title:     "Future Closing All Other Month - CTC",
			DateField: "closing_date",
			Category:  category.Any,
			Teams:     category.CTCTeams,
			Mode:      aggregate.ModeRestOfYear,
		},
	}
}
