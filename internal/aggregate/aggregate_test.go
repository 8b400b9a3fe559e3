package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otc-reports/internal/category"
	"otc-reports/internal/period"
	"otc-reports/internal/record"
)

var asOf = time.Date(2025, 4, 15, 8, 0, 0, 0, time.UTC)

func rec(team, status, closing string) record.Record {
	return record.Record{
		Team: team,
		Attributes: []record.Attribute{
			{Key: "contract_status", Value: status},
			{Key: "closing_date", Value: closing},
		},
	}
}

func baseRequest() Request {
	return Request{
		Title:       "CTC - Closing",
		DateField:   "closing_date",
		StatusField: "contract_status",
		Category:    category.ClosedPaid.WithTeams(category.CTCTeams),
		Granularity: period.Monthly,
		Mode:        ModeBucket,
		Horizon:     period.Horizon(asOf),
	}
}

func TestAggregateCompleteness(t *testing.T) {
	// Empty input still yields every horizon label, all zero.
	table := Aggregate(nil, baseRequest())
	require.Equal(t, []string{"Jan 2025", "Feb 2025", "Mar 2025", "Apr 2025"}, table.Labels)
	for _, label := range table.Labels {
		assert.Equal(t, 0, table.Get(label), label)
	}
}

func TestAggregateBucketCounts(t *testing.T) {
	records := record.Collection{
		rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-10"),
		rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-20"),
		rec("Jenn McKinley", "CTC - Closed - PAID", "2025-04-01"),
		rec("Team Molly Kelley", "CTC - Pending", "2025-02-11"),    // wrong status
		rec("Team Outsiders", "CTC - Closed - PAID", "2025-02-12"), // wrong team
		rec("Team Molly Kelley", "CTC - Closed - PAID", "2024-12-30"), // outside horizon
		rec("Team Molly Kelley", "CTC - Closed - PAID", ""),        // absent date
	}

	table := Aggregate(records, baseRequest())
	assert.Equal(t, 0, table.Get("Jan 2025"))
	assert.Equal(t, 2, table.Get("Feb 2025"))
	assert.Equal(t, 0, table.Get("Mar 2025"))
	assert.Equal(t, 1, table.Get("Apr 2025"))
}

func TestAggregateNoDoubleCounting(t *testing.T) {
	// A duplicated date key resolves to one value; the record counts once.
	r := record.Record{
		Team: "Team Molly Kelley",
		Attributes: []record.Attribute{
			{Key: "contract_status", Value: "CTC - Closed - PAID"},
			{Key: "closing_date", Value: "2025-02-10"},
			{Key: "closing_date", Value: "2025-03-10"},
		},
	}

	table := Aggregate(record.Collection{r}, baseRequest())
	total := 0
	for _, label := range table.Labels {
		total += table.Get(label)
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, table.Get("Mar 2025")) // last occurrence wins
}

func TestAggregateShiftBack(t *testing.T) {
	req := baseRequest()
	req.Title = "Future Closing Next Month - CTC"
	req.Category = category.Any.WithTeams(category.CTCTeams)
	req.StatusField = ""
	req.Mode = ModeShiftBack

	records := record.Collection{
		rec("Team Molly Kelley", "", "2025-03-09"), // counts under Feb
		rec("Team Molly Kelley", "", "2025-01-20"), // January: dropped
		rec("Team Molly Kelley", "", "2025-05-02"), // counts under Apr
		rec("Team Molly Kelley", "", "2025-03-31"), // month-end stays March -> Feb
	}

	table := Aggregate(records, req)
	assert.Equal(t, 2, table.Get("Feb 2025"))
	assert.Equal(t, 0, table.Get("Jan 2025"))
	assert.Equal(t, 1, table.Get("Apr 2025"))
	assert.Equal(t, 0, table.Get("Mar 2025"))
}

func TestAggregateRestOfYear(t *testing.T) {
	req := baseRequest()
	req.Title = "Future Closing All Other Month - CTC"
	req.Category = category.Any.WithTeams(category.CTCTeams)
	req.StatusField = ""
	req.Mode = ModeRestOfYear

	records := record.Collection{
		rec("Team Molly Kelley", "", "2025-02-10"),
		rec("Team Molly Kelley", "", "2025-06-15"),
		rec("Team Molly Kelley", "", "2025-11-01"),
		rec("Team Molly Kelley", "", "2024-12-01"), // other year: never counted
	}

	table := Aggregate(records, req)
	assert.Equal(t, 3, table.Get("Jan 2025")) // Feb, Jun, Nov all after Jan
	assert.Equal(t, 2, table.Get("Feb 2025")) // strictly after Feb
	assert.Equal(t, 2, table.Get("Mar 2025"))
	assert.Equal(t, 2, table.Get("Apr 2025"))

	// Cumulative tail: month m count >= month m+1 count.
	for i := 0; i+1 < len(table.Labels); i++ {
		assert.GreaterOrEqual(t, table.Get(table.Labels[i]), table.Get(table.Labels[i+1]))
	}
}

func TestAggregateFieldEquals(t *testing.T) {
	req := baseRequest()
	req.Title = "Client Type-Buyer"
	req.FieldEquals = map[string]string{"contract_client_type": "Buyer"}

	buyer := rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-10")
	buyer.Attributes = append(buyer.Attributes, record.Attribute{Key: "contract_client_type", Value: "Buyer"})
	seller := rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-10")
	seller.Attributes = append(seller.Attributes, record.Attribute{Key: "contract_client_type", Value: "Seller"})
	missing := rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-10")

	table := Aggregate(record.Collection{buyer, seller, missing}, req)
	assert.Equal(t, 1, table.Get("Feb 2025"))
}

func TestAggregateMalformedDatesDropped(t *testing.T) {
	records := record.Collection{
		rec("Team Molly Kelley", "CTC - Closed - PAID", "soon"),
		rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-31"),
	}
	table := Aggregate(records, baseRequest())
	for _, label := range table.Labels {
		assert.Equal(t, 0, table.Get(label))
	}
}

func TestTableRow(t *testing.T) {
	records := record.Collection{rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-01-05")}
	table := Aggregate(records, baseRequest())

	header, values := table.Row()
	require.Equal(t, len(header), len(values))
	assert.Equal(t, "state", header[0])
	assert.Equal(t, "CTC - Closing", values[0])
	assert.Equal(t, "Jan 2025", header[1])
	assert.Equal(t, 1, values[1])
	assert.Equal(t, fmt.Sprintf("%d", 0), fmt.Sprintf("%d", values[2]))
}

func TestAggregateSemiMonthlyBuckets(t *testing.T) {
	req := baseRequest()
	req.Granularity = period.SemiMonthly
	req.Horizon = period.HorizonOf(asOf, period.SemiMonthly)

	records := record.Collection{
		rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-10"),
		rec("Team Molly Kelley", "CTC - Closed - PAID", "2025-02-20"),
	}
	table := Aggregate(records, req)

	// The horizon carries two date-range labels per month, and records land
	// in the half containing their date.
	require.Contains(t, table.Labels, "2025/02/01 - 2025/02/15")
	require.Contains(t, table.Labels, "2025/02/16 - 2025/02/28")
	assert.Equal(t, 1, table.Get("2025/02/01 - 2025/02/15"))
	assert.Equal(t, 1, table.Get("2025/02/16 - 2025/02/28"))

	total := 0
	for _, label := range table.Labels {
		total += table.Get(label)
	}
	assert.Equal(t, 2, total)
}
