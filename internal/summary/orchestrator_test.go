package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otc-reports/internal/category"
	"otc-reports/internal/period"
	"otc-reports/internal/record"
)

var asOf = time.Date(2025, 3, 20, 7, 0, 0, 0, time.UTC)

func contractRecord(team, status, closingDate, startedDate string) record.Record {
	return record.Record{
		Team: team,
		Attributes: []record.Attribute{
			{Key: "contract_status", Value: status},
			{Key: "closing_date", Value: closingDate},
			{Key: "ctc_started_with_empower", Value: startedDate},
		},
	}
}

func TestRunSingleRecipe(t *testing.T) {
	records := record.Collection{
		contractRecord("Team Kimberly Lewis", "CTC - Pending", "2025-02-14", "2025-01-10"),
		contractRecord("Team Kimberly Lewis", "CTC - Pending", "", "2025-01-22"),
	}
	o := NewOrchestrator(nil)

	var started Recipe
	for _, r := range DefaultRecipes() {
		if r.Title == "CTC - Started" {
			started = r
		}
	}
	require.NotEmpty(t, started.Title)

	table := o.Run(records, started, asOf)
	assert.Equal(t, "CTC - Started", table.Title)
	assert.Equal(t, []string{"Jan 2025", "Feb 2025", "Mar 2025"}, table.Labels)
	assert.Equal(t, 2, table.Get("Jan 2025"))
}

func TestRunAllProducesEveryRecipe(t *testing.T) {
	o := NewOrchestrator(nil)
	tables := o.RunAll(context.Background(), StaticSource(nil), DefaultRecipes(), asOf)

	require.Len(t, tables, len(DefaultRecipes()))
	for i, table := range tables {
		assert.Equal(t, DefaultRecipes()[i].Title, table.Title)
		// Completeness holds for every summary, even on empty input.
		assert.Equal(t, []string{"Jan 2025", "Feb 2025", "Mar 2025"}, table.Labels)
	}
}

func TestRunAllSkipsFailedSource(t *testing.T) {
	calls := 0
	flaky := SourceFunc(func(context.Context) (record.Collection, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("snapshot unreadable")
		}
		return nil, nil
	})

	o := NewOrchestrator(nil)
	recipes := DefaultRecipes()[:3]
	tables := o.RunAll(context.Background(), flaky, recipes, asOf)

	// The middle summary is skipped; the batch keeps going.
	require.Len(t, tables, 2)
	assert.Equal(t, recipes[0].Title, tables[0].Title)
	assert.Equal(t, recipes[2].Title, tables[1].Title)
}

func TestDefaultRecipesCoverKnownTitles(t *testing.T) {
	titles := make(map[string]bool)
	for _, r := range DefaultRecipes() {
		titles[r.Title] = true
	}
	for _, want := range []string{
		"CTC - Preferred Started",
		"CTC - Preferred Closing",
		"CTC - Started",
		"CTC - Closing",
		"CTC - Terminated",
		"Client Type-Buyer",
		"Future Closing Next Month - CTC",
		"Future Closing All Other Month - CTC",
	} {
		assert.True(t, titles[want], want)
	}
}

func TestPreferredRecipesGateOnRoster(t *testing.T) {
	records := record.Collection{
		contractRecord("Team EpiqueTC", "CTC - Preferred - Pending", "", "2025-02-03"),
		contractRecord("Team Kimberly Lewis", "CTC - Preferred - Pending", "", "2025-02-03"),
	}
	o := NewOrchestrator(nil)

	var preferredStarted Recipe
	for _, r := range DefaultRecipes() {
		if r.Title == "CTC - Preferred Started" {
			preferredStarted = r
		}
	}
	table := o.Run(records, preferredStarted, asOf)
	// Kimberly Lewis is not on the preferred roster.
	assert.Equal(t, 1, table.Get("Feb 2025"))
}

func TestRecipeRequestHonorsGranularity(t *testing.T) {
	recipe := Recipe{
		Title:       "Semi-Monthly Closing",
		DateField:   "closing_date",
		Category:    category.Any,
		Granularity: period.SemiMonthly,
	}
	req := recipe.Request(asOf)

	// The horizon must be expanded in the recipe's own granularity so bucket
	// labels actually match; a monthly horizon would zero out every bucket.
	labels := period.Labels(req.Horizon)
	assert.Contains(t, labels, "2025/02/01 - 2025/02/15")
	assert.NotContains(t, labels, "Feb 2025")

	records := record.Collection{
		contractRecord("Team Kimberly Lewis", "CTC - Pending", "2025-02-10", ""),
	}
	table := NewOrchestrator(nil).Run(records, recipe, asOf)
	assert.Equal(t, 1, table.Get("2025/02/01 - 2025/02/15"))
}
