package staging

import (
	"github.com/shopspring/decimal"

	"otc-reports/internal/period"
)

// Default billing amounts applied when both the billing and "other" amount
// fields are blank. The preferred program bills a flat fee; everything else
// bills the standard rate.
var (
	preferredDefaultBilling = decimal.NewFromFloat(99.00)
	standardDefaultBilling  = decimal.NewFromFloat(400.00)
	tcProvidedRate          = decimal.NewFromFloat(0.70)
	percentDivisor          = decimal.NewFromInt(100)
)

// Correction is one pure transformation step over a transaction row.
type Correction func(TransactionRow) TransactionRow

// Pipeline is the ordered correction sequence applied to every joined
// transaction. Order matters: the period must be assigned before paid
// amounts are gated against it, and gating must precede the revenue total.
func Pipeline() []Correction {
	return []Correction{
		CorrectCommissionRate,
		AssignPeriod,
		GatePaidAmounts,
		FallbackBillingAmount,
		ComputeProjection,
	}
}

// Correct runs the full pipeline over one row.
func Correct(row TransactionRow) TransactionRow {
	for _, step := range Pipeline() {
		row = step(row)
	}
	return row
}

// CorrectCommissionRate normalizes the commission rate to a fraction.
// Agents provided by TC are paid a fixed 70 percent regardless of the
// recorded rate.
func CorrectCommissionRate(row TransactionRow) TransactionRow {
	if row.AgentProvidedBy == "TC" {
		row.CommissionRate = tcProvidedRate
		return row
	}
	row.CommissionRate = row.CommissionRate.Div(percentDivisor)
	return row
}

// AssignPeriod derives the semi-monthly payroll period from the closing
// date. An absent closing date leaves the period absent.
func AssignPeriod(row TransactionRow) TransactionRow {
	row.PeriodStart = period.Bounds(row.Closing, period.SemiMonthly, period.Start)
	row.PeriodEnd = period.Bounds(row.Closing, period.SemiMonthly, period.End)
	return row
}

// GatePaidAmounts zeroes every paid amount whose paid date does not fall
// inside the closing period. A paid date outside the period belongs to a
// different payroll run.
func GatePaidAmounts(row TransactionRow) TransactionRow {
	row.ListingPaid = gate(row.ListingPaid, row.PeriodStart, row.PeriodEnd)
	row.CTCPaid = gate(row.CTCPaid, row.PeriodStart, row.PeriodEnd)
	row.CompliancePaid = gate(row.CompliancePaid, row.PeriodStart, row.PeriodEnd)
	row.OfferPrepPaid = gate(row.OfferPrepPaid, row.PeriodStart, row.PeriodEnd)
	return row
}

func gate(m PaidMilestone, start, end period.Date) PaidMilestone {
	if m.Date.IsAbsent() || start.IsAbsent() || end.IsAbsent() {
		m.Amount = decimal.Zero
		return m
	}
	t := m.Date.Time()
	if t.Before(start.Time()) || t.After(end.Time()) {
		m.Amount = decimal.Zero
	}
	return m
}

// FallbackBillingAmount fills a blank billing amount: the "other" amount
// when present and nonzero, otherwise the program default. Rows without a
// closing date are left untouched; they have not billed yet.
func FallbackBillingAmount(row TransactionRow) TransactionRow {
	if row.Closing.IsAbsent() {
		return row
	}
	if row.BillingAmount.Valid {
		return row
	}
	if row.OtherAmount.Valid && !row.OtherAmount.Decimal.IsZero() {
		row.BillingAmount = decimal.NullDecimal{Decimal: row.OtherAmount.Decimal, Valid: true}
		return row
	}
	fallback := standardDefaultBilling
	if row.Preferred {
		fallback = preferredDefaultBilling
	}
	row.BillingAmount = decimal.NullDecimal{Decimal: fallback, Valid: true}
	return row
}

// ComputeProjection flags rows that count toward the period's projection
// (a closing booked, or any milestone started within the period) and totals
// the gated paid amounts into revenue.
func ComputeProjection(row TransactionRow) TransactionRow {
	row.Projected = !row.Closing.IsAbsent() ||
		within(row.ListingStarted, row.PeriodStart, row.PeriodEnd) ||
		within(row.OfferStarted, row.PeriodStart, row.PeriodEnd) ||
		within(row.ComplianceStarted, row.PeriodStart, row.PeriodEnd)

	row.Revenue = row.ListingPaid.Amount.
		Add(row.CTCPaid.Amount).
		Add(row.CompliancePaid.Amount).
		Add(row.OfferPrepPaid.Amount)
	return row
}

func within(d, start, end period.Date) bool {
	if d.IsAbsent() || start.IsAbsent() || end.IsAbsent() {
		return false
	}
	t := d.Time()
	return !t.Before(start.Time()) && !t.After(end.Time())
}
