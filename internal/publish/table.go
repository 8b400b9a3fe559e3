// Package publish renders finished summaries into destination tables: CSV
// files for ad hoc review and Postgres tables for the reporting dashboard.
package publish

import (
	"strconv"

	"github.com/shopspring/decimal"

	"otc-reports/internal/aggregate"
	"otc-reports/internal/period"
	"otc-reports/internal/staging"
)

// Table is one named, rectangular publishing unit. Every row has exactly
// len(Columns) cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// FromSummary renders one aggregate table into a publishing table. The
// layout mirrors the aggregate's header: a leading "state" cell holding the
// title, then one count per period label.
func FromSummary(t aggregate.Table) Table {
	return Table{
		Name:    t.Title,
		Columns: append([]string{"state"}, t.Labels...),
		Rows:    [][]string{summaryRow(t)},
	}
}

// Overview stacks every summary into one table, a row per summary. All
// summaries in a run share the same horizon, so the label columns line up;
// summaries with a different label set are skipped rather than misaligned.
func Overview(tables []aggregate.Table) Table {
	out := Table{Name: "overview"}
	for _, t := range tables {
		if out.Columns == nil {
			out.Columns = append([]string{"state"}, t.Labels...)
		}
		if len(t.Labels)+1 != len(out.Columns) {
			continue
		}
		out.Rows = append(out.Rows, summaryRow(t))
	}
	return out
}

func summaryRow(t aggregate.Table) []string {
	row := make([]string, 0, len(t.Labels)+1)
	row = append(row, t.Title)
	for _, label := range t.Labels {
		row = append(row, strconv.Itoa(t.Get(label)))
	}
	return row
}

// FromTransactions renders the corrected transaction rows.
func FromTransactions(rows []staging.TransactionRow) Table {
	out := Table{
		Name: "transactions",
		Columns: []string{
			"record_id", "team", "agent_name", "contract_title", "status",
			"preferred", "closing_date", "period_start", "period_end",
			"billing_amount", "commission_rate", "revenue", "projected",
		},
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, []string{
			r.RecordID, r.Team, r.AgentName, r.ContractTitle, r.Status,
			boolCell(r.Preferred),
			dateCell(r.Closing), dateCell(r.PeriodStart), dateCell(r.PeriodEnd),
			amountCell(r.BillingAmount), r.CommissionRate.String(),
			r.Revenue.String(), boolCell(r.Projected),
		})
	}
	return out
}

func boolCell(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func dateCell(d period.Date) string {
	if d.IsAbsent() {
		return ""
	}
	return d.Time().Format("2006-01-02")
}

func amountCell(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// FromJoinErrors renders the unmatched-transaction table.
func FromJoinErrors(errs []staging.JoinError) Table {
	out := Table{
		Name:    "staging_errors",
		Columns: []string{"record_id", "team", "agent_name", "code", "severity", "reason"},
	}
	for _, e := range errs {
		out.Rows = append(out.Rows, []string{e.RecordID, e.Team, e.AgentName, e.Code, e.Severity, e.Reason})
	}
	return out
}

// FromAgentAccounts renders an agent-account table.
func FromAgentAccounts(name string, accounts []staging.AgentAccount) Table {
	out := Table{
		Name:    name,
		Columns: []string{"record_id", "team", "contract_title", "created_at"},
	}
	for _, a := range accounts {
		out.Rows = append(out.Rows, []string{
			a.RecordID, a.Team, a.ContractTitle, a.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return out
}
