// Package staging joins the raw transaction stream against the agent-account
// reference stream and prepares the corrected rows payroll-style reporting
// consumes. All four output tables are immutable snapshots of one pass; no
// partial emission.
package staging

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"otc-reports/internal/period"
	"otc-reports/internal/record"
	pipeerr "otc-reports/pkg/errors"
)

// AgentAccountStatus is the contract-status value the upstream assigns to
// agent-account records. Everything else in the stream is a transaction.
const AgentAccountStatus = "Agent - Account"

// Projected field names shared by the transaction and agent-account schemas.
const (
	FieldStatus          = "contract_status"
	FieldAgentName       = "agent_name"
	FieldContractTitle   = "contract_title"
	FieldClosingDate     = "closing_date"
	FieldBillingAmount   = "billing_amount"
	FieldOtherAmount     = "other_amount"
	FieldPreferred       = "preferred"
	FieldCommissionRate  = "tc_commission_rate"
	FieldAgentProvidedBy = "agent_provided_by"
)

// TransactionSchema is the default projection for transaction records.
var TransactionSchema = []string{
	FieldStatus, FieldAgentName, FieldClosingDate,
	FieldBillingAmount, FieldOtherAmount, FieldPreferred,
	FieldCommissionRate, FieldAgentProvidedBy,
	"listing_paid_date", "listing_paid_amount",
	"ctc_paid_date", "ctc_paid_amount",
	"compliance_paid_date", "compliance_paid_amount",
	"offer_prep_paid_date", "offer_prep_paid_amount",
	"listing_started_with_empower", "offer_started_with_empower",
	"compliance_started_with_empower",
}

// AgentAccountSchema is the default projection for agent-account records.
var AgentAccountSchema = []string{FieldStatus, FieldContractTitle}

// PaidMilestone pairs one paid date with its amount.
type PaidMilestone struct {
	Date   period.Date
	Amount decimal.Decimal
}

// TransactionRow is one corrected transaction ready for downstream
// reporting.
type TransactionRow struct {
	RecordID      string
	Team          string
	AgentName     string
	ContractTitle string
	Status        string
	Preferred     bool

	AgentProvidedBy string
	CommissionRate  decimal.Decimal

	Closing     period.Date
	PeriodStart period.Date
	PeriodEnd   period.Date

	BillingAmount decimal.NullDecimal
	OtherAmount   decimal.NullDecimal

	ListingPaid    PaidMilestone
	CTCPaid        PaidMilestone
	CompliancePaid PaidMilestone
	OfferPrepPaid  PaidMilestone

	ListingStarted    period.Date
	OfferStarted      period.Date
	ComplianceStarted period.Date

	Projected bool
	Revenue   decimal.Decimal
}

// AgentAccount is one reference row keyed by contract title.
type AgentAccount struct {
	RecordID      string
	Team          string
	ContractTitle string
	CreatedAt     time.Time
}

// JoinError records a transaction that found no agent account. Errors are
// data-quality signals for downstream review, never aggregator input.
type JoinError struct {
	RecordID  string
	Team      string
	AgentName string
	Code      string
	Severity  string
	Reason    string
}

// Tables is the complete staging output.
type Tables struct {
	Transactions           []TransactionRow
	Errors                 []JoinError
	AgentAccounts          []AgentAccount
	DuplicateAgentAccounts []AgentAccount
}

// Stage splits the raw collection into transactions and agent accounts,
// deduplicates the accounts (latest creation wins; losers are reported, not
// dropped), left-joins transactions by agent name against contract title,
// and runs the correction pipeline over every joined row.
func Stage(records record.Collection, schemaTrx, schemaAgent []string) Tables {
	if schemaTrx == nil {
		schemaTrx = TransactionSchema
	}
	if schemaAgent == nil {
		schemaAgent = AgentAccountSchema
	}

	var out Tables
	byTitle := make(map[string][]AgentAccount)

	// Pass 1: collect the reference stream.
	for i := range records {
		rec := &records[i]
		status, _ := rec.Extract(FieldStatus)
		if status != AgentAccountStatus {
			continue
		}
		proj := rec.ExtractBatch(schemaAgent)
		title, _ := proj.Get(FieldContractTitle)
		byTitle[title] = append(byTitle[title], AgentAccount{
			RecordID:      rec.ID,
			Team:          rec.Team,
			ContractTitle: title,
			CreatedAt:     rec.CreatedAt,
		})
	}

	// Latest-created account per title is authoritative.
	authoritative := make(map[string]AgentAccount, len(byTitle))
	titles := make([]string, 0, len(byTitle))
	for title := range byTitle {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		group := byTitle[title]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})
		authoritative[title] = group[0]
		out.AgentAccounts = append(out.AgentAccounts, group[0])
		out.DuplicateAgentAccounts = append(out.DuplicateAgentAccounts, group[1:]...)
	}

	// Pass 2: join and correct the transaction stream.
	for i := range records {
		rec := &records[i]
		status, _ := rec.Extract(FieldStatus)
		if status == AgentAccountStatus {
			continue
		}
		proj := rec.ExtractBatch(schemaTrx)
		agentName, _ := proj.Get(FieldAgentName)

		account, ok := authoritative[agentName]
		if !ok {
			cause := pipeerr.NewJoinUnmatched(rec.ID, agentName)
			out.Errors = append(out.Errors, JoinError{
				RecordID:  rec.ID,
				Team:      rec.Team,
				AgentName: agentName,
				Code:      cause.Code,
				Severity:  cause.Severity.String(),
				Reason:    cause.Message,
			})
			continue
		}

		row := newTransactionRow(rec, proj)
		row.ContractTitle = account.ContractTitle
		out.Transactions = append(out.Transactions, Correct(row))
	}

	return out
}

func newTransactionRow(rec *record.Record, proj record.Projection) TransactionRow {
	status, _ := proj.Get(FieldStatus)
	agentName, _ := proj.Get(FieldAgentName)
	preferred, _ := proj.Get(FieldPreferred)
	providedBy, _ := proj.Get(FieldAgentProvidedBy)
	rate, _ := proj.Get(FieldCommissionRate)

	return TransactionRow{
		RecordID:        rec.ID,
		Team:            rec.Team,
		AgentName:       agentName,
		Status:          status,
		Preferred:       preferred == "Yes",
		AgentProvidedBy: providedBy,
		CommissionRate:  parseAmount(rate).Decimal,
		Closing:         period.ParseDate(get(proj, FieldClosingDate)),
		BillingAmount:   parseAmount(get(proj, FieldBillingAmount)),
		OtherAmount:     parseAmount(get(proj, FieldOtherAmount)),
		ListingPaid: PaidMilestone{
			Date:   period.ParseDate(get(proj, "listing_paid_date")),
			Amount: parseAmount(get(proj, "listing_paid_amount")).Decimal,
		},
		CTCPaid: PaidMilestone{
			Date:   period.ParseDate(get(proj, "ctc_paid_date")),
			Amount: parseAmount(get(proj, "ctc_paid_amount")).Decimal,
		},
		CompliancePaid: PaidMilestone{
			Date:   period.ParseDate(get(proj, "compliance_paid_date")),
			Amount: parseAmount(get(proj, "compliance_paid_amount")).Decimal,
		},
		OfferPrepPaid: PaidMilestone{
			Date:   period.ParseDate(get(proj, "offer_prep_paid_date")),
			Amount: parseAmount(get(proj, "offer_prep_paid_amount")).Decimal,
		},
		ListingStarted:    period.ParseDate(get(proj, "listing_started_with_empower")),
		OfferStarted:      period.ParseDate(get(proj, "offer_started_with_empower")),
		ComplianceStarted: period.ParseDate(get(proj, "compliance_started_with_empower")),
	}
}

func get(proj record.Projection, field string) string {
	v, _ := proj.Get(field)
	return v
}

// parseAmount reads a money field. Blank or malformed values come back
// invalid so fallback rules can tell "missing" apart from an explicit zero.
func parseAmount(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
