// Package errors provides severity-aware error types for the reporting
// pipeline. Data-quality problems are classified so downstream review can
// tell a blocking failure from a row-level warning.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// PipelineError is a structured error with record context.
type PipelineError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	RecordID    string   `json:"record_id,omitempty"`
	Recoverable bool     `json:"recoverable"`
}

func (e *PipelineError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("[%s] %s: %s (record: %s)", e.Severity, e.Code, e.Message, e.RecordID)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Error codes
const (
	ErrCodeSnapshotMissing  = "SNAPSHOT_MISSING"
	ErrCodeJoinUnmatched    = "JOIN_UNMATCHED"
	ErrCodeDuplicateAccount = "DUPLICATE_ACCOUNT"
	ErrCodeFetchFailed      = "FETCH_FAILED"
	ErrCodePublishFailed    = "PUBLISH_FAILED"
)

// NewSnapshotMissing reports a source that has never been snapshotted.
func NewSnapshotMissing(source string) *PipelineError {
	return &PipelineError{
		Code:     ErrCodeSnapshotMissing,
		Message:  fmt.Sprintf("no snapshot exists for source %q", source),
		Severity: SeverityFatal,
	}
}

// NewJoinUnmatched reports a transaction with no agent account. The row is
// recoverable: it is routed to the error table and the run continues.
func NewJoinUnmatched(recordID, agentName string) *PipelineError {
	return &PipelineError{
		Code:        ErrCodeJoinUnmatched,
		Message:     fmt.Sprintf("no agent account matches agent name %q", agentName),
		Severity:    SeverityError,
		RecordID:    recordID,
		Recoverable: true,
	}
}
