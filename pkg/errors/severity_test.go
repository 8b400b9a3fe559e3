package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorFormat(t *testing.T) {
	err := NewJoinUnmatched("t-42", "Nobody Known")
	assert.Equal(t, `[error] JOIN_UNMATCHED: no agent account matches agent name "Nobody Known" (record: t-42)`, err.Error())
	assert.True(t, err.Recoverable)

	fatal := NewSnapshotMissing("properties")
	assert.Equal(t, `[fatal] SNAPSHOT_MISSING: no snapshot exists for source "properties"`, fatal.Error())
	assert.False(t, fatal.Recoverable)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "fatal", SeverityFatal.String())
	assert.Equal(t, "unknown", Severity(99).String())
}
