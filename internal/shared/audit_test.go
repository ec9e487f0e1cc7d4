package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurredAtZeroBecomesNull(t *testing.T) {
	assert.Nil(t, occurredAt(time.Time{}))

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, at, occurredAt(at))
}

func TestRecordRequiresIdentityFields(t *testing.T) {
	logger := &AuditLogger{}
	err := logger.Record(context.Background(), AuditLog{Action: "permissions.replace"})
	require.Error(t, err)
}
