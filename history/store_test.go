package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSchema(t *testing.T) {
	schema, err := sanitizeSchema("  residency_alerts ")
	require.NoError(t, err)
	assert.Equal(t, "residency_alerts", schema)

	for _, bad := range []string{"", "   ", "1abc", "alerts;drop table x", "a-b", "public.alerts"} {
		_, err := sanitizeSchema(bad)
		assert.Error(t, err, bad)
	}
}

func TestNullString(t *testing.T) {
	assert.False(t, nullString("").Valid)
	assert.False(t, nullString("  ").Valid)

	v := nullString("subject")
	assert.True(t, v.Valid)
	assert.Equal(t, "subject", v.String)
}

func TestNullDate(t *testing.T) {
	assert.False(t, nullDate(time.Time{}).Valid)

	riyadh := time.FixedZone("AST", 3*60*60)
	v := nullDate(time.Date(2025, 3, 5, 0, 0, 0, 0, riyadh))
	require.True(t, v.Valid)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), v.Time)
}

func TestCivilDate(t *testing.T) {
	// midnight in Riyadh is still the previous day in UTC
	riyadh := time.FixedZone("AST", 3*60*60)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, riyadh)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), civilDate(day))
	assert.Equal(t, 31, day.UTC().Day())
}
