package logic

import (
	"testing"

	"elena/residency_alerts/model"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		days    int
		expired bool
		urgent  bool
		warning bool
	}{
		{-3, true, false, false},
		{0, true, false, false},
		{1, false, true, false},
		{7, false, true, false},
		{8, false, true, true},
		{30, false, true, true},
		{31, false, false, false},
	}

	for _, tt := range tests {
		e := employeeIn("x", tt.days)
		assert.Equal(t, tt.expired, IsExpired(e), "expired at %d days", tt.days)
		assert.Equal(t, tt.urgent, IsUrgentForReport(e), "urgent at %d days", tt.days)
		assert.Equal(t, tt.warning, IsWarning(e), "warning at %d days", tt.days)
	}
}

func TestInBucket(t *testing.T) {
	employees := []model.Employee{
		employeeIn("a", -1),
		employeeIn("b", 0),
		employeeIn("c", 1),
		employeeIn("d", 30),
		employeeIn("e", 31),
	}

	assert.Equal(t, []string{"a", "b"}, staffNumbers(InBucket(employees, model.BucketExpired)))
	assert.Equal(t, []string{"c", "d"}, staffNumbers(InBucket(employees, model.BucketUrgentOrWarning)))
	assert.Empty(t, InBucket(employees, model.Bucket("other")))
}

func TestGroupByTier(t *testing.T) {
	groups := GroupByTier([]model.Employee{
		employeeIn("a", 0),
		employeeIn("b", 3),
		employeeIn("c", 10),
		employeeIn("d", 100),
		employeeIn("e", -9),
	})

	assert.Equal(t, []string{"a", "e"}, staffNumbers(groups[model.TierExpired]))
	assert.Equal(t, []string{"b"}, staffNumbers(groups[model.TierUrgent]))
	assert.Equal(t, []string{"c"}, staffNumbers(groups[model.TierWarning]))
	assert.Equal(t, []string{"d"}, staffNumbers(groups[model.TierNormal]))
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]model.Employee{
		employeeIn("a", 0),
		employeeIn("b", 3),
		employeeIn("c", 10),
		employeeIn("d", 12),
	})

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 3, summary.Expiring)
	assert.Equal(t, map[model.Tier]int{
		model.TierExpired: 1,
		model.TierUrgent:  1,
		model.TierWarning: 2,
		model.TierNormal:  0,
	}, summary.ByTier)
}
