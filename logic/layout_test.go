package logic

import (
	"testing"

	"elena/residency_alerts/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeader(t *testing.T) {
	rows := ParseCSV(sheet)
	require.NotEmpty(t, rows)
	assert.NoError(t, ValidateHeader(rows[0]))

	arabic := model.Row{"رقم الموظف", "", "اسم الموظف", "", "", "", "رقم البطاقة", "تاريخ انتهاء الإقامة"}
	assert.NoError(t, ValidateHeader(arabic))

	spaced := model.Row{"STAFF_NO", "passport-no", "Name", "Job", "", "", "card.no", "Expiry Date"}
	assert.NoError(t, ValidateHeader(spaced))
}

func TestValidateHeader_Mismatch(t *testing.T) {
	tests := []struct {
		name   string
		header model.Row
	}{
		{"missing expiry", model.Row{"Staff No", "Passport No", "Name"}},
		{"missing staff number", model.Row{"", "Passport No", "Name", "Job", "", "", "", "Card Expiry"}},
		{"shifted columns", model.Row{"Staff No", "Name", "Passport No", "Job", "", "", "", "Card Expiry"}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(tt.header)
			assert.ErrorIs(t, err, model.ErrSchemaMismatch)
		})
	}
}
