package logic

import (
	"strings"
	"time"
	"unicode"

	"elena/residency_alerts/model"

	"github.com/sirupsen/logrus"
)

// ParseRow builds an employee from a sheet row. It returns false when the
// staff number or the card expiry cell is empty.
func ParseRow(row model.Row, now time.Time) (model.Employee, bool) {
	employee, ok, _ := parseRow(row, now)
	return employee, ok
}

func parseRow(row model.Row, now time.Time) (model.Employee, bool, bool) {
	staffNo := row.Cell(ColStaffNo)
	expiry := row.Cell(ColCardExpiry)
	if staffNo == "" || expiry == "" {
		return model.Employee{}, false, false
	}

	cardExpiry, exact := resolveDate(expiry, now)

	return model.Employee{
		StaffNo:            staffNo,
		PassportNumber:     row.Cell(ColPassportNumber),
		Name:               row.Cell(ColName),
		Job:                row.Cell(ColJob),
		Nationality:        row.Cell(ColNationality),
		CardType:           row.Cell(ColCardType),
		CardNumber:         row.Cell(ColCardNumber),
		CardExpiry:         cardExpiry,
		PassportIssueDate:  row.Cell(ColPassportIssueDate),
		PassportExpiryDate: row.Cell(ColPassportExpiryDate),
		Email:              row.Cell(ColEmail),
		JoiningDate:        row.Cell(ColJoiningDate),
		TenureYears:        row.Cell(ColTenureYears),
		DaysUntilExpiry:    DaysUntil(cardExpiry, now),
	}, true, exact
}

// ParseEmployees turns the data rows (everything after the header) into employees
func ParseEmployees(rows []model.Row, now time.Time, log logrus.FieldLogger) []model.Employee {
	if len(rows) < 2 {
		return nil
	}

	employees := make([]model.Employee, 0, len(rows)-1)
	skipped := 0
	for i, row := range rows[1:] {
		employee, ok, exact := parseRow(row, now)
		if !ok {
			skipped++
			continue
		}
		if !exact {
			log.WithFields(logrus.Fields{
				"row":      i + 2,
				"staff_no": employee.StaffNo,
				"value":    row.Cell(ColCardExpiry),
			}).Warn("unreadable card expiry, using today")
		}
		employees = append(employees, employee)
	}

	if skipped > 0 {
		log.Debugf("skipped %d rows without staff number or card expiry", skipped)
	}

	return employees
}

// TitleCase lowercases s and uppercases the first letter of every
// whitespace separated word. It is for display only.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	start := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			start = true
			b.WriteRune(r)
			continue
		}
		if start {
			r = unicode.ToUpper(r)
			start = false
		}
		b.WriteRune(r)
	}

	return b.String()
}
