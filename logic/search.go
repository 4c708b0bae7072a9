package logic

import (
	"fmt"
	"strings"

	"elena/residency_alerts/model"
)

// Dashboard views
const (
	ViewAll      = "all"
	ViewExpiring = "expiring"
	ViewExpired  = "expired"
)

// Search returns the employees whose raw fields contain keyword, ignoring case.
// An empty keyword matches nobody.
func Search(employees []model.Employee, keyword string) []model.Employee {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	return Filter(employees, func(e model.Employee) bool {
		for _, field := range []string{
			e.Name,
			e.StaffNo,
			e.PassportNumber,
			e.Job,
			e.Nationality,
			e.CardType,
			e.CardNumber,
		} {
			if strings.Contains(strings.ToLower(field), keyword) {
				return true
			}
		}
		return false
	})
}

// SelectView applies a dashboard view and an optional search keyword
func SelectView(employees []model.Employee, view, keyword string) ([]model.Employee, error) {
	if strings.TrimSpace(keyword) != "" {
		return Search(employees, keyword), nil
	}

	switch view {
	case "", ViewAll:
		return employees, nil
	case ViewExpiring:
		return Filter(employees, IsUrgentForReport), nil
	case ViewExpired:
		return Filter(employees, IsExpired), nil
	}
	return nil, fmt.Errorf("unknown view %q", view)
}

// FindByStaffNo returns the employee with the given staff number
func FindByStaffNo(employees []model.Employee, staffNo string) (model.Employee, bool) {
	for _, e := range employees {
		if e.StaffNo == staffNo {
			return e, true
		}
	}
	return model.Employee{}, false
}
