package logic

import (
	"fmt"
	"strings"

	"elena/residency_alerts/model"
)

// Column positions in the staff sheet
const (
	ColStaffNo = iota
	ColPassportNumber
	ColName
	ColJob
	ColNationality
	ColCardType
	ColCardNumber
	ColCardExpiry
	ColPassportIssueDate
	ColPassportExpiryDate
	ColEmail
	ColJoiningDate
	ColTenureYears
)

// LayoutVersion is bumped whenever the column table changes
const LayoutVersion = 1

// Column binds a sheet position to a field name
type Column struct {
	Index    int
	Field    string
	Required bool
	Aliases  []string
}

// Layout is the expected column table of the staff sheet
var Layout = []Column{
	{ColStaffNo, "staff_no", true, []string{"staff no", "staff number", "staff", "emp no", "employee no", "رقم الموظف"}},
	{ColPassportNumber, "passport_number", false, []string{"passport no", "passport number", "passport", "رقم الجواز"}},
	{ColName, "name", false, []string{"name", "employee name", "staff name", "اسم الموظف", "الاسم"}},
	{ColJob, "job", false, []string{"job", "job title", "position", "الوظيفة"}},
	{ColNationality, "nationality", false, []string{"nationality", "الجنسية"}},
	{ColCardType, "card_type", false, []string{"card type", "type", "نوع البطاقة"}},
	{ColCardNumber, "card_number", false, []string{"card no", "card number", "iqama no", "iqama number", "رقم البطاقة", "رقم الإقامة"}},
	{ColCardExpiry, "card_expiry", true, []string{"card expiry", "card expiry date", "expiry", "expiry date", "iqama expiry", "تاريخ انتهاء الإقامة"}},
	{ColPassportIssueDate, "passport_issue_date", false, []string{"passport issue date", "passport issue", "issue date"}},
	{ColPassportExpiryDate, "passport_expiry_date", false, []string{"passport expiry date", "passport expire date", "passport expiry"}},
	{ColEmail, "email", false, []string{"email", "e-mail", "mail", "البريد الإلكتروني"}},
	{ColJoiningDate, "joining_date", false, []string{"joining date", "date of joining", "join date", "تاريخ الالتحاق"}},
	{ColTenureYears, "tenure_years", false, []string{"years", "tenure", "tenure years", "years of service", "سنوات الخدمة"}},
}

// ValidateHeader checks the header row against Layout. Required columns must
// be present and every non-empty header cell must match its column's aliases.
func ValidateHeader(header model.Row) error {
	for _, col := range Layout {
		cell := normalizeHeader(header.Cell(col.Index))
		if cell == "" {
			if col.Required {
				return fmt.Errorf("%w: layout v%d: column %d (%s) is missing", model.ErrSchemaMismatch, LayoutVersion, col.Index, col.Field)
			}
			continue
		}
		if !matchesAlias(cell, col.Aliases) {
			return fmt.Errorf("%w: layout v%d: column %d is %q, expected %s", model.ErrSchemaMismatch, LayoutVersion, col.Index, header.Cell(col.Index), col.Field)
		}
	}
	return nil
}

func matchesAlias(cell string, aliases []string) bool {
	for _, alias := range aliases {
		if cell == normalizeHeader(alias) {
			return true
		}
	}
	return false
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	value = strings.ReplaceAll(value, ".", "")
	return value
}
