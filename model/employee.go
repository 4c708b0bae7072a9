package model

import "time"

// Employee holds all information for the employee and the state of the residency card
type Employee struct {
	StaffNo            string    `json:"staff_no"`
	PassportNumber     string    `json:"passport_number"`
	Name               string    `json:"name"`
	Job                string    `json:"job"`
	Nationality        string    `json:"nationality"`
	CardType           string    `json:"card_type"`
	CardNumber         string    `json:"card_number"`
	CardExpiry         time.Time `json:"card_expiry"`
	PassportIssueDate  string    `json:"passport_issue_date"`
	PassportExpiryDate string    `json:"passport_expiry_date"`
	Email              string    `json:"email"`
	JoiningDate        string    `json:"joining_date"`
	TenureYears        string    `json:"tenure_years"`
	DaysUntilExpiry    int       `json:"days_until_expiry"`
}

// Document is the employee as stored in the search index. The day count
// depends on the day it is read, so it is not part of the document.
type Document struct {
	StaffNo            string    `json:"staff_no"`
	PassportNumber     string    `json:"passport_number"`
	Name               string    `json:"name"`
	Job                string    `json:"job"`
	Nationality        string    `json:"nationality"`
	CardType           string    `json:"card_type"`
	CardNumber         string    `json:"card_number"`
	CardExpiry         time.Time `json:"card_expiry"`
	PassportIssueDate  string    `json:"passport_issue_date"`
	PassportExpiryDate string    `json:"passport_expiry_date"`
	Email              string    `json:"email"`
	JoiningDate        string    `json:"joining_date"`
	TenureYears        string    `json:"tenure_years"`
}

// Document returns the index representation of the employee
func (e Employee) Document() Document {
	return Document{
		StaffNo:            e.StaffNo,
		PassportNumber:     e.PassportNumber,
		Name:               e.Name,
		Job:                e.Job,
		Nationality:        e.Nationality,
		CardType:           e.CardType,
		CardNumber:         e.CardNumber,
		CardExpiry:         e.CardExpiry,
		PassportIssueDate:  e.PassportIssueDate,
		PassportExpiryDate: e.PassportExpiryDate,
		Email:              e.Email,
		JoiningDate:        e.JoiningDate,
		TenureYears:        e.TenureYears,
	}
}

// Row is one line of the source sheet, addressed by column position
type Row []string

// Cell returns the cell at idx or an empty string when the row is shorter
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}

// Job holds the information about the csv row
type Job struct {
	Employee Employee
	RowNum   int
}

// ErrRow holds the error information that occurred during indexing
type ErrRow struct {
	RowID int
	Error error
	Job   Job
}
