package logic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"elena/residency_alerts/model"

	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	ExportXLSX = "xlsx"
	ExportCSV  = "csv"
)

// ExportSheet is the worksheet name of the workbook export
const ExportSheet = "Staff Report"

// XLSXContentType is the media type of the workbook export
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []string{
	"Staff No.",
	"Passport Number",
	"Employee Name",
	"Job",
	"Nationality",
	"Card Type",
	"Card Number",
	"Card Expiry Date",
	"Passport Issue Date",
	"Passport Expire Date",
	"Email",
	"Joining Date",
	"Years",
	"Days Remaining",
	"Status",
}

var statusTexts = map[model.Tier]string{
	model.TierExpired: "Expired",
	model.TierUrgent:  "Urgent",
	model.TierWarning: "Warning",
	model.TierNormal:  "Normal",
}

// StatusText is the English label of a display tier used in exports
func StatusText(tier model.Tier) string {
	return statusTexts[tier]
}

// ExportFileName is the default file name of an export made on day
func ExportFileName(day time.Time, format string) string {
	return fmt.Sprintf("Staff_Report_%s.%s", day.Format("2006-01-02"), format)
}

// WriteExportAs writes employees in the given format
func WriteExportAs(w io.Writer, employees []model.Employee, format string) error {
	switch format {
	case "", ExportXLSX:
		return WriteWorkbook(w, employees)
	case ExportCSV:
		return WriteExport(w, employees)
	}
	return fmt.Errorf("unknown export format %q (want %s or %s)", format, ExportXLSX, ExportCSV)
}

// WriteWorkbook writes employees as an xlsx workbook with a single sheet
func WriteWorkbook(w io.Writer, employees []model.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ExportSheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	for i, e := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		record := exportRecord(e)
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		// days stay numeric so the sheet can be sorted
		row[len(row)-2] = e.DaysUntilExpiry

		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteExport writes employees as CSV with the workbook's columns
func WriteExport(w io.Writer, employees []model.Employee) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, e := range employees {
		if err := writer.Write(exportRecord(e)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func exportRecord(e model.Employee) []string {
	return []string{
		e.StaffNo,
		e.PassportNumber,
		e.Name,
		e.Job,
		e.Nationality,
		e.CardType,
		e.CardNumber,
		FormatExpiry(e),
		e.PassportIssueDate,
		e.PassportExpiryDate,
		e.Email,
		e.JoiningDate,
		e.TenureYears,
		strconv.Itoa(e.DaysUntilExpiry),
		StatusText(model.TierOf(e.DaysUntilExpiry)),
	}
}
