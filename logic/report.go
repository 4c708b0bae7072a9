package logic

import (
	"fmt"
	"html"
	"strings"

	"elena/residency_alerts/model"
)

const (
	placeholderTable   = "{{TABLE}}"
	placeholderExpired = "{{EXPIRED_SECTION}}"
	placeholderUrgent  = "{{URGENT_SECTION}}"
)

var subjects = map[model.ReportKind]string{
	model.ReportExpired: "عاجل - إقامات موظفين منتهية الصلاحية - %s",
	model.ReportUrgent:  "تنبيه - إقامات موظفين تنتهي قريباً - %s",
	model.ReportBoth:    "عاجل - تقرير إقامات الموظفين (منتهية وقاربة على الانتهاء) - %s",
}

var templates = map[model.ReportKind]string{
	model.ReportExpired: `السلام عليكم ورحمة الله وبركاته

تحية طيبة وبعد،

نود إحاطتكم علماً بأن إقامات الموظفين المذكورين أدناه قد انتهت صلاحيتها، ونرجو اتخاذ الإجراءات اللازمة لتجديدها في أقرب وقت ممكن.

{{TABLE}}

مع خالص التقدير`,

	model.ReportUrgent: `السلام عليكم ورحمة الله وبركاته

تحية طيبة وبعد،

نود لفت انتباهكم إلى أن إقامات الموظفين المذكورين أدناه ستنتهي خلال الأيام القادمة، نرجو التكرم باتخاذ الإجراءات اللازمة لتجديدها قبل انتهاء المدة المحددة.

{{TABLE}}

مع خالص التقدير`,

	model.ReportBoth: `السلام عليكم ورحمة الله وبركاته

تحية طيبة وبعد،

نود إحاطتكم علماً بحالة إقامات الموظفين التي تحتاج لاتخاذ إجراءات عاجلة كما يلي:

{{EXPIRED_SECTION}}

{{URGENT_SECTION}}

نرجو التكرم باتخاذ الإجراءات اللازمة لتجديد هذه الإقامات في أقرب وقت ممكن.

مع خالص التقدير`,
}

const (
	expiredSectionTitle = "أولاً: الموظفون ذوو الإقامات المنتهية الصلاحية"
	urgentSectionTitle  = "ثانياً: الموظفون ذوو الإقامات التي تنتهي قريباً"
)

// Column headers of the report table, in column order
var TableHeaders = []string{
	"رقم الموظف",
	"اسم الموظف",
	"الوظيفة",
	"الجنسية",
	"رقم البطاقة",
	"تاريخ انتهاء الإقامة",
	"الأيام المتبقية",
	"الحالة",
}

var statusLabels = map[model.Tier]string{
	model.TierExpired: "منتهية",
	model.TierUrgent:  "عاجل",
	model.TierWarning: "تحذير",
	model.TierNormal:  "سارية",
}

var rowColors = map[model.Tier]string{
	model.TierExpired: "#FFEBEE",
	model.TierUrgent:  "#FFE0B2",
	model.TierWarning: "#FFF8E1",
	model.TierNormal:  "#E8F5E8",
}

// DaysSuffix follows the day count in tables and exports
const DaysSuffix = "يوم"

const (
	headerRowStyle = "background-color: #FFD600; color: #673ab7; font-weight: bold;"
	headerStyle    = "border: 1px solid #ddd; padding: 8px; text-align: center;"
	cellStyle      = "border: 1px solid #ddd; padding: 8px; text-align: center; font-weight: bold;"
	tableStyle     = "border-collapse: collapse; width: 100%; margin: 10px 0; font-family: Arial, sans-serif; direction: rtl;"
	titleStyle     = "color: #673ab7; margin: 20px 0 10px 0;"
)

// StatusLabel is the Arabic label of a display tier
func StatusLabel(tier model.Tier) string {
	return statusLabels[tier]
}

// FormatExpiry renders the card expiry as DD/MM/YYYY
func FormatExpiry(e model.Employee) string {
	return e.CardExpiry.Format("02/01/2006")
}

// FormatDays renders the day count with its unit
func FormatDays(days int) string {
	return fmt.Sprintf("%d %s", days, DaysSuffix)
}

// GenerateReport renders the notification for kind. It returns false when
// the buckets the kind covers are empty, in which case nothing is sent.
func GenerateReport(kind model.ReportKind, employees []model.Employee, today string) (model.Report, bool) {
	switch kind {
	case model.ReportExpired, model.ReportUrgent:
		bucket := model.BucketExpired
		if kind == model.ReportUrgent {
			bucket = model.BucketUrgentOrWarning
		}

		selected := InBucket(employees, bucket)
		if len(selected) == 0 {
			return model.Report{}, false
		}

		return model.Report{
			Subject: fmt.Sprintf(subjects[kind], today),
			Body:    strings.Replace(templates[kind], placeholderTable, RenderTable(selected, ""), 1),
		}, true

	case model.ReportBoth:
		expired := InBucket(employees, model.BucketExpired)
		urgent := InBucket(employees, model.BucketUrgentOrWarning)
		if len(expired) == 0 && len(urgent) == 0 {
			return model.Report{}, false
		}

		body := strings.NewReplacer(
			placeholderExpired, RenderTable(expired, expiredSectionTitle),
			placeholderUrgent, RenderTable(urgent, urgentSectionTitle),
		).Replace(templates[kind])

		return model.Report{
			Subject: fmt.Sprintf(subjects[kind], today),
			Body:    body,
		}, true
	}

	return model.Report{}, false
}

// RenderTable renders employees as an HTML table, preceded by title when it
// is not empty. No employees renders nothing at all.
func RenderTable(employees []model.Employee, title string) string {
	if len(employees) == 0 {
		return ""
	}

	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "<h3 style=\"%s\">%s</h3>\n", titleStyle, html.EscapeString(title))
	}

	fmt.Fprintf(&b, "<table style=\"%s\">\n", tableStyle)
	fmt.Fprintf(&b, "  <tr style=\"%s\">\n", headerRowStyle)
	for _, header := range TableHeaders {
		fmt.Fprintf(&b, "    <th style=\"%s\">%s</th>\n", headerStyle, header)
	}
	b.WriteString("  </tr>\n")

	for _, e := range employees {
		tier := model.TierOf(e.DaysUntilExpiry)
		fmt.Fprintf(&b, "  <tr style=\"background-color: %s;\">\n", rowColors[tier])
		for _, cell := range tableCells(e, tier) {
			fmt.Fprintf(&b, "    <td style=\"%s\">%s</td>\n", cellStyle, html.EscapeString(cell))
		}
		b.WriteString("  </tr>\n")
	}
	b.WriteString("</table>")

	return b.String()
}

func tableCells(e model.Employee, tier model.Tier) []string {
	return []string{
		e.StaffNo,
		TitleCase(e.Name),
		TitleCase(e.Job),
		TitleCase(e.Nationality),
		e.CardNumber,
		FormatExpiry(e),
		FormatDays(e.DaysUntilExpiry),
		StatusLabel(tier),
	}
}

// AliveReport is the diagnostic message a caller may send when a run has
// nothing to report, to show the service is working.
func AliveReport(employeesProcessed int) model.Report {
	return model.Report{
		Subject: "Test Email - Staff Alert System",
		Body: fmt.Sprintf(
			"<h2>Test Email</h2><p>This is a test email to verify the email system is working. Total employees processed: %d</p>",
			employeesProcessed,
		),
	}
}
