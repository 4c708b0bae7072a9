package model

// Tier is the display severity of a single record
type Tier string

const (
	TierExpired Tier = "expired"
	TierUrgent  Tier = "urgent"
	TierWarning Tier = "warning"
	TierNormal  Tier = "normal"
)

// Tiers lists all display tiers from most to least severe
var Tiers = []Tier{TierExpired, TierUrgent, TierWarning, TierNormal}

const (
	// UrgentDays is the last day count shown as urgent
	UrgentDays = 7
	// WarningDays is the last day count shown as warning and the edge of the
	// report's urgent bucket
	WarningDays = 30
)

// TierOf maps a day count to its display tier.
//
// TierUrgent covers 1-7 days only. Reports use BucketUrgentOrWarning (1-30).
func TierOf(daysUntilExpiry int) Tier {
	switch {
	case daysUntilExpiry <= 0:
		return TierExpired
	case daysUntilExpiry <= UrgentDays:
		return TierUrgent
	case daysUntilExpiry <= WarningDays:
		return TierWarning
	default:
		return TierNormal
	}
}

// Bucket is the coarse partition that decides whether a report is generated
type Bucket string

const (
	BucketExpired         Bucket = "expired"
	BucketUrgentOrWarning Bucket = "urgent_or_warning"
)

// ReportKind selects which buckets a report covers
type ReportKind string

const (
	ReportExpired ReportKind = "expired"
	ReportUrgent  ReportKind = "urgent"
	ReportBoth    ReportKind = "both"
)

// ParseReportKind validates a report kind given on the command line or in a URL
func ParseReportKind(s string) (ReportKind, error) {
	switch ReportKind(s) {
	case ReportExpired, ReportUrgent, ReportBoth:
		return ReportKind(s), nil
	}
	return "", &InvalidReportKindError{Kind: s}
}

// Report is a rendered notification ready for a sink
type Report struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Summary holds the dashboard counters
type Summary struct {
	Total    int          `json:"total"`
	Expiring int          `json:"expiring"`
	Expired  int          `json:"expired"`
	ByTier   map[Tier]int `json:"by_tier"`
}
