package logic

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// HijriMarker is the era suffix that marks a Hijri date in the sheet
const HijriMarker = "هـ"

// Linear approximation of the Hijri to Gregorian year
const (
	hijriYearFactor = 0.970229
	hijriYearOffset = 621.5643
)

var freeFormLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ResolveDate turns an expiry cell into a date at midnight in now's location.
// Input it cannot read resolves to today.
func ResolveDate(raw string, now time.Time) time.Time {
	date, _ := resolveDate(raw, now)
	return date
}

// resolveDate reports false when the value fell back to today
func resolveDate(raw string, now time.Time) (time.Time, bool) {
	loc := now.Location()

	if strings.Contains(raw, HijriMarker) {
		cleaned := strings.Join(strings.Fields(strings.ReplaceAll(raw, HijriMarker, "")), "")
		day, month, year, ok := splitDMY(cleaned)
		if !ok {
			return Midnight(now), false
		}
		gregorianYear := HijriToGregorianYear(year)
		return time.Date(gregorianYear, time.Month(month), day, 0, 0, 0, 0, loc), true
	}

	if day, month, year, ok := splitDMY(raw); ok {
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), true
	}

	value := strings.TrimSpace(raw)
	for _, layout := range freeFormLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return Midnight(parsed.In(loc)), true
		}
	}

	return Midnight(now), false
}

// HijriToGregorianYear approximates the Gregorian year a Hijri year falls in
func HijriToGregorianYear(hijriYear int) int {
	return int(math.Floor(float64(hijriYear)*hijriYearFactor + hijriYearOffset))
}

// splitDMY reads day/month/year; it fails unless there are exactly three numeric parts
func splitDMY(value string) (int, int, int, bool) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, 0, false
		}
		nums[i] = n
	}

	return nums[0], nums[1], nums[2], true
}

// Midnight drops the time of day, keeping the location
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil is the whole number of days from now's date to expiry's date.
// The same day gives 0, yesterday gives -1.
func DaysUntil(expiry, now time.Time) int {
	// calendar days in UTC so DST shifts never add or remove an hour;
	// Unix seconds because time.Duration saturates after ~292 years
	e := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int((e.Unix() - t.Unix()) / secondsPerDay)
}
