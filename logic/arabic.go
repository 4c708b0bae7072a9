package logic

import (
	"strconv"
	"strings"
	"time"
)

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// ArabicLongDate formats t the way an Egyptian Arabic locale writes a long
// date, e.g. "١٥ أكتوبر ٢٠٢٦".
func ArabicLongDate(t time.Time) string {
	return ArabicDigits(strconv.Itoa(t.Day())) + " " +
		arabicMonths[t.Month()-1] + " " +
		ArabicDigits(strconv.Itoa(t.Year()))
}

// ArabicDigits replaces western digits with Arabic-Indic ones
func ArabicDigits(s string) string {
	return arabicDigits.Replace(s)
}
