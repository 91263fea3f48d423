package view

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders v as US currency, e.g. $19,999.99.
func FormatUSD(v float64) string {
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", -v)
	}
	return "$" + printer.Sprintf("%.2f", v)
}

// FormatNumber groups thousands and keeps cents only when present.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

func FormatInt(v int64) string {
	return printer.Sprintf("%d", v)
}

func FormatTime(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}
