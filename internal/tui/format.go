package tui

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatMoney renders an amount with thousands separators and no cents for
// whole values, e.g. "$12,500" or "$1,234.50".
func FormatMoney(currency string, v float64) string {
	neg := v < 0
	v = math.Abs(v)

	prec := 2
	if v == math.Trunc(v) {
		prec = 0
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := currency + b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatROI renders an ROI value, or "n/a" when it is undefined.
func FormatROI(roi *float64) string {
	if roi == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*roi, 'f', 1, 64)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Local().Format("2006-01-02 15:04")
}
