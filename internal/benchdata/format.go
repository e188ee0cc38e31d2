// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package benchdata

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Thousands groups digits by three with a plain space: 17860 -> "17 860".
func Thousands(v int64) string {
	return strings.ReplaceAll(humanize.Comma(v), ",", " ")
}

// Decimal formats v with the given number of decimals and a decimal comma.
func Decimal(v float64, decimals int) string {
	s := strconv.FormatFloat(round(v, decimals), 'f', decimals, 64)
	return strings.Replace(s, ".", ",", 1)
}

// Factor formats a ratio as "1,95x".
func Factor(v float64) string {
	return Decimal(v, 2) + "x"
}

// Percent formats a fraction as a percentage with the given decimals: 0.917 -> "91,7%".
func Percent(v float64, decimals int) string {
	return Decimal(v*100, decimals) + "%"
}

// SignedPercent is Percent with an explicit sign for positive values.
func SignedPercent(v float64, decimals int) string {
	s := Percent(v, decimals)
	if v > 0 {
		return "+" + s
	}
	return s
}

// CompactN formats a problem size as "20K".
func CompactN(n int) string {
	return fmt.Sprintf("%dK", n/1000)
}

// Duration formats seconds the way the results table prints them:
// "42 s", "2 min 10 s". Halves round to even.
func Duration(seconds float64) string {
	total := int(math.RoundToEven(seconds))
	m, s := total/60, total%60
	if m == 0 {
		return fmt.Sprintf("%d s", s)
	}
	return fmt.Sprintf("%d min %d s", m, s)
}

// ShortDuration formats seconds as a bar label: "42s", "2m 10s".
func ShortDuration(seconds float64) string {
	total := int(math.RoundToEven(seconds))
	m, s := total/60, total%60
	if m == 0 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

// round rounds half away from zero at the given decimal.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
