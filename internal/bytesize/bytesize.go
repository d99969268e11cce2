// Package bytesize renders byte counts for result listings.
package bytesize

import (
	"math"
	"strconv"
)

var units = []string{"bytes", "kB", "MB", "GB", "TB", "PB"}

// Format renders n with one decimal place, e.g. 1024 -> "1.0 kB".
func Format(n int64) string {
	return FormatPrecision(n, 1)
}

// FormatPrecision renders n in base-1024 units with the given number of
// decimal places. Zero and negative sizes render as "-".
func FormatPrecision(n int64, precision int) string {
	if n <= 0 {
		return "-"
	}
	if precision < 0 {
		precision = 0
	}
	value := float64(n)
	exp := int(math.Floor(math.Log(value) / math.Log(1024)))
	if exp >= len(units) {
		exp = len(units) - 1
	}
	scaled := value / math.Pow(1024, float64(exp))
	return strconv.FormatFloat(scaled, 'f', precision, 64) + " " + units[exp]
}
