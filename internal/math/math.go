package math

import (
	"strconv"
)

// Format formats a float with the given number of decimals.
func Format(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}
