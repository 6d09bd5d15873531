// Package numfmt provides the thousand-separated and signed-delta number
// formatting shared by the three reporters and the notifier digest.
package numfmt

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Int formats n with thousand separators, e.g. 12345 -> "12,345".
func Int(n int) string {
	return humanize.Comma(int64(n))
}

// Signed formats n with thousand separators and an explicit leading "+" for
// positive values; negative values keep their "-", and zero has no sign.
func Signed(n int) string {
	if n > 0 {
		return "+" + humanize.Comma(int64(n))
	}

	return humanize.Comma(int64(n))
}

// Percent formats a ratio already expressed 0-100 to two decimal places,
// e.g. 12.5 -> "12.50%".
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// Bytes formats a byte count using humanize's SI (base-1000) short form,
// e.g. 1536 -> "1.5 kB".
func Bytes(n int64) string {
	return humanize.Bytes(uint64(n))
}
