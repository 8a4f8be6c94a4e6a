package cli

import (
	"fmt"
	"time"
)

// FormatDuration renders a millisecond count the way a status line wants
// it: bare milliseconds under a second, fractional seconds under a minute,
// minutes plus seconds beyond that.
func FormatDuration(ms int) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%.1fs", int(d.Minutes()), (d % time.Minute).Seconds())
	}
}

// byteUnits are binary (1024) steps. GB is as large as an image payload
// realistically gets.
var byteUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count with a binary unit and two decimals.
func FormatBytes(n int) string {
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(byteUnits)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.2f %s", size, byteUnits[i])
}
