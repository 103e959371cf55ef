package rebalance

import "fmt"

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// FormatBytes renders n as a human-readable size with a binary unit,
// e.g. 1536 -> "1.50 KiB". Ported from the original planner's
// format_bytes helper, used when logging planned moves.
func FormatBytes(n int64) string {
	f := float64(n)
	unit := byteUnits[0]
	for _, u := range byteUnits[1:] {
		if f < 1024 {
			break
		}
		f /= 1024
		unit = u
	}
	return fmt.Sprintf("%.2f %s", f, unit)
}
