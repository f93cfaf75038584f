package diskusage

import (
	"fmt"
	"math"
)

// sizeUnits are the units FormatSize picks from. GB is the largest.
//
//nolint:gochecknoglobals // Lookup table
var sizeUnits = [...]string{"bytes", "KB", "MB", "GB"}

// FormatSize scales size by powers of 1024 and returns the scaled value with its unit.
// Sizes of 1024 GB and above are still reported in GB.
func FormatSize(size int64) (float64, string) {
	index := 0

	for scaled := size; scaled >= 1024 && index < len(sizeUnits)-1; index++ {
		scaled /= 1024
	}

	return float64(size) / math.Pow(1024, float64(index)), sizeUnits[index]
}

// HumanSize renders size as "<value> <unit>" with two decimals, e.g. "1.50 KB".
func HumanSize(size int64) string {
	value, unit := FormatSize(size)

	return fmt.Sprintf("%.2f %s", value, unit)
}

// FormatLine renders the description line for a path of the given size:
// the scaled value right-aligned in 8 columns, the unit left-aligned in 7, then the path.
func FormatLine(size int64, path string) string {
	value, unit := FormatSize(size)

	return fmt.Sprintf("%8.2f %-7s%s", value, unit, path)
}
