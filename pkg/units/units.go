// Package units provides binary size unit multipliers (1024-based) and the
// conversions used when sizes are reported.
package units

// Binary size multipliers.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
)

// ToKiB converts a byte count to kibibytes.
func ToKiB(bytes float64) float64 {
	return bytes / KiB
}

// WholeKiB converts a byte count to whole kibibytes, rounding down.
func WholeKiB(bytes uint64) uint64 {
	return bytes / KiB
}
