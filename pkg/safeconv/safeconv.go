// Package safeconv provides integer conversions between the int values used by
// image and buffer APIs and the unsigned counters stored in benchmark results.
package safeconv

import "math"

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MaxUint32 is the maximum value for uint32 type.
const MaxUint32 = uint32(math.MaxUint32)

// MustIntToUint64 converts int to uint64, panics if negative.
// Use only when negative values are logically impossible.
func MustIntToUint64(v int) uint64 {
	if v < 0 {
		panic("safeconv: negative int to uint64 conversion")
	}

	return uint64(v)
}

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToUint32(v int) uint32 {
	if v < 0 || v > int(MaxUint32) {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}

// ClampInt64 converts uint64 to int64, saturating at math.MaxInt64.
func ClampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(v)
}

// DurationNanos converts a measured nanosecond count to uint64.
// Negative values, which a monotonic clock never yields, become zero.
func DurationNanos(v int64) uint64 {
	if v < 0 {
		return 0
	}

	return uint64(v)
}
