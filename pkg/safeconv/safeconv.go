// Package safeconv provides safe integer type conversion functions that panic on overflow.
package safeconv

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MustIntToUint64 converts int to uint64, panics if negative.
// Use only when negative values are logically impossible.
func MustIntToUint64(v int) uint64 {
	if v < 0 {
		panic("safeconv: negative int to uint64 conversion")
	}

	return uint64(v)
}

// MustIntToInt8 converts int to int8, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToInt8(v int) int8 {
	if v < -128 || v > 127 {
		panic("safeconv: int to int8 out of bounds")
	}

	return int8(v)
}
