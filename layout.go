// Package zid - layout.go pins down the codec geometry as an explicit,
// validated policy.
//
// The historical variants of this identifier disagreed on byte width and
// timestamp resolution. This implementation treats those choices as a single
// Layout value: the canonical 15-byte / microsecond layout ships, and
// Validate() documents exactly which arithmetic relationships any layout
// would have to satisfy (most importantly the carry-digit window
// 62^digits < 2^bits <= 2*62^digits).

package zid

import (
	"fmt"
	"math/bits"
	"time"
)

// Timestamp range constants. The supported range is proleptic year 1
// through year 9999 inclusive, at microsecond resolution.
const (
	// firstUnixSec is 0001-01-01T00:00:00Z in Unix seconds.
	firstUnixSec int64 = -62135596800

	// upperUnixSec is the exclusive upper bound 10000-01-01T00:00:00Z.
	upperUnixSec int64 = 253402300800

	// totalMicros is the number of microseconds in the supported range.
	totalMicros uint64 = 315537897600000000

	// valuesPerMicro is the number of distinct integer slots allotted to
	// each microsecond: floor(2^120 / totalMicros) + 1. The +1 guarantees
	// every microsecond maps to a distinct slot range with the whole 120-bit
	// space covered; the cost is that slots truncate slightly at the extreme
	// high end, which generation handles by clamping the random tail.
	valuesPerMicro uint64 = 4212577968906755729
)

// firstDate and upperDate are the time.Time forms of the range bounds.
// time.Duration cannot span 9999 years, so range arithmetic everywhere uses
// Unix seconds rather than Sub.
var (
	firstDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	upperDate = time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// derivedValuesPerMicro recomputes valuesPerMicro from first principles.
// Package init asserts it against the declared constant.
func derivedValuesPerMicro() uint64 {
	// 2^120 / totalMicros: the dividend's high word (2^56) is below the
	// divisor, so a single 128/64 division suffices.
	q, _ := bits.Div64(1<<56, 0, totalMicros)
	return q + 1
}

// Layout describes the geometry of a Zid encoding: how wide the binary form
// is, how many text digits cover it, how digits are grouped, and how finely
// timestamps are resolved.
//
// Only LayoutCanonical is supported by the codec in this package; the type
// exists to make the policy explicit and checkable rather than to offer
// alternatives at runtime.
type Layout struct {
	// Bytes is the width of the binary form.
	Bytes int

	// Digits is the number of base-62 digit positions, excluding the
	// single carry digit.
	Digits int

	// GroupSize is the number of digits between separators.
	GroupSize int

	// Resolution is the timestamp granularity.
	Resolution time.Duration
}

// LayoutCanonical is the layout this package implements: 15 bytes
// (120 bits), 20 base-62 digits plus one carry digit, separator every 7
// digits, microsecond timestamps.
var LayoutCanonical = Layout{
	Bytes:      15,
	Digits:     20,
	GroupSize:  7,
	Resolution: time.Microsecond,
}

// Validate checks the arithmetic self-consistency of the layout.
//
// A valid layout must satisfy:
//   - Bytes in [1, 15] (wider widths would need wider arithmetic)
//   - positive Digits and GroupSize, positive Resolution
//   - the carry window: 62^Digits < 2^(8*Bytes) <= 2*62^Digits, so the
//     carry digit is always exactly 0 or 1
//   - full range coverage: 2^(8*Bytes) must be at least the number of
//     resolution units between year 1 and year 10000, so every instant gets
//     at least one slot
func (l Layout) Validate() error {
	if l.Bytes < 1 || l.Bytes > 15 {
		return fmt.Errorf("%w: byte width must be 1-15, got %d", ErrInvalidZid, l.Bytes)
	}
	if l.Digits < 1 {
		return fmt.Errorf("%w: digit count must be positive, got %d", ErrInvalidZid, l.Digits)
	}
	if l.GroupSize < 1 {
		return fmt.Errorf("%w: group size must be positive, got %d", ErrInvalidZid, l.GroupSize)
	}
	if l.Resolution <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %v", ErrInvalidZid, l.Resolution)
	}

	bits := uint(8 * l.Bytes)
	space := shiftLeft1(bits) // 2^(8*Bytes)

	pow := uint128{lo: 1}
	for i := 0; i < l.Digits; i++ {
		if pow.hi>>57 != 0 {
			return fmt.Errorf("%w: 62^%d exceeds 128-bit arithmetic", ErrInvalidZid, l.Digits)
		}
		pow = pow.mulSmall(62)
	}
	if pow.cmp(space) >= 0 {
		return fmt.Errorf("%w: %d digits over-cover %d bits (no carry needed)", ErrInvalidZid, l.Digits, bits)
	}
	if pow.mulSmall(2).cmp(space) < 0 {
		return fmt.Errorf("%w: %d digits under-cover %d bits (carry exceeds one bit)", ErrInvalidZid, l.Digits, bits)
	}

	units := totalResolutionUnits(l.Resolution)
	if space.hi == 0 && space.lo < units {
		return fmt.Errorf("%w: %d bits cannot cover %d %v units", ErrInvalidZid, bits, units, l.Resolution)
	}
	return nil
}

// Capacity reports derived sizing numbers for the layout, useful for
// documentation and sanity checks.
type Capacity struct {
	// ValuesPerUnit is the number of integer slots per resolution unit.
	ValuesPerUnit uint64

	// RandomBits is the entropy of the random tail, rounded down.
	RandomBits int

	// TotalUnits is the number of resolution units in the supported range.
	TotalUnits uint64

	// EncodedLen is the total text length including carry and separators.
	EncodedLen int
}

// Capacity computes the layout's derived numbers. Call Validate first; the
// results are meaningless for an inconsistent layout.
func (l Layout) Capacity() Capacity {
	units := totalResolutionUnits(l.Resolution)
	space := shiftLeft1(uint(8 * l.Bytes))
	perUnit, _ := space.divmodSmall(units)
	separators := (l.Digits - 1) / l.GroupSize
	return Capacity{
		ValuesPerUnit: perUnit.lo + 1,
		RandomBits:    bits.Len64(perUnit.lo+1) - 1,
		TotalUnits:    units,
		EncodedLen:    1 + l.Digits + separators,
	}
}

// String returns a human-readable description of the capacity.
func (c Capacity) String() string {
	return fmt.Sprintf("ValuesPerUnit: %d (~%d random bits), TotalUnits: %d, EncodedLen: %d",
		c.ValuesPerUnit, c.RandomBits, c.TotalUnits, c.EncodedLen)
}

// totalResolutionUnits returns the number of resolution-sized steps in the
// supported year 1..9999 range.
func totalResolutionUnits(res time.Duration) uint64 {
	totalSec := uint64(upperUnixSec - firstUnixSec)
	if res >= time.Second {
		return totalSec / uint64(res/time.Second)
	}
	return totalSec * uint64(time.Second/res)
}

// shiftLeft1 returns 2^n as a uint128, for n < 128.
func shiftLeft1(n uint) uint128 {
	if n < 64 {
		return uint128{lo: 1 << n}
	}
	return uint128{hi: 1 << (n - 64)}
}
