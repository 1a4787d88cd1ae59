// Package zid - uint128.go provides the two-word unsigned arithmetic the
// codec needs for its 120-bit values.
//
// A Zid's binary form is a 15-byte (120-bit) big-endian integer, which does
// not fit in a uint64. Rather than paying math/big's per-operation
// allocations, the codec uses a fixed-size two-word representation and the
// math/bits intrinsics. Only the operations the codec actually performs are
// implemented: multiply/divide by small constants (62, valuesPerMicro),
// addition of a small offset, subtraction, and comparison.

package zid

import "math/bits"

// uint128 is an unsigned 128-bit integer as two 64-bit words.
//
// Zid values occupy only the low 120 bits (hi < 2^56); the headroom above
// that is used transiently while decoding text, where the carry digit can
// push intermediate values slightly past 2^120.
type uint128 struct {
	hi uint64
	lo uint64
}

// u128FromBytes interprets 15 big-endian bytes as a 120-bit integer.
func u128FromBytes(b [15]byte) uint128 {
	hi := uint64(b[0])<<48 | uint64(b[1])<<40 | uint64(b[2])<<32 |
		uint64(b[3])<<24 | uint64(b[4])<<16 | uint64(b[5])<<8 | uint64(b[6])
	lo := uint64(b[7])<<56 | uint64(b[8])<<48 | uint64(b[9])<<40 |
		uint64(b[10])<<32 | uint64(b[11])<<24 | uint64(b[12])<<16 |
		uint64(b[13])<<8 | uint64(b[14])
	return uint128{hi: hi, lo: lo}
}

// bytes serializes the low 120 bits as 15 big-endian bytes.
func (v uint128) bytes() [15]byte {
	var b [15]byte
	b[0] = byte(v.hi >> 48)
	b[1] = byte(v.hi >> 40)
	b[2] = byte(v.hi >> 32)
	b[3] = byte(v.hi >> 24)
	b[4] = byte(v.hi >> 16)
	b[5] = byte(v.hi >> 8)
	b[6] = byte(v.hi)
	b[7] = byte(v.lo >> 56)
	b[8] = byte(v.lo >> 48)
	b[9] = byte(v.lo >> 40)
	b[10] = byte(v.lo >> 32)
	b[11] = byte(v.lo >> 24)
	b[12] = byte(v.lo >> 16)
	b[13] = byte(v.lo >> 8)
	b[14] = byte(v.lo)
	return b
}

// mul64 returns x*y as a full 128-bit product.
func mul64(x, y uint64) uint128 {
	hi, lo := bits.Mul64(x, y)
	return uint128{hi: hi, lo: lo}
}

// mulSmall returns v*m. The caller guarantees the product fits in 128 bits;
// for the codec the largest case is a decoded text value times 62, which
// stays below 2^121.
func (v uint128) mulSmall(m uint64) uint128 {
	hi, lo := bits.Mul64(v.lo, m)
	return uint128{hi: v.hi*m + hi, lo: lo}
}

// addSmall returns v+d with carry into the high word.
func (v uint128) addSmall(d uint64) uint128 {
	lo, carry := bits.Add64(v.lo, d, 0)
	return uint128{hi: v.hi + carry, lo: lo}
}

// sub returns v-o. The caller guarantees v >= o.
func (v uint128) sub(o uint128) uint128 {
	lo, borrow := bits.Sub64(v.lo, o.lo, 0)
	hi, _ := bits.Sub64(v.hi, o.hi, borrow)
	return uint128{hi: hi, lo: lo}
}

// divmodSmall returns (v/d, v%d) for a divisor that exceeds the high word.
//
// bits.Div64 requires the running remainder to stay below the divisor, which
// holds for both codec divisors: 62 (after the per-word pre-division) and
// valuesPerMicro (~2^61.9, always above the 56-bit high word of a Zid).
func (v uint128) divmodSmall(d uint64) (uint128, uint64) {
	qhi := v.hi / d
	rem := v.hi % d
	qlo, rem := bits.Div64(rem, v.lo, d)
	return uint128{hi: qhi, lo: qlo}, rem
}

// cmp returns -1, 0 or 1 comparing v against o.
func (v uint128) cmp(o uint128) int {
	switch {
	case v.hi != o.hi:
		if v.hi < o.hi {
			return -1
		}
		return 1
	case v.lo != o.lo:
		if v.lo < o.lo {
			return -1
		}
		return 1
	default:
		return 0
	}
}
