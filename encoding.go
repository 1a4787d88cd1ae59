// Package zid - encoding.go implements the bijection between the 15-byte
// binary form and the 23-character text form.
//
// # Text Schema
//
// A Zid's text form is exactly 23 characters:
//
//	c dddddd _ ddddddd _ ddddddd
//
// where c is a carry digit from the 2-symbol alphabet {Z, z}, each d is a
// digit from the 62-symbol alphabet (digits, then uppercase, then lowercase,
// i.e. ASCII-sorted), and the two underscores sit at fixed byte offsets 7
// and 15. The separators carry no value; they exist for readability and are
// validated but skipped on decode.
//
// The carry digit exists because 62^20 < 2^120 <= 2*62^20: twenty base-62
// digits cannot cover the full 120-bit space, so one extra most-significant
// digit with its own tiny alphabet extends the range. Both alphabets are
// ASCII-sorted ('Z' < 'z', '0' < ... < '9' < 'A' < ... < 'z'), which makes
// lexicographic order of the text form identical to numeric order of the
// binary form.
//
// # Thread Safety
//
// The decode lookup table is built once at package init time and is
// read-only afterwards, making all functions here safe for concurrent use.

package zid

const (
	// alphabet is the sorted concatenation of digits, uppercase and
	// lowercase letters. Character order matches digit value order, which is
	// what keeps string order aligned with numeric order.
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// carryAlphabet encodes the single most-significant overflow digit.
	carryAlphabet = "Zz"

	// separator is the readability character inserted between digit groups.
	separator = '_'
)

const (
	// EncodedLen is the fixed length of a Zid's text form.
	EncodedLen = 23

	// ShortLen is the length of the separator-free short form.
	ShortLen = 21

	// BinaryLen is the fixed width of a Zid's binary form in bytes.
	BinaryLen = 15

	// digitCount is the number of base-62 digit positions (carry excluded).
	digitCount = 20

	// groupSize is the number of digits between separators.
	groupSize = 7

	// sepPos1 and sepPos2 are the fixed byte offsets of the separators
	// within the 23-character text form.
	sepPos1 = 7
	sepPos2 = 15
)

// maxText is the encoding of the maximum binary value (0xFF repeated 15
// times). Any well-formed string sorting after this literal is out of range.
// The init self-check below re-derives it from the encoder and halts on
// mismatch, catching silent off-by-one errors in the digit math.
const maxText = "zszWVIy_ZES2MJo_AMUmjwV"

// minText is the encoding of the all-zero binary value.
const minText = "Z000000_0000000_0000000"

// decodeMap provides O(1) character-to-value lookups for the 62-symbol
// alphabet. Invalid characters are marked with 0xFF.
var decodeMap [256]byte

// init builds the decode table and asserts the encoder's self-consistency.
//
// The maxText assertion is a startup-time fatal check: a mismatch means the
// encoding arithmetic itself is broken, which is a bug, not a runtime
// condition, so initialization must halt rather than let every later call
// misbehave.
func init() {
	for i := range decodeMap {
		decodeMap[i] = 0xFF
	}
	for i := 0; i < len(alphabet); i++ {
		decodeMap[alphabet[i]] = byte(i)
	}

	var allOnes [BinaryLen]byte
	for i := range allOnes {
		allOnes[i] = 0xFF
	}
	if got := encodeBytes(allOnes); got != maxText {
		panic("zid: encoder self-check failed: encode(0xFF x 15) = " + got + ", want " + maxText)
	}
	if got := encodeBytes([BinaryLen]byte{}); got != minText {
		panic("zid: encoder self-check failed: encode(0x00 x 15) = " + got + ", want " + minText)
	}
	if valuesPerMicro != derivedValuesPerMicro() {
		panic("zid: valuesPerMicro constant does not match its derivation")
	}
}

// encodeBytes converts the 15-byte binary form to the 23-character text
// form.
//
// The bytes are read as a single big-endian integer which is divided by 62
// for each of the 20 digit positions, least-significant first, with a
// separator emitted after every 7th digit. What remains after the final
// division is the carry (0 or 1), encoded from its own alphabet and placed
// in front. The buffer is then reversed so the most-significant digit leads
// and string order matches numeric order.
//
// Performance: 20 iterations of 128/64 division, single stack buffer, one
// string allocation.
func encodeBytes(b [BinaryLen]byte) string {
	v := u128FromBytes(b)

	var buf [EncodedLen]byte
	pos := 0
	for i := 0; i < digitCount; i++ {
		var r uint64
		v, r = v.divmodSmall(62)
		buf[pos] = alphabet[r]
		pos++
		if i%groupSize == groupSize-1 {
			buf[pos] = separator
			pos++
		}
	}
	buf[pos] = carryAlphabet[v.lo] // v is now 0 or 1

	for i, j := 0, EncodedLen-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf[:])
}

// validateText checks the fixed schema of a candidate text form: length,
// carry symbol, separator positions and digit alphabet. It does not check
// the value range; decodeText does that after accumulating the integer.
func validateText(s string) error {
	if len(s) != EncodedLen {
		return newParseError(s, "wrong length")
	}
	if s[0] != 'Z' && s[0] != 'z' {
		return newParseError(s, "carry symbol must be 'Z' or 'z'")
	}
	if s[sepPos1] != separator || s[sepPos2] != separator {
		return newParseError(s, "separators must be '_' at positions 7 and 15")
	}
	for i := 1; i < EncodedLen; i++ {
		if i == sepPos1 || i == sepPos2 {
			continue
		}
		if decodeMap[s[i]] == 0xFF {
			return newParseError(s, "character outside the base-62 alphabet")
		}
	}
	return nil
}

// decodeText converts a text form back to its 120-bit integer, validating
// schema and range. The carry symbol seeds the accumulator, each subsequent
// digit multiplies by 62 and adds, and separators are skipped.
func decodeText(s string) (uint128, error) {
	if err := validateText(s); err != nil {
		return uint128{}, err
	}

	var v uint128
	if s[0] == 'z' {
		v.lo = 1
	}
	for i := 1; i < EncodedLen; i++ {
		if i == sepPos1 || i == sepPos2 {
			continue
		}
		v = v.mulSmall(62).addSmall(uint64(decodeMap[s[i]]))
	}

	// Well-formed 23-char strings can encode up to 2*62^20-1, slightly past
	// the 120-bit ceiling. Anything above it sorts after maxText and is
	// rejected, never clamped.
	if v.hi>>56 != 0 {
		return uint128{}, newRangeError(s)
	}
	return v, nil
}

// expandShort reconstructs the canonical 23-character form from the
// 21-character separator-free short form.
func expandShort(s string) (string, error) {
	if len(s) != ShortLen {
		return "", newParseError(s, "wrong length for short form")
	}
	var buf [EncodedLen]byte
	copy(buf[:sepPos1], s[:sepPos1])
	buf[sepPos1] = separator
	copy(buf[sepPos1+1:sepPos2], s[sepPos1:sepPos2-1])
	buf[sepPos2] = separator
	copy(buf[sepPos2+1:], s[sepPos2-1:])
	return string(buf[:]), nil
}

// stripSeparators returns the 21-character short form of a canonical text
// form. The input must already be canonical.
func stripSeparators(s string) string {
	var buf [ShortLen]byte
	copy(buf[:sepPos1], s[:sepPos1])
	copy(buf[sepPos1:sepPos2-1], s[sepPos1+1:sepPos2])
	copy(buf[sepPos2-1:], s[sepPos2+1:])
	return string(buf[:])
}
