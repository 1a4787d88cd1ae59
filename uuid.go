// Package zid - uuid.go expresses a Zid as a standard version-8 UUID and
// back, for systems that expect UUID-shaped identifiers.
//
// # Mapping
//
// RFC 9562 reserves two nibbles of a UUID: the version (hex digit 12) and
// the top of the variant field (hex digit 16). Version 8 is the
// "vendor-specific" format, so a Zid's 120-bit integer maps onto a UUID by
// writing its 30 hex digits around those two positions, both fixed to '8'
// (version 8, variant 10xx):
//
//	Zid hex:  dddddddddddd ddd ddddddddddddddd   (30 digits)
//	UUID hex: dddddddddddd 8 ddd 8 ddddddddddddddd (32 digits)
//
// Parsing reverses the splice after checking both fixed nibbles, so a UUID
// that was not produced from a Zid is rejected rather than misread.

package zid

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// UUID returns the version-8 UUID view of the Zid.
//
// The mapping is bijective: FromUUID(z.UUID()) == z for every valid Zid.
// Returns uuid.Nil if the Zid is not valid.
//
// Example:
//
//	id, _ := zid.Generate()
//	u := id.UUID()          // e.g. 33dcb3f8-53f6-85e6-80cb-1b5de69c4954
//	u.Version()             // 8
func (z Zid) UUID() uuid.UUID {
	v, err := decodeText(string(z))
	if err != nil {
		return uuid.Nil
	}
	b := v.bytes()

	var raw [30]byte
	hex.Encode(raw[:], b[:])

	var spliced [32]byte
	copy(spliced[:12], raw[:12])
	spliced[12] = '8'
	copy(spliced[13:16], raw[12:15])
	spliced[16] = '8'
	copy(spliced[17:], raw[15:])

	var u uuid.UUID
	hex.Decode(u[:], spliced[:]) // 32 hex digits from our own alphabet cannot fail
	return u
}

// FromUUID loads a Zid from its version-8 UUID representation.
//
// Both fixed nibbles (version at hex position 12, variant at hex position
// 16) must equal 8; otherwise a *UUIDError wrapping ErrInvalidUUID is
// returned. The remaining 30 hex digits are the 15-byte binary form.
func FromUUID(u uuid.UUID) (Zid, error) {
	if u[6]>>4 != 0x8 || u[8]>>4 != 0x8 {
		return "", &UUIDError{UUID: u}
	}

	var raw [32]byte
	hex.Encode(raw[:], u[:])

	var stripped [30]byte
	copy(stripped[:12], raw[:12])
	copy(stripped[12:15], raw[13:16])
	copy(stripped[15:], raw[17:])

	var b [BinaryLen]byte
	hex.Decode(b[:], stripped[:])
	return FromBytes(b[:])
}
