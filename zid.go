// Package zid provides compact, chronologically-sortable, unguessable
// string identifiers.
//
// # Overview
//
// A Zid is a 23-character string that embeds a microsecond timestamp and a
// cryptographically random tail:
//
//	ZNhSrB3_WgYPlqV_8yXTnIC
//
// Zids are:
//   - Sortable by time: lexicographic order == numeric order == chronological order
//   - Unguessable: ~62 bits of CSPRNG randomness per microsecond slot
//   - Reversible: to a 15-byte binary form, to the embedded UTC timestamp,
//     and to a version-8 UUID
//   - Collision-free within a process: no two Zids generated by the same
//     process share an embedded microsecond
//
// # Representations
//
// Every Zid has three equivalent representations that always agree:
//   - Text: 23 chars, a carry symbol from {Z, z} followed by 20 base-62
//     digits in groups of 7/7/6 separated by underscores
//   - Binary: 15 bytes, big-endian unsigned integer
//   - UUID: the same integer spliced into a version-8 UUID
//
// The timestamp occupies the integer's high-order portion (value divided by
// a fixed values-per-microsecond constant), the random tail the remainder,
// so ordering by value is ordering by time down to the microsecond.
//
// # Usage
//
//	id, err := zid.Generate()
//	fmt.Println(id)           // ZNhSrB3_WgYPlqV_8yXTnIC
//	fmt.Println(id.Time())    // embedded UTC timestamp
//	fmt.Println(id.UUID())    // version-8 UUID view
//
//	parsed, err := zid.Parse("ZNhSrB3_WgYPlqV_8yXTnIC")
package zid

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Zid is a chronologically-ordered unique identifier.
//
// The underlying value is the canonical 23-character text form; a Zid is
// immutable, comparable with ==, and ordered by < consistently with the
// chronological order of its embedded timestamp. Construct one with
// Generate, Parse, FromBytes or FromUUID; the zero value "" is not valid.
//
// # Interface Implementations
//
//   - fmt.Stringer
//   - encoding.TextMarshaler/TextUnmarshaler (covers JSON, XML, YAML)
//   - encoding.BinaryMarshaler/BinaryUnmarshaler (15-byte form)
//   - sql.Scanner/driver.Valuer (TEXT columns; ORDER BY is time order)
type Zid string

// Parse parses the canonical 23-character text form.
//
// The input must match the fixed schema (length, carry symbol, separator
// positions, base-62 alphabet) and must not sort after the maximum
// representable value. Failures return a *ParseError wrapping ErrInvalidZid
// or ErrValueOutOfRange.
//
// Example:
//
//	id, err := zid.Parse("ZNhSrB3_WgYPlqV_8yXTnIC")
func Parse(s string) (Zid, error) {
	if _, err := decodeText(s); err != nil {
		return "", err
	}
	return Zid(s), nil
}

// MustParse parses the text form and panics on error.
//
// Use for literals in tests and initialization code only.
func MustParse(s string) Zid {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseShort parses the 21-character separator-free short form.
//
// The short form is a convenience alias, not a distinct representation: the
// separator positions are reconstructed and the standard decoder applied.
func ParseShort(s string) (Zid, error) {
	full, err := expandShort(s)
	if err != nil {
		return "", err
	}
	return Parse(full)
}

// ParseValue parses a Zid from an arbitrary value coerced to its string
// form.
//
// Zid values pass through unchanged; strings and byte slices are parsed
// directly; anything else is rendered with fmt.Sprint first. This mirrors
// how loosely-typed inputs (template data, generic decoders) hand values
// around.
func ParseValue(v any) (Zid, error) {
	switch x := v.(type) {
	case Zid:
		return x, nil
	case string:
		return Parse(x)
	case []byte:
		return Parse(string(x))
	case fmt.Stringer:
		return Parse(x.String())
	default:
		return Parse(fmt.Sprint(v))
	}
}

// FromBytes loads a Zid from its 15-byte binary form.
//
// Every 15-byte sequence is a valid Zid; other lengths return a
// *ParseError wrapping ErrInvalidZid.
func FromBytes(b []byte) (Zid, error) {
	if len(b) != BinaryLen {
		return "", newParseError(fmt.Sprintf("% x", b), fmt.Sprintf("expected %d bytes, got %d", BinaryLen, len(b)))
	}
	var fixed [BinaryLen]byte
	copy(fixed[:], b)
	return Zid(encodeBytes(fixed)), nil
}

// IsValid reports whether s is a well-formed, in-range canonical text form.
func IsValid(s string) bool {
	_, err := decodeText(s)
	return err == nil
}

// String returns the canonical text form. Implements fmt.Stringer.
func (z Zid) String() string {
	return string(z)
}

// Short returns the 21-character separator-free form.
//
// Returns "" if the Zid is not valid.
func (z Zid) Short() string {
	if !IsValid(string(z)) {
		return ""
	}
	return stripSeparators(string(z))
}

// Bytes returns the 15-byte big-endian binary form.
//
// Returns the zero array if the Zid is not valid.
func (z Zid) Bytes() [BinaryLen]byte {
	v, err := decodeText(string(z))
	if err != nil {
		return [BinaryLen]byte{}
	}
	return v.bytes()
}

// Time returns the embedded timestamp as a UTC time.Time with microsecond
// precision.
//
// The timestamp is the integer value divided by the values-per-microsecond
// constant, counted from 0001-01-01T00:00:00Z. Returns the zero time if the
// Zid is not valid.
//
// Example:
//
//	id, _ := zid.Generate()
//	age := time.Since(id.Time())
func (z Zid) Time() time.Time {
	v, err := decodeText(string(z))
	if err != nil {
		return time.Time{}
	}
	micros, _ := v.divmodSmall(valuesPerMicro)
	sec := micros.lo / 1_000_000
	usec := micros.lo % 1_000_000
	return time.Unix(firstUnixSec+int64(sec), int64(usec)*1000).UTC()
}

// Before reports whether z was generated before other.
//
// Zid text order is chronological order, so this is a plain string
// comparison.
func (z Zid) Before(other Zid) bool {
	return z < other
}

// After reports whether z was generated after other.
func (z Zid) After(other Zid) bool {
	return z > other
}

// Equal reports whether two Zids are identical.
func (z Zid) Equal(other Zid) bool {
	return z == other
}

// Compare returns -1, 0 or 1 ordering z against other.
//
// The ordering is the natural string order of the text form, which is
// guaranteed consistent with numeric and chronological order.
func (z Zid) Compare(other Zid) int {
	return strings.Compare(string(z), string(other))
}

// MarshalText implements encoding.TextMarshaler.
//
// JSON, XML, YAML and TOML encoders all pick this up, so a Zid struct field
// marshals as its text form with no extra tags.
func (z Zid) MarshalText() ([]byte, error) {
	return []byte(z), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, validating the input.
func (z *Zid) UnmarshalText(text []byte) error {
	id, err := Parse(string(text))
	if err != nil {
		return err
	}
	*z = id
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler, returning the 15-byte
// form.
func (z Zid) MarshalBinary() ([]byte, error) {
	v, err := decodeText(string(z))
	if err != nil {
		return nil, err
	}
	b := v.bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, parsing the
// 15-byte form.
func (z *Zid) UnmarshalBinary(data []byte) error {
	id, err := FromBytes(data)
	if err != nil {
		return err
	}
	*z = id
	return nil
}

// Scan implements sql.Scanner for reading from database columns.
//
// Supported column types:
//   - string / []byte: canonical text form from TEXT/VARCHAR columns
//   - nil: leaves the zero Zid
//
// Example:
//
//	var id zid.Zid
//	err := db.QueryRow("SELECT id FROM events WHERE ...").Scan(&id)
func (z *Zid) Scan(value any) error {
	if value == nil {
		*z = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		id, err := Parse(v)
		if err != nil {
			return err
		}
		*z = id
	case []byte:
		id, err := Parse(string(v))
		if err != nil {
			return err
		}
		*z = id
	default:
		return fmt.Errorf("cannot scan %T into Zid", value)
	}
	return nil
}

// Value implements driver.Valuer for writing to database columns.
//
// Stores the text form; a TEXT primary key then sorts chronologically.
func (z Zid) Value() (driver.Value, error) {
	return string(z), nil
}
