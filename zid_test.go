package zid

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// TestParseRoundTrip checks text -> Zid -> bytes -> Zid -> text across the
// known vectors.
func TestParseRoundTrip(t *testing.T) {
	for _, tt := range codecVectors {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.text, err)
			}
			b := id.Bytes()
			if got := hex.EncodeToString(b[:]); got != tt.hex {
				t.Errorf("Bytes() = %s, want %s", got, tt.hex)
			}
			back, err := FromBytes(b[:])
			if err != nil {
				t.Fatalf("FromBytes() error = %v", err)
			}
			if back != id {
				t.Errorf("FromBytes(Bytes()) = %q, want %q", back, id)
			}
		})
	}
}

// TestFromBytesLength checks the binary form width is enforced.
func TestFromBytesLength(t *testing.T) {
	for _, n := range []int{0, 1, 14, 16, 32} {
		if _, err := FromBytes(make([]byte, n)); !errors.Is(err, ErrInvalidZid) {
			t.Errorf("FromBytes(%d bytes) error = %v, want ErrInvalidZid", n, err)
		}
	}
}

// TestZidTime checks timestamp extraction against known vectors.
func TestZidTime(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
	}{
		{"Z000000_0000000_0000000", time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"Z000000_0000000_0000001", time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"Z0SYW7R_iJxkEgO_GusQGwp", time.Date(40, time.May, 13, 23, 8, 2, 823529000, time.UTC)},
		{"Zw2QXS3_tG860tq_FnQPdGC", time.Date(4961, time.June, 10, 15, 28, 7, 499999000, time.UTC)},
		{"zdlOXLC_1W0Wmtk_d69ppzq", time.Date(8698, time.July, 8, 1, 47, 43, 290049000, time.UTC)},
	}
	for _, tt := range tests {
		got := MustParse(tt.text).Time()
		if !got.Equal(tt.want) {
			t.Errorf("Time(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

// TestZidComparisons checks Before/After/Equal/Compare agree with string,
// byte and chronological order.
func TestZidComparisons(t *testing.T) {
	older := MustParse("Z0SYW7R_iJxkEgO_GusQGwp")
	newer := MustParse("zdlOXLC_1W0Wmtk_d69ppzq")

	if !older.Before(newer) || newer.Before(older) {
		t.Error("Before() disagrees with expected order")
	}
	if !newer.After(older) || older.After(newer) {
		t.Error("After() disagrees with expected order")
	}
	if !older.Equal(older) || older.Equal(newer) {
		t.Error("Equal() broken")
	}
	if older.Compare(newer) != -1 || newer.Compare(older) != 1 || older.Compare(older) != 0 {
		t.Error("Compare() disagrees with expected order")
	}

	ob, nb := older.Bytes(), newer.Bytes()
	if bytes.Compare(ob[:], nb[:]) != -1 {
		t.Error("byte order disagrees with text order")
	}
	if !older.Time().Before(newer.Time()) {
		t.Error("chronological order disagrees with text order")
	}
}

// TestZidShort checks the short accessor and ParseShort alias.
func TestZidShort(t *testing.T) {
	id := MustParse("Z0SYW7R_iJxkEgO_GusQGwp")
	short := id.Short()
	if short != "Z0SYW7RiJxkEgOGusQGwp" {
		t.Fatalf("Short() = %q", short)
	}
	back, err := ParseShort(short)
	if err != nil {
		t.Fatalf("ParseShort(%q) error = %v", short, err)
	}
	if back != id {
		t.Errorf("ParseShort(Short()) = %q, want %q", back, id)
	}

	if _, err := ParseShort("Z0SYW7R_iJxkEgO_GusQGwp"); err == nil {
		t.Error("ParseShort accepted the canonical 23-char form")
	}
}

// TestParseValue checks generic-value coercion.
func TestParseValue(t *testing.T) {
	id := MustParse("Z0SYW7R_iJxkEgO_GusQGwp")

	if got, err := ParseValue(id); err != nil || got != id {
		t.Errorf("ParseValue(Zid) = %q, %v", got, err)
	}
	if got, err := ParseValue(string(id)); err != nil || got != id {
		t.Errorf("ParseValue(string) = %q, %v", got, err)
	}
	if got, err := ParseValue([]byte(id)); err != nil || got != id {
		t.Errorf("ParseValue([]byte) = %q, %v", got, err)
	}
	if _, err := ParseValue(12345); !errors.Is(err, ErrInvalidZid) {
		t.Errorf("ParseValue(int) error = %v, want ErrInvalidZid", err)
	}
	if _, err := ParseValue(nil); err == nil {
		t.Error("ParseValue(nil) succeeded")
	}
}

// TestMustParsePanics checks the panic variant rejects bad input loudly.
func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic on invalid input")
		}
	}()
	MustParse("not a zid")
}

// TestZidJSON checks JSON marshaling via the text interfaces.
func TestZidJSON(t *testing.T) {
	type Event struct {
		ID   Zid    `json:"id"`
		Name string `json:"name"`
	}

	id := MustGenerate()
	data, err := json.Marshal(Event{ID: id, Name: "test"})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded.ID != id {
		t.Errorf("JSON round-trip: got %q, want %q", decoded.ID, id)
	}

	// A malformed id in the payload must fail to unmarshal, not coerce.
	var bad Event
	if err := json.Unmarshal([]byte(`{"id":"garbage","name":"x"}`), &bad); err == nil {
		t.Error("unmarshal of malformed id succeeded")
	}
}

// TestZidBinaryMarshal checks the 15-byte binary marshalers.
func TestZidBinaryMarshal(t *testing.T) {
	id := MustGenerate()
	data, err := id.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(data) != BinaryLen {
		t.Fatalf("MarshalBinary() length = %d, want %d", len(data), BinaryLen)
	}
	var back Zid
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if back != id {
		t.Errorf("binary round-trip: got %q, want %q", back, id)
	}

	if err := back.UnmarshalBinary(data[:14]); err == nil {
		t.Error("UnmarshalBinary accepted 14 bytes")
	}
}

// TestZidSQL checks sql.Scanner / driver.Valuer behavior.
func TestZidSQL(t *testing.T) {
	id := MustGenerate()

	v, err := id.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != string(id) {
		t.Errorf("Value() = %v, want %q", v, id)
	}

	var fromString Zid
	if err := fromString.Scan(string(id)); err != nil || fromString != id {
		t.Errorf("Scan(string) = %q, %v", fromString, err)
	}
	var fromBytes Zid
	if err := fromBytes.Scan([]byte(id)); err != nil || fromBytes != id {
		t.Errorf("Scan([]byte) = %q, %v", fromBytes, err)
	}
	var fromNil Zid
	if err := fromNil.Scan(nil); err != nil || fromNil != "" {
		t.Errorf("Scan(nil) = %q, %v", fromNil, err)
	}
	var fromInt Zid
	if err := fromInt.Scan(int64(7)); err == nil {
		t.Error("Scan(int64) succeeded")
	}
	var fromGarbage Zid
	if err := fromGarbage.Scan("garbage"); err == nil {
		t.Error("Scan of malformed text succeeded")
	}
}

// TestIsValid spot-checks the validity predicate.
func TestIsValid(t *testing.T) {
	if !IsValid(maxText) || !IsValid(minText) {
		t.Error("IsValid rejected the range bounds")
	}
	for _, s := range []string{"", "garbage", "zzzzzzz_zzzzzzz_zzzzzzz"} {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true", s)
		}
	}
}

// TestInvalidZidAccessors checks accessors degrade to zero values rather
// than returning garbage for a malformed Zid.
func TestInvalidZidAccessors(t *testing.T) {
	var z Zid
	if z.Bytes() != [BinaryLen]byte{} {
		t.Error("Bytes() of zero Zid not zero")
	}
	if !z.Time().IsZero() {
		t.Error("Time() of zero Zid not zero")
	}
	if z.Short() != "" {
		t.Error("Short() of zero Zid not empty")
	}
}
