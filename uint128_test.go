package zid

import (
	"encoding/hex"
	"testing"
)

func u128FromHex(t *testing.T, s string) uint128 {
	t.Helper()
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != BinaryLen {
		t.Fatalf("bad hex fixture %q", s)
	}
	var b [BinaryLen]byte
	copy(b[:], raw)
	return u128FromBytes(b)
}

func TestUint128BytesRoundTrip(t *testing.T) {
	for _, s := range []string{
		"000000000000000000000000000000",
		"000000000000000000000000000001",
		"ffffffffffffffffffffffffffffff",
		"0102030405060708090a0b0c0d0e0f",
		"ffffffffffffffc92b5602a18e416f",
	} {
		v := u128FromHex(t, s)
		b := v.bytes()
		if got := hex.EncodeToString(b[:]); got != s {
			t.Errorf("round trip %s -> %s", s, got)
		}
	}
}

func TestUint128Mul64(t *testing.T) {
	// The last microsecond's slot base, cross-checked against the codec.
	got := mul64(totalMicros-1, valuesPerMicro)
	want := u128FromHex(t, "ffffffffffffffc92b5602a18e416f")
	if got != want {
		t.Errorf("mul64 = %+v, want %+v", got, want)
	}

	if v := mul64(0, valuesPerMicro); v != (uint128{}) {
		t.Errorf("mul64(0, n) = %+v", v)
	}
	if v := mul64(1, valuesPerMicro); v != (uint128{lo: valuesPerMicro}) {
		t.Errorf("mul64(1, n) = %+v", v)
	}
}

func TestUint128DivmodSmall(t *testing.T) {
	v := mul64(123456789, valuesPerMicro).addSmall(987654321)
	q, r := v.divmodSmall(valuesPerMicro)
	if q.hi != 0 || q.lo != 123456789 {
		t.Errorf("quotient = %+v, want 123456789", q)
	}
	if r != 987654321 {
		t.Errorf("remainder = %d, want 987654321", r)
	}

	// Divide-by-62 chain reconstructs digits of a known value.
	v = uint128{lo: 62*62*5 + 62*3 + 7}
	digits := []uint64{7, 3, 5}
	for _, want := range digits {
		var r uint64
		v, r = v.divmodSmall(62)
		if r != want {
			t.Fatalf("digit = %d, want %d", r, want)
		}
	}
	if v != (uint128{}) {
		t.Errorf("leftover quotient %+v", v)
	}
}

func TestUint128AddSub(t *testing.T) {
	max := u128FromHex(t, "ffffffffffffffffffffffffffffff")
	ceiling := shiftLeft1(120)

	if got := max.addSmall(1); got != ceiling {
		t.Errorf("max+1 = %+v, want 2^120", got)
	}
	if got := ceiling.sub(max); got != (uint128{lo: 1}) {
		t.Errorf("2^120 - max = %+v, want 1", got)
	}

	// Carry across the 64-bit word boundary.
	v := uint128{lo: ^uint64(0)}
	if got := v.addSmall(1); got != (uint128{hi: 1}) {
		t.Errorf("2^64-1 + 1 = %+v", got)
	}
	if got := (uint128{hi: 1}).sub(uint128{lo: 1}); got != (uint128{lo: ^uint64(0)}) {
		t.Errorf("2^64 - 1 = %+v", got)
	}
}

func TestUint128Cmp(t *testing.T) {
	a := uint128{lo: 5}
	b := uint128{hi: 1}
	if a.cmp(b) >= 0 || b.cmp(a) <= 0 || a.cmp(a) != 0 {
		t.Error("cmp ordering broken across word boundary")
	}
}
