// Package zid - generator.go implements the generation policy: fresh Zids
// from the current instant plus secure randomness, with a process-local
// guarantee that no two Zids share an embedded microsecond.

package zid

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds runtime counters for monitoring the generator.
//
// All counters are monotonically increasing and thread-safe via atomic
// operations. Use GetMetrics() for a consistent snapshot.
type Metrics struct {
	Generated  int64 // Total Zids successfully generated
	ClockWaits int64 // Times the clock had not advanced past the previous instant
	WaitTimeUs int64 // Total time spent waiting for the clock (microseconds)
}

// Generator produces fresh Zids.
//
// # Uniqueness Policy
//
// The generator keeps the last instant it used. When a new Zid is
// requested, it samples the clock at microsecond granularity and, if the
// reading has not advanced past the previous one, retries with a minimal
// sleep until it has. Within one process no two generated Zids therefore
// share an embedded microsecond, even when the wall clock returns the same
// reading on consecutive queries. The random tail then makes equal-instant
// collisions across processes a pure ~2^-62 event.
//
// # Thread Safety
//
// The read-compare-advance of the last instant is a check-then-act
// sequence, so it runs under a mutex. The wait for the clock is bounded in
// practice: clock resolution is far finer than the retry interval.
type Generator struct {
	mu          sync.Mutex // Protects lastInstant
	lastInstant time.Time  // Last instant used, microsecond-truncated UTC

	// Counters use atomics so GetMetrics never contends with generation.
	generated  atomic.Int64
	clockWaits atomic.Int64
	waitTimeUs atomic.Int64
}

// NewGenerator creates a Generator with no previous instant.
//
// Most callers can use the package-level Generate functions, which share a
// single process-wide generator; separate Generator instances weaken the
// distinct-microsecond guarantee to per-instance.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate creates a fresh Zid for the current instant.
//
// Example:
//
//	gen := zid.NewGenerator()
//	id, err := gen.Generate()
func (g *Generator) Generate() (Zid, error) {
	return g.GenerateWithContext(context.Background())
}

// GenerateWithContext creates a fresh Zid, honoring context cancellation
// during the clock-advance wait.
//
// The wait is normally sub-microsecond; the context exists for callers with
// strict deadlines, not because generation can stall.
func (g *Generator) GenerateWithContext(ctx context.Context) (Zid, error) {
	now, err := g.nextInstant(ctx)
	if err != nil {
		return "", err
	}
	id, err := generateAt(now)
	if err != nil {
		return "", err
	}
	g.generated.Add(1)
	return id, nil
}

// GenerateAt creates a fresh Zid for an explicit instant.
//
// The instant is normalized to UTC and truncated to microsecond precision;
// it must fall within [0001-01-01T00:00:00Z, 10000-01-01T00:00:00Z) or a
// *TimeRangeError is returned. Explicit instants bypass the
// distinct-microsecond tracking: the caller owns ordering semantics.
func (g *Generator) GenerateAt(t time.Time) (Zid, error) {
	id, err := generateAt(t)
	if err != nil {
		return "", err
	}
	g.generated.Add(1)
	return id, nil
}

// MustGenerate generates a Zid and panics on error.
//
// Generation fails only on a broken system random source, so this is
// acceptable in initialization paths.
func (g *Generator) MustGenerate() Zid {
	id, err := g.Generate()
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateBatch generates count Zids in one critical section.
//
// Each Zid in the batch gets a strictly later embedded microsecond, so the
// batch is strictly increasing. On error (context cancellation, random
// source failure) the Zids generated so far are returned alongside the
// error.
//
// Example:
//
//	ids, err := gen.GenerateBatch(ctx, 1000)
func (g *Generator) GenerateBatch(ctx context.Context, count int) ([]Zid, error) {
	if count <= 0 {
		return []Zid{}, nil
	}
	ids := make([]Zid, 0, count)

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < count; i++ {
		if i%100 == 0 {
			select {
			case <-ctx.Done():
				return ids, ErrContextCanceled
			default:
			}
		}
		now, err := g.advanceLocked(ctx)
		if err != nil {
			return ids, err
		}
		id, err := generateAt(now)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}

	g.generated.Add(int64(len(ids)))
	return ids, nil
}

// GetMetrics returns a consistent snapshot of the generator's counters.
func (g *Generator) GetMetrics() Metrics {
	return Metrics{
		Generated:  g.generated.Load(),
		ClockWaits: g.clockWaits.Load(),
		WaitTimeUs: g.waitTimeUs.Load(),
	}
}

// ResetMetrics resets all counters to zero. Primarily useful for tests.
func (g *Generator) ResetMetrics() {
	g.generated.Store(0)
	g.clockWaits.Store(0)
	g.waitTimeUs.Store(0)
}

// nextInstant returns a microsecond-truncated UTC instant strictly later
// than any instant this generator has used before.
func (g *Generator) nextInstant(ctx context.Context) (time.Time, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.advanceLocked(ctx)
}

// advanceLocked implements the advance rule; the caller holds g.mu.
//
// The sampled reading must move strictly past the previous one. A clock
// standing still (or stepped backwards under the generator) is waited out
// with minimal sleeps; the wait ends as soon as the reading exceeds the
// stored instant, so it is bounded by clock resolution plus any backward
// step, never unbounded.
func (g *Generator) advanceLocked(ctx context.Context) (time.Time, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !g.lastInstant.IsZero() && !now.After(g.lastInstant) {
		g.clockWaits.Add(1)
		waitStart := time.Now()
		for !now.After(g.lastInstant) {
			select {
			case <-ctx.Done():
				return time.Time{}, ErrContextCanceled
			default:
			}
			time.Sleep(time.Microsecond)
			now = time.Now().UTC().Truncate(time.Microsecond)
		}
		g.waitTimeUs.Add(time.Since(waitStart).Microseconds())
	}
	g.lastInstant = now
	return now, nil
}

// generateAt builds the Zid for one instant: embed the microsecond count,
// fill the low-order slot range with secure randomness, clamp at the
// ceiling.
func generateAt(t time.Time) (Zid, error) {
	t = t.UTC()
	if t.Before(firstDate) || !t.Before(upperDate) {
		return "", &TimeRangeError{Time: t}
	}

	sec := uint64(t.Unix() - firstUnixSec)
	micros := sec*1_000_000 + uint64(t.Nanosecond()/1000)
	base := mul64(micros, valuesPerMicro)

	// The microsecond's slot range is [base, base+valuesPerMicro), except
	// near year 9999 where it truncates at 2^120. Clamp the random bound so
	// the value never exceeds the representable maximum.
	bound := valuesPerMicro
	headroom := shiftLeft1(120).sub(base)
	if headroom.hi == 0 && headroom.lo < bound {
		bound = headroom.lo
	}

	offset, err := randUint64n(bound)
	if err != nil {
		return "", err
	}
	return Zid(encodeBytes(base.addSmall(offset).bytes())), nil
}

// randUint64n returns a uniform random value in [0, n) from the
// cryptographically secure source. n must be positive.
//
// Uses rejection sampling on raw 8-byte reads to avoid modulo bias; the
// rejection probability is below 2^-60 for the bounds this package uses, so
// the loop effectively runs once.
func randUint64n(n uint64) (uint64, error) {
	if n <= 1 {
		return 0, nil
	}
	// Largest multiple of n that fits in a uint64; values at or above it
	// would bias the low residues.
	limit := ^uint64(0) - ^uint64(0)%n
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, err
		}
		x := binary.BigEndian.Uint64(buf[:])
		if x < limit {
			return x % n, nil
		}
	}
}

// Default process-wide generator backing the package-level functions.
//
// A single shared generator is what makes the distinct-microsecond
// guarantee process-wide rather than per-instance.
var defaultGenerator Generator

// Generate creates a fresh Zid using the process-wide generator.
//
// Example:
//
//	id, err := zid.Generate()
//	fmt.Println(id) // e.g. ZNhSrB3_WgYPlqV_8yXTnIC
func Generate() (Zid, error) {
	return defaultGenerator.Generate()
}

// GenerateWithContext creates a fresh Zid using the process-wide generator,
// honoring context cancellation.
func GenerateWithContext(ctx context.Context) (Zid, error) {
	return defaultGenerator.GenerateWithContext(ctx)
}

// GenerateAt creates a Zid for an explicit UTC-normalized instant using the
// process-wide generator.
func GenerateAt(t time.Time) (Zid, error) {
	return defaultGenerator.GenerateAt(t)
}

// MustGenerate generates a Zid using the process-wide generator and panics
// on error.
func MustGenerate() Zid {
	return defaultGenerator.MustGenerate()
}

// GetDefaultMetrics returns metrics from the process-wide generator.
func GetDefaultMetrics() Metrics {
	return defaultGenerator.GetMetrics()
}
