package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sv(prn uint) SV { return SV{Constellation: GPS, PRN: prn} }

func TestLockTracker_FirstSighting(t *testing.T) {
	tracker := NewLockTracker(Standard)
	epoch := GPSTimeToEpoch(300_000, 2334)
	lli := tracker.Observe(sv(5), "1C", epoch, 100, 0)
	assert.Equal(t, OKOrUnknown, lli)
}

// Seed scenario 2: two consecutive epochs 1000ms apart, same DF407=100 both
// times. Standard mode treats this as a lock loss (p == n, a == 4, delta
// >= a); simplified mode does not, since the indicator never decreased.
func TestLockTracker_SameIndicatorOverTime(t *testing.T) {
	standard := NewLockTracker(Standard)
	simplified := NewLockTracker(RtklibSimplified)

	first := GPSTimeToEpoch(300_000, 2334)
	second := GPSTimeToEpoch(301_000, 2334)

	standard.Observe(sv(5), "1C", first, 100, 0)
	lliStandard := standard.Observe(sv(5), "1C", second, 100, 0)
	assert.Equal(t, LockLoss, lliStandard)

	simplified.Observe(sv(5), "1C", first, 100, 0)
	lliSimplified := simplified.Observe(sv(5), "1C", second, 100, 0)
	assert.Equal(t, OKOrUnknown, lliSimplified)
}

// Seed scenario 3: indicator rises from 100 to 150 over 1000ms. p=t(100)=144
// (band 96-127, slope 4), n=t(150)=432 (band 128-159, slope 8). b=8 > p=144
// is false, so this falls into the p < n, b <= p branch: Δt=1000 > n=432 ->
// LOCK_LOSS.
func TestLockTracker_RisingIndicatorStillTooSlow(t *testing.T) {
	tracker := NewLockTracker(Standard)
	first := GPSTimeToEpoch(300_000, 2334)
	second := GPSTimeToEpoch(301_000, 2334)

	tracker.Observe(sv(5), "1C", first, 100, 0)
	lli := tracker.Observe(sv(5), "1C", second, 150, 0)
	assert.Equal(t, LockLoss, lli)
}

// Seed scenario 5: half-cycle ambiguity is flagged regardless of mode or
// indicator history.
func TestLockTracker_HalfCycleAmbiguityAlwaysFlagged(t *testing.T) {
	for _, mode := range []LockMode{Standard, RtklibSimplified} {
		tracker := NewLockTracker(mode)
		epoch := GPSTimeToEpoch(300_000, 2334)
		lli := tracker.Observe(sv(5), "1C", epoch, 100, 1)
		assert.NotZero(t, lli&HalfCycleSlip)
	}
}

func TestLockTracker_ModeBMonotonicity(t *testing.T) {
	tracker := NewLockTracker(RtklibSimplified)
	first := GPSTimeToEpoch(300_000, 2334)
	second := GPSTimeToEpoch(301_000, 2334)

	tracker.Observe(sv(5), "1C", first, 50, 0)
	lli := tracker.Observe(sv(5), "1C", second, 120, 0)
	assert.Zero(t, lli&LockLoss)
}

func TestMinLockTimeMs_TableBoundaries(t *testing.T) {
	assert.Equal(t, int64(0), minLockTimeMs(0))
	assert.Equal(t, int64(63), minLockTimeMs(63))
	assert.Equal(t, int64(64), minLockTimeMs(64))
	assert.Equal(t, int64(2097152*704-1409286144), minLockTimeMs(704))
}
