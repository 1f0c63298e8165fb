package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_PseudoRangePhaseDopplerSSI(t *testing.T) {
	acc := NewAccumulator()
	tracker := NewLockTracker(Standard)

	roughInt := uint(75)
	roughMod := 0.5
	finePseudo := 0.0001
	finePhase := 0.0002
	roughRate := -1234.0
	fineRate := 0.56
	cnr := 45.0

	row := MsmRow{
		Constellation:        GPS,
		SatelliteID:          5,
		Band:                 "1",
		Attribute:            "C",
		RoughRangeIntMs:      &roughInt,
		RoughRangeMod1ms:     roughMod,
		RoughPhaseRangeRate:  &roughRate,
		FinePseudorangeMs:    &finePseudo,
		FinePhaseRangeMs:     &finePhase,
		FinePhaseRangeRateMs: &fineRate,
		CNR:                  &cnr,
		LockTimeIndicator:    100,
		HalfCycleAmbiguity:   0,
	}

	epochKey := EpochKey{Epoch: GPSTimeToEpoch(300_000, 2334), Flag: EpochOk}
	require.NoError(t, Synthesize(acc, tracker, row, epochKey))

	records := acc.Snapshot()
	values := make(map[ObservableKey]ObservationValue)
	for _, r := range records {
		values[r.Observable] = r.Value
	}

	sum := (float64(roughInt) + roughMod + finePseudo) * rangeMs
	pr, ok := values[ObservableKey{Kind: PseudoRange, Code: "1C"}]
	require.True(t, ok)
	assert.InEpsilon(t, sum, pr.Value, 1e-9)
	assert.Nil(t, pr.LLI)

	invLambda, err := inverseWavelength(GPS, "1")
	require.NoError(t, err)
	phaseSum := (float64(roughInt) + roughMod + finePhase) * rangeMs
	phase, ok := values[ObservableKey{Kind: Phase, Code: "1C"}]
	require.True(t, ok)
	assert.InEpsilon(t, phaseSum*invLambda, phase.Value, 1e-9)
	require.NotNil(t, phase.LLI)

	doppler, ok := values[ObservableKey{Kind: Doppler, Code: "1C"}]
	require.True(t, ok)
	assert.InEpsilon(t, -(roughRate+fineRate)*invLambda, doppler.Value, 1e-9)
	assert.Nil(t, doppler.LLI)

	ssi, ok := values[ObservableKey{Kind: SSI, Code: "1C"}]
	require.True(t, ok)
	assert.Equal(t, cnr, ssi.Value)
	assert.Nil(t, ssi.LLI)
}

func TestSynthesize_MissingFineFieldsSuppressObservables(t *testing.T) {
	acc := NewAccumulator()
	tracker := NewLockTracker(Standard)

	row := MsmRow{
		Constellation:     GPS,
		SatelliteID:       5,
		Band:              "1",
		Attribute:         "C",
		LockTimeIndicator: 0,
	}
	epochKey := EpochKey{Epoch: GPSTimeToEpoch(0, 2334), Flag: EpochOk}
	require.NoError(t, Synthesize(acc, tracker, row, epochKey))
	assert.Empty(t, acc.Snapshot())
}

func TestSynthesize_UnsupportedBandBubblesUp(t *testing.T) {
	acc := NewAccumulator()
	tracker := NewLockTracker(Standard)
	row := MsmRow{Constellation: GPS, SatelliteID: 1, Band: "6", Attribute: "C"}
	epochKey := EpochKey{Epoch: GPSTimeToEpoch(0, 2334), Flag: EpochOk}
	err := Synthesize(acc, tracker, row, epochKey)
	require.Error(t, err)
}
