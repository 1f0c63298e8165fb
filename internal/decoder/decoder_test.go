package decoder

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/ephemeris"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/header"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm4"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm7"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gpsHeader(messageType int, epochTimeMs uint, satellites, signals []uint) *header.Header {
	cells := make([][]bool, len(satellites))
	for i := range cells {
		cells[i] = make([]bool, len(signals))
		for j := range cells[i] {
			cells[i][j] = true
		}
	}
	return &header.Header{
		MessageType:    messageType,
		Constellation:  "GPS",
		EpochTime:      epochTimeMs,
		Satellites:     satellites,
		Signals:        signals,
		Cells:          cells,
		NumSignalCells: len(satellites) * len(signals),
	}
}

// Seed scenario 1: a 1019 with week 286, then a 1077 with one satellite
// (PRN 5, signal 1C) at 300000ms. The resulting epoch should be GPS week
// 286+2048, tow 300s, and three observables present (no Doppler, since the
// signal cell's fine phase range rate delta is the invalid sentinel).
func TestDecoder_SeedScenario1(t *testing.T) {
	d := New(Standard, quietLogger())

	err := d.Dispatch(&rtcm3.Message{
		MessageType: rtcm3.MessageTypeGPSEphemeris,
		Readable:    &ephemeris.GPSEphemeris{SatelliteID: 5, Week: 286},
	})
	require.NoError(t, err)

	hdr := gpsHeader(rtcm3.MessageTypeMSM7GPS, 300_000, []uint{5}, []uint{2})
	roughInt := uint(75)
	roughRate := 0
	msg := &msm7.Message{
		Header: hdr,
		Satellites: []msm7.SatelliteCell{
			{ID: 5, RangeWholeMillis: roughInt, RangeFractionalMillis: 512, PhaseRangeRate: roughRate},
		},
		Signals: [][]msm7.SignalCell{
			{
				{
					SatelliteID:         5,
					SignalID:            2,
					RangeDelta:          100,
					PhaseRangeDelta:     200,
					LockTimeIndicator:   100,
					HalfCycleAmbiguity:  false,
					CarrierToNoiseRatio: 45,
					PhaseRangeRateDelta: msm7.InvalidPhaseRangeRateDelta,
				},
			},
		},
	}

	err = d.Dispatch(&rtcm3.Message{MessageType: rtcm3.MessageTypeMSM7GPS, Readable: msg})
	require.NoError(t, err)

	records := d.Snapshot()
	first, ok := d.FirstEpoch()
	require.True(t, ok)
	assert.Equal(t, float64(286+2048)*secondsPerWeek+300, first.Seconds())

	kinds := make(map[ObservableKind]bool)
	for _, r := range records {
		assert.Equal(t, SV{Constellation: GPS, PRN: 5}, r.SV)
		kinds[r.Observable.Kind] = true
	}
	assert.True(t, kinds[PseudoRange])
	assert.True(t, kinds[Phase])
	assert.True(t, kinds[SSI])
	assert.False(t, kinds[Doppler], "PhaseRangeRateDelta was invalid, no Doppler expected")
}

// Seed scenario 4: an MSM arrives before its constellation's week is known
// and must be dropped, not buffered.
func TestDecoder_SeedScenario4_DroppedBeforeWeekKnown(t *testing.T) {
	d := New(Standard, quietLogger())

	hdr := gpsHeader(rtcm3.MessageTypeMSM7Galileo, 0, []uint{11}, []uint{23})
	msg := &msm7.Message{
		Header:     hdr,
		Satellites: []msm7.SatelliteCell{{ID: 11, RangeWholeMillis: 1, RangeFractionalMillis: 0, PhaseRangeRate: 0}},
		Signals: [][]msm7.SignalCell{
			{{SatelliteID: 11, SignalID: 23, RangeDelta: 1, PhaseRangeDelta: 1, CarrierToNoiseRatio: 40}},
		},
	}

	err := d.Dispatch(&rtcm3.Message{MessageType: rtcm3.MessageTypeMSM7Galileo, Readable: msg})
	require.NoError(t, err)
	assert.Empty(t, d.Snapshot())
}

// Seed scenario 6: two epochs with SV (Galileo, 11) on signal 5Q - the
// observed_signals set should contain that pair exactly once.
func TestDecoder_SeedScenario6_ObservedSignalsDeduped(t *testing.T) {
	d := New(Standard, quietLogger())

	err := d.Dispatch(&rtcm3.Message{
		MessageType: rtcm3.MessageTypeGalileoEphemeris,
		Readable:    &ephemeris.GalileoEphemeris{SatelliteID: 11, Week: 100},
	})
	require.NoError(t, err)

	for _, epochTimeMs := range []uint{0, 1000} {
		hdr := gpsHeader(rtcm3.MessageTypeMSM4Galileo, epochTimeMs, []uint{11}, []uint{23})
		msg := &msm4.Message{
			Header:     hdr,
			Satellites: []msm4.SatelliteCell{{ID: 11, RangeWholeMillis: 1, RangeFractionalMillis: 0}},
			Signals: [][]msm4.SignalCell{
				{{SatelliteID: 11, SignalID: 23, RangeDelta: 1, PhaseRangeDelta: 1, CarrierToNoiseRatio: 40}},
			},
		}
		err := d.Dispatch(&rtcm3.Message{MessageType: rtcm3.MessageTypeMSM4Galileo, Readable: msg})
		require.NoError(t, err)
	}

	signals := d.ObservedSignals()
	assert.Len(t, signals, 1)
	assert.Equal(t, ObservedSignal{Constellation: Galileo, Code: "5Q"}, signals[0])
}
