package msm7

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/header"
)

// InvalidRangeDelta is the sentinel value for an MSM7 signal cell's range
// delta: 20-bit two's complement 1000 0000 0000 0000 0000.
const InvalidRangeDelta = -524288

// InvalidPhaseRangeDelta is the sentinel value for an MSM7 signal cell's
// phase range delta: 24-bit two's complement 1000 0000 0000 0000 0000 0000.
const InvalidPhaseRangeDelta = -8388608

// InvalidPhaseRangeRateDelta is the sentinel value for an MSM7 signal
// cell's phase range rate delta: 15-bit two's complement 100 0000 0000 0000.
const InvalidPhaseRangeRateDelta = -16384

const lenRangeDelta uint = 20
const lenPhaseRangeDelta uint = 24
const lenLockTimeIndicator uint = 10
const lenHalfCycleAmbiguity uint = 1
const lenCNR uint = 10
const lenPhaseRangeRateDelta uint = 15

const signalCellLengthInBits = lenRangeDelta + lenPhaseRangeDelta +
	lenLockTimeIndicator + lenHalfCycleAmbiguity + lenCNR + lenPhaseRangeRateDelta

// SignalCell holds the raw field values from one MSM7 signal cell.  MSM7
// carries the same quantities as MSM4 but at extended precision (20 bits of
// range delta instead of 15, 24 of phase range delta instead of 22, plus a
// phase range rate delta that MSM4 doesn't carry at all).
type SignalCell struct {
	SatelliteID uint

	// SignalID is the RTCM signal number, 1-32.
	SignalID uint

	// RangeDelta is a scaled signed correction to the satellite's rough
	// range, in units of 2^-29 milliseconds. InvalidRangeDelta marks a
	// missing pseudorange measurement.
	RangeDelta int

	// PhaseRangeDelta is a scaled signed correction to the satellite's
	// rough range, in units of 2^-31 milliseconds.
	// InvalidPhaseRangeDelta marks a missing carrier phase measurement.
	PhaseRangeDelta int

	// LockTimeIndicator is the extended (10-bit, DF407) lock time
	// indicator.
	LockTimeIndicator uint

	// HalfCycleAmbiguity is DF420, the half-cycle ambiguity indicator.
	HalfCycleAmbiguity bool

	// CarrierToNoiseRatio is DF403/DF404 at extended (10-bit) precision, a
	// raw count in units of 0.0625 dB-Hz - unlike MSM4/6's 6-bit field, this
	// is not yet a whole dB-Hz value and needs scaling before use.
	CarrierToNoiseRatio uint

	// PhaseRangeRateDelta is a scaled signed correction to the satellite's
	// rough phase range rate, in units of 0.0001 metres per second.
	// InvalidPhaseRangeRateDelta marks a missing measurement.
	PhaseRangeRateDelta int
}

// getSignalCells extracts the signal cells that follow the satellite cells
// in an MSM7 message, indexed and laid out the same way as msm4's.
func getSignalCells(bitStream []byte, startOfSignalCells uint, hdr *header.Header) ([][]SignalCell, error) {
	pos := startOfSignalCells
	bitsLeft := uint(len(bitStream)*8) - pos

	numSignalCells := bits.CountSignalCells(bitStream, pos, signalCellLengthInBits)

	if hdr.MultipleMessage {
		if bitsLeft < signalCellLengthInBits {
			return nil, fmt.Errorf("overrun - want at least one %d-bit MSM7 signal cell when multiple message flag is set, got only %d bits left",
				signalCellLengthInBits, bitsLeft)
		}
	} else if numSignalCells < hdr.NumSignalCells {
		return nil, fmt.Errorf("overrun - want %d MSM7 signal cells, got %d", hdr.NumSignalCells, numSignalCells)
	}

	rangeDelta := make([]int, numSignalCells)
	for i := 0; i < numSignalCells; i++ {
		rangeDelta[i] = int(bits.GetInt64(bitStream, pos, lenRangeDelta))
		pos += lenRangeDelta
	}

	phaseRangeDelta := make([]int, numSignalCells)
	for i := 0; i < numSignalCells; i++ {
		phaseRangeDelta[i] = int(bits.GetInt64(bitStream, pos, lenPhaseRangeDelta))
		pos += lenPhaseRangeDelta
	}

	lockTimeIndicator := make([]uint, numSignalCells)
	for i := 0; i < numSignalCells; i++ {
		lockTimeIndicator[i] = uint(bits.GetUint64(bitStream, pos, lenLockTimeIndicator))
		pos += lenLockTimeIndicator
	}

	halfCycleAmbiguity := make([]bool, numSignalCells)
	for i := 0; i < numSignalCells; i++ {
		halfCycleAmbiguity[i] = bits.GetUint64(bitStream, pos, lenHalfCycleAmbiguity) == 1
		pos += lenHalfCycleAmbiguity
	}

	cnr := make([]uint, numSignalCells)
	for i := 0; i < numSignalCells; i++ {
		cnr[i] = uint(bits.GetUint64(bitStream, pos, lenCNR))
		pos += lenCNR
	}

	phaseRangeRateDelta := make([]int, numSignalCells)
	for i := 0; i < numSignalCells; i++ {
		phaseRangeRateDelta[i] = int(bits.GetInt64(bitStream, pos, lenPhaseRangeRateDelta))
		pos += lenPhaseRangeRateDelta
	}

	c := 0
	signalCells := make([][]SignalCell, len(hdr.Satellites))
	for i := range hdr.Cells {
		signalCells[i] = make([]SignalCell, 0, len(hdr.Signals))
		for j := range hdr.Cells[i] {
			if c >= numSignalCells {
				continue
			}
			if !hdr.Cells[i][j] {
				continue
			}
			signalCells[i] = append(signalCells[i], SignalCell{
				SatelliteID:         hdr.Satellites[i],
				SignalID:            hdr.Signals[j],
				RangeDelta:          rangeDelta[c],
				PhaseRangeDelta:     phaseRangeDelta[c],
				LockTimeIndicator:   lockTimeIndicator[c],
				HalfCycleAmbiguity:  halfCycleAmbiguity[c],
				CarrierToNoiseRatio: cnr[c],
				PhaseRangeRateDelta: phaseRangeRateDelta[c],
			})
			c++
		}
	}

	return signalCells, nil
}
