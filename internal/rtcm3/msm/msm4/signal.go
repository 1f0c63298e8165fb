package msm4

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/header"
)

// InvalidRangeDelta is the sentinel value for an MSM4 signal cell's range
// delta: 15-bit two's complement 100 0000 0000 0000.
const InvalidRangeDelta = -16384

// InvalidPhaseRangeDelta is the sentinel value for an MSM4 signal cell's
// phase range delta: 22-bit two's complement 10 0000 0000 0000 0000 0000.
const InvalidPhaseRangeDelta = -2097152

const lenRangeDelta uint = 15
const lenPhaseRangeDelta uint = 22
const lenLockTimeIndicator uint = 4
const lenHalfCycleAmbiguity uint = 1
const lenCNR uint = 6

const signalCellLengthInBits = lenRangeDelta + lenPhaseRangeDelta +
	lenLockTimeIndicator + lenHalfCycleAmbiguity + lenCNR

// SignalCell holds the raw field values from one MSM4 signal cell: a small
// correction to the satellite's rough range, packed at 15 bits of precision
// for the pseudorange and 22 bits for the carrier phase.  Reconstructing an
// actual pseudorange or phase observable from these deltas plus the
// satellite cell's rough range is the decoder core's job, not this
// package's - it only unpacks the wire fields.
type SignalCell struct {
	// SatelliteID is the ID of the satellite this signal was observed from.
	SatelliteID uint

	// SignalID is the RTCM signal number, 1-32.
	SignalID uint

	// RangeDelta is a scaled signed correction to the satellite's rough
	// range, in units of 2^-24 milliseconds. InvalidRangeDelta marks a
	// missing pseudorange measurement.
	RangeDelta int

	// PhaseRangeDelta is a scaled signed correction to the satellite's
	// rough range, in units of 2^-29 milliseconds.
	// InvalidPhaseRangeDelta marks a missing carrier phase measurement.
	PhaseRangeDelta int

	// LockTimeIndicator is the coarse (4-bit) DF402 lock time indicator.
	LockTimeIndicator uint

	// HalfCycleAmbiguity is DF420, the half-cycle ambiguity indicator.
	HalfCycleAmbiguity bool

	// CarrierToNoiseRatio is DF403/DF404, in dB-Hz.
	CarrierToNoiseRatio uint
}

// getSignalCells extracts the signal cells that follow the satellite cells
// in an MSM4 message.  It returns one slice per satellite, indexed the same
// way as hdr.Satellites, each holding the signal cells observed from that
// satellite in the order they appear in hdr.Signals.
func getSignalCells(bitStream []byte, startOfSignalCells uint, hdr *header.Header) ([][]SignalCell, error) {
	pos := startOfSignalCells
	bitsLeft := uint(len(bitStream)*8) - pos

	numSignalCells := bits.CountSignalCells(bitStream, pos, signalCellLengthInBits)

	if hdr.MultipleMessage {
		if bitsLeft < signalCellLengthInBits {
			return nil, fmt.Errorf("overrun - want at least one %d-bit MSM4 signal cell when multiple message flag is set, got only %d bits left",
				signalCellLengthInBits, bitsLeft)
		}
	} else if numSignalCells < hdr.NumSignalCells {
		return nil, fmt.Errorf("overrun - want %d MSM4 signal cells, got %d", hdr.NumSignalCells, numSignalCells)
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

	// The cell mask tells us which (satellite, signal) pairs are present;
	// the fields above are packed column by column (all range deltas, then
	// all phase range deltas, ...) in that same cell order.
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
			})
			c++
		}
	}

	return signalCells, nil
}
