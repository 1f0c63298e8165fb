package msm7

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
)

// InvalidRangeWholeMillis is the sentinel value for an MSM7 satellite cell
// whose rough range could not be measured.
const InvalidRangeWholeMillis = 0xff

// InvalidPhaseRangeRate is the sentinel value for an MSM7 satellite cell's
// rough phase range rate: 14-bit two's complement 10 0000 0000 0000.
const InvalidPhaseRangeRate = -8192

const lenRangeWholeMillis = 8
const lenExtendedInfo = 4
const lenRangeFractionalMillis = 10
const lenPhaseRangeRate = 14

// satelliteCellLengthInBits is the number of bits in each satellite cell.
const satelliteCellLengthInBits = lenRangeWholeMillis + lenExtendedInfo +
	lenRangeFractionalMillis + lenPhaseRangeRate

// SatelliteCell holds the rough range and phase range rate data for one
// satellite from an MSM7 message.  Unlike MSM4, MSM7 carries a rough phase
// range rate here too, which associated SignalCells refine with a delta.
type SatelliteCell struct {
	// ID is the satellite ID, 1-64.
	ID uint

	// RangeWholeMillis is the number of integer milliseconds in the rough
	// range. InvalidRangeWholeMillis marks a missing measurement.
	RangeWholeMillis uint

	// ExtendedInfo is DF397, the extended satellite information field.
	ExtendedInfo uint

	// RangeFractionalMillis is the fractional part of the rough range, in
	// units of 1/1024 millisecond.
	RangeFractionalMillis uint

	// PhaseRangeRate is the rough phase range rate for all signals from
	// this satellite, in metres per second. InvalidPhaseRangeRate marks a
	// missing measurement.
	PhaseRangeRate int
}

// getSatelliteCells extracts the satellite cells that follow the header in
// an MSM7 message, one per satellite ID in the header's satellite mask.
func getSatelliteCells(bitStream []byte, startOfSatelliteData uint, satellites []uint) ([]SatelliteCell, error) {
	bitsLeftInFrame := len(bitStream)*8 - int(startOfSatelliteData)
	bitsNeededForCells := len(satellites) * satelliteCellLengthInBits
	if bitsLeftInFrame < bitsNeededForCells {
		return nil, fmt.Errorf("overrun - not enough data for %d MSM7 satellite cells - need %d bits, got %d",
			len(satellites), bitsNeededForCells, bitsLeftInFrame)
	}

	pos := startOfSatelliteData

	wholeMillis := make([]uint, len(satellites))
	for i := range satellites {
		wholeMillis[i] = uint(bits.GetUint64(bitStream, pos, lenRangeWholeMillis))
		pos += lenRangeWholeMillis
	}

	extendedInfo := make([]uint, len(satellites))
	for i := range satellites {
		extendedInfo[i] = uint(bits.GetUint64(bitStream, pos, lenExtendedInfo))
		pos += lenExtendedInfo
	}

	fractionalMillis := make([]uint, len(satellites))
	for i := range satellites {
		fractionalMillis[i] = uint(bits.GetUint64(bitStream, pos, lenRangeFractionalMillis))
		pos += lenRangeFractionalMillis
	}

	phaseRangeRate := make([]int, len(satellites))
	for i := range satellites {
		phaseRangeRate[i] = int(bits.GetInt64(bitStream, pos, lenPhaseRangeRate))
		pos += lenPhaseRangeRate
	}

	cells := make([]SatelliteCell, len(satellites))
	for i, id := range satellites {
		cells[i] = SatelliteCell{
			ID:                    id,
			RangeWholeMillis:      wholeMillis[i],
			ExtendedInfo:          extendedInfo[i],
			RangeFractionalMillis: fractionalMillis[i],
			PhaseRangeRate:        phaseRangeRate[i],
		}
	}

	return cells, nil
}
