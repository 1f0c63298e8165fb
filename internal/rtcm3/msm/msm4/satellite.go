package msm4

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
)

// InvalidRangeWholeMillis is the sentinel value for an MSM4 satellite cell
// whose rough range could not be measured.
const InvalidRangeWholeMillis = 0xff

const lenRangeWholeMillis = 8
const lenRangeFractionalMillis = 10

// satelliteCellLengthInBits is the number of bits in each satellite cell.
const satelliteCellLengthInBits = lenRangeWholeMillis + lenRangeFractionalMillis

// SatelliteCell holds the rough range data for one satellite from an MSM4
// message. The real transit time of each signal from this satellite differs
// slightly from the rough value here; each associated SignalCell carries the
// delta needed to correct it.
type SatelliteCell struct {
	// ID is the satellite ID, 1-64.
	ID uint

	// RangeWholeMillis is the number of integer milliseconds in the rough
	// range (the transit time of the signals). InvalidRangeWholeMillis
	// marks a satellite for which no rough range could be measured.
	RangeWholeMillis uint

	// RangeFractionalMillis is the fractional part of the rough range, in
	// units of 1/1024 millisecond.
	RangeFractionalMillis uint
}

// getSatelliteCells extracts the satellite cells that follow the header in
// an MSM4 message, one per satellite ID in the header's satellite mask.
func getSatelliteCells(bitStream []byte, startOfSatelliteData uint, satellites []uint) ([]SatelliteCell, error) {
	bitsLeftInFrame := len(bitStream)*8 - int(startOfSatelliteData)
	bitsNeededForCells := len(satellites) * satelliteCellLengthInBits
	if bitsLeftInFrame < bitsNeededForCells {
		return nil, fmt.Errorf("overrun - not enough data for %d MSM4 satellite cells - need %d bits, got %d",
			len(satellites), bitsNeededForCells, bitsLeftInFrame)
	}

	pos := startOfSatelliteData

	wholeMillis := make([]uint, len(satellites))
	for i := range satellites {
		wholeMillis[i] = uint(bits.GetUint64(bitStream, pos, lenRangeWholeMillis))
		pos += lenRangeWholeMillis
	}

	fractionalMillis := make([]uint, len(satellites))
	for i := range satellites {
		fractionalMillis[i] = uint(bits.GetUint64(bitStream, pos, lenRangeFractionalMillis))
		pos += lenRangeFractionalMillis
	}

	cells := make([]SatelliteCell, len(satellites))
	for i, id := range satellites {
		cells[i] = SatelliteCell{
			ID:                    id,
			RangeWholeMillis:      wholeMillis[i],
			RangeFractionalMillis: fractionalMillis[i],
		}
	}

	return cells, nil
}
