// Package msm4 decodes a GPS or Galileo Multiple Signal Message type 4
// (message type 1074 or 1094) into its header, satellite cells and signal
// cells.  It exposes the raw, scaled wire fields - turning them into
// pseudorange, carrier phase, Doppler and signal strength observables is
// the decoder core's job.
package msm4

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/header"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msgtype"
)

// Message is a broken-out MSM4 message.
type Message struct {
	Header *header.Header

	// Satellites holds one cell per satellite named in the header's
	// satellite mask, in the same order as Header.Satellites.
	Satellites []SatelliteCell

	// Signals holds one slice per satellite (same indexing as Satellites),
	// each containing the signal cells observed from that satellite.
	Signals [][]SignalCell
}

// GetMessage decodes an MSM4 message (1074 GPS or 1094 Galileo), the
// message type field onwards with the frame leader and CRC already removed.
func GetMessage(bitStream []byte) (*Message, error) {
	hdr, bitPosition, err := header.GetMSMHeader(bitStream)
	if err != nil {
		return nil, err
	}

	if !msgtype.IsMSM4(hdr.MessageType) {
		return nil, fmt.Errorf("message type %d is not an MSM4", hdr.MessageType)
	}

	satellites, err := getSatelliteCells(bitStream, bitPosition, hdr.Satellites)
	if err != nil {
		return nil, err
	}
	bitPosition += uint(len(satellites) * satelliteCellLengthInBits)

	signals, err := getSignalCells(bitStream, bitPosition, hdr)
	if err != nil {
		return nil, err
	}

	return &Message{Header: hdr, Satellites: satellites, Signals: signals}, nil
}
