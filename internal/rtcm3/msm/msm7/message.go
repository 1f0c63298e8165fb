// Package msm7 decodes a GPS or Galileo Multiple Signal Message type 7
// (message type 1077 or 1097) into its header, satellite cells and signal
// cells.  MSM7 is the "full" sibling of msm4: the same layout at extended
// precision, plus a phase range rate that msm4 doesn't carry.
package msm7

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/header"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msgtype"
)

// Message is a broken-out MSM7 message.
type Message struct {
	Header *header.Header

	Satellites []SatelliteCell

	// Signals holds one slice per satellite (same indexing as Satellites),
	// each containing the signal cells observed from that satellite.
	Signals [][]SignalCell
}

// GetMessage decodes an MSM7 message (1077 GPS or 1097 Galileo), the
// message type field onwards with the frame leader and CRC already removed.
func GetMessage(bitStream []byte) (*Message, error) {
	hdr, bitPosition, err := header.GetMSMHeader(bitStream)
	if err != nil {
		return nil, err
	}

	if !msgtype.IsMSM7(hdr.MessageType) {
		return nil, fmt.Errorf("message type %d is not an MSM7", hdr.MessageType)
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
