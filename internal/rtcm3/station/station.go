// Package station decodes RTCM message 1005, the base station's antenna
// reference position.  It isn't part of the observation stream itself, but
// a RINEX observation file's header carries the approximate station
// position, so the framer decodes it too.  The decoded position is not
// passed to the RINEX writer, which writes APPROX POSITION XYZ as zeros.
package station

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msgtype"
)

const lenMessageType = 12
const lenStationID = 12
const lenITRFRealisationYear = 6
const lenIgnoredBits1 = 4
const lenAntennaRefX = 38
const lenIgnoredBits2 = 2
const lenAntennaRefY = 38
const lenIgnoredBits3 = 2
const lenAntennaRefZ = 38

const lengthOfMessageInBits = lenMessageType + lenStationID +
	lenITRFRealisationYear + lenIgnoredBits1 +
	lenAntennaRefX + lenIgnoredBits2 + lenAntennaRefY +
	lenIgnoredBits3 + lenAntennaRefZ

// antennaRefScaleFactor converts the scaled ECEF coordinates to metres:
// they're broadcast in units of 0.0001 m (tenth mm).
const antennaRefScaleFactor = 0.0001

// Message holds the antenna reference position from a 1005 message.
type Message struct {
	StationID           uint
	ITRFRealisationYear uint

	// AntennaRefX, AntennaRefY, AntennaRefZ are the ECEF antenna reference
	// point coordinates, in metres.
	AntennaRefX float64
	AntennaRefY float64
	AntennaRefZ float64
}

// GetMessage decodes a 1005 message, the message type field onwards with
// the frame leader and CRC already removed.
func GetMessage(embeddedMessage []byte) (*Message, error) {
	lenMessageInBits := len(embeddedMessage) * 8
	if lenMessageInBits < lengthOfMessageInBits {
		return nil, fmt.Errorf("overrun - expected %d bits in a message type 1005, got %d",
			lengthOfMessageInBits, lenMessageInBits)
	}

	var pos uint

	messageType := uint(bits.GetUint64(embeddedMessage, pos, lenMessageType))
	pos += lenMessageType

	if messageType != msgtype.StationPosition {
		return nil, fmt.Errorf("expected message type %d got %d", msgtype.StationPosition, messageType)
	}

	stationID := uint(bits.GetUint64(embeddedMessage, pos, lenStationID))
	pos += lenStationID

	itrfRealisationYear := uint(bits.GetUint64(embeddedMessage, pos, lenITRFRealisationYear))
	pos += lenITRFRealisationYear

	pos += lenIgnoredBits1

	antennaRefX := bits.GetInt64(embeddedMessage, pos, lenAntennaRefX)
	pos += lenAntennaRefX

	pos += lenIgnoredBits2

	antennaRefY := bits.GetInt64(embeddedMessage, pos, lenAntennaRefY)
	pos += lenAntennaRefY

	pos += lenIgnoredBits3

	antennaRefZ := bits.GetInt64(embeddedMessage, pos, lenAntennaRefZ)

	return &Message{
		StationID:           stationID,
		ITRFRealisationYear: itrfRealisationYear,
		AntennaRefX:         float64(antennaRefX) * antennaRefScaleFactor,
		AntennaRefY:         float64(antennaRefY) * antennaRefScaleFactor,
		AntennaRefZ:         float64(antennaRefZ) * antennaRefScaleFactor,
	}, nil
}
