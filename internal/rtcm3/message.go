// Package rtcm3 frames and dispatches RTCM version 3 messages read from a
// GNSS base station or a logged capture file.  It restricts itself to the
// message types this repository actually decodes: the GPS and Galileo
// Multiple Signal Messages (1074, 1077, 1094, 1097), the GPS and Galileo
// ephemeris messages (1019, 1046) and the station position message (1005).
// Anything else is passed through as an
// opaque, undecoded message so that a caller scanning a mixed stream never
// loses data, it just doesn't get a typed view of it.
package rtcm3

import (
	"encoding/hex"
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msgtype"
)

// Re-exported so callers outside this package don't need to import
// msgtype directly for the common case of checking a message type.
const (
	NonRTCMMessage              = msgtype.NonRTCMMessage
	MessageTypeGPSEphemeris     = msgtype.GPSEphemeris
	MessageTypeGalileoEphemeris = msgtype.GalileoEphemeris
	MessageTypeMSM4GPS          = msgtype.MSM4GPS
	MessageTypeMSM7GPS          = msgtype.MSM7GPS
	MessageTypeMSM4Galileo      = msgtype.MSM4Galileo
	MessageTypeMSM7Galileo      = msgtype.MSM7Galileo
	MessageTypeStationPosition  = msgtype.StationPosition

	StartOfMessageFrame = msgtype.StartOfFrame
	LeaderLengthBytes   = msgtype.LeaderLengthBytes
	CRCLengthBytes      = msgtype.CRCLengthBytes
)

// MSM4 returns true if messageType is a GPS or Galileo MSM4.
func MSM4(messageType int) bool { return msgtype.IsMSM4(messageType) }

// MSM7 returns true if messageType is a GPS or Galileo MSM7.
func MSM7(messageType int) bool { return msgtype.IsMSM7(messageType) }

// MSM returns true if messageType is any MSM this repository decodes.
func MSM(messageType int) bool { return msgtype.IsMSM(messageType) }

// Ephemeris returns true if messageType carries a GNSS week number.
func Ephemeris(messageType int) bool { return msgtype.IsEphemeris(messageType) }

// Message holds a single RTCM3 message frame, possibly broken out into a
// typed, decoded form.  MessageType is negative (NonRTCMMessage) for a
// frame that isn't a valid or recognised RTCM3 message.
type Message struct {
	// MessageType is the RTCM message number, or NonRTCMMessage.
	MessageType int

	// ErrorMessage holds any problem found while fetching or checking
	// the message.  An error here does not necessarily mean the frame
	// was discarded - see RawData.
	ErrorMessage string

	// RawData is the message frame in its original binary form,
	// including the leader and the CRC.
	RawData []byte

	// Readable is the decoded form of the message, set by Analyse.  Its
	// concrete type depends on MessageType: *msm4.Message, *msm7.Message,
	// *ephemeris.GPSEphemeris, *ephemeris.GalileoEphemeris, *station.Message
	// or nil if the type isn't one this repository decodes.
	Readable interface{}
}

// NewMessage creates a Message from a frame.  errorMessage records any
// problem found with the frame, such as a failed CRC check.
func NewMessage(messageType int, errorMessage string, bitStream []byte) *Message {
	return &Message{
		MessageType:  messageType,
		RawData:      bitStream,
		ErrorMessage: errorMessage,
	}
}

// NewNonRTCM creates a Message wrapping a chunk of non-RTCM data.
func NewNonRTCM(bitStream []byte) *Message {
	return &Message{MessageType: NonRTCMMessage, RawData: bitStream}
}

// Copy makes a copy of the message and its raw data, omitting any readable
// form - the copy's Readable is nil until Framer.Analyse is called on it.
func (message *Message) Copy() Message {
	rawData := make([]byte, len(message.RawData))
	copy(rawData, message.RawData)
	return Message{
		MessageType:  message.MessageType,
		RawData:      rawData,
		ErrorMessage: message.ErrorMessage,
	}
}

// String renders the message as hex plus any error, for logging.
func (message *Message) String() string {
	display := fmt.Sprintf("message type %d, frame length %d\n", message.MessageType, len(message.RawData))
	display += hex.Dump(message.RawData)
	if len(message.ErrorMessage) > 0 {
		display += message.ErrorMessage + "\n"
	}
	return display
}
