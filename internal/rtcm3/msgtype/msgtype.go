// Package msgtype defines the RTCM3 message-number constants and frame
// layout this repository cares about, and the predicates used to route a
// decoded message type to the right subpackage.  It has no dependencies so
// it can be imported by both the framer and the message-type-specific
// decoders without creating an import cycle.
package msgtype

// NonRTCMMessage marks a chunk of the input stream that isn't a valid or
// recognised RTCM3 message.
const NonRTCMMessage = -1

// Message type numbers this repository decodes.
const (
	GPSEphemeris     = 1019
	GalileoEphemeris = 1046
	MSM4GPS          = 1074
	MSM7GPS          = 1077
	MSM4Galileo      = 1094
	MSM7Galileo      = 1097
	StationPosition  = 1005
)

// StartOfFrame is the value of the byte that starts an RTCM3 frame.
const StartOfFrame byte = 0xd3

// LeaderLengthBytes is the length of the frame leader in bytes: the
// start-of-frame byte plus the two length/reserved bytes.
const LeaderLengthBytes = 3

// CRCLengthBytes is the length of the trailing CRC24Q value in bytes.
const CRCLengthBytes = 3

// CRCLengthBits is CRCLengthBytes in bits.
const CRCLengthBits = CRCLengthBytes * 8

// IsMSM4 returns true if messageType is a GPS or Galileo MSM4.
func IsMSM4(messageType int) bool {
	return messageType == MSM4GPS || messageType == MSM4Galileo
}

// IsMSM7 returns true if messageType is a GPS or Galileo MSM7.
func IsMSM7(messageType int) bool {
	return messageType == MSM7GPS || messageType == MSM7Galileo
}

// IsMSM returns true if messageType is any MSM this repository decodes.
func IsMSM(messageType int) bool {
	return IsMSM4(messageType) || IsMSM7(messageType)
}

// IsEphemeris returns true if messageType carries a GNSS week number.
func IsEphemeris(messageType int) bool {
	return messageType == GPSEphemeris || messageType == GalileoEphemeris
}
