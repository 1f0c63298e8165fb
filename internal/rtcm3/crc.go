package rtcm3

import "github.com/goblimey/go-crc24q/crc24q"

// CheckCRC checks the trailing CRC24Q value of a message frame against the
// hash of everything that precedes it.
func CheckCRC(frame []byte) bool {
	if len(frame) < (LeaderLengthBytes + CRCLengthBytes) {
		return false
	}

	crcHiByte := frame[len(frame)-3]
	crcMiByte := frame[len(frame)-2]
	crcLoByte := frame[len(frame)-1]

	headerAndMessage := frame[:len(frame)-CRCLengthBytes]
	newCRC := crc24q.Hash(headerAndMessage)

	return crc24q.HiByte(newCRC) == crcHiByte &&
		crc24q.MiByte(newCRC) == crcMiByte &&
		crc24q.LoByte(newCRC) == crcLoByte
}
