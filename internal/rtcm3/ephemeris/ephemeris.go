// Package ephemeris decodes the GPS and Galileo ephemeris messages (1019
// and 1046).  This repository only needs these messages for one thing - the
// GNSS week number they carry, used to turn the millisecond timestamps in
// MSM messages into absolute epochs - but a handful of the other broadcast
// orbit and clock fields are decoded too since the bits are already there
// for the taking.
package ephemeris

import (
	"fmt"
	"math"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msgtype"
)

// GPSEphemeris is the broken-out content of an RTCM 1019 message.
type GPSEphemeris struct {
	SatelliteID uint

	// Week is the 10-bit GPS week number as broadcast, NOT corrected for
	// rollover.  Callers wanting an absolute week should add a rollover
	// offset (see the decoder core's WeekRolloverOffset).
	Week uint

	SVAccuracy   uint
	CodeOnL2     uint
	IDOT         float64
	IODE         uint
	Toc          uint
	Af2          float64
	Af1          float64
	Af0          float64
	IODC         uint
	Crs          float64
	DeltaN       float64
	M0           float64
	Cuc          float64
	Eccentricity float64
	Cus          float64
	SqrtA        float64
	Toe          uint
	Cic          float64
	Omega0       float64
	Cis          float64
	Inclination  float64
	Crc          float64
	Omega        float64
	OmegaDot     float64
	TGD          float64
	SVHealth     uint
}

// GetGPSEphemeris decodes a 1019 message, the message type field onwards
// with the frame leader and CRC already removed.
func GetGPSEphemeris(embeddedMessage []byte) (*GPSEphemeris, error) {
	const lenMessageType = 12
	if len(embeddedMessage)*8 < lenMessageType {
		return nil, fmt.Errorf("message too short for a message type")
	}

	messageType := int(bits.GetUint64(embeddedMessage, 0, lenMessageType))
	if messageType != msgtype.GPSEphemeris {
		return nil, fmt.Errorf("message type %d is not GPS ephemeris (1019)", messageType)
	}

	const minBits = 488
	if len(embeddedMessage)*8 < minBits {
		return nil, fmt.Errorf("message is %d bits, too short for GPS ephemeris - need at least %d", len(embeddedMessage)*8, minBits)
	}

	pos := uint(lenMessageType)
	eph := &GPSEphemeris{}

	eph.SatelliteID = uint(bits.GetUint64(embeddedMessage, pos, 6))
	pos += 6
	eph.Week = uint(bits.GetUint64(embeddedMessage, pos, 10))
	pos += 10
	eph.SVAccuracy = uint(bits.GetUint64(embeddedMessage, pos, 4))
	pos += 4
	eph.CodeOnL2 = uint(bits.GetUint64(embeddedMessage, pos, 2))
	pos += 2
	eph.IDOT = float64(bits.GetInt64(embeddedMessage, pos, 14)) * math.Pow(2, -43) * math.Pi
	pos += 14
	eph.IODE = uint(bits.GetUint64(embeddedMessage, pos, 8))
	pos += 8
	eph.Toc = uint(bits.GetUint64(embeddedMessage, pos, 16)) * 16
	pos += 16
	eph.Af2 = float64(bits.GetInt64(embeddedMessage, pos, 8)) * math.Pow(2, -55)
	pos += 8
	eph.Af1 = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -43)
	pos += 16
	eph.Af0 = float64(bits.GetInt64(embeddedMessage, pos, 22)) * math.Pow(2, -31)
	pos += 22
	eph.IODC = uint(bits.GetUint64(embeddedMessage, pos, 10))
	pos += 10
	eph.Crs = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -5)
	pos += 16
	eph.DeltaN = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -43) * math.Pi
	pos += 16
	eph.M0 = float64(bits.GetInt64(embeddedMessage, pos, 32)) * math.Pow(2, -31) * math.Pi
	pos += 32
	eph.Cuc = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -29)
	pos += 16
	eph.Eccentricity = float64(bits.GetUint64(embeddedMessage, pos, 32)) * math.Pow(2, -33)
	pos += 32
	eph.Cus = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -29)
	pos += 16
	eph.SqrtA = float64(bits.GetUint64(embeddedMessage, pos, 32)) * math.Pow(2, -19)
	pos += 32
	eph.Toe = uint(bits.GetUint64(embeddedMessage, pos, 16)) * 16
	pos += 16
	eph.Cic = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -29)
	pos += 16
	eph.Omega0 = float64(bits.GetInt64(embeddedMessage, pos, 32)) * math.Pow(2, -31) * math.Pi
	pos += 32
	eph.Cis = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -29)
	pos += 16
	eph.Inclination = float64(bits.GetInt64(embeddedMessage, pos, 32)) * math.Pow(2, -31) * math.Pi
	pos += 32
	eph.Crc = float64(bits.GetInt64(embeddedMessage, pos, 16)) * math.Pow(2, -5)
	pos += 16
	eph.Omega = float64(bits.GetInt64(embeddedMessage, pos, 32)) * math.Pow(2, -31) * math.Pi
	pos += 32
	eph.OmegaDot = float64(bits.GetInt64(embeddedMessage, pos, 24)) * math.Pow(2, -43) * math.Pi
	pos += 24
	eph.TGD = float64(bits.GetInt64(embeddedMessage, pos, 8)) * math.Pow(2, -31)
	pos += 8
	eph.SVHealth = uint(bits.GetUint64(embeddedMessage, pos, 6))

	return eph, nil
}

// GalileoEphemeris is the broken-out content of an RTCM 1046 message (the
// Galileo I/NAV ephemeris).  This repository only ever reads SatelliteID
// and Week from it, so those are the only fields decoded.
type GalileoEphemeris struct {
	SatelliteID uint

	// Week is the 12-bit Galileo week number (GST week) as broadcast.
	Week uint
}

// GetGalileoEphemeris decodes a 1046 message, the message type field
// onwards with the frame leader and CRC already removed.
func GetGalileoEphemeris(embeddedMessage []byte) (*GalileoEphemeris, error) {
	const lenMessageType = 12
	const lenSatelliteID = 6
	const lenWeek = 12
	const minBits = lenMessageType + lenSatelliteID + lenWeek

	if len(embeddedMessage)*8 < minBits {
		return nil, fmt.Errorf("message is %d bits, too short for Galileo ephemeris - need at least %d", len(embeddedMessage)*8, minBits)
	}

	messageType := int(bits.GetUint64(embeddedMessage, 0, lenMessageType))
	if messageType != msgtype.GalileoEphemeris {
		return nil, fmt.Errorf("message type %d is not Galileo ephemeris (1046)", messageType)
	}

	pos := uint(lenMessageType)
	satelliteID := uint(bits.GetUint64(embeddedMessage, pos, lenSatelliteID))
	pos += lenSatelliteID
	week := uint(bits.GetUint64(embeddedMessage, pos, lenWeek))

	return &GalileoEphemeris{SatelliteID: satelliteID, Week: week}, nil
}
