// Package header decodes the header shared by every Multiple Signal
// Message (MSM4 and MSM7, for any constellation RTCM defines them for).
// This repository only ever calls it for GPS and Galileo, but the bit
// layout itself doesn't vary by constellation so the decoder is generic.
package header

import (
	"fmt"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msgtype"
)

const lenMessageType = 12
const lenStationID = 12
const lenEpochTime = 30
const lenMultipleMessageFlag = 1
const lenIssueOfDataStation = 3
const lenSessionTransmissionTime = 7
const lenClockSteeringIndicator = 2
const lenExternalClockIndicator = 2
const lenGNSSDivergenceFreeSmoothingIndicator = 1
const lenGNSSSmoothingInterval = 3
const lenSatelliteMask = 64
const lenSignalMask = 32
const maxLengthOfCellMask = 64

const minBitsInHeader = lenMessageType + lenStationID +
	lenEpochTime + lenMultipleMessageFlag + lenIssueOfDataStation +
	lenSessionTransmissionTime + lenClockSteeringIndicator +
	lenExternalClockIndicator + lenGNSSDivergenceFreeSmoothingIndicator +
	lenGNSSSmoothingInterval + lenSatelliteMask + lenSignalMask

// Header holds the fixed and variable-length fields that precede the
// satellite and signal cells in an MSM message.
type Header struct {
	MessageType int

	// Constellation is "GPS" or "Galileo" - the only two this repository
	// decodes MSM headers for.
	Constellation string

	StationID               uint
	EpochTime               uint
	MultipleMessage         bool
	IssueOfDataStation      uint
	SessionTransmissionTime uint
	ClockSteeringIndicator  uint
	ExternalClockIndicator  uint

	GNSSDivergenceFreeSmoothingIndicator bool
	GNSSSmoothingInterval                uint

	// SatelliteMask has one bit per satellite: bit 63 is satellite 1,
	// bit 62 is satellite 2, and so on.
	SatelliteMask uint64

	// SignalMask has one bit per signal type observed across all
	// satellites in the message.
	SignalMask uint32

	// CellMask is nSatellites x nSignals bits, at most 64.
	CellMask uint64

	// Satellites lists the satellite IDs with a bit set in SatelliteMask.
	Satellites []uint

	// Signals lists the signal IDs with a bit set in SignalMask.
	Signals []uint

	// Cells[i][j] is true if Signals[j] was observed from Satellites[i].
	Cells [][]bool

	// NumSignalCells is len(Satellites) * len(Signals).
	NumSignalCells int
}

// GetMSMHeader extracts the header from an MSM message.  It returns the
// header and the bit position of the first satellite cell that follows it.
func GetMSMHeader(bitStream []byte) (*Header, uint, error) {
	lenBitStreamInBits := len(bitStream) * 8
	if lenBitStreamInBits < minBitsInHeader {
		return nil, 0, fmt.Errorf("bitstream is too short for an MSM header - got %d bits, expected at least %d",
			lenBitStreamInBits, minBitsInHeader)
	}

	var pos uint
	messageType := int(bits.GetUint64(bitStream, pos, lenMessageType))
	pos += lenMessageType

	if !msgtype.IsMSM(messageType) {
		return nil, 0, fmt.Errorf("message type %d is not a supported MSM4 or MSM7", messageType)
	}

	stationID := uint(bits.GetUint64(bitStream, pos, lenStationID))
	pos += lenStationID

	epochTime := uint(bits.GetUint64(bitStream, pos, lenEpochTime))
	pos += lenEpochTime

	multipleMessage := bits.GetUint64(bitStream, pos, lenMultipleMessageFlag) == 1
	pos += lenMultipleMessageFlag

	issueOfDataStation := uint(bits.GetUint64(bitStream, pos, lenIssueOfDataStation))
	pos += lenIssueOfDataStation

	sessionTransmissionTime := uint(bits.GetUint64(bitStream, pos, lenSessionTransmissionTime))
	pos += lenSessionTransmissionTime

	clockSteeringIndicator := uint(bits.GetUint64(bitStream, pos, lenClockSteeringIndicator))
	pos += lenClockSteeringIndicator

	externalClockIndicator := uint(bits.GetUint64(bitStream, pos, lenExternalClockIndicator))
	pos += lenExternalClockIndicator

	gnssDivergenceFreeSmoothingIndicator := bits.GetUint64(bitStream, pos, lenGNSSDivergenceFreeSmoothingIndicator) == 1
	pos += lenGNSSDivergenceFreeSmoothingIndicator

	gnssSmoothingInterval := uint(bits.GetUint64(bitStream, pos, lenGNSSSmoothingInterval))
	pos += lenGNSSSmoothingInterval

	satelliteMask := bits.GetUint64(bitStream, pos, lenSatelliteMask)
	pos += lenSatelliteMask
	satellites := satellitesFromMask(satelliteMask)

	signalMask := uint32(bits.GetUint64(bitStream, pos, lenSignalMask))
	pos += lenSignalMask
	signals := signalsFromMask(signalMask)

	lenCellMaskBits := uint(len(satellites) * len(signals))
	if lenCellMaskBits > maxLengthOfCellMask {
		return nil, 0, fmt.Errorf("cell mask is %d bits - expected <= %d", lenCellMaskBits, maxLengthOfCellMask)
	}

	lengthRequired := minBitsInHeader + lenCellMaskBits
	if uint(lenBitStreamInBits) < lengthRequired {
		return nil, 0, fmt.Errorf("bitstream is too short for an MSM header with %d cell mask bits - got %d bits, expected at least %d",
			lenCellMaskBits, lenBitStreamInBits, lengthRequired)
	}

	cellMask := bits.GetUint64(bitStream, pos, lenCellMaskBits)
	pos += lenCellMaskBits

	header := &Header{
		MessageType:                          messageType,
		Constellation:                        constellationFromMessageType(messageType),
		StationID:                            stationID,
		EpochTime:                            epochTime,
		MultipleMessage:                      multipleMessage,
		IssueOfDataStation:                   issueOfDataStation,
		SessionTransmissionTime:              sessionTransmissionTime,
		ClockSteeringIndicator:               clockSteeringIndicator,
		ExternalClockIndicator:               externalClockIndicator,
		GNSSDivergenceFreeSmoothingIndicator: gnssDivergenceFreeSmoothingIndicator,
		GNSSSmoothingInterval:                gnssSmoothingInterval,
		SatelliteMask:                        satelliteMask,
		SignalMask:                           signalMask,
		CellMask:                             cellMask,
		Satellites:                           satellites,
		Signals:                              signals,
		NumSignalCells:                       len(satellites) * len(signals),
	}
	header.Cells = cellsFromMask(cellMask, len(satellites), len(signals))

	return header, pos, nil
}

func constellationFromMessageType(messageType int) string {
	switch messageType {
	case msgtype.MSM4GPS, msgtype.MSM7GPS:
		return "GPS"
	case msgtype.MSM4Galileo, msgtype.MSM7Galileo:
		return "Galileo"
	default:
		return "unknown"
	}
}

func satellitesFromMask(mask uint64) []uint {
	satellites := make([]uint, 0)
	for satNum := 1; satNum <= lenSatelliteMask; satNum++ {
		bitPosition := lenSatelliteMask - satNum
		if (mask>>bitPosition)&1 == 1 {
			satellites = append(satellites, uint(satNum))
		}
	}
	return satellites
}

func signalsFromMask(mask uint32) []uint {
	signals := make([]uint, 0)
	for sigNum := 1; sigNum <= lenSignalMask; sigNum++ {
		bitPosition := lenSignalMask - sigNum
		if (mask>>bitPosition)&1 == 1 {
			signals = append(signals, uint(sigNum))
		}
	}
	return signals
}

func cellsFromMask(mask uint64, numSatellites, numSignals int) [][]bool {
	numberOfCells := numSatellites * numSignals
	cellNumber := 0
	cells := make([][]bool, 0, numSatellites)
	for i := 0; i < numSatellites; i++ {
		row := make([]bool, 0, numSignals)
		for j := 0; j < numSignals; j++ {
			cellNumber++
			bitPosition := numberOfCells - cellNumber
			row = append(row, (mask>>bitPosition)&1 == 1)
		}
		cells = append(cells, row)
	}
	return cells
}
