package decoder

import (
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm4"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm7"
)

// signalCodeGPS and signalCodeGalileo map an RTCM MSM signal ID (1-32) to
// its two-character RINEX signal code, band then attribute. Index i holds
// the code for signal ID i+1; an empty string marks a signal ID this
// constellation's signal plan doesn't define. Taken from the RTCM 10403.4
// MSM signal ID tables (the same tables RTKLIB ports as msm_sig_gps /
// msm_sig_gal).
var signalCodeGPS = [32]string{
	"", "1C", "1P", "1W", "", "", "", "2C", "2P", "2W", "", "",
	"", "", "2S", "2L", "2X", "", "", "", "", "5I", "5Q", "5X",
	"", "", "", "", "", "1S", "1L", "1X",
}

var signalCodeGalileo = [32]string{
	"", "1C", "1A", "1B", "1X", "1Z", "", "6C", "6A", "6B", "6X", "6Z",
	"", "7I", "7Q", "7X", "", "8I", "8Q", "8X", "", "5I", "5Q", "5X",
	"", "", "", "", "", "", "", "",
}

// signalCode returns the two-character RINEX signal code for a raw MSM
// signal ID, and whether one is defined.
func signalCode(constellation Constellation, signalID uint) (string, bool) {
	if signalID < 1 || signalID > 32 {
		return "", false
	}
	var table [32]string
	switch constellation {
	case GPS:
		table = signalCodeGPS
	case Galileo:
		table = signalCodeGalileo
	}
	code := table[signalID-1]
	return code, code != ""
}

const invalidRangeWholeMillis = 0xff

// MsmRow is one flattened (satellite, signal) record pulled out of an MSM
// message, ready for the synthesizer to turn into observables. MSM4 rows
// leave the phase-range-rate fields nil; only MSM7 carries them.
type MsmRow struct {
	Constellation Constellation
	SatelliteID   uint
	Band          string
	Attribute     string

	RoughRangeIntMs     *uint
	RoughRangeMod1ms    float64
	RoughPhaseRangeRate *float64 // metres per second

	FinePseudorangeMs    *float64
	FinePhaseRangeMs     *float64
	FinePhaseRangeRateMs *float64 // metres per second

	// CNR is the carrier-to-noise ratio in dB-Hz, already scaled: MSM4/6's
	// DF403/DF404 (1 dB-Hz per count) passes straight through, MSM7's
	// DF403/DF404 extended form (0.0625 dB-Hz per count) does not.
	CNR *float64

	LockTimeIndicator  uint16
	HalfCycleAmbiguity uint8
}

// Code is the two-character signal code "<band><attribute>".
func (r MsmRow) Code() string {
	return r.Band + r.Attribute
}

// NormalizeMSM4 flattens a decoded MSM4 message into one MsmRow per signal
// cell. Rows for a signal ID this constellation doesn't define are
// skipped.
func NormalizeMSM4(constellation Constellation, msg *msm4.Message) []MsmRow {
	satByID := make(map[uint]msm4.SatelliteCell, len(msg.Satellites))
	for _, sat := range msg.Satellites {
		satByID[sat.ID] = sat
	}

	var rows []MsmRow
	for _, satSignals := range msg.Signals {
		for _, sig := range satSignals {
			sat, ok := satByID[sig.SatelliteID]
			if !ok {
				continue
			}
			code, ok := signalCode(constellation, sig.SignalID)
			if !ok {
				continue
			}

			row := MsmRow{
				Constellation:      constellation,
				SatelliteID:        sig.SatelliteID,
				Band:                code[0:1],
				Attribute:           code[1:2],
				RoughRangeMod1ms:    float64(sat.RangeFractionalMillis) / 1024,
				LockTimeIndicator:   uint16(sig.LockTimeIndicator),
				HalfCycleAmbiguity:  boolToUint8(sig.HalfCycleAmbiguity),
			}
			if sat.RangeWholeMillis != invalidRangeWholeMillis {
				v := sat.RangeWholeMillis
				row.RoughRangeIntMs = &v
			}
			if sig.RangeDelta != msm4.InvalidRangeDelta {
				v := float64(sig.RangeDelta) * twoToMinus24
				row.FinePseudorangeMs = &v
			}
			if sig.PhaseRangeDelta != msm4.InvalidPhaseRangeDelta {
				v := float64(sig.PhaseRangeDelta) * twoToMinus29
				row.FinePhaseRangeMs = &v
			}
			cnr := float64(sig.CarrierToNoiseRatio)
			row.CNR = &cnr

			rows = append(rows, row)
		}
	}
	return rows
}

// NormalizeMSM7 flattens a decoded MSM7 message into one MsmRow per signal
// cell, including the phase-range-rate fields MSM4 doesn't carry.
func NormalizeMSM7(constellation Constellation, msg *msm7.Message) []MsmRow {
	satByID := make(map[uint]msm7.SatelliteCell, len(msg.Satellites))
	for _, sat := range msg.Satellites {
		satByID[sat.ID] = sat
	}

	var rows []MsmRow
	for _, satSignals := range msg.Signals {
		for _, sig := range satSignals {
			sat, ok := satByID[sig.SatelliteID]
			if !ok {
				continue
			}
			code, ok := signalCode(constellation, sig.SignalID)
			if !ok {
				continue
			}

			row := MsmRow{
				Constellation:      constellation,
				SatelliteID:        sig.SatelliteID,
				Band:                code[0:1],
				Attribute:           code[1:2],
				RoughRangeMod1ms:    float64(sat.RangeFractionalMillis) / 1024,
				LockTimeIndicator:   uint16(sig.LockTimeIndicator),
				HalfCycleAmbiguity:  boolToUint8(sig.HalfCycleAmbiguity),
			}
			if sat.RangeWholeMillis != invalidRangeWholeMillis {
				v := sat.RangeWholeMillis
				row.RoughRangeIntMs = &v
			}
			if sig.RangeDelta != msm7.InvalidRangeDelta {
				v := float64(sig.RangeDelta) * twoToMinus29
				row.FinePseudorangeMs = &v
			}
			if sig.PhaseRangeDelta != msm7.InvalidPhaseRangeDelta {
				v := float64(sig.PhaseRangeDelta) * twoToMinus31
				row.FinePhaseRangeMs = &v
			}
			if sat.PhaseRangeRate != msm7.InvalidPhaseRangeRate {
				v := float64(sat.PhaseRangeRate)
				row.RoughPhaseRangeRate = &v
			}
			if sig.PhaseRangeRateDelta != msm7.InvalidPhaseRangeRateDelta {
				v := float64(sig.PhaseRangeRateDelta) * phaseRangeRateDeltaScale
				row.FinePhaseRangeRateMs = &v
			}
			cnr := float64(sig.CarrierToNoiseRatio) * cnrExtendedScale
			row.CNR = &cnr

			rows = append(rows, row)
		}
	}
	return rows
}

const (
	twoToMinus24             = 1.0 / (1 << 24)
	twoToMinus29             = 1.0 / (1 << 29)
	twoToMinus31             = 1.0 / (1 << 31)
	phaseRangeRateDeltaScale = 0.0001

	// cnrExtendedScale converts MSM7's 10-bit extended CNR register (DF403
	// extended form) to dB-Hz: 0.0625 dB-Hz per count. MSM4/6's 6-bit field
	// is already whole dB-Hz and needs no scaling.
	cnrExtendedScale = 0.0625
)

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
