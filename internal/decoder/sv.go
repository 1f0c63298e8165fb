// Package decoder turns decoded RTCM3 messages (MSM headers, satellite and
// signal cells, ephemeris week numbers) into RINEX-shaped observation data:
// an ordered set of epochs, each holding one or more observation values per
// satellite and signal.  Everything upstream of this package deals in raw
// wire fields; this package is where those fields become pseudoranges,
// carrier phases, Doppler shifts and signal strengths, with loss-of-lock
// tracked across epochs.
package decoder

import "fmt"

// Constellation identifies which GNSS a satellite belongs to.
type Constellation int

const (
	GPS Constellation = iota
	Galileo
)

func (c Constellation) String() string {
	switch c {
	case GPS:
		return "GPS"
	case Galileo:
		return "Galileo"
	default:
		return fmt.Sprintf("Constellation(%d)", int(c))
	}
}

// SV identifies a single satellite vehicle: a constellation and a PRN
// (satellite) number as broadcast in the MSM satellite mask.
type SV struct {
	Constellation Constellation
	PRN           uint
}

func (s SV) String() string {
	return fmt.Sprintf("%s%02d", s.Constellation, s.PRN)
}

// Less gives SV a total order: constellation first, then PRN ascending.
// The accumulator and the snapshot it produces rely on this to keep
// satellites in a stable, deterministic order.
func (s SV) Less(other SV) bool {
	if s.Constellation != other.Constellation {
		return s.Constellation < other.Constellation
	}
	return s.PRN < other.PRN
}
