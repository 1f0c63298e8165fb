package decoder

import "fmt"

// SpeedOfLight is c in metres per second.
const SpeedOfLight float64 = 299792458.0

// GPS carrier frequencies, Hz.
const (
	freqGPSL1 float64 = 1.57542e9
	freqGPSL2 float64 = 1.22760e9
	freqGPSL5 float64 = 1.17645e9
)

// Galileo carrier frequencies, Hz.
const (
	freqGalileoE1  float64 = 1.57542e9
	freqGalileoE5a float64 = 1.17645e9
	freqGalileoE6  float64 = 1.27875e9
	freqGalileoE5b float64 = 1.20714e9
	freqGalileoE5  float64 = 1.191795e9
)

// UnsupportedSignalError marks a (constellation, band) combination the
// frequency table has no entry for.  This is always a programming error -
// the caller should have filtered the message before it reached here.  The
// Decoder logs it at Warn and skips the offending row rather than aborting.
type UnsupportedSignalError struct {
	Constellation Constellation
	Band          string
}

func (e *UnsupportedSignalError) Error() string {
	return fmt.Sprintf("unsupported signal: %s band %s", e.Constellation, e.Band)
}

// carrierFrequency returns the carrier frequency in Hz for a
// constellation/band pair.
func carrierFrequency(constellation Constellation, band string) (float64, error) {
	switch constellation {
	case GPS:
		switch band {
		case "1":
			return freqGPSL1, nil
		case "2":
			return freqGPSL2, nil
		case "5":
			return freqGPSL5, nil
		}
	case Galileo:
		switch band {
		case "1":
			return freqGalileoE1, nil
		case "5":
			return freqGalileoE5a, nil
		case "6":
			return freqGalileoE6, nil
		case "7":
			return freqGalileoE5b, nil
		case "8":
			return freqGalileoE5, nil
		}
	}
	return 0, &UnsupportedSignalError{Constellation: constellation, Band: band}
}

// inverseWavelength returns f/c for a constellation/band pair - the inverse
// of the true wavelength (1/lambda), in cycles per metre.  The name
// documents what the value actually is: multiplying a distance in metres by
// this factor gives cycles, which is what the synthesizer needs to turn a
// phase range sum into a cycle count and a range rate into a Doppler shift.
// It is not a wavelength in the conventional sense (that would be c/f).
func inverseWavelength(constellation Constellation, band string) (float64, error) {
	f, err := carrierFrequency(constellation, band)
	if err != nil {
		return 0, err
	}
	return f / SpeedOfLight, nil
}
