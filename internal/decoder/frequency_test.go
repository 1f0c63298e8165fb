package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarrierFrequency_KnownBands(t *testing.T) {
	f, err := carrierFrequency(GPS, "1")
	require.NoError(t, err)
	assert.InDelta(t, 1.57542e9, f, 1)

	f, err = carrierFrequency(Galileo, "7")
	require.NoError(t, err)
	assert.InDelta(t, 1.20714e9, f, 1)
}

func TestCarrierFrequency_Unsupported(t *testing.T) {
	_, err := carrierFrequency(GPS, "6")
	require.Error(t, err)
	var unsupported *UnsupportedSignalError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, GPS, unsupported.Constellation)
	assert.Equal(t, "6", unsupported.Band)
}

// The name documents what's actually computed: f/c, the inverse of a true
// wavelength. See the synthesizer tests for the numeric laws that depend on
// this.
func TestInverseWavelength_IsFrequencyOverC(t *testing.T) {
	inv, err := inverseWavelength(GPS, "1")
	require.NoError(t, err)
	assert.InDelta(t, 1.57542e9/SpeedOfLight, inv, 1e-12)
}
