package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPSTimeToEpoch(t *testing.T) {
	e := GPSTimeToEpoch(300_000, 2334)
	assert.Equal(t, float64(2334)*secondsPerWeek+300, e.Seconds())
}

func TestGalileoTimeToEpoch_FoldedOntoGPSTScale(t *testing.T) {
	// Galileo week 0 should land on the same instant as GPS week 1024.
	galileo := GalileoTimeToEpoch(0, 0)
	gps := GPSTimeToEpoch(0, gstToGPSTWeekOffset)
	assert.True(t, galileo.Equal(gps))
}

func TestClampTowSeconds(t *testing.T) {
	assert.Equal(t, 123.0, clampTowSeconds(123))
	assert.Equal(t, 0.0, clampTowSeconds(2e9))
	assert.Equal(t, 0.0, clampTowSeconds(-2e9))
}

func TestEpochKeyLess(t *testing.T) {
	earlier := EpochKey{Epoch: GPSTimeToEpoch(0, 100), Flag: EpochOk}
	later := EpochKey{Epoch: GPSTimeToEpoch(1000, 100), Flag: EpochOk}
	assert.True(t, earlier.Less(later))
	assert.False(t, later.Less(earlier))
}
