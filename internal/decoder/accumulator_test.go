package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulator_OrderingAndOverwrite(t *testing.T) {
	acc := NewAccumulator()
	later := EpochKey{Epoch: GPSTimeToEpoch(1000, 2334), Flag: EpochOk}
	earlier := EpochKey{Epoch: GPSTimeToEpoch(0, 2334), Flag: EpochOk}

	acc.Insert(later, sv(5), ObservableKey{Kind: SSI, Code: "1C"}, ObservationValue{Value: 1})
	acc.Insert(earlier, sv(5), ObservableKey{Kind: SSI, Code: "1C"}, ObservationValue{Value: 2})
	acc.Insert(earlier, sv(5), ObservableKey{Kind: SSI, Code: "1C"}, ObservationValue{Value: 3})

	records := acc.Snapshot()
	assert.Len(t, records, 2)
	assert.Equal(t, earlier, records[0].Key)
	assert.Equal(t, 3.0, records[0].Value.Value)
	assert.Equal(t, later, records[1].Key)

	first, ok := acc.FirstEpoch()
	assert.True(t, ok)
	assert.True(t, first.Equal(earlier.Epoch))

	last, ok := acc.LastEpoch()
	assert.True(t, ok)
	assert.True(t, last.Equal(later.Epoch))
}

func TestAccumulator_ObservedSignals(t *testing.T) {
	acc := NewAccumulator()
	key := EpochKey{Epoch: GPSTimeToEpoch(0, 2334), Flag: EpochOk}
	galileoSV := SV{Constellation: Galileo, PRN: 11}

	acc.Insert(key, galileoSV, ObservableKey{Kind: SSI, Code: "5Q"}, ObservationValue{Value: 40})
	acc.Insert(key, galileoSV, ObservableKey{Kind: PseudoRange, Code: "5Q"}, ObservationValue{Value: 1})

	signals := acc.ObservedSignals()
	assert.Len(t, signals, 1)
	assert.Equal(t, ObservedSignal{Constellation: Galileo, Code: "5Q"}, signals[0])
}

func TestAccumulator_ClearKeepsNothing(t *testing.T) {
	acc := NewAccumulator()
	key := EpochKey{Epoch: GPSTimeToEpoch(0, 2334), Flag: EpochOk}
	acc.Insert(key, sv(5), ObservableKey{Kind: SSI, Code: "1C"}, ObservationValue{Value: 1})
	acc.Clear()
	assert.Empty(t, acc.Snapshot())
	_, ok := acc.FirstEpoch()
	assert.False(t, ok)
}
