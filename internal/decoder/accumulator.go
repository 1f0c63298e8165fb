package decoder

import "sort"

// epochGroup is one row of the accumulator: the optional receiver clock
// offset for this epoch plus the per-satellite observable maps.
type epochGroup struct {
	clockOffset float64
	satellites  map[SV]map[ObservableKey]ObservationValue
}

// Record is one fully resolved (epoch, SV, observable) triple, as produced
// by Accumulator.Snapshot in ascending (Epoch, EpochFlag) then (SV) order.
type Record struct {
	Key         EpochKey
	ClockOffset float64
	SV          SV
	Observable  ObservableKey
	Value       ObservationValue
}

// Accumulator is an ordered, epoch-indexed table of observations. It also
// tracks the set of (constellation, signal code) pairs it has ever seen,
// for RINEX header construction.
type Accumulator struct {
	epochs      map[EpochKey]*epochGroup
	firstEpoch  *Epoch
	lastEpoch   *Epoch
	signalsSeen map[signalKey]struct{}
}

type signalKey struct {
	Constellation Constellation
	Code          string
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		epochs:      make(map[EpochKey]*epochGroup),
		signalsSeen: make(map[signalKey]struct{}),
	}
}

// Clear resets the accumulator and its first/last epoch summary. It does
// not touch any lock tracker history - that is a separate lifecycle, owned
// by the caller.
func (a *Accumulator) Clear() {
	a.epochs = make(map[EpochKey]*epochGroup)
	a.firstEpoch = nil
	a.lastEpoch = nil
	a.signalsSeen = make(map[signalKey]struct{})
}

// Insert stores value under (key, sv, obsKey), overwriting any existing
// value for that exact triple, and records the observed signal code.
func (a *Accumulator) Insert(key EpochKey, sv SV, obsKey ObservableKey, value ObservationValue) {
	group, ok := a.epochs[key]
	if !ok {
		group = &epochGroup{satellites: make(map[SV]map[ObservableKey]ObservationValue)}
		a.epochs[key] = group
	}
	if group.satellites[sv] == nil {
		group.satellites[sv] = make(map[ObservableKey]ObservationValue)
	}
	group.satellites[sv][obsKey] = value

	if a.firstEpoch == nil || key.Epoch.Before(*a.firstEpoch) {
		e := key.Epoch
		a.firstEpoch = &e
	}
	if a.lastEpoch == nil || a.lastEpoch.Before(key.Epoch) {
		e := key.Epoch
		a.lastEpoch = &e
	}
	a.signalsSeen[signalKey{Constellation: sv.Constellation, Code: obsKey.Code}] = struct{}{}
}

// FirstEpoch returns the earliest epoch stored, or ok=false if empty.
func (a *Accumulator) FirstEpoch() (Epoch, bool) {
	if a.firstEpoch == nil {
		return Epoch{}, false
	}
	return *a.firstEpoch, true
}

// LastEpoch returns the latest epoch stored, or ok=false if empty.
func (a *Accumulator) LastEpoch() (Epoch, bool) {
	if a.lastEpoch == nil {
		return Epoch{}, false
	}
	return *a.lastEpoch, true
}

// Snapshot returns every stored record, ordered by (Epoch, EpochFlag) then
// by SV (constellation, PRN).
func (a *Accumulator) Snapshot() []Record {
	keys := make([]EpochKey, 0, len(a.epochs))
	for k := range a.epochs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	var records []Record
	for _, key := range keys {
		group := a.epochs[key]
		svs := make([]SV, 0, len(group.satellites))
		for sv := range group.satellites {
			svs = append(svs, sv)
		}
		sort.Slice(svs, func(i, j int) bool { return svs[i].Less(svs[j]) })

		for _, sv := range svs {
			for obsKey, value := range group.satellites[sv] {
				records = append(records, Record{
					Key:         key,
					ClockOffset: group.clockOffset,
					SV:          sv,
					Observable:  obsKey,
					Value:       value,
				})
			}
		}
	}
	return records
}

// ObservedSignal is one (constellation, signal code) pair discovered in
// the accumulated data.
type ObservedSignal struct {
	Constellation Constellation
	Code          string
}

// ObservedSignals returns every (constellation, signal code) pair seen so
// far, in no particular order.
func (a *Accumulator) ObservedSignals() []ObservedSignal {
	signals := make([]ObservedSignal, 0, len(a.signalsSeen))
	for k := range a.signalsSeen {
		signals = append(signals, ObservedSignal{Constellation: k.Constellation, Code: k.Code})
	}
	return signals
}
