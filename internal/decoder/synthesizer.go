package decoder

// rangeMs is the distance in metres travelled by light in one millisecond -
// c * 1e-3.
const rangeMs = SpeedOfLight * 1e-3

// Synthesize turns one normalized MSM row into up to four observables
// (pseudorange, carrier phase, Doppler, signal strength) and inserts each
// into acc under (epochKey, sv, obsKey). Missing optional fields simply
// suppress the corresponding observable; nothing here is fatal except an
// unsupported (constellation, band), which is a programming error bubbled
// up from the frequency table.
func Synthesize(acc *Accumulator, tracker *LockTracker, row MsmRow, epochKey EpochKey) error {
	sv := SV{Constellation: row.Constellation, PRN: row.SatelliteID}
	code := row.Code()
	invLambda, err := inverseWavelength(row.Constellation, row.Band)
	if err != nil {
		return err
	}

	var roughRange float64
	var haveRoughRange bool
	if row.RoughRangeIntMs != nil {
		roughRange = (float64(*row.RoughRangeIntMs) + row.RoughRangeMod1ms) * rangeMs
		haveRoughRange = true
	}

	if haveRoughRange && row.FinePseudorangeMs != nil {
		value := roughRange + *row.FinePseudorangeMs*rangeMs
		acc.Insert(epochKey, sv, ObservableKey{Kind: PseudoRange, Code: code}, ObservationValue{Value: value})
	}

	if haveRoughRange && row.FinePhaseRangeMs != nil {
		sum := roughRange + *row.FinePhaseRangeMs*rangeMs
		value := sum * invLambda
		lli := tracker.Observe(sv, code, epochKey.Epoch, row.LockTimeIndicator, row.HalfCycleAmbiguity)
		acc.Insert(epochKey, sv, ObservableKey{Kind: Phase, Code: code}, ObservationValue{Value: value, LLI: &lli})
	}

	if row.RoughPhaseRangeRate != nil && row.FinePhaseRangeRateMs != nil {
		value := -(*row.RoughPhaseRangeRate + *row.FinePhaseRangeRateMs) * invLambda
		acc.Insert(epochKey, sv, ObservableKey{Kind: Doppler, Code: code}, ObservationValue{Value: value})
	}

	if row.CNR != nil {
		acc.Insert(epochKey, sv, ObservableKey{Kind: SSI, Code: code}, ObservationValue{Value: *row.CNR})
	}

	return nil
}
