// Package rinexwriter serializes a decoder.Accumulator snapshot into a
// RINEX 3.0 observation file. It is a downstream collaborator: it never
// looks at raw RTCM bytes, only at the decoder's already-resolved epoch
// table and discovered-signal set.
package rinexwriter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goblimey/rtcm2rinex/internal/decoder"
)

// gpstEpoch is the calendar date of GPST week 0, day 0, second 0 - the
// origin decoder.Epoch's instant is measured from.
var gpstEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

func calendarTime(e decoder.Epoch, instantSeconds float64) time.Time {
	return gpstEpoch.Add(time.Duration(instantSeconds * float64(time.Second)))
}

// nowStamp formats the current wall-clock time in the RINEX header's
// "yyyymmdd hhmmss zone" convention.
func nowStamp() string {
	return time.Now().UTC().Format("20060102 150405 UTC")
}

// systemLetter returns the RINEX satellite system letter for a
// constellation: "G" for GPS, "E" for Galileo.
func systemLetter(c decoder.Constellation) string {
	if c == decoder.Galileo {
		return "E"
	}
	return "G"
}

// Write renders records and observedSignals as a RINEX 3.0 observation file
// at path. Epoch instants are turned into calendar times through the
// exported decoder.Epoch.Seconds accessor.
func Write(path string, records []decoder.Record, observedSignals []decoder.ObservedSignal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteTo(f, records, observedSignals)
}

// WriteTo renders records and observedSignals as a RINEX 3.0 observation
// file to w. Each call gets its own run ID, stamped into the "PGM / RUN
// BY / DATE" header line so a RINEX file can be traced back to the
// conversion that produced it.
func WriteTo(w io.Writer, records []decoder.Record, observedSignals []decoder.ObservedSignal) error {
	codesBySystem := observedCodesBySystem(observedSignals)
	runID := uuid.NewString()

	if err := writeHeader(w, records, codesBySystem, runID); err != nil {
		return err
	}
	return writeEpochs(w, records, codesBySystem)
}

func observedCodesBySystem(observedSignals []decoder.ObservedSignal) map[string][]string {
	bySystem := make(map[string][]string)
	for _, s := range observedSignals {
		sys := systemLetter(s.Constellation)
		bySystem[sys] = append(bySystem[sys], s.Code)
	}
	for sys := range bySystem {
		sort.Strings(bySystem[sys])
	}
	return bySystem
}

func writeHeader(w io.Writer, records []decoder.Record, codesBySystem map[string][]string, runID string) error {
	label := func(content, name string) error {
		_, err := fmt.Fprintf(w, "%-60s%-20s\n", content, name)
		return err
	}

	if err := label("     3.00           OBSERVATION DATA    M (MIXED)", "RINEX VERSION / TYPE"); err != nil {
		return err
	}
	runByDate := fmt.Sprintf("%-20s%-20s%-20s", "rtcm2rinex", runID, nowStamp())
	if err := label(runByDate, "PGM / RUN BY / DATE"); err != nil {
		return err
	}
	if err := label("", "MARKER NAME"); err != nil {
		return err
	}
	if err := label("", "OBSERVER / AGENCY"); err != nil {
		return err
	}
	if err := label("", "REC # / TYPE / VERS"); err != nil {
		return err
	}
	if err := label("", "ANT # / TYPE"); err != nil {
		return err
	}
	if err := label(fmt.Sprintf("%14.4f%14.4f%14.4f", 0.0, 0.0, 0.0), "APPROX POSITION XYZ"); err != nil {
		return err
	}

	systems := make([]string, 0, len(codesBySystem))
	for sys := range codesBySystem {
		systems = append(systems, sys)
	}
	sort.Strings(systems)

	for _, sys := range systems {
		codes := codesBySystem[sys]
		typesField := fmt.Sprintf("%s  %3d", sys, len(codes)*4)
		for _, code := range codes {
			for _, kind := range []string{"C", "L", "D", "S"} {
				typesField += fmt.Sprintf(" %s%s", kind, code)
			}
		}
		if err := label(typesField, "SYS / # / OBS TYPES"); err != nil {
			return err
		}
	}

	if err := label(fmt.Sprintf("%11.3f", 1.0), "INTERVAL"); err != nil {
		return err
	}

	if len(records) > 0 {
		first := records[0].Key.Epoch
		t := calendarTime(first, first.Seconds())
		timeLine := fmt.Sprintf("  %4d%6d%6d%6d%6d%13.7f     GPS",
			t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), float64(t.Second())+float64(t.Nanosecond())/1e9)
		if err := label(timeLine, "TIME OF FIRST OBS"); err != nil {
			return err
		}
	}

	return label("", "END OF HEADER")
}

func writeEpochs(w io.Writer, records []decoder.Record, codesBySystem map[string][]string) error {
	type satRecords struct {
		sv   decoder.SV
		vals map[string]decoder.ObservationValue
	}

	i := 0
	for i < len(records) {
		key := records[i].Key
		var sats []satRecords
		var bySV = map[decoder.SV]map[string]decoder.ObservationValue{}
		var order []decoder.SV

		for i < len(records) && records[i].Key == key {
			r := records[i]
			if _, ok := bySV[r.SV]; !ok {
				bySV[r.SV] = make(map[string]decoder.ObservationValue)
				order = append(order, r.SV)
			}
			bySV[r.SV][r.Observable.RinexCode()] = r.Value
			i++
		}
		for _, sv := range order {
			sats = append(sats, satRecords{sv: sv, vals: bySV[sv]})
		}

		t := calendarTime(key.Epoch, key.Epoch.Seconds())
		if _, err := fmt.Fprintf(w, "> %4d %02d %02d %02d %02d%11.7f  %d%3d\n",
			t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(),
			float64(t.Second())+float64(t.Nanosecond())/1e9, int(key.Flag), len(sats)); err != nil {
			return err
		}

		for _, sat := range sats {
			sys := systemLetter(sat.sv.Constellation)
			line := fmt.Sprintf("%s%02d", sys, sat.sv.PRN)
			codes := codesBySystem[sys]
			for _, code := range codes {
				for _, kind := range []string{"C", "L", "D", "S"} {
					v, ok := sat.vals[kind+code]
					if !ok {
						line += fmt.Sprintf("%16s", "")
						continue
					}
					lli := 0
					if v.LLI != nil {
						lli = int(*v.LLI)
					}
					line += fmt.Sprintf("%14.3f%1d%1s", v.Value, lli, " ")
				}
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
