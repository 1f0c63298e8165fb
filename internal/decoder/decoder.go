package decoder

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/ephemeris"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm4"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm7"
)

// DefaultWeekRolloverOffset is the number of GPS weeks (two 1024-week
// rollovers) added to the 10-bit week number broadcast in a 1019 message to
// get an absolute GPS week. It's correct for dates between 2019-04-07 and
// 2038; older or future captures need a different offset, which is why it's
// configurable rather than baked in.
const DefaultWeekRolloverOffset = 2048

// Decoder is the top-level RTCM-to-observation decoder core. It owns the
// observation accumulator, the lock tracker, and the week-number state
// learned from ephemeris messages; all three are mutated only by the
// goroutine that calls Dispatch or LoadFile.
type Decoder struct {
	accumulator *Accumulator
	tracker     *LockTracker

	// WeekRolloverOffset is added to the 10-bit GPS week number read off a
	// 1019 message. Defaults to DefaultWeekRolloverOffset.
	WeekRolloverOffset uint64

	gpsWeek      uint64
	gpsWeekKnown bool

	galileoWeek      uint64
	galileoWeekKnown bool

	logger *slog.Logger
}

// New creates an empty Decoder using the given lock tracker mode. A nil
// logger defaults to slog.Default().
func New(mode LockMode, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{
		accumulator:        NewAccumulator(),
		tracker:            NewLockTracker(mode),
		WeekRolloverOffset: DefaultWeekRolloverOffset,
		logger:             logger,
	}
}

// Clear resets the accumulator and the first/last epoch summary, but not
// the lock tracker's history or the learned week numbers. Because lock
// history survives a Clear, lock-loss flags computed after it still depend
// on what was processed before it - callers that want a truly fresh run
// should also call ResetLockHistory.
func (d *Decoder) Clear() {
	d.accumulator.Clear()
}

// ResetLockHistory discards the lock tracker's per-(SV, code) history,
// independently of Clear.
func (d *Decoder) ResetLockHistory() {
	d.tracker.Reset()
}

// FirstEpoch returns the earliest epoch in the accumulator.
func (d *Decoder) FirstEpoch() (Epoch, bool) {
	return d.accumulator.FirstEpoch()
}

// LastEpoch returns the latest epoch in the accumulator.
func (d *Decoder) LastEpoch() (Epoch, bool) {
	return d.accumulator.LastEpoch()
}

// Snapshot returns every accumulated record, in ascending (Epoch,
// EpochFlag) then SV order.
func (d *Decoder) Snapshot() []Record {
	return d.accumulator.Snapshot()
}

// ObservedSignals returns every (constellation, signal code) pair seen so
// far.
func (d *Decoder) ObservedSignals() []ObservedSignal {
	return d.accumulator.ObservedSignals()
}

// Dispatch routes one decoded RTCM message to the right handler by message
// type. Message types this repository doesn't decode are silently ignored,
// matching the framer's own policy of passing unknown types through rather
// than treating them as errors.
func (d *Decoder) Dispatch(message *rtcm3.Message) error {
	switch message.MessageType {
	case rtcm3.MessageTypeGPSEphemeris:
		eph, ok := message.Readable.(*ephemeris.GPSEphemeris)
		if !ok {
			return nil
		}
		d.gpsWeek = uint64(eph.Week) + d.weekRolloverOffset()
		d.gpsWeekKnown = true

	case rtcm3.MessageTypeGalileoEphemeris:
		eph, ok := message.Readable.(*ephemeris.GalileoEphemeris)
		if !ok {
			return nil
		}
		d.galileoWeek = uint64(eph.Week)
		d.galileoWeekKnown = true

	case rtcm3.MessageTypeMSM4GPS:
		return d.processMSM4(GPS, message)

	case rtcm3.MessageTypeMSM7GPS:
		return d.processMSM7(GPS, message)

	case rtcm3.MessageTypeMSM4Galileo:
		return d.processMSM4(Galileo, message)

	case rtcm3.MessageTypeMSM7Galileo:
		return d.processMSM7(Galileo, message)
	}

	return nil
}

func (d *Decoder) weekRolloverOffset() uint64 {
	if d.WeekRolloverOffset == 0 {
		return DefaultWeekRolloverOffset
	}
	return d.WeekRolloverOffset
}

// weekFor returns the known absolute week for constellation, or ok=false if
// no ephemeris message for it has been seen yet. An MSM that arrives before
// its constellation's week is known is dropped, not buffered - this is the
// single most consequential design choice in the decoder: observations at
// the start of a recording may be lost if the corresponding ephemeris
// message hasn't arrived yet.
func (d *Decoder) weekFor(constellation Constellation) (uint64, bool) {
	switch constellation {
	case GPS:
		return d.gpsWeek, d.gpsWeekKnown
	case Galileo:
		return d.galileoWeek, d.galileoWeekKnown
	default:
		return 0, false
	}
}

func (d *Decoder) epochFor(constellation Constellation, epochTimeMs uint) (Epoch, bool) {
	week, ok := d.weekFor(constellation)
	if !ok {
		return Epoch{}, false
	}
	if constellation == Galileo {
		return GalileoTimeToEpoch(float64(epochTimeMs), week), true
	}
	return GPSTimeToEpoch(float64(epochTimeMs), week), true
}

func (d *Decoder) processMSM4(constellation Constellation, message *rtcm3.Message) error {
	msg, ok := message.Readable.(*msm4.Message)
	if !ok {
		return nil
	}
	epoch, ok := d.epochFor(constellation, msg.Header.EpochTime)
	if !ok {
		d.logger.Debug("dropping MSM4 - week not yet known", slog.String("constellation", constellation.String()))
		return nil
	}
	rows := NormalizeMSM4(constellation, msg)
	return d.synthesizeAll(rows, epoch)
}

func (d *Decoder) processMSM7(constellation Constellation, message *rtcm3.Message) error {
	msg, ok := message.Readable.(*msm7.Message)
	if !ok {
		return nil
	}
	epoch, ok := d.epochFor(constellation, msg.Header.EpochTime)
	if !ok {
		d.logger.Debug("dropping MSM7 - week not yet known", slog.String("constellation", constellation.String()))
		return nil
	}
	rows := NormalizeMSM7(constellation, msg)
	return d.synthesizeAll(rows, epoch)
}

func (d *Decoder) synthesizeAll(rows []MsmRow, epoch Epoch) error {
	epochKey := EpochKey{Epoch: epoch, Flag: EpochOk}
	for _, row := range rows {
		if err := Synthesize(d.accumulator, d.tracker, row, epochKey); err != nil {
			var unsupported *UnsupportedSignalError
			if asUnsupportedSignal(err, &unsupported) {
				d.logger.Warn("skipping unsupported signal", slog.String("error", err.Error()))
				continue
			}
			return err
		}
	}
	return nil
}

func asUnsupportedSignal(err error, target **UnsupportedSignalError) bool {
	if u, ok := err.(*UnsupportedSignalError); ok {
		*target = u
		return true
	}
	return false
}

// LoadFile reads and decodes every RTCM message in path, dispatching each
// one in turn. It owns the full parse-and-dispatch loop described in the
// top-level decoder's external interface.
func (d *Decoder) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	framer := rtcm3.NewFramer(d.logger, true)
	messages := make(chan rtcm3.Message, 64)
	errCh := make(chan error, 1)
	go func() {
		errCh <- framer.ReadMessages(f, messages)
	}()

	for message := range messages {
		m := message
		if err := d.Dispatch(&m); err != nil {
			return err
		}
	}

	return <-errCh
}
