package rtcm3

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goblimey/rtcm2rinex/internal/rtcm3/bits"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/ephemeris"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm4"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/msm/msm7"
	"github.com/goblimey/rtcm2rinex/internal/rtcm3/station"
)

// defaultWaitTimeOnEOF is how long Framer pauses before retrying a read
// that hit a non-fatal EOF (a live stream with nothing to read yet).
const defaultWaitTimeOnEOF = 100 * time.Microsecond

// Framer reads a byte stream, finds RTCM3 message frames within it and
// decodes the ones this repository understands.  Unlike a live NTRIP
// handler it keeps no calendar-time state of its own - message timestamps
// are milliseconds-since-start-of-week counters, and turning those into
// absolute epochs is the decoder core's job (it learns the week number
// from the ephemeris messages), not the framer's.
type Framer struct {
	// StopOnEOF is set when reading a fixed file rather than a live
	// stream: EOF then means "no more data", not "nothing yet".
	StopOnEOF bool

	// WaitTimeOnEOF is how long to pause before retrying after a
	// non-fatal EOF.
	WaitTimeOnEOF time.Duration

	logger *slog.Logger
}

// NewFramer creates a Framer.  A nil logger defaults to slog.Default().
func NewFramer(logger *slog.Logger, stopOnEOF bool) *Framer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Framer{logger: logger, StopOnEOF: stopOnEOF, WaitTimeOnEOF: defaultWaitTimeOnEOF}
}

// ReadMessages reads from r until it's exhausted (or, if StopOnEOF is
// false, forever), sending each decoded or pass-through Message to out.
func (f *Framer) ReadMessages(r io.Reader, out chan<- Message) error {
	defer close(out)
	bufferedReader := bufio.NewReaderSize(r, 64*1024)

	for {
		message, err := f.ReadNextMessage(bufferedReader)
		if err != nil {
			if message == nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			f.logger.Debug("ignoring frame error", slog.String("error", err.Error()))
		}

		if message == nil {
			f.pause()
			continue
		}

		out <- *message
	}
}

// ReadNextMessage reads the next frame from reader and decodes it.
func (f *Framer) ReadNextMessage(reader *bufio.Reader) (*Message, error) {
	frame, err := f.ReadNextFrame(reader)
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, nil
	}
	return f.GetMessage(frame)
}

// ReadNextFrame returns the next RTCM3 frame from reader, or a chunk of
// non-RTCM text that precedes one.  It is grounded on the frame-sync loop
// used throughout the teacher's NTRIP handler: eat bytes up to the leader
// byte 0xd3, then read the two-byte length field, then read exactly that
// many more bytes.
func (f *Framer) ReadNextFrame(reader *bufio.Reader) ([]byte, error) {
	var frame []byte
	var err error
	for {
		frame, err = reader.ReadBytes(StartOfMessageFrame)
		if err != nil {
			if len(frame) == 0 {
				if err == io.EOF {
					if f.StopOnEOF {
						return nil, err
					}
					return nil, nil
				}
				return nil, err
			}
			// There is some text even though the read ended in error;
			// deal with the text now and let the next call see the error again.
		}

		if len(frame) == 0 {
			f.pause()
			continue
		}
		break
	}

	if len(frame) > 1 {
		if frame[len(frame)-1] == StartOfMessageFrame {
			reader.UnreadByte()
			return frame[:len(frame)-1], nil
		}
		return frame, nil
	}

	// frame is just the leader byte - read the rest of the frame.
	n := 1
	var expectedFrameLength uint
	for {
		b, readErr := reader.ReadByte()
		if readErr != nil {
			if readErr != io.EOF {
				return frame, nil
			}
			if f.StopOnEOF {
				return frame, nil
			}
			f.pause()
			continue
		}

		frame = append(frame, b)
		n++

		switch {
		case n < LeaderLengthBytes+2:
			continue

		case n == LeaderLengthBytes+2:
			length, _, lengthErr := getMessageLengthAndType(frame)
			if lengthErr != nil {
				return frame, nil
			}
			expectedFrameLength = length + LeaderLengthBytes + CRCLengthBytes
			continue

		case uint(n) >= expectedFrameLength:
			return frame, nil

		default:
			continue
		}
	}
}

// getMessageLengthAndType extracts the payload length and message type
// from the first five bytes of a frame.
func getMessageLengthAndType(bitStream []byte) (uint, int, error) {
	if len(bitStream) < LeaderLengthBytes+2 {
		return 0, NonRTCMMessage, errors.New("frame too short for header and length")
	}

	if bitStream[0] != StartOfMessageFrame {
		return 0, NonRTCMMessage, fmt.Errorf("frame starts with 0x%02x not 0xd3", bitStream[0])
	}

	sanityCheck := bits.GetUint64(bitStream, 8, 6)
	if sanityCheck != 0 {
		return 0, NonRTCMMessage, fmt.Errorf("bits 8-13 of header are %d, must be 0", sanityCheck)
	}

	length := uint(bits.GetUint64(bitStream, 14, 10))
	messageType := int(bits.GetUint64(bitStream, 24, 12))

	if length == 0 {
		return 0, messageType, fmt.Errorf("zero length message type %d", messageType)
	}

	return length, messageType, nil
}

// GetMessage turns a candidate frame into a Message, checking the CRC and
// decoding the payload if it's a type this repository understands.
func (f *Framer) GetMessage(bitStream []byte) (*Message, error) {
	if len(bitStream) == 0 {
		return nil, errors.New("zero length message frame")
	}

	if bitStream[0] != StartOfMessageFrame {
		return NewNonRTCM(bitStream), nil
	}

	messageLength, messageType, formatErr := getMessageLengthAndType(bitStream)
	if formatErr != nil {
		return NewMessage(NonRTCMMessage, formatErr.Error(), bitStream), formatErr
	}

	frameLength := uint(len(bitStream))
	expectedFrameLength := messageLength + LeaderLengthBytes + CRCLengthBytes
	if expectedFrameLength > frameLength {
		warning := "incomplete message frame"
		return NewMessage(NonRTCMMessage, warning, bitStream[:frameLength]), errors.New(warning)
	}

	if !CheckCRC(bitStream) {
		warning := "CRC is not valid"
		return NewMessage(NonRTCMMessage, warning, bitStream[:frameLength]), errors.New(warning)
	}

	message := NewMessage(messageType, "", bitStream[:expectedFrameLength])
	f.Analyse(message)
	return message, nil
}

// Analyse decodes the payload of message if its type is one this
// repository understands, filling in Readable.  Unrecognised types (and
// any decode error) are left with Readable nil; the raw frame is always
// available on the message for the caller to log or pass through.
//
// The subpackage decoders all expect the embedded message - the message
// type field onwards, with the 3-byte frame leader and the 3-byte CRC
// trailer already removed - so that's what gets passed to them here.
func (f *Framer) Analyse(message *Message) {
	if len(message.RawData) <= LeaderLengthBytes+CRCLengthBytes {
		return
	}
	embeddedMessage := message.RawData[LeaderLengthBytes : len(message.RawData)-CRCLengthBytes]

	switch {
	case MSM4(message.MessageType):
		m, err := msm4.GetMessage(embeddedMessage)
		if err != nil {
			message.ErrorMessage = err.Error()
			f.logger.Warn("failed to decode MSM4", slog.Int("messageType", message.MessageType), slog.String("error", err.Error()))
			return
		}
		message.Readable = m

	case MSM7(message.MessageType):
		m, err := msm7.GetMessage(embeddedMessage)
		if err != nil {
			message.ErrorMessage = err.Error()
			f.logger.Warn("failed to decode MSM7", slog.Int("messageType", message.MessageType), slog.String("error", err.Error()))
			return
		}
		message.Readable = m

	case message.MessageType == MessageTypeGPSEphemeris:
		m, err := ephemeris.GetGPSEphemeris(embeddedMessage)
		if err != nil {
			message.ErrorMessage = err.Error()
			f.logger.Warn("failed to decode GPS ephemeris", slog.String("error", err.Error()))
			return
		}
		message.Readable = m

	case message.MessageType == MessageTypeGalileoEphemeris:
		m, err := ephemeris.GetGalileoEphemeris(embeddedMessage)
		if err != nil {
			message.ErrorMessage = err.Error()
			f.logger.Warn("failed to decode Galileo ephemeris", slog.String("error", err.Error()))
			return
		}
		message.Readable = m

	case message.MessageType == MessageTypeStationPosition:
		m, err := station.GetMessage(embeddedMessage)
		if err != nil {
			message.ErrorMessage = err.Error()
			f.logger.Warn("failed to decode station position", slog.String("error", err.Error()))
			return
		}
		message.Readable = m
	}
}

func (f *Framer) pause() {
	time.Sleep(f.WaitTimeOnEOF)
}
