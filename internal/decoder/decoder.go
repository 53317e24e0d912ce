package decoder

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/store"
	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// pollTimeout bounds each single-byte read attempt. It is independent of
// the caller's message_timeout_s, which bounds total quiescence.
const pollTimeout = 100 * time.Millisecond

// Link is the byte-pipe a StreamDecoder reads from. *bytelink.ByteLink
// satisfies this.
type Link interface {
	Read(buf []byte, overrideTimeout ...time.Duration) (int, error)
}

// Sink receives the decoded text form of one or more sampling sessions.
// *store.SampleStore satisfies this.
type Sink interface {
	WriteHeader() error
	WriteSample(seq uint8, index uint16, x, y, z float64) error
	WriteMetadata(m store.Metadata) error
}

type sessionState int

const (
	stateIdle sessionState = iota
	stateRunning
	stateTerminating
)

// StreamDecoder turns a raw byte stream from the controller into typed
// frames, dispatches them, and optionally renders accepted samples to a
// Sink. One StreamDecoder instance is used for the lifetime of one
// Decode call; it is not safe to call Decode concurrently on the same
// instance.
type StreamDecoder struct {
	link Link
	log  *logrus.Entry
}

// New constructs a StreamDecoder reading from link.
func New(link Link, log *logrus.Entry) *StreamDecoder {
	return &StreamDecoder{link: link, log: log}
}

// Decode runs the session state machine until ctx is canceled or a
// terminating condition is reached.
//
// If sink is non-nil, accepted samples and the trailing metadata comment
// are written to it. If returnOnStop is true, or sink is non-nil, the
// decoder returns after the first completed sampling session; otherwise
// it keeps running across repeated start/stop cycles on the same link,
// incrementing its session sequence number each time (Open Question
// resolution: this mirrors the original implementation, which ties
// "return after stop" to either return_on_stop or an open sink, rather
// than letting the two vary independently).
//
// message_timeout_s of 0 disables the quiescence timeout. Cancellation
// via ctx is checked at the top of every loop iteration; on cancel the
// decoder returns (nil, no frames emitted) rather than an error — the
// caller distinguishes "stopped ahead of time" by inspecting ctx.Err()
// after Decode returns.
func (d *StreamDecoder) Decode(ctx context.Context, returnOnStop bool, messageTimeoutS float64, sink Sink) error {
	var (
		buf          []byte
		state        = stateIdle
		seq          uint8
		received     uint16
		requested    uint16
		meta         store.Metadata
		lastByteTime = time.Now()
		startTime    time.Time
		pendingStop  bool
	)

	for {
		select {
		case <-ctx.Done():
			d.log.Debug(&CancelRequested{})
			return nil
		default:
		}

		var one [1]byte
		n, err := d.link.Read(one[:], pollTimeout)
		if err != nil {
			return &IoError{Err: err}
		}

		if n == 0 {
			if state == stateTerminating {
				if sink != nil {
					if err := sink.WriteMetadata(meta); err != nil {
						return &IoError{Err: err}
					}
				}
				if pendingStop {
					return nil
				}
				state = stateIdle
				continue
			}
			if messageTimeoutS != 0 {
				if observed := time.Since(lastByteTime).Seconds(); observed > messageTimeoutS {
					return &ReadTimeout{LimitS: messageTimeoutS, ObservedS: observed}
				}
			}
			continue
		}

		lastByteTime = time.Now()
		buf = append(buf, one[0])

		frame, consumed, _ := wire.Decode(buf)
		if consumed == 0 {
			continue
		}
		buf = buf[consumed:]

		if frame.Unknown {
			return &UnknownResponse{HeaderId: frame.Header}
		}

		switch body := frame.Body.(type) {
		case wire.RxFifoOverflow:
			return &FifoOverflow{}
		case wire.RxBufferOverflow:
			return &BufferOverflow{}
		case wire.RxTransmissionError:
			return &TransmissionError{}
		case wire.RxFault:
			return &ControllerFault{Code: body.Code}

		case wire.RxSamplingStarted:
			state = stateRunning
			received = 0
			requested = body.MaxSamples
			startTime = time.Now()
			meta.Samples.Requested = strconv.Itoa(int(requested))
			if sink != nil {
				if err := sink.WriteHeader(); err != nil {
					return &IoError{Err: err}
				}
			}

		case wire.FirmwareVersion:
			meta.Firmware.Version = body.String()

		case wire.RxBufferStatus:
			d.log.WithFields(logrus.Fields{
				"size_bytes": body.SizeBytes, "capacity_total": body.CapacityTotal,
				"capacity_used_max": body.CapacityUsedMax,
			}).Debug("buffer status")

		case wire.RxDeviceSetup:
			meta.Rate = body.ODR.String()
			meta.Range = body.Range.String()
			meta.Scale = body.Scale.String()

		case wire.RxAcceleration:
			if body.Index != received {
				return &SequenceError{Expected: received, Got: body.Index}
			}
			if sink != nil {
				if err := sink.WriteSample(seq, body.Index, body.X, body.Y, body.Z); err != nil {
					return &IoError{Err: err}
				}
			}
			received++

		case wire.RxSamplingStopped:
			d.log.WithField("elapsed", time.Since(startTime)).Debug("sampling stopped")
			meta.Samples.Received = strconv.Itoa(int(received))
			pendingStop = returnOnStop || sink != nil
			seq++
			state = stateTerminating

		case wire.RxSamplingFinished:
			d.log.Debug("sampling finished")

		case wire.RxSamplingAborted:
			d.log.Debug("sampling aborted")
		}
	}
}
