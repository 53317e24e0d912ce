package decoder

import (
	"fmt"

	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// IoError wraps an underlying byte-pipe failure. Not recoverable at this
// layer — the session is over.
type IoError struct{ Err error }

func (e *IoError) Error() string { return fmt.Sprintf("decoder: io error: %v", e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// ReadTimeout reports that no bytes arrived for longer than the configured
// message timeout.
type ReadTimeout struct {
	LimitS, ObservedS float64
}

func (e *ReadTimeout) Error() string {
	return fmt.Sprintf("decoder: read timeout: no bytes for %.3fs (limit %.3fs)", e.ObservedS, e.LimitS)
}

// UnknownResponse reports a header byte outside the known response set.
type UnknownResponse struct{ HeaderId wire.HeaderId }

func (e *UnknownResponse) Error() string {
	return fmt.Sprintf("decoder: unknown response header id %d", e.HeaderId)
}

// FifoOverflow reports that the sensor FIFO overran.
type FifoOverflow struct{}

func (e *FifoOverflow) Error() string { return "decoder: sensor fifo overflow" }

// BufferOverflow reports that the device ring buffer overran.
type BufferOverflow struct{}

func (e *BufferOverflow) Error() string { return "decoder: device buffer overflow" }

// TransmissionError reports a device-signaled USB transmit failure.
type TransmissionError struct{}

func (e *TransmissionError) Error() string { return "decoder: device transmission error" }

// ControllerFault reports a device fault handler invocation. Recommend a
// reboot before retrying.
type ControllerFault struct{ Code wire.FaultCode }

func (e *ControllerFault) Error() string {
	return fmt.Sprintf("decoder: controller fault: %s (reboot recommended)", e.Code)
}

// SequenceError reports a non-monotonic acceleration sample index,
// indicating sample loss.
type SequenceError struct{ Expected, Got uint16 }

func (e *SequenceError) Error() string {
	return fmt.Sprintf("decoder: sequence error: expected index %d, got %d", e.Expected, e.Got)
}

// CancelRequested reports a cooperative abort. Not itself a failure.
type CancelRequested struct{}

func (e *CancelRequested) Error() string { return "decoder: stopped ahead of time (cancel requested)" }
