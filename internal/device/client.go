package device

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

// requestTimeout bounds how long a single request/reply round trip may
// take before DeviceClient gives up. The wire protocol has no in-band
// request id, so a reply to an earlier stray byte is detected as a
// header mismatch rather than silently accepted.
const requestTimeout = 2 * time.Second

// Link is the byte-pipe DeviceClient speaks requests and reads replies
// over. *bytelink.ByteLink satisfies this.
type Link interface {
	Read(buf []byte, overrideTimeout ...time.Duration) (int, error)
	Write(data []byte, overrideTimeout ...time.Duration) (int, error)
}

// Client issues single request/reply operations against the controller.
// It must not be used concurrently with a StreamDecoder reading the same
// link — start_sampling is the last Client call before handing the link
// to a decoder.
type Client struct {
	link Link
	log  *logrus.Entry
}

// NewClient constructs a Client speaking over link.
func NewClient(link Link, log *logrus.Entry) *Client {
	return &Client{link: link, log: log}
}

func (c *Client) request(req []byte, expect wire.HeaderId) (wire.Frame, error) {
	if _, err := c.link.Write(req); err != nil {
		return wire.Frame{}, fmt.Errorf("device: write request: %w", err)
	}

	var buf []byte
	deadline := time.Now().Add(requestTimeout)
	for {
		if time.Now().After(deadline) {
			return wire.Frame{}, fmt.Errorf("device: timed out waiting for reply to header id %d", expect)
		}

		var one [1]byte
		n, err := c.link.Read(one[:])
		if err != nil {
			return wire.Frame{}, fmt.Errorf("device: read reply: %w", err)
		}
		if n == 0 {
			continue
		}
		buf = append(buf, one[0])

		frame, consumed, _ := wire.Decode(buf)
		if consumed == 0 {
			continue
		}
		if frame.Unknown {
			return wire.Frame{}, fmt.Errorf("device: unknown response header id %d", frame.Header)
		}
		if frame.Header != expect {
			return wire.Frame{}, fmt.Errorf("device: expected reply header id %d, got %d", expect, frame.Header)
		}
		return frame, nil
	}
}

func (c *Client) send(req []byte) error {
	if _, err := c.link.Write(req); err != nil {
		return fmt.Errorf("device: write request: %w", err)
	}
	return nil
}

// GetOutputDataRate reads back the configured output data rate.
func (c *Client) GetOutputDataRate() (wire.OutputDataRate, error) {
	f, err := c.request(wire.EncodeGetODR(), wire.RxODR)
	if err != nil {
		return 0, err
	}
	return f.Body.(wire.RxOutputDataRate).ODR, nil
}

// SetOutputDataRate configures the output data rate. No reply follows.
func (c *Client) SetOutputDataRate(odr wire.OutputDataRate) error {
	return c.send(wire.EncodeSetODR(odr))
}

// GetRange reads back the configured full-scale range.
func (c *Client) GetRange() (wire.Range, error) {
	f, err := c.request(wire.EncodeGetRange(), wire.RxRange)
	if err != nil {
		return 0, err
	}
	return f.Body.(wire.RxRange).Range, nil
}

// SetRange configures the full-scale range. No reply follows.
func (c *Client) SetRange(r wire.Range) error {
	return c.send(wire.EncodeSetRange(r))
}

// GetScale reads back the configured reporting scale.
func (c *Client) GetScale() (wire.Scale, error) {
	f, err := c.request(wire.EncodeGetScale(), wire.RxScale)
	if err != nil {
		return 0, err
	}
	return f.Body.(wire.RxScale).Scale, nil
}

// SetScale configures the reporting scale. No reply follows.
func (c *Client) SetScale(s wire.Scale) error {
	return c.send(wire.EncodeSetScale(s))
}

// GetDeviceSetup reads back the packed {odr, range, scale} configuration.
func (c *Client) GetDeviceSetup() (wire.RxDeviceSetup, error) {
	f, err := c.request(wire.EncodeGetDeviceSetup(), wire.RxDeviceSetup)
	if err != nil {
		return wire.RxDeviceSetup{}, err
	}
	return f.Body.(wire.RxDeviceSetup), nil
}

// GetFirmwareVersion reads the controller's firmware version.
func (c *Client) GetFirmwareVersion() (wire.FirmwareVersion, error) {
	f, err := c.request(wire.EncodeGetFirmwareVersion(), wire.RxFirmwareVersion)
	if err != nil {
		return wire.FirmwareVersion{}, err
	}
	return f.Body.(wire.FirmwareVersion), nil
}

// GetUptime reads milliseconds elapsed since boot.
func (c *Client) GetUptime() (uint32, error) {
	f, err := c.request(wire.EncodeGetUptime(), wire.RxUptime)
	if err != nil {
		return 0, err
	}
	return f.Body.(wire.RxUptime).ElapsedMs, nil
}

// GetBufferStatus reads ring-buffer telemetry since the last sampling start.
func (c *Client) GetBufferStatus() (wire.RxBufferStatus, error) {
	f, err := c.request(wire.EncodeGetBufferStatus(), wire.RxBufferStatus)
	if err != nil {
		return wire.RxBufferStatus{}, err
	}
	return f.Body.(wire.RxBufferStatus), nil
}

// Reboot requests a controller reboot. No reply follows.
func (c *Client) Reboot() error {
	return c.send(wire.EncodeReboot())
}

// StartSampling requests n samples (0 means "stream until stop"). No
// reply follows directly; the subsequent stream is handled by a
// StreamDecoder reading the same link. Precondition: 0 <= n <= 65535,
// enforced by n's type.
func (c *Client) StartSampling(n uint16) error {
	return c.send(wire.EncodeSamplingStart(n))
}

// StopSampling requests the running stream stop. No reply follows
// directly.
func (c *Client) StopSampling() error {
	return c.send(wire.EncodeSamplingStop())
}
