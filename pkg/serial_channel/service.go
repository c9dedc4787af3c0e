// Package serial_channel owns the physical port. The protocol session is the
// only component allowed to reconfigure the baud rate; framing stays 7E1 for
// the whole session.
package serial_channel

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// Open opens the serial device in 7E1 framing at the discovery baud rate.
// With the read timeout set, Read returns (0, nil) when the meter stays
// silent for the full timeout.
func Open(device string, readTimeout time.Duration) (*SerialChannel, error) {
	mode := &serial.Mode{
		BaudRate: DiscoveryBaudrate,
		DataBits: DataBits,
		Parity:   serial.EvenParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	log.Printf("Connected to meter on %s", device)
	return &SerialChannel{
		device:      device,
		port:        port,
		mode:        mode,
		readTimeout: readTimeout,
	}, nil
}

func (c *SerialChannel) Read(p []byte) (int, error) {
	return c.port.Read(p)
}

func (c *SerialChannel) Write(p []byte) (int, error) {
	return c.port.Write(p)
}

// SetBaudrate reconfigures the open port, keeping the 7E1 framing.
func (c *SerialChannel) SetBaudrate(baudrate int) error {
	c.mode.BaudRate = baudrate
	if err := c.port.SetMode(c.mode); err != nil {
		return fmt.Errorf("failed to set baud rate %d: %w", baudrate, err)
	}
	return nil
}

func (c *SerialChannel) Baudrate() int {
	return c.mode.BaudRate
}

func (c *SerialChannel) Device() string {
	return c.device
}

// Close closes the port. Any blocked read or write fails afterwards, which
// is the only way to abort a session from outside.
func (c *SerialChannel) Close() error {
	return c.port.Close()
}
