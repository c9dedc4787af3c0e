package serial_channel

import (
	"time"

	"go.bug.st/serial"
)

// Fixed framing of the IEC 62056-21 discovery phase: 7 data bits, even
// parity, one stop bit at 300 baud.
const (
	DataBits          = 7
	DiscoveryBaudrate = 300
)

type SerialChannel struct {
	device      string
	port        serial.Port
	mode        *serial.Mode
	readTimeout time.Duration
}
