// Package iec_protocol implements the byte-level framing and grammar of the
// IEC 62056-21 meter readout protocol: the identification message, the framed
// data block and the individual dataset lines.
package iec_protocol

// Control characters of the exchange.
const (
	StartChar = '/' // identification message start character
	EndChar   = '!' // terminates the data line loop of the block

	STX = 0x02 // start of text
	ETX = 0x03 // end of text
	ACK = 0x06 // acknowledge
	NAK = 0x15 // negative acknowledge
	SOH = 0x01 // start of header
)

// SignOnRequest is the mode C discovery request, sent at 300 baud.
var SignOnRequest = []byte("/?!\r\n")
