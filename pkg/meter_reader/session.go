package meter_reader

import (
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/NotCoffee418/iec62056_reader/pkg/iec_protocol"
	"github.com/NotCoffee418/iec62056_reader/pkg/serial_channel"
	"github.com/NotCoffee418/iec62056_reader/pkg/types"
)

// Channel is the duplex byte stream a session drives. The session owns the
// channel configuration for its whole lifetime; nothing else may switch the
// baud rate while a session is in progress.
type Channel interface {
	io.ReadWriter
	SetBaudrate(baudrate int) error
}

// Session performs one IEC 62056-21 read cycle: sign-on at the discovery
// baud rate, identification, handshake acknowledgment, baud switch, then the
// framed data block. Records are pulled one at a time with Next; a finished
// or failed session cannot be restarted.
type Session struct {
	ch       Channel
	timing   *TimingController
	sleep    func(time.Duration)
	baudrate int

	ident *types.IdentificationMessage
	block *iec_protocol.BlockReader
}

func NewSession(ch Channel) *Session {
	return &Session{
		ch:     ch,
		timing: NewTimingController(),
		sleep:  time.Sleep,
	}
}

// Start performs the sign-on handshake and leaves the channel switched to
// the negotiated baud rate, ready for Next.
func (s *Session) Start() (*types.IdentificationMessage, error) {
	if s.block != nil {
		return nil, fmt.Errorf("session already started")
	}

	if err := s.ch.SetBaudrate(serial_channel.DiscoveryBaudrate); err != nil {
		return nil, fmt.Errorf("failed to force discovery baud rate: %w", err)
	}
	s.baudrate = serial_channel.DiscoveryBaudrate

	// The sign-on write doubles as the blocking/non-blocking calibration
	// of the timing controller.
	if err := s.timing.Write(s.ch, iec_protocol.SignOnRequest, s.baudrate, serial_channel.DataBits); err != nil {
		return nil, fmt.Errorf("failed to write sign-on request: %w", err)
	}

	ident, err := iec_protocol.ReadIdentification(s.ch)
	if err != nil {
		return nil, err
	}
	if ident.Baudrate == 0 {
		return nil, &iec_protocol.InvalidMessageError{
			Reason: fmt.Sprintf("reserved baud rate identification %q", ident.BaudId),
		}
	}

	ack := []byte{iec_protocol.ACK, '0', ident.BaudId, '0', '\r', '\n'}
	if err := s.timing.Write(s.ch, ack, s.baudrate, serial_channel.DataBits); err != nil {
		return nil, fmt.Errorf("failed to write handshake acknowledgment: %w", err)
	}

	// Give the meter its reaction time to switch baud rate before we do.
	s.sleep(minReactionTime)
	if err := s.ch.SetBaudrate(ident.Baudrate); err != nil {
		return nil, err
	}
	s.baudrate = ident.Baudrate
	log.Debugf("Switched to negotiated baud rate %d (mode %s)", ident.Baudrate, ident.ProtocolMode)

	s.ident = ident
	s.block = iec_protocol.NewBlockReader(s.ch)
	return ident, nil
}

// Identification returns the decoded sign-on response, nil before Start.
func (s *Session) Identification() *types.IdentificationMessage {
	return s.ident
}

// Next returns the next parsed record, or io.EOF after the last one. Any
// framing or parsing failure aborts the remainder of the sequence.
func (s *Session) Next() (*types.DataSetRecord, error) {
	if s.block == nil {
		return nil, fmt.Errorf("session not started")
	}
	line, err := s.block.Next()
	if err != nil {
		return nil, err
	}
	return iec_protocol.ParseDataSet(string(line))
}

// ReadAll drains the remaining records of the session.
func (s *Session) ReadAll() ([]types.DataSetRecord, error) {
	var records []types.DataSetRecord
	for {
		record, err := s.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, *record)
	}
}
