package iec_protocol

import (
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/NotCoffee418/iec62056_reader/pkg/types"
)

// baudrateSelection maps the baud rate identification character, read as a
// hexadecimal digit, to the negotiated baud rate. Indices 7-9 are reserved
// and map to 0; callers must reject a 0 baud rate before switching.
var baudrateSelection = [16]int{
	300, 600, 1200, 2400, 4800, 9600, 19200,
	0, 0, 0,
	600, 1200, 2400, 4800, 9600, 19200,
}

// ReadIdentification reads one line from the channel and decodes it as the
// meter's sign-on response. When the start character is missing, the
// remaining channel bytes are drained before returning the error so a
// caller-initiated retry starts from a clean line.
func ReadIdentification(ch io.Reader) (*types.IdentificationMessage, error) {
	msg, err := ReadLine(ch, nil)
	if err != nil {
		return nil, err
	}
	if len(msg) == 0 {
		return nil, ErrTimeout
	}
	if msg[0] != StartChar {
		msg = append(msg, drain(ch)...)
		return nil, invalidMessagef("missing start character, got: %q", msg)
	}
	return ParseIdentification(msg)
}

// ParseIdentification decodes an identification line (end-of-line marker
// already stripped) into its manufacturer code, baud rate identification,
// identification string, protocol mode and negotiated baud rate.
func ParseIdentification(msg []byte) (*types.IdentificationMessage, error) {
	if len(msg) == 0 {
		return nil, ErrTimeout
	}
	if msg[0] != StartChar {
		return nil, invalidMessagef("missing start character, got: %q", msg)
	}
	if len(msg) < 6 {
		return nil, invalidMessagef("identification message too short, length %d < 6: %q", len(msg), msg)
	}

	manufacturerId := string(msg[1:4])
	baudId := msg[4]

	// A backslash after the baud rate identification announces an HDLC
	// escape sequence (mode E); the identification proper starts two
	// bytes later.
	escaped := msg[5] == '\\'
	var identification string
	if escaped {
		if len(msg) < 8 {
			return nil, invalidMessagef("identification message too short, length %d < 8: %q", len(msg), msg)
		}
		identification = string(msg[7:sliceEnd(msg, 7)])
	} else {
		identification = string(msg[5:sliceEnd(msg, 5)])
	}

	protocolMode := "A"
	if baudId > 'A' && baudId <= 'I' {
		protocolMode = "B"
	}
	if baudId > '0' && baudId <= '9' {
		protocolMode = "C"
	}
	if escaped {
		protocolMode = "E"
	}

	index, err := strconv.ParseUint(string(baudId), 16, 8)
	if err != nil || index > 15 {
		return nil, invalidMessagef("baud rate identification %q is not a hexadecimal digit", baudId)
	}

	ident := &types.IdentificationMessage{
		ManufacturerId: manufacturerId,
		BaudId:         baudId,
		Identification: identification,
		ProtocolMode:   protocolMode,
		Baudrate:       baudrateSelection[index],
	}
	log.Debugf("Decoded identification message: %+v", ident)
	return ident, nil
}

// sliceEnd clamps the historical end-2 slice bound so under-length
// identification strings decode as empty instead of panicking.
func sliceEnd(msg []byte, start int) int {
	end := len(msg) - 2
	if end < start {
		return start
	}
	return end
}
