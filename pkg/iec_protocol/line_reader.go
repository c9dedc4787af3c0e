package iec_protocol

import "io"

// endOfLine is the two-byte marker terminating every protocol line.
var endOfLine = []byte("\r\n")

// ReadLine accumulates bytes from ch one at a time until CR LF is seen at the
// tail of the buffer, and returns the buffer with the marker stripped. The
// marker is tracked with a rolling match counter instead of re-scanning the
// accumulated bytes. A prefix may seed the buffer when the caller already
// consumed the first byte of the line.
//
// A zero-byte read before anything accumulated fails with ErrTimeout. A
// zero-byte read mid-line returns the partial buffer; the caller decides
// whether an incomplete line is an error.
func ReadLine(ch io.Reader, prefix []byte) ([]byte, error) {
	msg := append([]byte(nil), prefix...)
	m := 0
	buf := make([]byte, 1)

	for {
		n, err := ch.Read(buf)
		if err != nil {
			return msg, err
		}
		if n == 0 {
			if len(msg) == 0 {
				return nil, ErrTimeout
			}
			return msg, nil
		}

		b := buf[0]
		msg = append(msg, b)

		if endOfLine[m] == b {
			m++
		} else {
			m = 0
		}
		if m == len(endOfLine) {
			return msg[:len(msg)-2], nil
		}
	}
}

// drain consumes the channel until it runs dry, returning whatever was read.
// Used to leave the channel clean for a retry after a framing error.
func drain(ch io.Reader) []byte {
	var extra []byte
	buf := make([]byte, 1)
	for {
		n, err := ch.Read(buf)
		if err != nil || n == 0 {
			return extra
		}
		extra = append(extra, buf[0])
	}
}
