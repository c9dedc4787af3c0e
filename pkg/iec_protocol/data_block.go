package iec_protocol

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// BlockReader walks the framed data block (STX, data lines, '!' terminator,
// trailer) and yields the raw dataset lines one at a time. The sequence is
// finite and cannot be restarted; a fresh session builds a fresh reader.
type BlockReader struct {
	ch      io.Reader
	started bool
	done    bool
	bcc     byte
}

func NewBlockReader(ch io.Reader) *BlockReader {
	return &BlockReader{ch: ch}
}

// Next returns the next raw data line, or io.EOF once the trailer has been
// consumed. The first call fails with ErrTimeout when the meter never sends
// STX, or InvalidMessageError when something else arrives in its place.
func (r *BlockReader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	if !r.started {
		b, ok, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrTimeout
		}
		if b != STX {
			r.done = true
			return nil, invalidMessagef("no STX frame start character, got %#x", b)
		}
		r.started = true
	}

	for {
		b, ok, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if !ok {
			// Mid-block timeouts do not terminate the block; the
			// meter may still be transmitting. Keep polling.
			continue
		}
		if b == EndChar {
			break
		}
		return ReadLine(r.ch, []byte{b})
	}

	r.done = true
	if err := r.readTrailer(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// readTrailer consumes the two filler bytes after the end marker, the ETX
// byte and the block check character.
func (r *BlockReader) readTrailer() error {
	for i := 0; i < 2; i++ {
		if err := r.discardByte(); err != nil {
			return err
		}
	}

	b, ok, err := r.readByte()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTimeout
	}
	if b != ETX {
		return invalidMessagef("no ETX frame end character, got %#x", b)
	}

	bcc, ok, err := r.readByte()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTimeout
	}
	// The block check character is recorded but not verified.
	r.bcc = bcc
	log.Debugf("BCC value: %#x", bcc)
	return nil
}

// Bcc returns the block check character, valid once the block has been
// consumed to the end.
func (r *BlockReader) Bcc() byte {
	return r.bcc
}

func (r *BlockReader) readByte() (byte, bool, error) {
	buf := make([]byte, 1)
	n, err := r.ch.Read(buf)
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return buf[0], true, nil
}

func (r *BlockReader) discardByte() error {
	_, ok, err := r.readByte()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTimeout
	}
	return nil
}
