package iec_protocol

import (
	"errors"
	"testing"
)

func TestParseIdentificationBaudTable(t *testing.T) {
	tests := []struct {
		baudId   byte
		baudrate int
		mode     string
	}{
		{'0', 300, "A"},
		{'1', 600, "C"},
		{'2', 1200, "C"},
		{'3', 2400, "C"},
		{'4', 4800, "C"},
		{'5', 9600, "C"},
		{'6', 19200, "C"},
		{'A', 600, "A"},
		{'B', 1200, "B"},
		{'C', 2400, "B"},
		{'D', 4800, "B"},
		{'E', 9600, "B"},
		{'F', 19200, "B"},
	}

	for _, tt := range tests {
		t.Run(string(tt.baudId), func(t *testing.T) {
			line := append([]byte("/LGZ"), tt.baudId)
			line = append(line, []byte("E650rest")...)
			ident, err := ParseIdentification(line)
			if err != nil {
				t.Fatalf("ParseIdentification(%q) error = %v", line, err)
			}
			if ident.Baudrate != tt.baudrate {
				t.Errorf("Baudrate = %d, want %d", ident.Baudrate, tt.baudrate)
			}
			if ident.ProtocolMode != tt.mode {
				t.Errorf("ProtocolMode = %s, want %s", ident.ProtocolMode, tt.mode)
			}
			if ident.ManufacturerId != "LGZ" {
				t.Errorf("ManufacturerId = %s, want LGZ", ident.ManufacturerId)
			}
			if ident.BaudId != tt.baudId {
				t.Errorf("BaudId = %q, want %q", ident.BaudId, tt.baudId)
			}
		})
	}
}

func TestParseIdentificationReservedBaudIds(t *testing.T) {
	// Table slots 7-9 are reserved; the caller must see baud rate 0 and
	// reject it before switching rates.
	for _, baudId := range []byte{'7', '8', '9'} {
		t.Run(string(baudId), func(t *testing.T) {
			line := append([]byte("/XYZ"), baudId)
			line = append(line, []byte("ABC123")...)
			ident, err := ParseIdentification(line)
			if err != nil {
				t.Fatalf("ParseIdentification() error = %v", err)
			}
			if ident.Baudrate != 0 {
				t.Errorf("Baudrate = %d, want 0", ident.Baudrate)
			}
		})
	}
}

func TestParseIdentificationTooShort(t *testing.T) {
	var invalid *InvalidMessageError
	_, err := ParseIdentification([]byte("/AB1"))
	if !errors.As(err, &invalid) {
		t.Fatalf("ParseIdentification() error = %v, want InvalidMessageError", err)
	}
	if invalid.Reason == "" {
		t.Error("InvalidMessageError has empty reason")
	}
}

func TestParseIdentificationEmpty(t *testing.T) {
	_, err := ParseIdentification(nil)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("ParseIdentification() error = %v, want ErrTimeout", err)
	}
}

func TestParseIdentificationMissingStartChar(t *testing.T) {
	var invalid *InvalidMessageError
	_, err := ParseIdentification([]byte("XYZ5ABC123"))
	if !errors.As(err, &invalid) {
		t.Errorf("ParseIdentification() error = %v, want InvalidMessageError", err)
	}
}

func TestParseIdentificationNonHexBaudId(t *testing.T) {
	var invalid *InvalidMessageError
	_, err := ParseIdentification([]byte("/XYZGABC123"))
	if !errors.As(err, &invalid) {
		t.Errorf("ParseIdentification() error = %v, want InvalidMessageError", err)
	}
}

func TestParseIdentificationEscapeSequence(t *testing.T) {
	// A backslash after the baud rate identification forces mode E and
	// shifts the identification string by two bytes.
	ident, err := ParseIdentification([]byte(`/XYZ1\2IDENT`))
	if err != nil {
		t.Fatalf("ParseIdentification() error = %v", err)
	}
	if ident.ProtocolMode != "E" {
		t.Errorf("ProtocolMode = %s, want E", ident.ProtocolMode)
	}
	if ident.Identification != "IDE" {
		t.Errorf("Identification = %q, want %q", ident.Identification, "IDE")
	}
	if ident.Baudrate != 600 {
		t.Errorf("Baudrate = %d, want 600", ident.Baudrate)
	}
}

func TestParseIdentificationEscapeTooShort(t *testing.T) {
	var invalid *InvalidMessageError
	_, err := ParseIdentification([]byte(`/XYZ1\2`))
	if !errors.As(err, &invalid) {
		t.Errorf("ParseIdentification() error = %v, want InvalidMessageError", err)
	}
}

func TestReadIdentificationTimeout(t *testing.T) {
	_, err := ReadIdentification(newScriptReader())
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("ReadIdentification() error = %v, want ErrTimeout", err)
	}
}

func TestReadIdentificationDrainsOnMissingStartChar(t *testing.T) {
	// Stray bytes after a garbage line must be consumed so a retry starts
	// from a clean channel.
	ch := newScriptReader([]byte("GARBAGE\r\nSTRAY BYTES"))
	var invalid *InvalidMessageError
	_, err := ReadIdentification(ch)
	if !errors.As(err, &invalid) {
		t.Fatalf("ReadIdentification() error = %v, want InvalidMessageError", err)
	}
	if !ch.drained() {
		t.Error("channel not drained after missing start character")
	}
}
