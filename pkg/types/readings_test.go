package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSnapshotJsonRoundTrip(t *testing.T) {
	snapshot := &MeterSnapshot{
		Timestamp: "2026-08-25T10:00:00Z",
		Identification: &IdentificationMessage{
			ManufacturerId: "XYZ",
			BaudId:         '5',
			Identification: "ABC1",
			ProtocolMode:   "C",
			Baudrate:       9600,
		},
		Records: []DataSetRecord{
			{Id: "1.8.0", Value: decimal.RequireFromString("15.557"), Unit: "kWh"},
			{Id: "C.1.0", Value: decimal.RequireFromString("12345678")},
		},
	}

	decoded := SnapshotFromJsonBytes(snapshot.ToJsonBytes())
	if decoded == nil {
		t.Fatal("SnapshotFromJsonBytes() = nil")
	}
	if decoded.Timestamp != snapshot.Timestamp {
		t.Errorf("Timestamp = %q, want %q", decoded.Timestamp, snapshot.Timestamp)
	}
	if decoded.Identification == nil || decoded.Identification.Baudrate != 9600 {
		t.Errorf("Identification = %+v", decoded.Identification)
	}
	if len(decoded.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(decoded.Records))
	}
	if !decoded.Records[0].Value.Equal(decimal.RequireFromString("15.557")) {
		t.Errorf("first value = %s, want 15.557", decoded.Records[0].Value)
	}
	if decoded.Records[1].Unit != "" {
		t.Errorf("second unit = %q, want empty", decoded.Records[1].Unit)
	}
}

func TestSnapshotFromJsonBytesGarbage(t *testing.T) {
	if SnapshotFromJsonBytes([]byte("not json")) != nil {
		t.Error("SnapshotFromJsonBytes() != nil for garbage input")
	}
}
