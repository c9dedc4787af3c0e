package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// IdentificationMessage is the decoded sign-on response of the meter.
// Baudrate is 0 when the baud rate identification character maps to a
// reserved table entry; callers must reject it before switching rates.
type IdentificationMessage struct {
	ManufacturerId string `json:"manufacturer_id"`
	BaudId         byte   `json:"baud_id"`
	Identification string `json:"identification"`
	ProtocolMode   string `json:"protocol_mode"`
	Baudrate       int    `json:"baudrate"`
}

// DataSetRecord is a single decoded meter reading.
// Unit is empty when the dataset line carried no unit group.
type DataSetRecord struct {
	Id    string          `json:"id"`
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit,omitempty"`
}

// MeterSnapshot is one completed read cycle: the meter's identification plus
// every record it reported.
type MeterSnapshot struct {
	Timestamp      string                 `json:"timestamp"`
	Identification *IdentificationMessage `json:"identification"`
	Records        []DataSetRecord        `json:"records"`
}

func (s *MeterSnapshot) ToJsonBytes() []byte {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return data
}

// SnapshotFromJsonBytes returns nil if the payload does not decode.
func SnapshotFromJsonBytes(data []byte) *MeterSnapshot {
	var snapshot MeterSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil
	}
	return &snapshot
}
