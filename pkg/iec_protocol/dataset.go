package iec_protocol

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/NotCoffee418/iec62056_reader/pkg/types"
)

// Dataset line grammar: ID(VALUE[*UNIT]), e.g. "1.8.0(0015.557*kWh)".
// ID and UNIT may contain anything except parentheses, slash and bang.
var datasetRegex = regexp.MustCompile(`^(?P<ID>[^()/!]*)\((?P<Value>\d+(.\d)+)(\*(?P<Unit>[^()/!]+))?\)`)

var (
	datasetIdIndex    = datasetRegex.SubexpIndex("ID")
	datasetValueIndex = datasetRegex.SubexpIndex("Value")
	datasetUnitIndex  = datasetRegex.SubexpIndex("Unit")
)

// ParseDataSet decodes one raw data line into a record. The value keeps the
// exact precision the meter stated; no float conversion happens anywhere.
func ParseDataSet(line string) (*types.DataSetRecord, error) {
	match := datasetRegex.FindStringSubmatch(line)
	if match == nil {
		return nil, invalidMessagef("unable to parse dataset structure: %q", line)
	}

	value, err := decimal.NewFromString(match[datasetValueIndex])
	if err != nil {
		return nil, invalidMessagef("dataset value %q is not a decimal number", match[datasetValueIndex])
	}

	return &types.DataSetRecord{
		Id:    match[datasetIdIndex],
		Value: value,
		Unit:  match[datasetUnitIndex],
	}, nil
}
