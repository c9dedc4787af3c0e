package meter_reader

import (
	"sync"
	"time"

	"github.com/NotCoffee418/iec62056_reader/pkg/serial_channel"
	"github.com/NotCoffee418/iec62056_reader/pkg/types"
)

type MeterReader struct {
	device       string
	pollInterval time.Duration
	channel      *serial_channel.SerialChannel

	latestSnapshot *types.MeterSnapshot
	readingMutex   sync.RWMutex
	stopSignal     bool
}
