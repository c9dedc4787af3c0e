package meter_reader

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/NotCoffee418/iec62056_reader/pkg/serial_channel"
	"github.com/NotCoffee418/iec62056_reader/pkg/types"
)

// Initialize a new MeterReader client.
func NewMeterReader(device string, pollInterval time.Duration) *MeterReader {
	return &MeterReader{
		device:       device,
		pollInterval: pollInterval,
		stopSignal:   false,
	}
}

// Start polling the meter. Each poll runs one full protocol session.
// Runs in goroutine. handleSnapshot() also runs in goroutine.
func (m *MeterReader) StartReading(
	handleSnapshot func(snapshot *types.MeterSnapshot),
	handleError func(error),
) {
	m.stopSignal = false

	go func() {
		// Tolerance before we report error.
		consecutiveErrors := 0
		maxErrors := 10
		var lastError error

		// Initialize the connection
		if err := m.connect(); err != nil {
			handleError(err)
			return
		}

		for consecutiveErrors < maxErrors {
			// Check for Stop command
			if m.stopSignal {
				log.Println("Stop signal received, disconnecting")
				m.disconnect()
				return
			}

			snapshot, err := m.readSnapshot()
			if err != nil {
				consecutiveErrors++
				lastError = err
				log.Printf("Error reading meter (%d/%d): %v", consecutiveErrors, maxErrors, err)
				time.Sleep(time.Second)
				continue
			}

			m.readingMutex.Lock()
			m.latestSnapshot = snapshot
			m.readingMutex.Unlock()

			go handleSnapshot(snapshot)
			consecutiveErrors = 0

			time.Sleep(m.pollInterval)
		}

		log.Printf("Too many consecutive errors (%d), stopping reader: %v", maxErrors, lastError)
		handleError(lastError)
		m.disconnect()
	}()
}

func (m *MeterReader) StopReading() {
	m.stopSignal = true
	m.disconnect()
}

func (m *MeterReader) GetLatestSnapshot() *types.MeterSnapshot {
	m.readingMutex.RLock()
	defer m.readingMutex.RUnlock()
	return m.latestSnapshot
}

// Open the connection to the optical port.
func (m *MeterReader) connect() error {
	channel, err := serial_channel.Open(m.device, DefaultReadTimeout)
	if err != nil {
		return err
	}
	m.channel = channel
	return nil
}

func (m *MeterReader) disconnect() {
	if m.channel != nil {
		m.channel.Close()
		log.Println("Disconnected from meter")
	}
}

// readSnapshot runs one protocol session and collects its records.
func (m *MeterReader) readSnapshot() (*types.MeterSnapshot, error) {
	if m.channel == nil {
		return nil, fmt.Errorf("serial channel not connected")
	}

	session := NewSession(m.channel)
	ident, err := session.Start()
	if err != nil {
		return nil, err
	}
	records, err := session.ReadAll()
	if err != nil {
		return nil, err
	}

	return &types.MeterSnapshot{
		Timestamp:      time.Now().Format(time.RFC3339),
		Identification: ident,
		Records:        records,
	}, nil
}
