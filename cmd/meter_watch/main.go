// Subscribes to the meter API and prints every snapshot as JSON.
package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/NotCoffee418/iec62056_reader/pkg/config"
	"github.com/NotCoffee418/iec62056_reader/pkg/stream_client"
	"github.com/NotCoffee418/iec62056_reader/pkg/types"
)

func main() {
	if err := config.LoadMeterWatchConfig(); err != nil {
		log.Fatalf("Failed to load meter watch config: %v", err)
	}

	// Subscribe to websocket with revive
	stream_client.StartListener(config.ActiveMeterWatchConfig.MeterAPIHost, handleSnapshot)
}

// Handle snapshot data from the meter
func handleSnapshot(snapshot *types.MeterSnapshot) {
	fmt.Println(string(snapshot.ToJsonBytes()))
}
