// Meter API is responsible for polling the meter over its optical serial
// interface and broadcasting the snapshots.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/NotCoffee418/iec62056_reader/pkg/config"
	"github.com/NotCoffee418/iec62056_reader/pkg/meter_reader"
	"github.com/NotCoffee418/iec62056_reader/pkg/types"
)

var meterReader *meter_reader.MeterReader

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// ws clients for broadcasting live snapshots
var (
	wsClients                   = make(map[*websocket.Conn]bool)
	wsClientsMutex sync.RWMutex = sync.RWMutex{}
)

func main() {
	// Load config
	if err := config.LoadMeterAPIConfig(); err != nil {
		log.Fatalf("Failed to load meter API config: %v", err)
	}

	// Start meter reader
	meterReader = meter_reader.NewMeterReader(
		config.ActiveMeterAPIConfig.SerialDevice,
		time.Duration(config.ActiveMeterAPIConfig.PollIntervalSeconds)*time.Second,
	)

	// Start polling the meter and handle signals/errors
	meterReader.StartReading(
		func(snapshot *types.MeterSnapshot) {
			BroadcastToWebSockets(snapshot)
		},
		func(err error) {
			if err != nil {
				log.Fatalf("Error reading meter: %v", err)
			}
		},
	)

	// Setup HTTP handlers
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response := map[string]string{
			"message": "IEC 62056-21 Meter API",
			"status":  "running",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	http.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		snapshot := meterReader.GetLatestSnapshot()
		w.Header().Set("Content-Type", "application/json")
		if snapshot == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "No snapshots available yet",
			})
			return
		}

		json.NewEncoder(w).Encode(snapshot)
	})

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		AddWebSocketClient(conn)

		// Send current snapshot immediately if available
		if snapshot := meterReader.GetLatestSnapshot(); snapshot != nil {
			conn.WriteMessage(websocket.TextMessage, snapshot.ToJsonBytes())
		}

		// Keep connection alive
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				RemoveWebSocketClient(conn)
				break
			}
		}
	})

	listener := fmt.Sprintf("%s:%d", config.ActiveMeterAPIConfig.ListenAddress, config.ActiveMeterAPIConfig.ListenPort)

	log.Printf("Starting IEC 62056-21 Meter API on %s", listener)
	log.Fatal(http.ListenAndServe(listener, nil))
}

func BroadcastToWebSockets(snapshot *types.MeterSnapshot) {
	wsClientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(wsClients))
	for client := range wsClients {
		clients = append(clients, client)
	}
	wsClientsMutex.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, snapshot.ToJsonBytes()); err != nil {
			RemoveWebSocketClient(client)
		}
	}
}

func AddWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	wsClients[conn] = true
	wsClientsMutex.Unlock()
}

func RemoveWebSocketClient(conn *websocket.Conn) {
	wsClientsMutex.Lock()
	delete(wsClients, conn)
	wsClientsMutex.Unlock()
	conn.Close()
}
