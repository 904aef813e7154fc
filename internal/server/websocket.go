package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"epidemic-simulation/internal/commands"
	"epidemic-simulation/internal/eventBus"
	"epidemic-simulation/internal/telemetry"
)

// Define a WebSocket upgrader.
var upgrader = websocket.Upgrader{
	// Allow any origin for simplicity. Adjust for production use.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsHandler upgrades the connection to WebSocket and pushes events from the
// EventBus.
func wsHandler(eb *eventBus.EventBus, log *logrus.Entry, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade error")
		return
	}
	defer conn.Close()

	// Subscribe to the event bus.
	eventCh := eb.Subscribe()

	// Loop indefinitely, writing events to the WebSocket.
	for event := range eventCh {
		if err := conn.WriteJSON(event); err != nil {
			log.WithError(err).Warn("websocket write error")
			return
		}
	}
}

// StartServer starts the HTTP server with endpoints for the live event
// stream, prometheus metrics and one-off run triggers.
func StartServer(addr string, eb *eventBus.EventBus, log *logrus.Entry) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wsHandler(eb, log, w, r)
	})
	mux.Handle("/metrics", telemetry.MetricsHandler())
	mux.HandleFunc("/runAPI/start", commands.StartRunHandler(eb, log))

	log.WithField("addr", addr).Info("server started")
	return http.ListenAndServe(addr, mux)
}
