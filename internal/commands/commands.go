package commands

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	eb "epidemic-simulation/internal/eventBus"
	"epidemic-simulation/internal/sim"
)

// StartRunPayload defines the expected JSON payload for triggering a run.
type StartRunPayload struct {
	Protocol  string  `json:"protocol"`
	Size      int     `json:"size"`
	SeedIndex int     `json:"seed_index"`
	Threshold int     `json:"threshold"`
	K         float64 `json:"k"`
	Seed      int64   `json:"seed"`
}

// StartRunHandler runs one simulation to completion and responds with the
// final result. Events stream on the bus while it runs, so a websocket
// client sees the contagion live.
func StartRunHandler(bus *eb.EventBus, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload StartRunPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		popCfg := sim.PopulationCfg{Size: payload.Size, SeedIndex: payload.SeedIndex}
		cfg := sim.ProtocolCfg{Name: payload.Protocol, Threshold: payload.Threshold, K: payload.K}

		res, err := sim.ExecuteRun(cfg, popCfg, payload.Seed, bus, log)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			log.WithError(err).Warn("failed to write run result")
		}
	}
}
