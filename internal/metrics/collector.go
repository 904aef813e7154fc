package metrics

import (
	"encoding/json"
	"os"
	"sync"

	"epidemic-simulation/internal/protocol"
)

// Summary aggregates the results of every run of one protocol.
type Summary struct {
	Runs          uint64            `json:"runs"`
	Outcomes      map[string]uint64 `json:"outcomes"`
	TotalRounds   uint64            `json:"total_rounds"`
	TotalInfected uint64            `json:"total_infected"`
	TotalRemoved  uint64            `json:"total_removed"`
	MinRounds     int               `json:"min_rounds"`
	MaxRounds     int               `json:"max_rounds"`
	MinInfected   int               `json:"min_infected"`
	MaxInfected   int               `json:"max_infected"`
}

type Collector struct {
	mu        sync.Mutex
	Summaries map[string]*Summary
}

func NewCollector() *Collector {
	return &Collector{Summaries: make(map[string]*Summary)}
}

// Add folds one run result into the collector.
func (c *Collector) Add(res protocol.Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.Summaries[res.Protocol]
	if !ok {
		s = &Summary{
			Outcomes:    make(map[string]uint64),
			MinRounds:   res.Rounds,
			MinInfected: res.Infected,
		}
		c.Summaries[res.Protocol] = s
	}

	s.Runs++
	s.Outcomes[res.Outcome]++
	s.TotalRounds += uint64(res.Rounds)
	s.TotalInfected += uint64(res.Infected)
	s.TotalRemoved += uint64(res.Removed)
	if res.Rounds < s.MinRounds {
		s.MinRounds = res.Rounds
	}
	if res.Rounds > s.MaxRounds {
		s.MaxRounds = res.Rounds
	}
	if res.Infected < s.MinInfected {
		s.MinInfected = res.Infected
	}
	if res.Infected > s.MaxInfected {
		s.MaxInfected = res.Infected
	}
}

// Snapshot returns a copy of the per-protocol summaries.
func (c *Collector) Snapshot() map[string]Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Summary, len(c.Summaries))
	for name, s := range c.Summaries {
		cp := *s
		cp.Outcomes = make(map[string]uint64, len(s.Outcomes))
		for k, v := range s.Outcomes {
			cp.Outcomes[k] = v
		}
		out[name] = cp
	}
	return out
}

// Flush writes the summaries as indented JSON to file.
func (c *Collector) Flush(file string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Summaries)
}
