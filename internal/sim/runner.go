package sim

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"epidemic-simulation/internal/epidemic"
	eb "epidemic-simulation/internal/eventBus"
	"epidemic-simulation/internal/metrics"
	"epidemic-simulation/internal/protocol"
	"epidemic-simulation/internal/telemetry"
)

// Runner executes every run a scenario asks for: each protocol config is run
// Repeats times against a fresh population. Runs are sequential internally;
// the runner only parallelises across isolated runs.
type Runner struct {
	sc   *Scenario
	bus  *eb.EventBus
	coll *metrics.Collector
	log  *logrus.Entry

	quit     chan struct{}
	stopOnce sync.Once
}

func NewRunner(sc *Scenario, bus *eb.EventBus, coll *metrics.Collector, log *logrus.Entry) *Runner {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Runner{sc: sc, bus: bus, coll: coll, log: log, quit: make(chan struct{})}
}

// Stop asks the runner to wind down. Runs already started finish; queued runs
// are abandoned.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Run executes the whole scenario. The per-run RNG seed is derived from the
// scenario seed and the run index, so a scenario replays identically
// regardless of parallelism.
func (r *Runner) Run() error {
	limit := r.sc.Parallelism
	if limit < 1 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)

	runIdx := 0
	for _, pc := range r.sc.Protocols {
		for rep := 0; rep < r.sc.Repeats; rep++ {
			select {
			case <-r.quit:
				r.log.Warn("runner stopped early, abandoning queued runs")
				return g.Wait()
			default:
			}
			cfg := pc
			idx := runIdx
			runIdx++
			g.Go(func() error {
				res, err := ExecuteRun(cfg, r.sc.Population, r.sc.Seed+int64(idx), r.bus, r.log)
				if err != nil {
					return err
				}
				r.coll.Add(res)
				return nil
			})
		}
	}
	return g.Wait()
}

// ExecuteRun performs one isolated simulation run: fresh population, fresh
// seeded RNG, one protocol driven to completion. Events are published on bus
// if one is given.
func ExecuteRun(cfg ProtocolCfg, popCfg PopulationCfg, seed int64, bus *eb.EventBus, log *logrus.Entry) (protocol.Result, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	runID := uuid.New()
	rng := rand.New(rand.NewSource(seed))

	pop, err := epidemic.NewPopulation(popCfg.Size, popCfg.SeedIndex, rng)
	if err != nil {
		return protocol.Result{}, fmt.Errorf("run %s: %w", runID, err)
	}
	if bus != nil {
		pop.Subscribe(&busForwarder{bus: bus, runID: runID})
	}

	proto, err := BuildProtocol(cfg, pop, log)
	if err != nil {
		return protocol.Result{}, fmt.Errorf("run %s: %w", runID, err)
	}

	if bus != nil {
		bus.Publish(eb.Event{
			Type:      eb.EventRunStarted,
			RunID:     runID,
			Protocol:  proto.Name(),
			Timestamp: time.Now(),
		})
	}

	res := proto.Run()

	telemetry.RunsTotal.WithLabelValues(res.Protocol, res.Outcome).Inc()
	telemetry.InfectionsTotal.WithLabelValues(res.Protocol).Add(float64(res.Infected))
	telemetry.RoundsPerRun.WithLabelValues(res.Protocol).Observe(float64(res.Rounds))

	if bus != nil {
		bus.Publish(eb.Event{
			Type:      eb.EventRunCompleted,
			RunID:     runID,
			Protocol:  res.Protocol,
			Param:     res.Param,
			Rounds:    res.Rounds,
			Infected:  res.Infected,
			Removed:   res.Removed,
			Outcome:   res.Outcome,
			Timestamp: time.Now(),
		})
	}

	log.WithFields(logrus.Fields{
		"run":      runID,
		"protocol": res.Protocol,
		"param":    res.Param,
		"rounds":   res.Rounds,
		"infected": res.Infected,
		"outcome":  res.Outcome,
	}).Info("run complete")
	return res, nil
}

// BuildProtocol constructs the protocol variant a config names, against the
// given population.
func BuildProtocol(cfg ProtocolCfg, pop *epidemic.Population, log *logrus.Entry) (protocol.IProtocol, error) {
	switch cfg.Name {
	case protocol.NameFixedThreshold:
		p, err := protocol.NewFixedThreshold(pop, cfg.Threshold, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	case protocol.NameBlindCoin:
		p, err := protocol.NewBlindCoin(pop, cfg.K, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	case protocol.NameFeedbackCounter:
		p, err := protocol.NewFeedbackCounter(pop, int(cfg.K), log)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown protocol %q", cfg.Name)
	}
}

// busForwarder re-publishes node infection notifications on the event bus so
// live consumers can watch the contagion spread.
type busForwarder struct {
	bus   *eb.EventBus
	runID uuid.UUID
}

func (f *busForwarder) OnNotify(n *epidemic.Node, event string) {
	if event != epidemic.EventInfected {
		return
	}
	f.bus.Publish(eb.Event{
		Type:      eb.EventNodeInfected,
		RunID:     f.runID,
		NodeID:    n.ID,
		Timestamp: time.Now(),
	})
}
