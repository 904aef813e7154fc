package eventBus

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventRunStarted   EventType = "RUN_STARTED"
	EventNodeInfected EventType = "NODE_INFECTED"
	EventRunCompleted EventType = "RUN_COMPLETED"
)

// Event holds the details a live consumer (websocket front end, MQTT bridge)
// might need. Fields that do not apply to a given event type stay zero.
type Event struct {
	Type      EventType `json:"type"`
	RunID     uuid.UUID `json:"run_id"`
	Protocol  string    `json:"protocol,omitempty"`
	Param     float64   `json:"param,omitempty"`
	NodeID    int       `json:"node_id,omitempty"`
	Rounds    int       `json:"rounds,omitempty"`
	Infected  int       `json:"infected,omitempty"`
	Removed   int       `json:"removed,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventBus manages a set of subscribers and publishes events to them.
type EventBus struct {
	subscribers []chan Event
	mu          sync.RWMutex
	log         *logrus.Entry
}

// NewEventBus creates a new EventBus instance. The logger may be nil.
func NewEventBus(log *logrus.Entry) *EventBus {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &EventBus{
		subscribers: make([]chan Event, 0),
		log:         log,
	}
}

// Publish sends an event to all subscribers.
func (eb *EventBus) Publish(e Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, sub := range eb.subscribers {
		// Use a non-blocking send in case a subscriber is busy.
		select {
		case sub <- e:
		default:
			eb.log.WithField("type", e.Type).Warn("dropping event: subscriber channel is full")
		}
	}
}

// Subscribe returns a new channel that will receive published events.
func (eb *EventBus) Subscribe() chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	ch := make(chan Event, 100)
	eb.subscribers = append(eb.subscribers, ch)
	return ch
}
