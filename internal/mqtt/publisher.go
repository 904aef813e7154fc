package mqtt

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	eb "epidemic-simulation/internal/eventBus"
)

// Publisher pushes completed-run results to an MQTT topic so external
// dashboards and collectors can consume them. Payloads are msgpack-encoded.
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
	log    *logrus.Entry
	quit   chan struct{}
}

// ResultRecord is the broker payload for one completed run.
type ResultRecord struct {
	RunID    string  `msgpack:"run_id"`
	Protocol string  `msgpack:"protocol"`
	Param    float64 `msgpack:"param"`
	Rounds   int     `msgpack:"rounds"`
	Infected int     `msgpack:"infected"`
	Removed  int     `msgpack:"removed"`
	Outcome  string  `msgpack:"outcome"`
}

// NewPublisher creates and connects a publisher. The logger may be nil.
func NewPublisher(broker, clientID, topic string, qos byte, log *logrus.Entry) (*Publisher, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	p := &Publisher{
		client: mqtt.NewClient(opts),
		topic:  topic,
		qos:    qos,
		log:    log,
		quit:   make(chan struct{}),
	}
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return p, nil
}

// Run consumes RUN_COMPLETED events from the bus channel and publishes them
// until the channel closes or Disconnect is called. Intended to run in its
// own goroutine.
func (p *Publisher) Run(events chan eb.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type != eb.EventRunCompleted {
				continue
			}
			if err := p.publish(ev); err != nil {
				p.log.WithError(err).Warn("mqtt publish failed")
			}
		case <-p.quit:
			return
		}
	}
}

func (p *Publisher) publish(ev eb.Event) error {
	rec := ResultRecord{
		RunID:    ev.RunID.String(),
		Protocol: ev.Protocol,
		Param:    ev.Param,
		Rounds:   ev.Rounds,
		Infected: ev.Infected,
		Removed:  ev.Removed,
		Outcome:  ev.Outcome,
	}
	payload, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, p.qos, false, payload)
	token.Wait()
	return token.Error()
}

// Disconnect stops the publish loop and performs a clean disconnect from the
// broker.
func (p *Publisher) Disconnect() {
	close(p.quit)
	p.client.Disconnect(250)
}
