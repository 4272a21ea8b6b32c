package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	paho "github.com/eclipse/paho.mqtt.golang"

	coremon "github.com/kilianp07/wsnlife/core/monitoring"
	coremqtt "github.com/kilianp07/wsnlife/core/mqtt"
	"github.com/kilianp07/wsnlife/core/runlog"
	"github.com/kilianp07/wsnlife/infra/logger"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// PahoPublisher publishes run records with Eclipse Paho.
type PahoPublisher struct {
	cli        pahoClient
	topic      string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// New returns a PahoPublisher, or a NopPublisher when cfg has no broker.
func New(cfg Config, log logger.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		return coremqtt.NopPublisher{}, nil
	}
	return NewPahoPublisher(cfg, log)
}

// NewPahoPublisher connects to the broker, retrying with exponential backoff.
func NewPahoPublisher(cfg Config, log logger.Logger) (*PahoPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New("mqtt_publisher")
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	p := &PahoPublisher{
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}
	c := newMQTTClient(opts)
	err = backoff.Retry(func() error {
		if token := c.Connect(); token.Wait() && token.Error() != nil {
			log.Warnf("failed to connect to MQTT broker %s: %v", cfg.Broker, token.Error())
			return token.Error()
		}
		return nil
	}, p.policy(context.Background()))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, err)
	}
	log.Infof("connected to MQTT broker at %s as %s", cfg.Broker, cfg.ClientID)
	p.cli = c
	return p, nil
}

func (p *PahoPublisher) policy(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.backoff
	bo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(p.maxRetries)), ctx)
}

// Topic returns the topic a run is published on.
func (p *PahoPublisher) Topic(runID string) string {
	return fmt.Sprintf("%s/%s", p.topic, runID)
}

// PublishRun sends rec as JSON on <topic>/<run id>.
func (p *PahoPublisher) PublishRun(ctx context.Context, rec runlog.RunRecord) error {
	if p.cli == nil || !p.cli.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	topic := p.Topic(rec.ID)
	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			p.log.Errorf("publish attempt %d failed: %v", attempt, err)
			return err
		}
		return nil
	}, p.policy(ctx))
	if err != nil {
		coremon.CaptureException(err, map[string]string{"module": "mqtt", "run_id": rec.ID})
		return fmt.Errorf("publish run %s: %w", rec.ID, err)
	}
	p.log.Infof("published run %s to %s", rec.ID, topic)
	return nil
}

// Close gracefully closes the MQTT connection.
func (p *PahoPublisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

// MockPublisher records published runs in memory.
type MockPublisher struct {
	mu     sync.Mutex
	Runs   []runlog.RunRecord
	Err    error
	Closed bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishRun records the run or returns the configured error.
func (m *MockPublisher) PublishRun(_ context.Context, rec runlog.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, rec)
	return nil
}

// Published returns a copy of the recorded runs.
func (m *MockPublisher) Published() []runlog.RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]runlog.RunRecord(nil), m.Runs...)
}

func (m *MockPublisher) Close() {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
}
