package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/jgoulah/csvchart/internal/config"
	"github.com/jgoulah/csvchart/pkg/models"
)

const publishTimeout = 10 * time.Second

// Client is the part of an MQTT client the publisher needs
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher sends readings to an MQTT broker
type Publisher struct {
	client      Client
	topicPrefix string
}

// Payload is the JSON body of one published reading
type Payload struct {
	Series    string  `json:"series"`
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// New connects to the configured broker
func New(cfg config.MQTTConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID("csvchart-" + uuid.NewString())
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return NewWithClient(client, cfg.GetTopicPrefix()), nil
}

// NewWithClient wraps an already connected client
func NewWithClient(client Client, topicPrefix string) *Publisher {
	return &Publisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
	}
}

// Topic returns the topic a series is published to
func (p *Publisher) Topic(series string) string {
	return p.topicPrefix + "/" + series
}

// Publish sends one reading at QoS 1 and waits for the broker to acknowledge it
func (p *Publisher) Publish(r models.Record) error {
	body, err := json.Marshal(Payload{
		Series:    r.Series,
		Timestamp: r.Date.Format(time.RFC3339),
		Value:     r.Value,
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	token := p.client.Publish(p.Topic(r.Series), 1, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s: timed out after %s", p.Topic(r.Series), publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.Topic(r.Series), err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}
