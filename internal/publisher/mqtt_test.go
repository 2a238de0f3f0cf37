package publisher

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/csvchart/internal/config"
	"github.com/jgoulah/csvchart/pkg/models"
)

type fakeToken struct {
	err      error
	timedOut bool
}

func (t *fakeToken) Wait() bool { return !t.timedOut }

func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timedOut }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t *fakeToken) Error() error { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	sent         []message
	token        *fakeToken
	connected    bool
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, message{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	if c.token != nil {
		return c.token
	}
	return &fakeToken{}
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestPublish(t *testing.T) {
	client := &fakeClient{}
	p := NewWithClient(client, "home/sensors/")

	at := time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, p.Publish(models.Record{Series: "office", Date: at, Value: 71.25}))

	require.Len(t, client.sent, 1)
	msg := client.sent[0]
	assert.Equal(t, "home/sensors/office", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.False(t, msg.retained)

	var got Payload
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, Payload{Series: "office", Timestamp: "2020-01-01T12:30:00Z", Value: 71.25}, got)
}

func TestPublishErrors(t *testing.T) {
	rec := models.Record{Series: "office", Date: time.Now(), Value: 1}

	p := NewWithClient(&fakeClient{token: &fakeToken{err: errors.New("not authorized")}}, "csvchart")
	err := p.Publish(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorized")

	p = NewWithClient(&fakeClient{token: &fakeToken{timedOut: true}}, "csvchart")
	err = p.Publish(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestClose(t *testing.T) {
	client := &fakeClient{connected: true}
	NewWithClient(client, "csvchart").Close()
	assert.True(t, client.disconnected)

	idle := &fakeClient{}
	NewWithClient(idle, "csvchart").Close()
	assert.False(t, idle.disconnected)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(config.MQTTConfig{})
	assert.Error(t, err)

	_, err = New(config.MQTTConfig{Enabled: true})
	assert.Error(t, err)
}

func TestBrokerURL(t *testing.T) {
	assert.Equal(t, "tcp://localhost:1883", brokerURL("localhost:1883"))
	assert.Equal(t, "ssl://broker:8883", brokerURL("ssl://broker:8883"))
}
