package mqtt

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/berfenger/dht2mqtt/internal/config"
	"github.com/berfenger/dht2mqtt/internal/core/domain"
	"github.com/berfenger/dht2mqtt/internal/metrics"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DISCONNECT_QUIESCE = 500 * time.Millisecond
)

type ConnectionState int32

const (
	STATE_DISCONNECTED ConnectionState = iota
	STATE_CONNECTING
	STATE_CONNECTED
)

func (s ConnectionState) String() string {
	switch s {
	case STATE_CONNECTING:
		return "connecting"
	case STATE_CONNECTED:
		return "connected"
	default:
		return "disconnected"
	}
}

// ConnectionObserver is notified from paho's goroutines. Implementations
// must not block and must not drive control flow.
type ConnectionObserver interface {
	OnConnect()
	OnConnectionLost(err error)
	OnReconnecting()
}

// pahoClient is the subset of mqtt.Client used here.
type pahoClient interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

func OptsFromConfig(endpoint config.BrokerEndpoint) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(endpoint))
	opts.SetClientID(endpoint.ClientId)
	opts.SetCleanSession(endpoint.CleanSession)
	if endpoint.Username != "" {
		opts.SetUsername(endpoint.Username)
	}
	if endpoint.Password != "" {
		opts.SetPassword(endpoint.Password)
	}
	opts.SetConnectTimeout(endpoint.Timeout())
	opts.SetKeepAlive(endpoint.Timeout())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetOrderMatters(false)

	return opts
}

// MQTTClient owns the broker connection. paho runs the network I/O and
// the reconnect logic on its own goroutines.
type MQTTClient struct {
	client    pahoClient
	endpoint  config.BrokerEndpoint
	state     atomic.Int32
	observers []ConnectionObserver
	logger    *zap.Logger
	inflight  sync.WaitGroup
}

func CreateMQTTClient(endpoint config.BrokerEndpoint, opts *mqtt.ClientOptions, logger *zap.Logger,
	observers ...ConnectionObserver) *MQTTClient {
	c := newMQTTClient(endpoint, logger, observers...)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.onConnect()
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.onConnectionLost(err)
	})
	opts.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		c.onReconnecting()
	})
	c.client = mqtt.NewClient(opts)
	return c
}

func newMQTTClient(endpoint config.BrokerEndpoint, logger *zap.Logger, observers ...ConnectionObserver) *MQTTClient {
	return &MQTTClient{
		endpoint:  endpoint,
		observers: observers,
		logger:    logger.With(zap.String("component", "mqtt")),
	}
}

// Connect performs a single blocking connection attempt. Failure wraps
// domain.ErrConnection.
func (c *MQTTClient) Connect() error {
	c.setState(STATE_CONNECTING)
	c.logger.Debug("mqtt@connecting", zap.String("broker", brokerURL(c.endpoint)))

	token := c.client.Connect()
	// paho bounds the handshake with the connect timeout; the extra second
	// only guards against a token that never completes
	if !token.WaitTimeout(c.endpoint.Timeout() + time.Second) {
		c.setState(STATE_DISCONNECTED)
		return errors.Wrapf(domain.ErrConnection, "connect to %s timed out", brokerURL(c.endpoint))
	}
	if err := token.Error(); err != nil {
		c.setState(STATE_DISCONNECTED)
		return fmt.Errorf("%w: connect to %s: %w", domain.ErrConnection, brokerURL(c.endpoint), err)
	}
	c.setState(STATE_CONNECTED)
	return nil
}

// Publish queues a message and returns immediately. Delivery failures are
// logged from a background goroutine.
func (c *MQTTClient) Publish(topic string, payload []byte, qos byte, retain bool) {
	token := c.client.Publish(topic, qos, retain, payload)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		if !token.WaitTimeout(c.endpoint.Timeout()) {
			c.onPublishError(topic, errors.New("MQTT publish timed out"))
		} else if err := token.Error(); err != nil {
			c.onPublishError(topic, err)
		}
	}()
}

func (c *MQTTClient) Disconnect() {
	c.logger.Debug("mqtt: disconnect")
	c.client.Disconnect(uint(DISCONNECT_QUIESCE.Milliseconds()))
	c.setState(STATE_DISCONNECTED)
}

func (c *MQTTClient) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

func (c *MQTTClient) IsConnected() bool {
	return c.State() == STATE_CONNECTED
}

func (c *MQTTClient) onConnect() {
	c.setState(STATE_CONNECTED)
	for _, o := range c.observers {
		o.OnConnect()
	}
}

func (c *MQTTClient) onConnectionLost(err error) {
	c.setState(STATE_DISCONNECTED)
	for _, o := range c.observers {
		o.OnConnectionLost(err)
	}
}

func (c *MQTTClient) onReconnecting() {
	c.setState(STATE_CONNECTING)
	for _, o := range c.observers {
		o.OnReconnecting()
	}
}

func (c *MQTTClient) onPublishError(topic string, err error) {
	metrics.IncPublishError()
	c.logger.Warn("mqtt@publish could not publish a message", zap.String("topic", topic), zap.Error(err))
}

func (c *MQTTClient) setState(state ConnectionState) {
	c.state.Store(int32(state))
	metrics.SetBrokerConnected(state == STATE_CONNECTED)
}

func brokerURL(endpoint config.BrokerEndpoint) string {
	return fmt.Sprintf("tcp://%s:%d", endpoint.Hostname, endpoint.Port)
}

// LogObserver logs connection state transitions.
type LogObserver struct {
	Logger *zap.Logger
}

func (o LogObserver) OnConnect() {
	o.Logger.Info("Connected to the MQTT broker!")
}

func (o LogObserver) OnConnectionLost(err error) {
	o.Logger.Warn("Disconnected from the MQTT broker", zap.Error(err))
}

func (o LogObserver) OnReconnecting() {
	o.Logger.Info("Reconnecting to the MQTT broker")
}
