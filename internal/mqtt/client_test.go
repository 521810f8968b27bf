package mqtt

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/berfenger/dht2mqtt/internal/config"
	"github.com/berfenger/dht2mqtt/internal/core/domain"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mqttTokenMock struct {
	mock.Mock
}

func (m *mqttTokenMock) Wait() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mqttTokenMock) WaitTimeout(d time.Duration) bool {
	args := m.Called(d)
	return args.Bool(0)
}

func (m *mqttTokenMock) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (m *mqttTokenMock) Error() error {
	args := m.Called()
	return args.Error(0)
}

type pahoClientMock struct {
	mock.Mock
}

func (m *pahoClientMock) Connect() mqtt.Token {
	args := m.Called()
	return args.Get(0).(mqtt.Token)
}

func (m *pahoClientMock) Disconnect(quiesce uint) {
	m.Called(quiesce)
}

func (m *pahoClientMock) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	return args.Get(0).(mqtt.Token)
}

type observerRecorder struct {
	mu     sync.Mutex
	events []string
}

func (o *observerRecorder) OnConnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "connect")
}

func (o *observerRecorder) OnConnectionLost(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "lost:"+err.Error())
}

func (o *observerRecorder) OnReconnecting() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, "reconnecting")
}

func testEndpoint() config.BrokerEndpoint {
	return config.BrokerEndpoint{
		Hostname:       "localhost",
		Port:           1883,
		ClientId:       "dht-sensor-mqtt",
		TimeoutSeconds: 5,
	}
}

func okToken() *mqttTokenMock {
	token := &mqttTokenMock{}
	token.On("WaitTimeout", mock.Anything).Return(true)
	token.On("Error").Return(nil)
	return token
}

func TestOptsFromConfig(t *testing.T) {

	assert := assert.New(t)

	endpoint := testEndpoint()
	endpoint.Username = "user"
	endpoint.Password = "pass"
	endpoint.CleanSession = true

	opts := OptsFromConfig(endpoint)

	require.Len(t, opts.Servers, 1)
	assert.Equal("tcp://localhost:1883", opts.Servers[0].String())
	assert.Equal("dht-sensor-mqtt", opts.ClientID)
	assert.Equal("user", opts.Username)
	assert.Equal("pass", opts.Password)
	assert.True(opts.CleanSession)
	assert.True(opts.AutoReconnect)
	assert.False(opts.ConnectRetry)
	assert.Equal(5*time.Second, opts.ConnectTimeout)
}

func TestConnectSuccess(t *testing.T) {

	client := &pahoClientMock{}
	client.On("Connect").Return(okToken())

	c := newMQTTClient(testEndpoint(), zap.NewNop())
	c.client = client

	assert.Equal(t, STATE_DISCONNECTED, c.State())
	require.NoError(t, c.Connect())
	assert.Equal(t, STATE_CONNECTED, c.State())
	assert.True(t, c.IsConnected())
}

func TestConnectFailureIsConnectionError(t *testing.T) {

	token := &mqttTokenMock{}
	token.On("WaitTimeout", mock.Anything).Return(true)
	refused := errors.New("connection refused")
	token.On("Error").Return(refused)

	client := &pahoClientMock{}
	client.On("Connect").Return(token)

	c := newMQTTClient(testEndpoint(), zap.NewNop())
	c.client = client

	err := c.Connect()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConnection))
	assert.True(t, errors.Is(err, refused))
	assert.Equal(t, STATE_DISCONNECTED, c.State())
	client.AssertNumberOfCalls(t, "Connect", 1)
}

func TestConnectTimeout(t *testing.T) {

	token := &mqttTokenMock{}
	token.On("WaitTimeout", 6*time.Second).Return(false)

	client := &pahoClientMock{}
	client.On("Connect").Return(token)

	c := newMQTTClient(testEndpoint(), zap.NewNop())
	c.client = client

	err := c.Connect()
	assert.True(t, errors.Is(err, domain.ErrConnection))
	assert.Equal(t, STATE_DISCONNECTED, c.State())
}

func TestPublishIsFireAndForget(t *testing.T) {

	failed := &mqttTokenMock{}
	failed.On("WaitTimeout", mock.Anything).Return(true)
	failed.On("Error").Return(errors.New("not connected"))

	client := &pahoClientMock{}
	client.On("Publish", "a/state", byte(1), false, []byte("1.00")).Return(okToken())
	client.On("Publish", "b/state", byte(0), true, []byte("x")).Return(failed)

	c := newMQTTClient(testEndpoint(), zap.NewNop())
	c.client = client

	c.Publish("a/state", []byte("1.00"), 1, false)
	c.Publish("b/state", []byte("x"), 0, true)
	c.inflight.Wait()

	client.AssertExpectations(t)
	failed.AssertExpectations(t)
}

func TestConnectionStateTransitionsNotifyObservers(t *testing.T) {

	assert := assert.New(t)

	obs := &observerRecorder{}
	c := newMQTTClient(testEndpoint(), zap.NewNop(), obs, LogObserver{Logger: zap.NewNop()})

	c.onConnect()
	assert.Equal(STATE_CONNECTED, c.State())
	c.onConnectionLost(errors.New("EOF"))
	assert.Equal(STATE_DISCONNECTED, c.State())
	c.onReconnecting()
	assert.Equal(STATE_CONNECTING, c.State())
	c.onConnect()
	assert.Equal(STATE_CONNECTED, c.State())

	assert.Equal([]string{"connect", "lost:EOF", "reconnecting", "connect"}, obs.events)
}

func TestDisconnect(t *testing.T) {
	client := &pahoClientMock{}
	client.On("Disconnect", uint(500)).Return()

	c := newMQTTClient(testEndpoint(), zap.NewNop())
	c.client = client
	c.onConnect()

	c.Disconnect()
	assert.Equal(t, STATE_DISCONNECTED, c.State())
	client.AssertExpectations(t)
}

func TestCreateMQTTClient(t *testing.T) {
	c := CreateMQTTClient(testEndpoint(), OptsFromConfig(testEndpoint()), zap.NewNop())
	require.NotNil(t, c.client)
	assert.Equal(t, STATE_DISCONNECTED, c.State())
	assert.Equal(t, "disconnected", c.State().String())
}
