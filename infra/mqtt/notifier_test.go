package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulishov/timegrid/core/notify"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	topics   []string
	payloads [][]byte
}

func (f *fakeClient) IsConnected() bool     { return true }
func (f *fakeClient) Connect() paho.Token   { return fakeToken{} }
func (f *fakeClient) Disconnect(uint)       {}
func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload.([]byte))
	return fakeToken{}
}

func TestNotifier_PublishChange(t *testing.T) {
	fake := &fakeClient{}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fake }
	defer func() { newMQTTClient = orig }()

	n, err := NewNotifier(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	defer func() { _ = n.Close() }()

	notice := notify.ChangeNotice{
		RefreshID:    "r1",
		Class:        "9a",
		Days:         []int{0, 3},
		ChangedCells: 2,
	}
	require.NoError(t, n.PublishChange(notice))
	require.Len(t, fake.topics, 1)
	assert.Equal(t, "timegrid/changes/9a", fake.topics[0])

	var got notify.ChangeNotice
	require.NoError(t, json.Unmarshal(fake.payloads[0], &got))
	assert.Equal(t, notice.Class, got.Class)
	assert.Equal(t, notice.ChangedCells, got.ChangedCells)
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{Enabled: true}.Validate())
	assert.NoError(t, Config{Enabled: false}.Validate())
}

func TestConfig_SetDefaults(t *testing.T) {
	c := Config{}
	c.SetDefaults()
	assert.Equal(t, "timegrid/changes", c.Topic)
	assert.NotEmpty(t, c.ClientID)
}
