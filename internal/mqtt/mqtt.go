// Package mqtt publishes temperature readings to an mqtt broker.
package mqtt

import (
	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/womat/debug"
)

// quiesce is the number of milliseconds to wait for in-flight work to
// complete on disconnect.
const quiesce = 250

// Handler wraps the mqtt broker client. A Handler with no broker configured
// drops every message, so the daemon runs fine without mqtt.
type Handler struct {
	client mqttlib.Client
	topic  string
}

// New returns a handler publishing to topic on the given broker, e.g.
// "tcp://127.0.0.1:1883". An empty broker disables publishing.
func New(broker, topic string) (*Handler, error) {
	m := &Handler{topic: topic}
	if broker == "" {
		return m, nil
	}

	opts := mqttlib.NewClientOptions().AddBroker(broker)
	m.client = mqttlib.NewClient(opts)
	return m, m.reconnect()
}

func (m *Handler) reconnect() error {
	t := m.client.Connect()
	<-t.Done()
	return t.Error()
}

// Disconnect ends the connection to the broker.
func (m *Handler) Disconnect() error {
	if m.client == nil {
		return nil
	}

	m.client.Disconnect(quiesce)
	return nil
}

// Publish sends one reading payload to the configured topic. Broken broker
// connections are re-established first. Publish errors are logged, not
// returned; a lost reading is not worth stopping the poll loop for.
func (m *Handler) Publish(payload []byte) {
	if m.client == nil || m.topic == "" {
		return
	}

	if !m.client.IsConnected() {
		debug.DebugLog.Print("mqtt broker isn't connected, reconnect it")

		if err := m.reconnect(); err != nil {
			debug.ErrorLog.Printf("can't reconnect to mqtt broker %v", err)
			return
		}
	}

	debug.DebugLog.Printf("publishing %v bytes to topic %v", len(payload), m.topic)
	t := m.client.Publish(m.topic, 0, false, payload)

	// the asynchronous nature of this library makes it easy to forget to
	// check for errors, so collect them in a goroutine.
	go func() {
		<-t.Done()
		if err := t.Error(); err != nil {
			debug.ErrorLog.Printf("publishing topic %v: %v", m.topic, err)
		}
	}()
}
