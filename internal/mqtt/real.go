package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/pulse-motion/internal/motion"
)

// bufferCapacity is how many messages are held while the broker is unreachable.
const bufferCapacity = 100

// publishTimeout bounds how long a single publish may hold up the control loop.
const publishTimeout = 5 * time.Second

// client is the subset of paho.Client the publisher uses.
type client interface {
	Connect() paho.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	IsConnectionOpen() bool
	Disconnect(quiesce uint)
}

// RealPublisher publishes to an actual MQTT broker.
// Messages published while disconnected are buffered and replayed on reconnect.
type RealPublisher struct {
	client client
	now    func() time.Time

	mu            sync.Mutex
	buf           *ringBuffer
	open          bool // between an OnConnect and the next ConnectionLost
	everConnected bool
}

// NewRealPublisher creates a publisher for the given broker. Connection is
// established in the background and retried until it succeeds.
func NewRealPublisher(broker string) *RealPublisher {
	p := newPublisher(nil, time.Now)

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.handleConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) { p.handleConnectionLost(err) }).
		SetWill(TopicSystem, string(WillPayload()), QoSSystem, true)

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

func newPublisher(c client, now func() time.Time) *RealPublisher {
	return &RealPublisher{
		client: c,
		now:    now,
		buf:    newRingBuffer(bufferCapacity),
	}
}

// handleConnect replays buffered messages oldest first and announces
// reconnections. The buffer is drained under the same lock that publish
// checks, so nothing pushed before the drain is stranded.
func (p *RealPublisher) handleConnect() {
	p.mu.Lock()
	msgs, dropped := p.buf.drainAll()
	reconnect := p.everConnected
	p.everConnected = true
	p.open = true
	p.mu.Unlock()

	log.Printf("mqtt: connected, replaying %d buffered messages (%d dropped)", len(msgs), dropped)

	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(publishTimeout) || token.Error() != nil {
			log.Printf("mqtt: replay to %s failed", m.topic)
		}
	}

	if reconnect {
		payload, err := FormatSystemPayload(SystemEvent{Timestamp: p.now(), Event: "RECONNECTED"})
		if err != nil {
			return
		}
		p.client.Publish(TopicSystem, QoSSystem, false, payload)
	}
}

func (p *RealPublisher) handleConnectionLost(err error) {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
	log.Printf("mqtt: connection lost: %v", err)
}

// Publish sends a motion event to the MQTT broker.
func (p *RealPublisher) Publish(event motion.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.publish(Topic, QoSMotion, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(TopicSystem, QoSSystem, event.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	msg := bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained}

	p.mu.Lock()
	if !p.open {
		p.buf.push(msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		p.requeue(msg)
		return fmt.Errorf("publish to %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		p.requeue(msg)
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	return nil
}

func (p *RealPublisher) requeue(msg bufferedMsg) {
	p.mu.Lock()
	p.buf.push(msg)
	p.mu.Unlock()
}

// buffered returns how many messages are waiting for the next connect.
func (p *RealPublisher) buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// IsConnected reports whether the broker connection is currently open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
