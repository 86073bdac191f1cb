package mqtt

import (
	"github.com/sweeney/pulse-motion/internal/motion"
)

// Message is a single publish as the broker would receive it.
type Message struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// FakePublisher records what would go over the wire, with the same topic,
// QoS and retain choices as RealPublisher.
type FakePublisher struct {
	// Messages holds every successful publish in order.
	Messages []Message

	// Events and SystemEvents hold the inputs behind Messages.
	Events       []motion.Event
	SystemEvents []SystemEvent

	// PublishError and PublishSystemError fail the matching call without
	// recording anything.
	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the motion event as a QoS 0, non-retained message.
func (f *FakePublisher) Publish(event motion.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Messages = append(f.Messages, Message{Topic: Topic, QoS: QoSMotion, Payload: payload})
	return nil
}

// PublishSystem records the system event as a QoS 1 message, retained if
// the event asks for it.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.Messages = append(f.Messages, Message{
		Topic:    TopicSystem,
		QoS:      QoSSystem,
		Retained: event.Retained,
		Payload:  payload,
	})
	return nil
}

// OnTopic returns the recorded messages for one topic, in order.
func (f *FakePublisher) OnTopic(topic string) []Message {
	var out []Message
	for _, m := range f.Messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected returns Connected.
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears everything recorded and configured.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
