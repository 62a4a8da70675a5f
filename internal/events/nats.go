package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// subscriberBuffer is the number of messages held for a slow reader before
// the NATS client starts dropping them.
const subscriberBuffer = 64

func connect(url, name string, opts ...nats.Option) (*nats.Conn, error) {
	nc, err := nats.Connect(url, append([]nats.Option{nats.Name(name)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// NATSPublisher publishes events to NATS subjects as JSON.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := connect(url, "artron")
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", topic, err)
	}
	return p.conn.Publish(topic, data)
}

// Close flushes buffered events before closing, so the final events of a
// short-lived run are not lost.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	defer p.conn.Close()
	if err := p.conn.FlushTimeout(2 * time.Second); err != nil {
		return fmt.Errorf("flushing events: %w", err)
	}
	return nil
}

// NATSSubscriber reads events from NATS subjects. The connection reconnects
// indefinitely.
type NATSSubscriber struct {
	conn *nats.Conn
}

// NewNATSSubscriber connects to NATS. Extra options, such as disconnect and
// reconnect handlers, are applied after the defaults.
func NewNATSSubscriber(url string, opts ...nats.Option) (*NATSSubscriber, error) {
	nc, err := connect(url, "artron-watch",
		append([]nats.Option{nats.MaxReconnects(-1), nats.ReconnectWait(time.Second)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: nc}, nil
}

// Subscribe delivers messages published on topic, which may use NATS
// wildcards such as TopicAll. The channel is closed once ctx is done.
func (s *NATSSubscriber) Subscribe(ctx context.Context, topic string) (<-chan Message, error) {
	in := make(chan *nats.Msg, subscriberBuffer)
	sub, err := s.conn.ChanSubscribe(topic, in)
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	// The subscription must reach the server before messages published on
	// other connections are routed to it.
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing subscription: %w", err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer sub.Unsubscribe() //nolint:errcheck
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-in:
				select {
				case out <- Message{Topic: msg.Subject, Data: msg.Data}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
