package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message is an event payload together with the topic it was published on.
type Message struct {
	Topic string
	Data  []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan Message, error)
	Close() error
}

// Decode unmarshals the payload into the event type published on its topic.
// The result is one of RunStarted, RunFinished, DownloadSucceeded or
// DownloadFailed, by value.
func Decode(msg Message) (any, error) {
	switch msg.Topic {
	case TopicRunStarted:
		return decodeAs[RunStarted](msg)
	case TopicRunFinished:
		return decodeAs[RunFinished](msg)
	case TopicDownloadSucceeded:
		return decodeAs[DownloadSucceeded](msg)
	case TopicDownloadFailed:
		return decodeAs[DownloadFailed](msg)
	}
	return nil, fmt.Errorf("unknown event topic %q", msg.Topic)
}

func decodeAs[T any](msg Message) (any, error) {
	var e T
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		return nil, fmt.Errorf("decoding %s event: %w", msg.Topic, err)
	}
	return e, nil
}
