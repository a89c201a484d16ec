// Package queue publishes form lifecycle events for downstream consumers
// (notification senders, analytics). The service layer treats publishing
// as fire-and-forget; a lost event never fails a submission.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const (
	EventSubmissionCreated = "submission.created"
	EventFormPublished     = "form.published"
)

// Event is the wire payload for every topic message.
type Event struct {
	Kind        string    `json:"kind"`
	FormID      string    `json:"formId"`
	FormVersion string    `json:"formVersion,omitempty"`
	ObjectID    string    `json:"objectId,omitempty"`
	At          time.Time `json:"at"`
}

type Publisher interface {
	// Publish emits one event. Implementations must not block on broker
	// acknowledgement.
	Publish(ctx context.Context, event Event) error
	Close()
}

// NopPublisher drops every event. Used in tests and when no broker is
// configured.
type NopPublisher struct{}

func NewNopPublisher() NopPublisher { return NopPublisher{} }

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NopPublisher) Close() {}

var _ Publisher = (*KafkaPublisher)(nil)

type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(brokers, topic string) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	p := &KafkaPublisher{producer: producer, topic: topic}
	go p.drainEvents()

	return p, nil
}

// drainEvents logs delivery failures; nothing retries them.
func (p *KafkaPublisher) drainEvents() {
	for e := range p.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			logrus.Errorf("event delivery failed: %v", m.TopicPartition.Error)
		}
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.FormID),
		Value:          value,
	}, nil)
}

func (p *KafkaPublisher) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
