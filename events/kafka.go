package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

// KafkaConfig configures the Kafka writer.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes JSON encoded payloads with an asynchronous
// kafka-go writer. Publish never blocks on the broker; delivery failures are
// reported through the writer's completion callback.
type KafkaPublisher struct {
	options
	writer messageWriter
	topic  string
	newKey func() string
}

var _ vitalset.Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher builds an async writer for cfg.Topic, or DefaultTopic when
// it is empty.
func NewKafkaPublisher(cfg KafkaConfig, opts ...Option) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, pkgerrors.New("kafka publisher requires at least one broker")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	p := newKafkaPublisher(nil, topic, opts...)
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion:             p.complete,
	}
	return p, nil
}

func newKafkaPublisher(writer messageWriter, topic string, opts ...Option) *KafkaPublisher {
	return &KafkaPublisher{
		options: newOptions("kafka_publisher", opts),
		writer:  writer,
		topic:   topic,
		newKey:  uuid.NewString,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, payload vitalset.PayloadRequest) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.fail(pkgerrors.Wrap(err, "encode payload"), payload.Signature)
		return
	}

	msg := kafka.Message{
		Key:   []byte(p.newKey()),
		Value: value,
		Time:  time.Now(),
	}

	// with Async set this only fails when the writer is closed
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		p.fail(pkgerrors.Wrap(err, "enqueue kafka message"), payload.Signature)
	}
}

// complete is the kafka.Writer completion callback.
func (p *KafkaPublisher) complete(messages []kafka.Message, err error) {
	for _, msg := range messages {
		if err != nil {
			p.logger.WithError(err).WithFields(logrus.Fields{
				"topic": p.topic,
				"key":   string(msg.Key),
			}).Error("failed to deliver kafka message")
		}
		p.recorder.EventPublished(BackendKafka, err)
	}
}

func (p *KafkaPublisher) fail(err error, signature string) {
	p.logger.WithError(err).WithField("signature", signature).Error("failed to publish payload")
	p.recorder.EventPublished(BackendKafka, err)
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
