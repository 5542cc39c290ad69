package events

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

// DefaultTopic is the channel payloads are published to when none is configured.
const DefaultTopic = "Kafka_logs"

const (
	BackendKafka = "kafka"
	BackendRedis = "redis"
	BackendLog   = "log"
)

// Recorder receives one observation per published payload. err is nil when
// the broker acknowledged the message.
type Recorder interface {
	EventPublished(backend string, err error)
}

type nopRecorder struct{}

func (nopRecorder) EventPublished(string, error) {}

// Option configures any of the publishers in this package.
type Option func(*options)

type options struct {
	logger   logrus.FieldLogger
	recorder Recorder
}

// WithLogger sets the logger delivery failures are reported to.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder reports every delivery outcome to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

func newOptions(component string, opts []Option) options {
	o := options{
		logger:   logrus.StandardLogger().WithField("type", "events/"+component),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LogPublisher writes payloads to the logger. It is used when no broker is
// configured.
type LogPublisher struct {
	options
}

var _ vitalset.Publisher = (*LogPublisher)(nil)

func NewLogPublisher(opts ...Option) *LogPublisher {
	return &LogPublisher{options: newOptions("log_publisher", opts)}
}

func (p *LogPublisher) Publish(_ context.Context, payload vitalset.PayloadRequest) {
	p.logger.WithFields(logrus.Fields{
		"signature":      payload.Signature,
		"execution_time": payload.ExecutionTime,
	}).Info(payload.String())
	p.recorder.EventPublished(BackendLog, nil)
}
