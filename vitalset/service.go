package vitalset

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	opCreate      = "create"
	opFindAll     = "find_all"
	opFindByID    = "find_by_id"
	opUpdate      = "update"
	opDelete      = "delete"
	opSendMessage = "send_message"
)

// Service orchestrates the Gateway, the Cache and the Publisher. Every cache
// directive is an explicit call made after the store operation it belongs to.
type Service struct {
	gateway        Gateway
	cache          Cache
	publisher      Publisher
	logger         logrus.FieldLogger
	metrics        Metrics
	now            func() time.Time
	invalidateList bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics reports operation durations to m.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithListInvalidation evicts the cached list on every single-record write.
// By default the list entry is only replaced when it expires, so it can be
// stale after a create, update or delete.
func WithListInvalidation(enabled bool) Option {
	return func(s *Service) {
		s.invalidateList = enabled
	}
}

// NewService wires a Service. A nil publisher drops every message.
func NewService(gateway Gateway, c Cache, publisher Publisher, opts ...Option) *Service {
	if publisher == nil {
		publisher = nopPublisher{}
	}

	s := &Service{
		gateway:   gateway,
		cache:     c,
		publisher: publisher,
		logger:    logrus.StandardLogger().WithField("type", "vitalset/service"),
		metrics:   nopMetrics{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateVitalSet persists rec with a store-assigned identifier and writes the
// result through to the cache.
func (s *Service) CreateVitalSet(ctx context.Context, rec VitalSet) (created VitalSet, err error) {
	defer s.observe(opCreate, s.now(), &err)

	rec.ID = 0
	created, err = s.gateway.Save(ctx, rec)
	if err != nil {
		return VitalSet{}, pkgerrors.Wrap(err, "create vital set")
	}

	s.cache.PutRecord(ctx, created)
	s.afterWrite(ctx)

	s.logger.WithField("id", created.ID).Debug("created vital set")
	return created, nil
}

// FindAll returns every record, from the cached list when present.
// It fails with ErrNoDataFound when the store is empty.
func (s *Service) FindAll(ctx context.Context) (records []VitalSet, err error) {
	start := s.now()
	defer s.observe(opFindAll, start, &err)

	records, err = s.cache.All(ctx, func(ctx context.Context) ([]VitalSet, error) {
		records, err := s.gateway.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, ErrNoDataFound
		}
		return records, nil
	})
	if errors.Is(err, ErrNoDataFound) {
		return nil, ErrNoDataFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find all vital sets")
	}

	s.logger.WithFields(logrus.Fields{
		"count":   len(records),
		"elapsed": s.now().Sub(start),
	}).Debug("finding all vital sets")
	return records, nil
}

// FindByID returns the record for id through the cache. It fails with a
// *ResourceNotFoundError when id is unknown.
func (s *Service) FindByID(ctx context.Context, id int64) (rec VitalSet, err error) {
	defer s.observe(opFindByID, s.now(), &err)

	rec, err = s.cache.Record(ctx, id, func(ctx context.Context) (VitalSet, error) {
		rec, ok, err := s.gateway.FindByID(ctx, id)
		if err != nil {
			return VitalSet{}, pkgerrors.Wrapf(err, "find vital set %d", id)
		}
		if !ok {
			return VitalSet{}, NewResourceNotFound(id)
		}
		return rec, nil
	})
	if err != nil {
		return VitalSet{}, err
	}

	s.logger.WithField("id", id).Info("finding vital set by id")
	return rec, nil
}

// UpdateVitalSet replaces every field of the record id except the identifier
// and writes the result through to the cache.
func (s *Service) UpdateVitalSet(ctx context.Context, id int64, rec VitalSet) (updated VitalSet, err error) {
	start := s.now()
	defer s.observe(opUpdate, start, &err)

	existing, ok, err := s.gateway.FindByID(ctx, id)
	if err != nil {
		return VitalSet{}, pkgerrors.Wrapf(err, "find vital set %d", id)
	}
	if !ok {
		return VitalSet{}, NewResourceNotFound(id)
	}

	existing.applyFrom(rec)
	updated, err = s.gateway.Save(ctx, existing)
	if err != nil {
		return VitalSet{}, pkgerrors.Wrapf(err, "update vital set %d", id)
	}

	s.cache.PutRecord(ctx, updated)
	s.afterWrite(ctx)

	s.logger.WithFields(logrus.Fields{
		"id":      id,
		"elapsed": s.now().Sub(start),
	}).Debug("updated vital set")
	return updated, nil
}

// DeleteByID removes the record id. The cache entry for id is evicted whether
// or not the delete succeeds.
func (s *Service) DeleteByID(ctx context.Context, id int64) (result map[string]bool, err error) {
	defer s.observe(opDelete, s.now(), &err)
	defer s.cache.EvictRecord(ctx, id)

	ok, err := s.gateway.ExistsByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "find vital set %d", id)
	}
	if !ok {
		return nil, NewResourceNotFound(id)
	}

	if err := s.gateway.DeleteByID(ctx, id); err != nil {
		return nil, pkgerrors.Wrapf(err, "delete vital set %d", id)
	}
	s.afterWrite(ctx)

	s.logger.WithField("id", id).Debug("deleted vital set")
	return map[string]bool{"deleted": true}, nil
}

// SendMessage forwards payload to the publisher without waiting for delivery.
func (s *Service) SendMessage(ctx context.Context, payload PayloadRequest) {
	var err error
	defer s.observe(opSendMessage, s.now(), &err)

	s.logger.WithField("payload", payload.String()).Info("sending message")
	s.publisher.Publish(ctx, payload)
}

func (s *Service) afterWrite(ctx context.Context) {
	if s.invalidateList {
		s.cache.EvictAll(ctx)
	}
}

func (s *Service) observe(op string, start time.Time, err *error) {
	s.metrics.ObserveOperation(op, s.now().Sub(start), *err)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, PayloadRequest) {}
