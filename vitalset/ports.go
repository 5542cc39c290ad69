package vitalset

import (
	"context"
	"time"
)

// Gateway is the durable store for vital sets. It is the only writer of
// persistent state.
type Gateway interface {
	// Save inserts rec when rec.ID is zero, otherwise overwrites the row with
	// the same identifier. The persisted record is returned.
	Save(ctx context.Context, rec VitalSet) (VitalSet, error)
	// FindAll returns every record ordered by identifier, or ErrNoDataFound
	// when the table is empty.
	FindAll(ctx context.Context) ([]VitalSet, error)
	FindByID(ctx context.Context, id int64) (VitalSet, bool, error)
	// DeleteByID is a no-op for unknown identifiers.
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// Publisher hands payloads to a messaging channel. Delivery is fire-and-forget:
// failures are handled, if at all, by the implementation.
type Publisher interface {
	Publish(ctx context.Context, payload PayloadRequest)
}

// Metrics receives the observations made by the service and its cache layer.
type Metrics interface {
	CacheLookup(cache string, hit bool)
	ObserveOperation(op string, elapsed time.Duration, err error)
}

type nopMetrics struct{}

func (nopMetrics) CacheLookup(string, bool)                      {}
func (nopMetrics) ObserveOperation(string, time.Duration, error) {}
