package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CacheLookup(t *testing.T) {
	r := NewRecorder()

	r.CacheLookup("record", true)
	r.CacheLookup("record", true)
	r.CacheLookup("record", false)
	r.CacheLookup("list", false)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.lookups.WithLabelValues("record", "hit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.lookups.WithLabelValues("record", "miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.lookups.WithLabelValues("list", "miss")))
}

func TestRecorder_ObserveOperation(t *testing.T) {
	r := NewRecorder()

	r.ObserveOperation("find_all", 3*time.Millisecond, nil)
	r.ObserveOperation("find_by_id", time.Millisecond, errors.New("not found"))

	assert.Equal(t, 2, testutil.CollectAndCount(r.operations))
}

func TestRecorder_EventPublished(t *testing.T) {
	r := NewRecorder()

	r.EventPublished("kafka", nil)
	r.EventPublished("kafka", errors.New("broker down"))
	r.EventPublished("kafka", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.published.WithLabelValues("kafka", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.published.WithLabelValues("kafka", "error")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.CacheLookup("record", true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `vitaltrend_cache_lookups_total{cache="record",result="hit"} 1`)
}
