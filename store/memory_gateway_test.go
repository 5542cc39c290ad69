package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

func TestMemoryGateway_Contract(t *testing.T) {
	runGatewayContract(t, func(t *testing.T) vitalset.Gateway {
		return NewMemoryGateway()
	})
}

func TestMemoryGateway_ExplicitIDAdvancesSequence(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	rec := sampleVitalSet()
	rec.ID = 10
	_, err := g.Save(ctx, rec)
	require.NoError(t, err)

	next, err := g.Save(ctx, sampleVitalSet())
	require.NoError(t, err)
	assert.Equal(t, int64(11), next.ID)
}

func TestMemoryGateway_CanceledContext(t *testing.T) {
	g := NewMemoryGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Save(ctx, sampleVitalSet())
	assert.ErrorIs(t, err, context.Canceled)

	_, _, err = g.FindByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryGateway_ConcurrentInsertsGetUniqueIDs(t *testing.T) {
	g := NewMemoryGateway()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			saved, err := g.Save(ctx, sampleVitalSet())
			if err == nil {
				ids <- saved.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
