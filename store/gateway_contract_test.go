package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

func sampleVitalSet() vitalset.VitalSet {
	return vitalset.VitalSet{
		Username:         "nurse.joy",
		PatientFirstName: "Ada",
		PatientLastName:  "Lovelace",
		Systolic:         120,
		Diastolic:        80,
		Pulse:            72,
		Respirations:     16,
		Spo2:             98,
		Temperature:      36.6,
		Date:             "2024-03-01",
		Time:             "08:30",
	}
}

// runGatewayContract checks the behaviour every vitalset.Gateway must share.
func runGatewayContract(t *testing.T, newGateway func(t *testing.T) vitalset.Gateway) {
	t.Run("FindAll on empty store fails with ErrNoDataFound", func(t *testing.T) {
		g := newGateway(t)
		records, err := g.FindAll(context.Background())
		assert.True(t, errors.Is(err, vitalset.ErrNoDataFound), "got %v", err)
		assert.Empty(t, records)
	})

	t.Run("Save assigns increasing identifiers", func(t *testing.T) {
		g := newGateway(t)
		ctx := context.Background()

		first, err := g.Save(ctx, sampleVitalSet())
		require.NoError(t, err)
		second, err := g.Save(ctx, sampleVitalSet())
		require.NoError(t, err)

		assert.NotZero(t, first.ID)
		assert.Greater(t, second.ID, first.ID)

		want := sampleVitalSet()
		want.ID = first.ID
		assert.Equal(t, want, first)
	})

	t.Run("FindByID returns saved record", func(t *testing.T) {
		g := newGateway(t)
		ctx := context.Background()

		saved, err := g.Save(ctx, sampleVitalSet())
		require.NoError(t, err)

		got, ok, err := g.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, saved, got)
	})

	t.Run("FindByID on unknown id is not an error", func(t *testing.T) {
		g := newGateway(t)
		_, ok, err := g.FindByID(context.Background(), 404)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Save with identifier overwrites the row", func(t *testing.T) {
		g := newGateway(t)
		ctx := context.Background()

		saved, err := g.Save(ctx, sampleVitalSet())
		require.NoError(t, err)

		saved.Systolic = 135
		saved.PatientLastName = "Byron"
		updated, err := g.Save(ctx, saved)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, updated.ID)

		got, ok, err := g.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 135, got.Systolic)
		assert.Equal(t, "Byron", got.PatientLastName)

		all, err := g.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("FindAll returns every record ordered by id", func(t *testing.T) {
		g := newGateway(t)
		ctx := context.Background()

		var ids []int64
		for i := 0; i < 3; i++ {
			rec := sampleVitalSet()
			rec.Pulse = 60 + i
			saved, err := g.Save(ctx, rec)
			require.NoError(t, err)
			ids = append(ids, saved.ID)
		}

		all, err := g.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, rec := range all {
			assert.Equal(t, ids[i], rec.ID)
			assert.Equal(t, 60+i, rec.Pulse)
		}
	})

	t.Run("DeleteByID removes the row and is a no-op when absent", func(t *testing.T) {
		g := newGateway(t)
		ctx := context.Background()

		saved, err := g.Save(ctx, sampleVitalSet())
		require.NoError(t, err)

		exists, err := g.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, g.DeleteByID(ctx, saved.ID))
		require.NoError(t, g.DeleteByID(ctx, saved.ID))

		exists, err = g.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, ok, err := g.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
