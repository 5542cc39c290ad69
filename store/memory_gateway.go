package store

import (
	"cmp"
	"context"
	"slices"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

var _ vitalset.Gateway = (*MemoryGateway)(nil)

// MemoryGateway keeps vital sets in process memory. Identifiers come from a
// monotonically increasing sequence starting at 1.
type MemoryGateway struct {
	rows *xsync.MapOf[int64, vitalset.VitalSet]
	seq  atomic.Int64
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{rows: xsync.NewMapOf[int64, vitalset.VitalSet]()}
}

func (g *MemoryGateway) Save(ctx context.Context, rec vitalset.VitalSet) (vitalset.VitalSet, error) {
	if err := ctx.Err(); err != nil {
		return vitalset.VitalSet{}, err
	}

	if rec.ID == 0 {
		rec.ID = g.seq.Add(1)
	} else {
		g.bumpSequence(rec.ID)
	}
	g.rows.Store(rec.ID, rec)
	return rec, nil
}

// bumpSequence keeps explicitly inserted ids from being handed out again.
func (g *MemoryGateway) bumpSequence(id int64) {
	for {
		cur := g.seq.Load()
		if id <= cur || g.seq.CompareAndSwap(cur, id) {
			return
		}
	}
}

func (g *MemoryGateway) FindAll(ctx context.Context) ([]vitalset.VitalSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]vitalset.VitalSet, 0, g.rows.Size())
	g.rows.Range(func(_ int64, rec vitalset.VitalSet) bool {
		records = append(records, rec)
		return true
	})
	if len(records) == 0 {
		return nil, vitalset.ErrNoDataFound
	}

	slices.SortFunc(records, func(a, b vitalset.VitalSet) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return records, nil
}

func (g *MemoryGateway) FindByID(ctx context.Context, id int64) (vitalset.VitalSet, bool, error) {
	if err := ctx.Err(); err != nil {
		return vitalset.VitalSet{}, false, err
	}
	rec, ok := g.rows.Load(id)
	return rec, ok, nil
}

func (g *MemoryGateway) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.rows.Delete(id)
	return nil
}

func (g *MemoryGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, ok := g.rows.Load(id)
	return ok, nil
}
