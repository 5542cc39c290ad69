package store

import (
	"context"
	"database/sql"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

var _ vitalset.Gateway = (*BunGateway)(nil)

// BunGateway stores vital sets in the vital_sets table through bun.
type BunGateway struct {
	db bun.IDB
}

// NewBunGateway returns a gateway over db. db may be a *bun.DB or a bun.Tx.
func NewBunGateway(db bun.IDB) *BunGateway {
	return &BunGateway{db: db}
}

// EnsureSchema creates the vital_sets table when it does not exist.
func (g *BunGateway) EnsureSchema(ctx context.Context) error {
	_, err := g.db.NewCreateTable().
		Model((*vitalSetModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return pkgerrors.Wrap(err, "create vital_sets table")
}

func (g *BunGateway) Save(ctx context.Context, rec vitalset.VitalSet) (vitalset.VitalSet, error) {
	m := newModel(rec)

	if m.ID != 0 {
		res, err := g.db.NewUpdate().Model(m).WherePK().Exec(ctx)
		if err != nil {
			return vitalset.VitalSet{}, pkgerrors.Wrapf(err, "update vital set %d", m.ID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return vitalset.VitalSet{}, pkgerrors.Wrapf(err, "rows affected by update of vital set %d", m.ID)
		}
		if n > 0 {
			return m.toRecord(), nil
		}
	}

	if _, err := g.db.NewInsert().Model(m).Returning("id").Exec(ctx); err != nil {
		return vitalset.VitalSet{}, pkgerrors.Wrap(err, "insert vital set")
	}
	return m.toRecord(), nil
}

func (g *BunGateway) FindAll(ctx context.Context) ([]vitalset.VitalSet, error) {
	var rows []vitalSetModel
	if err := g.db.NewSelect().Model(&rows).Order("vs.id ASC").Scan(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "select vital sets")
	}
	if len(rows) == 0 {
		return nil, vitalset.ErrNoDataFound
	}

	records := make([]vitalset.VitalSet, len(rows))
	for i := range rows {
		records[i] = rows[i].toRecord()
	}
	return records, nil
}

func (g *BunGateway) FindByID(ctx context.Context, id int64) (vitalset.VitalSet, bool, error) {
	m := new(vitalSetModel)
	err := g.db.NewSelect().Model(m).Where("vs.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return vitalset.VitalSet{}, false, nil
	}
	if err != nil {
		return vitalset.VitalSet{}, false, pkgerrors.Wrapf(err, "select vital set %d", id)
	}
	return m.toRecord(), true, nil
}

func (g *BunGateway) DeleteByID(ctx context.Context, id int64) error {
	_, err := g.db.NewDelete().
		Model((*vitalSetModel)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return pkgerrors.Wrapf(err, "delete vital set %d", id)
}

func (g *BunGateway) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ok, err := g.db.NewSelect().
		Model((*vitalSetModel)(nil)).
		Where("vs.id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, pkgerrors.Wrapf(err, "check vital set %d", id)
	}
	return ok, nil
}
