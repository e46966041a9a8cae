package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/advertisement/entity"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/query"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
)

// AdvertisementRepo provides data access for the advertisements table.
type AdvertisementRepo struct {
	q sqlx.ExtContext
}

func NewAdvertisementRepo(q sqlx.ExtContext) *AdvertisementRepo { return &AdvertisementRepo{q: q} }

const advertisementColumns = `id, header, owner_id, registration_time, description`

// Insert adds a and reloads it so the generated columns are filled in.
func (r *AdvertisementRepo) Insert(ctx context.Context, a *entity.Advertisement) error {
	q := r.q.Rebind(`INSERT INTO advertisements (header, owner_id, description)
		VALUES (?, ?, ?) RETURNING id`)
	if err := r.q.QueryRowxContext(ctx, q, a.Header, a.OwnerID, a.Description).Scan(&a.ID); err != nil {
		return database.Classify(err)
	}
	return r.reload(ctx, a)
}

// Update returns sql.ErrNoRows when the row does not exist.
func (r *AdvertisementRepo) Update(ctx context.Context, a *entity.Advertisement) error {
	q := r.q.Rebind(`UPDATE advertisements SET header = ?, owner_id = ?, description = ?
		WHERE id = ? RETURNING id`)
	if err := r.q.QueryRowxContext(ctx, q, a.Header, a.OwnerID, a.Description, a.ID).Scan(&a.ID); err != nil {
		return database.Classify(err)
	}
	return r.reload(ctx, a)
}

func (r *AdvertisementRepo) reload(ctx context.Context, a *entity.Advertisement) error {
	q := r.q.Rebind(`SELECT ` + advertisementColumns + ` FROM advertisements WHERE id = ?`)
	return sqlx.GetContext(ctx, r.q, a, q, a.ID)
}

func (r *AdvertisementRepo) GetByID(ctx context.Context, id int64) (*entity.Advertisement, error) {
	var a entity.Advertisement
	q := r.q.Rebind(`SELECT ` + advertisementColumns + ` FROM advertisements WHERE id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &a, q, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdvertisementRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM advertisements WHERE id = ?`), id)
	if err != nil {
		return 0, database.Classify(err)
	}
	return res.RowsAffected()
}

// Find returns the advertisements matching every present filter, ordered by id.
func (r *AdvertisementRepo) Find(ctx context.Context, f entity.AdvertisementFilter) ([]entity.Advertisement, error) {
	q, args := query.Select(`SELECT `+advertisementColumns+` FROM advertisements`, "id", f.Conds()...)
	ads := []entity.Advertisement{}
	if err := sqlx.SelectContext(ctx, r.q, &ads, r.q.Rebind(q), args...); err != nil {
		return nil, err
	}
	return ads, nil
}
