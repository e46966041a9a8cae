package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/query"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
)

// UserRepo provides data access for the users table. q may be a *sqlx.DB or
// a *sqlx.Tx, so the same repo works inside a transaction.
type UserRepo struct {
	q sqlx.ExtContext
}

func NewUserRepo(q sqlx.ExtContext) *UserRepo { return &UserRepo{q: q} }

const userColumns = `id, name, password, registration_time`

// Insert adds u and reloads it so the generated id and registration_time are
// filled in.
func (r *UserRepo) Insert(ctx context.Context, u *entity.User) error {
	q := r.q.Rebind(`INSERT INTO users (name, password) VALUES (?, ?) RETURNING id`)
	if err := r.q.QueryRowxContext(ctx, q, u.Name, u.Password).Scan(&u.ID); err != nil {
		return database.Classify(err)
	}
	return r.reload(ctx, u)
}

// Update overwrites the mutable columns of the row with u.ID. It returns
// sql.ErrNoRows when the row does not exist.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	q := r.q.Rebind(`UPDATE users SET name = ?, password = ? WHERE id = ? RETURNING id`)
	if err := r.q.QueryRowxContext(ctx, q, u.Name, u.Password, u.ID).Scan(&u.ID); err != nil {
		return database.Classify(err)
	}
	return r.reload(ctx, u)
}

func (r *UserRepo) reload(ctx context.Context, u *entity.User) error {
	q := r.q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	return sqlx.GetContext(ctx, r.q, u, q, u.ID)
}

// GetByID fetches a full user row or sql.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var u entity.User
	q := r.q.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes the row with id and reports how many rows went away.
func (r *UserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return 0, database.Classify(err)
	}
	return res.RowsAffected()
}

// Find returns the users matching every present filter, ordered by id.
func (r *UserRepo) Find(ctx context.Context, f entity.UserFilter) ([]entity.User, error) {
	q, args := query.Select(`SELECT `+userColumns+` FROM users`, "id", f.Conds()...)
	users := []entity.User{}
	if err := sqlx.SelectContext(ctx, r.q, &users, r.q.Rebind(q), args...); err != nil {
		return nil, err
	}
	return users, nil
}
