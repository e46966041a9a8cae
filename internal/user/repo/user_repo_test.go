package repo_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
)

var userCols = []string{"id", "name", "password", "registration_time"}

func newRepo(t *testing.T) (*repo.UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repo.NewUserRepo(sqlx.NewDb(db, "postgres")), mock
}

func TestUserRepo_Insert(t *testing.T) {
	r, mock := newRepo(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (name, password) VALUES ($1, $2) RETURNING id`)).
		WithArgs("ann", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, password, registration_time FROM users WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(5, "ann", "hash", now))

	u := &entity.User{Name: "ann", Password: "hash"}
	require.NoError(t, r.Insert(context.Background(), u))
	require.Equal(t, int64(5), u.ID)
	require.Equal(t, now, u.RegistrationTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_InsertDuplicate(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_name_key"})

	err := r.Insert(context.Background(), &entity.User{Name: "ann", Password: "hash"})
	require.ErrorIs(t, err, database.ErrUniqueViolation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_UpdateMissing(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET name = $1, password = $2 WHERE id = $3 RETURNING id`)).
		WithArgs("ann", "hash", int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := r.Update(context.Background(), &entity.User{ID: 9, Name: "ann", Password: "hash"})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Delete(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.Delete(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_DeleteWithDependents(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectExec(`DELETE FROM users`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := r.Delete(context.Background(), 3)
	require.ErrorIs(t, err, database.ErrForeignKeyViolation)
}

func TestUserRepo_Find(t *testing.T) {
	r, mock := newRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, password, registration_time FROM users ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "ann", "h", now).AddRow(2, "bob", "h", now))
	all, err := r.Find(context.Background(), entity.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	name := "bob"
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, password, registration_time FROM users WHERE name = $1 ORDER BY id`)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(userCols))
	none, err := r.Find(context.Background(), entity.UserFilter{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByIDMissing(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := r.GetByID(context.Background(), 4)
	require.ErrorIs(t, err, sql.ErrNoRows)
}
