package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/query"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-adboard/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) cost() int {
	if b.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return b.Cost
}

func (b BcryptHasher) Hash(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), b.cost())
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// CreateUserRequest is the body of POST /v1/user/.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8,max=72,maxbytes=72"`
}

// UserService implements the user lifecycle on top of UserRepo. Every
// mutation runs in its own transaction.
type UserService struct {
	db     *sqlx.DB
	hasher PasswordHasher
}

func NewUserService(db *sqlx.DB, hasher PasswordHasher) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &UserService{db: db, hasher: hasher}
}

// Create hashes the password of a validated request and inserts the user.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (entity.UserView, error) {
	hash, err := s.hash(req.Password)
	if err != nil {
		return entity.UserView{}, err
	}
	return s.Upsert(ctx, &entity.User{Name: req.Name, Password: hash})
}

// Upsert inserts u when it has no id and updates the row with u.ID otherwise.
// u.Password must already be hashed.
func (s *UserService) Upsert(ctx context.Context, u *entity.User) (entity.UserView, error) {
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.save(ctx, userrepo.NewUserRepo(tx), u)
	})
	if err != nil {
		return entity.UserView{}, apperr.Storage(err)
	}
	return u.View(), nil
}

func (s *UserService) save(ctx context.Context, r *userrepo.UserRepo, u *entity.User) error {
	var err error
	if u.ID == 0 {
		err = r.Insert(ctx, u)
	} else {
		err = r.Update(ctx, u)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound(u.ID)
	case errors.Is(err, database.ErrUniqueViolation):
		return apperr.AlreadyExists("User [%s] already exists!", u.Name)
	}
	return apperr.Storage(err)
}

// Get returns the user with id.
func (s *UserService) Get(ctx context.Context, id int64) (entity.UserView, error) {
	u, err := s.fetch(ctx, userrepo.NewUserRepo(s.db), id)
	if err != nil {
		return entity.UserView{}, err
	}
	return u.View(), nil
}

func (s *UserService) fetch(ctx context.Context, r *userrepo.UserRepo, id int64) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return u, nil
}

// Delete removes the user with id and returns what was deleted. Users that
// still own advertisements are kept.
func (s *UserService) Delete(ctx context.Context, id int64) (entity.UserView, error) {
	var deleted *entity.User
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		r := userrepo.NewUserRepo(tx)
		u, err := s.fetch(ctx, r, id)
		if err != nil {
			return err
		}
		if _, err := r.Delete(ctx, id); err != nil {
			return err
		}
		deleted = u
		return nil
	})
	switch {
	case err == nil:
		return deleted.View(), nil
	case errors.Is(err, database.ErrForeignKeyViolation):
		return entity.UserView{}, apperr.HasDependents(
			"User [id: %d] cannot be deleted because they own advertisement(s)!", id)
	}
	return entity.UserView{}, apperr.Storage(err)
}

// Patch applies a partial update. An empty or invalid change set is rejected
// before the database is touched.
func (s *UserService) Patch(ctx context.Context, id int64, ch query.Changes) (entity.UserView, error) {
	if len(ch) == 0 {
		return entity.UserView{}, apperr.EmptyPatch("Bad request, not modified, request does not match model User!")
	}
	var scratch entity.User
	if err := entity.UserFields.Apply(&scratch, ch); err != nil {
		return entity.UserView{}, err
	}

	var u *entity.User
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		r := userrepo.NewUserRepo(tx)
		var err error
		if u, err = s.fetch(ctx, r, id); err != nil {
			return err
		}
		if err := entity.UserFields.Apply(u, ch); err != nil {
			return err
		}
		if ch.Has("password") {
			if u.Password, err = s.hash(u.Password); err != nil {
				return err
			}
		}
		return s.save(ctx, r, u)
	})
	if err != nil {
		return entity.UserView{}, apperr.Storage(err)
	}
	return u.View(), nil
}

// Search returns the users matching every present filter. No match is an
// empty slice, not an error.
func (s *UserService) Search(ctx context.Context, f entity.UserFilter) ([]entity.UserView, error) {
	users, err := userrepo.NewUserRepo(s.db).Find(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	views := make([]entity.UserView, len(users))
	for i := range users {
		views[i] = users[i].View()
	}
	return views, nil
}

// hash reports a password bcrypt refuses as invalid input rather than a
// server failure.
func (s *UserService) hash(pw string) (string, error) {
	h, err := s.hasher.Hash(pw)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Invalid("password: maxbytes=72")
	}
	if err != nil {
		return "", apperr.Storage(err)
	}
	return h, nil
}

func notFound(id int64) error {
	return apperr.NotFound("User id: %d not found!", id)
}
