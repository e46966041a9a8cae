package advertisement

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/advertisement/entity"
	adrepo "github.com/ovaphlow/pitchfork/service-adboard/internal/advertisement/repo"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/query"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/database"
)

// CreateAdvertisementRequest is the body of POST /v1/advertisement/.
type CreateAdvertisementRequest struct {
	Header      string `json:"header" validate:"required,max=120"`
	OwnerID     int64  `json:"owner_id" validate:"required,min=1"`
	Description string `json:"description" validate:"required,max=240"`
}

// AdvertisementService implements the advertisement lifecycle. Every mutation
// runs in its own transaction.
type AdvertisementService struct {
	db *sqlx.DB
}

func NewAdvertisementService(db *sqlx.DB) *AdvertisementService {
	return &AdvertisementService{db: db}
}

func (s *AdvertisementService) Create(ctx context.Context, req CreateAdvertisementRequest) (entity.AdvertisementView, error) {
	return s.Upsert(ctx, &entity.Advertisement{
		Header:      req.Header,
		OwnerID:     req.OwnerID,
		Description: req.Description,
	})
}

// Upsert inserts a when it has no id and updates the row with a.ID otherwise.
func (s *AdvertisementService) Upsert(ctx context.Context, a *entity.Advertisement) (entity.AdvertisementView, error) {
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		return s.save(ctx, adrepo.NewAdvertisementRepo(tx), a)
	})
	if err != nil {
		return entity.AdvertisementView{}, apperr.Storage(err)
	}
	return a.View(), nil
}

func (s *AdvertisementService) save(ctx context.Context, r *adrepo.AdvertisementRepo, a *entity.Advertisement) error {
	var err error
	if a.ID == 0 {
		err = r.Insert(ctx, a)
	} else {
		err = r.Update(ctx, a)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound(a.ID)
	case errors.Is(err, database.ErrForeignKeyViolation):
		return apperr.ReferenceNotFound("Advertisement [%s]: Owner [id: %d] not found in user's table!",
			a.Header, a.OwnerID)
	case errors.Is(err, database.ErrUniqueViolation):
		return apperr.AlreadyExists("Advertisement [%s] already exists!", a.Header)
	}
	return apperr.Storage(err)
}

func (s *AdvertisementService) Get(ctx context.Context, id int64) (entity.AdvertisementView, error) {
	a, err := s.fetch(ctx, adrepo.NewAdvertisementRepo(s.db), id)
	if err != nil {
		return entity.AdvertisementView{}, err
	}
	return a.View(), nil
}

func (s *AdvertisementService) fetch(ctx context.Context, r *adrepo.AdvertisementRepo, id int64) (*entity.Advertisement, error) {
	a, err := r.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return a, nil
}

// Delete removes the advertisement with id and returns what was deleted.
func (s *AdvertisementService) Delete(ctx context.Context, id int64) (entity.AdvertisementView, error) {
	var deleted *entity.Advertisement
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		r := adrepo.NewAdvertisementRepo(tx)
		a, err := s.fetch(ctx, r, id)
		if err != nil {
			return err
		}
		if _, err := r.Delete(ctx, id); err != nil {
			return err
		}
		deleted = a
		return nil
	})
	if err != nil {
		return entity.AdvertisementView{}, apperr.Storage(err)
	}
	return deleted.View(), nil
}

// Patch applies a partial update. An empty or invalid change set is rejected
// before the database is touched.
func (s *AdvertisementService) Patch(ctx context.Context, id int64, ch query.Changes) (entity.AdvertisementView, error) {
	if len(ch) == 0 {
		return entity.AdvertisementView{}, apperr.EmptyPatch(
			"Bad request, not modified, request does not match model Advertisement!")
	}
	var scratch entity.Advertisement
	if err := entity.AdvertisementFields.Apply(&scratch, ch); err != nil {
		return entity.AdvertisementView{}, err
	}

	var a *entity.Advertisement
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		r := adrepo.NewAdvertisementRepo(tx)
		var err error
		if a, err = s.fetch(ctx, r, id); err != nil {
			return err
		}
		if err := entity.AdvertisementFields.Apply(a, ch); err != nil {
			return err
		}
		return s.save(ctx, r, a)
	})
	if err != nil {
		return entity.AdvertisementView{}, apperr.Storage(err)
	}
	return a.View(), nil
}

// Search returns the advertisements matching every present filter.
func (s *AdvertisementService) Search(ctx context.Context, f entity.AdvertisementFilter) ([]entity.AdvertisementView, error) {
	ads, err := adrepo.NewAdvertisementRepo(s.db).Find(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	views := make([]entity.AdvertisementView, len(ads))
	for i := range ads {
		views[i] = ads[i].View()
	}
	return views, nil
}

func notFound(id int64) error {
	return apperr.NotFound("Advertisement [id: %d] not found!", id)
}
