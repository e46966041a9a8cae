package advertisement

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/advertisement/entity"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/httpx"
)

// Handler exposes HTTP endpoints for the advertisement resource.
type Handler struct {
	svc    *AdvertisementService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewAdvertisementService(db), logger: logger}
}

type DeletedResponse struct {
	Deleted entity.AdvertisementView `json:"deleted"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAdvertisementRequest
	if err := httpx.DecodeBody(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Infow("advertisement created", "id", view.ID, "owner_id", view.OwnerID)
	httpx.WriteResult(w, http.StatusCreated, view)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteResult(w, http.StatusOK, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Infow("advertisement deleted", "id", id)
	httpx.WriteResult(w, http.StatusOK, DeletedResponse{Deleted: view})
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	ch, err := httpx.DecodeChanges(w, r)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.Patch(r.Context(), id, ch)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteResult(w, http.StatusOK, view)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := httpx.NewQuery(r)
	f := entity.AdvertisementFilter{
		ID:               q.Int64("advertisement_id"),
		Header:           q.String("header"),
		OwnerID:          q.Int64("owner_id"),
		RegistrationTime: q.Time("registration_time"),
		Description:      q.String("description"),
	}
	page, size := q.Int("page"), q.Int("size")
	if err := q.Err(); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	ads, err := h.svc.Search(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if len(ads) == 0 {
		httpx.WriteError(w, r, h.logger, apperr.NotFound("Advertisements not found!"))
		return
	}
	httpx.WriteList(w, ads, page, size)
}
