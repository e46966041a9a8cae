package user

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/user/entity"
)

// Handler exposes HTTP endpoints for the user resource.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger, hasher PasswordHasher) *Handler {
	return &Handler{svc: NewUserService(db, hasher), logger: logger}
}

// DeletedResponse is the result of a successful delete.
type DeletedResponse struct {
	Deleted entity.UserView `json:"deleted"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.DecodeBody(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	view, err := h.svc.Create(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	h.logger.Infow("user created", "id", view.ID)
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
	h.logger.Infow("user deleted", "id", id)
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

// Search handles GET /v1/user/?user_id=&name=&registration_time=&page=&size=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := httpx.NewQuery(r)
	f := entity.UserFilter{
		ID:               q.Int64("user_id"),
		Name:             q.String("name"),
		RegistrationTime: q.Time("registration_time"),
	}
	page, size := q.Int("page"), q.Int("size")
	if err := q.Err(); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	users, err := h.svc.Search(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if len(users) == 0 {
		httpx.WriteError(w, r, h.logger, apperr.NotFound("Users not found!"))
		return
	}
	httpx.WriteList(w, users, page, size)
}
