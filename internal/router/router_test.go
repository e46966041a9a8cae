package router_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/dbtest"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/router"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/user"
)

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Code   string          `json:"code"`
}

type client struct {
	t *testing.T
	h http.Handler
}

func newClient(t *testing.T) *client {
	db := dbtest.Open(t)
	h := router.RegisterRoutes(zap.NewNop().Sugar(), db, user.BcryptHasher{Cost: bcrypt.MinCost})
	return &client{t: t, h: h}
}

func (c *client) do(method, path, body string) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type userBody struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	RegistrationTime string `json:"registration_time"`
}

type adBody struct {
	ID          int64  `json:"id"`
	Header      string `json:"header"`
	OwnerID     int64  `json:"owner_id"`
	Description string `json:"description"`
}

type pageBody[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	rec, _ := c.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(router.RequestIDHeader))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	c := newClient(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(router.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(router.RequestIDHeader))
}

func TestUserLifecycle(t *testing.T) {
	c := newClient(t)

	rec, env := c.do(http.MethodPost, "/v1/user/", `{"name":"ann","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, string(env.Result), "password")
	ann := decode[userBody](t, env.Result)
	require.Equal(t, "ann", ann.Name)
	require.NotEmpty(t, ann.RegistrationTime)

	// collection path without the trailing slash
	rec, _ = c.do(http.MethodPost, "/v1/user", `{"name":"bob","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = c.do(http.MethodPost, "/v1/user/", `{"name":"ann","password":"other1234"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "already_exists", env.Code)
	require.Equal(t, "User [ann] already exists!", env.Error)

	rec, env = c.do(http.MethodGet, fmt.Sprintf("/v1/user/%d", ann.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, ann, decode[userBody](t, env.Result))

	rec, env = c.do(http.MethodPatch, fmt.Sprintf("/v1/user/%d", ann.ID), `{"name":"anna"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "anna", decode[userBody](t, env.Result).Name)

	rec, env = c.do(http.MethodPatch, fmt.Sprintf("/v1/user/%d", ann.ID), `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "empty_patch", env.Code)

	rec, env = c.do(http.MethodPatch, fmt.Sprintf("/v1/user/%d", ann.ID), `{"email":"a@b.c"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid", env.Code)

	rec, env = c.do(http.MethodDelete, fmt.Sprintf("/v1/user/%d", ann.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[struct {
		Deleted userBody `json:"deleted"`
	}](t, env.Result)
	require.Equal(t, ann.ID, deleted.Deleted.ID)

	rec, env = c.do(http.MethodGet, fmt.Sprintf("/v1/user/%d", ann.ID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", env.Code)
	require.Equal(t, fmt.Sprintf("User id: %d not found!", ann.ID), env.Error)
}

func TestCreateUserValidation(t *testing.T) {
	c := newClient(t)
	for _, body := range []string{
		`{"name":"ann"}`,
		`{"name":"","password":"secret123"}`,
		`{"name":"ann","password":"short"}`,
		`{"name":"` + strings.Repeat("x", 121) + `","password":"secret123"}`,
		`{"name":"ann","password":"` + strings.Repeat("é", 40) + `"}`,
		`not json`,
	} {
		rec, env := c.do(http.MethodPost, "/v1/user/", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, "invalid", env.Code)
	}
}

func TestBadPathID(t *testing.T) {
	c := newClient(t)
	rec, env := c.do(http.MethodGet, "/v1/user/abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid", env.Code)
}

func TestUserSearch(t *testing.T) {
	c := newClient(t)
	for _, n := range []string{"ann", "bob", "cid"} {
		rec, _ := c.do(http.MethodPost, "/v1/user/", `{"name":"`+n+`","password":"secret123"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := c.do(http.MethodGet, "/v1/user/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]userBody](t, env.Result), 3)

	rec, env = c.do(http.MethodGet, "/v1/user/?name=bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]userBody](t, env.Result)
	require.Len(t, list, 1)
	require.Equal(t, "bob", list[0].Name)

	rec, env = c.do(http.MethodGet, fmt.Sprintf("/v1/user/?user_id=%d&name=bob", list[0].ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]userBody](t, env.Result), 1)

	rec, env = c.do(http.MethodGet, "/v1/user/?registration_time="+list[0].RegistrationTime, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, decode[[]userBody](t, env.Result))

	rec, env = c.do(http.MethodGet, "/v1/user/?name=zed", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Users not found!", env.Error)

	// an empty value still filters
	rec, _ = c.do(http.MethodGet, "/v1/user/?name=", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = c.do(http.MethodGet, "/v1/user/?page=2&size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[pageBody[userBody]](t, env.Result)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 2, page.Pages)
	require.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	require.Equal(t, "cid", page.Items[0].Name)

	// out of range page falls back to the first one
	rec, env = c.do(http.MethodGet, "/v1/user/?page=9&size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[pageBody[userBody]](t, env.Result)
	require.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 2)

	// size alone that exceeds the result collapses to one page
	rec, env = c.do(http.MethodGet, "/v1/user/?size=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[pageBody[userBody]](t, env.Result)
	require.Equal(t, 3, page.Size)
	require.Equal(t, 1, page.Pages)

	rec, env = c.do(http.MethodGet, "/v1/user/?user_id=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid", env.Code)

	rec, _ = c.do(http.MethodGet, "/v1/user/?registration_time=yesterday", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvertisementLifecycle(t *testing.T) {
	c := newClient(t)
	_, env := c.do(http.MethodPost, "/v1/user/", `{"name":"ann","password":"secret123"}`)
	ann := decode[userBody](t, env.Result)

	rec, env := c.do(http.MethodPost, "/v1/advertisement/", `{"header":"bike","owner_id":999,"description":"red"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "reference_not_found", env.Code)

	rec, env = c.do(http.MethodPost, "/v1/advertisement/",
		fmt.Sprintf(`{"header":"bike","owner_id":%d,"description":"red"}`, ann.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	bike := decode[adBody](t, env.Result)
	require.Equal(t, ann.ID, bike.OwnerID)

	rec, env = c.do(http.MethodPost, "/v1/advertisement/",
		fmt.Sprintf(`{"header":"bike","owner_id":%d,"description":"blue"}`, ann.ID))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "already_exists", env.Code)

	rec, env = c.do(http.MethodDelete, fmt.Sprintf("/v1/user/%d", ann.ID), "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "has_dependents", env.Code)

	rec, env = c.do(http.MethodGet, fmt.Sprintf("/v1/advertisement/?owner_id=%d&description=red", ann.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]adBody](t, env.Result), 1)

	rec, env = c.do(http.MethodGet, "/v1/advertisement/?header=car", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Advertisements not found!", env.Error)

	rec, env = c.do(http.MethodPatch, fmt.Sprintf("/v1/advertisement/%d", bike.ID), `{"description":"blue"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "blue", decode[adBody](t, env.Result).Description)

	rec, env = c.do(http.MethodPatch, fmt.Sprintf("/v1/advertisement/%d", bike.ID), `{"owner_id":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid", env.Code)

	rec, env = c.do(http.MethodDelete, fmt.Sprintf("/v1/advertisement/%d", bike.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[struct {
		Deleted adBody `json:"deleted"`
	}](t, env.Result)
	require.Equal(t, "blue", deleted.Deleted.Description)

	rec, _ = c.do(http.MethodGet, fmt.Sprintf("/v1/advertisement/%d", bike.ID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = c.do(http.MethodDelete, fmt.Sprintf("/v1/user/%d", ann.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
}
