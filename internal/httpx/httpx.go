// Package httpx holds the request decoding and response writing shared by
// the resource handlers.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-adboard/internal/query"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/utilities"
)

const maxBody = 1 << 20

type ctxKey struct{}

// WithRequestID stores the request id on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Result is the success envelope.
type Result struct {
	Result any `json:"result"`
}

// ErrorBody is the failure envelope.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteResult writes v wrapped in {"result": v}.
func WriteResult(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Result{Result: v})
}

// WriteError maps err to its status and code. Server-side failures are logged
// with their cause; the caller only sees an opaque message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	status, code, msg := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", RequestID(r.Context()), "err", err)
	} else {
		logger.Debugw("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	WriteJSON(w, status, ErrorBody{Error: msg, Code: code})
}

// DecodeBody decodes a JSON body into dst and runs struct validation on it.
func DecodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Invalid("invalid payload: %v", err)
	}
	if err := utilities.Validate.Struct(dst); err != nil {
		return apperr.Invalid("%s", utilities.ValidationMessage(err))
	}
	return nil
}

// DecodeChanges decodes a PATCH body into a field map. A JSON null body is an
// empty change set.
func DecodeChanges(w http.ResponseWriter, r *http.Request) (query.Changes, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var ch query.Changes
	if err := json.NewDecoder(r.Body).Decode(&ch); err != nil {
		return nil, apperr.Invalid("invalid payload: expected a JSON object")
	}
	return ch, nil
}

// PathID parses the {id} path segment.
func PathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Invalid("id: expected integer, got %q", raw)
	}
	return id, nil
}

// Query reads optional search parameters. A key counts as supplied as soon
// as it appears in the query string, even with an empty value.
type Query struct {
	values url.Values
	err    error
}

func NewQuery(r *http.Request) *Query { return &Query{values: r.URL.Query()} }

// Err returns the first parse failure.
func (q *Query) Err() error { return q.err }

func (q *Query) lookup(key string) (string, bool) {
	if !q.values.Has(key) {
		return "", false
	}
	return q.values.Get(key), true
}

func (q *Query) fail(key, want, raw string) {
	if q.err == nil {
		q.err = apperr.Invalid("%s: expected %s, got %q", key, want, raw)
	}
}

func (q *Query) String(key string) *string {
	v, ok := q.lookup(key)
	if !ok {
		return nil
	}
	return &v
}

func (q *Query) Int64(key string) *int64 {
	raw, ok := q.lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.fail(key, "integer", raw)
		return nil
	}
	return &v
}

func (q *Query) Int(key string) *int {
	v := q.Int64(key)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// Time parses an RFC 3339 timestamp and normalizes it to UTC, the zone
// timestamps are stored in.
func (q *Query) Time(key string) *time.Time {
	raw, ok := q.lookup(key)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		q.fail(key, "RFC 3339 timestamp", raw)
		return nil
	}
	t = t.UTC()
	return &t
}

// WriteList writes a search result either as a plain list or, when page or
// size was supplied, as one page of it.
func WriteList[T any](w http.ResponseWriter, items []T, page, size *int) {
	if page == nil && size == nil {
		WriteResult(w, http.StatusOK, items)
		return
	}
	p, s := utilities.NormalizePage(len(items), page, size)
	WriteResult(w, http.StatusOK, utilities.Paginate(items, p, s))
}
