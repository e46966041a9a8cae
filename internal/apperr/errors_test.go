package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{NotFound("User id: %d not found!", 1), http.StatusNotFound, "not_found"},
		{AlreadyExists("x"), http.StatusConflict, "already_exists"},
		{ReferenceNotFound("x"), http.StatusUnprocessableEntity, "reference_not_found"},
		{HasDependents("x"), http.StatusConflict, "has_dependents"},
		{EmptyPatch("x"), http.StatusBadRequest, "empty_patch"},
		{Invalid("x"), http.StatusBadRequest, "invalid"},
		{Storage(errors.New("conn reset")), http.StatusInternalServerError, "storage_error"},
		{errors.New("plain"), http.StatusInternalServerError, "storage_error"},
	}
	seen := map[string]bool{}
	for _, tc := range cases {
		status, code, _ := Status(tc.err)
		require.Equal(t, tc.status, status, tc.err.Error())
		require.Equal(t, tc.code, code)
		seen[code] = true
	}
	require.Len(t, seen, 7)
}

func TestMessages(t *testing.T) {
	_, _, msg := Status(NotFound("User id: %d not found!", 42))
	require.Equal(t, "User id: 42 not found!", msg)

	_, _, msg = Status(Storage(errors.New("password authentication failed")))
	require.Equal(t, "internal server error", msg)
}

func TestStorageKeepsKind(t *testing.T) {
	nf := NotFound("gone")
	require.Same(t, nf, Storage(nf))
	require.ErrorIs(t, Storage(fmt.Errorf("tx: %w", nf)), ErrNotFound)
	require.Nil(t, Storage(nil))

	cause := errors.New("boom")
	err := Storage(cause)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, cause)
}
