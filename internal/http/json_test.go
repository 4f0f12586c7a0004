package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agristock/agristock-api/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteAppError_StatusMapping(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"not found":           {apperrors.NotFound("supply not found"), http.StatusNotFound},
		"conflict":            {apperrors.Conflict("duplicate"), http.StatusConflict},
		"username taken":      {apperrors.UsernameTaken(), http.StatusConflict},
		"validation":          {apperrors.Validation("bad input"), http.StatusBadRequest},
		"invalid credentials": {apperrors.InvalidCredentials(), http.StatusUnauthorized},
		"provider":            {apperrors.Provider(errors.New("signup rejected")), http.StatusUnprocessableEntity},
		"internal":            {apperrors.Internal("oops"), http.StatusInternalServerError},
		"untyped":             {errors.New("raw failure"), http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteAppError(w, tc.err)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestWriteAppError_UntypedErrorsDoNotLeak(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAppError(w, errors.New("pq: connection refused at 10.0.0.5"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "unexpected error")
}

func TestWriteAppError_IncludesField(t *testing.T) {
	w := httptest.NewRecorder()
	WriteAppError(w, apperrors.ValidationField("username", "Username is too short"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"username"`)
	assert.Contains(t, w.Body.String(), "Username is too short")
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]int{"n": 1})

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}
