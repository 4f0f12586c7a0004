package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/agristock/agristock-api/internal/domain/model"
	apperrors "github.com/agristock/agristock-api/internal/errors"
	"github.com/agristock/agristock-api/internal/mocks"
)

type evalStub struct {
	validateErr error
	res         any
	evalErr     error
}

func (e evalStub) Validate(_ string) error               { return e.validateErr }
func (e evalStub) Evaluate(_ string, _ any) (any, error) { return e.res, e.evalErr }

func ptr[T any](v T) *T { return &v }

func TestAlertSinkService_CreateValidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockAlertSinkRepository(ctrl)
	svc := NewAlertSinkService(AlertSinkServiceOptions{Repo: repo}, nil)

	t.Run("rejects bad uri", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &model.CreateAlertSinkRequest{
			Name: "ops hook",
			URI:  "ftp://example.com",
		})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("rejects bad body query", func(t *testing.T) {
		bad := NewAlertSinkService(AlertSinkServiceOptions{
			Repo:      repo,
			Evaluator: evalStub{validateErr: errors.New("syntax error")},
		}, nil)
		_, err := bad.Create(context.Background(), &model.CreateAlertSinkRequest{
			Name:      "ops hook",
			URI:       "https://example.com/hook",
			BodyQuery: ptr("{{nope"),
		})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "body_query", appErr.Field)
	})

	t.Run("rejects bad headers", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &model.CreateAlertSinkRequest{
			Name:    "ops hook",
			URI:     "https://example.com/hook",
			Headers: ptr("{not json"),
		})
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "headers", appErr.Field)
	})

	t.Run("stores valid sink", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *model.CreateAlertSinkRequest) (*model.AlertSink, error) {
				// Normalize ran before the repo call.
				assert.Equal(t, "POST", req.Method)
				return &model.AlertSink{ID: "sink-1", Name: req.Name}, nil
			})
		sink, err := svc.Create(context.Background(), &model.CreateAlertSinkRequest{
			Name: "ops hook",
			URI:  "https://example.com/hook",
		})
		require.NoError(t, err)
		assert.Equal(t, "sink-1", sink.ID)
	})
}

func TestAlertSinkService_Prepare(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockAlertSinkRepository(ctrl)

	payload := json.RawMessage(`{"kind":"low_stock","message":"Seed corn is low"}`)

	t.Run("defaults applied", func(t *testing.T) {
		svc := NewAlertSinkService(AlertSinkServiceOptions{Repo: repo}, nil)
		prep, err := svc.Prepare(&model.AlertSink{URI: "https://example.com/hook"}, payload)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, prep.Method)
		assert.Equal(t, http.StatusOK, prep.OkStatus)
		assert.Equal(t, 0, prep.Retry)
		assert.JSONEq(t, string(payload), string(prep.Body))
	})

	t.Run("body query reshapes payload", func(t *testing.T) {
		svc := NewAlertSinkService(AlertSinkServiceOptions{
			Repo:      repo,
			Evaluator: evalStub{res: map[string]any{"text": "Seed corn is low"}},
		}, nil)
		prep, err := svc.Prepare(&model.AlertSink{
			URI:       "https://example.com/hook",
			Method:    "post",
			BodyQuery: ptr("{text: message}"),
		}, payload)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, prep.Method)
		assert.JSONEq(t, `{"text":"Seed corn is low"}`, string(prep.Body))
	})

	t.Run("json headers", func(t *testing.T) {
		svc := NewAlertSinkService(AlertSinkServiceOptions{Repo: repo}, nil)
		prep, err := svc.Prepare(&model.AlertSink{
			URI:     "https://example.com/hook",
			Headers: ptr(`{"X-Token":"abc"}`),
		}, payload)
		require.NoError(t, err)
		assert.Equal(t, "abc", prep.Headers["X-Token"])
	})

	t.Run("line headers", func(t *testing.T) {
		svc := NewAlertSinkService(AlertSinkServiceOptions{Repo: repo}, nil)
		prep, err := svc.Prepare(&model.AlertSink{
			URI:     "https://example.com/hook",
			Headers: ptr("Authorization: Bearer abc\r\nX-Env: prod"),
		}, payload)
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", prep.Headers["Authorization"])
		assert.Equal(t, "prod", prep.Headers["X-Env"])
	})

	t.Run("evaluator error surfaces", func(t *testing.T) {
		svc := NewAlertSinkService(AlertSinkServiceOptions{
			Repo:      repo,
			Evaluator: evalStub{evalErr: errors.New("bad expr")},
		}, nil)
		_, err := svc.Prepare(&model.AlertSink{
			URI:       "https://example.com/hook",
			BodyQuery: ptr("message"),
		}, payload)
		assert.ErrorContains(t, err, "evaluate body query")
	})
}

func TestDeliver(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotBody []byte
		var gotHeader string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotHeader = r.Header.Get("X-Token")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		prep := &PreparedRequest{
			Method:   http.MethodPost,
			URL:      srv.URL,
			Headers:  map[string]string{"X-Token": "abc"},
			Body:     []byte(`{"a":1}`),
			OkStatus: http.StatusNoContent,
		}
		require.NoError(t, Deliver(context.Background(), srv.Client(), prep))
		assert.JSONEq(t, `{"a":1}`, string(gotBody))
		assert.Equal(t, "abc", gotHeader)
	})

	t.Run("unexpected status fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		prep := &PreparedRequest{Method: http.MethodPost, URL: srv.URL, OkStatus: http.StatusOK}
		err := Deliver(context.Background(), srv.Client(), prep)
		assert.ErrorContains(t, err, "unexpected status 502")
	})

	t.Run("retries until success", func(t *testing.T) {
		prev := deliverRetryDelay
		deliverRetryDelay = time.Millisecond
		t.Cleanup(func() { deliverRetryDelay = prev })

		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		prep := &PreparedRequest{Method: http.MethodPost, URL: srv.URL, OkStatus: http.StatusOK, Retry: 5}
		require.NoError(t, Deliver(context.Background(), srv.Client(), prep))
		assert.Equal(t, 3, attempts)
	})
}
