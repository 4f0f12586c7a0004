package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/agristock/agristock-api/internal/core"
	"github.com/agristock/agristock-api/internal/domain/model"
	apperrors "github.com/agristock/agristock-api/internal/errors"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// PreparedRequest is the result of applying a sink config to an alert payload.
type PreparedRequest struct {
	Method   string
	URL      string
	Headers  map[string]string
	Body     []byte
	OkStatus int
	Retry    int
}

// AlertSinkServiceOptions groups dependencies for AlertSinkService.
type AlertSinkServiceOptions struct {
	Repo      core.AlertSinkRepository
	Evaluator JMESPathEvaluator // optional, defaults to the go-jmespath implementation
}

// AlertSinkService manages webhook sink configurations and turns a sink plus
// an alert payload into a concrete HTTP request.
type AlertSinkService struct {
	repo   core.AlertSinkRepository
	jems   JMESPathEvaluator
	logger *slog.Logger
}

// NewAlertSinkService constructs a new AlertSinkService.
func NewAlertSinkService(opts AlertSinkServiceOptions, logger *slog.Logger) *AlertSinkService {
	if opts.Repo == nil {
		panic("alert sink service requires a repository")
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertSinkService{
		repo:   opts.Repo,
		jems:   jems,
		logger: logger.With("component", "alert_sink_service"),
	}
}

// Create validates and stores a new sink configuration.
func (s *AlertSinkService) Create(ctx context.Context, req *model.CreateAlertSinkRequest) (*model.AlertSink, error) {
	if req == nil {
		return nil, apperrors.ValidationField("general", "create alert sink request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("general", err.Error())
	}
	if req.BodyQuery != nil {
		if err := s.jems.Validate(*req.BodyQuery); err != nil {
			return nil, apperrors.ValidationField("body_query", fmt.Sprintf("invalid body query: %v", err))
		}
	}
	if req.Headers != nil {
		if _, err := parseSinkHeaders(*req.Headers); err != nil {
			return nil, apperrors.ValidationField("headers", err.Error())
		}
	}

	sink, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create alert sink: %w", err)
	}
	s.logger.DebugContext(ctx, "alert sink created", "id", sink.ID)
	return sink, nil
}

// GetByID retrieves an alert sink by its ID.
func (s *AlertSinkService) GetByID(ctx context.Context, id string) (*model.AlertSink, error) {
	sink, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get alert sink by id: %w", err)
	}
	return sink, nil
}

// List retrieves alert sinks with pagination.
func (s *AlertSinkService) List(ctx context.Context, limit, offset int) ([]*model.AlertSink, error) {
	sinks, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list alert sinks: %w", err)
	}
	return sinks, nil
}

// Delete removes an alert sink by its ID.
func (s *AlertSinkService) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete alert sink: %w", err)
	}
	if deleted {
		s.logger.DebugContext(ctx, "alert sink deleted", "id", id)
	}
	return deleted, nil
}

// ListEnabled returns the sinks that should receive alerts.
func (s *AlertSinkService) ListEnabled(ctx context.Context) ([]*model.AlertSink, error) {
	sinks, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enabled alert sinks: %w", err)
	}
	return sinks, nil
}

// Prepare applies the sink configuration to the payload: runs the body query
// (if any), parses configured headers, and fills in defaults.
func (s *AlertSinkService) Prepare(sink *model.AlertSink, payload json.RawMessage) (*PreparedRequest, error) {
	method := strings.ToUpper(strings.TrimSpace(sink.Method))
	if method == "" {
		method = http.MethodPost
	}

	headers, err := parseSinkHeaders(ptrVal(sink.Headers))
	if err != nil {
		return nil, err
	}

	body, err := s.deriveBody(sink.BodyQuery, payload)
	if err != nil {
		return nil, err
	}

	okStatus := sink.OkStatus
	if okStatus == 0 {
		okStatus = http.StatusOK
	}
	retry := sink.Retry
	if retry < 0 {
		retry = 0
	}

	return &PreparedRequest{
		Method:   method,
		URL:      sink.URI,
		Headers:  headers,
		Body:     body,
		OkStatus: okStatus,
		Retry:    retry,
	}, nil
}

func (s *AlertSinkService) deriveBody(expr *string, payload json.RawMessage) ([]byte, error) {
	q := strings.TrimSpace(ptrVal(expr))
	if q == "" {
		return payload, nil
	}
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("invalid payload JSON: %w", err)
	}
	res, err := s.jems.Evaluate(q, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate body query: %w", err)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal derived body: %w", err)
	}
	return b, nil
}

// parseSinkHeaders accepts a JSON object ({"X-Token":"abc"}) or line-based
// "Key: Value" entries.
func parseSinkHeaders(raw string) (map[string]string, error) {
	headers := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return headers, nil
	}
	if strings.HasPrefix(raw, "{") {
		var obj map[string]string
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, fmt.Errorf("invalid headers JSON: %w", err)
		}
		for k, v := range obj {
			if k = strings.TrimSpace(k); k != "" {
				headers[k] = v
			}
		}
		return headers, nil
	}
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("invalid header entry: %q", line)
		}
		headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return headers, nil
}

func ptrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// HTTPDoer is the subset of http.Client the deliverer needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// deliverRetryDelay is a var so tests can shorten the wait.
var deliverRetryDelay = 2 * time.Second

// Deliver posts a prepared request, retrying up to Retry additional times on
// transport errors or unexpected status codes.
func Deliver(ctx context.Context, client HTTPDoer, prep *PreparedRequest) error {
	var lastErr error
	for attempt := 0; attempt <= prep.Retry; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(deliverRetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		lastErr = deliverOnce(ctx, client, prep)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("deliver alert after %d attempts: %w", prep.Retry+1, lastErr)
}

func deliverOnce(ctx context.Context, client HTTPDoer, prep *PreparedRequest) error {
	req, err := http.NewRequestWithContext(ctx, prep.Method, prep.URL, bytes.NewReader(prep.Body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range prep.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != prep.OkStatus {
		return fmt.Errorf("unexpected status %d (want %d)", resp.StatusCode, prep.OkStatus)
	}
	return nil
}
