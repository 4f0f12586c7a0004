package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agristock/agristock-api/internal/core"
	"github.com/agristock/agristock-api/internal/domain/model"
	"github.com/agristock/agristock-api/internal/observability/metrics"
	"github.com/agristock/agristock-api/internal/observability/statsd"
)

// AlertKind identifies which scan produced an alert.
type AlertKind string

const (
	AlertKindLowStock       AlertKind = "low_stock"
	AlertKindMaintenanceDue AlertKind = "maintenance_due"
)

// InventoryAlert is the payload posted to alert sinks. Sinks can reshape it
// with their body query.
type InventoryAlert struct {
	Kind      AlertKind       `json:"kind"`
	UserID    string          `json:"user_id"`
	Item      json.RawMessage `json:"item"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
}

const (
	// alertDedupeTTL keeps a fired alert from repeating on every scan while
	// the condition persists.
	alertDedupeTTL = 24 * time.Hour

	// maxConcurrentDeliveries bounds simultaneous webhook posts per scan.
	maxConcurrentDeliveries = 4
)

// AlertScannerOptions groups dependencies for AlertScanner.
type AlertScannerOptions struct {
	Supplies  core.SupplyRepository
	Equipment core.EquipmentRepository
	Sinks     *AlertSinkService
	Cache     core.CacheRepository // optional, enables dedupe
	Client    HTTPDoer             // optional, defaults to a timeout-bound client
	Metrics   statsd.Sink          // optional
}

// AlertScanner finds supplies at or below their low-stock threshold and
// equipment with maintenance due, and posts an alert for each to every
// enabled sink.
type AlertScanner struct {
	supplies  core.SupplyRepository
	equipment core.EquipmentRepository
	sinks     *AlertSinkService
	cache     core.CacheRepository
	client    HTTPDoer
	metrics   statsd.Sink
	logger    *slog.Logger
	now       func() time.Time
}

// NewAlertScanner constructs a new AlertScanner.
func NewAlertScanner(opts AlertScannerOptions, logger *slog.Logger) *AlertScanner {
	if opts.Supplies == nil || opts.Equipment == nil || opts.Sinks == nil {
		panic("alert scanner requires supply and equipment repositories and a sink service")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertScanner{
		supplies:  opts.Supplies,
		equipment: opts.Equipment,
		sinks:     opts.Sinks,
		cache:     opts.Cache,
		client:    client,
		metrics:   opts.Metrics,
		logger:    logger.With("component", "alert_scanner"),
		now:       time.Now,
	}
}

// Run scans on the given interval until the context is canceled. One scan
// runs immediately on start.
func (s *AlertScanner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Scan(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.ErrorContext(ctx, "alert scan failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Scan performs a single pass over both inventory tables.
func (s *AlertScanner) Scan(ctx context.Context) error {
	started := s.now()

	alerts, err := s.scan(ctx)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitScan(s.metrics, metrics.ScanMetric{
		Result:   result,
		Alerts:   alerts,
		Duration: time.Since(started),
	})
	return err
}

func (s *AlertScanner) scan(ctx context.Context) (int, error) {
	sinks, err := s.sinks.ListEnabled(ctx)
	if err != nil {
		return 0, err
	}
	if len(sinks) == 0 {
		s.logger.DebugContext(ctx, "no enabled alert sinks, skipping scan")
		return 0, nil
	}

	alerts, err := s.collectAlerts(ctx)
	if err != nil {
		return 0, err
	}
	if len(alerts) == 0 {
		return 0, nil
	}

	delivered := s.deliverAll(ctx, sinks, alerts)
	s.logger.InfoContext(ctx, "alert scan complete",
		"alerts", len(alerts),
		"sinks", len(sinks),
		"delivered", delivered)
	return len(alerts), nil
}

func (s *AlertScanner) collectAlerts(ctx context.Context) ([]dedupedAlert, error) {
	now := s.now()

	lowStock, err := s.supplies.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock supplies: %w", err)
	}
	due, err := s.equipment.ListMaintenanceDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list maintenance due equipment: %w", err)
	}

	alerts := make([]dedupedAlert, 0, len(lowStock)+len(due))
	for _, sup := range lowStock {
		item, merr := json.Marshal(sup)
		if merr != nil {
			continue
		}
		alerts = append(alerts, dedupedAlert{
			key: "alert:low_stock:" + sup.ID,
			payload: InventoryAlert{
				Kind:      AlertKindLowStock,
				UserID:    sup.UserID,
				Item:      item,
				Message:   fmt.Sprintf("%s is low on stock (%.2f %s remaining)", sup.Name, sup.Quantity, sup.Unit),
				Timestamp: now,
			},
		})
	}
	for _, eq := range due {
		item, merr := json.Marshal(eq)
		if merr != nil {
			continue
		}
		alerts = append(alerts, dedupedAlert{
			key: "alert:maintenance_due:" + eq.ID,
			payload: InventoryAlert{
				Kind:      AlertKindMaintenanceDue,
				UserID:    eq.UserID,
				Item:      item,
				Message:   fmt.Sprintf("%s is due for maintenance", eq.Name),
				Timestamp: now,
			},
		})
	}
	return alerts, nil
}

type dedupedAlert struct {
	key     string
	payload InventoryAlert
}

// deliverAll posts each fresh alert to every sink, bounded by
// maxConcurrentDeliveries, and returns the count of successful posts.
// Delivery failures are logged, not returned: one bad sink must not block
// the rest.
func (s *AlertScanner) deliverAll(ctx context.Context, sinks []*model.AlertSink, alerts []dedupedAlert) int {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDeliveries)

	results := make(chan bool, len(alerts)*len(sinks))
	for _, alert := range alerts {
		if s.seen(ctx, alert.key) {
			continue
		}
		payload, err := json.Marshal(alert.payload)
		if err != nil {
			s.logger.ErrorContext(ctx, "marshal alert payload", "key", alert.key, "error", err)
			continue
		}
		s.markSeen(ctx, alert.key)

		kind := alert.payload.Kind
		for _, sink := range sinks {
			g.Go(func() error {
				ok := s.deliverOne(gctx, sink, kind, payload)
				results <- ok
				return nil
			})
		}
	}
	_ = g.Wait()
	close(results)

	delivered := 0
	for ok := range results {
		if ok {
			delivered++
		}
	}
	return delivered
}

func (s *AlertScanner) deliverOne(ctx context.Context, sink *model.AlertSink, kind AlertKind, payload json.RawMessage) bool {
	started := time.Now()

	prep, err := s.sinks.Prepare(sink, payload)
	if err == nil {
		err = Deliver(ctx, s.client, prep)
	}

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		s.logger.ErrorContext(ctx, "deliver alert",
			"sink_id", sink.ID,
			"sink_name", sink.Name,
			"error", err)
	}
	metrics.EmitAlertDelivery(s.metrics, metrics.DeliveryMetric{
		Kind:     string(kind),
		SinkName: sink.Name,
		Result:   result,
		Duration: time.Since(started),
		Err:      err,
	})
	return err == nil
}

func (s *AlertScanner) seen(ctx context.Context, key string) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	return err == nil && data != nil
}

func (s *AlertScanner) markSeen(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, []byte("1"), alertDedupeTTL); err != nil {
		s.logger.DebugContext(ctx, "alert dedupe write failed", "key", key, "error", err)
	}
}
