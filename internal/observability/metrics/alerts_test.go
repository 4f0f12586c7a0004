package metrics

import (
	"errors"
	"testing"
	"time"
)

type recordedMetric struct {
	name string
	tags map[string]string
}

type recordingSink struct {
	counts  []recordedMetric
	gauges  []recordedMetric
	timings []recordedMetric
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	r.counts = append(r.counts, recordedMetric{name: name, tags: tags})
}

func (r *recordingSink) Gauge(name string, _ float64, tags map[string]string) {
	r.gauges = append(r.gauges, recordedMetric{name: name, tags: tags})
}

func (r *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	r.timings = append(r.timings, recordedMetric{name: name, tags: tags})
}

func TestEmitAlertDelivery(t *testing.T) {
	sink := &recordingSink{}

	EmitAlertDelivery(sink, DeliveryMetric{
		Kind:     "low_stock",
		SinkName: "ops-webhook",
		Result:   ResultSuccess,
		Duration: 25 * time.Millisecond,
	})

	if len(sink.counts) != 1 {
		t.Fatalf("expected one count, got %d", len(sink.counts))
	}
	if sink.counts[0].name != "alert.delivery" {
		t.Fatalf("unexpected metric name: %s", sink.counts[0].name)
	}
	if sink.counts[0].tags["kind"] != "low_stock" || sink.counts[0].tags["sink"] != "ops-webhook" {
		t.Fatalf("unexpected tags: %v", sink.counts[0].tags)
	}
	if len(sink.timings) != 1 {
		t.Fatalf("expected one timing, got %d", len(sink.timings))
	}
}

func TestEmitAlertDelivery_ErrorClass(t *testing.T) {
	sink := &recordingSink{}

	EmitAlertDelivery(sink, DeliveryMetric{
		Kind:     "maintenance_due",
		SinkName: "ops-webhook",
		Result:   ResultError,
		Err:      errors.New("connection refused"),
	})

	if len(sink.counts) != 1 {
		t.Fatalf("expected one count, got %d", len(sink.counts))
	}
	if sink.counts[0].tags["error_class"] == "" {
		t.Fatal("expected error_class tag to be set")
	}
	// No duration supplied, so no timing emission.
	if len(sink.timings) != 0 {
		t.Fatalf("expected no timings, got %d", len(sink.timings))
	}
}

func TestEmitScan(t *testing.T) {
	sink := &recordingSink{}

	EmitScan(sink, ScanMetric{Result: ResultSuccess, Alerts: 3, Duration: time.Second})

	if len(sink.counts) != 1 || sink.counts[0].name != "alert.scan" {
		t.Fatalf("unexpected counts: %v", sink.counts)
	}
	if len(sink.gauges) != 1 || sink.gauges[0].name != "alert.scan_alerts" {
		t.Fatalf("unexpected gauges: %v", sink.gauges)
	}
	if len(sink.timings) != 1 {
		t.Fatalf("expected one timing, got %d", len(sink.timings))
	}
}

func TestEmitNilSink(t *testing.T) {
	// Must not panic.
	EmitAlertDelivery(nil, DeliveryMetric{Result: ResultSuccess})
	EmitScan(nil, ScanMetric{Result: ResultSuccess})
}

func TestCloneTags(t *testing.T) {
	if CloneTags(nil) != nil {
		t.Fatal("expected nil for empty input")
	}

	src := map[string]string{"a": "1"}
	out := CloneTags(src)
	out["a"] = "2"
	if src["a"] != "1" {
		t.Fatal("expected clone to be independent of source")
	}
}
