package metrics

import (
	"time"

	obserrors "github.com/agristock/agristock-api/internal/observability/errors"
	"github.com/agristock/agristock-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// DeliveryMetric captures one webhook delivery attempt for metric emission.
type DeliveryMetric struct {
	Kind     string
	SinkName string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitAlertDelivery emits standardised alert delivery metrics.
func EmitAlertDelivery(sink statsd.Sink, in DeliveryMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"kind":   in.Kind,
		"sink":   in.SinkName,
		"result": in.Result,
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("alert.delivery", 1, tags)

	if in.Duration > 0 {
		sink.Timing("alert.delivery_duration", in.Duration, CloneTags(tags))
	}
}

// ScanMetric captures one full scanner pass.
type ScanMetric struct {
	Result   string
	Alerts   int
	Duration time.Duration
}

// EmitScan emits metrics for one scanner pass.
func EmitScan(sink statsd.Sink, in ScanMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": in.Result}
	sink.Count("alert.scan", 1, tags)
	sink.Gauge("alert.scan_alerts", float64(in.Alerts), CloneTags(tags))

	if in.Duration > 0 {
		sink.Timing("alert.scan_duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map, filtering out empty maps.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
