package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeAlertScanner runs the low-stock and maintenance-due scanner.
	ServiceModeAlertScanner ServiceMode = "alert-scanner"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeAlertScanner,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeAlertScanner:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, alert-scanner)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// AlertScannerConfig contains alert scanner service configuration.
type AlertScannerConfig struct {
	// Interval is the scanner tick interval. One scan also runs at startup.
	Interval time.Duration `env:"ALERT_SCAN_INTERVAL" envDefault:"15m"`

	// DeliveryTimeout bounds each webhook post.
	DeliveryTimeout time.Duration `env:"ALERT_DELIVERY_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to alert scanner configuration values.
func (a *AlertScannerConfig) Sanitize() {
	// Enforce a minimum interval to prevent excessive database load
	if a.Interval < time.Minute {
		a.Interval = time.Minute
	}
	if a.DeliveryTimeout <= 0 {
		a.DeliveryTimeout = 10 * time.Second
	}
}
