//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minAlertSinkNameLen = 3
	maxAlertSinkNameLen = 512
	maxSinkURILen       = 1024

	defaultSinkOkStatus = 200
	defaultSinkRetry    = 0
	maxSinkRetry        = 5
)

// AlertSink is a webhook destination for inventory alerts (low stock,
// maintenance due). BodyQuery is an optional JMESPath expression applied to
// the alert payload to shape the posted JSON; empty means post the payload
// as-is.
type AlertSink struct {
	ID        string    `json:"id"                     db:"id"`
	Name      string    `json:"name"                   db:"name"`
	URI       string    `json:"uri"                    db:"uri"`
	Method    string    `json:"method"                 db:"method"`
	BodyQuery *string   `json:"body_query,omitempty"   db:"body_query"`
	Headers   *string   `json:"headers,omitempty"      db:"headers"`
	OkStatus  int       `json:"ok_status"              db:"ok_status"`
	Retry     int       `json:"retry"                  db:"retry"`
	Enabled   bool      `json:"enabled"                db:"enabled"`
	CreatedAt time.Time `json:"created_at"             db:"created_at"`
}

// CreateAlertSinkRequest represents a request to create a new alert sink.
type CreateAlertSinkRequest struct {
	Name      string  `json:"name"`
	URI       string  `json:"uri"`
	Method    string  `json:"method"`
	BodyQuery *string `json:"body_query,omitempty"`
	Headers   *string `json:"headers,omitempty"`
	OkStatus  *int    `json:"ok_status,omitempty"`
	Retry     *int    `json:"retry,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// Normalize normalizes the CreateAlertSinkRequest fields.
func (r *CreateAlertSinkRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.URI = strings.TrimSpace(r.URI)
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = "POST"
	}
}

// Validate validates the CreateAlertSinkRequest fields.
func (r *CreateAlertSinkRequest) Validate() error {
	if err := validateAlertSinkName(r.Name); err != nil {
		return err
	}
	if err := validateAlertSinkURI(r.URI); err != nil {
		return err
	}
	if err := validateAlertSinkMethod(r.Method); err != nil {
		return err
	}
	if r.OkStatus != nil && (*r.OkStatus < 100 || *r.OkStatus > 599) {
		return errors.New("ok_status must be between 100 and 599")
	}
	if r.Retry != nil && (*r.Retry < 0 || *r.Retry > maxSinkRetry) {
		return errors.New("retry must be between 0 and 5")
	}
	return nil
}

// OkStatusOrDefault returns the configured success status or the 200 default.
func (r *CreateAlertSinkRequest) OkStatusOrDefault() int {
	if r.OkStatus != nil {
		return *r.OkStatus
	}
	return defaultSinkOkStatus
}

// RetryOrDefault returns the configured retry count or the default of zero.
func (r *CreateAlertSinkRequest) RetryOrDefault() int {
	if r.Retry != nil {
		return *r.Retry
	}
	return defaultSinkRetry
}

func validateAlertSinkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	n := utf8.RuneCountInString(name)
	if n < minAlertSinkNameLen || n > maxAlertSinkNameLen {
		return errors.New("name must be between 3 and 512 characters")
	}
	return nil
}

func validateAlertSinkURI(uri string) error {
	if strings.TrimSpace(uri) == "" {
		return errors.New("uri is required and cannot be empty")
	}
	if utf8.RuneCountInString(uri) > maxSinkURILen {
		return errors.New("uri cannot exceed 1024 characters")
	}
	u, err := url.Parse(uri)
	if err != nil {
		return errors.New("uri must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("uri must use http or https scheme")
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("uri must have a valid host")
	}
	return nil
}

func validateAlertSinkMethod(method string) error {
	switch method {
	case "POST", "PUT", "PATCH":
		return nil
	default:
		return errors.New("method must be one of: POST, PUT, PATCH")
	}
}
