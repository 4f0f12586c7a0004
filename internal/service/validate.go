package service

import (
	"regexp"
	"strings"

	apperrors "github.com/agristock/agristock-api/internal/errors"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

var (
	// usernameRe is the closed alphabet for normalized usernames.
	usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	// usernameStripRe removes everything outside the username alphabet.
	usernameStripRe = regexp.MustCompile(`[^a-z0-9_]`)
	// emailRe is deliberately loose; the provider does the authoritative check.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FormatUsername lowercases the input and strips every character outside
// [a-z0-9_]. It is idempotent.
func FormatUsername(value string) string {
	return usernameStripRe.ReplaceAllString(strings.ToLower(value), "")
}

// NormalizeUsername trims and lowercases a username for lookups. Unlike
// FormatUsername it does not strip characters; malformed input should fail
// validation rather than silently change.
func NormalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// SignupForm carries the raw signup fields as submitted.
type SignupForm struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ValidateSignupForm checks the signup form locally, before anything reaches
// the provider. The returned error carries the offending field; nil means the
// form is acceptable.
func ValidateSignupForm(form SignupForm) *apperrors.AppError {
	if strings.TrimSpace(form.Name) == "" ||
		strings.TrimSpace(form.Username) == "" ||
		strings.TrimSpace(form.Email) == "" ||
		strings.TrimSpace(form.Password) == "" {
		return apperrors.ValidationField("general", "Please fill in all fields")
	}

	if form.Password != form.ConfirmPassword {
		return apperrors.ValidationField("confirmPassword", "Passwords do not match")
	}

	if len(form.Password) < minPasswordLen {
		return apperrors.ValidationField("password", "Password must be at least 6 characters")
	}

	if !emailRe.MatchString(strings.TrimSpace(form.Email)) {
		return apperrors.ValidationField("email", "Please enter a valid email address")
	}

	return nil
}

// validateUsername checks a normalized username against the length and
// alphabet rules shared by login and signup.
func validateUsername(username string) *apperrors.AppError {
	if len(username) < minUsernameLen {
		return apperrors.ValidationField("username", "Username must be at least 3 characters")
	}
	if !usernameRe.MatchString(username) {
		return apperrors.ValidationField("username", "Username can only contain letters, numbers, and underscores")
	}
	return nil
}
