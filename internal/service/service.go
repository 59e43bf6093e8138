package service

import "errors"

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidYear     = errors.New("year must be a four digit number")
	ErrInvalidURL      = errors.New("url must be an absolute http or https url")
	ErrHostNotAllowed  = errors.New("url host is not allowed")
	ErrNoVehicles      = errors.New("no vehicles found on page")
	ErrStorageDisabled = errors.New("snapshot storage is not configured")
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
