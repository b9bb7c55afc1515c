package shift

import "errors"

var (
	ErrShiftPolicyNotFound = errors.New("shift policy not found")
	ErrInvalidThresholds   = errors.New("half-day threshold must be positive and below the full-day threshold")
	ErrNegativeGracePeriod = errors.New("grace period cannot be negative")
)
