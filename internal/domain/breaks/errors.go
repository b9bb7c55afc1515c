package breaks

import "errors"

var (
	ErrBreakAlreadyActive  = errors.New("a break is already active")
	ErrNoActiveBreak       = errors.New("no active break of this kind")
	ErrBreakKindDisabled   = errors.New("break kind is not enabled")
	ErrBreakConfigNotFound = errors.New("break config not found")
	ErrBreakKindExists     = errors.New("this break kind is already configured")
)
