package charger

import "errors"

var (
	ErrNotFound       = errors.New("charger not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidWindows = errors.New("invalid availability windows")
	ErrValidation     = errors.New("validation error")
)
