package domain

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrOutOfRange     = errors.New("metric value out of range")
	ErrUnknownChannel = errors.New("unknown metric channel")
	ErrUnknownTier    = errors.New("unknown readiness tier")
)
