package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("resource not found")
	ErrIDMismatch          = errors.New("id in body does not match id in path")
	ErrConflict            = errors.New("resource already exists")
	ErrConcurrencyConflict = errors.New("resource was modified concurrently")
	ErrInternal            = errors.New("internal error")
)
