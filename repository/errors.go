package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrStatusLocked      = errors.New("booking status can no longer change")
)
