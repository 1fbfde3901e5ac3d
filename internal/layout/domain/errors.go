package domain

import "errors"

var (
	ErrLayoutNotFound = errors.New("layout not found")
	ErrCodeTaken      = errors.New("layout code already in use")
)
