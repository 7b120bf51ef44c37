package calculations

import "errors"

var (
	ErrNotFound  = errors.New("calculation not found")
	ErrForbidden = errors.New("calculation belongs to another user")
)
