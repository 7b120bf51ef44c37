package tax

import "errors"

var (
	ErrInvalidEmploymentType = errors.New("invalid employment type")
	ErrInvalidRegime         = errors.New("invalid tax regime")
	ErrAmountOutOfRange      = errors.New("amount out of range")
)
