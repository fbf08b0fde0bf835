package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("password must be at least 6 characters")
	ErrInvalidUsername  = errors.New("username must be between 3 and 50 characters")
	ErrInvalidRole      = errors.New("invalid role")
	ErrEmptyName        = errors.New("name is required")
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidURL       = errors.New("invalid url")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
	ErrMissingApproval  = errors.New("approved flag is required")
)
