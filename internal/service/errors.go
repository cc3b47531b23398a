package service

import "errors"

var (
	ErrTitleRequired    = errors.New("validation error: title is required")
	ErrContentRequired  = errors.New("validation error: content is required")
	ErrTagNameRequired  = errors.New("validation error: tag name is required")
	ErrQueryRequired    = errors.New("validation error: query parameter is required")
	ErrInvalidSortField = errors.New("validation error: unknown sort field")
	ErrInvalidType      = errors.New("validation error: unknown prompt type")
	ErrInvalidLanguage  = errors.New("validation error: unknown language")
)
