package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound          = errors.New("resource not found")
	ErrPromptNotFound    = errors.New("prompt not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrVersionNotFound   = errors.New("version not found")
	ErrExecutionNotFound = errors.New("execution not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrSettingNotFound   = errors.New("setting not found")

	// Conflict Errors
	ErrTagAlreadyExists = errors.New("tag with this name already exists")

	// General Request/Server Errors
	ErrInvalidInput   = errors.New("invalid input data")
	ErrInternalServer = errors.New("internal server error")
)
