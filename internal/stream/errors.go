package stream

import "errors"

var (
	ErrInvalidURL     = errors.New("invalid YouTube URL format")
	ErrUserNotFound   = errors.New("user not found")
	ErrStreamNotFound = errors.New("stream not found")
	ErrNotStreamOwner = errors.New("stream not owned by caller")
)
