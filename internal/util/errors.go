package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAlreadyEnrolled      = errors.New("already enrolled in this course")
	ErrCourseNotFound       = errors.New("course not found")
	ErrModuleNotFound       = errors.New("module not found")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrProgressUpdateFailed = errors.New("failed to update progress")
)
