package errors

import "fmt"

var (
	ErrValidation         = fmt.Errorf("validation failed")
	ErrPersistence        = fmt.Errorf("persistence failed")
	ErrNotFound           = fmt.Errorf("not found")
	ErrNotParticipant     = fmt.Errorf("not a participant of this conversation")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)
