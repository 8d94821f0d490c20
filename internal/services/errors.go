package services

import (
	"errors"
)

// Failure taxonomy shared by the service layer. Handlers map these to HTTP
// statuses; anything unexpected from the store is wrapped and surfaces as a
// 500 without leaking detail.
var (
	ErrInvalidVoteValue = errors.New("only -1, 0 and 1 are allowed")
	ErrTargetNotFound   = errors.New("target not found")
	ErrNothingToRemove  = errors.New("no vote to remove")
	ErrForbidden        = errors.New("not the owner of this content")
	ErrNameTaken        = errors.New("name already taken")
	ErrValidation       = errors.New("validation failed")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrBadCredentials   = errors.New("wrong credentials")
)

// FieldErrors carries per-field validation messages for form-style endpoints
// (register, login, forum create). It unwraps to ErrValidation so handlers
// can match it with errors.Is.
type FieldErrors map[string]string

func (f FieldErrors) Error() string { return "validation failed" }
func (f FieldErrors) Unwrap() error { return ErrValidation }
func (f FieldErrors) Any() bool     { return len(f) > 0 }
