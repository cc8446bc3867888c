package workload

import "errors"

var (
	ErrStateMismatch     = errors.New("saved state type mismatch")
	ErrStateNotResumable = errors.New("saved state is not resumable")
)
