package workload

import (
	"fmt"
	"strconv"
)

// Strategy is the kind-specific behavior a Handler is parameterized with:
// how to read a resource's state, how to drive it to its off state, and how
// to restore a previously saved state.
type Strategy interface {
	// CurrentState returns the resource's state, or ok=false when the
	// resource does not define one (such resources are skipped, not errors).
	CurrentState(r *Resource) (State, bool)
	IsSuspended(r *Resource) bool
	SuspendPatch() Patch
	ResumePatch(saved State) (Patch, error)
	DecodeState(raw string) (State, error)
}

// ReplicaScaled suspends by scaling to zero and resumes by restoring the
// saved replica count. Zero is never a valid state to resume to: a resource
// observed at zero that this controller never suspended stays at zero.
type ReplicaScaled struct{}

var _ Strategy = ReplicaScaled{}

func (ReplicaScaled) CurrentState(r *Resource) (State, bool) {
	if r.Replicas == nil {
		return nil, false
	}

	return ReplicaCount(*r.Replicas), true
}

func (ReplicaScaled) IsSuspended(r *Resource) bool {
	return r.Replicas == nil || *r.Replicas == 0
}

func (ReplicaScaled) SuspendPatch() Patch {
	zero := int32(0)

	return Patch{Replicas: &zero}
}

func (ReplicaScaled) ResumePatch(saved State) (Patch, error) {
	count, ok := saved.(ReplicaCount)
	if !ok {
		return Patch{}, fmt.Errorf("%w: expected replica count, got %T", ErrStateMismatch, saved)
	}

	if count <= 0 {
		return Patch{}, fmt.Errorf("%w: %d", ErrStateNotResumable, count)
	}

	replicas := int32(count)

	return Patch{Replicas: &replicas}, nil
}

func (ReplicaScaled) DecodeState(raw string) (State, error) {
	count, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("decode replica count %q: %w", raw, err)
	}

	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrStateNotResumable, count)
	}

	return ReplicaCount(count), nil
}

// SuspendFlagged suspends by setting the suspend flag and resumes by
// restoring the saved flag. Restoring a saved "true" is intentional: the
// resource was already suspended by something else before this controller
// touched it, and it must stay that way.
type SuspendFlagged struct{}

var _ Strategy = SuspendFlagged{}

func (SuspendFlagged) CurrentState(r *Resource) (State, bool) {
	if r.Suspend == nil {
		return nil, false
	}

	return SuspendFlag(*r.Suspend), true
}

func (SuspendFlagged) IsSuspended(r *Resource) bool {
	return r.Suspend != nil && *r.Suspend
}

func (SuspendFlagged) SuspendPatch() Patch {
	suspend := true

	return Patch{Suspend: &suspend}
}

func (SuspendFlagged) ResumePatch(saved State) (Patch, error) {
	flag, ok := saved.(SuspendFlag)
	if !ok {
		return Patch{}, fmt.Errorf("%w: expected suspend flag, got %T", ErrStateMismatch, saved)
	}

	suspend := bool(flag)

	return Patch{Suspend: &suspend}, nil
}

func (SuspendFlagged) DecodeState(raw string) (State, error) {
	flag, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("decode suspend flag %q: %w", raw, err)
	}

	return SuspendFlag(flag), nil
}
