package workload

import "strconv"

// State is the kind-specific scalar describing how much capacity a resource is
// running: a replica count for replica-scaled kinds, a boolean for
// suspend-flag kinds. Its encoded form is what gets written to the state
// annotation.
type State interface {
	Suspended() bool
	Encode() string
}

// ReplicaCount is the state of a replica-scaled resource.
type ReplicaCount int32

func (c ReplicaCount) Suspended() bool { return c == 0 }

func (c ReplicaCount) Encode() string { return strconv.FormatInt(int64(c), 10) }

// SuspendFlag is the state of a suspend-flag resource. True means suspended.
type SuspendFlag bool

func (f SuspendFlag) Suspended() bool { return bool(f) }

func (f SuspendFlag) Encode() string { return strconv.FormatBool(bool(f)) }
