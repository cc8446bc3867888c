package scheduler

import "context"

// Controller is the port to the handler registry. Both calls run a full pass
// and swallow per-resource failures internally.
type Controller interface {
	SuspendResources(ctx context.Context, resourceTypes []string, namespace string)
	ResumeResources(ctx context.Context, resourceTypes []string, namespace string)
}
