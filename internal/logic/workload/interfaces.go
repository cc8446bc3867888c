package workload

import "context"

// Repository is the port interface for cluster operations. Implementations
// live in the outbound adapter layer; the domain never touches the transport.
type Repository interface {
	// List returns one page of resources of the given kind. An empty
	// namespace means all namespaces. The returned token is passed back to
	// fetch the next page; an empty token means the stream is exhausted.
	List(
		ctx context.Context,
		kind,
		namespace,
		pageToken string,
		pageSize int64,
	) ([]Resource, string, error)

	Get(
		ctx context.Context,
		kind,
		namespace,
		name string,
	) (*Resource, error)

	Patch(
		ctx context.Context,
		kind,
		namespace,
		name string,
		patch Patch,
	) error

	CreateEvent(
		ctx context.Context,
		regarding *Resource,
		event Event,
	) error
}

// notFound is a private interface for checking "not found" errors without
// importing the adapter package.
type notFound interface {
	IsNotFound()
}
