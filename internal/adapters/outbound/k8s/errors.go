package k8s

// NotFoundError represents a "resource not found" case the domain may treat
// as a skip rather than a failure.
type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "resource not found"
}

func (e *NotFoundError) IsNotFound() {}

var errNotFound = &NotFoundError{}
