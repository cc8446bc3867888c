package workload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/demikl/tarnfui/internal/infra/metrics"
)

// Handler applies the suspend/resume reconciliation algorithm to one workload
// kind. The kind-specific parts are delegated to a Strategy; everything else
// (streaming, state persistence, cascading, events) is uniform.
type Handler struct {
	kind       string
	apiVersion string
	strategy   Strategy
	repo       Repository
	logger     *slog.Logger
	namespace  string

	// In-process fallback for saved states, keyed by namespace/name. Valid
	// for this process's lifetime only; consulted before the annotation.
	saved map[string]State
}

// NewHandler creates a handler for one resource kind. namespace restricts all
// passes to that namespace; empty means all namespaces.
func NewHandler(
	logger *slog.Logger,
	repo Repository,
	kind,
	apiVersion string,
	strategy Strategy,
	namespace string,
) *Handler {
	return &Handler{
		kind:       kind,
		apiVersion: apiVersion,
		strategy:   strategy,
		repo:       repo,
		logger:     logger.With("kind", kind),
		namespace:  namespace,
		saved:      make(map[string]State),
	}
}

func (h *Handler) Kind() string {
	return h.kind
}

// Summary counts the resources seen and affected by one pass.
type Summary struct {
	Seen     int
	Affected int
}

// SuspendAll runs the suspend pass over every resource of this kind. It never
// returns an error: per-resource failures are logged and the pass continues,
// a stream failure aborts only the remainder of this kind's pass.
func (h *Handler) SuspendAll(ctx context.Context, namespace string, cascade *Cascade) Summary {
	ns := h.targetNamespace(namespace)
	logger := h.logger.With("pass", "suspend")

	var sum Summary

	err := h.walk(ctx, ns, func(r *Resource) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sum.Seen++

		acted, err := h.suspendOne(ctx, r, cascade)
		if err != nil {
			logger.ErrorContext(ctx, "failed to suspend resource",
				"name", r.Name,
				"namespace", r.Namespace,
				"reason", err,
			)

			return nil
		}

		if acted {
			sum.Affected++
		}

		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "suspend pass aborted", "reason", err)
	}

	logger.InfoContext(ctx, "suspend pass completed",
		"seen", sum.Seen,
		"suspended", sum.Affected,
	)

	return sum
}

// ResumeAll runs the resume pass over every resource of this kind, with the
// same failure semantics as SuspendAll.
func (h *Handler) ResumeAll(ctx context.Context, namespace string, cascade *Cascade) Summary {
	ns := h.targetNamespace(namespace)
	logger := h.logger.With("pass", "resume")

	var sum Summary

	err := h.walk(ctx, ns, func(r *Resource) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sum.Seen++

		acted, err := h.resumeOne(ctx, r, cascade)
		if err != nil {
			logger.ErrorContext(ctx, "failed to resume resource",
				"name", r.Name,
				"namespace", r.Namespace,
				"reason", err,
			)

			return nil
		}

		if acted {
			sum.Affected++
		}

		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "resume pass aborted", "reason", err)
	}

	logger.InfoContext(ctx, "resume pass completed",
		"seen", sum.Seen,
		"resumed", sum.Affected,
	)

	return sum
}

// suspendOne applies the suspend algorithm to a single resource. Returns true
// when the resource was actually suspended.
func (h *Handler) suspendOne(ctx context.Context, r *Resource, cascade *Cascade) (bool, error) {
	state, ok := h.strategy.CurrentState(r)
	if !ok {
		h.logger.DebugContext(ctx, "resource has no defined state, skipping",
			"name", r.Name,
			"namespace", r.Namespace,
		)

		return false, nil
	}

	if h.strategy.IsSuspended(r) {
		return false, nil
	}

	// A managed resource's manager must be suspended before the resource
	// itself, or the manager would immediately undo the suspension.
	if cascade != nil {
		cascade.Suspend(ctx, r)
	}

	h.saveState(ctx, r, state)

	if err := h.repo.Patch(ctx, r.Kind, r.Namespace, r.Name, h.strategy.SuspendPatch()); err != nil {
		if isNotFound(err) {
			h.logger.DebugContext(ctx, "resource disappeared before suspension",
				"name", r.Name,
				"namespace", r.Namespace,
			)

			return false, nil
		}

		return false, fmt.Errorf("suspend %s %s: %w", h.kind, r.Key(), err)
	}

	h.emitEvent(ctx, r, Event{
		Type:   EventTypeNormal,
		Reason: EventReasonSuspended,
		Action: EventActionSuspension,
		Note:   fmt.Sprintf("%s suspended, previous state: %s", h.kind, state.Encode()),
	})

	metrics.RecordSuspended(h.kind)
	h.logger.InfoContext(ctx, "resource suspended",
		"name", r.Name,
		"namespace", r.Namespace,
		"previousState", state.Encode(),
	)

	return true, nil
}

// resumeOne applies the resume algorithm to a single resource. A suspended
// resource with no recoverable saved state is left alone: guessing a state to
// restore is unsafe.
func (h *Handler) resumeOne(ctx context.Context, r *Resource, cascade *Cascade) (bool, error) {
	if !h.strategy.IsSuspended(r) {
		return false, nil
	}

	saved, ok := h.savedState(ctx, r)
	if !ok {
		h.logger.DebugContext(ctx, "no saved state, leaving resource suspended",
			"name", r.Name,
			"namespace", r.Namespace,
		)

		return false, nil
	}

	if cascade != nil {
		cascade.Resume(ctx, r)
	}

	patch, err := h.strategy.ResumePatch(saved)
	if err != nil {
		return false, fmt.Errorf("resume %s %s: %w", h.kind, r.Key(), err)
	}

	if err := h.repo.Patch(ctx, r.Kind, r.Namespace, r.Name, patch); err != nil {
		if isNotFound(err) {
			h.logger.DebugContext(ctx, "resource disappeared before restoration",
				"name", r.Name,
				"namespace", r.Namespace,
			)

			return false, nil
		}

		return false, fmt.Errorf("resume %s %s: %w", h.kind, r.Key(), err)
	}

	h.emitEvent(ctx, r, Event{
		Type:   EventTypeNormal,
		Reason: EventReasonRestored,
		Action: EventActionRestoration,
		Note:   fmt.Sprintf("%s restored to state: %s", h.kind, saved.Encode()),
	})

	metrics.RecordResumed(h.kind)
	h.logger.InfoContext(ctx, "resource restored",
		"name", r.Name,
		"namespace", r.Namespace,
		"restoredState", saved.Encode(),
	)

	return true, nil
}

// walk streams all resources of this kind page by page, calling fn for each.
// fn's error aborts the remaining stream.
func (h *Handler) walk(ctx context.Context, namespace string, fn func(*Resource) error) error {
	token := ""

	for {
		items, next, err := h.repo.List(ctx, h.kind, namespace, token, defaultPageSize)
		if err != nil {
			return fmt.Errorf("list %s resources: %w", h.kind, err)
		}

		for i := range items {
			if err := fn(&items[i]); err != nil {
				return err
			}
		}

		if next == "" {
			return nil
		}

		token = next
	}
}

// saveState records the resource's pre-suspension state, in memory first and
// then in the state annotation. An annotation write failure is not fatal: the
// state stays recoverable from memory until this process exits.
func (h *Handler) saveState(ctx context.Context, r *Resource, state State) {
	h.saved[r.Key()] = state

	patch := Patch{Annotations: map[string]string{StateAnnotation: state.Encode()}}

	if err := h.repo.Patch(ctx, r.Kind, r.Namespace, r.Name, patch); err != nil {
		h.logger.WarnContext(ctx, "failed to save state annotation, state kept in memory only",
			"name", r.Name,
			"namespace", r.Namespace,
			"state", state.Encode(),
			"reason", err,
		)
	}
}

// savedState retrieves the saved state for a resource: memory fallback first
// (cheaper), then the state annotation.
func (h *Handler) savedState(ctx context.Context, r *Resource) (State, bool) {
	if state, ok := h.saved[r.Key()]; ok {
		return state, true
	}

	raw, ok := r.Annotations[StateAnnotation]
	if !ok {
		return nil, false
	}

	state, err := h.strategy.DecodeState(raw)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid state annotation",
			"name", r.Name,
			"namespace", r.Namespace,
			"value", raw,
			"reason", err,
		)

		return nil, false
	}

	return state, true
}

// emitEvent records an audit event. Event creation is best effort and never
// aborts the mutation it annotates.
func (h *Handler) emitEvent(ctx context.Context, r *Resource, event Event) {
	if err := h.repo.CreateEvent(ctx, r, event); err != nil {
		h.logger.WarnContext(ctx, "failed to create event",
			"name", r.Name,
			"namespace", r.Namespace,
			"reason", event.Reason,
			"error", err,
		)
	}
}

func (h *Handler) targetNamespace(namespace string) string {
	if namespace != "" {
		return namespace
	}

	return h.namespace
}

func isNotFound(err error) bool {
	var target notFound

	return errors.As(err, &target)
}
