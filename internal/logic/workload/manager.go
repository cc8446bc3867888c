package workload

import (
	"context"
	"log/slog"
)

// ManagerHandler specializes Handler for resources that govern other
// resources and must be suspended/resumed as a unit around them, such as a
// Flux Kustomization. It adds the lookup that, given an arbitrary resource,
// resolves the manager instance governing it.
type ManagerHandler struct {
	*Handler

	nameLabel      string
	namespaceLabel string
	ownerKind      string
}

// NewKustomizationManager creates the manager handler for Flux
// Kustomizations. A Kustomization is a suspend-flag resource; children are
// matched through the labels Flux stamps on reconciled objects, then through
// owner references.
func NewKustomizationManager(logger *slog.Logger, repo Repository, namespace string) *ManagerHandler {
	return &ManagerHandler{
		Handler: NewHandler(
			logger,
			repo,
			KindKustomization,
			APIVersionKustomization,
			SuspendFlagged{},
			namespace,
		),
		nameLabel:      fluxNameLabel,
		namespaceLabel: fluxNamespaceLabel,
		ownerKind:      KindKustomization,
	}
}

// ManagerFor resolves the manager resource governing r, or nil when r is not
// governed by a manager of this handler's kind. The manager is fetched to
// confirm it still exists; a fetch failure is treated as "no manager found"
// so a broken manager lookup never blocks the child's own pass.
func (m *ManagerHandler) ManagerFor(ctx context.Context, r *Resource) *Resource {
	name, namespace, ok := m.match(r)
	if !ok {
		return nil
	}

	manager, err := m.repo.Get(ctx, m.kind, namespace, name)
	if err != nil {
		m.logger.WarnContext(ctx, "manager lookup failed, treating resource as unmanaged",
			"resource", r.Key(),
			"manager", namespace+"/"+name,
			"reason", err,
		)

		return nil
	}

	return manager
}

// match discovers the manager reference on a resource: the well-known label
// pair first, then an owner reference of the manager kind.
func (m *ManagerHandler) match(r *Resource) (name, namespace string, ok bool) {
	if v, found := r.Labels[m.nameLabel]; found {
		namespace = r.Labels[m.namespaceLabel]
		if namespace == "" {
			namespace = r.Namespace
		}

		return v, namespace, true
	}

	for _, ref := range r.OwnerReferences {
		if ref.Kind == m.ownerKind {
			return ref.Name, r.Namespace, true
		}
	}

	return "", "", false
}
