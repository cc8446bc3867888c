package workload

// Resource is the canonical in-memory representation of one cluster object,
// independent of the transport it was fetched with. The kind-specific payload
// is carried in the optional Replicas/Suspend fields; a nil field means the
// resource kind does not carry it (or the cluster left it unset).
type Resource struct {
	Kind            string
	APIVersion      string
	Name            string
	Namespace       string
	UID             string
	Annotations     map[string]string
	Labels          map[string]string
	OwnerReferences []OwnerReference

	// Replica-scaled payload (Deployment, StatefulSet).
	Replicas *int32
	// Suspend-flag payload (CronJob, Kustomization).
	Suspend *bool
}

// OwnerReference is the subset of an owner reference the cascade lookup needs.
type OwnerReference struct {
	APIVersion string
	Kind       string
	Name       string
}

// Key identifies a resource within its kind.
func (r *Resource) Key() string {
	return r.Namespace + "/" + r.Name
}

// Patch is a targeted field update applied through the Repository. Nil fields
// are left untouched; the adapter translates the set fields into a merge patch.
type Patch struct {
	Replicas    *int32
	Suspend     *bool
	Annotations map[string]string
}

// Event is an audit record attached to a resource.
type Event struct {
	Type   string
	Reason string
	Action string
	Note   string
}
