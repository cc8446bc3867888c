package workload

const (
	// StateAnnotation holds the pre-suspension state of a resource so it
	// survives controller restarts.
	StateAnnotation = "tarnfui.io/original-state"

	KindDeployment    = "Deployment"
	KindStatefulSet   = "StatefulSet"
	KindCronJob       = "CronJob"
	KindKustomization = "Kustomization"

	APIVersionApps          = "apps/v1"
	APIVersionBatch         = "batch/v1"
	APIVersionKustomization = "kustomize.toolkit.fluxcd.io/v1"

	// Labels Flux puts on resources reconciled by a Kustomization.
	fluxNameLabel      = "kustomize.toolkit.fluxcd.io/name"
	fluxNamespaceLabel = "kustomize.toolkit.fluxcd.io/namespace"

	EventTypeNormal        = "Normal"
	EventReasonSuspended   = "Suspended"
	EventReasonRestored    = "Restored"
	EventActionSuspension  = "Suspension"
	EventActionRestoration = "Restoration"

	// defaultPageSize bounds memory per List call on large clusters.
	defaultPageSize = 100

	// DefaultProcessedManagersCapacity is the size of the per-pass LRU of
	// managers already cascaded.
	DefaultProcessedManagersCapacity = 100
)

// Resource type tokens accepted in configuration.
const (
	TypeDeployments  = "deployments"
	TypeStatefulSets = "statefulsets"
	TypeCronJobs     = "cronjobs"
)
