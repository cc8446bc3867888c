package config

// Env key constants. All controller configuration env vars use the TARNFUI_
// prefix.

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "TARNFUI_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "TARNFUI_KUBE_MASTER"

// Time of day the cluster becomes active, HH:MM in 24-hour format.
const envKeyStartupTime = "TARNFUI_STARTUP_TIME"

// Time of day the cluster shuts down, HH:MM in 24-hour format.
const envKeyShutdownTime = "TARNFUI_SHUTDOWN_TIME"

// Comma-separated active days: mon..sun or 0-6 where 0 is Monday.
const envKeyActiveDays = "TARNFUI_ACTIVE_DAYS"

// IANA timezone name used for all schedule decisions (e.g. Europe/Paris).
const envKeyTimezone = "TARNFUI_TIMEZONE"

// Reconciliation interval: bare seconds (e.g. 60) or a Go duration (e.g. 5m).
const envKeyInterval = "TARNFUI_RECONCILIATION_INTERVAL"

// Namespace to restrict reconciliation to. Empty means all namespaces.
const envKeyNamespace = "TARNFUI_NAMESPACE"

// Comma-separated resource type allow-list (deployments,statefulsets,cronjobs).
const envKeyResourceTypes = "TARNFUI_RESOURCE_TYPES"

// Run a single reconciliation and exit instead of looping.
const envKeyReconcileOnce = "TARNFUI_RECONCILE_ONCE"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "TARNFUI_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "TARNFUI_LOG_FORMAT"

// Port for health/readiness HTTP server.
const envKeyHTTPPort = "TARNFUI_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "TARNFUI_METRICS_PORT"

// Standard k8s env keys used as fallback when TARNFUI_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)

// Defaults.
const (
	defaultStartupTime  = "07:00"
	defaultShutdownTime = "19:00"
	defaultActiveDays   = "mon,tue,wed,thu,fri"
	defaultTimezone     = "UTC"
	defaultInterval     = "60"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	defaultHTTPPort     = "8080"
	defaultMetricsPort  = "9090"
)
