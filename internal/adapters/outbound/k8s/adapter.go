package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"
	eventsv1 "k8s.io/api/events/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/demikl/tarnfui/internal/logic/workload"
)

// kustomizationGVR addresses Flux Kustomization objects through the dynamic
// client; they have no typed clientset.
var kustomizationGVR = schema.GroupVersionResource{
	Group:    "kustomize.toolkit.fluxcd.io",
	Version:  "v1",
	Resource: "kustomizations",
}

const eventReportingController = "tarnfui"

type adapter struct {
	logger            *slog.Logger
	clientset         kubernetes.Interface
	dynamicClient     dynamic.Interface
	reportingInstance string
}

// New creates the cluster adapter implementing the workload Repository port.
// reportingInstance identifies this controller instance in audit events,
// typically the pod hostname.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	reportingInstance string,
) workload.Repository {
	return &adapter{
		logger:            logger,
		clientset:         clientset,
		dynamicClient:     dynamicClient,
		reportingInstance: reportingInstance,
	}
}

var _ workload.Repository = (*adapter)(nil)

func (a *adapter) List(
	ctx context.Context,
	kind,
	namespace,
	pageToken string,
	pageSize int64,
) ([]workload.Resource, string, error) {
	opts := metav1.ListOptions{
		Limit:    pageSize,
		Continue: pageToken,
	}

	switch kind {
	case workload.KindDeployment:
		list, err := a.clientset.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return nil, "", fmt.Errorf("list deployments: %w", classify(err))
		}

		items := make([]workload.Resource, 0, len(list.Items))
		for i := range list.Items {
			items = append(items, toDomainDeployment(&list.Items[i]))
		}

		return items, list.Continue, nil

	case workload.KindStatefulSet:
		list, err := a.clientset.AppsV1().StatefulSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, "", fmt.Errorf("list statefulsets: %w", classify(err))
		}

		items := make([]workload.Resource, 0, len(list.Items))
		for i := range list.Items {
			items = append(items, toDomainStatefulSet(&list.Items[i]))
		}

		return items, list.Continue, nil

	case workload.KindCronJob:
		list, err := a.clientset.BatchV1().CronJobs(namespace).List(ctx, opts)
		if err != nil {
			return nil, "", fmt.Errorf("list cronjobs: %w", classify(err))
		}

		items := make([]workload.Resource, 0, len(list.Items))
		for i := range list.Items {
			items = append(items, toDomainCronJob(&list.Items[i]))
		}

		return items, list.Continue, nil

	case workload.KindKustomization:
		list, err := a.dynamicClient.Resource(kustomizationGVR).Namespace(namespace).List(ctx, opts)
		if err != nil {
			return nil, "", fmt.Errorf("list kustomizations: %w", classify(err))
		}

		items := make([]workload.Resource, 0, len(list.Items))
		for i := range list.Items {
			items = append(items, toDomainKustomization(&list.Items[i]))
		}

		return items, list.GetContinue(), nil
	}

	return nil, "", fmt.Errorf("list: unsupported kind %q", kind)
}

func (a *adapter) Get(
	ctx context.Context,
	kind,
	namespace,
	name string,
) (*workload.Resource, error) {
	opts := metav1.GetOptions{}

	switch kind {
	case workload.KindDeployment:
		obj, err := a.clientset.AppsV1().Deployments(namespace).Get(ctx, name, opts)
		if err != nil {
			return nil, fmt.Errorf("get deployment: %w", classify(err))
		}

		r := toDomainDeployment(obj)

		return &r, nil

	case workload.KindStatefulSet:
		obj, err := a.clientset.AppsV1().StatefulSets(namespace).Get(ctx, name, opts)
		if err != nil {
			return nil, fmt.Errorf("get statefulset: %w", classify(err))
		}

		r := toDomainStatefulSet(obj)

		return &r, nil

	case workload.KindCronJob:
		obj, err := a.clientset.BatchV1().CronJobs(namespace).Get(ctx, name, opts)
		if err != nil {
			return nil, fmt.Errorf("get cronjob: %w", classify(err))
		}

		r := toDomainCronJob(obj)

		return &r, nil

	case workload.KindKustomization:
		obj, err := a.dynamicClient.Resource(kustomizationGVR).Namespace(namespace).Get(ctx, name, opts)
		if err != nil {
			return nil, fmt.Errorf("get kustomization: %w", classify(err))
		}

		r := toDomainKustomization(obj)

		return &r, nil
	}

	return nil, fmt.Errorf("get: unsupported kind %q", kind)
}

func (a *adapter) Patch(
	ctx context.Context,
	kind,
	namespace,
	name string,
	patch workload.Patch,
) error {
	body, err := patchBody(patch)
	if err != nil {
		return fmt.Errorf("build patch body: %w", err)
	}

	opts := metav1.PatchOptions{}

	switch kind {
	case workload.KindDeployment:
		_, err = a.clientset.AppsV1().Deployments(namespace).Patch(ctx, name, types.MergePatchType, body, opts)
	case workload.KindStatefulSet:
		_, err = a.clientset.AppsV1().StatefulSets(namespace).Patch(ctx, name, types.MergePatchType, body, opts)
	case workload.KindCronJob:
		_, err = a.clientset.BatchV1().CronJobs(namespace).Patch(ctx, name, types.MergePatchType, body, opts)
	case workload.KindKustomization:
		_, err = a.dynamicClient.Resource(kustomizationGVR).Namespace(namespace).
			Patch(ctx, name, types.MergePatchType, body, opts)
	default:
		return fmt.Errorf("patch: unsupported kind %q", kind)
	}

	if err != nil {
		return fmt.Errorf("patch %s %s/%s: %w", kind, namespace, name, classify(err))
	}

	return nil
}

func (a *adapter) CreateEvent(
	ctx context.Context,
	regarding *workload.Resource,
	event workload.Event,
) error {
	if regarding.Name == "" || regarding.Namespace == "" {
		return fmt.Errorf("create event: regarding resource needs a name and namespace")
	}

	body := &eventsv1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: regarding.Name + "-",
			Namespace:    regarding.Namespace,
		},
		EventTime:           metav1.NewMicroTime(time.Now()),
		ReportingController: eventReportingController,
		ReportingInstance:   a.reportingInstance,
		Action:              event.Action,
		Reason:              event.Reason,
		Type:                event.Type,
		Note:                event.Note,
		Regarding: corev1.ObjectReference{
			APIVersion: regarding.APIVersion,
			Kind:       regarding.Kind,
			Name:       regarding.Name,
			Namespace:  regarding.Namespace,
			UID:        types.UID(regarding.UID),
		},
	}

	_, err := a.clientset.EventsV1().Events(regarding.Namespace).Create(ctx, body, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("create event for %s %s/%s: %w",
			regarding.Kind, regarding.Namespace, regarding.Name, classify(err))
	}

	return nil
}

// patchBody translates a domain patch into a JSON merge patch.
func patchBody(patch workload.Patch) ([]byte, error) {
	body := map[string]any{}

	spec := map[string]any{}
	if patch.Replicas != nil {
		spec["replicas"] = *patch.Replicas
	}

	if patch.Suspend != nil {
		spec["suspend"] = *patch.Suspend
	}

	if len(spec) > 0 {
		body["spec"] = spec
	}

	if len(patch.Annotations) > 0 {
		body["metadata"] = map[string]any{
			"annotations": patch.Annotations,
		}
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("empty patch")
	}

	return json.Marshal(body)
}

// classify maps API errors onto the domain's private error interfaces.
func classify(err error) error {
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("%w: %w", errNotFound, err)
	}

	return err
}
