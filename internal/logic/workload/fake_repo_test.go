package workload_test

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/demikl/tarnfui/internal/logic/workload"
)

// fakeNotFoundError mimics the adapter's not-found classification.
type fakeNotFoundError struct {
	key string
}

func (e *fakeNotFoundError) Error() string { return e.key + " not found" }

func (e *fakeNotFoundError) IsNotFound() {}

type recordedPatch struct {
	Kind  string
	Key   string
	Patch workload.Patch
}

type recordedEvent struct {
	Kind   string
	Key    string
	Reason string
}

// fakeRepo is an in-memory, stateful Repository: patches mutate the stored
// resources so a later List observes them, like the real cluster would.
type fakeRepo struct {
	mu sync.Mutex

	resources map[string]map[string]*workload.Resource

	// pageLimit forces pagination when > 0.
	pageLimit int

	listErr map[string]error
	// failAnnotationPatches rejects annotation-only patches, simulating a
	// denied write on metadata while spec writes still succeed.
	failAnnotationPatches bool

	patches []recordedPatch
	events  []recordedEvent
}

func newFakeRepo(resources ...*workload.Resource) *fakeRepo {
	repo := &fakeRepo{
		resources: make(map[string]map[string]*workload.Resource),
		listErr:   make(map[string]error),
	}

	for _, r := range resources {
		repo.add(r)
	}

	return repo
}

func (f *fakeRepo) add(r *workload.Resource) {
	if f.resources[r.Kind] == nil {
		f.resources[r.Kind] = make(map[string]*workload.Resource)
	}

	f.resources[r.Kind][r.Key()] = r
}

func (f *fakeRepo) List(
	_ context.Context,
	kind, namespace, pageToken string,
	_ int64,
) ([]workload.Resource, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.listErr[kind]; err != nil {
		return nil, "", err
	}

	keys := make([]string, 0, len(f.resources[kind]))

	for key, r := range f.resources[kind] {
		if namespace != "" && r.Namespace != namespace {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	start := 0

	if pageToken != "" {
		parsed, err := strconv.Atoi(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("bad page token %q: %w", pageToken, err)
		}

		start = parsed
	}

	end := len(keys)
	next := ""

	if f.pageLimit > 0 && start+f.pageLimit < end {
		end = start + f.pageLimit
		next = strconv.Itoa(end)
	}

	items := make([]workload.Resource, 0, end-start)
	for _, key := range keys[start:end] {
		items = append(items, copyResource(f.resources[kind][key]))
	}

	return items, next, nil
}

func (f *fakeRepo) Get(
	_ context.Context,
	kind, namespace, name string,
) (*workload.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := namespace + "/" + name

	r, ok := f.resources[kind][key]
	if !ok {
		return nil, &fakeNotFoundError{key: kind + "/" + key}
	}

	copied := copyResource(r)

	return &copied, nil
}

func (f *fakeRepo) Patch(
	_ context.Context,
	kind, namespace, name string,
	patch workload.Patch,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := namespace + "/" + name

	r, ok := f.resources[kind][key]
	if !ok {
		return &fakeNotFoundError{key: kind + "/" + key}
	}

	annotationOnly := patch.Annotations != nil && patch.Replicas == nil && patch.Suspend == nil
	if f.failAnnotationPatches && annotationOnly {
		return fmt.Errorf("annotation patch on %s/%s denied", kind, key)
	}

	f.patches = append(f.patches, recordedPatch{Kind: kind, Key: key, Patch: patch})

	if patch.Replicas != nil {
		v := *patch.Replicas
		r.Replicas = &v
	}

	if patch.Suspend != nil {
		v := *patch.Suspend
		r.Suspend = &v
	}

	if patch.Annotations != nil {
		if r.Annotations == nil {
			r.Annotations = make(map[string]string)
		}

		for k, v := range patch.Annotations {
			r.Annotations[k] = v
		}
	}

	return nil
}

func (f *fakeRepo) CreateEvent(
	_ context.Context,
	regarding *workload.Resource,
	event workload.Event,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, recordedEvent{
		Kind:   regarding.Kind,
		Key:    regarding.Key(),
		Reason: event.Reason,
	})

	return nil
}

func (f *fakeRepo) resource(kind, key string) *workload.Resource {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.resources[kind][key]
}

func (f *fakeRepo) patchCount(kind, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0

	for _, p := range f.patches {
		if p.Kind == kind && p.Key == key {
			count++
		}
	}

	return count
}

func (f *fakeRepo) eventCount(kind, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0

	for _, e := range f.events {
		if e.Kind == kind && e.Key == key {
			count++
		}
	}

	return count
}

func copyResource(r *workload.Resource) workload.Resource {
	copied := *r

	if r.Replicas != nil {
		v := *r.Replicas
		copied.Replicas = &v
	}

	if r.Suspend != nil {
		v := *r.Suspend
		copied.Suspend = &v
	}

	if r.Annotations != nil {
		copied.Annotations = make(map[string]string, len(r.Annotations))
		for k, v := range r.Annotations {
			copied.Annotations[k] = v
		}
	}

	if r.Labels != nil {
		copied.Labels = make(map[string]string, len(r.Labels))
		for k, v := range r.Labels {
			copied.Labels[k] = v
		}
	}

	return copied
}

func deployment(namespace, name string, replicas *int32) *workload.Resource {
	return &workload.Resource{
		Kind:       workload.KindDeployment,
		APIVersion: workload.APIVersionApps,
		Name:       name,
		Namespace:  namespace,
		Replicas:   replicas,
	}
}

func statefulSet(namespace, name string, replicas *int32) *workload.Resource {
	return &workload.Resource{
		Kind:       workload.KindStatefulSet,
		APIVersion: workload.APIVersionApps,
		Name:       name,
		Namespace:  namespace,
		Replicas:   replicas,
	}
}

func cronJob(namespace, name string, suspend *bool) *workload.Resource {
	return &workload.Resource{
		Kind:       workload.KindCronJob,
		APIVersion: workload.APIVersionBatch,
		Name:       name,
		Namespace:  namespace,
		Suspend:    suspend,
	}
}

func kustomization(namespace, name string, suspend *bool) *workload.Resource {
	return &workload.Resource{
		Kind:       workload.KindKustomization,
		APIVersion: workload.APIVersionKustomization,
		Name:       name,
		Namespace:  namespace,
		Suspend:    suspend,
	}
}
