package k8s

import (
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/demikl/tarnfui/internal/logic/workload"
)

func toDomainDeployment(d *appsv1.Deployment) workload.Resource {
	r := baseResource(workload.KindDeployment, workload.APIVersionApps, &d.ObjectMeta)
	r.Replicas = d.Spec.Replicas

	return r
}

func toDomainStatefulSet(s *appsv1.StatefulSet) workload.Resource {
	r := baseResource(workload.KindStatefulSet, workload.APIVersionApps, &s.ObjectMeta)
	r.Replicas = s.Spec.Replicas

	return r
}

func toDomainCronJob(c *batchv1.CronJob) workload.Resource {
	r := baseResource(workload.KindCronJob, workload.APIVersionBatch, &c.ObjectMeta)

	// An unset suspend flag means not suspended.
	suspend := c.Spec.Suspend != nil && *c.Spec.Suspend
	r.Suspend = &suspend

	return r
}

func toDomainKustomization(u *unstructured.Unstructured) workload.Resource {
	refs := make([]workload.OwnerReference, 0, len(u.GetOwnerReferences()))
	for _, ref := range u.GetOwnerReferences() {
		refs = append(refs, workload.OwnerReference{
			APIVersion: ref.APIVersion,
			Kind:       ref.Kind,
			Name:       ref.Name,
		})
	}

	suspend, found, err := unstructured.NestedBool(u.Object, "spec", "suspend")
	if err != nil || !found {
		suspend = false
	}

	return workload.Resource{
		Kind:            workload.KindKustomization,
		APIVersion:      workload.APIVersionKustomization,
		Name:            u.GetName(),
		Namespace:       u.GetNamespace(),
		UID:             string(u.GetUID()),
		Annotations:     u.GetAnnotations(),
		Labels:          u.GetLabels(),
		OwnerReferences: refs,
		Suspend:         &suspend,
	}
}

func baseResource(kind, apiVersion string, meta *metav1.ObjectMeta) workload.Resource {
	refs := make([]workload.OwnerReference, 0, len(meta.OwnerReferences))
	for _, ref := range meta.OwnerReferences {
		refs = append(refs, workload.OwnerReference{
			APIVersion: ref.APIVersion,
			Kind:       ref.Kind,
			Name:       ref.Name,
		})
	}

	return workload.Resource{
		Kind:            kind,
		APIVersion:      apiVersion,
		Name:            meta.Name,
		Namespace:       meta.Namespace,
		UID:             string(meta.UID),
		Annotations:     meta.Annotations,
		Labels:          meta.Labels,
		OwnerReferences: refs,
	}
}
