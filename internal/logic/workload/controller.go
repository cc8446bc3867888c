package workload

import (
	"context"
	"log/slog"
)

// Controller is the registry of enabled resource handlers. It fans
// reconciliation commands out to every registered handler in registration
// order, owns the cascade, and clears the processed-manager cache once per
// logical pass.
type Controller struct {
	logger   *slog.Logger
	handlers []*Handler
	byType   map[string]*Handler
	cascade  *Cascade
}

// DefaultResourceTypes are the kinds managed when no allow-list is given.
var DefaultResourceTypes = []string{TypeDeployments, TypeStatefulSets}

// SupportedResourceTypes are all kinds this controller knows how to manage.
var SupportedResourceTypes = []string{TypeDeployments, TypeStatefulSets, TypeCronJobs}

// NewController builds the handler registry from the configured resource type
// tokens. Unsupported tokens are logged and dropped, not fatal. namespace
// restricts all passes; empty means all namespaces.
func NewController(
	logger *slog.Logger,
	repo Repository,
	namespace string,
	resourceTypes []string,
) *Controller {
	if len(resourceTypes) == 0 {
		resourceTypes = DefaultResourceTypes
	}

	c := &Controller{
		logger: logger,
		byType: make(map[string]*Handler),
		cascade: NewCascade(
			logger,
			DefaultProcessedManagersCapacity,
			NewKustomizationManager(logger, repo, namespace),
		),
	}

	for _, rt := range resourceTypes {
		var handler *Handler

		switch rt {
		case TypeDeployments:
			handler = NewHandler(logger, repo, KindDeployment, APIVersionApps, ReplicaScaled{}, namespace)
		case TypeStatefulSets:
			handler = NewHandler(logger, repo, KindStatefulSet, APIVersionApps, ReplicaScaled{}, namespace)
		case TypeCronJobs:
			handler = NewHandler(logger, repo, KindCronJob, APIVersionBatch, SuspendFlagged{}, namespace)
		default:
			logger.Warn("unsupported resource type, ignoring", "type", rt)

			continue
		}

		if _, exists := c.byType[rt]; exists {
			continue
		}

		c.byType[rt] = handler
		c.handlers = append(c.handlers, handler)
		logger.Info("enabled resource type", "type", rt)
	}

	return c
}

// SuspendResources runs the suspend pass on the requested resource types, or
// on every registered one when resourceTypes is empty. One handler's failure
// never prevents the others from running.
func (c *Controller) SuspendResources(ctx context.Context, resourceTypes []string, namespace string) {
	defer c.cascade.Reset()

	for _, h := range c.selectHandlers(resourceTypes) {
		h.SuspendAll(ctx, namespace, c.cascade)
	}
}

// ResumeResources runs the resume pass, mirroring SuspendResources.
func (c *Controller) ResumeResources(ctx context.Context, resourceTypes []string, namespace string) {
	defer c.cascade.Reset()

	for _, h := range c.selectHandlers(resourceTypes) {
		h.ResumeAll(ctx, namespace, c.cascade)
	}
}

// Handler returns the registered handler for a resource type token.
func (c *Controller) Handler(resourceType string) (*Handler, bool) {
	h, ok := c.byType[resourceType]

	return h, ok
}

func (c *Controller) selectHandlers(resourceTypes []string) []*Handler {
	if len(resourceTypes) == 0 {
		return c.handlers
	}

	selected := make([]*Handler, 0, len(resourceTypes))

	for _, rt := range resourceTypes {
		h, ok := c.byType[rt]
		if !ok {
			c.logger.Warn("no handler registered for resource type", "type", rt)

			continue
		}

		selected = append(selected, h)
	}

	return selected
}
