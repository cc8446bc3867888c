package workload

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/demikl/tarnfui/internal/infra/metrics"
)

type direction int

const (
	directionSuspend direction = iota
	directionResume
)

// Cascade coordinates manager-before-child ordering within a reconciliation
// pass. It holds the registered manager handlers and a bounded LRU of manager
// keys already acted on during the current pass, so a manager with many
// children is suspended or resumed exactly once.
type Cascade struct {
	logger    *slog.Logger
	managers  []*ManagerHandler
	processed *lru.Cache[string, struct{}]
}

// NewCascade creates a cascade over the given manager handlers, matched in
// order (first match wins). capacity bounds the processed-manager cache;
// inserting beyond it evicts the least-recently-used key.
func NewCascade(logger *slog.Logger, capacity int, managers ...*ManagerHandler) *Cascade {
	// lru.New only fails on a non-positive size, which is a programming error.
	processed, err := lru.New[string, struct{}](capacity)
	if err != nil {
		panic(err)
	}

	return &Cascade{
		logger:    logger,
		managers:  managers,
		processed: processed,
	}
}

// Suspend suspends the manager governing r, if any and not yet processed in
// this pass.
func (c *Cascade) Suspend(ctx context.Context, r *Resource) {
	c.apply(ctx, r, directionSuspend)
}

// Resume resumes the manager governing r, if any and not yet processed in
// this pass.
func (c *Cascade) Resume(ctx context.Context, r *Resource) {
	c.apply(ctx, r, directionResume)
}

// Reset clears the processed-manager cache. Called exactly once per logical
// pass, after all handlers ran.
func (c *Cascade) Reset() {
	c.processed.Purge()
}

func (c *Cascade) apply(ctx context.Context, r *Resource, dir direction) {
	for _, m := range c.managers {
		manager := m.ManagerFor(ctx, r)
		if manager == nil {
			continue
		}

		key := manager.Kind + "/" + manager.Key()
		if _, done := c.processed.Get(key); done {
			return
		}

		// Marked before acting so a manager chain that loops back on
		// itself terminates.
		c.processed.Add(key, struct{}{})

		// The manager may itself be governed: cascade upward first.
		c.apply(ctx, manager, dir)

		var (
			acted bool
			err   error
		)

		switch dir {
		case directionSuspend:
			acted, err = m.suspendOne(ctx, manager, nil)
		case directionResume:
			acted, err = m.resumeOne(ctx, manager, nil)
		}

		if err != nil {
			c.logger.ErrorContext(ctx, "manager cascade failed",
				"manager", key,
				"resource", r.Key(),
				"reason", err,
			)
		} else if acted {
			metrics.RecordManagerCascade(manager.Kind, dir.String())
			c.logger.InfoContext(ctx, "manager cascaded",
				"manager", key,
				"resource", r.Key(),
				"direction", dir.String(),
			)
		}

		return
	}
}

func (d direction) String() string {
	if d == directionSuspend {
		return "suspend"
	}

	return "resume"
}
