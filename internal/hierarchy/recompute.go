package hierarchy

import (
	"context"
	"errors"

	"github.com/contentgraph/pagetree/api"
	"github.com/contentgraph/pagetree/internal/store"
	"github.com/sirupsen/logrus"
)

// Derived bundles the recomputed denormalized fields of one node.
type Derived struct {
	URL         string               `json:"url"`
	Breadcrumbs []api.BreadcrumbItem `json:"breadcrumbs"`
}

// Recompute derives a node's breadcrumbs and URL from its current stored
// links. The node itself must be fetchable; everything above it follows
// the breadcrumb failure policy (structural violations hard, lookups
// degraded).
func (r *Resolver) Recompute(ctx context.Context, cache *OpCache, collection, nodeID string) (*Derived, error) {
	node, err := r.fetchNode(ctx, cache, collection, nodeID)
	if err != nil {
		return nil, &LookupError{Collection: collection, ID: nodeID, Err: err}
	}

	chain, err := r.BuildChain(ctx, cache, collection, nodeID)
	if err != nil {
		var le *LookupError
		if !errors.As(err, &le) {
			return nil, err
		}
		// Degrade: compose the URL from the node alone, no trail.
		r.log.WithFields(logrus.Fields{
			"collection": collection,
			"node":       nodeID,
		}).WithError(err).Error("derived fields degraded after lookup failure")
		chain = &Chain{Termination: TermBroken}
	}
	switch chain.Termination {
	case TermCycle:
		return nil, &CycleError{Node: nodeID}
	case TermDepth:
		return nil, &DepthError{Node: nodeID, Max: r.maxDepth}
	}

	crumbs, err := r.breadcrumbsFromChain(chain)
	if err != nil {
		return nil, err
	}
	url, err := r.ResolveURL(node, chain.Ancestors)
	if err != nil {
		return nil, err
	}
	return &Derived{URL: url, Breadcrumbs: crumbs}, nil
}

// RecomputeAndStore recomputes a node's derived fields, writes them back,
// then revalidates the descendant subtree best-effort. It is the
// post-assignment step of the mutation pipeline: the node's own update is
// synchronous and fallible, descendants are fire-and-continue.
//
// Returns the node's derived fields and the number of descendants whose
// derived fields were rewritten.
func (r *Resolver) RecomputeAndStore(ctx context.Context, collection, nodeID string) (*Derived, int, error) {
	cache := NewOpCache()
	d, err := r.Recompute(ctx, cache, collection, nodeID)
	if err != nil {
		return nil, 0, err
	}
	if err := r.store.UpdateDerived(ctx, collection, nodeID, d.URL, d.Breadcrumbs); err != nil {
		return nil, 0, err
	}
	updated := r.PropagateDescendants(ctx, cache, collection, nodeID)
	return d, updated, nil
}

// PropagateDescendants recomputes derived fields for every descendant of
// nodeID, depth-first. Each descendant is processed independently: a
// failure is logged and skipped, never aborting siblings or the caller.
// Returns the number of descendants updated.
func (r *Resolver) PropagateDescendants(ctx context.Context, cache *OpCache, collection, nodeID string) int {
	visited := map[string]struct{}{nodeID: {}}
	return r.propagate(ctx, cache, collection, nodeID, visited, 0)
}

func (r *Resolver) propagate(ctx context.Context, cache *OpCache, collection, nodeID string, visited map[string]struct{}, depth int) int {
	if depth >= r.maxDepth {
		r.log.WithFields(logrus.Fields{
			"collection": collection,
			"node":       nodeID,
			"maxDepth":   r.maxDepth,
		}).Warn("descendant propagation stopped at depth budget")
		return 0
	}

	children, err := r.store.Find(ctx, collection, store.Filter{ParentID: nodeID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"collection": collection,
			"node":       nodeID,
		}).WithError(err).Error("listing children failed, subtree skipped")
		return 0
	}

	updated := 0
	for _, child := range children {
		if _, seen := visited[child.ID]; seen {
			r.log.WithFields(logrus.Fields{
				"collection": collection,
				"node":       child.ID,
			}).Warn("descendant revisited during propagation, skipping")
			continue
		}
		visited[child.ID] = struct{}{}

		d, err := r.Recompute(ctx, cache, collection, child.ID)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"collection": collection,
				"node":       child.ID,
			}).WithError(err).Error("descendant recompute failed, continuing with siblings")
		} else if err := r.store.UpdateDerived(ctx, collection, child.ID, d.URL, d.Breadcrumbs); err != nil {
			r.log.WithFields(logrus.Fields{
				"collection": collection,
				"node":       child.ID,
			}).WithError(err).Error("descendant write-back failed, continuing with siblings")
		} else {
			updated++
		}

		updated += r.propagate(ctx, cache, collection, child.ID, visited, depth+1)
	}
	return updated
}
