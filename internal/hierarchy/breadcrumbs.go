package hierarchy

import (
	"context"
	"errors"

	"github.com/contentgraph/pagetree/api"
	"github.com/sirupsen/logrus"
)

// GenerateBreadcrumbs maps a node's ancestor chain into display crumbs,
// root-to-immediate-parent. A root node yields an empty (non-nil) list.
//
// Structural violations (cycle, depth overrun) propagate and block the
// triggering save. Lookup failures degrade to an empty trail with a
// logged error instead of failing the save.
func (r *Resolver) GenerateBreadcrumbs(ctx context.Context, cache *OpCache, collection, nodeID string) ([]api.BreadcrumbItem, error) {
	chain, err := r.BuildChain(ctx, cache, collection, nodeID)
	if err != nil {
		var le *LookupError
		if errors.As(err, &le) {
			r.log.WithFields(logrus.Fields{
				"collection": collection,
				"node":       nodeID,
			}).WithError(err).Error("breadcrumbs degraded to empty after lookup failure")
			return []api.BreadcrumbItem{}, nil
		}
		return nil, err
	}
	switch chain.Termination {
	case TermCycle:
		return nil, &CycleError{Node: nodeID}
	case TermDepth:
		return nil, &DepthError{Node: nodeID, Max: r.maxDepth}
	}
	// TermBroken keeps its partial chain: a truncated trail beats none.
	return r.breadcrumbsFromChain(chain)
}

// breadcrumbsFromChain renders one crumb per ancestor. Each ancestor's URL
// is resolved against the prefix of the chain above it.
func (r *Resolver) breadcrumbsFromChain(chain *Chain) ([]api.BreadcrumbItem, error) {
	crumbs := make([]api.BreadcrumbItem, 0, len(chain.Ancestors))
	for i, anc := range chain.Ancestors {
		url, err := r.ResolveURL(anc, chain.Ancestors[:i])
		if err != nil {
			return nil, err
		}
		label := anc.Title
		if label == "" {
			label = anc.Slug
		}
		crumbs = append(crumbs, api.BreadcrumbItem{Doc: anc.ID, URL: url, Label: label})
	}
	return crumbs, nil
}
