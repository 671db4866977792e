package hierarchy

import (
	"context"
	"errors"

	"github.com/contentgraph/pagetree/api"
	"github.com/contentgraph/pagetree/internal/store"
	"github.com/sirupsen/logrus"
)

// Termination tags how an upward walk ended.
type Termination int

const (
	// TermRoot: a node with no parent was reached. The clean outcome.
	TermRoot Termination = iota
	// TermDepth: the walk burned its whole step budget without a root.
	TermDepth
	// TermBroken: a parent link referenced a node the store does not
	// have; the chain is truncated at the last good ancestor.
	TermBroken
	// TermCycle: the walk revisited a node already seen.
	TermCycle
)

func (t Termination) String() string {
	switch t {
	case TermRoot:
		return "root"
	case TermDepth:
		return "depth-exceeded"
	case TermBroken:
		return "broken-link"
	case TermCycle:
		return "cycle"
	}
	return "unknown"
}

// Chain is the resolved ancestry of a node: root-first, ending at (but
// excluding) the node itself.
type Chain struct {
	Ancestors   []*api.ContentNode
	Termination Termination
}

// IDs returns the ancestor ids root-first.
func (c *Chain) IDs() []string {
	ids := make([]string, len(c.Ancestors))
	for i, n := range c.Ancestors {
		ids[i] = n.ID
	}
	return ids
}

// fetchNode consults the cache before hitting the store. A fetched node is
// memoized for the rest of the operation, so the walk observes one
// consistent snapshot even if a concurrent writer lands mid-resolution.
func (r *Resolver) fetchNode(ctx context.Context, cache *OpCache, collection, id string) (*api.ContentNode, error) {
	if n, ok := cache.node(collection, id); ok {
		return n, nil
	}
	n, err := r.store.FindByID(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	cache.putNode(collection, n)
	return n, nil
}

// BuildChain walks parent links upward from nodeID and returns the ordered
// ancestor chain. The walk is iterative with an explicit visited set and a
// hard step budget; the outcome is tagged rather than raised, except for
// true store failures.
//
// A missing parent (broken link) is a soft condition: the partial chain is
// returned with TermBroken and a logged warning. A store error fetching the
// node itself or an ancestor is returned as a LookupError.
func (r *Resolver) BuildChain(ctx context.Context, cache *OpCache, collection, nodeID string) (*Chain, error) {
	if ch, ok := cache.chain(collection, nodeID); ok {
		return ch, nil
	}

	node, err := r.fetchNode(ctx, cache, collection, nodeID)
	if err != nil {
		return nil, &LookupError{Collection: collection, ID: nodeID, Err: err}
	}

	visited := map[string]struct{}{nodeID: {}}
	var upward []*api.ContentNode // immediate parent first
	term := TermRoot

	current := node
	for hops := 0; ; hops++ {
		if current.Parent == "" {
			term = TermRoot
			break
		}
		if hops >= r.maxDepth {
			term = TermDepth
			r.log.WithFields(logrus.Fields{
				"collection": collection,
				"node":       nodeID,
				"maxDepth":   r.maxDepth,
			}).Warn("ancestor walk exhausted depth budget")
			break
		}
		if _, seen := visited[current.Parent]; seen {
			term = TermCycle
			r.log.WithFields(logrus.Fields{
				"collection": collection,
				"node":       nodeID,
				"revisited":  current.Parent,
			}).Warn("ancestor walk revisited a node")
			break
		}
		parent, err := r.fetchNode(ctx, cache, collection, current.Parent)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				term = TermBroken
				r.log.WithFields(logrus.Fields{
					"collection": collection,
					"node":       nodeID,
					"missing":    current.Parent,
				}).Warn("parent link points at a missing node, chain truncated")
				break
			}
			return nil, &LookupError{Collection: collection, ID: current.Parent, Err: err}
		}
		visited[parent.ID] = struct{}{}
		upward = append(upward, parent)
		current = parent
	}

	// Reverse into root-first order.
	ancestors := make([]*api.ContentNode, len(upward))
	for i, n := range upward {
		ancestors[len(upward)-1-i] = n
	}

	ch := &Chain{Ancestors: ancestors, Termination: term}
	cache.putChain(collection, nodeID, ch)
	return ch, nil
}
