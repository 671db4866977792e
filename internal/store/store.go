// Package store defines the document store consumed by the hierarchy
// engine: fetch-by-id and filtered-find over content nodes, plus the
// write-back surface for derived breadcrumb/url data.
//
// Two implementations are provided: MemoryStore for tests and embedding,
// and SQLiteStore for operational use. Both return copies; a node handed
// out is a snapshot, never shared mutable state.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/contentgraph/pagetree/api"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var ErrNotFound = errors.New("node not found")

// Filter narrows a Find call. The zero value matches every node in the
// collection. Fields combine with AND.
type Filter struct {
	// ParentID matches nodes whose parent link equals the given id.
	ParentID string
	// Slug matches nodes with exactly this slug.
	Slug string
	// Expr is an optional JSONPath predicate evaluated against the node
	// document; the node matches when the path selects at least one value.
	Expr string
}

// Store is the document store boundary. Fetches are shallow: no nested
// relationship expansion, only the node body itself.
type Store interface {
	// FindByID fetches a single node, or ErrNotFound.
	FindByID(ctx context.Context, collection, id string) (*api.ContentNode, error)
	// Find returns the nodes in a collection matching the filter,
	// ordered by id.
	Find(ctx context.Context, collection string, f Filter) ([]*api.ContentNode, error)
	// Insert stores a new node, assigning an id when the node has none.
	Insert(ctx context.Context, collection string, n *api.ContentNode) error
	// Update replaces an existing node, or ErrNotFound.
	Update(ctx context.Context, collection string, n *api.ContentNode) error
	// UpdateDerived writes back the computed url and breadcrumb trail
	// without touching any author-owned field.
	UpdateDerived(ctx context.Context, collection, id, url string, crumbs []api.BreadcrumbItem) error
	// Collections lists every collection present in the store, sorted.
	Collections(ctx context.Context) ([]string, error)
	Close() error
}

// compileExpr parses a JSONPath filter expression once per Find call.
func compileExpr(expr string) (jp.Expr, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression %q: %w", expr, err)
	}
	return x, nil
}

// exprMatches evaluates a compiled JSONPath against a node document.
// The node is round-tripped through its JSON form so the expression sees
// the same shape the store persists.
func exprMatches(x jp.Expr, n *api.ContentNode) (bool, error) {
	data, err := oj.Marshal(n)
	if err != nil {
		return false, fmt.Errorf("encode node %s: %w", n.ID, err)
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return false, fmt.Errorf("reparse node %s: %w", n.ID, err)
	}
	return len(x.Get(doc)) > 0, nil
}

// cloneNode returns a snapshot safe to hand across the store boundary.
func cloneNode(n *api.ContentNode) *api.ContentNode {
	c := *n
	if n.Breadcrumbs != nil {
		c.Breadcrumbs = make([]api.BreadcrumbItem, len(n.Breadcrumbs))
		copy(c.Breadcrumbs, n.Breadcrumbs)
	}
	return &c
}
