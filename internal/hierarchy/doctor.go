package hierarchy

import (
	"context"
	"fmt"

	"github.com/contentgraph/pagetree/internal/store"
)

// FindingKind classifies a consistency problem found by Doctor.
type FindingKind int

const (
	FindingSelfReference FindingKind = iota
	FindingCycle
	FindingDepth
	FindingBrokenParent
	FindingStaleURL
	FindingUnknownType
)

func (k FindingKind) String() string {
	switch k {
	case FindingSelfReference:
		return "self-reference"
	case FindingCycle:
		return "cycle"
	case FindingDepth:
		return "depth-exceeded"
	case FindingBrokenParent:
		return "broken-parent"
	case FindingStaleURL:
		return "stale-url"
	case FindingUnknownType:
		return "unknown-type"
	}
	return "unknown"
}

// Finding is one consistency problem on one node.
type Finding struct {
	Collection string
	Node       string
	Kind       FindingKind
	Message    string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s/%s: %s: %s", f.Collection, f.Node, f.Kind, f.Message)
}

// Doctor scans collections for structural violations and stale derived
// data: self-references, cycles, depth overruns, dangling parent links,
// unregistered content types, and URLs that no longer match what the
// resolver would compute. Passing no collections scans the whole store.
//
// The scan is read-only; fixing anything is the caller's decision.
func (r *Resolver) Doctor(ctx context.Context, collections []string) ([]Finding, error) {
	if len(collections) == 0 {
		all, err := r.store.Collections(ctx)
		if err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
		collections = all
	}

	var findings []Finding
	for _, coll := range collections {
		nodes, err := r.store.Find(ctx, coll, store.Filter{})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", coll, err)
		}
		// One scan = one logical operation, so one cache: ancestor bodies
		// shared across every node checked in this collection.
		cache := NewOpCache()
		for _, n := range nodes {
			if n.Parent == n.ID && n.ID != "" {
				findings = append(findings, Finding{
					Collection: coll, Node: n.ID, Kind: FindingSelfReference,
					Message: "node is its own parent",
				})
				continue
			}
			if _, ok := n.Type.NamespacePrefix(); !ok {
				findings = append(findings, Finding{
					Collection: coll, Node: n.ID, Kind: FindingUnknownType,
					Message: fmt.Sprintf("content type %q has no URL namespace", n.Type),
				})
				continue
			}

			chain, err := r.BuildChain(ctx, cache, coll, n.ID)
			if err != nil {
				findings = append(findings, Finding{
					Collection: coll, Node: n.ID, Kind: FindingBrokenParent,
					Message: err.Error(),
				})
				continue
			}
			switch chain.Termination {
			case TermCycle:
				findings = append(findings, Finding{
					Collection: coll, Node: n.ID, Kind: FindingCycle,
					Message: "ancestor chain revisits a node",
				})
			case TermDepth:
				findings = append(findings, Finding{
					Collection: coll, Node: n.ID, Kind: FindingDepth,
					Message: fmt.Sprintf("chain exceeds max depth %d", r.maxDepth),
				})
			case TermBroken:
				findings = append(findings, Finding{
					Collection: coll, Node: n.ID, Kind: FindingBrokenParent,
					Message: "parent link points at a missing node",
				})
			case TermRoot:
				url, err := r.ResolveURL(n, chain.Ancestors)
				if err != nil {
					findings = append(findings, Finding{
						Collection: coll, Node: n.ID, Kind: FindingUnknownType,
						Message: err.Error(),
					})
					continue
				}
				if url != n.URL {
					findings = append(findings, Finding{
						Collection: coll, Node: n.ID, Kind: FindingStaleURL,
						Message: fmt.Sprintf("stored url %q, resolver computes %q", n.URL, url),
					})
				}
			}
		}
	}
	return findings, nil
}
