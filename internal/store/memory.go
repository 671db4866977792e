package store

import (
	"context"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/contentgraph/pagetree/api"
	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"
)

// MemoryStore keeps collections of nodes in maps guarded by an RWMutex.
//
// A roaring bitmap secondary index maps (collection, parent id) to the set
// of child nodes, so descendant propagation does O(k) child lookups instead
// of scanning the whole collection on every hop.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]map[string]*api.ContentNode // collection → id → node

	// Children index: collection-scoped parent key → bitmap of internal IDs.
	childBits map[string]*roaring.Bitmap
	intID     map[string]uint32 // node key → internal bitmap ID
	byInt     []string          // reverse: internal ID → node key
	nextInt   uint32
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:     make(map[string]map[string]*api.ContentNode),
		childBits: make(map[string]*roaring.Bitmap),
		intID:     make(map[string]uint32),
	}
}

func nodeKey(collection, id string) string { return collection + "/" + id }

// indexChild registers the node under its parent's bitmap.
// Must be called with s.mu held.
func (s *MemoryStore) indexChild(collection string, n *api.ContentNode) {
	key := nodeKey(collection, n.ID)
	intID, ok := s.intID[key]
	if !ok {
		intID = s.nextInt
		s.nextInt++
		s.intID[key] = intID
		for uint32(len(s.byInt)) <= intID {
			s.byInt = append(s.byInt, "")
		}
		s.byInt[intID] = key
	}
	if n.Parent == "" {
		return
	}
	parentKey := nodeKey(collection, n.Parent)
	bm, ok := s.childBits[parentKey]
	if !ok {
		bm = roaring.New()
		s.childBits[parentKey] = bm
	}
	bm.Add(intID)
}

// unindexChild removes the node from its previous parent's bitmap.
// Must be called with s.mu held.
func (s *MemoryStore) unindexChild(collection string, n *api.ContentNode) {
	if n.Parent == "" {
		return
	}
	intID, ok := s.intID[nodeKey(collection, n.ID)]
	if !ok {
		return
	}
	parentKey := nodeKey(collection, n.Parent)
	if bm, ok := s.childBits[parentKey]; ok {
		bm.Remove(intID)
		if bm.IsEmpty() {
			delete(s.childBits, parentKey)
		}
	}
}

func (s *MemoryStore) FindByID(ctx context.Context, collection, id string) (*api.ContentNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneNode(n), nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, f Filter) ([]*api.ContentNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var expr jp.Expr
	if f.Expr != "" {
		compiled, err := compileExpr(f.Expr)
		if err != nil {
			return nil, err
		}
		expr = compiled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*api.ContentNode
	if f.ParentID != "" {
		// Bitmap index path: only the children of the given parent.
		bm, ok := s.childBits[nodeKey(collection, f.ParentID)]
		if !ok {
			return nil, nil
		}
		it := bm.Iterator()
		for it.HasNext() {
			key := s.byInt[it.Next()]
			if key == "" {
				continue
			}
			if n, ok := s.nodes[collection][key[len(collection)+1:]]; ok {
				candidates = append(candidates, n)
			}
		}
	} else {
		for _, n := range s.nodes[collection] {
			candidates = append(candidates, n)
		}
	}

	var out []*api.ContentNode
	for _, n := range candidates {
		if f.Slug != "" && n.Slug != f.Slug {
			continue
		}
		if expr != nil {
			ok, err := exprMatches(expr, n)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, cloneNode(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, n *api.ContentNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.nodes[collection]
	if !ok {
		coll = make(map[string]*api.ContentNode)
		s.nodes[collection] = coll
	}
	stored := cloneNode(n)
	coll[n.ID] = stored
	s.indexChild(collection, stored)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, n *api.ContentNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.nodes[collection][n.ID]
	if !ok {
		return ErrNotFound
	}
	if prev.Parent != n.Parent {
		s.unindexChild(collection, prev)
	}
	stored := cloneNode(n)
	s.nodes[collection][n.ID] = stored
	s.indexChild(collection, stored)
	return nil
}

func (s *MemoryStore) UpdateDerived(ctx context.Context, collection, id, url string, crumbs []api.BreadcrumbItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[collection][id]
	if !ok {
		return ErrNotFound
	}
	n.URL = url
	n.Breadcrumbs = make([]api.BreadcrumbItem, len(crumbs))
	copy(n.Breadcrumbs, crumbs)
	return nil
}

func (s *MemoryStore) Collections(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.nodes))
	for c := range s.nodes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
