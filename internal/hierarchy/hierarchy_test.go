package hierarchy

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/contentgraph/pagetree/api"
	"github.com/contentgraph/pagetree/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// countingStore counts FindByID calls so tests can assert cache-driven
// fetch deduplication.
type countingStore struct {
	store.Store
	fetches int
}

func (c *countingStore) FindByID(ctx context.Context, collection, id string) (*api.ContentNode, error) {
	c.fetches++
	return c.Store.FindByID(ctx, collection, id)
}

// failingStore fails FindByID for one specific id, everything else passes
// through.
type failingStore struct {
	store.Store
	failID string
}

var errStoreDown = errors.New("store unavailable")

func (f *failingStore) FindByID(ctx context.Context, collection, id string) (*api.ContentNode, error) {
	if id == f.failID {
		return nil, errStoreDown
	}
	return f.Store.FindByID(ctx, collection, id)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestResolver(st store.Store, maxDepth int) *Resolver {
	return New(Config{Store: st, Logger: quietLogger(), MaxDepth: maxDepth})
}

func mustInsert(t *testing.T, st store.Store, collection string, n *api.ContentNode) {
	t.Helper()
	require.NoError(t, st.Insert(context.Background(), collection, n))
}

// seedPages builds the standard fixture tree in the "pages" collection:
//
//	home (root)
//	parent (root) → child → grandchild
func seedPages(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	mustInsert(t, st, "pages", &api.ContentNode{
		ID: "home", Slug: "home", Title: "Home",
		Type: api.TypePage, Status: api.StatusPublished,
	})
	mustInsert(t, st, "pages", &api.ContentNode{
		ID: "parent", Slug: "parent", Title: "Parent",
		Type: api.TypePage, Status: api.StatusPublished,
	})
	mustInsert(t, st, "pages", &api.ContentNode{
		ID: "child", Slug: "child", Title: "Child",
		Type: api.TypePage, Status: api.StatusPublished, Parent: "parent",
	})
	mustInsert(t, st, "pages", &api.ContentNode{
		ID: "grandchild", Slug: "grandchild", Title: "Grandchild",
		Type: api.TypePage, Status: api.StatusPublished, Parent: "child",
	})
	return st
}
