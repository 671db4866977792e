package hierarchy

import "github.com/contentgraph/pagetree/api"

type cacheKey struct {
	collection string
	id         string
}

// OpCache memoizes store fetches and resolved chains for the duration of
// one logical operation, meaning a single mutation or a single read-time
// resolution. It is threaded explicitly through every call in the
// resolution path and discarded when the operation ends; it must never be
// shared across operations or it will serve stale data to concurrent
// editors.
//
// Not safe for concurrent use: one operation runs on one goroutine.
type OpCache struct {
	nodes  map[cacheKey]*api.ContentNode
	chains map[cacheKey]*Chain
}

func NewOpCache() *OpCache {
	return &OpCache{
		nodes:  make(map[cacheKey]*api.ContentNode),
		chains: make(map[cacheKey]*Chain),
	}
}

func (c *OpCache) node(collection, id string) (*api.ContentNode, bool) {
	n, ok := c.nodes[cacheKey{collection, id}]
	return n, ok
}

func (c *OpCache) putNode(collection string, n *api.ContentNode) {
	c.nodes[cacheKey{collection, n.ID}] = n
}

func (c *OpCache) chain(collection, id string) (*Chain, bool) {
	ch, ok := c.chains[cacheKey{collection, id}]
	return ch, ok
}

func (c *OpCache) putChain(collection, id string, ch *Chain) {
	c.chains[cacheKey{collection, id}] = ch
}

// Len reports how many node bodies are memoized. Used by tests to assert
// fetch deduplication.
func (c *OpCache) Len() int { return len(c.nodes) }
