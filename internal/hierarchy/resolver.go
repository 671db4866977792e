// Package hierarchy maintains the parent-link structure of the content
// tree and derives breadcrumb trails and canonical URLs from it.
//
// All resolution runs against the store through an explicit OpCache scoped
// to one logical operation. Structural violations (self-reference, cycle,
// depth overrun) are hard failures; lookup failures during derived-data
// recomputation degrade to empty output with a logged error.
package hierarchy

import (
	"github.com/contentgraph/pagetree/internal/store"
	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth bounds upward walks. A chain longer than this is treated
// as pathological even when no revisit was observed.
const DefaultMaxDepth = 50

// Config wires a Resolver. Store is required; Logger and MaxDepth are
// defaulted when zero.
type Config struct {
	Store    store.Store
	Logger   *logrus.Logger
	MaxDepth int
}

// Resolver owns chain building, parent validation, and breadcrumb/URL
// derivation over one document store.
type Resolver struct {
	store    store.Store
	log      *logrus.Logger
	maxDepth int
}

func New(cfg Config) *Resolver {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{
		store:    cfg.Store,
		log:      cfg.Logger,
		maxDepth: cfg.MaxDepth,
	}
}

// MaxDepth reports the configured chain budget.
func (r *Resolver) MaxDepth() int { return r.maxDepth }
