package hierarchy

import (
	"strings"

	"github.com/contentgraph/pagetree/api"
)

// HomeSlug is the sentinel slug of the site front page. A node carrying it
// resolves to "/" regardless of type or ancestry, and it never contributes
// a path segment to descendants.
const HomeSlug = "home"

// ResolveURL composes the canonical path for a node given its resolved
// ancestor chain (root-first). The node's content type selects the
// namespace prefix; an unregistered type is a configuration error.
func (r *Resolver) ResolveURL(node *api.ContentNode, ancestors []*api.ContentNode) (string, error) {
	prefix, ok := node.Type.NamespacePrefix()
	if !ok {
		return "", &UnknownContentTypeError{Type: node.Type}
	}
	if node.Slug == HomeSlug {
		return "/", nil
	}

	parts := make([]string, 0, len(ancestors)+2)
	parts = append(parts, prefix)
	for _, anc := range ancestors {
		if anc.Slug == HomeSlug {
			continue
		}
		parts = append(parts, anc.Slug)
	}
	parts = append(parts, node.Slug)
	return normalizePath(strings.Join(parts, "/")), nil
}

// normalizePath collapses repeated separators and guarantees exactly one
// leading slash and no trailing slash (the bare root stays "/").
func normalizePath(p string) string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}
