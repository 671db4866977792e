package api

import "strings"

// ContentType tags a node with the kind of content it holds.
// The set is closed: adding a type means adding a constant here
// plus entries in the collection and namespace tables below.
type ContentType string

const (
	TypePage    ContentType = "page"
	TypeBlog    ContentType = "blog"
	TypeService ContentType = "service"
	TypeLegal   ContentType = "legal"
	TypeContact ContentType = "contact"
)

// collectionByType maps each content type to its document store collection.
var collectionByType = map[ContentType]string{
	TypePage:    "pages",
	TypeBlog:    "blogs",
	TypeService: "services",
	TypeLegal:   "legal",
	TypeContact: "contact",
}

// namespaceByType maps each content type to the URL path segment it lives
// under. An empty prefix means the type is mounted at the site root.
var namespaceByType = map[ContentType]string{
	TypePage:    "",
	TypeBlog:    "/blog",
	TypeService: "/services",
	TypeLegal:   "/legal",
	TypeContact: "/contact",
}

// Collection returns the store collection for the type, and false if the
// type is not one of the closed set.
func (t ContentType) Collection() (string, bool) {
	c, ok := collectionByType[t]
	return c, ok
}

// NamespacePrefix returns the URL namespace for the type, and false if the
// type is not one of the closed set. Callers must treat false as a
// configuration error, never as an empty prefix.
func (t ContentType) NamespacePrefix() (string, bool) {
	p, ok := namespaceByType[t]
	return p, ok
}

// Types returns all registered content types. Order is fixed.
func Types() []ContentType {
	return []ContentType{TypePage, TypeBlog, TypeService, TypeLegal, TypeContact}
}

// Status is the publication state of a node.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// BreadcrumbItem is one entry of a node's denormalized breadcrumb trail.
type BreadcrumbItem struct {
	// Doc is the id of the ancestor node this crumb points at.
	Doc string `json:"doc"`
	// URL is the ancestor's resolved canonical path.
	URL string `json:"url"`
	// Label is the display text, normally the ancestor's title.
	Label string `json:"label"`
}

// ContentNode is a single page in the content tree.
// Breadcrumbs and URL are derived from the parent chain and the slug; they
// are recomputed on mutation and never written independently.
type ContentNode struct {
	ID     string      `json:"id"`
	Slug   string      `json:"slug"`
	Title  string      `json:"title"`
	Type   ContentType `json:"type"`
	Status Status      `json:"status"`
	// Parent is the id of the parent node in the same collection.
	// Empty means the node is a tree root.
	Parent string `json:"parent,omitempty"`

	Breadcrumbs []BreadcrumbItem `json:"breadcrumbs,omitempty"`
	URL         string           `json:"url,omitempty"`
}

// Slugify derives a URL slug from a title: lowercase, alphanumeric runs
// kept, everything else collapsed into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
