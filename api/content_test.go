package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespacePrefix_ClosedSet(t *testing.T) {
	want := map[ContentType]string{
		TypePage:    "",
		TypeBlog:    "/blog",
		TypeService: "/services",
		TypeLegal:   "/legal",
		TypeContact: "/contact",
	}
	for _, typ := range Types() {
		prefix, ok := typ.NamespacePrefix()
		assert.True(t, ok, "type %q must have a namespace", typ)
		assert.Equal(t, want[typ], prefix)
	}
}

func TestNamespacePrefix_UnknownType(t *testing.T) {
	_, ok := ContentType("newsletter").NamespacePrefix()
	assert.False(t, ok)
}

func TestCollection_EveryTypeHasOne(t *testing.T) {
	seen := map[string]ContentType{}
	for _, typ := range Types() {
		c, ok := typ.Collection()
		assert.True(t, ok)
		assert.NotContains(t, seen, c, "collections must be distinct")
		seen[c] = typ
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Legal -- Notice  ", "legal-notice"},
		{"Already-slugged", "already-slugged"},
		{"Ünïcode Título", "n-code-t-tulo"},
		{"2024 Report", "2024-report"},
		{"", ""},
		{"---", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "Slugify(%q)", c.in)
	}
}
