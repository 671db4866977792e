package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/contentgraph/pagetree/api"
	"github.com/contentgraph/pagetree/internal/hierarchy"
	"github.com/contentgraph/pagetree/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *hierarchy.Resolver {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()
	nodes := []*api.ContentNode{
		{ID: "home", Slug: "home", Title: "Home", Type: api.TypePage, Status: api.StatusPublished},
		{ID: "parent", Slug: "parent", Title: "Parent", Type: api.TypePage, Status: api.StatusPublished},
		{ID: "child", Slug: "child", Title: "Child", Type: api.TypePage, Status: api.StatusPublished, Parent: "parent"},
	}
	for _, n := range nodes {
		require.NoError(t, st.Insert(ctx, "pages", n))
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	return hierarchy.New(hierarchy.Config{Store: st, Logger: log})
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer(newTestResolver(t))
	assert.NotNil(t, s)
}

func TestValidateHandler(t *testing.T) {
	resolver := newTestResolver(t)
	handler := getValidateHandler(resolver)
	ctx := context.Background()

	t.Run("missing collection", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ValidateParentRequest{Node: "child"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("missing node", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ValidateParentRequest{Collection: "pages"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("valid assignment", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ValidateParentRequest{
			Collection: "pages", Node: "parent", Parent: "home",
		})
		require.NoError(t, err)

		var response ValidateParentResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.True(t, response.Valid)
		assert.Empty(t, response.Kind)
	})

	t.Run("cycle rejected", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ValidateParentRequest{
			Collection: "pages", Node: "parent", Parent: "child",
		})
		require.NoError(t, err)

		var response ValidateParentResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.False(t, response.Valid)
		assert.Equal(t, "cycleDetected", response.Kind)
		assert.NotEmpty(t, response.Error)
	})

	t.Run("self reference rejected", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ValidateParentRequest{
			Collection: "pages", Node: "child", Parent: "child",
		})
		require.NoError(t, err)

		var response ValidateParentResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.False(t, response.Valid)
		assert.Equal(t, "selfReference", response.Kind)
	})
}

func TestResolveHandler(t *testing.T) {
	resolver := newTestResolver(t)
	handler := getResolveHandler(resolver)
	ctx := context.Background()

	t.Run("missing node", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ResolveRequest{Collection: "pages"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("resolves url and breadcrumbs", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ResolveRequest{Collection: "pages", Node: "child"})
		require.NoError(t, err)

		var response ResolveResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.Equal(t, "/parent/child", response.URL)
		require.Len(t, response.Breadcrumbs, 1)
		assert.Equal(t, "parent", response.Breadcrumbs[0].Doc)
	})

	t.Run("home resolves to root url", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ResolveRequest{Collection: "pages", Node: "home"})
		require.NoError(t, err)

		var response ResolveResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.Equal(t, "/", response.URL)
	})

	t.Run("unknown node", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, ResolveRequest{Collection: "pages", Node: "ghost"})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestRecomputeHandler(t *testing.T) {
	resolver := newTestResolver(t)
	handler := getRecomputeHandler(resolver)
	ctx := context.Background()

	result, err := handler(ctx, mcp.CallToolRequest{}, RecomputeRequest{Collection: "pages", Node: "parent"})
	require.NoError(t, err)

	var response RecomputeResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, "/parent", response.URL)
	assert.Equal(t, 1, response.DescendantsUpdated)
}

func TestCheckHandler(t *testing.T) {
	resolver := newTestResolver(t)
	handler := getCheckHandler(resolver)
	ctx := context.Background()

	t.Run("reports stale urls", func(t *testing.T) {
		result, err := handler(ctx, mcp.CallToolRequest{}, CheckRequest{Collection: "pages"})
		require.NoError(t, err)

		var response CheckResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.NotEmpty(t, response.Findings)
	})

	t.Run("clean after recompute", func(t *testing.T) {
		recompute := getRecomputeHandler(resolver)
		for _, id := range []string{"home", "parent"} {
			_, err := recompute(ctx, mcp.CallToolRequest{}, RecomputeRequest{Collection: "pages", Node: id})
			require.NoError(t, err)
		}

		result, err := handler(ctx, mcp.CallToolRequest{}, CheckRequest{})
		require.NoError(t, err)

		var response CheckResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
		assert.Empty(t, response.Findings)
	})
}
