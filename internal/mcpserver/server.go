// Package mcpserver exposes the hierarchy engine as MCP tools, so editor
// agents can validate parent assignments and inspect resolved URLs and
// breadcrumb trails.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/contentgraph/pagetree/api"
	"github.com/contentgraph/pagetree/internal/hierarchy"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const Version = "0.1.0"

type ValidateParentRequest struct {
	Collection string `json:"collection"` // Store collection of the node
	Node       string `json:"node"`       // Node id being reassigned
	Parent     string `json:"parent"`     // Proposed parent id; empty clears the parent
}

type ValidateParentResponse struct {
	Valid bool   `json:"valid"`
	Kind  string `json:"kind,omitempty"` // Error taxonomy name when invalid
	Error string `json:"error,omitempty"`
}

type ResolveRequest struct {
	Collection string `json:"collection"`
	Node       string `json:"node"`
}

type ResolveResponse struct {
	URL         string               `json:"url"`
	Breadcrumbs []api.BreadcrumbItem `json:"breadcrumbs"`
}

type RecomputeRequest struct {
	Collection string `json:"collection"`
	Node       string `json:"node"`
}

type RecomputeResponse struct {
	URL                string               `json:"url"`
	Breadcrumbs        []api.BreadcrumbItem `json:"breadcrumbs"`
	DescendantsUpdated int                  `json:"descendantsUpdated"`
}

type CheckRequest struct {
	Collection string `json:"collection"` // Empty scans every collection
}

type CheckResponse struct {
	Findings []string `json:"findings"`
}

// NewServer builds an MCP server wrapping the given resolver.
func NewServer(resolver *hierarchy.Resolver) *server.MCPServer {
	s := server.NewMCPServer(
		"Pagetree Hierarchy MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	validateTool := mcp.NewTool("validate_parent",
		mcp.WithDescription("Check whether assigning a parent to a node would create a self-reference, cycle, or depth overrun"),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Store collection, e.g. 'pages'")),
		mcp.WithString("node", mcp.Required(), mcp.Description("Id of the node being reassigned")),
		mcp.WithString("parent", mcp.Description("Proposed parent id; omit to make the node a root")),
	)
	s.AddTool(validateTool, mcp.NewTypedToolHandler(getValidateHandler(resolver)))

	resolveTool := mcp.NewTool("resolve",
		mcp.WithDescription("Resolve a node's canonical URL and breadcrumb trail from its current stored links"),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Store collection")),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node id")),
	)
	s.AddTool(resolveTool, mcp.NewTypedToolHandler(getResolveHandler(resolver)))

	recomputeTool := mcp.NewTool("recompute",
		mcp.WithDescription("Recompute and persist a node's derived URL and breadcrumbs, then revalidate its descendants best-effort"),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Store collection")),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node id")),
	)
	s.AddTool(recomputeTool, mcp.NewTypedToolHandler(getRecomputeHandler(resolver)))

	checkTool := mcp.NewTool("check",
		mcp.WithDescription("Scan the store for structural violations and stale derived URLs"),
		mcp.WithString("collection", mcp.Description("Collection to scan; omit to scan all")),
	)
	s.AddTool(checkTool, mcp.NewTypedToolHandler(getCheckHandler(resolver)))

	return s
}

func getValidateHandler(resolver *hierarchy.Resolver) func(ctx context.Context, request mcp.CallToolRequest, args ValidateParentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ValidateParentRequest) (*mcp.CallToolResult, error) {
		if args.Collection == "" {
			return mcp.NewToolResultError("collection is required"), nil
		}
		if args.Node == "" {
			return mcp.NewToolResultError("node is required"), nil
		}

		response := ValidateParentResponse{Valid: true}
		cache := hierarchy.NewOpCache()
		if err := resolver.ValidateParentAssignment(ctx, cache, args.Collection, args.Node, args.Parent); err != nil {
			response = ValidateParentResponse{
				Valid: false,
				Kind:  hierarchy.ErrorKind(err),
				Error: err.Error(),
			}
		}
		return marshalResult(response)
	}
}

func getResolveHandler(resolver *hierarchy.Resolver) func(ctx context.Context, request mcp.CallToolRequest, args ResolveRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args ResolveRequest) (*mcp.CallToolResult, error) {
		if args.Collection == "" {
			return mcp.NewToolResultError("collection is required"), nil
		}
		if args.Node == "" {
			return mcp.NewToolResultError("node is required"), nil
		}

		cache := hierarchy.NewOpCache()
		derived, err := resolver.Recompute(ctx, cache, args.Collection, args.Node)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to resolve node: %v", err)), nil
		}
		return marshalResult(ResolveResponse{
			URL:         derived.URL,
			Breadcrumbs: derived.Breadcrumbs,
		})
	}
}

func getRecomputeHandler(resolver *hierarchy.Resolver) func(ctx context.Context, request mcp.CallToolRequest, args RecomputeRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args RecomputeRequest) (*mcp.CallToolResult, error) {
		if args.Collection == "" {
			return mcp.NewToolResultError("collection is required"), nil
		}
		if args.Node == "" {
			return mcp.NewToolResultError("node is required"), nil
		}

		derived, updated, err := resolver.RecomputeAndStore(ctx, args.Collection, args.Node)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to recompute node: %v", err)), nil
		}
		return marshalResult(RecomputeResponse{
			URL:                derived.URL,
			Breadcrumbs:        derived.Breadcrumbs,
			DescendantsUpdated: updated,
		})
	}
}

func getCheckHandler(resolver *hierarchy.Resolver) func(ctx context.Context, request mcp.CallToolRequest, args CheckRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args CheckRequest) (*mcp.CallToolResult, error) {
		var collections []string
		if args.Collection != "" {
			collections = []string{args.Collection}
		}
		findings, err := resolver.Doctor(ctx, collections)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to check store: %v", err)), nil
		}
		response := CheckResponse{Findings: make([]string, 0, len(findings))}
		for _, f := range findings {
			response.Findings = append(response.Findings, f.String())
		}
		return marshalResult(response)
	}
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
