package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/missionview/internal/checklist"
	"github.com/ziadkadry99/missionview/internal/outline"
	"github.com/ziadkadry99/missionview/internal/report"
)

// handleExtractOutline returns the outline of a document as JSON.
func (s *Server) handleExtractOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, err := request.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: markdown"), nil
	}
	o := outline.Extract(md)
	if len(o) == 0 {
		return mcp.NewToolResultText("No level 1 or level 2 headings found."), nil
	}
	return jsonResult(o)
}

func (s *Server) handleSlugify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	return mcp.NewToolResultText(outline.Slug(text)), nil
}

func (s *Server) handleListChecklist(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, err := request.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: markdown"), nil
	}
	items := checklist.Scan(md)
	if len(items) == 0 {
		return mcp.NewToolResultText("No checklist items found."), nil
	}
	return mcp.NewToolResultText(formatChecklist(items)), nil
}

// handleToggleChecklistItem returns the document with one item flipped.
func (s *Server) handleToggleChecklistItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, err := request.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: markdown"), nil
	}
	index, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: index"), nil
	}
	return mcp.NewToolResultText(checklist.Toggle(md, index)), nil
}

func (s *Server) handleRenderDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, err := request.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: markdown"), nil
	}
	res, err := s.renderer.Render(md)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(res.HTML), nil
}

func (s *Server) handleListReports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		limit = 20
	}
	list, err := s.reports.List(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing reports failed: %v", err)), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("No reports archived yet. Run `missionview generate` to create one."), nil
	}
	return jsonResult(list)
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	rep, err := s.reports.Get(ctx, id)
	if errors.Is(err, report.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("No report with id %q.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read report: %v", err)), nil
	}
	return mcp.NewToolResultText(rep.Markdown), nil
}

// formatChecklist lists items one per line for agent consumption.
func formatChecklist(items []checklist.Item) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d item(s):\n", len(items)))
	for _, it := range items {
		mark := " "
		if it.Checked {
			mark = "x"
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s (line %d)\n", it.Index, mark, it.Text, it.Line+1))
	}
	return sb.String()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
