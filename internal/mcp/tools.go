package mcp

import "github.com/mark3labs/mcp-go/mcp"

var markdownArg = mcp.WithString("markdown",
	mcp.Required(),
	mcp.Description("Full markdown text of the document"),
)

// extractOutlineTool defines the extract_outline MCP tool.
var extractOutlineTool = mcp.NewTool("extract_outline",
	mcp.WithDescription("List the level 1 and level 2 headings of a markdown document with their anchor ids, in document order."),
	markdownArg,
)

// slugifyTool defines the slugify MCP tool.
var slugifyTool = mcp.NewTool("slugify",
	mcp.WithDescription("Convert heading text into the anchor id used for it in rendered documents."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Heading text"),
	),
)

// listChecklistTool defines the list_checklist MCP tool.
var listChecklistTool = mcp.NewTool("list_checklist",
	mcp.WithDescription("List the checklist items (lines like '- [ ] task') of a markdown document with their positional index and state."),
	markdownArg,
)

// toggleChecklistItemTool defines the toggle_checklist_item MCP tool.
var toggleChecklistItemTool = mcp.NewTool("toggle_checklist_item",
	mcp.WithDescription("Flip one checklist item between '[ ]' and '[x]' and return the full updated markdown. An index that names no item leaves the document unchanged."),
	markdownArg,
	mcp.WithNumber("index",
		mcp.Required(),
		mcp.Description("Zero-based position of the item among all checklist lines"),
	),
)

// renderDocumentTool defines the render_document MCP tool.
var renderDocumentTool = mcp.NewTool("render_document",
	mcp.WithDescription("Render markdown to the interactive HTML used by the viewer, with heading anchors, checklist toggles and copy buttons."),
	markdownArg,
)

// listReportsTool defines the list_reports MCP tool.
var listReportsTool = mcp.NewTool("list_reports",
	mcp.WithDescription("List archived mission plans, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of reports to return (default 20)"),
	),
)

// getReportTool defines the get_report MCP tool.
var getReportTool = mcp.NewTool("get_report",
	mcp.WithDescription("Get the markdown of an archived mission plan."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Report id from list_reports"),
	),
)
