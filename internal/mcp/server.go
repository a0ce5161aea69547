package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/missionview/internal/render"
	"github.com/ziadkadry99/missionview/internal/report"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the document tools to agents.
type Server struct {
	renderer *render.Renderer
	reports  *report.Store
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. A nil renderer gets the default one.
func NewServer(renderer *render.Renderer) *Server {
	if renderer == nil {
		renderer = render.New()
	}
	s := &Server{renderer: renderer}

	s.mcp = server.NewMCPServer(
		"missionview",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(extractOutlineTool, s.handleExtractOutline)
	s.mcp.AddTool(slugifyTool, s.handleSlugify)
	s.mcp.AddTool(listChecklistTool, s.handleListChecklist)
	s.mcp.AddTool(toggleChecklistItemTool, s.handleToggleChecklistItem)
	s.mcp.AddTool(renderDocumentTool, s.handleRenderDocument)
}

// SetReportStore enables the archive tools.
func (s *Server) SetReportStore(store *report.Store) {
	s.reports = store
	s.mcp.AddTool(listReportsTool, s.handleListReports)
	s.mcp.AddTool(getReportTool, s.handleGetReport)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
