package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/missionview/internal/mcp"
	"github.com/ziadkadry99/missionview/internal/report"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the document
tools (outline, slugify, checklist, render) and the report archive to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		renderer, err := createRenderer(cfg)
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version
		srv := mcpserver.NewServer(renderer)

		database, err := openDatabase(cfg)
		if err != nil {
			// The document tools work without the archive.
			fmt.Fprintf(os.Stderr, "Warning: %v\nReport tools are disabled.\n", err)
		} else {
			defer database.Close()
			srv.SetReportStore(report.NewStore(database))
		}

		fmt.Fprintf(os.Stderr, "missionview MCP server started on stdio\n")
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
