package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "missionview",
	Short: "Generate and explore interactive intern mission plans",
	Long: `missionview turns a project description and a candidate profile into a
markdown mission plan, then serves it as an interactive page with a table
of contents, a scroll position indicator, copyable code blocks and clickable
checklists. The same document tools are available from the command line and
to AI agents over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(loadDotEnv)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadDotEnv reads API keys from a .env file in the working directory, if any.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) && verbose {
		fmt.Fprintf(os.Stderr, "Warning: reading .env: %v\n", err)
	}
}
