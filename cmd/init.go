package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize missionview configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the LLM provider, model and upload limits, and writes them to .missionview.yml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
