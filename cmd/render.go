package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render a markdown file to interactive HTML",
	Long: `Renders FILE ("-" for stdin) the way the viewer does: anchored headings,
clickable checklist items and copyable code blocks. With --json the outline,
checklist and code blocks are printed alongside the HTML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		renderer, err := createRenderer(cfg)
		if err != nil {
			return err
		}
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		res, err := renderer.Render(doc)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", args[0], err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Print(res.HTML)
		return nil
	},
}

func init() {
	renderCmd.Flags().Bool("json", false, "print the full render result as JSON")
	rootCmd.AddCommand(renderCmd)
}
