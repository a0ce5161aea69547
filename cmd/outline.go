package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline FILE",
	Short: "Print the heading outline of a markdown file",
	Long:  `Lists the level 1 and level 2 headings of FILE ("-" for stdin) with the anchor id each one gets in the viewer.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		return printOutline(os.Stdout, outline.Extract(doc), asJSON)
	},
}

var slugCmd = &cobra.Command{
	Use:   "slug TEXT...",
	Short: "Print the anchor id for heading text",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(outline.Slug(strings.Join(args, " ")))
	},
}

func init() {
	outlineCmd.Flags().Bool("json", false, "print the outline as JSON")
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(slugCmd)
}

func printOutline(w io.Writer, o outline.Outline, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	}
	if len(o) == 0 {
		fmt.Fprintln(w, "No headings found.")
		return nil
	}
	for _, h := range o {
		indent := ""
		if h.Level == 2 {
			indent = "  "
		}
		fmt.Fprintf(w, "%s%s  #%s\n", indent, h.Text, h.ID)
	}
	return nil
}
