package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/checklist"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle FILE INDEX",
	Short: "Flip one checklist item of a markdown file",
	Long: `Flips the checklist item at INDEX (zero-based, counting every "- [ ]" and
"- [x]" line from the top) and prints the result, or rewrites FILE with --write.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("checklist index must be an integer, got %q", args[1])
		}
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		write, _ := cmd.Flags().GetBool("write")
		if write && args[0] == "-" {
			return fmt.Errorf("--write needs a file, not stdin")
		}

		next := checklist.Toggle(doc, index)
		if next == doc {
			fmt.Fprintf(os.Stderr, "No checklist item %d; document unchanged.\n", index)
		}
		if write {
			if next == doc {
				return nil
			}
			return os.WriteFile(args[0], []byte(next), 0o644)
		}
		fmt.Print(next)
		return nil
	},
}

var checklistCmd = &cobra.Command{
	Use:   "checklist FILE",
	Short: "List the checklist items of a markdown file with their indexes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		printChecklist(os.Stdout, checklist.Scan(doc))
		return nil
	},
}

func init() {
	toggleCmd.Flags().BoolP("write", "w", false, "rewrite FILE in place")
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(checklistCmd)
}

func printChecklist(w io.Writer, items []checklist.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No checklist items found.")
		return
	}
	for _, it := range items {
		mark := " "
		if it.Checked {
			mark = "x"
		}
		fmt.Fprintf(w, "%3d  [%s] %s\n", it.Index, mark, it.Text)
	}
}
