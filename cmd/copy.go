package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/clipboard"
	"github.com/ziadkadry99/missionview/internal/render"
)

var copyCmd = &cobra.Command{
	Use:   "copy FILE",
	Short: "Copy a code block of a markdown file to the clipboard",
	Long: `Copies code block --block (zero-based) of FILE to the system clipboard. When
no clipboard is available the block is printed instead. Use --list to see the
blocks and their indexes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		res, err := render.New().Render(doc)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", args[0], err)
		}

		if list, _ := cmd.Flags().GetBool("list"); list {
			printCodeBlocks(os.Stdout, res.CodeBlocks)
			return nil
		}

		n, _ := cmd.Flags().GetInt("block")
		if n < 0 || n >= len(res.CodeBlocks) {
			return fmt.Errorf("no code block %d (document has %d)", n, len(res.CodeBlocks))
		}
		text := res.CodeBlocks[n].Text
		if clipboard.Copy(nil, text) {
			fmt.Fprintf(os.Stderr, "Copied code block %d (%d lines).\n", n, strings.Count(text, "\n")+1)
			return nil
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	copyCmd.Flags().IntP("block", "b", 0, "index of the code block to copy")
	copyCmd.Flags().Bool("list", false, "list code blocks instead of copying")
	rootCmd.AddCommand(copyCmd)
}

func printCodeBlocks(w io.Writer, blocks []render.CodeSnippet) {
	if len(blocks) == 0 {
		fmt.Fprintln(w, "No code blocks found.")
		return
	}
	for _, b := range blocks {
		lang := b.Language
		if lang == "" {
			lang = "text"
		}
		first, _, _ := strings.Cut(b.Text, "\n")
		fmt.Fprintf(w, "%3d  %-10s %s\n", b.Index, lang, first)
	}
}
