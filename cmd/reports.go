package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/report"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage archived mission plans",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived mission plans, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withReportStore(func(ctx context.Context, store *report.Store) error {
			reports, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Println("No archived reports. Run `missionview generate` to create one.")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPROJECT\tPROFILE\tCREATED")
			for _, r := range reports {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.ProjectFile, r.ProfileFile, r.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		})
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print the markdown of an archived mission plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReportStore(func(ctx context.Context, store *report.Store) error {
			r, err := store.Get(ctx, args[0])
			if err != nil {
				return reportError(args[0], err)
			}
			fmt.Print(r.Markdown)
			return nil
		})
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an archived mission plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withReportStore(func(ctx context.Context, store *report.Store) error {
			if err := store.Delete(ctx, args[0]); err != nil {
				return reportError(args[0], err)
			}
			fmt.Printf("Deleted report %s\n", args[0])
			return nil
		})
	},
}

func init() {
	reportsListCmd.Flags().Int("limit", 20, "maximum number of reports to list")
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsDeleteCmd)
	rootCmd.AddCommand(reportsCmd)
}

func withReportStore(fn func(ctx context.Context, store *report.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(context.Background(), report.NewStore(database))
}

func reportError(id string, err error) error {
	if errors.Is(err, report.ErrNotFound) {
		return fmt.Errorf("no report with id %s (see `missionview reports list`)", id)
	}
	return err
}
