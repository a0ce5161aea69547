package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/generate"
	"github.com/ziadkadry99/missionview/internal/progress"
	"github.com/ziadkadry99/missionview/internal/report"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a mission plan from a project description and a candidate profile",
	Long: `Extracts text from both documents (txt, md, pdf, docx or html), asks the
configured LLM for a mission plan, writes it as markdown and archives it so
it can be opened in the viewer.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("project", "", "project description file")
	generateCmd.Flags().String("profile", "", "candidate profile file")
	generateCmd.Flags().String("resume", "", "alias for --profile")
	generateCmd.Flags().StringP("output", "o", report.DownloadName, `markdown output path ("-" for stdout)`)
	generateCmd.Flags().Bool("no-archive", false, "do not store the plan in the report archive")
	generateCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectPath, _ := cmd.Flags().GetString("project")
	profilePath, _ := cmd.Flags().GetString("profile")
	if profilePath == "" {
		profilePath, _ = cmd.Flags().GetString("resume")
	}
	if profilePath == "" {
		return generate.ErrMissingFile
	}
	output, _ := cmd.Flags().GetString("output")
	noArchive, _ := cmd.Flags().GetBool("no-archive")

	project, err := os.Open(projectPath)
	if err != nil {
		return fmt.Errorf("opening project file: %w", err)
	}
	defer project.Close()
	profile, err := os.Open(profilePath)
	if err != nil {
		return fmt.Errorf("opening profile file: %w", err)
	}
	defer profile.Close()

	gen, err := createGenerator(cfg, progress.NewReporter())
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.LLM.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	plan, err := gen.Generate(ctx,
		generate.Upload{Name: filepath.Base(projectPath), Body: project},
		generate.Upload{Name: filepath.Base(profilePath), Body: profile},
	)
	if err != nil {
		return err
	}

	if output == "-" {
		fmt.Println(plan.Markdown)
	} else if err := os.WriteFile(output, []byte(plan.Markdown+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	var id string
	if !noArchive {
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		rep := &report.Report{
			Title:       plan.Title,
			ProjectFile: plan.ProjectFile,
			ProfileFile: plan.ProfileFile,
			Markdown:    plan.Markdown,
			Provider:    plan.Provider,
			Model:       plan.Model,
		}
		if err := report.NewStore(database).Create(ctx, rep); err != nil {
			return err
		}
		id = rep.ID
	}

	fmt.Fprintf(os.Stderr, "\nMission plan %q\n", plan.Title)
	if output != "-" {
		fmt.Fprintf(os.Stderr, "  Written to: %s\n", output)
	}
	if id != "" {
		fmt.Fprintf(os.Stderr, "  Report ID:  %s (view at /reports/%s)\n", id, id)
	}
	fmt.Fprintf(os.Stderr, "  Model:      %s via %s\n", plan.Model, plan.Provider)
	fmt.Fprintf(os.Stderr, "  Tokens:     %d in / %d out (~$%.4f)\n", plan.InputTokens, plan.OutputTokens, plan.CostUSD)
	fmt.Fprintf(os.Stderr, "  Took:       %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
