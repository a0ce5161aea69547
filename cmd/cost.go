package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/missionview/internal/generate"
	"github.com/ziadkadry99/missionview/internal/llm"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate the API cost of generating a mission plan",
	Long:  `Extracts both documents and estimates prompt tokens and cost for each priced model without calling any API.`,
	RunE:  runCost,
}

func init() {
	costCmd.Flags().String("project", "", "project description file")
	costCmd.Flags().String("profile", "", "candidate profile file")
	costCmd.Flags().Int("output-tokens", 4000, "expected length of the plan in tokens")
	costCmd.MarkFlagRequired("project")
	costCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	projectPath, _ := cmd.Flags().GetString("project")
	profilePath, _ := cmd.Flags().GetString("profile")
	outputTokens, _ := cmd.Flags().GetInt("output-tokens")

	policy := uploadPolicy(cfg)
	texts := make([]string, 2)
	for i, path := range []string{projectPath, profilePath} {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		texts[i], err = policy.Text(filepath.Base(path), f)
		f.Close()
		if err != nil {
			return err
		}
	}

	system, err := generate.LoadPrompt(cfg.LLM.PromptFile)
	if err != nil {
		return err
	}
	inputTokens := 0
	for _, m := range generate.Messages(system, texts[0], texts[1]) {
		inputTokens += llm.EstimateTokens(m.Content)
	}

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  Project text:        %d chars\n", len(texts[0]))
	fmt.Printf("  Profile text:        %d chars\n", len(texts[1]))
	fmt.Printf("  Prompt tokens:       ~%d\n", inputTokens)
	fmt.Printf("  Output tokens:       ~%d\n", outputTokens)
	fmt.Println()

	fmt.Println("  Model Comparison:")
	fmt.Println("  ────────────────────────────────────────")
	for _, model := range llm.PricedModels() {
		marker := " "
		if model == cfg.LLM.Model {
			marker = "*"
		}
		fmt.Printf("  %s %-22s ~$%.4f\n", marker, model, llm.EstimateCost(model, inputTokens, outputTokens))
	}
	fmt.Println()
	fmt.Println("  * = current configuration")
	fmt.Printf("  Provider: %s\n", cfg.LLM.Provider)
	fmt.Printf("  Model:    %s\n", cfg.LLM.Model)
	return nil
}
