package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"kontxt/pkg/kontxt"
)

var (
	flagPhase     string
	flagFormat    string
	flagMaxTokens int
)

// renderCmd renders a loadout into one of the supported wire formats.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the context in a wire format",
	Long: `Renders the loadout's sections through the full pipeline: phase
selection, evaluation, budget enforcement, and formatting.

Examples:
  kontxt render --loadout agent.yaml
  kontxt render --loadout agent.yaml --phase intake --format openai
  kontxt render --loadout agent.yaml --format gemini --max-tokens 4096`,
	RunE: runRender,
}

// tokensCmd prints the budget-free token estimate.
var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Estimate the token count without trimming",
	RunE:  runTokens,
}

func init() {
	renderCmd.Flags().StringVar(&flagPhase, "phase", "", "phase to render")
	renderCmd.Flags().StringVar(&flagFormat, "format", "text", "output format: text, openai, anthropic, gemini")
	renderCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "override the budget ceiling")
	tokensCmd.Flags().StringVar(&flagPhase, "phase", "", "phase to count")
}

func buildContext() (*kontxt.Context, error) {
	if flagLoadout == "" {
		return nil, fmt.Errorf("--loadout is required")
	}
	loadout, err := kontxt.LoadLoadout(flagLoadout)
	if err != nil {
		return nil, err
	}
	ctx := kontxt.NewContext()
	loadout.Apply(ctx)
	return ctx, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, err := buildContext()
	if err != nil {
		return err
	}

	payload, err := ctx.Render(kontxt.RenderOptions{
		Phase:     flagPhase,
		Format:    kontxt.Format(flagFormat),
		MaxTokens: flagMaxTokens,
	})
	if err != nil {
		return err
	}

	if text, ok := payload.(string); ok {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func runTokens(cmd *cobra.Command, args []string) error {
	ctx, err := buildContext()
	if err != nil {
		return err
	}

	var count int
	if flagPhase != "" {
		count, err = ctx.TokenCount(flagPhase)
	} else {
		count, err = ctx.TokenCount()
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), count)
	return nil
}
