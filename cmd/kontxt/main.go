// Command kontxt renders prompt-context loadouts from the command line. It
// is a thin caller of pkg/kontxt; all pipeline logic lives in the library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kontxt/internal/logging"
)

var (
	flagDebug   bool
	flagLoadout string
)

var rootCmd = &cobra.Command{
	Use:   "kontxt",
	Short: "Assemble and render LLM prompt contexts",
	Long: `kontxt assembles named sections of prompt content into a single
payload, enforces a token budget, and renders provider wire formats.

Sections, phases, and budgets are declared in a YAML loadout file:

  kontxt render --loadout agent.yaml --phase intake --format gemini
  kontxt tokens --loadout agent.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Enable(flagDebug)
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLoadout, "loadout", "", "path to a YAML loadout file")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(tokensCmd)

	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
