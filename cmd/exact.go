package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jkulhanek/dupescan/internal/config"
	"github.com/jkulhanek/dupescan/internal/dupe"
	"github.com/jkulhanek/dupescan/internal/inventory"
)

var exactCmd = &cobra.Command{
	Use:   "exact [dir]",
	Short: "Find byte-identical duplicate images",
	Long: `Find groups of byte-identical images under a directory by hashing
file contents. Only groups with two or more members are reported.

Examples:
  # Find exact duplicates
  dupescan exact ~/Pictures

  # Use a single worker and machine-readable output
  dupescan exact --workers 1 --json ~/Pictures`,
	Args: cobra.ExactArgs(1),
	RunE: runExact,
}

func init() {
	rootCmd.AddCommand(exactCmd)

	exactCmd.Flags().Int("workers", 0, "Number of parallel hash workers (0 = config default)")
	exactCmd.Flags().Bool("json", false, "Output as JSON")
	exactCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

func runExact(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	noProgress := mustGetBool(cmd, "no-progress")

	cfg := config.Load()
	workers := mustGetInt(cmd, "workers")
	if workers == 0 {
		workers = cfg.Workers
	}

	ctx, stop := signalContext()
	defer stop()

	paths, err := inventory.Walk(ctx, args[0], cfg.Extensions, nil)
	if err != nil {
		return fmt.Errorf("collecting images under %s: %w", args[0], err)
	}
	if len(paths) == 0 {
		if jsonOutput {
			return outputJSON(map[string][]string{})
		}
		fmt.Println("No images found.")
		return nil
	}

	sink := newRunSink(len(paths), "Hashing contents", jsonOutput || noProgress)
	groups := dupe.ExactGroups(ctx, paths, workers, sink)

	if jsonOutput {
		return outputJSON(groups)
	}

	printGroups(groupList(groups))
	if ctx.Err() != nil {
		fmt.Println("Run was cancelled; results may be partial.")
	}
	return nil
}

// groupList flattens a digest-keyed mapping for display.
func groupList(groups map[string][]string) [][]string {
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}

func printGroups(groups [][]string) {
	if len(groups) == 0 {
		fmt.Println("No duplicates found.")
		return
	}

	files := 0
	for i, g := range groups {
		fmt.Printf("Group %d (%d files):\n", i+1, len(g))
		for _, p := range g {
			fmt.Printf("  %s\n", p)
		}
		files += len(g)
	}
	fmt.Printf("\n%d groups, %d files total\n", len(groups), files)
}
