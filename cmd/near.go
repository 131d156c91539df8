package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jkulhanek/dupescan/internal/config"
	"github.com/jkulhanek/dupescan/internal/dupe"
	"github.com/jkulhanek/dupescan/internal/inventory"
	"github.com/jkulhanek/dupescan/internal/phash"
)

var nearCmd = &cobra.Command{
	Use:   "near [dir]",
	Short: "Find visually similar images",
	Long: `Find groups of visually similar images under a directory using a
perceptual hash. Two images belong together when their fingerprints
differ by at most the threshold number of bits.

Algorithms:
  ahash  average hash, 8x8 mean comparison (fast, default)
  dhash  difference hash, adjacent pixel gradients
  phash  frequency hash, DCT low-frequency comparison (most robust)

Examples:
  # Find near-duplicates with the default algorithm
  dupescan near ~/Pictures

  # Stricter matching with the frequency hash
  dupescan near --algorithm phash --threshold 2 ~/Pictures

  # Large collections: approximate index for candidate lookup
  dupescan near --index ~/Pictures`,
	Args: cobra.ExactArgs(1),
	RunE: runNear,
}

func init() {
	rootCmd.AddCommand(nearCmd)

	nearCmd.Flags().String("algorithm", "", "Perceptual hash algorithm: ahash, dhash or phash (default from config)")
	nearCmd.Flags().Int("threshold", -1, "Maximum bit distance for a match, 0..64 (-1 = config default)")
	nearCmd.Flags().Int("workers", 0, "Number of parallel hash workers (0 = config default)")
	nearCmd.Flags().Bool("index", false, "Use an approximate Hamming index for candidate lookup")
	nearCmd.Flags().Bool("json", false, "Output as JSON")
	nearCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

func runNear(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	noProgress := mustGetBool(cmd, "no-progress")

	cfg := config.Load()

	algName := mustGetString(cmd, "algorithm")
	if algName == "" {
		algName = cfg.Algorithm
	}
	alg, err := phash.ParseAlgorithm(algName)
	if err != nil {
		return err
	}

	threshold := mustGetInt(cmd, "threshold")
	if threshold < 0 {
		threshold = cfg.Threshold
	}

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
			return outputJSON([][]string{})
		}
		fmt.Println("No images found.")
		return nil
	}

	description := fmt.Sprintf("%s (threshold %d)", algorithmTitle(alg), threshold)
	sink := newRunSink(len(paths), description, jsonOutput || noProgress)

	opts := dupe.NearOptions{
		Algorithm: alg,
		Threshold: threshold,
		Workers:   workers,
		UseIndex:  mustGetBool(cmd, "index"),
	}
	groups, err := dupe.NearGroups(ctx, paths, opts, sink)
	if err != nil {
		return err
	}

	if jsonOutput {
		if groups == nil {
			groups = [][]string{}
		}
		return outputJSON(groups)
	}

	printGroups(groups)
	if ctx.Err() != nil {
		fmt.Println("Run was cancelled; results may be partial.")
	}
	return nil
}
