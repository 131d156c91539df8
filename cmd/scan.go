package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jkulhanek/dupescan/internal/cache"
	"github.com/jkulhanek/dupescan/internal/config"
	"github.com/jkulhanek/dupescan/internal/contenthash"
	"github.com/jkulhanek/dupescan/internal/dispatch"
	"github.com/jkulhanek/dupescan/internal/inventory"
	"github.com/jkulhanek/dupescan/internal/manifest"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Index images into the directory manifest",
	Long: `Walk a directory tree and record every image with its content digest
in a CSV manifest at the tree root. Re-running only indexes files not
already listed; digests of unchanged files come from the fingerprint
cache when one is configured.

Examples:
  # Index new images
  dupescan scan ~/Pictures

  # Rebuild the manifest from scratch, with a digest cache
  dupescan scan --replace --cache ~/.cache/dupescan.db ~/Pictures`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Int("workers", 0, "Number of parallel hash workers (0 = config default)")
	scanCmd.Flags().Bool("replace", false, "Rebuild the manifest instead of appending")
	scanCmd.Flags().String("cache", "", "Fingerprint cache path (default from config)")
	scanCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	replace := mustGetBool(cmd, "replace")
	noProgress := mustGetBool(cmd, "no-progress")

	cfg := config.Load()
	workers := mustGetInt(cmd, "workers")
	if workers == 0 {
		workers = cfg.Workers
	}
	cachePath := mustGetString(cmd, "cache")
	if cachePath == "" {
		cachePath = cfg.CachePath
	}

	ctx, stop := signalContext()
	defer stop()

	known := map[string]bool{}
	if !replace {
		entries, err := manifest.Read(root)
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		for _, e := range entries {
			known[e.Path] = true
		}
	}

	paths, err := inventory.Walk(ctx, root, cfg.Extensions, known)
	if err != nil {
		return fmt.Errorf("collecting images under %s: %w", root, err)
	}
	if len(paths) == 0 {
		fmt.Printf("Manifest up to date (%d files indexed).\n", len(known))
		return nil
	}

	c := openCache(cachePath)
	if c != nil {
		defer c.Close()
	}

	w, err := manifest.OpenWriter(root, replace)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer w.Close()

	sink := newRunSink(len(paths), "Indexing images", noProgress)
	items, summary := dispatch.Run(ctx, paths, workers, "sha1", cachedSHA1(c), sink)

	for _, it := range items {
		if err := w.Add(it.Path, it.Value); err != nil {
			return err
		}
	}

	if summary.Cancelled {
		sink.Cancelled()
		fmt.Println("Scan cancelled; the manifest keeps completed entries.")
		return nil
	}
	sink.Done(summary.Found)
	fmt.Printf("Indexed %d files", summary.Found)
	if n := len(summary.Failures); n > 0 {
		fmt.Printf(" (%d skipped)", n)
	}
	fmt.Println()
	return nil
}

// cachedSHA1 wraps the content hasher with the fingerprint cache. With
// no cache the file is always hashed.
func cachedSHA1(c *cache.Cache) func(context.Context, string) (string, error) {
	return func(ctx context.Context, path string) (string, error) {
		if c == nil {
			return contenthash.File(ctx, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		size, mtime := info.Size(), info.ModTime().UnixNano()

		if sum, ok := c.Get(path, "sha1", size, mtime); ok {
			return sum, nil
		}
		sum, err := contenthash.File(ctx, path)
		if err != nil {
			return "", err
		}
		_ = c.Put(path, "sha1", size, mtime, sum)
		return sum, nil
	}
}
