package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jkulhanek/dupescan/internal/cache"
	"github.com/jkulhanek/dupescan/internal/phash"
	"github.com/jkulhanek/dupescan/internal/progress"
)

// signalContext returns a context cancelled by Ctrl-C or SIGTERM, wiring
// terminal interrupts to the engine's cooperative cancellation.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newRunSink builds the progress sink for a run; quiet runs (JSON output
// or --no-progress) get a no-op sink.
func newRunSink(total int, description string, quiet bool) progress.Sink {
	if quiet {
		return progress.NopSink{}
	}
	return progress.NewBarSink(total, description)
}

// openCache opens the fingerprint cache, or returns nil when no path is
// configured or the cache cannot be opened. A broken cache only costs
// recomputation, never the run.
func openCache(path string) *cache.Cache {
	if path == "" {
		return nil
	}
	c, err := cache.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: fingerprint cache unavailable: %v\n", err)
		return nil
	}
	return c
}

// algorithmTitle returns a display name like "Average Hash".
func algorithmTitle(alg phash.Algorithm) string {
	var name string
	switch alg {
	case phash.AverageHash:
		name = "average hash"
	case phash.DifferenceHash:
		name = "difference hash"
	case phash.FrequencyHash:
		name = "frequency hash"
	default:
		name = alg.String()
	}
	return cases.Title(language.English).String(name)
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
