// Package dupe groups candidate files into duplicate sets: exact groups
// keyed by content digest and near-duplicate groups clustered by
// perceptual hash bit distance.
package dupe

import (
	"context"

	"github.com/jkulhanek/dupescan/internal/contenthash"
	"github.com/jkulhanek/dupescan/internal/dispatch"
	"github.com/jkulhanek/dupescan/internal/progress"
)

// phaseExact names the content hashing phase in progress events.
const phaseExact = "sha1"

// ExactGroups hashes every path and partitions them by digest, keeping
// only groups with two or more members. Failed items are dropped and
// never grouped. Within a group, paths appear in hashing completion
// order; order across groups is unspecified.
//
// The sink receives exactly one terminal signal: Done with the number of
// grouped paths, or Cancelled when the context was cancelled.
func ExactGroups(ctx context.Context, paths []string, workers int, sink progress.Sink) map[string][]string {
	if sink == nil {
		sink = progress.NopSink{}
	}

	items, summary := dispatch.Run(ctx, paths, workers, phaseExact, contenthash.File, sink)

	byDigest := make(map[string][]string)
	for _, it := range items {
		if it.Value == "" {
			continue
		}
		byDigest[it.Value] = append(byDigest[it.Value], it.Path)
	}

	groups := make(map[string][]string)
	found := 0
	for digest, members := range byDigest {
		if len(members) > 1 {
			groups[digest] = members
			found += len(members)
		}
	}

	if summary.Cancelled {
		sink.Cancelled()
	} else {
		sink.Done(found)
	}
	return groups
}
