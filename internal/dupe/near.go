package dupe

import (
	"context"
	"fmt"

	"github.com/jkulhanek/dupescan/internal/dispatch"
	"github.com/jkulhanek/dupescan/internal/phash"
	"github.com/jkulhanek/dupescan/internal/progress"
)

// NearOptions configures a near-duplicate run. Invalid options are
// configuration errors reported before any work is dispatched.
type NearOptions struct {
	Algorithm phash.Algorithm
	// Threshold is the maximum bit distance for two images to be
	// considered near-duplicates, 0..phash.Bits.
	Threshold int
	Workers   int
	// UseIndex enables the approximate Hamming index for candidate
	// lookup on large sets. The naive all-pairs scan is the default.
	UseIndex bool
}

// NearGroups hashes every path with the selected perceptual algorithm
// and clusters the results by bit distance, returning only clusters with
// two or more members.
//
// Clustering is single-link against each cluster's anchor: entries are
// processed in collected order, each not-yet-used entry starts a new
// cluster, and subsequent unused entries join it when their distance to
// the anchor is within the threshold. Membership is decided only against
// the anchor, not transitively against every member, trading some
// under-merging of drifting chains for O(n^2) simplicity.
func NearGroups(ctx context.Context, paths []string, opts NearOptions, sink progress.Sink) ([][]string, error) {
	if !opts.Algorithm.Supported() {
		return nil, fmt.Errorf("%w: %v", phash.ErrUnknownAlgorithm, opts.Algorithm)
	}
	if opts.Threshold < 0 || opts.Threshold > phash.Bits {
		return nil, fmt.Errorf("threshold %d out of range 0..%d", opts.Threshold, phash.Bits)
	}
	if sink == nil {
		sink = progress.NopSink{}
	}

	fn := func(ctx context.Context, p string) (phash.Fingerprint, error) {
		return phash.File(ctx, p, opts.Algorithm)
	}
	items, summary := dispatch.Run(ctx, paths, opts.Workers, opts.Algorithm.String(), fn, sink)

	var index *hammingIndex
	if opts.UseIndex && !summary.Cancelled {
		index = buildHammingIndex(items)
	}
	groups := cluster(ctx, items, opts.Threshold, index)

	if summary.Cancelled || ctx.Err() != nil {
		sink.Cancelled()
		return groups, nil
	}

	found := 0
	for _, g := range groups {
		found += len(g)
	}
	sink.Done(found)
	return groups, nil
}

// cluster runs the anchor-linkage pass over completed hash results. It
// is strictly single-threaded; the used markers need no locking because
// hashing has settled before grouping starts. Cancellation is checked
// once per anchor, bounding latency to one anchor's inner scan.
func cluster(ctx context.Context, entries []dispatch.Item[phash.Fingerprint], threshold int, index *hammingIndex) [][]string {
	used := make([]bool, len(entries))
	var groups [][]string

	for i := range entries {
		if ctx.Err() != nil {
			break
		}
		if used[i] {
			continue
		}

		cur := []string{entries[i].Path}
		used[i] = true

		for _, j := range candidatesAfter(entries, index, i) {
			if used[j] {
				continue
			}
			if phash.Distance(entries[i].Value, entries[j].Value) <= threshold {
				cur = append(cur, entries[j].Path)
				used[j] = true
			}
		}

		if len(cur) > 1 {
			groups = append(groups, cur)
		}
	}
	return groups
}

// candidatesAfter yields the entry indexes to compare against anchor i,
// in ascending order. Without an index that is every subsequent entry;
// with one it is the index's nearest neighbors, filtered to subsequent
// entries so the anchor-linkage semantics are unchanged.
func candidatesAfter(entries []dispatch.Item[phash.Fingerprint], index *hammingIndex, i int) []int {
	if index == nil {
		out := make([]int, 0, len(entries)-i-1)
		for j := i + 1; j < len(entries); j++ {
			out = append(out, j)
		}
		return out
	}
	return index.neighborsAfter(entries[i].Value, i)
}
