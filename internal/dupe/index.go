package dupe

import (
	"sort"

	"github.com/coder/hnsw"

	"github.com/jkulhanek/dupescan/internal/dispatch"
	"github.com/jkulhanek/dupescan/internal/phash"
)

const (
	// hnswMaxNeighbors is the HNSW M parameter.
	hnswMaxNeighbors = 16
	// indexSearchK bounds how many nearest neighbors are considered per
	// anchor. Anything beyond the threshold is filtered by the exact bit
	// distance afterwards, so the index only has to be roughly right.
	indexSearchK = 64
)

// hammingIndex is an approximate nearest-neighbor index over
// fingerprints. Each 64-bit fingerprint becomes a 64-dimensional 0/1
// vector, where squared Euclidean distance equals Hamming distance, so
// an HNSW graph with Euclidean distance ranks candidates by bit
// distance. Results are approximate; callers re-check candidates with
// phash.Distance.
type hammingIndex struct {
	graph *hnsw.Graph[int]
}

// buildHammingIndex indexes the completed hash results by entry index.
func buildHammingIndex(entries []dispatch.Item[phash.Fingerprint]) *hammingIndex {
	g := hnsw.NewGraph[int]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance

	for i := range entries {
		g.Add(hnsw.MakeNode(i, bitVector(entries[i].Value)))
	}
	return &hammingIndex{graph: g}
}

// neighborsAfter returns candidate entry indexes near the fingerprint,
// restricted to indexes greater than anchor and sorted ascending.
func (ix *hammingIndex) neighborsAfter(h phash.Fingerprint, anchor int) []int {
	nodes := ix.graph.Search(bitVector(h), indexSearchK)

	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if n.Key > anchor {
			out = append(out, n.Key)
		}
	}
	sort.Ints(out)
	return out
}

// bitVector expands a fingerprint into one float32 per bit, MSB first.
func bitVector(h phash.Fingerprint) []float32 {
	v := make([]float32, phash.Bits)
	for i := range phash.Bits {
		if h&(1<<(phash.Bits-1-i)) != 0 {
			v[i] = 1
		}
	}
	return v
}
