package phash

// Distance computes the Hamming distance between two fingerprints: the
// number of bits where they differ. Only fingerprints produced by the
// same algorithm are comparable.
func Distance(a, b Fingerprint) int {
	xor := a ^ b
	distance := 0
	for xor != 0 {
		distance++
		xor &= xor - 1 // Clear lowest set bit
	}
	return distance
}

// Similar returns true if two fingerprints are within the given bit
// distance threshold.
func Similar(a, b Fingerprint, threshold int) bool {
	return Distance(a, b) <= threshold
}
