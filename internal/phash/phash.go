// Package phash computes fixed-width perceptual fingerprints for images.
//
// Three interchangeable algorithms are provided, all producing 64-bit
// fingerprints over a greyscale, orientation-corrected, resized copy of
// the source image. Fingerprints from different algorithms must never be
// compared with each other.
package phash

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
)

// Fingerprint is a 64-bit perceptual signature, packed row-major with the
// first pixel in the most significant bit.
type Fingerprint uint64

// Algorithm selects one of the perceptual hash functions.
type Algorithm int

const (
	// AverageHash compares each pixel of an 8x8 thumbnail to the mean.
	AverageHash Algorithm = iota
	// DifferenceHash compares adjacent horizontal pixels of a 9x8 thumbnail.
	DifferenceHash
	// FrequencyHash compares low-frequency DCT coefficients to their mean.
	FrequencyHash
)

const (
	// hashSize is the thumbnail edge for AverageHash and DifferenceHash.
	hashSize = 8
	// dctSize is the thumbnail edge for the FrequencyHash DCT input.
	dctSize = 32
	// dctReduced is the edge of the retained low-frequency block.
	dctReduced = 8
)

// Bits is the fingerprint width shared by all algorithms.
const Bits = hashSize * hashSize

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unrecognized names.
var ErrUnknownAlgorithm = errors.New("unknown perceptual hash algorithm")

// ParseAlgorithm maps a name like "ahash" to its Algorithm. An unknown
// name is a configuration error, reported before any work is dispatched.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "ahash":
		return AverageHash, nil
	case "dhash":
		return DifferenceHash, nil
	case "phash":
		return FrequencyHash, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func (a Algorithm) String() string {
	switch a {
	case AverageHash:
		return "ahash"
	case DifferenceHash:
		return "dhash"
	case FrequencyHash:
		return "phash"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// Supported reports whether the algorithm can run in this build.
// FrequencyHash depends on a DCT primitive; it is implemented natively
// here, so all three algorithms are always available. The query exists so
// callers can gate algorithm selection at configuration time instead of
// failing mid-run.
func (a Algorithm) Supported() bool {
	switch a {
	case AverageHash, DifferenceHash, FrequencyHash:
		return true
	}
	return false
}

// File decodes the image at path and computes its fingerprint with the
// selected algorithm. The context is checked before decoding starts.
func File(ctx context.Context, path string, alg Algorithm) (Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	img, err := decodeFile(path)
	if err != nil {
		return 0, err
	}
	return Hash(img, alg)
}

// Hash computes the fingerprint of an already-decoded image. Orientation
// correction happens at decode time; see File.
func Hash(img image.Image, alg Algorithm) (Fingerprint, error) {
	switch alg {
	case AverageHash:
		return averageHashBits(greyPixels(img, hashSize, hashSize)), nil
	case DifferenceHash:
		return differenceHashBits(greyPixels(img, hashSize+1, hashSize)), nil
	case FrequencyHash:
		return frequencyHashBits(greyPixels(img, dctSize, dctSize)), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, alg)
}

// averageHashBits emits one bit per pixel: 1 if the pixel is brighter
// than the thumbnail mean.
func averageHashBits(px [][]float64) Fingerprint {
	var sum float64
	for _, row := range px {
		for _, v := range row {
			sum += v
		}
	}
	mean := sum / float64(len(px)*len(px[0]))

	var hash Fingerprint
	bit := Bits - 1
	for _, row := range px {
		for _, v := range row {
			if v > mean {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// differenceHashBits emits one bit per adjacent horizontal pixel pair:
// 1 if the left pixel is brighter than the right one.
func differenceHashBits(px [][]float64) Fingerprint {
	var hash Fingerprint
	bit := Bits - 1
	for _, row := range px {
		for x := 0; x+1 < len(row); x++ {
			if row[x] > row[x+1] {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// frequencyHashBits applies an orthonormal DCT-II along each axis, keeps
// the top-left low-frequency block and emits one bit per coefficient:
// 1 if the coefficient is above the block mean.
func frequencyHashBits(px [][]float64) Fingerprint {
	full := dct2d(px)

	var sum float64
	for y := range dctReduced {
		for x := range dctReduced {
			sum += full[y][x]
		}
	}
	mean := sum / float64(dctReduced*dctReduced)

	var hash Fingerprint
	bit := Bits - 1
	for y := range dctReduced {
		for x := range dctReduced {
			if full[y][x] > mean {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// dct1d computes the orthonormalized type-II DCT of one sample vector.
func dct1d(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	for k := range n {
		var sum float64
		for i := range n {
			sum += in[i] * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		out[k] = scale * sum
	}
	return out
}

// dct2d applies dct1d separately along columns and then rows.
func dct2d(px [][]float64) [][]float64 {
	n := len(px)

	// Transform each column.
	cols := make([][]float64, n)
	for y := range n {
		cols[y] = make([]float64, n)
	}
	col := make([]float64, n)
	for x := range n {
		for y := range n {
			col[y] = px[y][x]
		}
		t := dct1d(col)
		for y := range n {
			cols[y][x] = t[y]
		}
	}

	// Transform each row.
	out := make([][]float64, n)
	for y := range n {
		out[y] = dct1d(cols[y])
	}
	return out
}
