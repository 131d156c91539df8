package phash

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        Fingerprint
		b        Fingerprint
		expected int
	}{
		{"identical", 0x0, 0x0, 0},
		{"completely different", 0xFFFFFFFFFFFFFFFF, 0x0, 64},
		{"one bit different", 0x1, 0x0, 1},
		{"four bits different", 0xF, 0x0, 4},
		{"half different", 0xFFFFFFFF00000000, 0x0, 32},
		{"alternating", 0xAAAAAAAAAAAAAAAA, 0x5555555555555555, 64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Distance(tc.a, tc.b); got != tc.expected {
				t.Errorf("Distance(%x, %x) = %d; want %d", tc.a, tc.b, got, tc.expected)
			}
			// Symmetry holds for every pair.
			if got := Distance(tc.b, tc.a); got != tc.expected {
				t.Errorf("Distance(%x, %x) = %d; want %d", tc.b, tc.a, got, tc.expected)
			}
		})
	}
}

func TestDistanceBounds(t *testing.T) {
	hashes := []Fingerprint{0, 1, 0xDEADBEEFCAFEF00D, 0xFFFFFFFFFFFFFFFF}
	for _, h := range hashes {
		if d := Distance(h, h); d != 0 {
			t.Errorf("Distance(%x, %x) = %d; want 0", h, h, d)
		}
		for _, g := range hashes {
			d := Distance(h, g)
			if d < 0 || d > Bits {
				t.Errorf("Distance(%x, %x) = %d; want 0..%d", h, g, d, Bits)
			}
		}
	}
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		name      string
		a         Fingerprint
		b         Fingerprint
		threshold int
		expected  bool
	}{
		{"identical with threshold 0", 0x0, 0x0, 0, true},
		{"5 bits different, threshold 5", 0x0, 0x1F, 5, true},
		{"6 bits different, threshold 5", 0x0, 0x3F, 5, false},
		{"completely different", 0xFFFFFFFFFFFFFFFF, 0x0, 10, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Similar(tc.a, tc.b, tc.threshold); got != tc.expected {
				t.Errorf("Similar(%x, %x, %d) = %v; want %v",
					tc.a, tc.b, tc.threshold, got, tc.expected)
			}
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		want    Algorithm
		wantErr bool
	}{
		{"ahash", AverageHash, false},
		{"dhash", DifferenceHash, false},
		{"phash", FrequencyHash, false},
		{"md5", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tc.name)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAlgorithm(%q) succeeded; want error", tc.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q) failed: %v", tc.name, err)
			}
			if got != tc.want {
				t.Errorf("ParseAlgorithm(%q) = %v; want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	for _, alg := range []Algorithm{AverageHash, DifferenceHash, FrequencyHash} {
		if !alg.Supported() {
			t.Errorf("%v should be supported", alg)
		}
	}
	if Algorithm(42).Supported() {
		t.Error("unknown algorithm should not be supported")
	}
}

func TestAverageHashHalves(t *testing.T) {
	// Left half black, right half white: each row should emit 00001111.
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := range 64 {
		for y := range 64 {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 32 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}

	hash, err := Hash(img, AverageHash)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if want := Fingerprint(0x0F0F0F0F0F0F0F0F); hash != want {
		t.Errorf("AverageHash = %016x; want %016x", uint64(hash), uint64(want))
	}
}

func TestDifferenceHashGradientDirection(t *testing.T) {
	// Brightness strictly decreasing to the right: every left pixel is
	// brighter than its right neighbor, so all 64 bits are set. The
	// opposite gradient sets none.
	darkening := horizontalGradient(90, 80, true)
	brightening := horizontalGradient(90, 80, false)

	h1, err := Hash(darkening, DifferenceHash)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h1 != 0xFFFFFFFFFFFFFFFF {
		t.Errorf("darkening gradient dhash = %016x; want all ones", uint64(h1))
	}

	h2, err := Hash(brightening, DifferenceHash)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if h2 != 0 {
		t.Errorf("brightening gradient dhash = %016x; want zero", uint64(h2))
	}
}

func TestFrequencyHashConstantImage(t *testing.T) {
	// A constant image has a single non-zero DCT coefficient (the DC
	// term), which is the only one above the block mean.
	img := createTestImage(64, 64, color.White)

	hash, err := Hash(img, FrequencyHash)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if want := Fingerprint(1) << 63; hash != want {
		t.Errorf("FrequencyHash = %016x; want %016x", uint64(hash), uint64(want))
	}
}

func TestHashConsistency(t *testing.T) {
	img := createGradientImage(100, 100)
	for _, alg := range []Algorithm{AverageHash, DifferenceHash, FrequencyHash} {
		t.Run(alg.String(), func(t *testing.T) {
			h1, err := Hash(img, alg)
			if err != nil {
				t.Fatalf("first Hash failed: %v", err)
			}
			h2, err := Hash(img, alg)
			if err != nil {
				t.Fatalf("second Hash failed: %v", err)
			}
			if h1 != h2 {
				t.Errorf("hash not deterministic: %016x vs %016x", uint64(h1), uint64(h2))
			}
		})
	}
}

func TestDCT1DConstant(t *testing.T) {
	n := 32
	in := make([]float64, n)
	for i := range in {
		in[i] = 255
	}

	out := dct1d(in)
	if want := 255 * math.Sqrt(float64(n)); math.Abs(out[0]-want) > 1e-6 {
		t.Errorf("DC coefficient = %f; want %f", out[0], want)
	}
	for k := 1; k < n; k++ {
		if math.Abs(out[k]) > 1e-6 {
			t.Errorf("coefficient %d = %f; want 0", k, out[k])
		}
	}
}

func TestFileIdenticalCopies(t *testing.T) {
	dir := t.TempDir()
	data := encodeJPEG(t, createGradientImage(100, 100))

	a := filepath.Join(dir, "a.jpg")
	b := filepath.Join(dir, "b.jpg")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx := context.Background()
	ha, err := File(ctx, a, AverageHash)
	if err != nil {
		t.Fatalf("File(a) failed: %v", err)
	}
	hb, err := File(ctx, b, AverageHash)
	if err != nil {
		t.Fatalf("File(b) failed: %v", err)
	}
	if ha != hb {
		t.Errorf("identical files hashed differently: %016x vs %016x", uint64(ha), uint64(hb))
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := File(ctx, garbage, AverageHash); err == nil {
		t.Error("expected decode error for garbage file")
	}
	if _, err := File(ctx, filepath.Join(dir, "missing.jpg"), AverageHash); err == nil {
		t.Error("expected error for missing file")
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := File(cancelled, garbage, AverageHash); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// Helper functions

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createGradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			gray := uint8((x + y) * 255 / (width + height))
			img.Set(x, y, color.RGBA{gray, gray, gray, 255})
		}
	}
	return img
}

func horizontalGradient(width, height int, darkening bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		gray := uint8(x * 255 / width)
		if darkening {
			gray = 255 - gray
		}
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{gray, gray, gray, 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encoding JPEG: %v", err)
	}
	return buf.Bytes()
}
