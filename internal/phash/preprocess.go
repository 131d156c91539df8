package phash

import (
	"image"
	"os"

	"github.com/disintegration/imaging"

	// Extra decoders beyond imaging's built-in jpeg/png/gif/tiff/bmp.
	_ "golang.org/x/image/webp"
)

// decodeFile opens and decodes an image, applying EXIF orientation
// correction so rotated shots of the same scene hash identically.
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return imaging.Decode(f, imaging.AutoOrientation(true))
}

// greyPixels converts an image to greyscale and resizes it to w x h with
// Lanczos resampling, returning intensities as rows of float64 in 0..255.
func greyPixels(img image.Image, w, h int) [][]float64 {
	small := imaging.Resize(imaging.Grayscale(img), w, h, imaging.Lanczos)

	px := make([][]float64, h)
	for y := range h {
		px[y] = make([]float64, w)
		for x := range w {
			// Grayscale output has equal channels; any one is the luma.
			px[y][x] = float64(small.NRGBAAt(x, y).R)
		}
	}
	return px
}
