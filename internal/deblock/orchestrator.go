package deblock

import (
	"image"

	"github.com/cocosip/jpeg2png/internal/jpegstream"
)

// PlaneObjective reports the final solver objective for one plane, keyed by
// its human-readable channel name, in the order they were solved.
type PlaneObjective struct {
	Name  string
	Value float64
}

// Run decodes a baseline JPEG, deblocks each plane, upsamples chroma to
// the luma grid and converts to RGB, and returns the result alongside the
// per-plane solver objectives.
func Run(jpegData []byte) (image.Image, []PlaneObjective, error) {
	parsed, err := jpegstream.Decode(jpegData)
	if err != nil {
		return nil, nil, err
	}

	img := &Image{H: parsed.Height, W: parsed.Width}
	names := [3]string{"Y", "Cb", "Cr"}
	objectives := make([]PlaneObjective, 3)

	for i := 0; i < 3; i++ {
		src := parsed.Planes[i]
		plane := &Plane{H: src.H, W: src.W, Coef: src.Coef, Quant: src.Quant}
		decodeCoefficients(plane)
		objectives[i] = PlaneObjective{Name: names[i], Value: solvePlane(plane)}
		img.Planes[i] = plane
	}

	// JPEG stores luma centered on zero; shift back to [0, 255] before
	// color conversion.
	luma := img.Planes[0]
	for i := range luma.Spatial {
		luma.Spatial[i] += 128
	}

	for i := 1; i <= 2; i++ {
		upsamplePlane(img.Planes[i], img.H, img.W)
	}

	return synthesize(img), objectives, nil
}
