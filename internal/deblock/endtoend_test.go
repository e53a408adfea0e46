package deblock

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cocosip/jpeg2png/internal/jpegstream"
)

// loadFixture reads a committed JPEG fixture (generated by
// testdata/gen_fixtures.py) used to exercise the literal end-to-end
// scenarios this package's solver is expected to satisfy.
func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return data
}

// A flat plane has zero quantized AC content at any quality, so the
// feasible set pins every pixel to within rounding of the source gray
// level and the solver should leave it there.
func TestSolidGrayFixtureReconstructsFlatColor(t *testing.T) {
	data := loadFixture(t, "s1_solid_gray.jpg")

	out, _, err := Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	img, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA output, got %T", out)
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			for _, ch := range [3]uint8{c.R, c.G, c.B} {
				d := int(ch) - 150
				if d < -1 || d > 1 {
					t.Fatalf("pixel (%d,%d) = %v, want within 1 of (150,150,150)", x, y, c)
				}
			}
		}
	}
}

// A hard step edge cutting through the middle of a block at low quality:
// coarse quantization leaves heavy ringing around the edge and visible
// discontinuities at the block seams. Solving should cut the objective by
// a fifth or more and flatten the seam between columns 7 and 8.
func TestStripeFixtureBoundarySmoothsAndObjectiveDrops(t *testing.T) {
	data := loadFixture(t, "s2_stripe.jpg")

	parsed, err := jpegstream.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	src := parsed.Planes[0]
	plane := &Plane{H: src.H, W: src.W, Coef: src.Coef, Quant: src.Quant}
	decodeCoefficients(plane)
	preSolve := append([]float64(nil), plane.Spatial...)

	objectives := runSolveTrace(plane)
	if objectives[0] <= 0 {
		t.Fatalf("expected a positive initial objective across the step edge, got %v", objectives[0])
	}
	final := objectives[len(objectives)-1]
	if final > 0.8*objectives[0] {
		t.Fatalf("objective did not drop by at least 20%%: initial %v, final %v", objectives[0], final)
	}

	w := plane.W
	var preJump, postJump float64
	for y := 0; y < plane.H; y++ {
		preJump += math.Abs(preSolve[y*w+7] - preSolve[y*w+8])
		postJump += math.Abs(plane.Spatial[y*w+7] - plane.Spatial[y*w+8])
	}
	if postJump > preJump+1e-6 {
		t.Fatalf("boundary transition got sharper after solving: pre %v, post %v", preJump, postJump)
	}
}

// An 8x8 image at 4:2:0 forces a single luma MCU, but the chroma
// planes come out already block-padded to the image's own 8x8 resolution,
// so upsamplePlane has nothing to do. This only needs to run cleanly.
func TestSingleBlock420FixtureNeedsNoChromaUpsample(t *testing.T) {
	data := loadFixture(t, "s3_single_block_420.jpg")

	parsed, err := jpegstream.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if parsed.Width != 8 || parsed.Height != 8 {
		t.Fatalf("expected an 8x8 image, got %dx%d", parsed.Width, parsed.Height)
	}
	cb := parsed.Planes[1]
	if cb.W != parsed.Width || cb.H != parsed.Height {
		t.Fatalf("expected chroma already at image resolution, got %dx%d vs image %dx%d",
			cb.W, cb.H, parsed.Width, parsed.Height)
	}

	_, objectives, err := Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(objectives) != 3 {
		t.Fatalf("expected 3 plane objectives, got %d", len(objectives))
	}
}

// A 24x16 4:2:0 image whose 24-pixel width is not a multiple of the
// 16-pixel MCU. Its chroma planes decode as 16x8, so they are upsampled on
// both axes before being cropped to the 24x16 output.
func TestWidthOnlyUpsampleFixtureDimensions(t *testing.T) {
	data := loadFixture(t, "s4_width_upsample_420.jpg")

	out, _, err := Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 24 || b.Dy() != 16 {
		t.Fatalf("expected 24x16 output, got %dx%d", b.Dx(), b.Dy())
	}

	img := out.(*image.RGBA)
	c := img.RGBAAt(23, 8)
	if c.R == 0 && c.G == 0 && c.B == 0 {
		t.Fatalf("rightmost column looks unpopulated: %v", c)
	}
}

// A 16x24 4:2:0 image whose 24-pixel height is not a multiple of the
// 16-pixel MCU. Its chroma planes decode as 8x16, so they are upsampled on
// both axes before being cropped to the 16x24 output.
func TestHeightOnlyUpsampleFixtureDimensions(t *testing.T) {
	data := loadFixture(t, "s5_height_upsample_420.jpg")

	out, _, err := Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 16 || b.Dy() != 24 {
		t.Fatalf("expected 16x24 output, got %dx%d", b.Dx(), b.Dy())
	}

	img := out.(*image.RGBA)
	c := img.RGBAAt(8, 23)
	if c.R == 0 && c.G == 0 && c.B == 0 {
		t.Fatalf("bottommost row looks unpopulated: %v", c)
	}
}

// A 32x32 4:4:4 round trip through JPEG at high quality should come
// back close to the original deterministic test pattern.
func TestRoundTripFixturePSNR(t *testing.T) {
	data := loadFixture(t, "s6_roundtrip.jpg")

	out, _, err := Run(data)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	img, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA output, got %T", out)
	}

	const w, h = 32, 32
	var sumSq float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wantR := byte((x*7 + y*3) % 256)
			wantG := byte((x*5 + y*11) % 256)
			wantB := byte((x*13 + y*2) % 256)

			c := img.RGBAAt(x, y)
			dr := float64(int(c.R) - int(wantR))
			dg := float64(int(c.G) - int(wantG))
			db := float64(int(c.B) - int(wantB))
			sumSq += dr*dr + dg*dg + db*db
		}
	}

	mse := sumSq / float64(w*h*3)
	if mse == 0 {
		return // exact match, PSNR is infinite
	}
	psnr := 10 * math.Log10(255*255/mse)
	if psnr < 30 {
		t.Fatalf("round-trip PSNR too low: %.2f dB (mse=%v)", psnr, mse)
	}
}
