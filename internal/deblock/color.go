package deblock

import "image"

// upsamplePlane doubles p's height and/or width, whichever is short of the
// target, by linear-averaging neighboring samples and duplicating the last
// row/column. Chroma planes are stored at their JPEG sampling factor and
// only ever need a single doubling to reach the luma grid.
func upsamplePlane(p *Plane, targetH, targetW int) {
	if p.H < targetH {
		doubleHeight(p)
	}
	if p.W < targetW {
		doubleWidth(p)
	}
}

func doubleHeight(p *Plane) {
	newH := p.H * 2
	out := make([]float64, newH*p.W)
	for y := 0; y < p.H; y++ {
		copy(out[(y*2)*p.W:(y*2+1)*p.W], p.Spatial[y*p.W:(y+1)*p.W])
		for x := 0; x < p.W; x++ {
			if y == p.H-1 {
				out[(y*2+1)*p.W+x] = p.Spatial[y*p.W+x]
			} else {
				out[(y*2+1)*p.W+x] = (p.Spatial[y*p.W+x] + p.Spatial[(y+1)*p.W+x]) / 2
			}
		}
	}
	p.Spatial = out
	p.H = newH
}

func doubleWidth(p *Plane) {
	newW := p.W * 2
	out := make([]float64, p.H*newW)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			out[y*newW+x*2] = p.Spatial[y*p.W+x]
			if x == p.W-1 {
				out[y*newW+x*2+1] = p.Spatial[y*p.W+x]
			} else {
				out[y*newW+x*2+1] = (p.Spatial[y*p.W+x] + p.Spatial[y*p.W+x+1]) / 2
			}
		}
	}
	p.Spatial = out
	p.W = newW
}

// synthesize converts a solved YCbCr image into an RGBA image. Channels
// are truncated, not rounded, when narrowed to 8 bits.
func synthesize(img *Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.W, img.H))
	y, cb, cr := img.Planes[0], img.Planes[1], img.Planes[2]

	for py := 0; py < img.H; py++ {
		for px := 0; px < img.W; px++ {
			yy := y.Spatial[idx(px, py, y.W)]
			bb := cb.Spatial[idx(px, py, cb.W)]
			rr := cr.Spatial[idx(px, py, cr.W)]

			r := clampByte(yy + 1.402*rr)
			g := clampByte(yy - 0.34414*bb - 0.71414*rr)
			b := clampByte(yy + 1.772*bb)

			off := out.PixOffset(px, py)
			out.Pix[off] = r
			out.Pix[off+1] = g
			out.Pix[off+2] = b
			out.Pix[off+3] = 0xFF
		}
	}
	return out
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(int(v))
}
