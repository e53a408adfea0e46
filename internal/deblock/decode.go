package deblock

import "math"

// alpha is the orthonormal scaling factor: 1/sqrt(2) for the DC term, 1
// otherwise.
func alpha(n int) float64 {
	if n == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// decodeCoefficients computes the plane's initial spatial-domain estimate:
// dequantize the stored integers, apply the orthonormal scaling,
// inverse-transform, and unbox into p.Spatial. p.Coef and p.Quant must
// already be populated; p.Spatial is allocated here.
func decodeCoefficients(p *Plane) {
	blocks := (p.H / 8) * (p.W / 8)
	f := make([]float64, p.H*p.W)

	for i := 0; i < blocks; i++ {
		base := i * 64
		for j := 0; j < 64; j++ {
			f[base+j] = float64(p.Coef[base+j]) * float64(p.Quant[j])
		}
	}

	for i := 0; i < blocks; i++ {
		base := i * 64
		for v := 0; v < 8; v++ {
			for u := 0; u < 8; u++ {
				f[base+v*8+u] /= alpha(u) * alpha(v)
			}
		}
	}

	idctBatch(f, blocks)

	p.Spatial = make([]float64, p.H*p.W)
	unbox(f, p.Spatial, p.W, p.H)
}
