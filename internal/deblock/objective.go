package deblock

import "math"

// step computes one subgradient of the TV + weight*TV2 objective against
// p.Spatial and descends along it by stepSize, returning the (normalized)
// objective value at the point the step was taken from. Forward
// differences are zero at the far border of each axis, backward
// differences (used only by the second-order term) are zero at the near
// border, and any subgradient term is zero wherever its norm is zero.
func step(p *Plane, weight, stepSize float64) float64 {
	w, h := p.W, p.H
	f := p.Spatial
	grad := make([]float64, w*h)

	// alphaTV2 is the coefficient the second-order term carries once
	// normalized against the first-order one: weight divided by sqrt(2),
	// since each pixel contributes two first-order differences against
	// four second-order ones pairwise.
	alphaTV2 := weight / math.Sqrt2

	var gx2, gy2 []float64
	if alphaTV2 != 0 {
		gx2 = make([]float64, w*h)
		gy2 = make([]float64, w*h)
	}

	tv := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var gx, gy float64
			if x < w-1 {
				gx = f[idx(x+1, y, w)] - f[idx(x, y, w)]
			}
			if y < h-1 {
				gy = f[idx(x, y+1, w)] - f[idx(x, y, w)]
			}
			norm := math.Sqrt(gx*gx + gy*gy)
			tv += norm

			if norm != 0 {
				grad[idx(x, y, w)] += -(gx + gy) / norm
				if x < w-1 {
					grad[idx(x+1, y, w)] += gx / norm
				}
				if y < h-1 {
					grad[idx(x, y+1, w)] += gy / norm
				}
			}

			if alphaTV2 != 0 {
				gx2[idx(x, y, w)] = gx
				gy2[idx(x, y, w)] = gy
			}
		}
	}

	tv2 := 0.0
	if alphaTV2 != 0 {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var gxx, gyx, gxy, gyy float64
				if x > 0 {
					gxx = gx2[idx(x, y, w)] - gx2[idx(x-1, y, w)]
					gyx = gy2[idx(x, y, w)] - gy2[idx(x-1, y, w)]
				}
				if y > 0 {
					gxy = gx2[idx(x, y, w)] - gx2[idx(x, y-1, w)]
					gyy = gy2[idx(x, y, w)] - gy2[idx(x, y-1, w)]
				}
				norm := math.Sqrt(gxx*gxx + gyx*gyx + gxy*gxy + gyy*gyy)
				tv2 += norm

				if norm == 0 {
					continue
				}
				g := alphaTV2 / norm
				grad[idx(x, y, w)] += -g * (2*gxx + gxy + gyx + 2*gyy)
				if x > 0 {
					grad[idx(x-1, y, w)] += g * (gyx + gxx)
				}
				if x < w-1 {
					grad[idx(x+1, y, w)] += g * (gxx + gxy)
				}
				if y > 0 {
					grad[idx(x, y-1, w)] += g * (gyy + gxy)
				}
				if y < h-1 {
					grad[idx(x, y+1, w)] += g * (gyy + gyx)
				}
				if x < w-1 && y > 0 {
					grad[idx(x+1, y-1, w)] += -g * gxy
				}
				if x > 0 && y < h-1 {
					grad[idx(x-1, y+1, w)] += -g * gyx
				}
			}
		}
	}

	denom := 1 + alphaTV2
	for i := range f {
		f[i] -= stepSize * grad[i] / denom
	}

	return (tv + alphaTV2*tv2) / denom
}
