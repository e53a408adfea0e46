package deblock

// projector holds the feasible-set bounds for one plane: every scaled,
// transformed coefficient of the working estimate must stay within
// [qMin, qMax] for the reconstruction to re-quantize to the stored
// integers.
type projector struct {
	qMin, qMax []float64
	scratch    []float64
	blocks     int
	w, h       int
}

func newProjector(p *Plane) *projector {
	blocks := (p.H / 8) * (p.W / 8)
	qMin := make([]float64, blocks*64)
	qMax := make([]float64, blocks*64)

	for i := 0; i < blocks; i++ {
		base := i * 64
		for j := 0; j < 64; j++ {
			q := float64(p.Quant[j])
			c := float64(p.Coef[base+j])
			qMax[base+j] = (c + 0.5) * q
			qMin[base+j] = (c - 0.5) * q
		}
	}

	for i := 0; i < blocks; i++ {
		base := i * 64
		for v := 0; v < 8; v++ {
			for u := 0; u < 8; u++ {
				a := alpha(u) * alpha(v)
				qMax[base+v*8+u] /= a
				qMin[base+v*8+u] /= a
			}
		}
	}

	return &projector{
		qMin:    qMin,
		qMax:    qMax,
		scratch: make([]float64, p.H*p.W),
		blocks:  blocks,
		w:       p.W,
		h:       p.H,
	}
}

// project clamps p.Spatial back onto the feasible set: box into
// block-contiguous order, forward-transform, clamp each coefficient to its
// quantization interval, inverse-transform, unbox.
func (pr *projector) project(p *Plane) {
	box(p.Spatial, pr.scratch, pr.w, pr.h)
	dctBatch(pr.scratch, pr.blocks)

	for i := range pr.scratch {
		pr.scratch[i] = clamp(pr.scratch[i], pr.qMin[i], pr.qMax[i])
	}

	idctBatch(pr.scratch, pr.blocks)
	unbox(pr.scratch, p.Spatial, pr.w, pr.h)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
