package deblock

import "math"

const (
	iterations = 100
	tvWeight   = 0.3
)

// solvePlane runs the fixed 100-iteration projected subgradient descent
// against p.Spatial in place: project onto the feasible set, then take one
// descent step, every iteration using the same 1/sqrt(iterations+1) step
// size. Returns the final objective value. p.Spatial must already hold the
// initial estimate from decodeCoefficients.
func solvePlane(p *Plane) float64 {
	pr := newProjector(p)
	stepSize := 1 / math.Sqrt(float64(iterations+1))

	var objective float64
	for i := 0; i < iterations; i++ {
		pr.project(p)
		objective = step(p, tvWeight, stepSize)
	}
	return objective
}
