// Package kernel holds the cosine similarity kernels used by the store.
//
// Two implementations are provided. CosineLanes accumulates eight
// components per step into independent lane accumulators, which the
// compiler keeps in registers and the CPU can retire in parallel.
// CosineScalar walks one component at a time. Cosine dispatches to one of
// them based on the CPU features detected at start-up.
//
// Both implementations compare min(len(a), len(b)) components; dimension
// enforcement belongs to the caller.
package kernel

import "math"

// Lanes is the group width of the lane-parallel path.
const Lanes = 8

// Func computes a similarity score between two vectors.
type Func func(a, b []float32) float32

var (
	cosineImpl  Func = CosineScalar
	accelerated bool
)

// Cosine computes cosine similarity with the implementation selected for
// this CPU.
func Cosine(a, b []float32) float32 {
	return cosineImpl(a, b)
}

// Accelerated reports whether Cosine uses the lane-parallel path.
func Accelerated() bool {
	return accelerated
}

func useLanes(ok bool) {
	accelerated = ok
	if ok {
		cosineImpl = CosineLanes
	} else {
		cosineImpl = CosineScalar
	}
}

// CosineLanes processes components in groups of Lanes, keeping a dot
// product and both squared norms per lane, and folds the tail in one
// component at a time.
func CosineLanes(a, b []float32) float32 {
	n := min(len(a), len(b))
	a, b = a[:n], b[:n]

	var dot, na, nb [Lanes]float32
	body := n - n%Lanes

	for i := 0; i < body; i += Lanes {
		va := (*[Lanes]float32)(a[i : i+Lanes])
		vb := (*[Lanes]float32)(b[i : i+Lanes])
		for j := 0; j < Lanes; j++ {
			dot[j] += va[j] * vb[j]
			na[j] += va[j] * va[j]
			nb[j] += vb[j] * vb[j]
		}
	}

	var sdot, sna, snb float32
	for j := 0; j < Lanes; j++ {
		sdot += dot[j]
		sna += na[j]
		snb += nb[j]
	}

	for i := body; i < n; i++ {
		sdot += a[i] * b[i]
		sna += a[i] * a[i]
		snb += b[i] * b[i]
	}

	return finish(sdot, sna, snb)
}

// CosineScalar is the reference implementation.
func CosineScalar(a, b []float32) float32 {
	n := min(len(a), len(b))

	var dot, na, nb float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	return finish(dot, na, nb)
}

func finish(dot, na, nb float32) float32 {
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(na))) * float32(math.Sqrt(float64(nb))))
}
