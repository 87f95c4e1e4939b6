package kernel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var implementations = []struct {
	name string
	fn   Func
}{
	{"Lanes", CosineLanes},
	{"Scalar", CosineScalar},
	{"Dispatched", Cosine},
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"Orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"Opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"Scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"ZeroLeft", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
		{"ZeroRight", []float32{1, 2, 3}, []float32{0, 0, 0}, 0},
		{"Empty", []float32{}, []float32{}, 0},
		// only the first two components of b take part
		{"Truncated", []float32{1, 0}, []float32{1, 0, 5}, 1},
		{"ExactlyOneGroup", []float32{1, 1, 1, 1, 1, 1, 1, 1}, []float32{1, 1, 1, 1, 1, 1, 1, 1}, 1},
		{"GroupPlusTail", []float32{1, 0, 0, 0, 0, 0, 0, 0, 0, 1}, []float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, 0.70710677},
	}

	for _, impl := range implementations {
		for _, tt := range tests {
			t.Run(impl.name+"/"+tt.name, func(t *testing.T) {
				got := impl.fn(tt.a, tt.b)
				assert.InDelta(t, tt.expected, got, 1e-6)
			})
		}
	}
}

func TestCosineZeroVectorIsNotNaN(t *testing.T) {
	zero := make([]float32, 17)
	v := make([]float32, 17)
	for i := range v {
		v[i] = float32(i + 1)
	}

	for _, impl := range implementations {
		got := impl.fn(zero, v)
		assert.Equal(t, float32(0), got, impl.name)
		got = impl.fn(zero, zero)
		assert.Equal(t, float32(0), got, impl.name)
	}
}

func TestLanesMatchScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for dim := 1; dim <= 1024; dim += 13 {
		for trial := 0; trial < 4; trial++ {
			a := randomVector(rng, dim)
			b := randomVector(rng, dim)

			lanes := CosineLanes(a, b)
			scalar := CosineScalar(a, b)
			require.InDelta(t, scalar, lanes, 1e-4, "dim=%d trial=%d", dim, trial)
		}
	}
}

func TestSelfSimilarity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, dim := range []int{3, 8, 9, 128, 1024} {
		v := randomVector(rng, dim)
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-4, "dim=%d", dim)
	}
}

func TestDispatchMatchesFlag(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := []float32{9, 8, 7, 6, 5, 4, 3, 2, 1}

	if Accelerated() {
		assert.Equal(t, CosineLanes(a, b), Cosine(a, b))
	} else {
		assert.Equal(t, CosineScalar(a, b), Cosine(a, b))
	}
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

func BenchmarkCosine(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x := randomVector(rng, 768)
	y := randomVector(rng, 768)

	for _, impl := range implementations {
		b.Run(impl.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = impl.fn(x, y)
			}
		})
	}
}
