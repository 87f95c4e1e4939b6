package vectordb

import (
	"math"

	"github.com/liliang-cn/vectordb/internal/kernel"
)

// Vector is an embedding. Its length is fixed when it is built and it is
// never mutated afterwards.
type Vector struct {
	data []float32
}

// FromSlice builds a Vector from a copy of data.
func FromSlice(data []float32) Vector {
	cp := make([]float32, len(data))
	copy(cp, data)
	return Vector{data: cp}
}

// Dim returns the number of components
func (v Vector) Dim() int {
	return len(v.data)
}

// AsSlice exposes the components. The returned slice must not be modified.
func (v Vector) AsSlice() []float32 {
	return v.data
}

// CosineSimilarity returns dot(v, other) / (|v| |other|) over the shorter
// of the two lengths. A zero norm on either side yields 0. The result is
// not clamped to [-1, 1].
func (v Vector) CosineSimilarity(other Vector) float32 {
	return kernel.Cosine(v.data, other.data)
}

// Equal reports whether both vectors hold the same components bit for bit.
func (v Vector) Equal(other Vector) bool {
	if len(v.data) != len(other.data) {
		return false
	}
	for i := range v.data {
		if math.Float32bits(v.data[i]) != math.Float32bits(other.data[i]) {
			return false
		}
	}
	return true
}
