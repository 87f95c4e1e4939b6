package encoding

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTrip(t *testing.T) {
	large := make([]float32, 1536)
	for i := range large {
		large[i] = float32(i) * 0.1
	}

	tests := []struct {
		name   string
		vector []float32
	}{
		{"Simple", []float32{1.0, 2.0, 3.0}},
		{"Empty", []float32{}},
		{"Single", []float32{42.0}},
		{"Negative", []float32{-0.5, -1e-30, 3.4e38}},
		{"Special", []float32{float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.Copysign(0, -1))}},
		{"Large", large},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeVector(tt.vector)
			require.NoError(t, err)

			decoded, err := DecodeVector(encoded)
			require.NoError(t, err)
			require.Len(t, decoded, len(tt.vector))

			for i := range tt.vector {
				assert.Equal(t, math.Float32bits(tt.vector[i]), math.Float32bits(decoded[i]), "index %d", i)
			}
		})
	}
}

func TestVectorRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 50; trial++ {
		v := make([]float32, rng.Intn(300))
		for i := range v {
			v[i] = math.Float32frombits(rng.Uint32())
		}

		encoded, err := EncodeVector(v)
		require.NoError(t, err)
		decoded, err := DecodeVector(encoded)
		require.NoError(t, err)
		require.Len(t, decoded, len(v))
		for i := range v {
			require.Equal(t, math.Float32bits(v[i]), math.Float32bits(decoded[i]))
		}
	}
}

func TestEncodeNilVector(t *testing.T) {
	fromNil, err := EncodeVector(nil)
	require.NoError(t, err)
	fromEmpty, err := EncodeVector([]float32{})
	require.NoError(t, err)
	assert.Equal(t, fromEmpty, fromNil)

	decoded, err := DecodeVector(fromNil)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestWireLayout(t *testing.T) {
	encoded, err := EncodeVector([]float32{1})
	require.NoError(t, err)

	// [[1.0f]] : fixarray(1), fixarray(1), float32 0x3f800000
	assert.Equal(t, []byte{0x91, 0x91, 0xca, 0x3f, 0x80, 0x00, 0x00}, encoded)
}

func TestDecodeCorrupt(t *testing.T) {
	valid, err := EncodeVector([]float32{1, 2, 3})
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"Nil", nil},
		{"Empty", []byte{}},
		{"NotAnArray", []byte("hello world")},
		{"Truncated", valid[:len(valid)-2]},
		{"Trailing", append(append([]byte{}, valid...), 0x01)},
		{"WrongElementType", []byte{0x91, 0x91, 0xa1, 'x'}},
		{"LegacyLittleEndian", []byte{3, 0, 0, 0, 0, 0, 0x80, 0x3f}},
		{"HugeLength", []byte{0xdd, 0xff, 0xff, 0xff, 0xff}},
		{"NestedHugeLength", []byte{0x91, 0xdd, 0xff, 0xff, 0xff, 0xff}},
		{"NoFields", []byte{0x90}},
		{"ExtraField", []byte{0x92, 0x90, 0x90}},
		{"NilComponents", []byte{0x91, 0xc0}},
		{"ScalarComponents", []byte{0x91, 0x01}},
		{"TruncatedArray16", []byte{0xdc, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := DecodeVector(tt.data)
				assert.ErrorIs(t, err, ErrInvalidVector)
			})
		})
	}
}
