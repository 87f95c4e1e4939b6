// Package encoding is the record codec: it turns a vector into the bytes
// stored in the embedding column and back.
//
// Vectors are written as MessagePack: a one element array wrapping an
// array of float32 values. Each component keeps its exact 32-bit pattern.
package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"
)

// ErrInvalidVector is returned when bytes are not a stored vector.
var ErrInvalidVector = errors.New("invalid vector")

var msgpackHandle = &codec.MsgpackHandle{}

type storedVector struct {
	_struct bool `codec:",toarray"`

	Data []float32
}

// EncodeVector encodes a float32 vector to bytes. A nil vector is encoded
// as an empty one.
func EncodeVector(vector []float32) (out []byte, err error) {
	if vector == nil {
		vector = []float32{}
	}

	enc := codec.NewEncoderBytes(&out, msgpackHandle)
	if err := enc.Encode(storedVector{Data: vector}); err != nil {
		return nil, fmt.Errorf("failed to encode vector: %w", err)
	}
	return out, nil
}

// DecodeVector decodes bytes to a float32 vector. Malformed input yields an
// error wrapping ErrInvalidVector; it never panics.
func DecodeVector(data []byte) (vector []float32, err error) {
	n, hdr, ok := arrayLen(data)
	if !ok {
		return nil, ErrInvalidVector
	}
	if n != 1 {
		return nil, fmt.Errorf("%w: record has %d fields, want 1", ErrInvalidVector, n)
	}
	if _, _, ok := arrayLen(data[hdr:]); !ok {
		return nil, fmt.Errorf("%w: components are not an array", ErrInvalidVector)
	}

	defer func() {
		if r := recover(); r != nil {
			vector, err = nil, fmt.Errorf("%w: %v", ErrInvalidVector, r)
		}
	}()

	var sv storedVector
	dec := codec.NewDecoderBytes(data, msgpackHandle)
	if err := dec.Decode(&sv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVector, err)
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidVector, len(data)-n)
	}
	if sv.Data == nil {
		sv.Data = []float32{}
	}
	return sv.Data, nil
}

// arrayLen reads the MessagePack array header at the start of b (fixarray,
// array 16 or array 32) and returns the element count and header size.
func arrayLen(b []byte) (n, size int, ok bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	switch {
	case b[0]&0xf0 == 0x90:
		return int(b[0] & 0x0f), 1, true
	case b[0] == 0xdc && len(b) >= 3:
		return int(binary.BigEndian.Uint16(b[1:3])), 3, true
	case b[0] == 0xdd && len(b) >= 5:
		return int(binary.BigEndian.Uint32(b[1:5])), 5, true
	}
	return 0, 0, false
}
