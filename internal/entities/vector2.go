package entities

import (
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// Vector2 is a 2D point or direction. On the wire it is encoded as a
// MessagePack array [x, y] of 32-bit floats rather than a map, matching the
// compact positional schema the wire format uses for every message.
type Vector2 struct {
	X float64
	Y float64
}

var (
	_ msgpack.CustomEncoder = Vector2{}
	_ msgpack.CustomDecoder = (*Vector2)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (v Vector2) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeFloat32(float32(v.X)); err != nil {
		return err
	}
	return enc.EncodeFloat32(float32(v.Y))
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *Vector2) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return msgpack.ErrArrayStruct
	}
	x, err := dec.DecodeFloat32()
	if err != nil {
		return err
	}
	y, err := dec.DecodeFloat32()
	if err != nil {
		return err
	}
	v.X = float64(x)
	v.Y = float64(y)
	return nil
}

// Add returns the vector sum.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the vector difference.
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns the vector scaled by s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean length.
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance to other.
func (v Vector2) Distance(other Vector2) float64 {
	return v.Sub(other).Length()
}

// Normalized returns a unit vector in the same direction, or the zero
// vector if v has zero length.
func (v Vector2) Normalized() Vector2 {
	length := v.Length()
	if length < 1e-9 {
		return Vector2{}
	}
	return Vector2{X: v.X / length, Y: v.Y / length}
}

// Dot returns the dot product.
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}
