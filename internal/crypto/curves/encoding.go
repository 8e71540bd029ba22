package curves

import (
	"math/big"

	"github.com/smallyu/go-cryptlib/internal/crypto/modmath"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

// SEC1 point format prefixes.
const (
	compressedEven = 0x02
	compressedOdd  = 0x03
)

// ScalarSize returns the fixed width in bytes of an encoded scalar,
// ceil(bitlen(n)/8).
func (c *Curve) ScalarSize() int {
	return (c.params.N.BitLen() + 7) / 8
}

// CoordinateSize returns the fixed width in bytes of an encoded coordinate,
// ceil(bitlen(p)/8).
func (c *Curve) CoordinateSize() int {
	return (c.params.P.BitLen() + 7) / 8
}

// MarshalScalar encodes k, which must be in [1, n-1], as a big-endian byte
// string of ScalarSize bytes.
func (c *Curve) MarshalScalar(k *big.Int) ([]byte, error) {
	if !c.IsValidScalar(k) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "scalar is not in [1, n-1]")
	}
	return k.FillBytes(make([]byte, c.ScalarSize())), nil
}

// ParseScalar decodes a big-endian scalar of exactly ScalarSize bytes and
// checks that it lies in [1, n-1].
func (c *Curve) ParseScalar(b []byte) (*big.Int, error) {
	if len(b) != c.ScalarSize() {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "malformed scalar: invalid length")
	}
	k := new(big.Int).SetBytes(b)
	if !c.IsValidScalar(k) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "scalar is not in [1, n-1]")
	}
	return k, nil
}

// Marshal encodes a finite point as x || y, each coordinate a big-endian
// byte string of CoordinateSize bytes.
func (c *Curve) Marshal(pt Point) ([]byte, error) {
	if pt.IsInfinity() {
		return nil, cryptlib.NewError(cryptlib.ErrPointAtInfinity, "cannot encode the point at infinity")
	}
	if !c.inField(pt.x) || !c.inField(pt.y) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidEncoding, "point coordinate is not a field element")
	}

	size := c.CoordinateSize()
	out := make([]byte, 2*size)
	pt.x.FillBytes(out[:size])
	pt.y.FillBytes(out[size:])
	return out, nil
}

// Unmarshal decodes a point encoded by Marshal. It checks the length and
// that both coordinates are field elements, but not curve membership; use
// ParsePublicKey for that.
func (c *Curve) Unmarshal(b []byte) (Point, error) {
	size := c.CoordinateSize()
	if len(b) != 2*size {
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidEncoding, "malformed point: invalid length")
	}

	x := new(big.Int).SetBytes(b[:size])
	y := new(big.Int).SetBytes(b[size:])
	if !c.inField(x) || !c.inField(y) {
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidEncoding, "point coordinate is not a field element")
	}
	return Point{x: x, y: y}, nil
}

// MarshalCompressed encodes a finite point in the SEC1 compressed form
// 0x02|0x03 || x, where the prefix carries the parity of y.
func (c *Curve) MarshalCompressed(pt Point) ([]byte, error) {
	if pt.IsInfinity() {
		return nil, cryptlib.NewError(cryptlib.ErrPointAtInfinity, "cannot encode the point at infinity")
	}
	if !c.inField(pt.x) || !c.inField(pt.y) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidEncoding, "point coordinate is not a field element")
	}

	size := c.CoordinateSize()
	out := make([]byte, 1+size)
	out[0] = compressedEven | byte(pt.y.Bit(0))
	pt.x.FillBytes(out[1:])
	return out, nil
}

// UnmarshalCompressed decodes a SEC1 compressed point, recovering y as the
// square root of x³ + ax + b with the encoded parity.
func (c *Curve) UnmarshalCompressed(b []byte) (Point, error) {
	size := c.CoordinateSize()
	if len(b) != 1+size {
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidEncoding, "malformed compressed point: invalid length")
	}
	if b[0] != compressedEven && b[0] != compressedOdd {
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidEncoding, "malformed compressed point: invalid format")
	}

	x := new(big.Int).SetBytes(b[1:])
	if !c.inField(x) {
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidEncoding, "point coordinate is not a field element")
	}

	y, err := modmath.ModSqrt(c.polynomial(x), c.params.P)
	if err != nil {
		return Infinity(), err
	}
	wantOdd := uint(b[0] & 0x01)
	if y.Bit(0) != wantOdd {
		if y.Sign() == 0 {
			return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidEncoding, "malformed compressed point: y = 0 has no odd root")
		}
		y.Sub(c.params.P, y)
	}
	return Point{x: x, y: y}, nil
}

// ParsePublicKey decodes a public key in either the x || y or the SEC1
// compressed encoding and checks that it is a finite point on the curve.
func (c *Curve) ParsePublicKey(b []byte) (Point, error) {
	var (
		pt  Point
		err error
	)
	switch len(b) {
	case 2 * c.CoordinateSize():
		pt, err = c.Unmarshal(b)
	case 1 + c.CoordinateSize():
		pt, err = c.UnmarshalCompressed(b)
	default:
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidPublicKey, "malformed public key: invalid length")
	}
	if err != nil {
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidPublicKey, "malformed public key: "+err.Error())
	}
	if !c.IsOnCurve(pt) {
		return Infinity(), cryptlib.NewError(cryptlib.ErrInvalidPublicKey, "public key is not on the curve")
	}
	return pt, nil
}

// inField reports whether v is in [0, p-1].
func (c *Curve) inField(v *big.Int) bool {
	return v.Sign() >= 0 && v.Cmp(c.params.P) < 0
}
