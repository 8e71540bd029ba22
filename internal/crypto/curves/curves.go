// Package curves implements affine point arithmetic on short Weierstrass
// curves y² = x³ + ax + b over a prime field, using math/big throughout.
//
// The arithmetic is written for clarity and exactness, not speed, and none of
// it runs in constant time.
package curves

import (
	crand "crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/smallyu/go-cryptlib/internal/crypto/modmath"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Curve is an arithmetic context bound to one set of curve parameters. It
// holds no mutable state and is safe for concurrent use.
type Curve struct {
	params *CurveParams
	g      Point
}

// New returns a Curve for params.
func New(params *CurveParams) *Curve {
	return &Curve{
		params: params,
		g:      NewPoint(params.Gx, params.Gy),
	}
}

// Params returns the curve parameters.
func (c *Curve) Params() *CurveParams {
	return c.params
}

// Name returns the curve name.
func (c *Curve) Name() string {
	return c.params.Name
}

// Generator returns the base point G.
func (c *Curve) Generator() Point {
	return c.g
}

// polynomial returns x³ + ax + b mod p.
func (c *Curve) polynomial(x *big.Int) *big.Int {
	x3 := new(big.Int).Mul(x, x)
	x3.Add(x3, c.params.A) // x² + a
	x3.Mul(x3, x)          // x³ + ax
	x3.Add(x3, c.params.B) // x³ + ax + b

	return x3.Mod(x3, c.params.P)
}

// IsOnCurve reports whether pt satisfies the curve equation. The point at
// infinity is on every curve.
func (c *Curve) IsOnCurve(pt Point) bool {
	if pt.IsInfinity() {
		return true
	}

	// y² = x³ + ax + b
	y2 := new(big.Int).Mul(pt.y, pt.y)
	y2.Mod(y2, c.params.P)

	return c.polynomial(pt.x).Cmp(y2) == 0
}

// Negate returns -pt.
func (c *Curve) Negate(pt Point) Point {
	if pt.IsInfinity() {
		return pt
	}
	y := new(big.Int).Neg(pt.y)
	y.Mod(y, c.params.P)
	return Point{x: modmath.Reduce(pt.x, c.params.P), y: y}
}

// Add returns p1 + p2.
//
// Adding infinity returns the other operand unchanged, and adding a point to
// its negation returns infinity. Equal points are doubled. Any other pair
// sharing an x coordinate cannot both be on the curve; the zero denominator
// then surfaces as ErrNoInverse.
func (c *Curve) Add(p1, p2 Point) (Point, error) {
	if p1.IsInfinity() {
		return p2, nil
	}
	if p2.IsInfinity() {
		return p1, nil
	}

	p := c.params.P
	x1, y1 := modmath.Reduce(p1.x, p), modmath.Reduce(p1.y, p)
	x2, y2 := modmath.Reduce(p2.x, p), modmath.Reduce(p2.y, p)

	if x1.Cmp(x2) == 0 {
		if modmath.IsZero(new(big.Int).Add(y1, y2), p) {
			return Infinity(), nil
		}
		if y1.Cmp(y2) == 0 {
			return c.double(x1, y1)
		}
	}

	// m = (y2 - y1) / (x2 - x1)
	den := new(big.Int).Sub(x2, x1)
	inv, err := modmath.ModInverse(den, p)
	if err != nil {
		return Infinity(), err
	}
	m := new(big.Int).Sub(y2, y1)
	m.Mul(m, inv)
	m.Mod(m, p)

	return c.chord(m, x1, y1, x2), nil
}

// Double returns 2*pt.
func (c *Curve) Double(pt Point) (Point, error) {
	if pt.IsInfinity() {
		return pt, nil
	}
	p := c.params.P
	return c.double(modmath.Reduce(pt.x, p), modmath.Reduce(pt.y, p))
}

// double doubles the finite point (x, y) whose coordinates are already
// reduced modulo p.
func (c *Curve) double(x, y *big.Int) (Point, error) {
	p := c.params.P
	if y.Sign() == 0 {
		return Infinity(), nil
	}

	// m = (3x² + a) / 2y
	den := new(big.Int).Mul(two, y)
	inv, err := modmath.ModInverse(den, p)
	if err != nil {
		return Infinity(), err
	}
	m := new(big.Int).Mul(x, x)
	m.Mul(m, three)
	m.Add(m, c.params.A)
	m.Mul(m, inv)
	m.Mod(m, p)

	return c.chord(m, x, y, x), nil
}

// chord returns the third intersection of the line with slope m through
// (x1, y1), reflected over the x axis.
func (c *Curve) chord(m, x1, y1, x2 *big.Int) Point {
	p := c.params.P

	// xr = m² - x1 - x2
	xr := new(big.Int).Mul(m, m)
	xr.Sub(xr, x1)
	xr.Sub(xr, x2)
	xr.Mod(xr, p)

	// yr = m(x1 - xr) - y1
	yr := new(big.Int).Sub(x1, xr)
	yr.Mul(yr, m)
	yr.Sub(yr, y1)
	yr.Mod(yr, p)

	return Point{x: xr, y: yr}
}

// ScalarMult returns k*pt using double-and-add over the bits of k, lowest
// bit first.
//
// The result is infinity when k ≡ 0 (mod n) or pt is infinity. The loop runs
// over the bit length of k as given, so callers wanting a loop bounded by n
// should pass k already reduced. A negative k is reduced modulo n first.
func (c *Curve) ScalarMult(k *big.Int, pt Point) (Point, error) {
	n := c.params.N
	if pt.IsInfinity() || modmath.IsZero(k, n) {
		return Infinity(), nil
	}
	if k.Sign() < 0 {
		k = modmath.Reduce(k, n)
	}

	var err error
	result := Infinity()
	addend := pt
	bits := k.BitLen()
	for i := 0; i < bits; i++ {
		if k.Bit(i) == 1 {
			result, err = c.Add(result, addend)
			if err != nil {
				return Infinity(), err
			}
		}
		if i+1 < bits {
			addend, err = c.Double(addend)
			if err != nil {
				return Infinity(), err
			}
		}
	}
	return result, nil
}

// ScalarBaseMult returns k*G.
func (c *Curve) ScalarBaseMult(k *big.Int) (Point, error) {
	return c.ScalarMult(k, c.g)
}

// IsValidScalar reports whether k is in [1, n-1].
func (c *Curve) IsValidScalar(k *big.Int) bool {
	return k != nil && k.Sign() > 0 && k.Cmp(c.params.N) < 0
}

// NewScalar draws a uniformly random scalar in [1, n-1] from random.
func (c *Curve) NewScalar(random io.Reader) (*big.Int, error) {
	limit := new(big.Int).Sub(c.params.N, one)
	k, err := crand.Int(random, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to draw a random scalar")
	}
	return k.Add(k, one), nil
}
