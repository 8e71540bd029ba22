// Package modmath implements the integer arithmetic modulo a prime that the
// curve layer is built on: modular inverse and modular square root.
//
// All functions take and return *big.Int values and never modify their
// arguments.
package modmath

import (
	"math/big"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
	four = big.NewInt(4)
)

// ModInverse returns the multiplicative inverse of a modulo m using the
// extended Euclidean algorithm. The result is always in [0, m-1].
//
// ErrNoInverse is returned when a ≡ 0 (mod m) or gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Cmp(two) < 0 {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidModulus, "modinv: modulus must be at least 2")
	}

	low := new(big.Int).Mod(a, m)
	if low.Sign() == 0 {
		return nil, cryptlib.NewError(cryptlib.ErrNoInverse, "modinv: division by zero")
	}
	high := new(big.Int).Set(m)

	// Invariant: lm*a ≡ low and hm*a ≡ high (mod m).
	lm, hm := big.NewInt(1), big.NewInt(0)
	for low.Cmp(one) > 0 {
		q := new(big.Int).Quo(high, low)
		nm := new(big.Int).Mul(lm, q)
		nm.Sub(hm, nm)
		nw := new(big.Int).Mul(low, q)
		nw.Sub(high, nw)

		hm, lm = lm, nm
		high, low = low, nw
	}

	// The remainder sequence ends at gcd(a, m) followed by 0, so a zero here
	// means the gcd was larger than 1.
	if low.Sign() == 0 {
		return nil, cryptlib.NewError(cryptlib.ErrNoInverse, "modinv: value is not coprime to the modulus")
	}

	return lm.Mod(lm, m), nil
}

// ModSqrt returns a square root of a modulo the prime p. Only one of the two
// roots r and p-r is returned; callers that need a particular root (for
// example an even one) must choose it themselves.
//
// Primes with p ≡ 3 (mod 4) use the direct exponentiation a^((p+1)/4); all
// other odd primes use Tonelli-Shanks. ErrNoSquareRoot is returned when a is
// a quadratic non-residue according to Euler's criterion.
func ModSqrt(a, p *big.Int) (*big.Int, error) {
	if p.Cmp(two) < 0 {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidModulus, "modsqrt: modulus must be a prime")
	}

	a = new(big.Int).Mod(a, p)
	if a.Sign() == 0 {
		return new(big.Int), nil
	}
	if p.Cmp(two) == 0 {
		return a, nil
	}

	if !IsQuadraticResidue(a, p) {
		return nil, cryptlib.NewError(cryptlib.ErrNoSquareRoot, "modsqrt: value is not a quadratic residue")
	}

	if new(big.Int).Mod(p, four).Int64() == 3 {
		e := new(big.Int).Add(p, one)
		e.Rsh(e, 2)
		return new(big.Int).Exp(a, e, p), nil
	}

	return tonelliShanks(a, p)
}

// tonelliShanks computes a square root of the quadratic residue a modulo the
// odd prime p.
func tonelliShanks(a, p *big.Int) (*big.Int, error) {
	pMinus1 := new(big.Int).Sub(p, one)

	// p - 1 = q * 2^s with q odd.
	q := new(big.Int).Set(pMinus1)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	// Find a non-residue z. Every odd prime has one below p.
	e := new(big.Int).Rsh(pMinus1, 1)
	z := big.NewInt(2)
	for new(big.Int).Exp(z, e, p).Cmp(pMinus1) != 0 {
		z.Add(z, one)
		if z.Cmp(p) >= 0 {
			return nil, cryptlib.NewError(cryptlib.ErrInvalidModulus, "modsqrt: modulus must be a prime")
		}
	}

	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(a, q, p)
	qPlus1Half := new(big.Int).Add(q, one)
	qPlus1Half.Rsh(qPlus1Half, 1)
	r := new(big.Int).Exp(a, qPlus1Half, p)

	for {
		if t.Sign() == 0 {
			return new(big.Int), nil
		}
		if t.Cmp(one) == 0 {
			return r, nil
		}

		// Least i in (0, m) with t^(2^i) = 1.
		i := 1
		t2i := new(big.Int).Mul(t, t)
		t2i.Mod(t2i, p)
		for t2i.Cmp(one) != 0 {
			t2i.Mul(t2i, t2i)
			t2i.Mod(t2i, p)
			i++
			if i >= m {
				return nil, cryptlib.NewError(cryptlib.ErrNoSquareRoot, "modsqrt: value is not a quadratic residue")
			}
		}

		b := new(big.Int).Exp(c, new(big.Int).Lsh(one, uint(m-i-1)), p)
		m = i
		c.Mul(b, b)
		c.Mod(c, p)
		t.Mul(t, c)
		t.Mod(t, p)
		r.Mul(r, b)
		r.Mod(r, p)
	}
}

// IsQuadraticResidue reports whether a is a square modulo the odd prime p
// by Euler's criterion: a^((p-1)/2) is 1 for residues and p-1 otherwise.
// Zero counts as a square.
func IsQuadraticResidue(a, p *big.Int) bool {
	a = new(big.Int).Mod(a, p)
	if a.Sign() == 0 {
		return true
	}
	e := new(big.Int).Sub(p, one)
	e.Rsh(e, 1)
	return new(big.Int).Exp(a, e, p).Cmp(one) == 0
}

// Reduce returns a mod m as a new value in [0, m-1].
func Reduce(a, m *big.Int) *big.Int {
	return new(big.Int).Mod(a, m)
}

// IsZero reports whether a ≡ 0 (mod m).
func IsZero(a, m *big.Int) bool {
	return new(big.Int).Mod(a, m).Cmp(zero) == 0
}
