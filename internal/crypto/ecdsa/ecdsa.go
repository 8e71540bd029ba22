// Package ecdsa implements ECDSA signatures over the curves of package
// curves, with nonces derived deterministically per RFC 6979.
package ecdsa

import (
	"crypto"
	_ "crypto/sha256" // SHA-256 for P-256 and secp256k1
	_ "crypto/sha512" // SHA-384 and SHA-512 for P-384 and P-521
	"io"
	"math/big"

	"github.com/smallyu/go-cryptlib/internal/crypto/curves"
	"github.com/smallyu/go-cryptlib/internal/crypto/modmath"
	"github.com/smallyu/go-cryptlib/internal/crypto/rfc6979"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

var _ cryptlib.Signer = (*Signer)(nil)

// Signer signs and verifies messages on one curve. The digest is the hash
// bound to the curve (SHA-256 for P-256 and secp256k1, SHA-384 for P-384,
// SHA-512 for P-521).
type Signer struct {
	curve *curves.Curve
	hash  crypto.Hash
}

// New returns a Signer for curve.
func New(curve *curves.Curve) *Signer {
	return &Signer{
		curve: curve,
		hash:  curve.Params().Hash,
	}
}

// Curve returns the curve the signer works on.
func (s *Signer) Curve() *curves.Curve {
	return s.curve
}

// Hash returns the message digest algorithm.
func (s *Signer) Hash() crypto.Hash {
	return s.hash
}

// GenerateKeyPair draws a private scalar d uniformly from [1, n-1] and
// returns the public point d*G together with it.
func (s *Signer) GenerateKeyPair(rand io.Reader) (curves.Point, *big.Int, error) {
	d, err := s.curve.NewScalar(rand)
	if err != nil {
		return curves.Infinity(), nil, err
	}
	q, err := s.curve.ScalarBaseMult(d)
	if err != nil {
		return curves.Infinity(), nil, err
	}
	return q, d, nil
}

// GenerateKey returns an encoded key pair: the public key as x || y and the
// private key as a fixed-width scalar.
func (s *Signer) GenerateKey(rand io.Reader) (publicKey, privateKey []byte, err error) {
	q, d, err := s.GenerateKeyPair(rand)
	if err != nil {
		return nil, nil, err
	}
	if publicKey, err = s.curve.Marshal(q); err != nil {
		return nil, nil, err
	}
	if privateKey, err = s.curve.MarshalScalar(d); err != nil {
		return nil, nil, err
	}
	return publicKey, privateKey, nil
}

// Sign signs message with the encoded private key and returns the encoded
// signature r || s.
func (s *Signer) Sign(privateKey, message []byte) ([]byte, error) {
	d, err := s.curve.ParseScalar(privateKey)
	if err != nil {
		return nil, err
	}
	sig, err := s.SignScalar(d, message)
	if err != nil {
		return nil, err
	}
	return s.MarshalSignature(sig)
}

// SignScalar signs message with the private scalar d. The same key and
// message always give the same signature.
func (s *Signer) SignScalar(d *big.Int, message []byte) (*Signature, error) {
	if !s.curve.IsValidScalar(d) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "private key is not in [1, n-1]")
	}

	n := s.curve.Params().N
	digest := s.digest(message)
	z := s.hashToInt(digest)

	k, err := rfc6979.GenerateK(s.hash.New, n, d, digest)
	if err != nil {
		return nil, err
	}

	// R = kG, r = R.x mod n
	kG, err := s.curve.ScalarBaseMult(k)
	if err != nil {
		return nil, err
	}
	if kG.IsInfinity() {
		return nil, cryptlib.NewError(cryptlib.ErrDegenerateSignature, "nonce point is the point at infinity")
	}
	r := new(big.Int).Mod(kG.X(), n)
	if r.Sign() == 0 {
		return nil, cryptlib.NewError(cryptlib.ErrDegenerateSignature, "calculated R.x is zero")
	}

	// s = k⁻¹(z + rd) mod n
	kInv, err := modmath.ModInverse(k, n)
	if err != nil {
		return nil, err
	}
	sv := new(big.Int).Mul(r, d)
	sv.Add(sv, z)
	sv.Mul(sv, kInv)
	sv.Mod(sv, n)
	if sv.Sign() == 0 {
		return nil, cryptlib.NewError(cryptlib.ErrDegenerateSignature, "calculated S is zero")
	}

	return &Signature{R: r, S: sv}, nil
}

// Verify reports whether signature is a valid encoded signature of message
// under the encoded public key. Malformed input of any kind yields false.
func (s *Signer) Verify(publicKey, message, signature []byte) bool {
	q, err := s.curve.ParsePublicKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := s.ParseSignature(signature)
	if err != nil {
		return false
	}
	return s.VerifyPoint(q, message, sig)
}

// VerifyPoint reports whether sig is a valid signature of message under the
// public point q.
func (s *Signer) VerifyPoint(q curves.Point, message []byte, sig *Signature) bool {
	if sig == nil || q.IsInfinity() || !s.curve.IsOnCurve(q) {
		return false
	}
	if !s.curve.IsValidScalar(sig.R) || !s.curve.IsValidScalar(sig.S) {
		return false
	}

	n := s.curve.Params().N
	z := s.hashToInt(s.digest(message))

	w, err := modmath.ModInverse(sig.S, n)
	if err != nil {
		return false
	}

	// u1 = zw mod n, u2 = rw mod n
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(sig.R, w)
	u2.Mod(u2, n)

	// X = u1G + u2Q
	u1G, err := s.curve.ScalarBaseMult(u1)
	if err != nil {
		return false
	}
	u2Q, err := s.curve.ScalarMult(u2, q)
	if err != nil {
		return false
	}
	x, err := s.curve.Add(u1G, u2Q)
	if err != nil || x.IsInfinity() {
		return false
	}

	v := new(big.Int).Mod(x.X(), n)
	return v.Cmp(sig.R) == 0
}

func (s *Signer) digest(message []byte) []byte {
	h := s.hash.New()
	h.Write(message)
	return h.Sum(nil)
}

// hashToInt converts a digest to an integer, keeping only its leftmost
// bitlen(n) bits. None of the registered curves pairs with a digest longer
// than its order, so this is the plain big-endian value of the digest.
func (s *Signer) hashToInt(digest []byte) *big.Int {
	orderBits := s.curve.Params().N.BitLen()
	z := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - orderBits; excess > 0 {
		z.Rsh(z, uint(excess))
	}
	return z
}
