package ecdsa

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

// Signature is an ECDSA signature (r, s).
type Signature struct {
	R *big.Int
	S *big.Int
}

// String returns the signature halves in hex.
func (sig *Signature) String() string {
	return fmt.Sprintf("(%x, %x)", sig.R, sig.S)
}

// MarshalSignature encodes sig as r || s, each half a big-endian byte string
// of the curve's scalar size.
func (s *Signer) MarshalSignature(sig *Signature) ([]byte, error) {
	if sig == nil || !s.curve.IsValidScalar(sig.R) || !s.curve.IsValidScalar(sig.S) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidEncoding, "signature values are not in [1, n-1]")
	}

	size := s.curve.ScalarSize()
	out := make([]byte, 2*size)
	sig.R.FillBytes(out[:size])
	sig.S.FillBytes(out[size:])
	return out, nil
}

// ParseSignature decodes a signature encoded by MarshalSignature. Both halves
// must be in [1, n-1].
func (s *Signer) ParseSignature(b []byte) (*Signature, error) {
	size := s.curve.ScalarSize()
	if len(b) != 2*size {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidEncoding, "malformed signature: invalid length")
	}

	sig := &Signature{
		R: new(big.Int).SetBytes(b[:size]),
		S: new(big.Int).SetBytes(b[size:]),
	}
	if !s.curve.IsValidScalar(sig.R) || !s.curve.IsValidScalar(sig.S) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidEncoding, "malformed signature: value out of range")
	}
	return sig, nil
}
