// Package ecdh implements elliptic curve Diffie-Hellman key agreement over the
// curves of package curves.
package ecdh

import (
	_ "crypto/sha256" // HKDF for P-256 and secp256k1
	_ "crypto/sha512" // HKDF for P-384 and P-521
	"io"
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"

	"github.com/smallyu/go-cryptlib/internal/crypto/curves"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

var _ cryptlib.KeyExchanger = (*KeyExchange)(nil)

// KeyExchange derives shared secrets on one curve.
type KeyExchange struct {
	curve *curves.Curve
}

// New returns a KeyExchange for curve.
func New(curve *curves.Curve) *KeyExchange {
	return &KeyExchange{curve: curve}
}

// Curve returns the curve the key exchange works on.
func (e *KeyExchange) Curve() *curves.Curve {
	return e.curve
}

// GenerateKeyPair draws a private scalar uniformly from [1, n-1] and returns
// the public point d*G together with it.
func (e *KeyExchange) GenerateKeyPair(rand io.Reader) (curves.Point, *big.Int, error) {
	d, err := e.curve.NewScalar(rand)
	if err != nil {
		return curves.Infinity(), nil, err
	}
	pub, err := e.curve.ScalarBaseMult(d)
	if err != nil {
		return curves.Infinity(), nil, err
	}
	return pub, d, nil
}

// DeriveSharedSecret returns the x coordinate of d*peer.
//
// d must be in [1, n-1] and peer must be a finite point on the curve. A
// result at infinity is reported as ErrInvalidSharedPoint.
func (e *KeyExchange) DeriveSharedSecret(d *big.Int, peer curves.Point) (*big.Int, error) {
	if !e.curve.IsValidScalar(d) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "private key is not in [1, n-1]")
	}
	if peer.IsInfinity() {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidPublicKey, "peer public key is the point at infinity")
	}
	if !e.curve.IsOnCurve(peer) {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidPublicKey, "peer public key is not on the curve")
	}

	s, err := e.curve.ScalarMult(d, peer)
	if err != nil {
		return nil, err
	}
	if s.IsInfinity() {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidSharedPoint, "shared point is the point at infinity")
	}
	return s.X(), nil
}

// GenerateKey returns an encoded key pair: the public key as x || y and the
// private key as a fixed-width scalar.
func (e *KeyExchange) GenerateKey(rand io.Reader) (publicKey, privateKey []byte, err error) {
	pub, d, err := e.GenerateKeyPair(rand)
	if err != nil {
		return nil, nil, err
	}
	if publicKey, err = e.curve.Marshal(pub); err != nil {
		return nil, nil, err
	}
	if privateKey, err = e.curve.MarshalScalar(d); err != nil {
		return nil, nil, err
	}
	return publicKey, privateKey, nil
}

// SharedSecret returns the shared x coordinate for the encoded private key
// and peer public key, as a big-endian byte string of the coordinate size.
// The peer key may be in either the x || y or the compressed encoding.
func (e *KeyExchange) SharedSecret(privateKey, peerPublicKey []byte) ([]byte, error) {
	d, err := e.curve.ParseScalar(privateKey)
	if err != nil {
		return nil, err
	}
	peer, err := e.curve.ParsePublicKey(peerPublicKey)
	if err != nil {
		return nil, err
	}
	x, err := e.DeriveSharedSecret(d, peer)
	if err != nil {
		return nil, err
	}
	return x.FillBytes(make([]byte, e.curve.CoordinateSize())), nil
}

// DeriveKey runs HKDF, keyed with the curve's hash, over the shared secret
// and returns size bytes of key material.
func (e *KeyExchange) DeriveKey(privateKey, peerPublicKey, salt, info []byte, size int) ([]byte, error) {
	secret, err := e.SharedSecret(privateKey, peerPublicKey)
	if err != nil {
		return nil, err
	}

	key := make([]byte, size)
	kdf := hkdf.New(e.curve.Params().Hash.New, secret, salt, info)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.Wrap(err, "failed to expand shared secret")
	}
	return key, nil
}
