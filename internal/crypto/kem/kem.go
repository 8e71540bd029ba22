// Package kem adapts the ML-KEM (Kyber) key encapsulation mechanisms of
// circl to the byte-level KEM capability. All randomness is drawn from the
// reader passed in, which makes every operation reproducible in tests.
package kem

import (
	"io"
	"sort"
	"strings"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/pkg/errors"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

// Names of the supported variants.
const (
	Kyber512  = "Kyber-512"
	Kyber768  = "Kyber-768"
	Kyber1024 = "Kyber-1024"
)

var _ cryptlib.KEM = (*KEM)(nil)

var schemes = map[string]func() kem.Scheme{
	Kyber512:  mlkem512.Scheme,
	Kyber768:  mlkem768.Scheme,
	Kyber1024: mlkem1024.Scheme,
}

// aliases maps the standardized names onto the variant names.
var aliases = map[string]string{
	"ML-KEM-512":  Kyber512,
	"ML-KEM-768":  Kyber768,
	"ML-KEM-1024": Kyber1024,
}

// KEM encapsulates shared secrets with one ML-KEM parameter set.
type KEM struct {
	variant string
	scheme  kem.Scheme
}

// New returns a KEM for the named variant. Names are matched case
// insensitively, and the ML-KEM-512/768/1024 spellings are accepted too.
func New(variant string) (*KEM, error) {
	name, ok := canonical(variant)
	if !ok {
		return nil, cryptlib.NewError(cryptlib.ErrConfiguration, "unsupported KEM variant: "+variant)
	}
	return &KEM{variant: name, scheme: schemes[name]()}, nil
}

func canonical(variant string) (string, bool) {
	for name := range schemes {
		if strings.EqualFold(name, variant) {
			return name, true
		}
	}
	for alias, name := range aliases {
		if strings.EqualFold(alias, variant) {
			return name, true
		}
	}
	return "", false
}

// Variants returns the supported variant names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variant returns the variant name.
func (k *KEM) Variant() string {
	return k.variant
}

// Scheme returns the underlying scheme.
func (k *KEM) Scheme() kem.Scheme {
	return k.scheme
}

// GenerateKey derives a key pair from a seed read from rand and returns the
// packed public and private keys.
func (k *KEM) GenerateKey(rand io.Reader) (publicKey, privateKey []byte, err error) {
	seed := make([]byte, k.scheme.SeedSize())
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read key generation seed")
	}

	pk, sk := k.scheme.DeriveKeyPair(seed)
	if publicKey, err = pk.MarshalBinary(); err != nil {
		return nil, nil, cryptlib.NewError(cryptlib.ErrKEM, "failed to pack public key: "+err.Error())
	}
	if privateKey, err = sk.MarshalBinary(); err != nil {
		return nil, nil, cryptlib.NewError(cryptlib.ErrKEM, "failed to pack private key: "+err.Error())
	}
	return publicKey, privateKey, nil
}

// Encapsulate generates a shared secret for publicKey and returns it with the
// ciphertext that carries it.
func (k *KEM) Encapsulate(rand io.Reader, publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	pk, err := k.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "malformed KEM public key: "+err.Error())
	}

	seed := make([]byte, k.scheme.EncapsulationSeedSize())
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read encapsulation seed")
	}

	ciphertext, sharedSecret, err = k.scheme.EncapsulateDeterministically(pk, seed)
	if err != nil {
		return nil, nil, cryptlib.NewError(cryptlib.ErrKEM, "encapsulation failed: "+err.Error())
	}
	return ciphertext, sharedSecret, nil
}

// Decapsulate recovers the shared secret from ciphertext. A well-formed but
// tampered ciphertext yields an unrelated secret rather than an error.
func (k *KEM) Decapsulate(privateKey, ciphertext []byte) ([]byte, error) {
	sk, err := k.scheme.UnmarshalBinaryPrivateKey(privateKey)
	if err != nil {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "malformed KEM private key: "+err.Error())
	}
	if len(ciphertext) != k.scheme.CiphertextSize() {
		return nil, cryptlib.NewError(cryptlib.ErrKEM, "malformed ciphertext: invalid length")
	}

	ss, err := k.scheme.Decapsulate(sk, ciphertext)
	if err != nil {
		return nil, cryptlib.NewError(cryptlib.ErrKEM, "decapsulation failed: "+err.Error())
	}
	return ss, nil
}
