// Package factory selects a key generator, signer, key exchanger or KEM by
// algorithm and variant name.
package factory

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-cryptlib/internal/crypto/curves"
	"github.com/smallyu/go-cryptlib/internal/crypto/ecdh"
	"github.com/smallyu/go-cryptlib/internal/crypto/ecdsa"
	"github.com/smallyu/go-cryptlib/internal/crypto/kem"
	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

// Supported algorithm names. Matching is case insensitive.
const (
	ECDSA = "ECDSA"
	ECDH  = "ECDH"
	Kyber = "KYBER"
)

var _ cryptlib.KeyPairGenerator = (*Factory)(nil)

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger that receives debug events.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Factory creates the key generator for one algorithm. It must be
// initialized with a variant before use. A Factory is not safe for
// concurrent use while Init runs.
type Factory struct {
	algorithm string
	variant   string
	generator cryptlib.KeyPairGenerator
	logger    *zap.Logger
}

// New returns an uninitialized Factory for algorithm. The name is only
// validated by Init.
func New(algorithm string, opts ...Option) *Factory {
	f := &Factory{
		algorithm: strings.ToUpper(algorithm),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Algorithm returns the upper-cased algorithm name.
func (f *Factory) Algorithm() string {
	return f.algorithm
}

// Variant returns the variant passed to the last successful Init, or the
// empty string.
func (f *Factory) Variant() string {
	return f.variant
}

// Init builds the generator for variant: a curve name for ECDSA and ECDH, a
// Kyber variant for KYBER.
func (f *Factory) Init(variant string) error {
	var (
		gen cryptlib.KeyPairGenerator
		err error
	)
	switch f.algorithm {
	case ECDSA:
		gen, err = NewSigner(variant)
	case ECDH:
		gen, err = NewKeyExchanger(variant)
	case Kyber:
		gen, err = NewKEM(variant)
	default:
		return cryptlib.NewError(cryptlib.ErrConfiguration, "unsupported algorithm: "+f.algorithm)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to initialize %s", f.algorithm)
	}

	f.generator, f.variant = gen, variant
	f.logger.Debug("initialized key generator",
		zap.String("algorithm", f.algorithm),
		zap.String("variant", variant))
	return nil
}

// Generator returns the initialized generator. Callers may type-assert it to
// cryptlib.Signer, cryptlib.KeyExchanger or cryptlib.KEM.
func (f *Factory) Generator() (cryptlib.KeyPairGenerator, error) {
	if f.generator == nil {
		return nil, cryptlib.NewError(cryptlib.ErrConfiguration, "generator not initialized, call Init first")
	}
	return f.generator, nil
}

// GenerateKey generates an encoded key pair with the initialized generator.
func (f *Factory) GenerateKey(rand io.Reader) (publicKey, privateKey []byte, err error) {
	gen, err := f.Generator()
	if err != nil {
		return nil, nil, err
	}
	publicKey, privateKey, err = gen.GenerateKey(rand)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to generate %s key pair", f.algorithm)
	}

	f.logger.Debug("generated key pair",
		zap.String("algorithm", f.algorithm),
		zap.String("variant", f.variant),
		zap.Int("public_key_size", len(publicKey)),
		zap.Int("private_key_size", len(privateKey)))
	return publicKey, privateKey, nil
}

// NewSigner returns an ECDSA signer on the named curve.
func NewSigner(curve string) (cryptlib.Signer, error) {
	c, err := curves.ByName(curve)
	if err != nil {
		return nil, err
	}
	return ecdsa.New(c), nil
}

// NewKeyExchanger returns an ECDH key exchanger on the named curve.
func NewKeyExchanger(curve string) (cryptlib.KeyExchanger, error) {
	c, err := curves.ByName(curve)
	if err != nil {
		return nil, err
	}
	return ecdh.New(c), nil
}

// NewKEM returns the named Kyber variant.
func NewKEM(variant string) (cryptlib.KEM, error) {
	k, err := kem.New(variant)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// Algorithms returns the supported algorithm names.
func Algorithms() []string {
	return []string{ECDH, ECDSA, Kyber}
}

// Variants returns the variant names accepted for algorithm.
func Variants(algorithm string) ([]string, error) {
	switch strings.ToUpper(algorithm) {
	case ECDSA, ECDH:
		return curves.Names(), nil
	case Kyber:
		return kem.Variants(), nil
	default:
		return nil, cryptlib.NewError(cryptlib.ErrConfiguration, "unsupported algorithm: "+algorithm)
	}
}
