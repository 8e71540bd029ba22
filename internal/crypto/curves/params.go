package curves

import (
	"crypto"
	"crypto/elliptic"
	"math/big"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

// Names of the supported curves.
const (
	P256      = "P-256"
	P384      = "P-384"
	P521      = "P-521"
	Secp256k1 = "secp256k1"
)

// CurveParams holds the domain parameters of a curve y² = x³ + ax + b over
// the prime field of order P. Values are shared and must not be modified.
type CurveParams struct {
	Name   string
	P      *big.Int // field prime
	A, B   *big.Int // curve coefficients
	Gx, Gy *big.Int // base point
	N      *big.Int // order of the base point, prime
	H      *big.Int // cofactor

	// Hash is the digest ECDSA uses with this curve.
	Hash crypto.Hash
}

var namedCurves = map[string]*CurveParams{
	P256:      fromNIST(elliptic.P256(), crypto.SHA256),
	P384:      fromNIST(elliptic.P384(), crypto.SHA384),
	P521:      fromNIST(elliptic.P521(), crypto.SHA512),
	Secp256k1: fromSecp256k1(),
}

// fromNIST converts the parameters of a NIST prime curve, which all have
// a = -3.
func fromNIST(c elliptic.Curve, h crypto.Hash) *CurveParams {
	params := c.Params()
	return &CurveParams{
		Name: params.Name,
		P:    params.P,
		A:    new(big.Int).Sub(params.P, big.NewInt(3)),
		B:    params.B,
		Gx:   params.Gx,
		Gy:   params.Gy,
		N:    params.N,
		H:    big.NewInt(1),
		Hash: h,
	}
}

// fromSecp256k1 returns the parameters of secp256k1 (a = 0).
func fromSecp256k1() *CurveParams {
	params := secp256k1.S256().Params()
	return &CurveParams{
		Name: Secp256k1,
		P:    params.P,
		A:    big.NewInt(0),
		B:    params.B,
		Gx:   params.Gx,
		Gy:   params.Gy,
		N:    params.N,
		H:    big.NewInt(1),
		Hash: crypto.SHA256,
	}
}

// Params returns the parameters of the named curve.
func Params(name string) (*CurveParams, error) {
	params, ok := namedCurves[name]
	if !ok {
		return nil, cryptlib.NewError(cryptlib.ErrConfiguration, "unsupported curve: "+name)
	}
	return params, nil
}

// ByName returns an arithmetic context for the named curve.
func ByName(name string) (*Curve, error) {
	params, err := Params(name)
	if err != nil {
		return nil, err
	}
	return New(params), nil
}

// Names returns the names of all supported curves in sorted order.
func Names() []string {
	names := make([]string, 0, len(namedCurves))
	for name := range namedCurves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
