// Package rfc6979 derives deterministic ECDSA nonces as described in RFC 6979
// section 3.2, for an arbitrary group order q and hash function.
package rfc6979

import (
	"crypto/hmac"
	"hash"
	"math/big"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

// GenerateK returns the nonce k in [1, q-1] for the private key x and the
// message digest h1, using HMAC-DRBG keyed with hashFunc.
//
// The result depends only on (hashFunc, q, x, h1). x must be in [1, q-1].
func GenerateK(hashFunc func() hash.Hash, q, x *big.Int, h1 []byte) (*big.Int, error) {
	if x == nil || x.Sign() <= 0 || x.Cmp(q) >= 0 {
		return nil, cryptlib.NewError(cryptlib.ErrInvalidKey, "rfc6979: private key is not in [1, q-1]")
	}

	qlen := q.BitLen()
	rolen := (qlen + 7) / 8
	hlen := hashFunc().Size()

	bx := append(int2octets(x, rolen), bits2octets(h1, q, rolen)...)

	// Step B.
	//
	// V = 0x01 0x01 0x01 ... 0x01 such that the length of V, in bits, is
	// equal to 8*ceil(hlen/8).
	v := make([]byte, hlen)
	for i := range v {
		v[i] = 0x01
	}

	// Step C.
	//
	// K = 0x00 0x00 0x00 ... 0x00 such that the length of K, in bits, is
	// equal to 8*ceil(hlen/8).
	k := make([]byte, hlen)

	// Step D.
	//
	// K = HMAC_K(V || 0x00 || int2octets(x) || bits2octets(h1))
	k = mac(hashFunc, k, v, []byte{0x00}, bx)

	// Step E.
	//
	// V = HMAC_K(V)
	v = mac(hashFunc, k, v)

	// Step F.
	//
	// K = HMAC_K(V || 0x01 || int2octets(x) || bits2octets(h1))
	k = mac(hashFunc, k, v, []byte{0x01}, bx)

	// Step G.
	//
	// V = HMAC_K(V)
	v = mac(hashFunc, k, v)

	// Step H.
	for {
		// Step H1 and H2.
		//
		// Set T to the empty sequence, then while tlen < qlen:
		// V = HMAC_K(V), T = T || V.
		var t []byte
		for len(t) < rolen {
			v = mac(hashFunc, k, v)
			t = append(t, v...)
		}

		// Step H3.
		//
		// k = bits2int(T). Return it when it is in [1, q-1].
		secret := bits2int(t, qlen)
		if secret.Sign() > 0 && secret.Cmp(q) < 0 {
			return secret, nil
		}

		// K = HMAC_K(V || 0x00)
		// V = HMAC_K(V)
		k = mac(hashFunc, k, v, []byte{0x00})
		v = mac(hashFunc, k, v)
	}
}

// mac returns HMAC_key(data[0] || data[1] || ...).
func mac(hashFunc func() hash.Hash, key []byte, data ...[]byte) []byte {
	h := hmac.New(hashFunc, key)
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// bits2int interprets b as a big-endian integer and keeps its leftmost qlen
// bits.
func bits2int(b []byte, qlen int) *big.Int {
	v := new(big.Int).SetBytes(b)
	if blen := len(b) * 8; blen > qlen {
		v.Rsh(v, uint(blen-qlen))
	}
	return v
}

// int2octets encodes v as a big-endian byte string of exactly rolen bytes.
func int2octets(v *big.Int, rolen int) []byte {
	return v.FillBytes(make([]byte, rolen))
}

// bits2octets returns int2octets(bits2int(h1) mod q).
func bits2octets(h1 []byte, q *big.Int, rolen int) []byte {
	z := bits2int(h1, q.BitLen())
	if z.Cmp(q) >= 0 {
		z.Sub(z, q)
	}
	return int2octets(z, rolen)
}
