package curves

import (
	"crypto/elliptic"
	"io"
	"math/big"
	mrand "math/rand/v2"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

func testReader(seed byte) io.Reader {
	var s [32]byte
	s[0] = seed
	return mrand.NewChaCha8(s)
}

func mustCurve(t *testing.T, name string) *Curve {
	t.Helper()
	c, err := ByName(name)
	require.NoError(t, err)
	return c
}

func TestByName(t *testing.T) {
	assert.Equal(t, []string{P256, P384, P521, Secp256k1}, Names())

	for _, name := range Names() {
		c := mustCurve(t, name)
		assert.Equal(t, name, c.Name())
		assert.True(t, c.IsOnCurve(c.Generator()), "generator of %s", name)
		assert.Equal(t, int64(1), c.Params().H.Int64())
	}

	_, err := ByName("P-192")
	assert.ErrorIs(t, err, cryptlib.ErrConfiguration)
}

func TestParamsCoefficients(t *testing.T) {
	p256 := mustCurve(t, P256).Params()
	assert.Equal(t, 0, new(big.Int).Sub(p256.P, big.NewInt(3)).Cmp(p256.A))

	k1 := mustCurve(t, Secp256k1).Params()
	assert.Equal(t, 0, k1.A.Sign())
	assert.Equal(t, int64(7), k1.B.Int64())
}

func TestPointIdentities(t *testing.T) {
	c := mustCurve(t, P256)
	g := c.Generator()
	n := c.Params().N

	sum, err := c.Add(Infinity(), g)
	require.NoError(t, err)
	assert.True(t, sum.Equal(g))

	sum, err = c.Add(g, Infinity())
	require.NoError(t, err)
	assert.True(t, sum.Equal(g))

	sum, err = c.Add(g, c.Negate(g))
	require.NoError(t, err)
	assert.True(t, sum.IsInfinity())

	pt, err := c.ScalarMult(n, g)
	require.NoError(t, err)
	assert.True(t, pt.IsInfinity())

	pt, err = c.ScalarMult(big.NewInt(1), g)
	require.NoError(t, err)
	assert.True(t, pt.Equal(g))

	pt, err = c.ScalarMult(new(big.Int).Add(n, big.NewInt(1)), g)
	require.NoError(t, err)
	assert.True(t, pt.Equal(g))

	pt, err = c.ScalarMult(big.NewInt(0), g)
	require.NoError(t, err)
	assert.True(t, pt.IsInfinity())

	pt, err = c.ScalarMult(big.NewInt(5), Infinity())
	require.NoError(t, err)
	assert.True(t, pt.IsInfinity())

	pt, err = c.ScalarMult(big.NewInt(-1), g)
	require.NoError(t, err)
	assert.True(t, pt.Equal(c.Negate(g)))
}

func TestDoubleMatchesAdd(t *testing.T) {
	for _, name := range Names() {
		c := mustCurve(t, name)
		g := c.Generator()

		d, err := c.Double(g)
		require.NoError(t, err)
		a, err := c.Add(g, g)
		require.NoError(t, err)
		assert.True(t, d.Equal(a))
		assert.True(t, c.IsOnCurve(d))

		three, err := c.Add(d, g)
		require.NoError(t, err)
		want, err := c.ScalarBaseMult(big.NewInt(3))
		require.NoError(t, err)
		assert.True(t, three.Equal(want))
	}
}

func TestDoubleInfinity(t *testing.T) {
	c := mustCurve(t, P256)
	d, err := c.Double(Infinity())
	require.NoError(t, err)
	assert.True(t, d.IsInfinity())
}

func TestAddOffCurveSameX(t *testing.T) {
	c := mustCurve(t, P256)
	g := c.Generator()

	// Same x, y values neither equal nor opposite: no valid slope exists.
	bogus := NewPoint(g.X(), big.NewInt(5))
	_, err := c.Add(g, bogus)
	assert.ErrorIs(t, err, cryptlib.ErrNoInverse)
	assert.False(t, c.IsOnCurve(bogus))
}

func TestAddDoesNotModifyInputs(t *testing.T) {
	c := mustCurve(t, P384)
	g := c.Generator()
	before := g.String()

	_, err := c.Add(g, g)
	require.NoError(t, err)
	_, err = c.ScalarMult(big.NewInt(12345), g)
	require.NoError(t, err)
	assert.Equal(t, before, g.String())
}

// TestScalarBaseMultMatchesStdlib compares the generic arithmetic against the
// standard library's NIST implementations.
func TestScalarBaseMultMatchesStdlib(t *testing.T) {
	std := map[string]elliptic.Curve{
		P256: elliptic.P256(),
		P384: elliptic.P384(),
		P521: elliptic.P521(),
	}

	r := testReader(1)
	for name, ref := range std {
		c := mustCurve(t, name)
		for i := 0; i < 4; i++ {
			k, err := c.NewScalar(r)
			require.NoError(t, err)

			pt, err := c.ScalarBaseMult(k)
			require.NoError(t, err)
			wx, wy := ref.ScalarBaseMult(k.Bytes())
			assert.Equal(t, 0, pt.X().Cmp(wx), "%s x", name)
			assert.Equal(t, 0, pt.Y().Cmp(wy), "%s y", name)
		}
	}
}

func TestScalarBaseMultMatchesSecp256k1(t *testing.T) {
	c := mustCurve(t, Secp256k1)
	ref := secp256k1.S256()

	r := testReader(2)
	for i := 0; i < 4; i++ {
		k, err := c.NewScalar(r)
		require.NoError(t, err)

		pt, err := c.ScalarBaseMult(k)
		require.NoError(t, err)
		wx, wy := ref.ScalarBaseMult(k.Bytes())
		assert.Equal(t, 0, pt.X().Cmp(wx))
		assert.Equal(t, 0, pt.Y().Cmp(wy))
	}
}

func TestScalarMultDistributes(t *testing.T) {
	c := mustCurve(t, P256)
	r := testReader(3)

	a, err := c.NewScalar(r)
	require.NoError(t, err)
	b, err := c.NewScalar(r)
	require.NoError(t, err)

	aG, err := c.ScalarBaseMult(a)
	require.NoError(t, err)
	bG, err := c.ScalarBaseMult(b)
	require.NoError(t, err)
	sum, err := c.Add(aG, bG)
	require.NoError(t, err)

	ab := new(big.Int).Add(a, b)
	ab.Mod(ab, c.Params().N)
	want, err := c.ScalarBaseMult(ab)
	require.NoError(t, err)
	assert.True(t, sum.Equal(want))

	// a*(b*G) == b*(a*G)
	abG, err := c.ScalarMult(a, bG)
	require.NoError(t, err)
	baG, err := c.ScalarMult(b, aG)
	require.NoError(t, err)
	assert.True(t, abG.Equal(baG))
}

func TestNewScalarRange(t *testing.T) {
	c := mustCurve(t, P521)
	r := testReader(4)
	for i := 0; i < 32; i++ {
		k, err := c.NewScalar(r)
		require.NoError(t, err)
		assert.True(t, c.IsValidScalar(k))
	}

	// Identical seeds give identical scalars.
	k1, err := c.NewScalar(testReader(9))
	require.NoError(t, err)
	k2, err := c.NewScalar(testReader(9))
	require.NoError(t, err)
	assert.Equal(t, 0, k1.Cmp(k2))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestNewScalarReaderError(t *testing.T) {
	c := mustCurve(t, P256)
	_, err := c.NewScalar(failingReader{})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPointValue(t *testing.T) {
	inf := Infinity()
	assert.True(t, inf.IsInfinity())
	assert.Nil(t, inf.X())
	assert.Nil(t, inf.Y())
	assert.Equal(t, "infinity", inf.String())
	assert.True(t, inf.Equal(Infinity()))

	x, y := big.NewInt(1), big.NewInt(2)
	pt := NewPoint(x, y)
	x.SetInt64(10)
	assert.Equal(t, int64(1), pt.X().Int64(), "NewPoint must copy its arguments")
	assert.False(t, pt.Equal(inf))
	assert.False(t, inf.Equal(pt))
	assert.Equal(t, "(1, 2)", pt.String())
}
