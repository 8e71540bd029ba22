package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	mrand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-cryptlib/pkg/cryptlib"
)

func testReader(seed byte) io.Reader {
	var s [32]byte
	s[0] = seed
	return mrand.NewChaCha8(s)
}

func run(t *testing.T, seed byte, args ...string) (map[string]interface{}, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd(out, testReader(seed))
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()

	var result map[string]interface{}
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &result), out.String())
	}
	return result, err
}

func TestSignVerify(t *testing.T) {
	keys, err := run(t, 1, "keygen", "--variant", "secp256k1")
	require.NoError(t, err)
	assert.Equal(t, "ECDSA", keys["algorithm"])
	assert.Equal(t, "secp256k1", keys["variant"])
	pub, priv := keys["public_key"].(string), keys["private_key"].(string)
	assert.Len(t, pub, 128)
	assert.Len(t, priv, 64)

	signed, err := run(t, 0, "sign", "--variant", "secp256k1", priv, "hello")
	require.NoError(t, err)
	sig := signed["signature"].(string)
	assert.Len(t, sig, 128)

	verified, err := run(t, 0, "verify", "--variant", "secp256k1", pub, "hello", sig)
	require.NoError(t, err)
	assert.Equal(t, true, verified["valid"])

	verified, err = run(t, 0, "verify", "--variant", "secp256k1", pub, "hello?", sig)
	assert.ErrorIs(t, err, errInvalidSignature)
	assert.Equal(t, false, verified["valid"])
}

func TestSignBase64(t *testing.T) {
	keys, err := run(t, 2, "keygen", "--encoding", "base64")
	require.NoError(t, err)

	signed, err := run(t, 0, "sign", "--encoding", "base64", keys["private_key"].(string), "msg")
	require.NoError(t, err)
	verified, err := run(t, 0, "verify", "--encoding", "base64", keys["public_key"].(string), "msg", signed["signature"].(string))
	require.NoError(t, err)
	assert.Equal(t, true, verified["valid"])
}

func TestECDH(t *testing.T) {
	alice, err := run(t, 3, "keygen", "--algorithm", "ECDH", "--variant", "P-384")
	require.NoError(t, err)
	bob, err := run(t, 4, "keygen", "--algorithm", "ECDH", "--variant", "P-384")
	require.NoError(t, err)

	base := []string{"ecdh", "--algorithm", "ECDH", "--variant", "P-384"}
	s1, err := run(t, 0, append(base, alice["private_key"].(string), bob["public_key"].(string))...)
	require.NoError(t, err)
	s2, err := run(t, 0, append(base, bob["private_key"].(string), alice["public_key"].(string))...)
	require.NoError(t, err)
	assert.Equal(t, s1["shared_secret"], s2["shared_secret"])
	assert.Len(t, s1["shared_secret"], 96)

	k1, err := run(t, 0, append(base, "--length", "16", "--info", "ctx", alice["private_key"].(string), bob["public_key"].(string))...)
	require.NoError(t, err)
	k2, err := run(t, 0, append(base, "--length", "16", "--info", "ctx", bob["private_key"].(string), alice["public_key"].(string))...)
	require.NoError(t, err)
	assert.Equal(t, k1["shared_secret"], k2["shared_secret"])
	assert.Len(t, k1["shared_secret"], 32)
}

func TestKEM(t *testing.T) {
	base := []string{"--algorithm", "KYBER", "--variant", "Kyber-512"}
	keys, err := run(t, 5, append([]string{"keygen"}, base...)...)
	require.NoError(t, err)

	enc, err := run(t, 6, append([]string{"kem", "encap", keys["public_key"].(string)}, base...)...)
	require.NoError(t, err)
	dec, err := run(t, 0, append([]string{"kem", "decap", keys["private_key"].(string), enc["ciphertext"].(string)}, base...)...)
	require.NoError(t, err)
	assert.Equal(t, enc["shared_secret"], dec["shared_secret"])
}

func TestSelftest(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := newRootCmd(out, testReader(7))
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"selftest"})
	require.NoError(t, cmd.Execute())

	var results []checkResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 11)
	for _, r := range results {
		assert.True(t, r.OK, "%s: %s", r.Name, r.Error)
	}
	assert.Equal(t, "ecdsa/P-256", results[0].Name)
	assert.Equal(t, "kem/Kyber-768", results[10].Name)
}

func TestVersion(t *testing.T) {
	v, err := run(t, 0, "version")
	require.NoError(t, err)
	assert.Equal(t, Version, v["version"])
}

func TestSignEncodedMessage(t *testing.T) {
	keys, err := run(t, 3, "keygen")
	require.NoError(t, err)
	pub, priv := keys["public_key"].(string), keys["private_key"].(string)

	// Bytes that are not valid UTF-8 text.
	msg := []byte{0x00, 0xff, 0x10, 0x80}

	signed, err := run(t, 0, "sign", "--encoded-message", priv, hex.EncodeToString(msg))
	require.NoError(t, err)
	sig := signed["signature"].(string)

	verified, err := run(t, 0, "verify", "--encoded-message", pub, hex.EncodeToString(msg), sig)
	require.NoError(t, err)
	assert.Equal(t, true, verified["valid"])

	// The same bytes passed as text sign identically.
	plain, err := run(t, 0, "sign", priv, string(msg))
	require.NoError(t, err)
	assert.Equal(t, sig, plain["signature"])

	// Without the flag the hex string itself is the message.
	verified, err = run(t, 0, "verify", pub, hex.EncodeToString(msg), sig)
	assert.ErrorIs(t, err, errInvalidSignature)
	assert.Equal(t, false, verified["valid"])

	_, err = run(t, 0, "sign", "--encoded-message", priv, "zz")
	assert.ErrorIs(t, err, cryptlib.ErrInvalidEncoding)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind cryptlib.ErrorKind
	}{
		{"wrong algorithm for sign", []string{"sign", "--algorithm", "ECDH", "00", "m"}, cryptlib.ErrConfiguration},
		{"wrong algorithm for kem", []string{"kem", "encap", "00"}, cryptlib.ErrConfiguration},
		{"unknown curve", []string{"keygen", "--variant", "P-192"}, cryptlib.ErrConfiguration},
		{"bad hex", []string{"sign", "zz", "m"}, cryptlib.ErrInvalidEncoding},
		{"short key", []string{"sign", "0102", "m"}, cryptlib.ErrInvalidKey},
		{"bad peer", []string{"ecdh", "--algorithm", "ECDH", "01", "0202"}, cryptlib.ErrInvalidKey},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := run(t, 0, test.args...)
			assert.ErrorIs(t, err, test.kind)
		})
	}
}
