package cryptlib

import "io"

// KeyPairGenerator is implemented by every algorithm the library exposes.
// Keys are returned in their byte encodings.
type KeyPairGenerator interface {
	// GenerateKey draws a new key pair using rand as the only source of
	// randomness.
	GenerateKey(rand io.Reader) (publicKey, privateKey []byte, err error)
}

// Signer produces and checks digital signatures.
type Signer interface {
	KeyPairGenerator

	// Sign returns the signature of message under privateKey. The message is
	// hashed by the signer; callers pass the raw message.
	Sign(privateKey, message []byte) ([]byte, error)

	// Verify reports whether signature is valid for message under publicKey.
	// It never panics or errors on malformed input; such input is simply
	// invalid.
	Verify(publicKey, message, signature []byte) bool
}

// KeyExchanger derives a shared secret between two parties.
type KeyExchanger interface {
	KeyPairGenerator

	// SharedSecret combines a local private key with the peer's public key.
	SharedSecret(privateKey, peerPublicKey []byte) ([]byte, error)
}

// KEM is a key encapsulation mechanism. Implementations are adapters over an
// external library and treat keys and ciphertexts as opaque bytes.
type KEM interface {
	KeyPairGenerator

	// Encapsulate returns a ciphertext for publicKey along with the shared
	// secret it encapsulates.
	Encapsulate(rand io.Reader, publicKey []byte) (ciphertext, sharedSecret []byte, err error)

	// Decapsulate recovers the shared secret from ciphertext.
	Decapsulate(privateKey, ciphertext []byte) ([]byte, error)
}
