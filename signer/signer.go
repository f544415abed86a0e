// Package signer wraps the cn25519 key, signature and derivation
// operations behind byte-slice interfaces, used to abstract the signature
// algorithm from the code that holds keys.
package signer

// I holds a key pair, or only a public key, and signs, verifies and
// derives shared secrets with it.
type I interface {
	// Generate creates a fresh key pair from system entropy
	Generate() error
	// InitSec initialises the secret key from raw bytes and derives the
	// public key
	InitSec(sec []byte) error
	// InitPub initialises a verify-only signer from a public key
	InitPub(pub []byte) error
	// Sec returns the secret key bytes, or nil for a verify-only signer
	Sec() []byte
	// Pub returns the compressed public key bytes
	Pub() []byte
	// Sign signs a 32-byte prefix hash
	Sign(msg []byte) (sig []byte, err error)
	// Verify checks a signature of a 32-byte prefix hash
	Verify(msg, sig []byte) (valid bool, err error)
	// Zero wipes the key material
	Zero()
	// ECDH returns the key derivation shared with the holder of pub
	ECDH(pub []byte) (secret []byte, err error)
}

// Gen generates key pairs, for searching the key space by public key
type Gen interface {
	// Generate draws a key pair and returns its public key bytes
	Generate() (pubBytes []byte, err error)
	// Negate replaces the secret key with its negation, which negates the
	// public key
	Negate()
	// KeyPairBytes returns the raw secret and public key bytes
	KeyPairBytes() (secBytes, cmprPubBytes []byte)
}
