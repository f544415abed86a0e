package cn25519

import (
	"encoding/hex"
	"hash"

	sha256simd "github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// HashSize is the digest width of every Hasher
const HashSize = 32

// Hash is a 32-byte digest, such as the prefix hash a signature commits to
type Hash [HashSize]byte

// String returns the hex encoding of h
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Hasher is the cryptographic hash the signature and key derivation layers
// are built on. Sum hashes the concatenation of parts.
type Hasher interface {
	Sum(parts ...[]byte) Hash
}

// HasherFunc adapts a hash.Hash constructor with a 32-byte digest to the
// Hasher interface
type HasherFunc func() hash.Hash

// Sum hashes the concatenation of parts with a fresh hash.Hash
func (f HasherFunc) Sum(parts ...[]byte) Hash {
	h := f()
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

var (
	// Keccak256Hasher is the original (pre-FIPS padding) Keccak-256 used
	// as the fast hash by CryptoNote protocols. It is the default.
	Keccak256Hasher Hasher = HasherFunc(sha3.NewLegacyKeccak256)

	// SHA256Hasher is SHA-256, accelerated with SIMD where available
	SHA256Hasher Hasher = HasherFunc(sha256simd.New)
)

// HashToScalar hashes parts with h and reduces the digest modulo l
func HashToScalar(h Hasher, parts ...[]byte) *Scalar {
	digest := h.Sum(parts...)
	b := [32]byte(digest)
	return new(Scalar).Reduce32(&b)
}

// HashToPointVar hashes data with h, maps the digest onto the curve and
// clears the cofactor, so the result lies in the prime-order subgroup.
// Nobody knows the discrete logarithm of the result to the base point.
func HashToPointVar(h Hasher, data []byte) *Point {
	digest := h.Sum(data)
	b := [32]byte(digest)
	var p Point
	p.SetFieldBytesVar(&b)
	return p.MulByCofactor(&p)
}

// nonceHash returns the 64-byte Keccak-512 digest of parts, used to derive
// signature nonces with a full 512 bits before reduction
func nonceHash(parts ...[]byte) [64]byte {
	h := sha3.NewLegacyKeccak512()
	for _, p := range parts {
		h.Write(p)
	}
	var out [64]byte
	h.Sum(out[:0])
	return out
}
