package cn25519

import (
	"encoding/hex"
)

// SecretKey is a 32-byte little-endian scalar below l
type SecretKey [32]byte

// PublicKey is a 32-byte compressed point
type PublicKey [32]byte

// String returns the hex encoding of k
func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// Scalar decodes k, rejecting encodings that are not reduced modulo l
func (k *SecretKey) Scalar() (*Scalar, error) {
	return new(Scalar).SetCanonicalBytes(k[:])
}

// Zero wipes the key material
func (k *SecretKey) Zero() {
	clear(k[:])
}

// Point decodes k; it does not check subgroup membership
func (k *PublicKey) Point() (*Point, error) {
	return new(Point).SetBytes(k[:])
}

// RandomScalar draws 64 bytes from the entropy source and reduces them
// modulo l, which makes the bias negligible
func (ctx *Context) RandomScalar() (*Scalar, error) {
	var buf [64]byte
	defer clear(buf[:])

	if err := ctx.readEntropy(buf[:]); err != nil {
		return nil, err
	}
	return new(Scalar).ReduceWide(&buf), nil
}

// RandomKeyPair generates a fresh secret key and its public key
func (ctx *Context) RandomKeyPair() (SecretKey, PublicKey, error) {
	s, err := ctx.RandomScalar()
	if err != nil {
		return SecretKey{}, PublicKey{}, err
	}
	defer s.clear()

	var p Point
	EcmultGen(&p, s)

	return SecretKey(s.Bytes()), PublicKey(p.Bytes()), nil
}

// RandomKeyPair generates a key pair with the default context
func RandomKeyPair() (SecretKey, PublicKey, error) {
	return defaultContext.RandomKeyPair()
}

// SecretKeyToPublicKey computes sec * B. It fails with ErrInvalidScalar if
// sec is not reduced modulo l.
func SecretKeyToPublicKey(sec SecretKey) (PublicKey, error) {
	s, err := sec.Scalar()
	if err != nil {
		return PublicKey{}, err
	}
	defer s.clear()

	var p Point
	EcmultGen(&p, s)
	return PublicKey(p.Bytes()), nil
}

// CheckKey reports whether pub decodes to a curve point
func CheckKey(pub PublicKey) bool {
	_, err := pub.Point()
	return err == nil
}

// ParsePublicKey decodes pub and checks that it lies in the prime-order
// subgroup. Use it for keys received from untrusted parties.
func ParsePublicKey(pub PublicKey) (*Point, error) {
	p, err := pub.Point()
	if err != nil {
		return nil, err
	}
	if !CheckSubgroupVar(p) {
		return nil, makeError(ErrSubgroupViolation, "public key has a small order component")
	}
	return p, nil
}
