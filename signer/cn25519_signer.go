package signer

import (
	"errors"

	"cn25519.mleku.dev"
)

// Signer implements the I interface using the cn25519 package. Once a key
// is loaded, Sign, Verify and ECDH may be called concurrently; loading or
// zeroing a key must not overlap with any other call.
type Signer struct {
	ctx       *cn25519.Context
	sec       cn25519.SecretKey
	pub       cn25519.PublicKey
	table     *cn25519.PrecomputedTable // odd multiples of pub, read-only once built
	hasSecret bool                      // Whether we have the secret key (if false, can only verify)
	hasPublic bool
}

var _ I = (*Signer)(nil)

// NewSigner creates a new Signer using the default context: Keccak-256
// and crypto/rand
func NewSigner() *Signer {
	return NewSignerWithContext(cn25519.DefaultContext())
}

// NewSignerWithContext creates a new Signer using ctx for hashing and
// entropy
func NewSignerWithContext(ctx *cn25519.Context) *Signer {
	return &Signer{ctx: ctx}
}

// Generate creates a fresh new key pair from system entropy
func (s *Signer) Generate() error {
	sec, pub, err := s.ctx.RandomKeyPair()
	if err != nil {
		return err
	}
	P, err := pub.Point()
	if err != nil {
		return err
	}

	s.Zero()
	s.sec = sec
	s.pub = pub
	s.table = cn25519.NewPrecomputedTable(P)
	s.hasSecret = true
	s.hasPublic = true

	return nil
}

// InitSec initialises the secret (signing) key from the raw bytes, and also
// derives the public key. The key must be reduced modulo the group order.
func (s *Signer) InitSec(sec []byte) error {
	if len(sec) != 32 {
		return errors.New("secret key must be 32 bytes")
	}

	sk := cn25519.SecretKey(sec)
	pub, err := cn25519.SecretKeyToPublicKey(sk)
	if err != nil {
		return err
	}
	P, err := pub.Point()
	if err != nil {
		return err
	}

	s.Zero()
	s.sec = sk
	s.pub = pub
	s.table = cn25519.NewPrecomputedTable(P)
	s.hasSecret = true
	s.hasPublic = true

	return nil
}

// InitPub initializes the public (verification) key from raw bytes. Keys
// outside the prime-order subgroup are rejected.
func (s *Signer) InitPub(pub []byte) error {
	if len(pub) != 32 {
		return errors.New("public key must be 32 bytes")
	}

	pk := cn25519.PublicKey(pub)
	P, err := cn25519.ParsePublicKey(pk)
	if err != nil {
		return err
	}

	s.Zero()
	s.pub = pk
	s.table = cn25519.NewPrecomputedTable(P)
	s.hasPublic = true

	return nil
}

// Sec returns the secret key bytes
func (s *Signer) Sec() []byte {
	if !s.hasSecret {
		return nil
	}
	sec := s.sec
	return sec[:]
}

// Pub returns the compressed public key bytes
func (s *Signer) Pub() []byte {
	if !s.hasPublic {
		return nil
	}
	pub := s.pub
	return pub[:]
}

// Sign creates a signature using the stored secret key
func (s *Signer) Sign(msg []byte) (sig []byte, err error) {
	if !s.hasSecret {
		return nil, errors.New("no secret key available for signing")
	}

	if len(msg) != cn25519.HashSize {
		return nil, errors.New("message must be 32 bytes")
	}

	sig64, err := s.ctx.GenerateSignature(cn25519.Hash(msg), s.pub, s.sec)
	if err != nil {
		return nil, err
	}

	return sig64[:], nil
}

// Verify checks a message hash and signature match the stored public key.
// A signature that fails to verify is reported as invalid, not as an error.
func (s *Signer) Verify(msg, sig []byte) (valid bool, err error) {
	if !s.hasPublic {
		return false, errors.New("no public key available for verification")
	}

	if len(msg) != cn25519.HashSize {
		return false, errors.New("message must be 32 bytes")
	}

	if len(sig) != cn25519.SignatureSize {
		return false, errors.New("signature must be 64 bytes")
	}

	err = s.ctx.VerifySignaturePrecomp(cn25519.Hash(msg), s.pub, s.table, cn25519.Signature(sig))
	return err == nil, nil
}

// Zero wipes the secret key to prevent memory leaks
func (s *Signer) Zero() {
	s.sec.Zero()
	s.pub = cn25519.PublicKey{}
	s.table = nil
	s.hasSecret = false
	s.hasPublic = false
}

// ECDH returns the key derivation 8*sec*pub shared with the holder of pub
func (s *Signer) ECDH(pub []byte) (secret []byte, err error) {
	if !s.hasSecret {
		return nil, errors.New("no secret key available for ECDH")
	}

	if len(pub) != 32 {
		return nil, errors.New("public key must be 32 bytes")
	}

	d, err := cn25519.GenerateKeyDerivation(cn25519.PublicKey(pub), s.sec)
	if err != nil {
		return nil, err
	}

	return d[:], nil
}

// KeyGen implements the Gen interface
type KeyGen struct {
	ctx *cn25519.Context
	sec cn25519.SecretKey
	pub cn25519.PublicKey
	has bool
}

var _ Gen = (*KeyGen)(nil)

// NewKeyGen creates a new KeyGen instance using the default context
func NewKeyGen() *KeyGen {
	return &KeyGen{ctx: cn25519.DefaultContext()}
}

// Generate gathers entropy and derives the public key bytes for matching
func (g *KeyGen) Generate() (pubBytes []byte, err error) {
	sec, pub, err := g.ctx.RandomKeyPair()
	if err != nil {
		return nil, err
	}

	g.sec.Zero()
	g.sec = sec
	g.pub = pub
	g.has = true

	return pub[:], nil
}

// Negate replaces the key pair (x, X) with (-x, -X). On this curve the
// negation flips only the sign bit of the public key encoding.
func (g *KeyGen) Negate() {
	if !g.has {
		return
	}

	x, err := g.sec.Scalar()
	if err != nil {
		return
	}
	x.Negate(x)
	g.sec = cn25519.SecretKey(x.Bytes())

	pub, err := cn25519.SecretKeyToPublicKey(g.sec)
	if err != nil {
		return
	}
	g.pub = pub
}

// KeyPairBytes returns the raw bytes of the secret and public key
func (g *KeyGen) KeyPairBytes() (secBytes, cmprPubBytes []byte) {
	if !g.has {
		return nil, nil
	}

	sec, pub := g.sec, g.pub
	return sec[:], pub[:]
}
