package cn25519

import (
	"encoding/hex"
)

// SignatureSize is the length of an encoded signature
const SignatureSize = 64

// nonceDomain separates signature nonces from every other Keccak-512 use
var nonceDomain = []byte("cn25519/signature-nonce")

// Signature is a Schnorr signature: the challenge scalar c followed by the
// response scalar r, both 32-byte little-endian
type Signature [SignatureSize]byte

// String returns the hex encoding of sig
func (sig Signature) String() string {
	return hex.EncodeToString(sig[:])
}

// Challenge returns the encoded challenge scalar
func (sig *Signature) Challenge() []byte {
	return sig[:32]
}

// Response returns the encoded response scalar
func (sig *Signature) Response() []byte {
	return sig[32:]
}

// parse decodes both scalars, rejecting non-canonical encodings
func (sig *Signature) parse() (c, r *Scalar, err error) {
	if c, err = new(Scalar).SetCanonicalBytes(sig.Challenge()); err != nil {
		return nil, nil, err
	}
	if r, err = new(Scalar).SetCanonicalBytes(sig.Response()); err != nil {
		return nil, nil, err
	}
	return c, r, nil
}

// GenerateSignature signs prefixHash with sec, whose public key is pub.
//
// The nonce is the Keccak-512 digest of the secret key, the message and 32
// fresh random bytes, reduced modulo l. A failing entropy source makes the
// call fail with ErrEntropy; a biased one cannot cause nonce reuse.
func (ctx *Context) GenerateSignature(prefixHash Hash, pub PublicKey, sec SecretKey) (Signature, error) {
	s, err := sec.Scalar()
	if err != nil {
		return Signature{}, err
	}
	defer s.clear()

	var entropy [32]byte
	if err := ctx.readEntropy(entropy[:]); err != nil {
		return Signature{}, err
	}

	wide := nonceHash(nonceDomain, sec[:], prefixHash[:], pub[:], entropy[:])
	k := new(Scalar).ReduceWide(&wide)
	clear(wide[:])
	defer k.clear()

	var R Point
	EcmultGen(&R, k)
	comm := R.Bytes()

	c := HashToScalar(ctx.hasher, comm[:], pub[:], prefixHash[:])

	// r = k - c*s
	var r Scalar
	r.MulSub(c, s, k)
	r.Negate(&r)

	var sig Signature
	cb, rb := c.Bytes(), r.Bytes()
	copy(sig[:32], cb[:])
	copy(sig[32:], rb[:])
	return sig, nil
}

// VerifySignature checks sig against prefixHash and pub. It returns nil for
// a valid signature, ErrInvalidScalar or ErrPointDecoding for malformed
// input, and ErrVerification otherwise.
func (ctx *Context) VerifySignature(prefixHash Hash, pub PublicKey, sig Signature) error {
	P, err := pub.Point()
	if err != nil {
		return err
	}
	var table PrecomputedTable
	table.init(P)
	return ctx.verify(prefixHash, pub, &table, &sig)
}

// VerifySignaturePrecomp is VerifySignature with a caller-supplied table
// for pub, for verifiers that check many signatures by the same key.
// The table must have been built from the point pub decodes to.
func (ctx *Context) VerifySignaturePrecomp(prefixHash Hash, pub PublicKey, table *PrecomputedTable, sig Signature) error {
	return ctx.verify(prefixHash, pub, table, &sig)
}

// verify recomputes the commitment R' = c*P + r*B and compares the
// challenge derived from it with c
func (ctx *Context) verify(prefixHash Hash, pub PublicKey, table *PrecomputedTable, sig *Signature) error {
	c, r, err := sig.parse()
	if err != nil {
		return err
	}
	if c.IsZero() {
		return makeError(ErrVerification, "signature challenge is zero")
	}

	var R Point
	EcmultDoubleGenPrecompVar(&R, c, table, r)
	if R.IsIdentity() {
		return makeError(ErrVerification, "signature commitment is the identity")
	}
	comm := R.Bytes()

	check := HashToScalar(ctx.hasher, comm[:], pub[:], prefixHash[:])
	if !check.Equal(c) {
		return makeError(ErrVerification, "signature challenge mismatch")
	}
	return nil
}

// CheckSignature reports whether sig is a valid signature of prefixHash
// by pub
func (ctx *Context) CheckSignature(prefixHash Hash, pub PublicKey, sig Signature) bool {
	return ctx.VerifySignature(prefixHash, pub, sig) == nil
}

// GenerateSignature signs with the default context
func GenerateSignature(prefixHash Hash, pub PublicKey, sec SecretKey) (Signature, error) {
	return defaultContext.GenerateSignature(prefixHash, pub, sec)
}

// VerifySignature verifies with the default context
func VerifySignature(prefixHash Hash, pub PublicKey, sig Signature) error {
	return defaultContext.VerifySignature(prefixHash, pub, sig)
}

// CheckSignature verifies with the default context
func CheckSignature(prefixHash Hash, pub PublicKey, sig Signature) bool {
	return defaultContext.CheckSignature(prefixHash, pub, sig)
}
