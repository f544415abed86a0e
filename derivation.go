package cn25519

import (
	"encoding/binary"
	"encoding/hex"
)

// KeyDerivation is the compressed Diffie-Hellman point 8*a*B shared by the
// sender and the receiver of an output
type KeyDerivation [32]byte

// String returns the hex encoding of d
func (d KeyDerivation) String() string {
	return hex.EncodeToString(d[:])
}

// KeyImage is the compressed point x*Hp(P) for a one-time key pair (x, P).
// It is unique per key pair and reveals neither key.
type KeyImage [32]byte

// String returns the hex encoding of ki
func (ki KeyImage) String() string {
	return hex.EncodeToString(ki[:])
}

// GenerateKeyDerivation computes 8 * sec * pub in constant time with
// respect to sec. The cofactor multiplication clears any torsion component
// of pub. It fails if pub does not decode or sec is not canonical.
func GenerateKeyDerivation(pub PublicKey, sec SecretKey) (KeyDerivation, error) {
	P, err := pub.Point()
	if err != nil {
		return KeyDerivation{}, err
	}
	s, err := sec.Scalar()
	if err != nil {
		return KeyDerivation{}, err
	}
	defer s.clear()

	var D Point
	EcmultConst(&D, s, P)
	D.MulByCofactor(&D)
	return KeyDerivation(D.Bytes()), nil
}

// DerivationToScalar hashes the derivation with the varint encoding of the
// output index and reduces the digest modulo l
func (ctx *Context) DerivationToScalar(d KeyDerivation, index uint64) *Scalar {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], index)
	return HashToScalar(ctx.hasher, d[:], buf[:n])
}

// DeriveOutputSecretKey returns base + Hs(d || index), the one-time secret
// key of output index
func (ctx *Context) DeriveOutputSecretKey(d KeyDerivation, index uint64, base SecretKey) (SecretKey, error) {
	b, err := base.Scalar()
	if err != nil {
		return SecretKey{}, err
	}
	defer b.clear()

	h := ctx.DerivationToScalar(d, index)
	defer h.clear()

	var out Scalar
	out.Add(b, h)
	defer out.clear()
	return SecretKey(out.Bytes()), nil
}

// DeriveOutputPublicKey returns base + Hs(d || index)*B, the one-time
// public key of output index. It matches DeriveOutputSecretKey under
// scalar multiplication by B.
func (ctx *Context) DeriveOutputPublicKey(d KeyDerivation, index uint64, base PublicKey) (PublicKey, error) {
	P, err := base.Point()
	if err != nil {
		return PublicKey{}, err
	}

	var H Point
	EcmultGen(&H, ctx.DerivationToScalar(d, index))
	P.Add(P, &H)
	return PublicKey(P.Bytes()), nil
}

// UnderiveOutputPublicKey inverts DeriveOutputPublicKey: given a one-time
// public key it returns out - Hs(d || index)*B. A receiver scanning outputs
// compares the result with its own spend key.
func (ctx *Context) UnderiveOutputPublicKey(d KeyDerivation, index uint64, out PublicKey) (PublicKey, error) {
	P, err := out.Point()
	if err != nil {
		return PublicKey{}, err
	}

	var H Point
	EcmultGen(&H, ctx.DerivationToScalar(d, index))
	P.Subtract(P, &H)
	return PublicKey(P.Bytes()), nil
}

// GenerateKeyImage computes sec * Hp(pub), where Hp hashes the public key
// onto the prime-order subgroup. sec must be the secret key of pub.
func (ctx *Context) GenerateKeyImage(pub PublicKey, sec SecretKey) (KeyImage, error) {
	s, err := sec.Scalar()
	if err != nil {
		return KeyImage{}, err
	}
	defer s.clear()

	Hp := HashToPointVar(ctx.hasher, pub[:])

	var I Point
	EcmultConst(&I, s, Hp)
	return KeyImage(I.Bytes()), nil
}

// DerivationToScalar uses the default context
func DerivationToScalar(d KeyDerivation, index uint64) *Scalar {
	return defaultContext.DerivationToScalar(d, index)
}

// DeriveOutputSecretKey uses the default context
func DeriveOutputSecretKey(d KeyDerivation, index uint64, base SecretKey) (SecretKey, error) {
	return defaultContext.DeriveOutputSecretKey(d, index, base)
}

// DeriveOutputPublicKey uses the default context
func DeriveOutputPublicKey(d KeyDerivation, index uint64, base PublicKey) (PublicKey, error) {
	return defaultContext.DeriveOutputPublicKey(d, index, base)
}

// UnderiveOutputPublicKey uses the default context
func UnderiveOutputPublicKey(d KeyDerivation, index uint64, out PublicKey) (PublicKey, error) {
	return defaultContext.UnderiveOutputPublicKey(d, index, out)
}

// GenerateKeyImage uses the default context
func GenerateKeyImage(pub PublicKey, sec SecretKey) (KeyImage, error) {
	return defaultContext.GenerateKeyImage(pub, sec)
}

// CheckKeyImage decodes ki and checks that it lies in the prime-order
// subgroup
func CheckKeyImage(ki KeyImage) error {
	var I Point
	if _, err := I.SetBytes(ki[:]); err != nil {
		return err
	}
	if !CheckSubgroupVar(&I) {
		return makeError(ErrSubgroupViolation, "key image has a small order component")
	}
	return nil
}
