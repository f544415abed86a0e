package signer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"cn25519.mleku.dev"
)

func TestSigner_Generate(t *testing.T) {
	s := NewSigner()
	require.NoError(t, s.Generate())
	defer s.Zero()

	sec := s.Sec()
	require.Len(t, sec, 32, "secret key should be 32 bytes")
	pub := s.Pub()
	require.Len(t, pub, 32, "public key should be 32 bytes")

	msg := make([]byte, 32)
	sig, err := s.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	valid, err := s.Verify(msg, sig)
	require.NoError(t, err)
	assert.True(t, valid, "signature should be valid")

	wrongMsg := make([]byte, 32)
	wrongMsg[0] = 1
	valid, err = s.Verify(wrongMsg, sig)
	require.NoError(t, err)
	assert.False(t, valid, "signature should be invalid for wrong message")
}

func TestSigner_InitSec(t *testing.T) {
	seckey := make([]byte, 32)
	for i := 0; i < 31; i++ {
		seckey[i] = byte(i + 1)
	}

	s := NewSigner()
	require.NoError(t, s.InitSec(seckey))
	defer s.Zero()

	assert.Equal(t, seckey, s.Sec())

	expected, err := cn25519.SecretKeyToPublicKey(cn25519.SecretKey(seckey))
	require.NoError(t, err)
	assert.Equal(t, expected[:], s.Pub())

	msg := make([]byte, 32)
	sig, err := s.Sign(msg)
	require.NoError(t, err)
	assert.Len(t, sig, 64)
}

func TestSigner_InitSecRejectsUnreduced(t *testing.T) {
	seckey := bytes.Repeat([]byte{0xff}, 32)

	s := NewSigner()
	err := s.InitSec(seckey)
	require.Error(t, err)
	assert.ErrorIs(t, err, cn25519.ErrInvalidScalar)
	assert.Nil(t, s.Sec())

	assert.Error(t, s.InitSec(make([]byte, 31)))
}

func TestSigner_InitPub(t *testing.T) {
	sec, pub, err := cn25519.RandomKeyPair()
	require.NoError(t, err)

	s := NewSigner()
	require.NoError(t, s.InitPub(pub[:]))
	defer s.Zero()

	assert.Equal(t, pub[:], s.Pub())
	assert.Nil(t, s.Sec())

	msg := make([]byte, 32)
	_, err = s.Sign(msg)
	assert.Error(t, err, "should not be able to sign with only public key")

	sig, err := cn25519.GenerateSignature(cn25519.Hash(msg), pub, sec)
	require.NoError(t, err)

	valid, err := s.Verify(msg, sig[:])
	require.NoError(t, err)
	assert.True(t, valid, "signature should be valid")

	// the cached table is reused by the second verification
	valid, err = s.Verify(msg, sig[:])
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSigner_InitPubRejectsTorsion(t *testing.T) {
	var B cn25519.Point
	B.Generator()

	// B plus the point (0, -1) of order 2
	var T cn25519.Point
	order2 := make([]byte, 32)
	order2[0] = 0xec
	for i := 1; i < 31; i++ {
		order2[i] = 0xff
	}
	order2[31] = 0x7f
	_, err := T.SetBytes(order2)
	require.NoError(t, err)
	T.Add(&T, &B)
	mixed := T.Bytes()

	s := NewSigner()
	err = s.InitPub(mixed[:])
	assert.ErrorIs(t, err, cn25519.ErrSubgroupViolation)
}

func TestSigner_VerifyInputLengths(t *testing.T) {
	s := NewSigner()
	_, err := s.Verify(make([]byte, 32), make([]byte, 64))
	assert.Error(t, err, "no public key")

	require.NoError(t, s.Generate())
	defer s.Zero()

	_, err = s.Verify(make([]byte, 31), make([]byte, 64))
	assert.Error(t, err)
	_, err = s.Verify(make([]byte, 32), make([]byte, 63))
	assert.Error(t, err)
	_, err = s.Sign(make([]byte, 33))
	assert.Error(t, err)
}

func TestSigner_VerifyConcurrent(t *testing.T) {
	s := NewSigner()
	require.NoError(t, s.Generate())
	defer s.Zero()
	require.NotNil(t, s.table, "Generate should build the verification table")

	msg := bytes.Repeat([]byte{7}, 32)
	sig, err := s.Sign(msg)
	require.NoError(t, err)

	verifier := NewSigner()
	require.NoError(t, verifier.InitPub(s.Pub()))
	require.NotNil(t, verifier.table, "InitPub should build the verification table")
	table := verifier.table

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 4; j++ {
				valid, err := verifier.Verify(msg, sig)
				if err != nil {
					return err
				}
				if !valid {
					return errors.New("signature rejected")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Same(t, table, verifier.table, "Verify should not replace the table")

	other := NewSigner()
	require.NoError(t, other.InitSec(s.Sec()))
	assert.NotNil(t, other.table, "InitSec should build the verification table")
}

func TestSigner_ECDH(t *testing.T) {
	s1 := NewSigner()
	require.NoError(t, s1.Generate())
	defer s1.Zero()

	s2 := NewSigner()
	require.NoError(t, s2.Generate())
	defer s2.Zero()

	secret1, err := s1.ECDH(s2.Pub())
	require.NoError(t, err)
	secret2, err := s2.ECDH(s1.Pub())
	require.NoError(t, err)

	assert.Len(t, secret1, 32)
	assert.Equal(t, secret1, secret2, "shared secrets should match")
}

func TestSigner_Zero(t *testing.T) {
	s := NewSigner()
	require.NoError(t, s.Generate())
	s.Zero()

	assert.Nil(t, s.Sec())
	assert.Nil(t, s.Pub())
	_, err := s.ECDH(make([]byte, 32))
	assert.Error(t, err)
}

func TestKeyGen_Generate(t *testing.T) {
	g := NewKeyGen()

	pubBytes, err := g.Generate()
	require.NoError(t, err)
	require.Len(t, pubBytes, 32)

	secBytes, pub := g.KeyPairBytes()
	require.Len(t, secBytes, 32)
	assert.Equal(t, pubBytes, pub)

	expected, err := cn25519.SecretKeyToPublicKey(cn25519.SecretKey(secBytes))
	require.NoError(t, err)
	assert.Equal(t, expected[:], pub)
}

func TestKeyGen_Negate(t *testing.T) {
	g := NewKeyGen()

	pub1, err := g.Generate()
	require.NoError(t, err)
	pub1 = append([]byte(nil), pub1...)

	g.Negate()
	_, pub2 := g.KeyPairBytes()

	// Only the sign bit of x differs
	assert.Equal(t, pub1[31]^0x80, pub2[31])
	assert.Equal(t, pub1[:31], pub2[:31])

	g.Negate()
	_, pub3 := g.KeyPairBytes()
	assert.Equal(t, pub1, pub3)
}

func TestKeyGen_Empty(t *testing.T) {
	g := NewKeyGen()
	g.Negate()
	sec, pub := g.KeyPairBytes()
	assert.Nil(t, sec)
	assert.Nil(t, pub)
}
