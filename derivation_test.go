package cn25519

import (
	"encoding/hex"
	"errors"
	"testing"
)

// eightBDerivation is the derivation with sec = 1 and pub = B
func eightBDerivation(t testing.TB) KeyDerivation {
	t.Helper()
	var d KeyDerivation
	if _, err := hex.Decode(d[:], []byte(eightBHex)); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestGenerateKeyDerivation(t *testing.T) {
	one := SecretKey{1}
	B := PublicKey(NewGeneratorPoint().Bytes())

	d, err := GenerateKeyDerivation(B, one)
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != eightBHex {
		t.Errorf("derivation(B, 1) = %s, want 8B", d)
	}

	// Both parties of the exchange agree
	for i := 0; i < 10; i++ {
		secA, pubA, err := RandomKeyPair()
		if err != nil {
			t.Fatal(err)
		}
		secB, pubB, err := RandomKeyPair()
		if err != nil {
			t.Fatal(err)
		}
		dA, err := GenerateKeyDerivation(pubB, secA)
		if err != nil {
			t.Fatal(err)
		}
		dB, err := GenerateKeyDerivation(pubA, secB)
		if err != nil {
			t.Fatal(err)
		}
		if dA != dB {
			t.Fatalf("derivations differ: %s vs %s", dA, dB)
		}
	}
}

func TestGenerateKeyDerivationTorsion(t *testing.T) {
	_, pub, err := RandomKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	sec, _, err := RandomKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	// The cofactor multiplication clears a torsion component of pub
	P, _ := pub.Point()
	P.Add(P, mustPoint(t, order8PointHex))
	dirty := PublicKey(P.Bytes())

	clean, err := GenerateKeyDerivation(pub, sec)
	if err != nil {
		t.Fatal(err)
	}
	withTorsion, err := GenerateKeyDerivation(dirty, sec)
	if err != nil {
		t.Fatal(err)
	}
	if clean != withTorsion {
		t.Error("torsion component leaked into the derivation")
	}
}

func TestGenerateKeyDerivationErrors(t *testing.T) {
	var badPub PublicKey
	hex.Decode(badPub[:], []byte(nonPointHex))
	if _, err := GenerateKeyDerivation(badPub, SecretKey{1}); !errors.Is(err, ErrPointDecoding) {
		t.Errorf("bad public key: got %v, want ErrPointDecoding", err)
	}

	var badSec SecretKey
	for i := range badSec {
		badSec[i] = 0xFF
	}
	B := PublicKey(NewGeneratorPoint().Bytes())
	if _, err := GenerateKeyDerivation(B, badSec); !errors.Is(err, ErrInvalidScalar) {
		t.Errorf("bad secret key: got %v, want ErrInvalidScalar", err)
	}
}

func TestDerivationToScalar(t *testing.T) {
	d := eightBDerivation(t)

	testCases := []struct {
		index    uint64
		expected string
	}{
		{0, "23e6d989cf1fe558b50cab4edd82e87d543333be688720cfe42a4c6a702f7f01"},
		{1, "81ca18795ab2addcd8b4e0ef887107ff55df8e4480b5fb4b93d8be9f4ab0a304"},
		// two varint bytes
		{300, "a90abb96ab90bfb851640f08c793f27d27d3eee909885c44a83ec2d7d5023106"},
	}

	for _, tc := range testCases {
		s := DerivationToScalar(d, tc.index)
		b := s.Bytes()
		if got := hex.EncodeToString(b[:]); got != tc.expected {
			t.Errorf("index %d: got %s, want %s", tc.index, got, tc.expected)
		}
	}
}

func TestDeriveOutputKeys(t *testing.T) {
	d := eightBDerivation(t)
	B := PublicKey(NewGeneratorPoint().Bytes())

	pub, err := DeriveOutputPublicKey(d, 1, B)
	if err != nil {
		t.Fatal(err)
	}
	if pub.String() != "4abbf7564602edb59e81decad50aa40a904824826b1d611d7a2fb200d625d720" {
		t.Errorf("DeriveOutputPublicKey = %s", pub)
	}

	sec, err := DeriveOutputSecretKey(d, 1, SecretKey{1})
	if err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(sec[:]); got != "82ca18795ab2addcd8b4e0ef887107ff55df8e4480b5fb4b93d8be9f4ab0a304" {
		t.Errorf("DeriveOutputSecretKey = %s", got)
	}

	check, err := SecretKeyToPublicKey(sec)
	if err != nil {
		t.Fatal(err)
	}
	if check != pub {
		t.Error("derived secret key does not match derived public key")
	}
}

func TestDeriveOutputRoundTrip(t *testing.T) {
	viewSec, viewPub, err := RandomKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	spendSec, spendPub, err := RandomKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	txSec, txPub, err := RandomKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	// The sender derives from the transaction key and the view key
	senderD, err := GenerateKeyDerivation(viewPub, txSec)
	if err != nil {
		t.Fatal(err)
	}
	// The receiver derives the same from its view secret
	receiverD, err := GenerateKeyDerivation(txPub, viewSec)
	if err != nil {
		t.Fatal(err)
	}

	for index := uint64(0); index < 4; index++ {
		out, err := DeriveOutputPublicKey(senderD, index, spendPub)
		if err != nil {
			t.Fatal(err)
		}

		spend, err := UnderiveOutputPublicKey(receiverD, index, out)
		if err != nil {
			t.Fatal(err)
		}
		if spend != spendPub {
			t.Fatalf("index %d: underived key does not match the spend key", index)
		}

		outSec, err := DeriveOutputSecretKey(receiverD, index, spendSec)
		if err != nil {
			t.Fatal(err)
		}
		outPub, err := SecretKeyToPublicKey(outSec)
		if err != nil {
			t.Fatal(err)
		}
		if outPub != out {
			t.Fatalf("index %d: output secret key does not match output key", index)
		}

		// Another index does not underive to the spend key
		wrong, err := UnderiveOutputPublicKey(receiverD, index+1, out)
		if err != nil {
			t.Fatal(err)
		}
		if wrong == spendPub {
			t.Fatalf("index %d: wrong index underived to the spend key", index)
		}
	}
}

func TestGenerateKeyImage(t *testing.T) {
	sec, pub := testKeyPair(t)

	ki, err := GenerateKeyImage(pub, sec)
	if err != nil {
		t.Fatal(err)
	}
	const expected = "e893647916e7285c47134d0a669ad0c7d30a84a7ea2ee1c3d75598eb28fc3180"
	if ki.String() != expected {
		t.Errorf("key image mismatch.\nExpected: %s\nGot:      %s", expected, ki)
	}
	if err := CheckKeyImage(ki); err != nil {
		t.Errorf("valid key image rejected: %v", err)
	}

	// Deterministic per key pair, distinct across key pairs
	again, err := GenerateKeyImage(pub, sec)
	if err != nil {
		t.Fatal(err)
	}
	if again != ki {
		t.Error("key image is not deterministic")
	}
	otherSec, otherPub, err := RandomKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	other, err := GenerateKeyImage(otherPub, otherSec)
	if err != nil {
		t.Fatal(err)
	}
	if other == ki {
		t.Error("different key pairs gave the same key image")
	}
	if err := CheckKeyImage(other); err != nil {
		t.Errorf("valid key image rejected: %v", err)
	}
}

func TestCheckKeyImage(t *testing.T) {
	var torsion, notPoint KeyImage
	hex.Decode(torsion[:], []byte(order8PointHex))
	hex.Decode(notPoint[:], []byte(nonPointHex))

	if err := CheckKeyImage(torsion); !errors.Is(err, ErrSubgroupViolation) {
		t.Errorf("torsion key image: got %v, want ErrSubgroupViolation", err)
	}
	if err := CheckKeyImage(notPoint); !errors.Is(err, ErrPointDecoding) {
		t.Errorf("invalid key image: got %v, want ErrPointDecoding", err)
	}

	// A valid image with a torsion component added
	sec, pub := testKeyPair(t)
	ki, err := GenerateKeyImage(pub, sec)
	if err != nil {
		t.Fatal(err)
	}
	I := mustPoint(t, ki.String())
	I.Add(I, mustPoint(t, minusOneYHex))
	if err := CheckKeyImage(KeyImage(I.Bytes())); !errors.Is(err, ErrSubgroupViolation) {
		t.Errorf("key image with torsion: got %v, want ErrSubgroupViolation", err)
	}
}
