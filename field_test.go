package cn25519

import (
	"bytes"
	"crypto/rand"
	"testing"

	"filippo.io/edwards25519/field"
	"github.com/davecgh/go-spew/spew"
)

// randomFieldBytes returns 32 random bytes with the top bit cleared
func randomFieldBytes(t testing.TB) [32]byte {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		t.Fatal(err)
	}
	b[31] &= 0x7F
	return b
}

// toOracleField converts r to a filippo.io/edwards25519 field element
func toOracleField(t testing.TB, r *FieldElement) *field.Element {
	b := r.bytes()
	e, err := new(field.Element).SetBytes(b[:])
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestFieldElementBasics(t *testing.T) {
	var zero FieldElement
	if zero.isZero() != 1 {
		t.Error("Zero value should be zero")
	}

	one := FieldElementOne
	if one.isZero() != 0 {
		t.Error("One should not be zero")
	}

	var one2 FieldElement
	one2.setInt(1)
	if one.equal(&one2) != 1 {
		t.Error("Two ones should be equal")
	}

	var two FieldElement
	two.add(&one, &one2)
	if two.bytes()[0] != 2 {
		t.Errorf("1 + 1 encodes as %x", two.bytes())
	}
}

func TestFieldElementBytes(t *testing.T) {
	// p = 2^255 - 19
	var p [32]byte
	p[0] = 0xED
	for i := 1; i < 31; i++ {
		p[i] = 0xFF
	}
	p[31] = 0x7F

	pPlusOne := p
	pPlusOne[0]++

	var allOnes [32]byte
	for i := range allOnes {
		allOnes[i] = 0xFF
	}

	testCases := []struct {
		name     string
		in       [32]byte
		expected [32]byte
	}{
		{
			name: "zero",
		},
		{
			name:     "one",
			in:       [32]byte{1},
			expected: [32]byte{1},
		},
		{
			name: "p",
			in:   p,
		},
		{
			name:     "p_plus_one",
			in:       pPlusOne,
			expected: [32]byte{1},
		},
		{
			name:     "top_bit_ignored",
			in:       [32]byte{5, 31: 0x80},
			expected: [32]byte{5},
		},
		{
			name:     "all_ones",
			in:       allOnes,
			expected: [32]byte{18},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var fe FieldElement
			fe.setBytes(&tc.in)
			if got := fe.bytes(); got != tc.expected {
				t.Errorf("got %x, want %x", got, tc.expected)
			}
		})
	}
}

func TestFieldElementSetWideBytes(t *testing.T) {
	var b [32]byte
	for i := range b {
		b[i] = 0xFF
	}

	// 2^256 - 1 = 2 * 19 - 1 mod p
	var fe FieldElement
	fe.setWideBytes(&b)
	if got := fe.bytes(); got != [32]byte{37} {
		t.Errorf("got %x, want 37", got)
	}

	// Without the top bit both setters agree
	for i := 0; i < 20; i++ {
		in := randomFieldBytes(t)
		var x, y FieldElement
		x.setBytes(&in)
		y.setWideBytes(&in)
		if x.equal(&y) != 1 {
			t.Fatalf("setWideBytes differs from setBytes for %x", in)
		}
	}
}

func TestFieldElementArithmetic(t *testing.T) {
	for i := 0; i < 100; i++ {
		ab, bb := randomFieldBytes(t), randomFieldBytes(t)

		var a, b FieldElement
		a.setBytes(&ab)
		b.setBytes(&bb)
		oa, ob := toOracleField(t, &a), toOracleField(t, &b)

		var r FieldElement
		check := func(name string, want *field.Element) {
			t.Helper()
			got := r.bytes()
			if !bytes.Equal(got[:], want.Bytes()) {
				t.Fatalf("%s mismatch\na: %s\nb: %s\ngot:  %x\nwant: %x",
					name, spew.Sdump(a), spew.Sdump(b), got, want.Bytes())
			}
		}

		r.add(&a, &b)
		check("add", new(field.Element).Add(oa, ob))

		r.sub(&a, &b)
		check("sub", new(field.Element).Subtract(oa, ob))

		r.mul(&a, &b)
		check("mul", new(field.Element).Multiply(oa, ob))

		r.sqr(&a)
		check("sqr", new(field.Element).Square(oa))

		r.negate(&a)
		check("negate", new(field.Element).Negate(oa))

		r.inv(&a)
		check("inv", new(field.Element).Invert(oa))
	}
}

func TestFieldElementInverse(t *testing.T) {
	var zero, r FieldElement
	r.inv(&zero)
	if r.isZero() != 1 {
		t.Error("inverse of zero should be zero")
	}

	for i := 0; i < 20; i++ {
		ab := randomFieldBytes(t)
		var a, check FieldElement
		a.setBytes(&ab)
		if a.isZero() == 1 {
			continue
		}
		r.inv(&a)
		check.mul(&r, &a)
		if check.equal(&FieldElementOne) != 1 {
			t.Fatalf("a * 1/a != 1 for a = %x", ab)
		}
	}
}

func TestFieldElementSqrN(t *testing.T) {
	ab := randomFieldBytes(t)
	var a, x, y FieldElement
	a.setBytes(&ab)

	x.sqrN(&a, 5)
	y.set(&a)
	for i := 0; i < 5; i++ {
		y.sqr(&y)
	}
	if x.equal(&y) != 1 {
		t.Error("sqrN(a, 5) differs from five squarings")
	}
}

func TestFieldElementSqrtRatio(t *testing.T) {
	for i := 0; i < 20; i++ {
		ab := randomFieldBytes(t)
		var a, u, r, check FieldElement
		a.setBytes(&ab)
		u.sqr(&a)

		if r.sqrtRatio(&u, &FieldElementOne) != 1 {
			t.Fatal("square should have a root")
		}
		check.sqr(&r)
		if check.equal(&u) != 1 {
			t.Fatal("root squared differs from the input")
		}
		if r.isNegative() != 0 {
			t.Fatal("root should be non-negative")
		}
	}

	// 2 is not a square modulo p
	var two, r FieldElement
	two.setInt(2)
	if r.sqrtRatio(&two, &FieldElementOne) != 0 {
		t.Error("2 should not have a square root")
	}

	// u/v with v = 0 has no root unless u = 0
	var zero FieldElement
	if r.sqrtRatio(&FieldElementOne, &zero) != 0 {
		t.Error("1/0 should not have a square root")
	}
	if r.sqrtRatio(&zero, &FieldElementOne) != 1 || r.isZero() != 1 {
		t.Error("sqrt(0) should be 0")
	}
}

func TestFieldConstants(t *testing.T) {
	var x, y FieldElement

	// d * 121666 = -121665
	x.setInt(121666)
	x.mul(&x, &fieldD)
	y.setInt(121665)
	y.negate(&y)
	if x.equal(&y) != 1 {
		t.Error("d is not -121665/121666")
	}

	x.add(&fieldD, &fieldD)
	if x.equal(&fieldD2) != 1 {
		t.Error("fieldD2 is not 2*d")
	}

	x.sqr(&fieldSqrtM1)
	y.negate(&FieldElementOne)
	if x.equal(&y) != 1 {
		t.Error("fieldSqrtM1 squared is not -1")
	}

	var A, A2, AA2 FieldElement
	A.setInt(486662)
	x.negate(&A)
	if x.equal(&fieldMinusA) != 1 {
		t.Error("fieldMinusA is not -486662")
	}
	A2.sqr(&A)
	x.negate(&A2)
	if x.equal(&fieldMinusASquared) != 1 {
		t.Error("fieldMinusASquared is not -A^2")
	}

	// AA2 = A(A+2)
	AA2.setInt(486664)
	AA2.mul(&AA2, &A)

	var two FieldElement
	two.setInt(2)

	cases := []struct {
		name string
		root *FieldElement
		want func(*FieldElement)
	}{
		{"fffb1", &fieldFFFB1, func(r *FieldElement) { r.mul(&AA2, &two); r.negate(r) }},
		{"fffb2", &fieldFFFB2, func(r *FieldElement) { r.mul(&AA2, &two) }},
		{"fffb3", &fieldFFFB3, func(r *FieldElement) { r.mul(&AA2, &fieldSqrtM1); r.negate(r) }},
		{"fffb4", &fieldFFFB4, func(r *FieldElement) { r.mul(&AA2, &fieldSqrtM1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var sq, want FieldElement
			sq.sqr(tc.root)
			tc.want(&want)
			if sq.equal(&want) != 1 {
				t.Errorf("%s squared is wrong", tc.name)
			}
		})
	}
}

func TestFieldElementConditionalMove(t *testing.T) {
	ab, bb := randomFieldBytes(t), randomFieldBytes(t)
	var a, b FieldElement
	a.setBytes(&ab)
	b.setBytes(&bb)

	r := a
	r.cmov(&b, 0)
	if r.equal(&a) != 1 {
		t.Error("cmov with flag 0 should not move")
	}
	r.cmov(&b, 1)
	if r.equal(&b) != 1 {
		t.Error("cmov with flag 1 should move")
	}

	x, y := a, b
	x.swap(&y, 0)
	if x.equal(&a) != 1 || y.equal(&b) != 1 {
		t.Error("swap with flag 0 should not swap")
	}
	x.swap(&y, 1)
	if x.equal(&b) != 1 || y.equal(&a) != 1 {
		t.Error("swap with flag 1 should swap")
	}

	var neg, sum FieldElement
	neg.condNegate(&a, 1)
	sum.add(&neg, &a)
	if sum.isZero() != 1 {
		t.Error("condNegate with flag 1 should negate")
	}
	neg.condNegate(&a, 0)
	if neg.equal(&a) != 1 {
		t.Error("condNegate with flag 0 should copy")
	}

	var abs FieldElement
	abs.abs(&a)
	if abs.isNegative() != 0 {
		t.Error("abs should be non-negative")
	}
}

func TestBatchInverse(t *testing.T) {
	const n = 16
	a := make([]FieldElement, n)
	for i := range a {
		b := randomFieldBytes(t)
		a[i].setBytes(&b)
	}

	out := make([]FieldElement, n)
	batchInverse(out, a)
	for i := range a {
		var want FieldElement
		want.inv(&a[i])
		if out[i].equal(&want) != 1 {
			t.Fatalf("batch inverse %d differs", i)
		}
	}

	// In place
	inPlace := make([]FieldElement, n)
	copy(inPlace, a)
	batchInverse(inPlace, inPlace)
	for i := range inPlace {
		if inPlace[i].equal(&out[i]) != 1 {
			t.Fatalf("in-place batch inverse %d differs", i)
		}
	}
}

func BenchmarkFieldMul(b *testing.B) {
	x, y := randomFieldBytes(b), randomFieldBytes(b)
	var fx, fy FieldElement
	fx.setBytes(&x)
	fy.setBytes(&y)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fx.mul(&fx, &fy)
	}
}

func BenchmarkFieldSqr(b *testing.B) {
	x := randomFieldBytes(b)
	var fx FieldElement
	fx.setBytes(&x)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fx.sqr(&fx)
	}
}

func BenchmarkFieldInv(b *testing.B) {
	x := randomFieldBytes(b)
	var fx FieldElement
	fx.setBytes(&x)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fx.inv(&fx)
	}
}
