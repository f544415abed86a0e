package cn25519

import (
	"crypto/subtle"
	"encoding/binary"
)

// FieldElement represents an element of the field GF(2^255 - 19).
// This implementation uses 5 uint64 limbs in base 2^51.
//
// Every operation leaves the limbs below 2^51 + 2^13 (a "light" element),
// which is the input bound the multiplication and subtraction routines need.
// The zero value is a valid zero element.
type FieldElement struct {
	// n represents the sum(i=0..4, n[i] << (i*51)) mod p
	n [5]uint64
}

const (
	// maskLow51Bits keeps the low 51 bits of a limb
	maskLow51Bits uint64 = (1 << 51) - 1
)

// Field element constants
var (
	// FieldElementZero represents the field element 0
	FieldElementZero = FieldElement{n: [5]uint64{0, 0, 0, 0, 0}}

	// FieldElementOne represents the field element 1
	FieldElementOne = FieldElement{n: [5]uint64{1, 0, 0, 0, 0}}

	// fieldD is the curve constant d = -121665/121666
	fieldD = FieldElement{n: [5]uint64{929955233495203, 466365720129213,
		1662059464998953, 2033849074728123, 1442794654840575}}

	// fieldD2 is 2*d
	fieldD2 = FieldElement{n: [5]uint64{1859910466990425, 932731440258426,
		1072319116312658, 1815898335770999, 633789495995903}}

	// fieldSqrtM1 is a square root of -1
	fieldSqrtM1 = FieldElement{n: [5]uint64{1718705420411056, 234908883556509,
		2233514472574048, 2117202627021982, 765476049583133}}

	// fieldMinusA is -A where A = 486662 is the Montgomery curve coefficient
	fieldMinusA = FieldElement{n: [5]uint64{2251799813198567, 2251799813685247,
		2251799813685247, 2251799813685247, 2251799813685247}}

	// fieldMinusASquared is -A^2
	fieldMinusASquared = FieldElement{n: [5]uint64{2251562973782985, 2251799813685247,
		2251799813685247, 2251799813685247, 2251799813685247}}

	// Square roots used by the field element to point map:
	// fieldFFFB1 = sqrt(-2A(A+2)), fieldFFFB2 = sqrt(2A(A+2)),
	// fieldFFFB3 = sqrt(-sqrt(-1)A(A+2)), fieldFFFB4 = sqrt(sqrt(-1)A(A+2)).
	fieldFFFB1 = FieldElement{n: [5]uint64{165522903907839, 818975932832683,
		21545447174125, 690972914443359, 27351442412190}}
	fieldFFFB2 = FieldElement{n: [5]uint64{452434531149069, 2040097134609828,
		2153397930723314, 427396857013279, 896781107837533}}
	fieldFFFB3 = FieldElement{n: [5]uint64{982444093221990, 515339305954051,
		1185873571910653, 1257687935557663, 1817084980972576}}
	fieldFFFB4 = FieldElement{n: [5]uint64{816921189314151, 1948163186806616,
		1164328124736527, 566715021114304, 1789733538560386}}
)

// setBytes sets r from a 32-byte little-endian encoding. The most
// significant bit is ignored, so encodings of values in [p, 2^255) are
// accepted and reduced lazily.
func (r *FieldElement) setBytes(b *[32]byte) {
	w0 := binary.LittleEndian.Uint64(b[0:8])
	w1 := binary.LittleEndian.Uint64(b[8:16])
	w2 := binary.LittleEndian.Uint64(b[16:24])
	w3 := binary.LittleEndian.Uint64(b[24:32])

	r.n[0] = w0 & maskLow51Bits
	r.n[1] = (w0>>51 | w1<<13) & maskLow51Bits
	r.n[2] = (w1>>38 | w2<<26) & maskLow51Bits
	r.n[3] = (w2>>25 | w3<<39) & maskLow51Bits
	r.n[4] = (w3 >> 12) & maskLow51Bits
}

// setWideBytes sets r from all 256 bits of a little-endian encoding,
// reduced modulo p. Bit 255 contributes 2^255 = 19 mod p.
func (r *FieldElement) setWideBytes(b *[32]byte) {
	r.setBytes(b)
	r.n[0] += 19 * uint64(b[31]>>7)
}

// bytes returns the canonical 32-byte little-endian encoding of r
func (r *FieldElement) bytes() [32]byte {
	var t FieldElement
	t = *r
	t.normalize()

	var out [32]byte
	binary.LittleEndian.PutUint64(out[0:8], t.n[0]|t.n[1]<<51)
	binary.LittleEndian.PutUint64(out[8:16], t.n[1]>>13|t.n[2]<<38)
	binary.LittleEndian.PutUint64(out[16:24], t.n[2]>>26|t.n[3]<<25)
	binary.LittleEndian.PutUint64(out[24:32], t.n[3]>>39|t.n[4]<<12)
	return out
}

// normalize fully reduces r to its canonical representative in [0, p)
func (r *FieldElement) normalize() {
	r.carryPropagate()

	// After the light reduction r < 2^255 + small, so r >= p exactly when
	// r + 19 overflows 2^255.
	c := (r.n[0] + 19) >> 51
	c = (r.n[1] + c) >> 51
	c = (r.n[2] + c) >> 51
	c = (r.n[3] + c) >> 51
	c = (r.n[4] + c) >> 51

	// If r >= p, subtracting p is adding 19 and dropping bit 255.
	r.n[0] += 19 * c

	r.n[1] += r.n[0] >> 51
	r.n[0] &= maskLow51Bits
	r.n[2] += r.n[1] >> 51
	r.n[1] &= maskLow51Bits
	r.n[3] += r.n[2] >> 51
	r.n[2] &= maskLow51Bits
	r.n[4] += r.n[3] >> 51
	r.n[3] &= maskLow51Bits
	r.n[4] &= maskLow51Bits
}

// carryPropagate brings every limb back below 2^51 + 2^13
func (r *FieldElement) carryPropagate() {
	c0 := r.n[0] >> 51
	c1 := r.n[1] >> 51
	c2 := r.n[2] >> 51
	c3 := r.n[3] >> 51
	c4 := r.n[4] >> 51

	r.n[0] = r.n[0]&maskLow51Bits + c4*19
	r.n[1] = r.n[1]&maskLow51Bits + c0
	r.n[2] = r.n[2]&maskLow51Bits + c1
	r.n[3] = r.n[3]&maskLow51Bits + c2
	r.n[4] = r.n[4]&maskLow51Bits + c3
}

// set sets r = a
func (r *FieldElement) set(a *FieldElement) {
	*r = *a
}

// setInt sets a field element to a small unsigned integer value
func (r *FieldElement) setInt(a uint64) {
	r.n = [5]uint64{a & maskLow51Bits, a >> 51, 0, 0, 0}
}

// isZero returns 1 if r == 0 and 0 otherwise
func (r *FieldElement) isZero() int {
	var zero [32]byte
	b := r.bytes()
	return subtle.ConstantTimeCompare(b[:], zero[:])
}

// equal returns 1 if r == a and 0 otherwise
func (r *FieldElement) equal(a *FieldElement) int {
	x, y := r.bytes(), a.bytes()
	return subtle.ConstantTimeCompare(x[:], y[:])
}

// isNegative returns 1 if the canonical encoding of r is odd
func (r *FieldElement) isNegative() int {
	b := r.bytes()
	return int(b[0] & 1)
}

// add sets r = a + b
func (r *FieldElement) add(a, b *FieldElement) {
	r.n[0] = a.n[0] + b.n[0]
	r.n[1] = a.n[1] + b.n[1]
	r.n[2] = a.n[2] + b.n[2]
	r.n[3] = a.n[3] + b.n[3]
	r.n[4] = a.n[4] + b.n[4]
	r.carryPropagate()
}

// sub sets r = a - b
func (r *FieldElement) sub(a, b *FieldElement) {
	// Add 2*p first so the limbs never underflow.
	r.n[0] = (a.n[0] + 0xFFFFFFFFFFFDA) - b.n[0]
	r.n[1] = (a.n[1] + 0xFFFFFFFFFFFFE) - b.n[1]
	r.n[2] = (a.n[2] + 0xFFFFFFFFFFFFE) - b.n[2]
	r.n[3] = (a.n[3] + 0xFFFFFFFFFFFFE) - b.n[3]
	r.n[4] = (a.n[4] + 0xFFFFFFFFFFFFE) - b.n[4]
	r.carryPropagate()
}

// negate sets r = -a
func (r *FieldElement) negate(a *FieldElement) {
	r.sub(&FieldElementZero, a)
}

// cmov conditionally moves a field element. If flag is 1, r = a; otherwise r is unchanged.
func (r *FieldElement) cmov(a *FieldElement, flag int) {
	mask := uint64(-(int64(flag) & 1))
	r.n[0] ^= mask & (r.n[0] ^ a.n[0])
	r.n[1] ^= mask & (r.n[1] ^ a.n[1])
	r.n[2] ^= mask & (r.n[2] ^ a.n[2])
	r.n[3] ^= mask & (r.n[3] ^ a.n[3])
	r.n[4] ^= mask & (r.n[4] ^ a.n[4])
}

// swap swaps r and a if flag is 1, in constant time
func (r *FieldElement) swap(a *FieldElement, flag int) {
	mask := uint64(-(int64(flag) & 1))
	for i := 0; i < 5; i++ {
		t := mask & (r.n[i] ^ a.n[i])
		r.n[i] ^= t
		a.n[i] ^= t
	}
}

// condNegate sets r = -a if flag is 1 and r = a otherwise
func (r *FieldElement) condNegate(a *FieldElement, flag int) {
	var neg FieldElement
	neg.negate(a)
	r.set(a)
	r.cmov(&neg, flag)
}

// abs sets r to whichever of a and -a has an even encoding
func (r *FieldElement) abs(a *FieldElement) {
	r.condNegate(a, a.isNegative())
}

// inv sets r = 1/a mod p, computed as a^(p-2) with a fixed addition chain.
// The inverse of zero is zero.
func (r *FieldElement) inv(a *FieldElement) {
	var z2, z9, z11, z2to5, z2to10, z2to20, z2to50, z2to100, t FieldElement

	z2.sqr(a)          // 2
	t.sqr(&z2)         // 4
	t.sqr(&t)          // 8
	z9.mul(&t, a)      // 9
	z11.mul(&z9, &z2)  // 11
	t.sqr(&z11)        // 22
	z2to5.mul(&t, &z9) // 2^5 - 2^0 = 31

	t.sqr(&z2to5) // 2^6 - 2^1
	t.sqrN(&t, 4) // 2^10 - 2^5
	z2to10.mul(&t, &z2to5)

	t.sqrN(&z2to10, 10) // 2^20 - 2^10
	z2to20.mul(&t, &z2to10)

	t.sqrN(&z2to20, 20) // 2^40 - 2^20
	t.mul(&t, &z2to20)  // 2^40 - 2^0

	t.sqrN(&t, 10) // 2^50 - 2^10
	z2to50.mul(&t, &z2to10)

	t.sqrN(&z2to50, 50) // 2^100 - 2^50
	z2to100.mul(&t, &z2to50)

	t.sqrN(&z2to100, 100) // 2^200 - 2^100
	t.mul(&t, &z2to100)   // 2^200 - 2^0

	t.sqrN(&t, 50)     // 2^250 - 2^50
	t.mul(&t, &z2to50) // 2^250 - 2^0

	t.sqrN(&t, 5)   // 2^255 - 2^5
	r.mul(&t, &z11) // 2^255 - 21
}

// pow22523 sets r = a^((p-5)/8) = a^(2^252-3)
func (r *FieldElement) pow22523(a *FieldElement) {
	var t0, t1, t2 FieldElement

	t0.sqr(a)         // 2
	t1.sqrN(&t0, 2)   // 8
	t1.mul(a, &t1)    // 9
	t0.mul(&t0, &t1)  // 11
	t0.sqr(&t0)       // 22
	t0.mul(&t1, &t0)  // 2^5 - 1
	t1.sqrN(&t0, 5)   // 2^10 - 2^5
	t0.mul(&t1, &t0)  // 2^10 - 1
	t1.sqrN(&t0, 10)  // 2^20 - 2^10
	t1.mul(&t1, &t0)  // 2^20 - 1
	t2.sqrN(&t1, 20)  // 2^40 - 2^20
	t1.mul(&t2, &t1)  // 2^40 - 1
	t1.sqrN(&t1, 10)  // 2^50 - 2^10
	t0.mul(&t1, &t0)  // 2^50 - 1
	t1.sqrN(&t0, 50)  // 2^100 - 2^50
	t1.mul(&t1, &t0)  // 2^100 - 1
	t2.sqrN(&t1, 100) // 2^200 - 2^100
	t1.mul(&t2, &t1)  // 2^200 - 1
	t1.sqrN(&t1, 50)  // 2^250 - 2^50
	t0.mul(&t1, &t0)  // 2^250 - 1
	t0.sqrN(&t0, 2)   // 2^252 - 4
	r.mul(&t0, a)     // 2^252 - 3
}

// sqrtRatio sets r to the non-negative square root of u/v if it exists and
// returns 1. Otherwise it sets r to the non-negative root of sqrt(-1)*u/v
// and returns 0.
func (r *FieldElement) sqrtRatio(u, v *FieldElement) int {
	var v2, uv3, uv7, rr, check FieldElement

	v2.sqr(v)
	uv3.mul(u, v)
	uv3.mul(&uv3, &v2)
	uv7.sqr(&v2)
	uv7.mul(&uv7, &uv3)

	// rr = (u * v^3) * (u * v^7)^((p-5)/8)
	rr.pow22523(&uv7)
	rr.mul(&rr, &uv3)

	check.sqr(&rr)
	check.mul(&check, v)

	var uNeg, uNegI FieldElement
	uNeg.negate(u)
	uNegI.mul(&uNeg, &fieldSqrtM1)

	correctSign := check.equal(u)
	flippedSign := check.equal(&uNeg)
	flippedSignI := check.equal(&uNegI)

	var rPrime FieldElement
	rPrime.mul(&rr, &fieldSqrtM1)
	rr.cmov(&rPrime, flippedSign|flippedSignI)

	r.abs(&rr)
	return correctSign | flippedSign
}

// batchInverse computes the inverses of a slice of FieldElements using
// Montgomery's trick: one inversion plus three multiplications per element.
// None of the inputs may be zero.
func batchInverse(out []FieldElement, a []FieldElement) {
	n := len(a)
	if n == 0 {
		return
	}

	s := make([]FieldElement, n)

	// s_i = a_0 * a_1 * ... * a_{i-1}
	s[0].setInt(1)
	for i := 1; i < n; i++ {
		s[i].mul(&s[i-1], &a[i-1])
	}

	// u = (a_0 * a_1 * ... * a_{n-1})^-1
	var u FieldElement
	u.mul(&s[n-1], &a[n-1])
	u.inv(&u)

	// out_i = (a_0 * ... * a_{i-1}) * (a_0 * ... * a_i)^-1
	//
	// Loop backwards to make it an in-place algorithm.
	for i := n - 1; i >= 0; i-- {
		ai := a[i]
		out[i].mul(&u, &s[i])
		u.mul(&u, &ai)
	}
}
