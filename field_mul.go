package cn25519

import "math/bits"

// uint128 represents a 128-bit unsigned integer for field arithmetic
type uint128 struct {
	high, low uint64
}

// mulU64ToU128 multiplies two uint64 values and returns a uint128
func mulU64ToU128(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{high: hi, low: lo}
}

// addMulU128 computes c + a*b and returns the result as uint128
func addMulU128(c uint128, a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	newLo, carry := bits.Add64(c.low, lo, 0)
	newHi, _ := bits.Add64(c.high, hi, carry)
	return uint128{high: newHi, low: newLo}
}

// shiftRightBy51 returns u >> 51, which always fits in 64 bits for the
// products accumulated below
func (u uint128) shiftRightBy51() uint64 {
	return (u.high << (64 - 51)) | (u.low >> 51)
}

// mul sets r = a * b.
//
// Limb products are accumulated in 128 bits. Terms of weight 2^255 and
// above are folded back with 2^255 = 19 mod p, so each output coefficient
// r_i collects
//
//	r0 = a0×b0 + 19×(a1×b4 + a2×b3 + a3×b2 + a4×b1)
//	r1 = a0×b1 + a1×b0 + 19×(a2×b4 + a3×b3 + a4×b2)
//	r2 = a0×b2 + a1×b1 + a2×b0 + 19×(a3×b4 + a4×b3)
//	r3 = a0×b3 + a1×b2 + a2×b1 + a3×b0 + 19×a4×b4
//	r4 = a0×b4 + a1×b3 + a2×b2 + a3×b1 + a4×b0
func (r *FieldElement) mul(a, b *FieldElement) {
	a0, a1, a2, a3, a4 := a.n[0], a.n[1], a.n[2], a.n[3], a.n[4]
	b0, b1, b2, b3, b4 := b.n[0], b.n[1], b.n[2], b.n[3], b.n[4]

	a1x19 := a1 * 19
	a2x19 := a2 * 19
	a3x19 := a3 * 19
	a4x19 := a4 * 19

	r0 := mulU64ToU128(a0, b0)
	r0 = addMulU128(r0, a1x19, b4)
	r0 = addMulU128(r0, a2x19, b3)
	r0 = addMulU128(r0, a3x19, b2)
	r0 = addMulU128(r0, a4x19, b1)

	r1 := mulU64ToU128(a0, b1)
	r1 = addMulU128(r1, a1, b0)
	r1 = addMulU128(r1, a2x19, b4)
	r1 = addMulU128(r1, a3x19, b3)
	r1 = addMulU128(r1, a4x19, b2)

	r2 := mulU64ToU128(a0, b2)
	r2 = addMulU128(r2, a1, b1)
	r2 = addMulU128(r2, a2, b0)
	r2 = addMulU128(r2, a3x19, b4)
	r2 = addMulU128(r2, a4x19, b3)

	r3 := mulU64ToU128(a0, b3)
	r3 = addMulU128(r3, a1, b2)
	r3 = addMulU128(r3, a2, b1)
	r3 = addMulU128(r3, a3, b0)
	r3 = addMulU128(r3, a4x19, b4)

	r4 := mulU64ToU128(a0, b4)
	r4 = addMulU128(r4, a1, b3)
	r4 = addMulU128(r4, a2, b2)
	r4 = addMulU128(r4, a3, b1)
	r4 = addMulU128(r4, a4, b0)

	r.reduceWide(r0, r1, r2, r3, r4)
}

// sqr sets r = a * a, sharing the symmetric cross products
func (r *FieldElement) sqr(a *FieldElement) {
	l0, l1, l2, l3, l4 := a.n[0], a.n[1], a.n[2], a.n[3], a.n[4]

	l0x2 := l0 * 2
	l1x2 := l1 * 2

	l1x38 := l1 * 38
	l2x38 := l2 * 38
	l3x38 := l3 * 38

	l3x19 := l3 * 19
	l4x19 := l4 * 19

	// r0 = l0×l0 + 19×2×(l1×l4 + l2×l3)
	r0 := mulU64ToU128(l0, l0)
	r0 = addMulU128(r0, l1x38, l4)
	r0 = addMulU128(r0, l2x38, l3)

	// r1 = 2×l0×l1 + 19×2×l2×l4 + 19×l3×l3
	r1 := mulU64ToU128(l0x2, l1)
	r1 = addMulU128(r1, l2x38, l4)
	r1 = addMulU128(r1, l3x19, l3)

	// r2 = 2×l0×l2 + l1×l1 + 19×2×l3×l4
	r2 := mulU64ToU128(l0x2, l2)
	r2 = addMulU128(r2, l1, l1)
	r2 = addMulU128(r2, l3x38, l4)

	// r3 = 2×l0×l3 + 2×l1×l2 + 19×l4×l4
	r3 := mulU64ToU128(l0x2, l3)
	r3 = addMulU128(r3, l1x2, l2)
	r3 = addMulU128(r3, l4x19, l4)

	// r4 = 2×l0×l4 + 2×l1×l3 + l2×l2
	r4 := mulU64ToU128(l0x2, l4)
	r4 = addMulU128(r4, l1x2, l3)
	r4 = addMulU128(r4, l2, l2)

	r.reduceWide(r0, r1, r2, r3, r4)
}

// sqrN sets r = a^(2^n) by repeated squaring, n >= 1
func (r *FieldElement) sqrN(a *FieldElement, n int) {
	r.sqr(a)
	for i := 1; i < n; i++ {
		r.sqr(r)
	}
}

// reduceWide carries the 128-bit coefficients of a product back into
// 51-bit limbs
func (r *FieldElement) reduceWide(r0, r1, r2, r3, r4 uint128) {
	// The carries are below 2^64 / 19, so c4*19 cannot overflow, and the
	// low halves plus carries fit the 64-bit limbs before the final pass.
	c0 := r0.shiftRightBy51()
	c1 := r1.shiftRightBy51()
	c2 := r2.shiftRightBy51()
	c3 := r3.shiftRightBy51()
	c4 := r4.shiftRightBy51()

	r.n[0] = r0.low&maskLow51Bits + c4*19
	r.n[1] = r1.low&maskLow51Bits + c0
	r.n[2] = r2.low&maskLow51Bits + c1
	r.n[3] = r3.low&maskLow51Bits + c2
	r.n[4] = r4.low&maskLow51Bits + c3

	r.carryPropagate()
}
