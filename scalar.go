package cn25519

import (
	"crypto/subtle"
	"encoding/binary"
	"math/bits"
)

// Scalar represents an integer modulo the prime order of the base point,
// l = 2^252 + 27742317777372353535851937790883648493.
// This implementation uses 4 little-endian uint64 limbs and always holds the
// fully reduced value. The zero value is a valid zero scalar.
type Scalar struct {
	d [4]uint64
}

// Group order constants
const (
	// Limbs of the group order l
	scalarL0 = 0x5812631A5CF5D3ED
	scalarL1 = 0x14DEF9DEA2F79CD6
	scalarL2 = 0x0000000000000000
	scalarL3 = 0x1000000000000000

	// Limbs of l - 2, the inversion exponent
	scalarLm2_0 = 0x5812631A5CF5D3EB
)

// scalarMu is floor(2^512 / l), the Barrett reduction constant
var scalarMu = [5]uint64{
	0xED9CE5A30A2C131B,
	0x2106215D086329A7,
	0xFFFFFFFFFFFFFFEB,
	0xFFFFFFFFFFFFFFFF,
	0x000000000000000F,
}

// scalarOrder holds l in the limb layout used by the reduction
var scalarOrder = [5]uint64{scalarL0, scalarL1, scalarL2, scalarL3, 0}

// Scalar constants
var (
	// ScalarZero represents the scalar 0
	ScalarZero = Scalar{d: [4]uint64{0, 0, 0, 0}}

	// ScalarOne represents the scalar 1
	ScalarOne = Scalar{d: [4]uint64{1, 0, 0, 0}}
)

// NewScalar returns a new zero Scalar
func NewScalar() *Scalar {
	return &Scalar{}
}

// Set sets r = a, and returns r
func (r *Scalar) Set(a *Scalar) *Scalar {
	*r = *a
	return r
}

// SetUint64 sets r = v, and returns r
func (r *Scalar) SetUint64(v uint64) *Scalar {
	r.d = [4]uint64{v, 0, 0, 0}
	return r
}

// SetCanonicalBytes sets r from a 32-byte little-endian encoding. The
// encoding must be fully reduced modulo l; any other value is rejected with
// ErrInvalidScalar and r is left unchanged.
func (r *Scalar) SetCanonicalBytes(b []byte) (*Scalar, error) {
	if len(b) != 32 {
		return nil, makeError(ErrInvalidLength, "scalar encoding must be 32 bytes")
	}

	var t [5]uint64
	t[0] = binary.LittleEndian.Uint64(b[0:8])
	t[1] = binary.LittleEndian.Uint64(b[8:16])
	t[2] = binary.LittleEndian.Uint64(b[16:24])
	t[3] = binary.LittleEndian.Uint64(b[24:32])

	if !lessThanOrder(&t) {
		return nil, makeError(ErrInvalidScalar, "scalar encoding is not reduced modulo the group order")
	}

	r.d = [4]uint64{t[0], t[1], t[2], t[3]}
	return r, nil
}

// ReduceWide sets r to the 64-byte little-endian value b reduced modulo l,
// and returns r. It is meant for folding hash and entropy output into the
// scalar field.
func (r *Scalar) ReduceWide(b *[64]byte) *Scalar {
	var x [8]uint64
	for i := range x {
		x[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	r.reduce512(&x)
	return r
}

// Reduce32 sets r to the 32-byte little-endian value b reduced modulo l,
// and returns r.
func (r *Scalar) Reduce32(b *[32]byte) *Scalar {
	var x [8]uint64
	for i := 0; i < 4; i++ {
		x[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	r.reduce512(&x)
	return r
}

// Bytes returns the canonical 32-byte little-endian encoding of r
func (r *Scalar) Bytes() [32]byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[0:8], r.d[0])
	binary.LittleEndian.PutUint64(out[8:16], r.d[1])
	binary.LittleEndian.PutUint64(out[16:24], r.d[2])
	binary.LittleEndian.PutUint64(out[24:32], r.d[3])
	return out
}

// IsZero reports whether r == 0, in constant time
func (r *Scalar) IsZero() bool {
	return isZeroWord(r.d[0]|r.d[1]|r.d[2]|r.d[3]) == 1
}

// Equal reports whether r == a, in constant time
func (r *Scalar) Equal(a *Scalar) bool {
	x, y := r.Bytes(), a.Bytes()
	return subtle.ConstantTimeCompare(x[:], y[:]) == 1
}

// Add sets r = a + b mod l, and returns r
func (r *Scalar) Add(a, b *Scalar) *Scalar {
	var t [5]uint64
	var carry uint64

	// a + b < 2l < 2^254, so no limb carries out of the top word
	t[0], carry = bits.Add64(a.d[0], b.d[0], 0)
	t[1], carry = bits.Add64(a.d[1], b.d[1], carry)
	t[2], carry = bits.Add64(a.d[2], b.d[2], carry)
	t[3], _ = bits.Add64(a.d[3], b.d[3], carry)

	condSubtractOrder(&t)
	r.d = [4]uint64{t[0], t[1], t[2], t[3]}
	return r
}

// Subtract sets r = a - b mod l, and returns r
func (r *Scalar) Subtract(a, b *Scalar) *Scalar {
	var t [4]uint64
	var borrow, carry uint64

	t[0], borrow = bits.Sub64(a.d[0], b.d[0], 0)
	t[1], borrow = bits.Sub64(a.d[1], b.d[1], borrow)
	t[2], borrow = bits.Sub64(a.d[2], b.d[2], borrow)
	t[3], borrow = bits.Sub64(a.d[3], b.d[3], borrow)

	// Add l back if the subtraction wrapped
	mask := -borrow
	t[0], carry = bits.Add64(t[0], scalarL0&mask, 0)
	t[1], carry = bits.Add64(t[1], scalarL1&mask, carry)
	t[2], carry = bits.Add64(t[2], scalarL2&mask, carry)
	t[3], _ = bits.Add64(t[3], scalarL3&mask, carry)

	r.d = t
	return r
}

// Negate sets r = -a mod l, and returns r
func (r *Scalar) Negate(a *Scalar) *Scalar {
	return r.Subtract(&ScalarZero, a)
}

// Multiply sets r = a * b mod l, and returns r
func (r *Scalar) Multiply(a, b *Scalar) *Scalar {
	var x [8]uint64
	mulWords(x[:], a.d[:], b.d[:])
	r.reduce512(&x)
	return r
}

// MulAdd sets r = a * b + c mod l, and returns r
func (r *Scalar) MulAdd(a, b, c *Scalar) *Scalar {
	var t Scalar
	t.Multiply(a, b)
	return r.Add(&t, c)
}

// MulSub sets r = a * b - c mod l, and returns r
func (r *Scalar) MulSub(a, b, c *Scalar) *Scalar {
	var t Scalar
	t.Multiply(a, b)
	return r.Subtract(&t, c)
}

// Invert sets r = 1/a mod l, and returns r. The exponentiation a^(l-2)
// walks a fixed public exponent, so the running time does not depend on a.
// The inverse of zero is zero.
func (r *Scalar) Invert(a *Scalar) *Scalar {
	exp := [4]uint64{scalarLm2_0, scalarL1, scalarL2, scalarL3}

	// table[i] = a^i
	var table [16]Scalar
	table[0] = ScalarOne
	for i := 1; i < 16; i++ {
		table[i].Multiply(&table[i-1], a)
	}

	var acc Scalar
	acc = ScalarOne
	for i := 63; i >= 0; i-- {
		if i != 63 {
			acc.Multiply(&acc, &acc)
			acc.Multiply(&acc, &acc)
			acc.Multiply(&acc, &acc)
			acc.Multiply(&acc, &acc)
		}
		nibble := (exp[i/16] >> (uint(i%16) * 4)) & 0xF
		acc.Multiply(&acc, &table[nibble])
	}

	*r = acc
	return r
}

// cmov conditionally moves a scalar. If flag is 1, r = a; otherwise r is unchanged.
func (r *Scalar) cmov(a *Scalar, flag int) {
	mask := uint64(-(int64(flag) & 1))
	r.d[0] ^= mask & (r.d[0] ^ a.d[0])
	r.d[1] ^= mask & (r.d[1] ^ a.d[1])
	r.d[2] ^= mask & (r.d[2] ^ a.d[2])
	r.d[3] ^= mask & (r.d[3] ^ a.d[3])
}

// clear clears a scalar to prevent leaking sensitive information
func (r *Scalar) clear() {
	r.d = [4]uint64{}
}

// reduce512 sets r = x mod l using Barrett reduction with base 2^64 and
// k = 4 limbs (HAC 14.42).
func (r *Scalar) reduce512(x *[8]uint64) {
	// q1 = floor(x / b^(k-1))
	q1 := [5]uint64{x[3], x[4], x[5], x[6], x[7]}

	// q3 = floor(q1 * mu / b^(k+1))
	var q2 [10]uint64
	mulWords(q2[:], q1[:], scalarMu[:])
	q3 := [5]uint64{q2[5], q2[6], q2[7], q2[8], q2[9]}

	// r2 = q3 * l mod b^(k+1)
	var r2 [5]uint64
	mulWords(r2[:], q3[:], scalarOrder[:4])

	// t = (x mod b^(k+1)) - r2, which is exact and lies in [0, 3l)
	var t [5]uint64
	var borrow uint64
	t[0], borrow = bits.Sub64(x[0], r2[0], 0)
	t[1], borrow = bits.Sub64(x[1], r2[1], borrow)
	t[2], borrow = bits.Sub64(x[2], r2[2], borrow)
	t[3], borrow = bits.Sub64(x[3], r2[3], borrow)
	t[4], _ = bits.Sub64(x[4], r2[4], borrow)

	condSubtractOrder(&t)
	condSubtractOrder(&t)

	r.d = [4]uint64{t[0], t[1], t[2], t[3]}
}

// condSubtractOrder subtracts l from t if t >= l, in constant time
func condSubtractOrder(t *[5]uint64) {
	var s [5]uint64
	var borrow uint64
	s[0], borrow = bits.Sub64(t[0], scalarOrder[0], 0)
	s[1], borrow = bits.Sub64(t[1], scalarOrder[1], borrow)
	s[2], borrow = bits.Sub64(t[2], scalarOrder[2], borrow)
	s[3], borrow = bits.Sub64(t[3], scalarOrder[3], borrow)
	s[4], borrow = bits.Sub64(t[4], scalarOrder[4], borrow)

	// borrow == 0 means t >= l and the difference is kept
	keep := borrow - 1
	for i := range t {
		t[i] = (s[i] & keep) | (t[i] &^ keep)
	}
}

// lessThanOrder reports whether t < l, in constant time
func lessThanOrder(t *[5]uint64) bool {
	var borrow uint64
	_, borrow = bits.Sub64(t[0], scalarOrder[0], 0)
	_, borrow = bits.Sub64(t[1], scalarOrder[1], borrow)
	_, borrow = bits.Sub64(t[2], scalarOrder[2], borrow)
	_, borrow = bits.Sub64(t[3], scalarOrder[3], borrow)
	_, borrow = bits.Sub64(t[4], scalarOrder[4], borrow)
	return borrow == 1
}

// mulWords sets out to the schoolbook product a * b truncated to len(out)
// limbs. out must be zeroed by the caller.
func mulWords(out, a, b []uint64) {
	for i := range a {
		var carry uint64
		for j := range b {
			if i+j >= len(out) {
				break
			}
			hi, lo := bits.Mul64(a[i], b[j])
			var c uint64
			lo, c = bits.Add64(lo, out[i+j], 0)
			hi += c
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			out[i+j] = lo
			carry = hi
		}
		if i+len(b) < len(out) {
			out[i+len(b)] = carry
		}
	}
}

// isZeroWord returns 1 if w == 0 and 0 otherwise
func isZeroWord(w uint64) uint64 {
	return ((w | -w) >> 63) ^ 1
}

// signedRadix16 returns the scalar as 64 signed digits e[i] in [-8, 8)
// such that r = sum(e[i] * 16^i).
func (r *Scalar) signedRadix16() [64]int8 {
	b := r.Bytes()

	var digits [64]int8
	for i := 0; i < 32; i++ {
		digits[2*i] = int8(b[i] & 15)
		digits[2*i+1] = int8((b[i] >> 4) & 15)
	}

	// Recenter the digits. r < 2^253 keeps the top digit below 8.
	for i := 0; i < 63; i++ {
		carry := (digits[i] + 8) >> 4
		digits[i] -= carry << 4
		digits[i+1] += carry
	}

	return digits
}

// nonAdjacentForm returns the width-w NAF of r
func (r *Scalar) nonAdjacentForm(w uint) [256]int8 {
	return nafWords(&r.d, w)
}

// nafWords computes the width-w non-adjacent form of a 4-limb value below
// 2^255. Every nonzero digit is odd, below 2^(w-1) in magnitude, and
// followed by at least w-1 zeros.
func nafWords(words *[4]uint64, w uint) [256]int8 {
	if w < 2 || w > 8 {
		panic("NAF width must be between 2 and 8")
	}

	var naf [256]int8
	var digits [5]uint64
	copy(digits[:4], words[:])

	width := uint64(1 << w)
	windowMask := width - 1

	pos := uint(0)
	carry := uint64(0)
	for pos < 256 {
		indexU64 := pos / 64
		indexBit := pos % 64
		var bitBuf uint64
		if indexBit < 64-w {
			bitBuf = digits[indexU64] >> indexBit
		} else {
			bitBuf = (digits[indexU64] >> indexBit) | (digits[1+indexU64] << (64 - indexBit))
		}

		window := carry + (bitBuf & windowMask)

		if window&1 == 0 {
			pos++
			continue
		}

		if window < width/2 {
			carry = 0
			naf[pos] = int8(window)
		} else {
			carry = 1
			naf[pos] = int8(int64(window) - int64(width))
		}

		pos += w
	}
	return naf
}
