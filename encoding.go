package cn25519

import (
	"encoding/hex"
)

// CompressedPoint is the 32-byte encoding of a point: the little-endian y
// coordinate with the sign of x stored in the most significant bit.
type CompressedPoint [32]byte

// String returns the hex encoding of c
func (c CompressedPoint) String() string {
	return hex.EncodeToString(c[:])
}

// Bytes returns the canonical 32-byte encoding of r
func (r *Point) Bytes() CompressedPoint {
	var zInv, x, y FieldElement
	zInv.inv(&r.z)
	x.mul(&r.x, &zInv)
	y.mul(&r.y, &zInv)

	out := CompressedPoint(y.bytes())
	out[31] |= byte(x.isNegative() << 7)
	return out
}

// SetBytes sets r to the point encoded by b and returns r. It fails with
// ErrPointDecoding, leaving r unchanged, if y is not canonical, if no x
// exists for y, if x is zero but the sign bit is set, or if the recovered
// point does not satisfy the curve equation.
//
// SetBytes does not check subgroup membership; see CheckSubgroupVar.
func (r *Point) SetBytes(b []byte) (*Point, error) {
	if len(b) != 32 {
		return nil, makeError(ErrInvalidLength, "point encoding must be 32 bytes")
	}

	var buf [32]byte
	copy(buf[:], b)
	sign := int(buf[31] >> 7)

	var y FieldElement
	y.setBytes(&buf)

	canonical := buf
	canonical[31] &= 0x7F
	if y.bytes() != canonical {
		return nil, makeError(ErrPointDecoding, "point y coordinate is not canonical")
	}

	// x^2 = (y^2 - 1) / (d*y^2 + 1)
	var y2, u, v, x FieldElement
	y2.sqr(&y)
	u.sub(&y2, &FieldElementOne)
	v.mul(&y2, &fieldD)
	v.add(&v, &FieldElementOne)

	if x.sqrtRatio(&u, &v) == 0 {
		return nil, makeError(ErrPointDecoding, "point is not on the curve")
	}
	if x.isZero() == 1 && sign == 1 {
		return nil, makeError(ErrPointDecoding, "point encodes negative zero x coordinate")
	}

	// sqrtRatio returns the non-negative root
	x.condNegate(&x, sign)

	var p Point
	p.x = x
	p.y = y
	p.z = FieldElementOne
	p.t.mul(&x, &y)

	if !p.IsOnCurve() {
		return nil, makeError(ErrPointDecoding, "decoded point fails the curve equation")
	}

	*r = p
	return r, nil
}

// SetFieldBytesVar maps 32 bytes to a curve point and returns r. All 256
// bits are read as a field element reduced modulo p, which is then sent
// through an Elligator-style map onto the curve, so the map is total: every
// input yields a valid point. The result may have a torsion component.
//
// It runs in variable time and must only see public data such as hash
// output.
func (r *Point) SetFieldBytesVar(b *[32]byte) *Point {
	var u, v, w, x, y, z FieldElement

	u.setWideBytes(b)

	v.sqr(&u)
	v.add(&v, &v)                  // v = 2u^2
	w.add(&v, &FieldElementOne)    // w = 2u^2 + 1
	x.sqr(&w)                      // w^2
	y.mul(&fieldMinusASquared, &v) // -2A^2u^2
	x.add(&x, &y)                  // x = w^2 - 2A^2u^2

	// rX = (w/x)^((p+3)/8) = w*x^3 * (w*x^7)^((p-5)/8)
	var rX, x3, wx3, wx7 FieldElement
	x3.sqr(&x)
	x3.mul(&x3, &x)
	wx3.mul(&w, &x3)
	wx7.mul(&wx3, &x3)
	wx7.mul(&wx7, &x)
	rX.pow22523(&wx7)
	rX.mul(&rX, &wx3)

	// x = rX^2 * x, compared against +-w
	y.sqr(&rX)
	x.mul(&y, &x)
	z = fieldMinusA

	var sign int
	var diff, sum FieldElement
	diff.sub(&w, &x)
	sum.add(&w, &x)
	switch {
	case diff.isZero() == 1:
		rX.mul(&rX, &fieldFFFB2)
		rX.mul(&rX, &u) // u * sqrt(2A(A+2) * w/x)
		z.mul(&z, &v)   // -2Au^2
		sign = 0
	case sum.isZero() == 1:
		rX.mul(&rX, &fieldFFFB1)
		rX.mul(&rX, &u)
		z.mul(&z, &v)
		sign = 0
	default:
		x.mul(&x, &fieldSqrtM1)
		diff.sub(&w, &x)
		if diff.isZero() == 1 {
			rX.mul(&rX, &fieldFFFB4)
		} else {
			rX.mul(&rX, &fieldFFFB3)
		}
		// rX = sqrt(A(A+2) * w/x), z = -A
		sign = 1
	}

	if rX.isNegative() != sign {
		rX.negate(&rX)
	}

	var p projectivePoint
	p.Z.add(&z, &w)
	p.Y.sub(&z, &w)
	p.X.mul(&rX, &p.Z)

	r.fromProjective(&p)
	return r
}

// CheckSubgroupVar reports whether p lies in the prime-order subgroup. It
// builds a table of odd multiples of p and tests whether l*p vanishes.
// Variable time; p must be public.
func CheckSubgroupVar(p *Point) bool {
	return NewPrecomputedTable(p).CheckSubgroupVar()
}
