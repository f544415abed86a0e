package cn25519

import "crypto/subtle"

const (
	// PrecomputedTableSize is the number of odd multiples held by a
	// PrecomputedTable: 1P, 3P, ..., 15P
	PrecomputedTableSize = 8

	// precomputedNafWidth is the NAF width matching PrecomputedTableSize
	precomputedNafWidth = 5
)

// PrecomputedTable holds the odd multiples 1P, 3P, 5P, ..., 15P of one point
// in cached form. It accelerates repeated variable-time multiplications by
// the same point, such as verifications against a long-lived public key.
//
// A table is immutable once built and may be shared between goroutines.
// It does not track its source point: if the point changes, build a new
// table.
type PrecomputedTable struct {
	points [PrecomputedTableSize]cachedPoint
}

// NewPrecomputedTable builds the table of odd multiples of p using one
// doubling and seven additions.
func NewPrecomputedTable(p *Point) *PrecomputedTable {
	t := &PrecomputedTable{}
	t.init(p)
	return t
}

// init fills the table from p
func (t *PrecomputedTable) init(p *Point) {
	var p2, q Point
	var tmp completedPoint

	p2.Double(p)
	q.Set(p)
	t.points[0].fromExtended(&q)
	for i := 1; i < PrecomputedTableSize; i++ {
		// (2i+1)P = 2P + (2i-1)P
		tmp.add(&p2, &t.points[i-1])
		q.fromCompleted(&tmp)
		t.points[i].fromExtended(&q)
	}
}

// oddMultiple returns the cached form of x*P for an odd 0 < x < 16.
// The lookup index depends on x, so it must only see public digits.
func (t *PrecomputedTable) oddMultiple(x int8) *cachedPoint {
	return &t.points[x/2]
}

// cachedLookupTable holds 1P, 2P, ..., 8P for constant-time signed
// radix-16 multiplication
type cachedLookupTable struct {
	points [8]cachedPoint
}

// init fills the table with consecutive multiples of p
func (t *cachedLookupTable) init(p *Point) {
	var q Point
	var tmp completedPoint

	t.points[0].fromExtended(p)
	for i := 1; i < 8; i++ {
		tmp.add(p, &t.points[i-1])
		q.fromCompleted(&tmp)
		t.points[i].fromExtended(&q)
	}
}

// selectInto sets dest = x*P for -8 <= x <= 8, scanning every entry so
// that neither timing nor memory access depends on x
func (t *cachedLookupTable) selectInto(dest *cachedPoint, x int8) {
	xmask := x >> 7
	xabs := uint8((x + xmask) ^ xmask)

	dest.setIdentity()
	for j := 1; j <= 8; j++ {
		cond := subtle.ConstantTimeByteEq(xabs, uint8(j))
		dest.cmov(&t.points[j-1], cond)
	}
	dest.condNegate(int(xmask & 1))
}

// affineLookupTable holds 1Q, 2Q, ..., 8Q in affine cached form
type affineLookupTable struct {
	points [8]affineCached
}

// selectInto sets dest = x*Q for -8 <= x <= 8 in constant time
func (t *affineLookupTable) selectInto(dest *affineCached, x int8) {
	xmask := x >> 7
	xabs := uint8((x + xmask) ^ xmask)

	dest.setIdentity()
	for j := 1; j <= 8; j++ {
		cond := subtle.ConstantTimeByteEq(xabs, uint8(j))
		dest.cmov(&t.points[j-1], cond)
	}
	dest.condNegate(int(xmask & 1))
}

// toAffineCached converts a batch of extended points to affine cached
// form with a single field inversion
func toAffineCached(out []affineCached, points []Point) {
	zs := make([]FieldElement, len(points))
	for i := range points {
		zs[i] = points[i].z
	}
	batchInverse(zs, zs)
	for i := range points {
		out[i].fromExtendedZInv(&points[i], &zs[i])
	}
}
