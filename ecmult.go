package cn25519

import (
	"sync"
)

const (
	// NAF width used for the base point in variable-time multiplication
	baseNafWidth = 8
	// Number of odd multiples 1B, 3B, ..., 127B in the base NAF table
	baseNafTableSize = 1 << (baseNafWidth - 2)
)

// EcmultContext holds the odd multiples of the base point used by the
// variable-time double-scalar multiplications, in affine cached form
type EcmultContext struct {
	table [baseNafTableSize]affineCached
	built bool
}

var (
	// Global context for variable-time base point multiplication
	globalEcmultContext *EcmultContext
	ecmultContextOnce   sync.Once
)

// build computes 1B, 3B, ..., 127B with a single batched inversion
func (ctx *EcmultContext) build() {
	var b, b2 Point
	b.Generator()
	b2.Double(&b)

	points := make([]Point, baseNafTableSize)
	points[0].Set(&b)
	for i := 1; i < baseNafTableSize; i++ {
		points[i].Add(&points[i-1], &b2)
	}

	toAffineCached(ctx.table[:], points)
	ctx.built = true
}

// getGlobalEcmultContext returns the global variable-time base point context
func getGlobalEcmultContext() *EcmultContext {
	ecmultContextOnce.Do(func() {
		globalEcmultContext = &EcmultContext{}
		globalEcmultContext.build()
	})
	return globalEcmultContext
}

// EcmultConst computes r = s * p in constant time.
//
// It uses a signed radix-16 window over the multiples 1p..8p; every table
// lookup scans the whole table, so s may be secret (Diffie-Hellman).
func EcmultConst(r *Point, s *Scalar, p *Point) {
	var table cachedLookupTable
	table.init(p)

	digits := s.signedRadix16()

	var multiple cachedPoint
	var tmp1 completedPoint
	var tmp2 projectivePoint

	// Handle the top digit separately to skip four doublings of the identity
	table.selectInto(&multiple, digits[63])
	r.Identity()
	tmp1.add(r, &multiple)
	for i := 62; i >= 0; i-- {
		tmp2.fromCompleted(&tmp1)
		tmp1.double(&tmp2)
		tmp2.fromCompleted(&tmp1)
		tmp1.double(&tmp2)
		tmp2.fromCompleted(&tmp1)
		tmp1.double(&tmp2)
		tmp2.fromCompleted(&tmp1)
		tmp1.double(&tmp2)
		r.fromCompleted(&tmp1)

		table.selectInto(&multiple, digits[i])
		tmp1.add(r, &multiple)
	}
	r.fromCompleted(&tmp1)
}

// EcmultDoubleGenVar computes r = a*A + b*B where B is the base point.
//
// The table for A is built and discarded on every call. Execution time
// depends on both scalars: never pass secret values.
func EcmultDoubleGenVar(r *Point, a *Scalar, A *Point, b *Scalar) {
	var table PrecomputedTable
	table.init(A)
	EcmultDoubleGenPrecompVar(r, a, &table, b)
}

// EcmultDoubleGenPrecompVar computes r = a*A + b*B using a caller-supplied
// table of odd multiples of A. The result is identical to
// EcmultDoubleGenVar; only the table cost is amortised. Variable time.
func EcmultDoubleGenPrecompVar(r *Point, a *Scalar, tableA *PrecomputedTable, b *Scalar) {
	aNaf := a.nonAdjacentForm(precomputedNafWidth)
	bNaf := b.nonAdjacentForm(baseNafWidth)
	ecmultStraussVar(r, &aNaf, tableA, nil, nil, &bNaf)
}

// EcmultPhantomVar computes r = 0*A + b*B through the double-scalar code,
// with A as a phantom point whose scalar is zero. Only the base point table
// contributes, so the result does not depend on A. Variable time.
func EcmultPhantomVar(r *Point, b *Scalar, A *Point) {
	EcmultDoubleGenVar(r, &ScalarZero, A, b)
}

// EcmultDoublePrecompVar computes r = a*A + b*B for two arbitrary points
// given their tables. Variable time.
func EcmultDoublePrecompVar(r *Point, a *Scalar, tableA *PrecomputedTable, b *Scalar, tableB *PrecomputedTable) {
	aNaf := a.nonAdjacentForm(precomputedNafWidth)
	bNaf := b.nonAdjacentForm(precomputedNafWidth)
	ecmultStraussVar(r, &aNaf, tableA, &bNaf, tableB, nil)
}

// CheckSubgroupVar reports whether the point the table was built from lies
// in the prime-order subgroup, i.e. whether l*P is the identity. The order
// l is used unreduced, which the Scalar type cannot hold. Variable time.
func (t *PrecomputedTable) CheckSubgroupVar() bool {
	words := [4]uint64{scalarL0, scalarL1, scalarL2, scalarL3}
	lNaf := nafWords(&words, precomputedNafWidth)

	var r Point
	ecmultStraussVar(&r, &lNaf, t, nil, nil, nil)
	return r.IsIdentity()
}

// ecmultStraussVar computes the interleaved sum of up to three NAF
// expansions: aNaf against tableA, bNaf against tableB and gNaf against
// the base point. A nil expansion is skipped. All terms share one chain
// of doublings.
func ecmultStraussVar(r *Point, aNaf *[256]int8, tableA *PrecomputedTable,
	bNaf *[256]int8, tableB *PrecomputedTable, gNaf *[256]int8) {

	var gTable *[baseNafTableSize]affineCached
	if gNaf != nil {
		gTable = &getGlobalEcmultContext().table
	}

	// Skip the leading zero digits
	top := -1
	for i := 255; i >= 0; i-- {
		if (aNaf != nil && aNaf[i] != 0) || (bNaf != nil && bNaf[i] != 0) ||
			(gNaf != nil && gNaf[i] != 0) {
			top = i
			break
		}
	}

	var tmp1 completedPoint
	var tmp2 projectivePoint
	tmp2.X = FieldElementZero
	tmp2.Y = FieldElementOne
	tmp2.Z = FieldElementOne

	for i := top; i >= 0; i-- {
		tmp1.double(&tmp2)

		if aNaf != nil {
			tmp1.addNafDigitVar(r, aNaf[i], tableA)
		}
		if bNaf != nil {
			tmp1.addNafDigitVar(r, bNaf[i], tableB)
		}
		if gNaf != nil {
			if d := gNaf[i]; d > 0 {
				r.fromCompleted(&tmp1)
				tmp1.addAffine(r, &gTable[d/2])
			} else if d < 0 {
				r.fromCompleted(&tmp1)
				tmp1.subAffine(r, &gTable[-d/2])
			}
		}

		tmp2.fromCompleted(&tmp1)
	}

	r.fromProjective(&tmp2)
}

// addNafDigitVar adds digit * P to r using the odd multiples of P in t.
// scratch receives the extended form of r before the addition.
func (r *completedPoint) addNafDigitVar(scratch *Point, digit int8, t *PrecomputedTable) {
	if digit > 0 {
		scratch.fromCompleted(r)
		r.add(scratch, t.oddMultiple(digit))
	} else if digit < 0 {
		scratch.fromCompleted(r)
		r.sub(scratch, t.oddMultiple(-digit))
	}
}
