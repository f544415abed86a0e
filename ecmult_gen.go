package cn25519

import (
	"sync"
)

const (
	// Number of radix-256 positions in a scalar; each holds two radix-16 digits
	genTableRows = 32
	// Multiples stored per row: 1..8, negatives come from conditional negation
	genTableCols = 8
)

// EcmultGenContext holds precomputed data for constant-time multiplication
// of the base point. Row i holds (j+1) * 256^i * B for j = 0..7 in affine
// cached form.
type EcmultGenContext struct {
	table       [genTableRows]affineLookupTable
	initialized bool
}

var (
	// Global context for generator multiplication (initialized once)
	globalGenContext *EcmultGenContext
	genContextOnce   sync.Once
)

// initGenContext computes every row of the base point table and
// normalises all 256 entries with one batched inversion
func (ctx *EcmultGenContext) initGenContext() {
	var base Point
	base.Generator()

	points := make([]Point, genTableRows*genTableCols)
	for i := 0; i < genTableRows; i++ {
		row := points[i*genTableCols : (i+1)*genTableCols]
		row[0].Set(&base)
		for j := 1; j < genTableCols; j++ {
			row[j].Add(&row[j-1], &base)
		}

		// base = 256 * base
		for k := 0; k < 8; k++ {
			base.Double(&base)
		}
	}

	affine := make([]affineCached, len(points))
	toAffineCached(affine, points)
	for i := 0; i < genTableRows; i++ {
		copy(ctx.table[i].points[:], affine[i*genTableCols:(i+1)*genTableCols])
	}

	ctx.initialized = true
}

// getGlobalGenContext returns the global precomputed context
func getGlobalGenContext() *EcmultGenContext {
	genContextOnce.Do(func() {
		globalGenContext = &EcmultGenContext{}
		globalGenContext.initGenContext()
	})
	return globalGenContext
}

// ecmultGen computes r = s * B in constant time.
//
// The scalar is recoded into 64 signed radix-16 digits. Odd digits are
// accumulated first, the sum is multiplied by 16, then the even digits are
// added, so only 32 table rows are needed. Every lookup scans a full row.
func (ctx *EcmultGenContext) ecmultGen(r *Point, s *Scalar) {
	if !ctx.initialized {
		panic("ecmult_gen context not initialized")
	}

	digits := s.signedRadix16()

	var multiple affineCached
	var tmp1 completedPoint
	var tmp2 projectivePoint

	r.Identity()
	for i := 1; i < 64; i += 2 {
		ctx.table[i/2].selectInto(&multiple, digits[i])
		tmp1.addAffine(r, &multiple)
		r.fromCompleted(&tmp1)
	}

	// r = 16 * r
	tmp2.fromExtended(r)
	tmp1.double(&tmp2)
	tmp2.fromCompleted(&tmp1)
	tmp1.double(&tmp2)
	tmp2.fromCompleted(&tmp1)
	tmp1.double(&tmp2)
	tmp2.fromCompleted(&tmp1)
	tmp1.double(&tmp2)
	r.fromCompleted(&tmp1)

	for i := 0; i < 64; i += 2 {
		ctx.table[i/2].selectInto(&multiple, digits[i])
		tmp1.addAffine(r, &multiple)
		r.fromCompleted(&tmp1)
	}
}

// EcmultGen computes r = s * B where B is the base point. This is the
// constant-time path: use it whenever s is secret (public keys, signature
// commitments).
func EcmultGen(r *Point, s *Scalar) {
	getGlobalGenContext().ecmultGen(r, s)
}
