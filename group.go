package cn25519

// Point represents a point on the twisted Edwards curve
// -x^2 + y^2 = 1 + d*x^2*y^2 in extended coordinates (X:Y:Z:T), where
// x = X/Z, y = Y/Z and x*y = T/Z.
//
// The zero value is NOT valid; use Identity, Generator or one of the
// setters to initialise a Point.
type Point struct {
	x, y, z, t FieldElement

	// Make the type not comparable (i.e. used with == or as a map key), as
	// equivalent points can be represented by different Go values.
	_ incomparable
}

type incomparable [0]func()

// projectivePoint is a point in projective coordinates (X:Y:Z), with
// x = X/Z and y = Y/Z. It is the input of the doubling formula.
type projectivePoint struct {
	X, Y, Z FieldElement
}

// completedPoint is the output of addition and doubling, ((X:Z), (Y:T)),
// with x = X/Z and y = Y/T.
type completedPoint struct {
	X, Y, Z, T FieldElement
}

// cachedPoint stores (Y+X, Y-X, Z, 2dT) for repeated additions of a point
type cachedPoint struct {
	YplusX, YminusX, Z, T2d FieldElement
}

// affineCached stores (y+x, y-x, 2dxy) for a point with Z = 1
type affineCached struct {
	YplusX, YminusX, T2d FieldElement
}

// AffinePoint represents a point in affine coordinates (x, y)
type AffinePoint struct {
	X, Y FieldElement
}

// Generator point B for the curve
var (
	// generatorPoint is the base point with y = 4/5 and positive x
	generatorPoint = &Point{
		x: FieldElement{n: [5]uint64{1738742601995546, 1146398526822698,
			2070867633025821, 562264141797630, 587772402128613}},
		y: FieldElement{n: [5]uint64{1801439850948184, 1351079888211148,
			450359962737049, 900719925474099, 1801439850948198}},
		z: FieldElement{n: [5]uint64{1, 0, 0, 0, 0}},
		t: FieldElement{n: [5]uint64{1841354044333475, 16398895984059,
			755974180946558, 900171276175154, 1821297809914039}},
	}

	identityPoint = &Point{
		x: FieldElementZero,
		y: FieldElementOne,
		z: FieldElementOne,
		t: FieldElementZero,
	}
)

// NewIdentityPoint returns a new Point set to the identity
func NewIdentityPoint() *Point {
	return new(Point).Identity()
}

// NewGeneratorPoint returns a new Point set to the canonical generator B
func NewGeneratorPoint() *Point {
	return new(Point).Generator()
}

// Identity sets r to the identity element, and returns r
func (r *Point) Identity() *Point {
	*r = *identityPoint
	return r
}

// Generator sets r to the canonical generator B, and returns r
func (r *Point) Generator() *Point {
	*r = *generatorPoint
	return r
}

// Set sets r = a, and returns r
func (r *Point) Set(a *Point) *Point {
	*r = *a
	return r
}

// Affine returns the affine coordinates of r
func (r *Point) Affine() AffinePoint {
	var zInv FieldElement
	var a AffinePoint
	zInv.inv(&r.z)
	a.X.mul(&r.x, &zInv)
	a.Y.mul(&r.y, &zInv)
	a.X.normalize()
	a.Y.normalize()
	return a
}

// Conversions.

func (r *projectivePoint) fromCompleted(p *completedPoint) {
	r.X.mul(&p.X, &p.T)
	r.Y.mul(&p.Y, &p.Z)
	r.Z.mul(&p.Z, &p.T)
}

func (r *projectivePoint) fromExtended(p *Point) {
	r.X.set(&p.x)
	r.Y.set(&p.y)
	r.Z.set(&p.z)
}

func (r *Point) fromCompleted(p *completedPoint) {
	r.x.mul(&p.X, &p.T)
	r.y.mul(&p.Y, &p.Z)
	r.z.mul(&p.Z, &p.T)
	r.t.mul(&p.X, &p.Y)
}

// fromProjective converts (X:Y:Z) to (XZ:YZ:Z^2:XY). The extra coordinate
// is recomputed exactly rather than assumed.
func (r *Point) fromProjective(p *projectivePoint) {
	r.x.mul(&p.X, &p.Z)
	r.y.mul(&p.Y, &p.Z)
	r.z.sqr(&p.Z)
	r.t.mul(&p.X, &p.Y)
}

func (r *cachedPoint) fromExtended(p *Point) {
	r.YplusX.add(&p.y, &p.x)
	r.YminusX.sub(&p.y, &p.x)
	r.Z.set(&p.z)
	r.T2d.mul(&p.t, &fieldD2)
}

// fromExtended computes the affine cached form of p, using one inversion
func (r *affineCached) fromExtended(p *Point) {
	var zInv FieldElement
	zInv.inv(&p.z)
	r.fromExtendedZInv(p, &zInv)
}

// fromExtendedZInv computes the affine cached form of p given 1/Z
func (r *affineCached) fromExtendedZInv(p *Point, zInv *FieldElement) {
	var x, y FieldElement
	x.mul(&p.x, zInv)
	y.mul(&p.y, zInv)

	r.YplusX.add(&y, &x)
	r.YminusX.sub(&y, &x)
	r.T2d.mul(&x, &y)
	r.T2d.mul(&r.T2d, &fieldD2)
}

// Addition and subtraction.

// Add sets r = p + q, and returns r
func (r *Point) Add(p, q *Point) *Point {
	var qCached cachedPoint
	var result completedPoint
	qCached.fromExtended(q)
	result.add(p, &qCached)
	r.fromCompleted(&result)
	return r
}

// Subtract sets r = p - q, and returns r
func (r *Point) Subtract(p, q *Point) *Point {
	var qCached cachedPoint
	var result completedPoint
	qCached.fromExtended(q)
	result.sub(p, &qCached)
	r.fromCompleted(&result)
	return r
}

// add sets r = p + q using the complete extended addition formula
func (r *completedPoint) add(p *Point, q *cachedPoint) {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 FieldElement

	YplusX.add(&p.y, &p.x)
	YminusX.sub(&p.y, &p.x)

	PP.mul(&YplusX, &q.YplusX)
	MM.mul(&YminusX, &q.YminusX)
	TT2d.mul(&p.t, &q.T2d)
	ZZ2.mul(&p.z, &q.Z)

	ZZ2.add(&ZZ2, &ZZ2)

	r.X.sub(&PP, &MM)
	r.Y.add(&PP, &MM)
	r.Z.add(&ZZ2, &TT2d)
	r.T.sub(&ZZ2, &TT2d)
}

// sub sets r = p - q
func (r *completedPoint) sub(p *Point, q *cachedPoint) {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 FieldElement

	YplusX.add(&p.y, &p.x)
	YminusX.sub(&p.y, &p.x)

	PP.mul(&YplusX, &q.YminusX) // flipped sign
	MM.mul(&YminusX, &q.YplusX) // flipped sign
	TT2d.mul(&p.t, &q.T2d)
	ZZ2.mul(&p.z, &q.Z)

	ZZ2.add(&ZZ2, &ZZ2)

	r.X.sub(&PP, &MM)
	r.Y.add(&PP, &MM)
	r.Z.sub(&ZZ2, &TT2d) // flipped sign
	r.T.add(&ZZ2, &TT2d) // flipped sign
}

// addAffine sets r = p + q for an affine cached q
func (r *completedPoint) addAffine(p *Point, q *affineCached) {
	var YplusX, YminusX, PP, MM, TT2d, Z2 FieldElement

	YplusX.add(&p.y, &p.x)
	YminusX.sub(&p.y, &p.x)

	PP.mul(&YplusX, &q.YplusX)
	MM.mul(&YminusX, &q.YminusX)
	TT2d.mul(&p.t, &q.T2d)

	Z2.add(&p.z, &p.z)

	r.X.sub(&PP, &MM)
	r.Y.add(&PP, &MM)
	r.Z.add(&Z2, &TT2d)
	r.T.sub(&Z2, &TT2d)
}

// subAffine sets r = p - q for an affine cached q
func (r *completedPoint) subAffine(p *Point, q *affineCached) {
	var YplusX, YminusX, PP, MM, TT2d, Z2 FieldElement

	YplusX.add(&p.y, &p.x)
	YminusX.sub(&p.y, &p.x)

	PP.mul(&YplusX, &q.YminusX) // flipped sign
	MM.mul(&YminusX, &q.YplusX) // flipped sign
	TT2d.mul(&p.t, &q.T2d)

	Z2.add(&p.z, &p.z)

	r.X.sub(&PP, &MM)
	r.Y.add(&PP, &MM)
	r.Z.sub(&Z2, &TT2d) // flipped sign
	r.T.add(&Z2, &TT2d) // flipped sign
}

// Doubling.

// double sets r = 2p
func (r *completedPoint) double(p *projectivePoint) {
	var XX, YY, ZZ2, XplusYsq FieldElement

	XX.sqr(&p.X)
	YY.sqr(&p.Y)
	ZZ2.sqr(&p.Z)
	ZZ2.add(&ZZ2, &ZZ2)
	XplusYsq.add(&p.X, &p.Y)
	XplusYsq.sqr(&XplusYsq)

	r.Y.add(&YY, &XX)
	r.Z.sub(&YY, &XX)

	r.X.sub(&XplusYsq, &r.Y)
	r.T.sub(&ZZ2, &r.Z)
}

// Double sets r = 2p, and returns r
func (r *Point) Double(p *Point) *Point {
	var pp projectivePoint
	var result completedPoint
	pp.fromExtended(p)
	result.double(&pp)
	r.fromCompleted(&result)
	return r
}

// MulByCofactor sets r = 8p, and returns r
func (r *Point) MulByCofactor(p *Point) *Point {
	var pp projectivePoint
	var result completedPoint

	pp.fromExtended(p)
	result.double(&pp)
	pp.fromCompleted(&result)
	result.double(&pp)
	pp.fromCompleted(&result)
	result.double(&pp)
	r.fromCompleted(&result)
	return r
}

// Negate sets r = -p, and returns r
func (r *Point) Negate(p *Point) *Point {
	r.x.negate(&p.x)
	r.y.set(&p.y)
	r.z.set(&p.z)
	r.t.negate(&p.t)
	return r
}

// Equal reports whether r and a represent the same group element
func (r *Point) Equal(a *Point) bool {
	var t1, t2, t3, t4 FieldElement
	t1.mul(&r.x, &a.z)
	t2.mul(&a.x, &r.z)
	t3.mul(&r.y, &a.z)
	t4.mul(&a.y, &r.z)

	return t1.equal(&t2)&t3.equal(&t4) == 1
}

// IsIdentity reports whether r is the identity element
func (r *Point) IsIdentity() bool {
	return r.x.isZero()&r.y.equal(&r.z) == 1
}

// IsOnCurve reports whether the coordinates of r satisfy the curve
// equation -X^2 + Y^2 = Z^2 + d*T^2 and the extended relation X*Y = Z*T
func (r *Point) IsOnCurve() bool {
	var xx, yy, zz, tt, lhs, rhs FieldElement
	xx.sqr(&r.x)
	yy.sqr(&r.y)
	zz.sqr(&r.z)
	tt.sqr(&r.t)

	lhs.sub(&yy, &xx)
	rhs.mul(&tt, &fieldD)
	rhs.add(&rhs, &zz)

	var xy, zt FieldElement
	xy.mul(&r.x, &r.y)
	zt.mul(&r.z, &r.t)

	return r.z.isZero() == 0 && lhs.equal(&rhs)&xy.equal(&zt) == 1
}

// Constant-time operations

// cmov sets r = a if flag is 1 and leaves r unchanged otherwise
func (r *cachedPoint) cmov(a *cachedPoint, flag int) {
	r.YplusX.cmov(&a.YplusX, flag)
	r.YminusX.cmov(&a.YminusX, flag)
	r.Z.cmov(&a.Z, flag)
	r.T2d.cmov(&a.T2d, flag)
}

// cmov sets r = a if flag is 1 and leaves r unchanged otherwise
func (r *affineCached) cmov(a *affineCached, flag int) {
	r.YplusX.cmov(&a.YplusX, flag)
	r.YminusX.cmov(&a.YminusX, flag)
	r.T2d.cmov(&a.T2d, flag)
}

// condNegate negates r if flag is 1 and leaves it unchanged otherwise
func (r *cachedPoint) condNegate(flag int) {
	r.YplusX.swap(&r.YminusX, flag)
	r.T2d.condNegate(&r.T2d, flag)
}

// condNegate negates r if flag is 1 and leaves it unchanged otherwise
func (r *affineCached) condNegate(flag int) {
	r.YplusX.swap(&r.YminusX, flag)
	r.T2d.condNegate(&r.T2d, flag)
}

// setIdentity sets r to the cached form of the identity
func (r *cachedPoint) setIdentity() {
	r.YplusX = FieldElementOne
	r.YminusX = FieldElementOne
	r.Z = FieldElementOne
	r.T2d = FieldElementZero
}

// setIdentity sets r to the affine cached form of the identity
func (r *affineCached) setIdentity() {
	r.YplusX = FieldElementOne
	r.YminusX = FieldElementOne
	r.T2d = FieldElementZero
}
