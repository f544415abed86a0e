package cn25519

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrPointDecoding is returned when 32 bytes do not encode a point on the
	// curve: the y coordinate is not canonical, no square root exists for x,
	// or the recovered point fails the curve equation.
	ErrPointDecoding = ErrorKind("ErrPointDecoding")

	// ErrInvalidScalar is returned when a scalar encoding is not reduced
	// modulo the group order where a canonical encoding is required.
	ErrInvalidScalar = ErrorKind("ErrInvalidScalar")

	// ErrSubgroupViolation is returned when a decoded point has a component
	// in the small torsion subgroup.
	ErrSubgroupViolation = ErrorKind("ErrSubgroupViolation")

	// ErrVerification is returned when a signature does not match its
	// public key and prefix hash.
	ErrVerification = ErrorKind("ErrVerification")

	// ErrInvalidLength is returned when an input does not have the fixed
	// length its type requires.
	ErrInvalidLength = ErrorKind("ErrInvalidLength")

	// ErrEntropy is returned when the entropy source fails to deliver the
	// requested number of bytes.
	ErrEntropy = ErrorKind("ErrEntropy")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to curve points, scalars, keys or
// signatures. It has full support for errors.Is and errors.As, so the caller
// can ascertain the specific reason for the error by checking the underlying
// error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
