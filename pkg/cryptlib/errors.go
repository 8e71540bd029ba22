package cryptlib

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrConfiguration is returned when an unknown curve, algorithm or
	// variant name is requested, or an object is used before it is
	// initialized.
	ErrConfiguration = ErrorKind("ErrConfiguration")

	// ErrInvalidModulus is returned when a modular operation is given a
	// modulus it cannot work with (for example m < 2).
	ErrInvalidModulus = ErrorKind("ErrInvalidModulus")

	// ErrNoInverse is returned when a modular inverse does not exist, which
	// includes division by zero.
	ErrNoInverse = ErrorKind("ErrNoInverse")

	// ErrNoSquareRoot is returned when the value is a quadratic non-residue.
	ErrNoSquareRoot = ErrorKind("ErrNoSquareRoot")

	// ErrInvalidKey is returned when a private key or scalar is malformed or
	// outside [1, n-1].
	ErrInvalidKey = ErrorKind("ErrInvalidKey")

	// ErrInvalidPublicKey is returned when a public key is malformed, is the
	// point at infinity, or is not on the curve.
	ErrInvalidPublicKey = ErrorKind("ErrInvalidPublicKey")

	// ErrInvalidSharedPoint is returned when a key exchange yields the point
	// at infinity.
	ErrInvalidSharedPoint = ErrorKind("ErrInvalidSharedPoint")

	// ErrPointAtInfinity is returned when the point at infinity is passed to
	// an operation that has no representation for it.
	ErrPointAtInfinity = ErrorKind("ErrPointAtInfinity")

	// ErrInvalidEncoding is returned when a byte encoding has the wrong
	// length or format.
	ErrInvalidEncoding = ErrorKind("ErrInvalidEncoding")

	// ErrDegenerateSignature is returned when signing produces r = 0 or
	// s = 0.
	ErrDegenerateSignature = ErrorKind("ErrDegenerateSignature")

	// ErrKEM is returned when the key encapsulation backend fails.
	ErrKEM = ErrorKind("ErrKEM")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to elliptic curve arithmetic, keys or
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

// NewError creates an Error given a set of arguments.
func NewError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
