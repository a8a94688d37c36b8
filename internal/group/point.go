package group

import (
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
)

var (
	// ErrIdentityPoint is returned by Bytes when asked to serialize the
	// group identity, which has no canonical (x, y) encoding under the
	// fixed-width wire format this codebase uses.
	ErrIdentityPoint = errs.New(errs.KindInvalidInput, "group: cannot serialize the identity point")
	// ErrBadPointEncoding is returned when decoding a point from bytes that
	// are the wrong length or do not lie on the curve.
	ErrBadPointEncoding = errs.New(errs.KindInvalidInput, "group: invalid point encoding")
)

// PedersenHTag is the domain-separation tag hashed to derive the second
// Pedersen generator H, so that nobody (including this codebase) ever learns
// log_G(H).
const PedersenHTag = "offline-cbdc-pedersen-H"

// Point wraps a bn254 G1 affine point. The zero value is not a valid point;
// use Identity, Generator, or SecondGenerator.
type Point struct {
	p bn254.G1Affine
}

var baseGenerator Point

func init() {
	_, _, g, _ := bn254.Generators()
	baseGenerator = Point{p: g}
}

// Generator returns G, the group's standard base point.
func Generator() Point {
	return baseGenerator
}

var (
	hOnce  sync.Once
	hPoint Point
)

// SecondGenerator returns H = hash_to_scalar(PedersenHTag) * G. H is derived
// rather than chosen, so its discrete log relative to G is unknown to any
// party, which is what makes Pedersen commitments computationally binding.
func SecondGenerator() Point {
	hOnce.Do(func() {
		s := HashToScalar([]byte(PedersenHTag))
		hPoint = Generator().ScalarMul(s)
	})
	return hPoint
}

// Identity returns the group's additive identity (point at infinity), using
// gnark-crypto's (0, 0) affine convention.
func Identity() Point {
	var p bn254.G1Affine
	p.X.SetZero()
	p.Y.SetZero()
	return Point{p: p}
}

func (p Point) IsIdentity() bool {
	return p.p.X.IsZero() && p.p.Y.IsZero()
}

func (p Point) Add(o Point) Point {
	var r bn254.G1Affine
	r.Add(&p.p, &o.p)
	return Point{p: r}
}

func (p Point) Neg() Point {
	var r bn254.G1Affine
	r.Neg(&p.p)
	return Point{p: r}
}

func (p Point) Sub(o Point) Point {
	return p.Add(o.Neg())
}

func (p Point) ScalarMul(s Scalar) Point {
	var r bn254.G1Affine
	r.ScalarMultiplication(&p.p, s.BigInt())
	return Point{p: r}
}

func (p Point) Equal(o Point) bool {
	return p.p.Equal(&o.p)
}

// Bytes returns the fixed 64-byte encoding be32(x) || be32(y). It fails for
// the identity point, which has no such encoding; callers must ensure the
// point they are serializing into a transcript is never the identity (in
// practice this only happens with negligible probability, or as a symptom
// of a broken invariant).
func (p Point) Bytes() ([]byte, error) {
	if p.IsIdentity() {
		return nil, ErrIdentityPoint
	}
	var xBig, yBig big.Int
	p.p.X.BigInt(&xBig)
	p.p.Y.BigInt(&yBig)
	out := make([]byte, 64)
	xBig.FillBytes(out[0:32])
	yBig.FillBytes(out[32:64])
	return out, nil
}

// Key returns the fixed-width encoding as a comparable array, for use as a
// map key (e.g. tracking seen nullifiers). It fails under the same
// condition as Bytes.
func (p Point) Key() ([64]byte, error) {
	var k [64]byte
	b, err := p.Bytes()
	if err != nil {
		return k, err
	}
	copy(k[:], b)
	return k, nil
}

// PointFromBytes decodes the fixed 64-byte be32(x) || be32(y) encoding and
// verifies the result lies on the curve.
func PointFromBytes(b []byte) (Point, error) {
	if len(b) != 64 {
		return Point{}, ErrBadPointEncoding
	}
	xBig := new(big.Int).SetBytes(b[0:32])
	yBig := new(big.Int).SetBytes(b[32:64])
	var p bn254.G1Affine
	p.X.SetBigInt(xBig)
	p.Y.SetBigInt(yBig)
	if !p.IsOnCurve() {
		return Point{}, ErrBadPointEncoding
	}
	return Point{p: p}, nil
}
