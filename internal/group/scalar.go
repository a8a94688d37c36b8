package group

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
)

var ErrInvalidScalarBytes = errs.New(errs.KindInvalidInput, "group: scalar encoding has wrong length")

// Order returns the prime order q of the scalar field (and of the group,
// since bn254's G1 has prime order equal to fr's modulus).
func Order() *big.Int {
	return fr.Modulus()
}

// Scalar is an integer modulo Order, always kept in reduced form so that
// equality and zero-checks are simple value comparisons.
type Scalar struct {
	v big.Int
}

// Zero is the additive identity scalar.
func Zero() Scalar {
	return Scalar{}
}

// NewScalar reduces x modulo Order and wraps the result.
func NewScalar(x *big.Int) Scalar {
	var s Scalar
	s.v.Mod(x, Order())
	return s
}

// ScalarFromUint64 builds a reduced scalar from a small non-negative integer.
func ScalarFromUint64(v uint64) Scalar {
	return NewScalar(new(big.Int).SetUint64(v))
}

// ScalarFromInt64 builds a reduced scalar from a non-negative int64, such as
// a token denomination or value. Negative inputs are rejected by callers
// before they reach this constructor; it reduces mod Order regardless.
func ScalarFromInt64(v int64) Scalar {
	return NewScalar(big.NewInt(v))
}

// ScalarFromBytes interprets b as an unsigned big-endian integer and reduces
// it modulo Order. Used to decode the z component of a Schnorr signature and
// similar fixed-width fields.
func ScalarFromBytes(b []byte) Scalar {
	return NewScalar(new(big.Int).SetBytes(b))
}

// RandomScalar draws a uniformly random element of [0, Order).
func RandomScalar() (Scalar, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return Scalar{}, err
	}
	var bi big.Int
	e.BigInt(&bi)
	return NewScalar(&bi), nil
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// HashToScalar computes SHA-256 over the concatenation of parts and reduces
// the digest modulo Order. This is the Fiat-Shamir challenge primitive used
// throughout the proof suite.
func HashToScalar(parts ...[]byte) Scalar {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	digest := h.Sum(nil)
	return NewScalar(new(big.Int).SetBytes(digest))
}

func (s Scalar) BigInt() *big.Int {
	return new(big.Int).Set(&s.v)
}

func (s Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

func (s Scalar) Equal(o Scalar) bool {
	return s.v.Cmp(&o.v) == 0
}

func (s Scalar) Add(o Scalar) Scalar {
	return NewScalar(new(big.Int).Add(&s.v, &o.v))
}

func (s Scalar) Sub(o Scalar) Scalar {
	return NewScalar(new(big.Int).Sub(&s.v, &o.v))
}

func (s Scalar) Mul(o Scalar) Scalar {
	return NewScalar(new(big.Int).Mul(&s.v, &o.v))
}

// Bytes returns the minimum-length big-endian encoding of the scalar's
// integer value (the zero scalar encodes to an empty slice), matching the
// wire-format serialize_int convention used for hashed transcripts.
func (s Scalar) Bytes() []byte {
	return s.v.Bytes()
}

// Bytes32 returns the fixed 32-byte big-endian encoding, used where a
// signature or wire field has a fixed width (e.g. the z component of a
// Schnorr signature).
func (s Scalar) Bytes32() []byte {
	b := make([]byte, 32)
	s.v.FillBytes(b)
	return b
}

// Key returns a fixed-size array suitable as a map key, derived from the
// scalar's fixed-width encoding.
func (s Scalar) Key() [32]byte {
	var k [32]byte
	copy(k[:], s.Bytes32())
	return k
}

// SerializeInt returns the minimum-length big-endian encoding of a plain
// non-negative integer (not reduced modulo Order), for fields such as token
// expiry that are timestamps rather than group scalars.
func SerializeInt(x uint64) []byte {
	if x == 0 {
		return []byte{}
	}
	return new(big.Int).SetUint64(x).Bytes()
}

// BE8 returns the fixed 8-byte big-endian encoding of x, used for the
// issued_at/expires_at fields hashed into a device certificate message.
func BE8(x uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], x)
	return b[:]
}
