// Package mint implements the two Sigma proofs a wallet presents to the bank
// at minting time: a plain opening proof, and a disjunctive proof that a
// commitment opens to one of a fixed set of allowed denominations without
// revealing which one.
//
// There is no original reference implementation for these two proofs to
// port (the retrieved original source's mint proof module is an empty
// stub), so both are authored directly from the algorithm description.
package mint

import (
	"bytes"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

var ErrInvalidInput = errs.New(errs.KindInvalidInput, "mint: value must be non-negative")

// OpeningProof is a Sigma proof of knowledge of (v, r) such that C = v*G + r*H.
type OpeningProof struct {
	A      group.Point
	Z1, Z2 group.Scalar
}

// ProveOpening proves knowledge of the opening (v, r) of C.
func ProveOpening(v int64, r group.Scalar, c commitment.Commitment) (*OpeningProof, error) {
	if v < 0 {
		return nil, ErrInvalidInput
	}
	a, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	b, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	A := group.Generator().ScalarMul(a).Add(group.SecondGenerator().ScalarMul(b))
	e, err := openingChallenge(A, c)
	if err != nil {
		return nil, err
	}
	z1 := a.Add(e.Mul(group.ScalarFromInt64(v)))
	z2 := b.Add(e.Mul(r))
	return &OpeningProof{A: A, Z1: z1, Z2: z2}, nil
}

// VerifyOpening checks proof against C.
func VerifyOpening(c commitment.Commitment, proof *OpeningProof) bool {
	e, err := openingChallenge(proof.A, c)
	if err != nil {
		return false
	}
	lhs := group.Generator().ScalarMul(proof.Z1).Add(group.SecondGenerator().ScalarMul(proof.Z2))
	rhs := proof.A.Add(c.Point.ScalarMul(e))
	return lhs.Equal(rhs)
}

func openingChallenge(A group.Point, c commitment.Commitment) (group.Scalar, error) {
	aBytes, err := A.Bytes()
	if err != nil {
		return group.Scalar{}, err
	}
	cBytes, err := c.Point.Bytes()
	if err != nil {
		return group.Scalar{}, err
	}
	return group.HashToScalar(aBytes, cBytes), nil
}

// CanonicalBytes serializes the proof's fields in the fixed order A, z1, z2,
// matching the canonical-serialization convention used for device transcript
// hashing.
func (p *OpeningProof) CanonicalBytes() []byte {
	var buf bytes.Buffer
	if a, err := p.A.Bytes(); err == nil {
		buf.Write(a)
	}
	buf.Write(p.Z1.Bytes())
	buf.Write(p.Z2.Bytes())
	return buf.Bytes()
}
