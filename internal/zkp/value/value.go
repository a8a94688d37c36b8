// Package value implements the value-conservation proof a spender presents
// alongside a spend: that an input commitment's value equals the sum of its
// outputs' values, without revealing any of the three values. There is no
// original reference implementation to port (the retrieved original
// source's value proof module is an empty stub), so the proof is authored
// directly from the algorithm description as a zero-opening Sigma proof
// over the commitment difference C_in - C_out - C_change.
package value

import (
	"bytes"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

var ErrValueMismatch = errs.New(errs.KindInvalidInput, "value: input value does not equal the sum of outputs")

// ValueProof proves that C_in - C_out - C_change opens to (0, rho) for some
// rho, i.e. that the three commitments' values conserve exactly.
type ValueProof struct {
	A      group.Point
	Zv, Zr group.Scalar
}

// ProveValueConservation builds the proof. The caller is responsible for
// having already checked vIn == vOut + vChange; this function re-checks it
// since a proof of a false statement would be unsound.
func ProveValueConservation(vIn, vOut, vChange int64, rIn, rOut, rChange group.Scalar, cIn, cOut, cChange commitment.Commitment) (*ValueProof, error) {
	if vIn != vOut+vChange {
		return nil, ErrValueMismatch
	}
	diff := difference(cIn, cOut, cChange)
	rho := rIn.Sub(rOut).Sub(rChange)

	av, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	ar, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	a := group.Generator().ScalarMul(av).Add(group.SecondGenerator().ScalarMul(ar))

	e, err := valueChallenge(a, diff)
	if err != nil {
		return nil, err
	}

	// The statement's value component is always 0, so z_v degenerates to
	// the nonce itself (a_v + e*0); it is still included explicitly so the
	// proof has the same shape as a general opening proof.
	zv := av
	zr := ar.Add(e.Mul(rho))

	return &ValueProof{A: a, Zv: zv, Zr: zr}, nil
}

// VerifyValueConservation checks proof against the three public commitments.
func VerifyValueConservation(cIn, cOut, cChange commitment.Commitment, proof *ValueProof) bool {
	diff := difference(cIn, cOut, cChange)
	e, err := valueChallenge(proof.A, diff)
	if err != nil {
		return false
	}
	lhs := group.Generator().ScalarMul(proof.Zv).Add(group.SecondGenerator().ScalarMul(proof.Zr))
	rhs := proof.A.Add(diff.Point.ScalarMul(e))
	return lhs.Equal(rhs)
}

func difference(cIn, cOut, cChange commitment.Commitment) commitment.Commitment {
	return cIn.Sub(cOut).Sub(cChange)
}

func valueChallenge(a group.Point, diff commitment.Commitment) (group.Scalar, error) {
	aBytes, err := a.Bytes()
	if err != nil {
		return group.Scalar{}, err
	}
	dBytes, err := diff.Point.Bytes()
	if err != nil {
		return group.Scalar{}, err
	}
	return group.HashToScalar(aBytes, dBytes), nil
}

// CanonicalBytes serializes the proof's fields in the fixed alphabetical
// order A, z_r, z_v.
func (p *ValueProof) CanonicalBytes() []byte {
	var buf bytes.Buffer
	if b, err := p.A.Bytes(); err == nil {
		buf.Write(b)
	}
	buf.Write(p.Zr.Bytes())
	buf.Write(p.Zv.Bytes())
	return buf.Bytes()
}
