// Package invariant implements the recursive invariant proof: a Sigma proof
// that a wallet's running totals still satisfy C_out_total - C_in_total =
// rho*H for the claimed rho, i.e. that global value conservation has held
// across the wallet's entire history without revealing any amount. Ported
// directly from the original source's recursive invariant module.
package invariant

import (
	"bytes"

	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

// RecursiveInvariantProof proves knowledge of rho such that D = rho*H, where
// D = C_out_total - C_in_total.
type RecursiveInvariantProof struct {
	A group.Point
	Z group.Scalar
}

// Prove builds the proof for statement D = rho*H. D and rho are taken from
// the caller's running ProofState rather than recomputed here, so this
// package stays decoupled from wallet state bookkeeping.
func Prove(d group.Point, rho group.Scalar) (*RecursiveInvariantProof, error) {
	k, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	a := group.SecondGenerator().ScalarMul(k)
	e, err := invariantChallenge(a, d)
	if err != nil {
		return nil, err
	}
	z := k.Add(e.Mul(rho))
	return &RecursiveInvariantProof{A: a, Z: z}, nil
}

// Verify checks proof against the statement D.
func Verify(d group.Point, proof *RecursiveInvariantProof) bool {
	e, err := invariantChallenge(proof.A, d)
	if err != nil {
		return false
	}
	lhs := group.SecondGenerator().ScalarMul(proof.Z)
	rhs := proof.A.Add(d.ScalarMul(e))
	return lhs.Equal(rhs)
}

func invariantChallenge(a, d group.Point) (group.Scalar, error) {
	aBytes, err := a.Bytes()
	if err != nil {
		return group.Scalar{}, err
	}
	dBytes, err := d.Bytes()
	if err != nil {
		return group.Scalar{}, err
	}
	return group.HashToScalar(aBytes, dBytes), nil
}

// CanonicalBytes serializes the proof's fields in the fixed order A, z.
func (p *RecursiveInvariantProof) CanonicalBytes() []byte {
	var buf bytes.Buffer
	if b, err := p.A.Bytes(); err == nil {
		buf.Write(b)
	}
	buf.Write(p.Z.Bytes())
	return buf.Bytes()
}
