package mint

import (
	"bytes"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

// NumDenominations is len(AllowedDenominations), pulled out as a constant so
// DenominationProof can hold its branches in a fixed-size array rather than
// a map (see the design notes on avoiding polymorphic-container proofs).
const NumDenominations = 7

// AllowedDenominations is the fixed set of denominations the bank will mint.
// It is kept as an ordered slice (rather than a set) because the OR-proof's
// branch order is itself part of the canonical transcript.
var AllowedDenominations = []int64{1, 2, 5, 10, 20, 50, 100}

var ErrDenominationNotAllowed = errs.New(errs.KindInvalidInput, "mint: value is not an allowed denomination")

func indexOfDenomination(v int64) int {
	for i, d := range AllowedDenominations {
		if d == v {
			return i
		}
	}
	return -1
}

// DenominationBranch holds one branch of the disjunctive proof: real for the
// true denomination, simulated for every other one. A verifier cannot tell
// the two apart.
type DenominationBranch struct {
	A      group.Point
	Z1, Z2 group.Scalar
	E      group.Scalar
}

// DenominationProof proves that a commitment opens to SOME value in
// AllowedDenominations, without revealing which, via a Cramer-Damgard-Schoenmakers
// style OR-composition of Sigma opening proofs.
type DenominationProof struct {
	Branches [NumDenominations]DenominationBranch
}

// ProveMinting builds the OR-proof that C = v*G + r*H for the true (v, r),
// where v must be one of AllowedDenominations.
func ProveMinting(v int64, r group.Scalar, c commitment.Commitment) (*DenominationProof, error) {
	idx := indexOfDenomination(v)
	if idx < 0 {
		return nil, ErrDenominationNotAllowed
	}

	var proof DenominationProof
	eSum := group.Zero()

	for i, d := range AllowedDenominations {
		if i == idx {
			continue
		}
		ed, err := group.RandomScalar()
		if err != nil {
			return nil, err
		}
		z1d, err := group.RandomScalar()
		if err != nil {
			return nil, err
		}
		z2d, err := group.RandomScalar()
		if err != nil {
			return nil, err
		}
		// Simulate: pick (e_d, z1_d, z2_d) first, then solve for A_d that
		// makes the verification equation hold for this fake branch.
		Ad := group.Generator().ScalarMul(z1d).
			Add(group.SecondGenerator().ScalarMul(z2d)).
			Sub(c.Point.ScalarMul(ed))
		proof.Branches[i] = DenominationBranch{A: Ad, Z1: z1d, Z2: z2d, E: ed}
		eSum = eSum.Add(ed)
		_ = d
	}

	a, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	b, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	Av := group.Generator().ScalarMul(a).Add(group.SecondGenerator().ScalarMul(b))
	proof.Branches[idx] = DenominationBranch{A: Av}

	cBytes, err := c.Point.Bytes()
	if err != nil {
		return nil, err
	}
	e, err := denominationChallenge(&proof, cBytes)
	if err != nil {
		return nil, err
	}

	ev := e.Sub(eSum)
	zv1 := a.Add(ev.Mul(group.ScalarFromInt64(v)))
	zv2 := b.Add(ev.Mul(r))
	proof.Branches[idx] = DenominationBranch{A: Av, Z1: zv1, Z2: zv2, E: ev}

	return &proof, nil
}

// VerifyMinting checks that every branch's Sigma equation holds and that the
// branch challenges sum to the overall Fiat-Shamir challenge: a prover can
// pick the challenges of all branches but one in advance, so passing both
// checks requires a valid opening for at least one denomination.
func VerifyMinting(c commitment.Commitment, proof *DenominationProof) bool {
	cBytes, err := c.Point.Bytes()
	if err != nil {
		return false
	}
	eSum := group.Zero()
	for _, br := range proof.Branches {
		lhs := group.Generator().ScalarMul(br.Z1).Add(group.SecondGenerator().ScalarMul(br.Z2))
		rhs := br.A.Add(c.Point.ScalarMul(br.E))
		if !lhs.Equal(rhs) {
			return false
		}
		eSum = eSum.Add(br.E)
	}
	e, err := denominationChallenge(proof, cBytes)
	if err != nil {
		return false
	}
	return eSum.Equal(e)
}

// denominationChallenge hashes every branch's A point (in fixed
// denomination order) together with C; it deliberately excludes e/z so that
// it can be computed before the real branch's challenge share is known.
func denominationChallenge(proof *DenominationProof, cBytes []byte) (group.Scalar, error) {
	var buf bytes.Buffer
	for _, br := range proof.Branches {
		b, err := br.A.Bytes()
		if err != nil {
			return group.Scalar{}, err
		}
		buf.Write(b)
	}
	buf.Write(cBytes)
	return group.HashToScalar(buf.Bytes()), nil
}

// CanonicalBytes serializes the proof's branches in the fixed field order
// A_d, e_d, z1_d, z2_d (alphabetical), each iterated over denominations in
// ascending order, per the canonical-serialization convention for
// mapping-valued proof fields.
func (p *DenominationProof) CanonicalBytes() []byte {
	var buf bytes.Buffer
	write := func(sel func(DenominationBranch) []byte) {
		for i, d := range AllowedDenominations {
			buf.Write(group.ScalarFromInt64(d).Bytes())
			buf.Write(sel(p.Branches[i]))
		}
	}
	write(func(b DenominationBranch) []byte {
		ab, _ := b.A.Bytes()
		return ab
	})
	write(func(b DenominationBranch) []byte { return b.E.Bytes() })
	write(func(b DenominationBranch) []byte { return b.Z1.Bytes() })
	write(func(b DenominationBranch) []byte { return b.Z2.Bytes() })
	return buf.Bytes()
}
