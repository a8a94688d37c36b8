// Package spend implements the discrete-log nullifier and the joint
// commitment/nullifier ownership proof a spender presents when consuming a
// token. Both the nullifier derivation and the proof's challenge byte
// ordering are ported directly from the original source's spend proof
// module, which is a complete implementation (unlike the mint and value
// proof stubs).
package spend

import (
	"bytes"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

var ErrInvalidInput = errs.New(errs.KindInvalidInput, "spend: value must be non-negative")

// SpendProof proves joint knowledge of (v, r, s) such that C = v*G + r*H and
// serial = s*G, binding the nullifier to the specific commitment it spends.
type SpendProof struct {
	ACommit, ASerial group.Point
	Zv, Zr, Zs       group.Scalar
}

// DeriveSerial computes the discrete-log nullifier serial = s*G for a
// token's secret serial scalar s. Publishing serial lets a receiver detect
// double-spends without learning s.
func DeriveSerial(s group.Scalar) group.Point {
	return group.Generator().ScalarMul(s)
}

// ProveSpendOwnership proves that the caller knows the opening (v, r) of C
// and the secret s behind serial, without revealing any of them.
func ProveSpendOwnership(v int64, r, s group.Scalar, c commitment.Commitment, serial group.Point) (*SpendProof, error) {
	if v < 0 {
		return nil, ErrInvalidInput
	}
	av, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	ar, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	as, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	aCommit := group.Generator().ScalarMul(av).Add(group.SecondGenerator().ScalarMul(ar))
	aSerial := group.Generator().ScalarMul(as)

	e, err := spendChallenge(aCommit, aSerial, c.Point, serial)
	if err != nil {
		return nil, err
	}

	zv := av.Add(e.Mul(group.ScalarFromInt64(v)))
	zr := ar.Add(e.Mul(r))
	zs := as.Add(e.Mul(s))

	return &SpendProof{ACommit: aCommit, ASerial: aSerial, Zv: zv, Zr: zr, Zs: zs}, nil
}

// VerifySpendOwnership checks proof against (C, serial).
func VerifySpendOwnership(c commitment.Commitment, serial group.Point, proof *SpendProof) bool {
	e, err := spendChallenge(proof.ACommit, proof.ASerial, c.Point, serial)
	if err != nil {
		return false
	}
	lhsCommit := group.Generator().ScalarMul(proof.Zv).Add(group.SecondGenerator().ScalarMul(proof.Zr))
	rhsCommit := proof.ACommit.Add(c.Point.ScalarMul(e))
	if !lhsCommit.Equal(rhsCommit) {
		return false
	}
	lhsSerial := group.Generator().ScalarMul(proof.Zs)
	rhsSerial := proof.ASerial.Add(serial.ScalarMul(e))
	return lhsSerial.Equal(rhsSerial)
}

// spendChallenge hashes (A_commit, A_serial, C, serial) in that exact order,
// matching the original Fiat-Shamir construction byte for byte.
func spendChallenge(aCommit, aSerial, c, serial group.Point) (group.Scalar, error) {
	var buf bytes.Buffer
	for _, p := range []group.Point{aCommit, aSerial, c, serial} {
		b, err := p.Bytes()
		if err != nil {
			return group.Scalar{}, err
		}
		buf.Write(b)
	}
	return group.HashToScalar(buf.Bytes()), nil
}

// CanonicalBytes serializes the proof's fields in the fixed alphabetical
// order A_commit, A_serial, z_r, z_s, z_v.
func (p *SpendProof) CanonicalBytes() []byte {
	var buf bytes.Buffer
	if b, err := p.ACommit.Bytes(); err == nil {
		buf.Write(b)
	}
	if b, err := p.ASerial.Bytes(); err == nil {
		buf.Write(b)
	}
	buf.Write(p.Zr.Bytes())
	buf.Write(p.Zs.Bytes())
	buf.Write(p.Zv.Bytes())
	return buf.Bytes()
}
