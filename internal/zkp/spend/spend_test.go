package spend

import (
	"testing"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

func setup(t *testing.T, v int64) (group.Scalar, group.Scalar, group.Scalar, commitment.Commitment, group.Point) {
	t.Helper()
	r, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	s, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	c, err := commitment.Commit(v, r)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	serial := DeriveSerial(s)
	return r, s, s, c, serial
}

func TestSpendOwnershipValid(t *testing.T) {
	r, s, _, c, serial := setup(t, 25)
	proof, err := ProveSpendOwnership(25, r, s, c, serial)
	if err != nil {
		t.Fatalf("ProveSpendOwnership: %v", err)
	}
	if !VerifySpendOwnership(c, serial, proof) {
		t.Fatalf("valid spend proof rejected")
	}
}

func TestSpendOwnershipRejectsWrongSerial(t *testing.T) {
	r, s, _, c, _ := setup(t, 25)
	serial := DeriveSerial(s)
	proof, _ := ProveSpendOwnership(25, r, s, c, serial)

	otherS, _ := group.RandomScalar()
	otherSerial := DeriveSerial(otherS)
	if VerifySpendOwnership(c, otherSerial, proof) {
		t.Fatalf("spend proof verified against mismatched serial")
	}
}

func TestSpendOwnershipRejectsTamperedResponse(t *testing.T) {
	r, s, _, c, serial := setup(t, 25)
	proof, _ := ProveSpendOwnership(25, r, s, c, serial)
	tampered, _ := group.RandomScalar()
	proof.Zv = tampered
	if VerifySpendOwnership(c, serial, proof) {
		t.Fatalf("tampered spend proof verified")
	}
}

func TestDeriveSerialDeterministic(t *testing.T) {
	s, _ := group.RandomScalar()
	if !DeriveSerial(s).Equal(DeriveSerial(s)) {
		t.Fatalf("DeriveSerial is not deterministic")
	}
}
