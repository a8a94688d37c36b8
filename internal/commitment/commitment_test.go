package commitment

import (
	"testing"

	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

func TestCommitVerifyRoundTrip(t *testing.T) {
	r, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	c, err := Commit(42, r)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !c.Verify(42, r) {
		t.Fatalf("commitment did not verify against its own opening")
	}
	if c.Verify(43, r) {
		t.Fatalf("commitment verified against the wrong value")
	}
}

func TestCommitRejectsNegativeValue(t *testing.T) {
	r, _ := group.RandomScalar()
	if _, err := Commit(-1, r); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestAdditiveHomomorphism(t *testing.T) {
	r1, _ := group.RandomScalar()
	r2, _ := group.RandomScalar()
	c1, _ := Commit(10, r1)
	c2, _ := Commit(32, r2)
	sum := c1.Add(c2)
	want, _ := Commit(42, r1.Add(r2))
	if !sum.Equal(want) {
		t.Fatalf("commit(10,r1)+commit(32,r2) != commit(42,r1+r2)")
	}
}

func TestHidingProducesDistinctCommitments(t *testing.T) {
	r1, _ := group.RandomScalar()
	r2, _ := group.RandomScalar()
	c1, _ := Commit(7, r1)
	c2, _ := Commit(7, r2)
	if c1.Equal(c2) {
		t.Fatalf("two commitments to the same value with different blinders collided")
	}
}
