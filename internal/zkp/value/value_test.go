package value

import (
	"testing"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

func commit(t *testing.T, v int64) (commitment.Commitment, group.Scalar) {
	t.Helper()
	r, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	c, err := commitment.Commit(v, r)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return c, r
}

func TestValueConservationValid(t *testing.T) {
	cIn, rIn := commit(t, 50)
	cOut, rOut := commit(t, 30)
	cChange, rChange := commit(t, 20)

	proof, err := ProveValueConservation(50, 30, 20, rIn, rOut, rChange, cIn, cOut, cChange)
	if err != nil {
		t.Fatalf("ProveValueConservation: %v", err)
	}
	if !VerifyValueConservation(cIn, cOut, cChange, proof) {
		t.Fatalf("valid value proof rejected")
	}
}

func TestValueConservationRejectsMismatch(t *testing.T) {
	cIn, rIn := commit(t, 50)
	cOut, rOut := commit(t, 30)
	cChange, rChange := commit(t, 25)

	if _, err := ProveValueConservation(50, 30, 25, rIn, rOut, rChange, cIn, cOut, cChange); err == nil {
		t.Fatalf("expected error proving a mismatched value split")
	}
}

func TestValueConservationRejectsTamperedOutput(t *testing.T) {
	cIn, rIn := commit(t, 50)
	cOut, rOut := commit(t, 30)
	cChange, rChange := commit(t, 20)

	proof, err := ProveValueConservation(50, 30, 20, rIn, rOut, rChange, cIn, cOut, cChange)
	if err != nil {
		t.Fatalf("ProveValueConservation: %v", err)
	}

	tamperedOut, _ := commit(t, 31)
	if VerifyValueConservation(cIn, tamperedOut, cChange, proof) {
		t.Fatalf("value proof verified after swapping in a different output commitment")
	}
}
