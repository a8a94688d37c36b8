package walletstate

import (
	"testing"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/invariant"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

func mustToken(t *testing.T, v int64) *types.Token {
	t.Helper()
	r, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	c, err := commitment.Commit(v, r)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	s, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	return &types.Token{Serial: s, Commitment: c, Expiry: 1_000_000, V: v, R: r, S: s}
}

func TestTokenStoreAddAndLifecycle(t *testing.T) {
	store := NewTokenStore()
	tok := mustToken(t, 10)

	if err := store.Add(tok); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Add(tok); err != ErrTokenExists {
		t.Fatalf("second Add error = %v, want ErrTokenExists", err)
	}

	state, err := store.GetState(tok.Serial)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state != Unspent {
		t.Fatalf("state = %v, want Unspent", state)
	}

	if err := store.MarkSpent(tok.Serial); err != nil {
		t.Fatalf("MarkSpent: %v", err)
	}
	if err := store.MarkSpent(tok.Serial); err != ErrTokenNotSpendable {
		t.Fatalf("double MarkSpent error = %v, want ErrTokenNotSpendable", err)
	}
}

func TestTokenStoreMarkExpiredIsNoOpAfterSpent(t *testing.T) {
	store := NewTokenStore()
	tok := mustToken(t, 5)
	if err := store.Add(tok); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.MarkSpent(tok.Serial); err != nil {
		t.Fatalf("MarkSpent: %v", err)
	}
	if err := store.MarkExpired(tok.Serial); err != nil {
		t.Fatalf("MarkExpired on spent token: %v", err)
	}
	state, err := store.GetState(tok.Serial)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state != Spent {
		t.Fatalf("state after MarkExpired = %v, want Spent unchanged", state)
	}
}

func TestTokenStoreGetUnspentTokensExcludesExpired(t *testing.T) {
	store := NewTokenStore()
	fresh := mustToken(t, 10)
	fresh.Expiry = 1_000_000
	stale := mustToken(t, 20)
	stale.Expiry = 10

	if err := store.Add(fresh); err != nil {
		t.Fatalf("Add fresh: %v", err)
	}
	if err := store.Add(stale); err != nil {
		t.Fatalf("Add stale: %v", err)
	}

	unspent := store.GetUnspentTokens(500)
	if len(unspent) != 1 || unspent[0].Serial.Key() != fresh.Serial.Key() {
		t.Fatalf("expected only the fresh token to be returned, got %d tokens", len(unspent))
	}
}

func TestTokenStoreUnknownSerial(t *testing.T) {
	store := NewTokenStore()
	s, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	if _, err := store.GetState(s); err != ErrTokenNotFound {
		t.Fatalf("GetState on unknown serial = %v, want ErrTokenNotFound", err)
	}
	if err := store.MarkSpent(s); err != ErrTokenNotFound {
		t.Fatalf("MarkSpent on unknown serial = %v, want ErrTokenNotFound", err)
	}
}

func TestPendingStoreRejectsDuplicateNullifier(t *testing.T) {
	ps := NewPendingStore()
	k, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	nullifier := group.Generator().ScalarMul(k)
	proof, err := invariant.Prove(group.SecondGenerator().ScalarMul(k), k)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	if err := ps.Add(nullifier, proof, 100, [32]byte{1}); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := ps.Add(nullifier, proof, 200, [32]byte{2}); err != ErrPendingSpendExists {
		t.Fatalf("second Add error = %v, want ErrPendingSpendExists", err)
	}
	if ps.Count() != 1 {
		t.Fatalf("Count = %d, want 1", ps.Count())
	}
	got := ps.ListPending()
	if len(got) != 1 || got[0].ReconciliationHash != [32]byte{1} {
		t.Fatalf("ListPending reconciliation hash not preserved: %+v", got)
	}
}

func TestPendingStoreClearIsIdempotent(t *testing.T) {
	ps := NewPendingStore()
	k, err := group.RandomScalar()
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	nullifier := group.Generator().ScalarMul(k)
	proof, err := invariant.Prove(group.SecondGenerator().ScalarMul(k), k)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := ps.Add(nullifier, proof, 100, [32]byte{1}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ps.Clear(nullifier)
	ps.Clear(nullifier)
	if ps.Count() != 0 {
		t.Fatalf("Count after Clear = %d, want 0", ps.Count())
	}
}

func TestProofStateInitFromMintBootstrapsOutputTotal(t *testing.T) {
	a := mustToken(t, 10)
	b := mustToken(t, 20)
	state := InitFromMint([]*types.Token{a, b})

	wantR := a.R.Add(b.R)
	if !state.ROutTotal.Equal(wantR) {
		t.Fatalf("ROutTotal mismatch after bootstrap")
	}
	if !state.RInTotal.IsZero() {
		t.Fatalf("RInTotal should be zero after a fresh bootstrap")
	}
}

func TestProofStateUpdateFromSpendBalances(t *testing.T) {
	input := mustToken(t, 30)
	state := InitFromMint([]*types.Token{input})

	out := mustToken(t, 18)
	change := mustToken(t, 12)
	state.UpdateFromSpend([]*types.Token{input}, []*types.Token{out, change})

	d, rho := state.Statement()
	if !invariant.Verify(d, mustProve(t, d, rho)) {
		t.Fatalf("recursive invariant proof failed to verify against the folded statement")
	}
}

func mustProve(t *testing.T, d group.Point, rho group.Scalar) *invariant.RecursiveInvariantProof {
	t.Helper()
	proof, err := invariant.Prove(d, rho)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	return proof
}
