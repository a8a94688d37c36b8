package walletstate

import (
	"sync"

	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/invariant"
)

var ErrPendingSpendExists = errs.New(errs.KindAlreadyExists, "walletstate: a pending spend already exists for this nullifier")

// PendingSpend records a spend that has been built (and its proof-state
// effects committed) but not yet confirmed delivered to a receiver.
type PendingSpend struct {
	Nullifier          group.Point
	Proof              *invariant.RecursiveInvariantProof
	Timestamp          uint64
	ReconciliationHash [32]byte
}

// PendingStore tracks in-flight spends by nullifier, so a wallet can recover
// or re-present a spend it built but never got acknowledgment for.
type PendingStore struct {
	mu      sync.Mutex
	pending map[[64]byte]*PendingSpend
}

func NewPendingStore() *PendingStore {
	return &PendingStore{pending: make(map[[64]byte]*PendingSpend)}
}

// Add records a new pending spend, along with the wallet's own
// reconciliation-transcript hash for it (see wallet.BuildReconciliationTranscript),
// so a later bank reconciliation feed can be cross-checked byte-for-byte
// against what the wallet itself built. Returns ErrPendingSpendExists if this
// nullifier is already pending.
func (ps *PendingStore) Add(nullifier group.Point, proof *invariant.RecursiveInvariantProof, now uint64, reconciliationHash [32]byte) error {
	key, err := nullifier.Key()
	if err != nil {
		return err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if _, exists := ps.pending[key]; exists {
		return ErrPendingSpendExists
	}
	ps.pending[key] = &PendingSpend{Nullifier: nullifier, Proof: proof, Timestamp: now, ReconciliationHash: reconciliationHash}
	return nil
}

// ListPending returns every currently pending spend.
func (ps *PendingStore) ListPending() []*PendingSpend {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]*PendingSpend, 0, len(ps.pending))
	for _, p := range ps.pending {
		out = append(out, p)
	}
	return out
}

// Clear removes a pending spend, idempotently: clearing an absent nullifier
// is not an error, matching the original store's pop-with-default behavior.
func (ps *PendingStore) Clear(nullifier group.Point) {
	key, err := nullifier.Key()
	if err != nil {
		return
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	delete(ps.pending, key)
}

// Count returns the number of currently pending spends.
func (ps *PendingStore) Count() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.pending)
}
