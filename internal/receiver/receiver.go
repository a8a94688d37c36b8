// Package receiver implements the receiving side of an offline handoff:
// verifying an incoming OfflineTransaction's device authorization, proofs,
// and double-spend freshness, then accepting its outputs into local
// ownership. Ported from the original source's
// verify_offline_tx/accept_offline_tx pair.
package receiver

import (
	"sync"

	"github.com/ccoin/offline-cbdc-wallet/internal/device"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/walletstate"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/spend"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/value"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

// Receiver tracks every nullifier it has ever seen and every token it has
// accepted, and folds every accepted output into its own ProofState
// aggregate.
type Receiver struct {
	mu sync.Mutex

	pkBank group.Point
	seen   map[[64]byte]struct{}
	owned  []*types.Token
	state  *walletstate.ProofState
	now    func() uint64
}

// New builds a receiver trusting certificates issued by pkBank.
func New(pkBank group.Point, now func() uint64) *Receiver {
	return &Receiver{
		pkBank: pkBank,
		seen:   make(map[[64]byte]struct{}),
		state:  walletstate.InitFromMint(nil),
		now:    now,
	}
}

// Verify checks tx's device authorization, per-input ownership proofs,
// value-conservation proof, and freshness against previously seen
// nullifiers, without mutating any state.
func (r *Receiver) Verify(tx *types.OfflineTransaction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verifyLocked(tx)
}

func (r *Receiver) verifyLocked(tx *types.OfflineTransaction) bool {
	if !device.VerifySpendAuthorization(tx.SpendTranscriptHash, tx.DeviceSignature, tx.DeviceCertificate, r.pkBank, r.now()) {
		return false
	}
	if len(tx.SpendProofs) != len(tx.InputSerials) {
		return false
	}
	for i, entry := range tx.SpendProofs {
		if !spend.VerifySpendOwnership(entry.Commitment, tx.InputSerials[i], entry.Proof) {
			return false
		}
	}
	bundle := tx.ValueProofBundle
	if !value.VerifyValueConservation(bundle.CIn, bundle.COut, bundle.CChange, bundle.Proof) {
		return false
	}
	for _, nullifier := range tx.InputSerials {
		key, err := nullifier.Key()
		if err != nil {
			return false
		}
		if _, exists := r.seen[key]; exists {
			return false
		}
	}
	return true
}

// Accept records tx's nullifiers as seen, takes ownership of its output
// tokens, and folds them into the receiver's own proof-state aggregate. It
// does not re-verify tx; callers should use VerifyAndAccept unless they
// have already verified tx themselves under the same lock discipline.
func (r *Receiver) Accept(tx *types.OfflineTransaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acceptLocked(tx)
}

func (r *Receiver) acceptLocked(tx *types.OfflineTransaction) {
	for _, nullifier := range tx.InputSerials {
		key, err := nullifier.Key()
		if err != nil {
			continue
		}
		r.seen[key] = struct{}{}
	}
	r.owned = append(r.owned, tx.OutputTokens...)
	r.state.UpdateFromSpend(nil, tx.OutputTokens)
}

// VerifyAndAccept atomically verifies tx and, if it passes, accepts it. It
// reports whether the transaction was accepted.
func (r *Receiver) VerifyAndAccept(tx *types.OfflineTransaction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.verifyLocked(tx) {
		return false
	}
	r.acceptLocked(tx)
	return true
}

// OwnedTokens returns a snapshot of every token this receiver has accepted.
func (r *Receiver) OwnedTokens() []*types.Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.Token, len(r.owned))
	copy(out, r.owned)
	return out
}
