package wallet

import (
	"context"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/device"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/walletstate"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/invariant"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/spend"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/value"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

// Spend builds a complete offline transaction consuming the single unspent
// token identified by inputSerial, splitting its value into vOut (paid to
// the receiver) and vChange (retained by this wallet), and has the wallet's
// device sign the resulting spend-authorization transcript.
//
// This follows the documented two-phase discipline: Phase 1 (everything up
// to and including building the proofs) only computes; Phase 2 (folding the
// spend into the proof-state, producing the recursive invariant proof, and
// mutating the token store) commits. A context.Context is accepted for
// symmetry with Mint's bank round-trip even though this method itself makes
// no blocking calls; a future multi-input extension that fetches remote
// token state would use it.
func (w *Wallet) Spend(ctx context.Context, inputSerial group.Scalar, vOut, vChange int64, expiry uint64) (*types.OfflineTransaction, error) {
	w.guard.Lock()
	defer w.guard.Unlock()

	// --- Phase 1: compute only ---

	tIn, state, err := w.store.Get(inputSerial)
	if err != nil {
		return nil, err
	}
	if state != walletstate.Unspent {
		return nil, walletstate.ErrTokenNotSpendable
	}
	if tIn.V != vOut+vChange {
		return nil, ErrValueMismatch
	}

	nullifier := spend.DeriveSerial(tIn.S)
	spendProof, err := spend.ProveSpendOwnership(tIn.V, tIn.R, tIn.S, tIn.Commitment, nullifier)
	if err != nil {
		return nil, err
	}

	rOut, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	rChange, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	cOut, err := commitment.Commit(vOut, rOut)
	if err != nil {
		return nil, err
	}
	cChange, err := commitment.Commit(vChange, rChange)
	if err != nil {
		return nil, err
	}

	valueProof, err := value.ProveValueConservation(tIn.V, vOut, vChange, tIn.R, rOut, rChange, tIn.Commitment, cOut, cChange)
	if err != nil {
		return nil, err
	}

	serialOut, err := localSerial(cOut)
	if err != nil {
		return nil, err
	}
	serialChange, err := localSerial(cChange)
	if err != nil {
		return nil, err
	}
	sOut, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	sChange, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}

	tokenOut := &types.Token{Serial: serialOut, Commitment: cOut, Expiry: expiry, V: vOut, R: rOut, S: sOut}
	tokenChange := &types.Token{Serial: serialChange, Commitment: cChange, Expiry: expiry, V: vChange, R: rChange, S: sChange}

	// --- Phase 2: commit ---
	// Everything below either all applies or the wallet's consistency is
	// already broken; under the single-threaded discipline this guard
	// enforces, none of these calls can fail in ordinary operation, but a
	// failure here is surfaced rather than swallowed.

	w.state.UpdateFromSpend([]*types.Token{tIn}, []*types.Token{tokenOut, tokenChange})
	d, rho := w.state.Statement()
	recursiveProof, err := invariant.Prove(d, rho)
	if err != nil {
		return nil, err
	}

	if err := w.store.MarkSpent(inputSerial); err != nil {
		return nil, err
	}
	if err := w.store.Add(tokenOut); err != nil {
		return nil, err
	}
	if err := w.store.Add(tokenChange); err != nil {
		return nil, err
	}

	nonceBytes, err := group.RandomBytes(32)
	if err != nil {
		return nil, err
	}
	var nonce [32]byte
	copy(nonce[:], nonceBytes)

	transcriptHash, err := device.BuildSpendTranscript(
		[]group.Point{nullifier},
		[]group.Point{cOut.Point, cChange.Point},
		[]*spend.SpendProof{spendProof},
		valueProof,
		nonce,
	)
	if err != nil {
		return nil, err
	}

	deviceSig, err := device.SignSpendTranscript(w.deviceKeys.Secret, transcriptHash)
	if err != nil {
		return nil, err
	}

	reconciliationHash, err := BuildReconciliationTranscript(
		[]group.Point{nullifier},
		[]group.Point{tIn.Commitment.Point},
		[]*types.Token{tokenOut, tokenChange},
		spendProof.CanonicalBytes(),
		valueProof.CanonicalBytes(),
		recursiveProof,
	)
	if err != nil {
		return nil, err
	}

	if err := w.pending.Add(nullifier, recursiveProof, w.now(), reconciliationHash); err != nil {
		return nil, err
	}

	tx := &types.OfflineTransaction{
		InputSerials: []group.Point{nullifier},
		OutputTokens: []*types.Token{tokenOut, tokenChange},
		SpendProofs: []types.SpendProofEntry{
			{Commitment: tIn.Commitment, Proof: spendProof},
		},
		ValueProofBundle: types.ValueProofBundle{
			CIn: tIn.Commitment, COut: cOut, CChange: cChange, Proof: valueProof,
		},
		SpendTranscriptHash: transcriptHash,
		DeviceSignature:     deviceSig,
		DeviceCertificate:   w.cert,
	}
	return tx, nil
}

// Confirmed clears a spend's pending entry once its receiver has
// acknowledged the transaction, freeing the wallet from having to retain
// recovery state for it indefinitely.
func (w *Wallet) Confirmed(nullifier group.Point) {
	w.pending.Clear(nullifier)
}

// localSerial computes the wallet-private serial a freshly derived (not yet
// bank-signed) token uses internally, before any bank ever assigns it one:
// SHA-256(serialize_point(commitment)) mod q.
func localSerial(c commitment.Commitment) (group.Scalar, error) {
	b, err := c.Point.Bytes()
	if err != nil {
		return group.Scalar{}, err
	}
	return group.HashToScalar(b), nil
}
