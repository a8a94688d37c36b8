package wallet

import (
	"context"
	"testing"

	"github.com/ccoin/offline-cbdc-wallet/internal/bank"
	"github.com/ccoin/offline-cbdc-wallet/internal/device"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/walletstate"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

func newTestWallet(t *testing.T) (*Wallet, *device.BankAuthority) {
	t.Helper()
	issuanceKey, err := bank.GenerateIssuanceKey()
	if err != nil {
		t.Fatalf("GenerateIssuanceKey: %v", err)
	}
	b := bank.NewBank(issuanceKey, bank.NewMemLedger())

	schnorrKeys, err := device.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	authority := device.NewBankAuthority(schnorrKeys)

	deviceKeys, err := device.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	cert, err := authority.IssueCertificate(deviceKeys.Public, []byte("device-1"), 0, 10_000_000_000)
	if err != nil {
		t.Fatalf("IssueCertificate: %v", err)
	}

	w := New(b, func(sig, msg []byte) bool {
		return bank.VerifyIssuance(issuanceKey.PublicKey(), sig, msg)
	}, deviceKeys, cert)

	return w, authority
}

func TestMintAddsUnspentToken(t *testing.T) {
	w, _ := newTestWallet(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	state, err := w.Tokens().GetState(token.Serial)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state != walletstate.Unspent {
		t.Fatalf("freshly minted token state = %v, want Unspent", state)
	}
}

func TestSpendSplitsIntoOutputAndChange(t *testing.T) {
	w, _ := newTestWallet(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	tx, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if len(tx.OutputTokens) != 2 {
		t.Fatalf("expected 2 output tokens, got %d", len(tx.OutputTokens))
	}

	state, err := w.Tokens().GetState(token.Serial)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if state != walletstate.Spent {
		t.Fatalf("spent input token state = %v, want Spent", state)
	}
}

func TestSpendRejectsValueMismatch(t *testing.T) {
	w, _ := newTestWallet(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := w.Spend(context.Background(), token.Serial, 30, 30, 99_999_999); err == nil {
		t.Fatalf("expected error spending with output+change != input")
	}
}

func TestSpendRecordsReconciliationTranscript(t *testing.T) {
	w, _ := newTestWallet(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	tx, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}

	pending := w.Pending().ListPending()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending spend, got %d", len(pending))
	}
	got := pending[0].ReconciliationHash
	if got == [32]byte{} {
		t.Fatalf("reconciliation hash was never computed")
	}

	want, err := BuildReconciliationTranscript(
		tx.InputSerials,
		[]group.Point{tx.ValueProofBundle.CIn.Point},
		tx.OutputTokens,
		tx.SpendProofs[0].Proof.CanonicalBytes(),
		tx.ValueProofBundle.Proof.CanonicalBytes(),
		pending[0].Proof,
	)
	if err != nil {
		t.Fatalf("BuildReconciliationTranscript: %v", err)
	}
	if got != want {
		t.Fatalf("reconciliation hash mismatch: stored %x, recomputed %x", got, want)
	}

	tamperedOutputs := append([]*types.Token{}, tx.OutputTokens...)
	tamperedOutputs[0] = &types.Token{
		Serial:     tamperedOutputs[0].Serial,
		Commitment: tamperedOutputs[0].Commitment,
		Expiry:     tamperedOutputs[0].Expiry + 1,
		V:          tamperedOutputs[0].V,
		R:          tamperedOutputs[0].R,
		S:          tamperedOutputs[0].S,
	}
	tampered, err := BuildReconciliationTranscript(
		tx.InputSerials,
		[]group.Point{tx.ValueProofBundle.CIn.Point},
		tamperedOutputs,
		tx.SpendProofs[0].Proof.CanonicalBytes(),
		tx.ValueProofBundle.Proof.CanonicalBytes(),
		pending[0].Proof,
	)
	if err != nil {
		t.Fatalf("BuildReconciliationTranscript (tampered): %v", err)
	}
	if tampered == want {
		t.Fatalf("tampering with an output's expiry did not change the reconciliation hash")
	}
}

func TestSpendRejectsAlreadySpentToken(t *testing.T) {
	w, _ := newTestWallet(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999); err != nil {
		t.Fatalf("first spend: %v", err)
	}
	if _, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999); err == nil {
		t.Fatalf("expected error spending an already-spent token")
	}
}
