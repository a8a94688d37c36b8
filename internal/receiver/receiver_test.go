package receiver

import (
	"context"
	"testing"

	"github.com/ccoin/offline-cbdc-wallet/internal/bank"
	"github.com/ccoin/offline-cbdc-wallet/internal/device"
	"github.com/ccoin/offline-cbdc-wallet/internal/wallet"
)

func fixedNow(ts uint64) func() uint64 {
	return func() uint64 { return ts }
}

func newFixture(t *testing.T) (*wallet.Wallet, *device.BankAuthority) {
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

	w := wallet.New(b, func(sig, msg []byte) bool {
		return bank.VerifyIssuance(issuanceKey.PublicKey(), sig, msg)
	}, deviceKeys, cert)

	return w, authority
}

func TestReceiverAcceptsValidTransaction(t *testing.T) {
	w, authority := newFixture(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	tx, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}

	r := New(authority.PublicKey(), fixedNow(500))
	if !r.VerifyAndAccept(tx) {
		t.Fatalf("valid offline transaction rejected")
	}
	if len(r.OwnedTokens()) != 2 {
		t.Fatalf("expected 2 owned tokens after accept, got %d", len(r.OwnedTokens()))
	}
}

func TestReceiverRejectsReplayedNullifier(t *testing.T) {
	w, authority := newFixture(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	tx, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}

	r := New(authority.PublicKey(), fixedNow(500))
	if !r.VerifyAndAccept(tx) {
		t.Fatalf("first accept should succeed")
	}
	if r.VerifyAndAccept(tx) {
		t.Fatalf("double-spend accepted on replay")
	}
}

func TestReceiverRejectsExpiredCertificate(t *testing.T) {
	w, authority := newFixture(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	tx, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}

	r := New(authority.PublicKey(), fixedNow(20_000_000_000))
	if r.VerifyAndAccept(tx) {
		t.Fatalf("transaction accepted with an expired device certificate")
	}
}

func TestReceiverRejectsTamperedDeviceSignature(t *testing.T) {
	w, authority := newFixture(t)
	token, err := w.Mint(context.Background(), 50)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	tx, err := w.Spend(context.Background(), token.Serial, 30, 20, 99_999_999)
	if err != nil {
		t.Fatalf("Spend: %v", err)
	}

	tampered := make([]byte, len(tx.DeviceSignature))
	copy(tampered, tx.DeviceSignature)
	tampered[0] ^= 0xFF
	tx.DeviceSignature = tampered

	r := New(authority.PublicKey(), fixedNow(500))
	if r.VerifyAndAccept(tx) {
		t.Fatalf("transaction accepted with a tampered device signature")
	}
}
