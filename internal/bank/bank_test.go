package bank

import (
	"context"
	"testing"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/mint"
)

func TestMintTokenVerifiesProofAndSigns(t *testing.T) {
	key, err := GenerateIssuanceKey()
	if err != nil {
		t.Fatalf("GenerateIssuanceKey: %v", err)
	}
	ledger := NewMemLedger()
	b := NewBank(key, ledger)

	r, _ := group.RandomScalar()
	c, err := commitment.Commit(20, r)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	proof, err := mint.ProveMinting(20, r, c)
	if err != nil {
		t.Fatalf("ProveMinting: %v", err)
	}

	bt, err := b.MintToken(context.Background(), c, proof)
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}

	message, err := bt.SerializeForSignature()
	if err != nil {
		t.Fatalf("SerializeForSignature: %v", err)
	}
	if !VerifyIssuance(key.PublicKey(), bt.Signature, message) {
		t.Fatalf("bank signature did not verify")
	}
	if len(ledger.Records()) != 1 {
		t.Fatalf("expected one ledger record, got %d", len(ledger.Records()))
	}
}

func TestMintTokenRejectsBadProof(t *testing.T) {
	key, _ := GenerateIssuanceKey()
	b := NewBank(key, nil)

	r, _ := group.RandomScalar()
	c, _ := commitment.Commit(20, r)

	otherR, _ := group.RandomScalar()
	otherC, _ := commitment.Commit(50, otherR)
	badProof, err := mint.ProveMinting(50, otherR, otherC)
	if err != nil {
		t.Fatalf("ProveMinting: %v", err)
	}

	if _, err := b.MintToken(context.Background(), c, badProof); err == nil {
		t.Fatalf("expected error minting with a proof over a different commitment")
	}
}
