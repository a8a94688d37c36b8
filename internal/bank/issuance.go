// Package bank provides a reference implementation of the bank-mint
// external collaborator named in the wallet's design: it verifies a
// denomination proof, assigns a serial and expiry, and signs the minted
// record. The signing scheme here is plain ECDSA over P-256 rather than the
// Schnorr scheme used elsewhere in this module, because the specification
// treats the bank's issuance signature as an opaque external interface - any
// signature scheme the bank chooses to run is out of scope for the proof
// suite itself, the same way the original source's bank used Python's
// `ecdsa` library rather than the curve/group code it used for everything
// else.
package bank

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/mint"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

var ErrProofInvalid = errs.New(errs.KindProofInvalid, "bank: denomination proof failed verification")

// DefaultExpirySeconds is how far in the future a freshly minted token
// expires, absent other configuration: thirty days.
const DefaultExpirySeconds = 30 * 24 * 60 * 60

// IssuanceKey is the bank's opaque signing key for minted-token records.
type IssuanceKey struct {
	sk *ecdsa.PrivateKey
}

// GenerateIssuanceKey creates a fresh P-256 ECDSA issuance key.
func GenerateIssuanceKey() (*IssuanceKey, error) {
	sk, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &IssuanceKey{sk: sk}, nil
}

func (k *IssuanceKey) PublicKey() *ecdsa.PublicKey { return &k.sk.PublicKey }

func (k *IssuanceKey) sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	return ecdsa.SignASN1(rand.Reader, k.sk, digest[:])
}

// VerifyIssuance checks a bank issuance signature. This is the "opaque bank
// signature" verification step a wallet runs after minting, and a receiver
// never needs to run at all (the bank's signature only matters to the
// token's direct recipient at mint time).
func VerifyIssuance(pk *ecdsa.PublicKey, signature, message []byte) bool {
	digest := sha256.Sum256(message)
	return ecdsa.VerifyASN1(pk, digest[:], signature)
}

// Ledger persists minted-token issuance records for audit and reconciliation.
// It is optional: a Bank with a nil Ledger simply does not keep a record
// beyond the signed token itself.
type Ledger interface {
	Record(ctx context.Context, serial group.Scalar, c commitment.Commitment, expiry uint64, signature []byte) error
}

// Bank is the reference bank-mint collaborator. It is intentionally small:
// a real issuing authority would sit behind a network boundary, but tests
// and the demo CLI need something concrete to mint against.
type Bank struct {
	key           *IssuanceKey
	ledger        Ledger
	expirySeconds uint64
	now           func() uint64
}

// NewBank builds a Bank using key for issuance signing and ledger (which may
// be nil) for audit recording.
func NewBank(key *IssuanceKey, ledger Ledger) *Bank {
	return &Bank{key: key, ledger: ledger, expirySeconds: DefaultExpirySeconds, now: defaultNow}
}

// MintToken verifies proof, assigns a fresh serial and expiry, and signs the
// resulting record.
func (b *Bank) MintToken(ctx context.Context, c commitment.Commitment, proof *mint.DenominationProof) (*types.BankToken, error) {
	if !mint.VerifyMinting(c, proof) {
		return nil, ErrProofInvalid
	}
	serial, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	expiry := b.now() + b.expirySeconds

	bt := &types.BankToken{Serial: serial, Commitment: c, Expiry: expiry}
	message, err := bt.SerializeForSignature()
	if err != nil {
		return nil, err
	}
	sig, err := b.key.sign(message)
	if err != nil {
		return nil, err
	}
	bt.Signature = sig

	if b.ledger != nil {
		if err := b.ledger.Record(ctx, serial, c, expiry, sig); err != nil {
			return nil, err
		}
	}
	return bt, nil
}
