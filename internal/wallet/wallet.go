// Package wallet implements the token lifecycle: minting against a bank
// collaborator and building two-phase offline spends, generalizing the
// original source's TokenLifecycle class.
package wallet

import (
	"context"
	"time"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/device"
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/walletstate"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/mint"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

var (
	ErrInvalidInput     = errs.New(errs.KindInvalidInput, "wallet: value must be non-negative")
	ErrValueMismatch    = errs.New(errs.KindInvalidInput, "wallet: output plus change does not equal input value")
	ErrInvalidSignature = errs.New(errs.KindInvalidSignature, "wallet: bank signature failed to verify")
)

// BankMint is the external bank-mint collaborator a wallet mints against.
// *bank.Bank satisfies this interface; tests and other hosts may supply any
// implementation.
type BankMint interface {
	MintToken(ctx context.Context, c commitment.Commitment, proof *mint.DenominationProof) (*types.BankToken, error)
}

// BankSignatureVerifier checks a bank's opaque issuance signature over a
// message. Kept as a function type so this package never has to import a
// concrete signature scheme.
type BankSignatureVerifier func(signature, message []byte) bool

// Wallet holds one owner's tokens and in-flight spends, and mints/spends
// against a bank collaborator and a device identity.
type Wallet struct {
	guard walletstate.Guard

	store   *walletstate.TokenStore
	pending *walletstate.PendingStore
	state   *walletstate.ProofState

	bank       BankMint
	verifyBank BankSignatureVerifier

	deviceKeys device.KeyPair
	cert       *device.Certificate

	now func() uint64
}

// New builds an empty wallet. cert must have been issued over deviceKeys.Public
// by the bank authority the eventual receiver will verify against.
func New(bankMint BankMint, verifyBank BankSignatureVerifier, deviceKeys device.KeyPair, cert *device.Certificate) *Wallet {
	return &Wallet{
		store:      walletstate.NewTokenStore(),
		pending:    walletstate.NewPendingStore(),
		state:      walletstate.InitFromMint(nil),
		bank:       bankMint,
		verifyBank: verifyBank,
		deviceKeys: deviceKeys,
		cert:       cert,
		now:        func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// Tokens exposes the wallet's token store, e.g. for listing unspent balances.
func (w *Wallet) Tokens() *walletstate.TokenStore { return w.store }

// Pending exposes the wallet's pending-spend store.
func (w *Wallet) Pending() *walletstate.PendingStore { return w.pending }

// Mint requests a fresh token of value v from the bank collaborator,
// verifying both the bank's signature and folding the new token into the
// wallet's running proof-state totals.
func (w *Wallet) Mint(ctx context.Context, v int64) (*types.Token, error) {
	if v < 0 {
		return nil, ErrInvalidInput
	}
	r, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	c, err := commitment.Commit(v, r)
	if err != nil {
		return nil, err
	}
	mintProof, err := mint.ProveMinting(v, r, c)
	if err != nil {
		return nil, err
	}

	bankToken, err := w.bank.MintToken(ctx, c, mintProof)
	if err != nil {
		return nil, err
	}

	message, err := bankToken.SerializeForSignature()
	if err != nil {
		return nil, err
	}
	if !w.verifyBank(bankToken.Signature, message) {
		return nil, ErrInvalidSignature
	}

	token := &types.Token{
		Serial:     bankToken.Serial,
		Commitment: bankToken.Commitment,
		Expiry:     bankToken.Expiry,
		Signature:  bankToken.Signature,
		V:          v,
		R:          r,
		S:          bankToken.Serial,
	}
	if err := w.store.Add(token); err != nil {
		return nil, err
	}
	w.state.UpdateFromSpend(nil, []*types.Token{token})
	return token, nil
}
