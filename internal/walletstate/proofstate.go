// Package walletstate holds the aggregate state a wallet or receiver keeps
// between operations: the running proof-state totals, the token lifecycle
// store, and the pending-spend store. It is a direct generalization of the
// original source's ProofState/TokenStore/PendingStore trio.
package walletstate

import (
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

// ProofState tracks the running totals C_in_total, C_out_total,
// r_in_total, r_out_total across a wallet's or receiver's entire
// transaction history, so that a single recursive invariant proof can
// attest to global value conservation without replaying every past proof.
type ProofState struct {
	CInTotal, COutTotal group.Point
	RInTotal, ROutTotal group.Scalar
}

// InitFromMint bootstraps a ProofState from an initial batch of minted
// tokens (e.g. a wallet being restored from a set of already-unspent
// tokens). For an empty batch (the common case of a brand-new wallet) this
// produces the zero state.
func InitFromMint(tokens []*types.Token) *ProofState {
	s := &ProofState{
		CInTotal:  group.Identity(),
		COutTotal: group.Identity(),
	}
	for _, t := range tokens {
		s.COutTotal = s.COutTotal.Add(t.Commitment.Point)
		s.ROutTotal = s.ROutTotal.Add(t.R)
	}
	return s
}

// UpdateFromSpend folds a spend's consumed inputs and produced outputs into
// the running totals. Calling it with a single output and no inputs is also
// how an individual later mint is folded into a wallet that was bootstrapped
// via InitFromMint(nil): the math is identical to the output half of a spend.
func (s *ProofState) UpdateFromSpend(inputs, outputs []*types.Token) {
	for _, t := range inputs {
		s.CInTotal = s.CInTotal.Add(t.Commitment.Point)
		s.RInTotal = s.RInTotal.Add(t.R)
		s.COutTotal = s.COutTotal.Sub(t.Commitment.Point)
		s.ROutTotal = s.ROutTotal.Sub(t.R)
	}
	for _, t := range outputs {
		s.COutTotal = s.COutTotal.Add(t.Commitment.Point)
		s.ROutTotal = s.ROutTotal.Add(t.R)
	}
}

// Statement returns (D, rho) for the recursive invariant proof: D =
// C_out_total - C_in_total, which should equal rho*H if the wallet's
// history is consistent.
func (s *ProofState) Statement() (group.Point, group.Scalar) {
	d := s.COutTotal.Sub(s.CInTotal)
	rho := s.ROutTotal.Sub(s.RInTotal)
	return d, rho
}
