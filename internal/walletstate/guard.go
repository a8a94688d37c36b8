package walletstate

import "sync"

// Guard is a thin embeddable mutex that serializes a multi-step state
// transition, modeled on the teacher's ShieldedPool.ProcessTransaction
// locking pattern; wallet.Wallet holds one for the whole of Spend. Of the
// state types in this package, TokenStore and PendingStore each carry an
// internal mutex that only protects their maps within a single call, and
// ProofState has no lock at all; exclusion across calls comes from Guard.
type Guard struct {
	mu sync.Mutex
}

func (g *Guard) Lock()   { g.mu.Lock() }
func (g *Guard) Unlock() { g.mu.Unlock() }
