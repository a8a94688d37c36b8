package bank

import (
	"context"
	"sync"

	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

// IssuanceRecord is one entry in a MemLedger's in-memory audit trail.
type IssuanceRecord struct {
	Serial     group.Scalar
	Commitment commitment.Commitment
	Expiry     uint64
	Signature  []byte
}

// MemLedger is an in-memory Ledger, used by tests and by the demo CLI when
// no Postgres connection is configured.
type MemLedger struct {
	mu      sync.Mutex
	records []IssuanceRecord
}

func NewMemLedger() *MemLedger {
	return &MemLedger{}
}

func (l *MemLedger) Record(ctx context.Context, serial group.Scalar, c commitment.Commitment, expiry uint64, signature []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, IssuanceRecord{Serial: serial, Commitment: c, Expiry: expiry, Signature: signature})
	return nil
}

// Records returns a snapshot of everything recorded so far.
func (l *MemLedger) Records() []IssuanceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]IssuanceRecord, len(l.records))
	copy(out, l.records)
	return out
}
