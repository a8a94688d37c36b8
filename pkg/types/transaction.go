package types

import (
	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/device"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/spend"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/value"
)

// SpendProofEntry pairs a consumed input's commitment with the ownership
// proof over it. In this revision a spend consumes exactly one input, so
// this is always a one-element list; the shape is kept as a list to match
// the documented future extension to multi-input spends.
type SpendProofEntry struct {
	Commitment commitment.Commitment
	Proof      *spend.SpendProof
}

// ValueProofBundle carries the three commitments a value proof was built
// over, alongside the proof itself.
type ValueProofBundle struct {
	CIn, COut, CChange commitment.Commitment
	Proof              *value.ValueProof
}

// OfflineTransaction is the complete, self-contained handoff a sender gives
// a receiver with no bank round-trip: the consumed inputs' nullifiers, the
// full derived output tokens (private fields included, since the receiver
// becomes their new owner), the proofs attesting ownership and value
// conservation, and the device's authorization over all of it.
type OfflineTransaction struct {
	InputSerials        []group.Point
	OutputTokens        []*Token
	SpendProofs         []SpendProofEntry
	ValueProofBundle    ValueProofBundle
	SpendTranscriptHash [32]byte
	DeviceSignature     []byte
	DeviceCertificate   *device.Certificate
}
