package wallet

import (
	"bytes"
	"crypto/sha256"
	"sort"

	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/invariant"
	"github.com/ccoin/offline-cbdc-wallet/pkg/types"
)

// reconciliationTranscriptVersion tags the wallet's own internal
// reconciliation transcript. It is unrelated to the untagged device
// spend-authorization transcript in package device: that one is what gets
// Schnorr-signed and handed to a receiver, while this one is a
// bookkeeping hash a wallet can use to cross-check its pending-spend
// records against a bank's reconciliation feed, ported from the original
// source's wallet-side spend transcript.
const reconciliationTranscriptVersion = "offline-cbdc-spend-v1"

// BuildReconciliationTranscript hashes a completed spend's full proof set
// (including the recursive invariant proof, which the device transcript
// never sees) under the version tag, for wallet-side audit purposes only.
func BuildReconciliationTranscript(nullifiers []group.Point, inputCommitments []group.Point, outputs []*types.Token, spendProofCanon, valueProofCanon []byte, recursiveProof *invariant.RecursiveInvariantProof) ([32]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(reconciliationTranscriptVersion)

	nullBytes, err := sortedConcat(nullifiers)
	if err != nil {
		return [32]byte{}, err
	}
	buf.Write(nullBytes)

	inBytes, err := sortedConcat(inputCommitments)
	if err != nil {
		return [32]byte{}, err
	}
	buf.Write(inBytes)

	sorted := make([]*types.Token, len(outputs))
	copy(sorted, outputs)
	encoded := make([][]byte, len(sorted))
	for i, t := range sorted {
		cBytes, err := t.Commitment.Point.Bytes()
		if err != nil {
			return [32]byte{}, err
		}
		entry := append(append([]byte{}, cBytes...), group.SerializeInt(t.Expiry)...)
		encoded[i] = entry
	}
	sort.Slice(encoded, func(i, j int) bool { return bytes.Compare(encoded[i], encoded[j]) < 0 })
	for _, e := range encoded {
		buf.Write(e)
	}

	buf.Write(spendProofCanon)
	buf.Write(valueProofCanon)
	buf.Write(recursiveProof.CanonicalBytes())

	return sha256.Sum256(buf.Bytes()), nil
}

func sortedConcat(points []group.Point) ([]byte, error) {
	encoded := make([][]byte, len(points))
	for i, p := range points {
		b, err := p.Bytes()
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}
	sort.Slice(encoded, func(i, j int) bool { return bytes.Compare(encoded[i], encoded[j]) < 0 })
	var buf bytes.Buffer
	for _, e := range encoded {
		buf.Write(e)
	}
	return buf.Bytes(), nil
}
