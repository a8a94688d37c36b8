package device

import (
	"bytes"
	"crypto/sha256"
	"sort"

	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/spend"
	"github.com/ccoin/offline-cbdc-wallet/internal/zkp/value"
)

var ErrTranscriptInput = errs.New(errs.KindInvalidInput, "device: cannot build a spend transcript over an identity point")

// BuildSpendTranscript builds the device spend-authorization transcript
// hash: a binding commitment to every nullifier and output commitment in an
// offline transaction, plus the spend and value proofs, plus a freshness
// nonce. This is the hash a device's Schnorr key signs; it carries no
// version tag, unlike the wallet's separate internal reconciliation
// transcript (see package wallet).
func BuildSpendTranscript(nullifiers, outputCommitments []group.Point, spendProofs []*spend.SpendProof, valueProof *value.ValueProof, nonce [32]byte) ([32]byte, error) {
	serialBytes, err := sortedConcatPoints(nullifiers)
	if err != nil {
		return [32]byte{}, err
	}
	commitmentBytes, err := sortedConcatPoints(outputCommitments)
	if err != nil {
		return [32]byte{}, err
	}

	var spBuf bytes.Buffer
	for _, sp := range spendProofs {
		spBuf.Write(sp.CanonicalBytes())
	}
	spendProofHash := sha256.Sum256(spBuf.Bytes())
	valueProofHash := sha256.Sum256(valueProof.CanonicalBytes())

	var buf bytes.Buffer
	buf.Write(serialBytes)
	buf.Write(commitmentBytes)
	buf.Write(spendProofHash[:])
	buf.Write(valueProofHash[:])
	buf.Write(nonce[:])
	return sha256.Sum256(buf.Bytes()), nil
}

func sortedConcatPoints(points []group.Point) ([]byte, error) {
	encoded := make([][]byte, len(points))
	for i, p := range points {
		b, err := p.Bytes()
		if err != nil {
			return nil, ErrTranscriptInput
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

// SignSpendTranscript has the device key Schnorr-sign a transcript hash.
func SignSpendTranscript(skDevice group.Scalar, transcriptHash [32]byte) ([]byte, error) {
	return sign(skDevice, transcriptHash[:])
}

// VerifySpendAuthorization checks the device's certificate and its signature
// over the transcript hash, exactly the two checks a receiver must perform
// before trusting an offline transaction's device authorization.
func VerifySpendAuthorization(transcriptHash [32]byte, deviceSignature []byte, cert *Certificate, pkBank group.Point, now uint64) bool {
	if !VerifyCertificate(cert, pkBank, now) {
		return false
	}
	return verify(cert.PKDevice, deviceSignature, transcriptHash[:])
}
