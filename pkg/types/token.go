// Package types holds the wire- and wallet-level data shapes shared across
// the wallet core: tokens, bank-issued records, and offline transactions.
package types

import (
	"github.com/ccoin/offline-cbdc-wallet/internal/commitment"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

// Token is a unit of value as its owning wallet sees it: the bank-signed
// public fields (Serial, Commitment, Expiry, Signature) plus the owner's
// private opening (V, R) and spend secret S. When a token is transferred
// in an offline transaction, all of this - including V, R, S - travels to
// the new owner, since a bearer token's new holder must be able to spend it
// in turn.
type Token struct {
	Serial     group.Scalar
	Commitment commitment.Commitment
	Expiry     uint64
	Signature  []byte // nil for a freshly derived, not-yet-bank-signed token

	V int64
	R group.Scalar
	S group.Scalar
}

// SerializeForSignature returns the bytes the bank signs when issuing a
// token: serialize_int(serial) || serialize_point(commitment) || serialize_int(expiry).
func (t *Token) SerializeForSignature() ([]byte, error) {
	cBytes, err := t.Commitment.Point.Bytes()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(cBytes)+16)
	buf = append(buf, t.Serial.Bytes()...)
	buf = append(buf, cBytes...)
	buf = append(buf, group.SerializeInt(t.Expiry)...)
	return buf, nil
}

// IsExpired reports whether the token's expiry has passed as of now.
func (t *Token) IsExpired(now uint64) bool {
	return now >= t.Expiry
}

// BankToken is the record the bank-mint collaborator returns after minting:
// only the public fields, since the bank never learns a token's value or
// blinder.
type BankToken struct {
	Serial     group.Scalar
	Commitment commitment.Commitment
	Expiry     uint64
	Signature  []byte
}

// SerializeForSignature mirrors Token's, over the bank's own record shape.
func (t *BankToken) SerializeForSignature() ([]byte, error) {
	cBytes, err := t.Commitment.Point.Bytes()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(cBytes)+16)
	buf = append(buf, t.Serial.Bytes()...)
	buf = append(buf, cBytes...)
	buf = append(buf, group.SerializeInt(t.Expiry)...)
	return buf, nil
}
