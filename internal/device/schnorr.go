// Package device implements the device authorization layer: Schnorr
// keypairs, bank-issued device certificates, and the spend-authorization
// transcript a device signs before an offline transaction can be handed to
// a receiver. Ported from the original source's crypto/device module.
package device

import (
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

var (
	ErrZeroNonce        = errs.New(errs.KindInvalidInput, "device: schnorr nonce must not be zero")
	ErrBadSignatureSize = errs.New(errs.KindInvalidSignature, "device: signature must be 96 bytes")
)

// KeyPair is a Schnorr signing keypair over the group layer's curve. Both
// bank authorities and wallet devices use this same shape.
type KeyPair struct {
	Secret group.Scalar
	Public group.Point
}

// GenerateKeyPair draws a fresh random keypair.
func GenerateKeyPair() (KeyPair, error) {
	sk, err := group.RandomScalar()
	if err != nil {
		return KeyPair{}, err
	}
	if sk.IsZero() {
		return KeyPair{}, ErrZeroNonce
	}
	return KeyPair{Secret: sk, Public: group.Generator().ScalarMul(sk)}, nil
}

// sign produces a Schnorr signature R || z (96 bytes) over message.
func sign(sk group.Scalar, message []byte) ([]byte, error) {
	k, err := group.RandomScalar()
	if err != nil {
		return nil, err
	}
	if k.IsZero() {
		return nil, ErrZeroNonce
	}
	r := group.Generator().ScalarMul(k)
	rBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	e := group.HashToScalar(rBytes, message)
	z := k.Add(e.Mul(sk))

	sig := make([]byte, 0, 96)
	sig = append(sig, rBytes...)
	sig = append(sig, z.Bytes32()...)
	return sig, nil
}

// verify checks a Schnorr signature produced by sign.
func verify(pk group.Point, signature, message []byte) bool {
	if len(signature) != 96 {
		return false
	}
	r, err := group.PointFromBytes(signature[:64])
	if err != nil {
		return false
	}
	z := group.ScalarFromBytes(signature[64:96])
	rBytes, err := r.Bytes()
	if err != nil {
		return false
	}
	e := group.HashToScalar(rBytes, message)
	lhs := group.Generator().ScalarMul(z)
	rhs := r.Add(pk.ScalarMul(e))
	return lhs.Equal(rhs)
}
