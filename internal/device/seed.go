package device

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

// DeriveKeyPair deterministically derives a Schnorr keypair from seed
// material via HKDF-SHA256, keyed additionally by info (e.g. a device
// serial number or "bank-authority"). This lets enclave-provisioned bank
// and device keys be reproduced from a master seed instead of stored
// verbatim, which is how the teacher's dependency set already included
// golang.org/x/crypto without ever exercising it.
func DeriveKeyPair(seed, info []byte) (KeyPair, error) {
	kdf := hkdf.New(sha256.New, seed, nil, info)
	raw := make([]byte, 32)
	if _, err := io.ReadFull(kdf, raw); err != nil {
		return KeyPair{}, err
	}
	sk := group.ScalarFromBytes(raw)
	if sk.IsZero() {
		return KeyPair{}, ErrZeroNonce
	}
	return KeyPair{Secret: sk, Public: group.Generator().ScalarMul(sk)}, nil
}
