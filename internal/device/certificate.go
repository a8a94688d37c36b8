package device

import (
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

var (
	ErrCertificateExpired  = errs.New(errs.KindExpiredCertificate, "device: certificate has expired")
	ErrCertificateUnsigned = errs.New(errs.KindInvalidSignature, "device: certificate carries no signature")
)

// Certificate binds a device's public key to a validity window, signed by
// the issuing bank authority.
type Certificate struct {
	PKDevice            group.Point
	CertID              []byte
	IssuedAt, ExpiresAt uint64
	Signature           []byte
}

// BankAuthority issues and is the trust anchor for device certificates. Its
// keypair is distinct from the bank's opaque ECDSA issuance key used to sign
// minted tokens (see package bank); this one speaks the same Schnorr scheme
// as device identities, since certificate issuance and spend-authorization
// verification are part of the proof suite's own protocol, not an external
// collaborator.
type BankAuthority struct {
	keys KeyPair
}

// NewBankAuthority wraps an existing keypair as a bank authority.
func NewBankAuthority(keys KeyPair) *BankAuthority {
	return &BankAuthority{keys: keys}
}

// PublicKey returns pk_bank.
func (b *BankAuthority) PublicKey() group.Point {
	return b.keys.Public
}

// IssueCertificate signs a certificate binding pkDevice to [issuedAt, expiresAt].
func (b *BankAuthority) IssueCertificate(pkDevice group.Point, certID []byte, issuedAt, expiresAt uint64) (*Certificate, error) {
	message, err := certificateMessage(pkDevice, certID, issuedAt, expiresAt)
	if err != nil {
		return nil, err
	}
	sig, err := sign(b.keys.Secret, message)
	if err != nil {
		return nil, err
	}
	return &Certificate{
		PKDevice:  pkDevice,
		CertID:    certID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Signature: sig,
	}, nil
}

// VerifyCertificate checks cert's signature against pkBank and that now is
// not past cert.ExpiresAt. IssuedAt is covered by the signature but is not
// compared against now.
func VerifyCertificate(cert *Certificate, pkBank group.Point, now uint64) bool {
	if now > cert.ExpiresAt {
		return false
	}
	if len(cert.Signature) == 0 {
		return false
	}
	message, err := certificateMessage(cert.PKDevice, cert.CertID, cert.IssuedAt, cert.ExpiresAt)
	if err != nil {
		return false
	}
	return verify(pkBank, cert.Signature, message)
}

func certificateMessage(pkDevice group.Point, certID []byte, issuedAt, expiresAt uint64) ([]byte, error) {
	pkBytes, err := pkDevice.Bytes()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(pkBytes)+len(certID)+16)
	buf = append(buf, pkBytes...)
	buf = append(buf, certID...)
	buf = append(buf, group.BE8(issuedAt)...)
	buf = append(buf, group.BE8(expiresAt)...)
	return buf, nil
}
