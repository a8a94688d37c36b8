// Package errs centralizes the error-Kind taxonomy shared across the wallet
// core so callers have one place to classify a failure, independent of which
// package raised it. Individual packages still declare their own sentinel
// errors with package-specific messages; this package only carries the
// classification.
package errs

import "errors"

// Kind categorizes an error for callers that need to branch on failure class
// (e.g. a CLI deciding exit codes, or a receiver deciding whether to retry).
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindNotSpendable
	KindAlreadyExists
	KindInvalidSignature
	KindProofInvalid
	KindExpiredCertificate
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindNotSpendable:
		return "not_spendable"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalidSignature:
		return "invalid_signature"
	case KindProofInvalid:
		return "proof_invalid"
	case KindExpiredCertificate:
		return "expired_certificate"
	default:
		return "unknown"
	}
}

type kindedError struct {
	kind Kind
	err  error
}

func (e *kindedError) Error() string { return e.err.Error() }
func (e *kindedError) Unwrap() error { return e.err }

// New builds a sentinel error tagged with kind. Packages should assign the
// result to a package-level var, the same way they would with errors.New.
func New(kind Kind, message string) error {
	return &kindedError{kind: kind, err: errors.New(message)}
}

// KindOf classifies err, walking its Unwrap chain. Errors not produced by
// New report KindUnknown.
func KindOf(err error) Kind {
	var ke *kindedError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}
