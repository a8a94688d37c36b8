// Package commitment implements Pedersen commitments over the group layer:
// C = v*G + r*H, binding under the discrete-log assumption and perfectly
// hiding since r is uniform.
package commitment

import (
	"github.com/ccoin/offline-cbdc-wallet/internal/errs"
	"github.com/ccoin/offline-cbdc-wallet/internal/group"
)

var ErrInvalidInput = errs.New(errs.KindInvalidInput, "commitment: value must be non-negative")

// Commitment is a Pedersen commitment to some value, under some blinder,
// both of which remain private to whoever produced it.
type Commitment struct {
	Point group.Point
}

// Commit computes C = v*G + r*H. r's validity (r in [0, q)) is guaranteed by
// the Scalar type's constructors, so the only runtime check left here is
// v's non-negativity.
func Commit(v int64, r group.Scalar) (Commitment, error) {
	if v < 0 {
		return Commitment{}, ErrInvalidInput
	}
	vs := group.ScalarFromInt64(v)
	c := group.Generator().ScalarMul(vs).Add(group.SecondGenerator().ScalarMul(r))
	return Commitment{Point: c}, nil
}

// Verify reports whether C opens to (v, r).
func (c Commitment) Verify(v int64, r group.Scalar) bool {
	other, err := Commit(v, r)
	if err != nil {
		return false
	}
	return c.Point.Equal(other.Point)
}

// Add exploits Pedersen's additive homomorphism: commit(v1,r1) + commit(v2,r2)
// == commit(v1+v2, r1+r2).
func (c Commitment) Add(o Commitment) Commitment {
	return Commitment{Point: c.Point.Add(o.Point)}
}

func (c Commitment) Sub(o Commitment) Commitment {
	return Commitment{Point: c.Point.Sub(o.Point)}
}

func (c Commitment) Equal(o Commitment) bool {
	return c.Point.Equal(o.Point)
}
