// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ec implements elliptic curve Diffie-Hellman (ECDH) key agreement
// and the elliptic curve digital signature algorithm (ECDSA) over
// short-Weierstrass curves, built on crypto/curves for domain parameters
// and crypto/ecpointgrouplaw for point arithmetic.
package ec

import (
	"errors"
	"math/big"

	"github.com/dchampion/cryptocore/crypto/bigutil"
	"github.com/dchampion/cryptocore/crypto/csprng"
	"github.com/dchampion/cryptocore/crypto/curves"
	"github.com/dchampion/cryptocore/crypto/ecpointgrouplaw"
	"github.com/dchampion/cryptocore/crypto/euclid"
	"github.com/dchampion/cryptocore/crypto/hasher"
	"github.com/dchampion/cryptocore/crypto/primes"
)

var (
	// ErrInvalidPrivateKey is returned when a private scalar falls outside
	// [1, n-1].
	ErrInvalidPrivateKey = errors.New("invalid ec private key")
	// ErrInvalidPublicKey is returned when a public key fails SEC2 §3.2.2.1
	// validation.
	ErrInvalidPublicKey = errors.New("invalid ec public key")
	// ErrInvalidCurve is returned when a curve fails full domain validation,
	// including the nG=I check.
	ErrInvalidCurve = errors.New("invalid ec curve")
	// ErrInvalidSignature is returned when a signature's (r, s) components
	// fall outside [1, n-1].
	ErrInvalidSignature = errors.New("invalid ec signature")
	// ErrGenerationFailed is returned when a bounded retry search for a
	// private key is exhausted; this should never happen in practice given
	// how loosely the range [1, n-1] excludes candidates.
	ErrGenerationFailed = errors.New("failed to generate ec key within the retry budget")

	big1 = big.NewInt(1)
)

// Key is an elliptic curve keypair. The zero value is not valid; construct
// via GenerateKeypair.
type Key struct {
	curve *curves.Curve
	d     *big.Int
	q     *ecpointgrouplaw.ECPoint
}

// Curve returns the curve this keypair is defined over.
func (k *Key) Curve() *curves.Curve { return k.curve }

// PublicKey returns this keypair's public point Q = d*G, safe to share.
func (k *Key) PublicKey() *ecpointgrouplaw.ECPoint { return k.q }

// GenerateKeypair derives a new private/public keypair over curve. The
// private scalar d is drawn uniformly from [1, n-1], where n is the order
// of curve's base point.
func GenerateKeypair(curve *curves.Curve) (*Key, error) {
	maxTries := 100 * curve.N.BitLen()
	for i := 0; i < maxTries; i++ {
		d, err := csprng.RandBits(curve.N.BitLen())
		if err != nil {
			return nil, err
		}
		if d.Sign() == 0 || d.Cmp(curve.N) >= 0 {
			continue
		}

		q := ecpointgrouplaw.NewBase(curve).ScalarMult(d)
		return &Key{curve: curve, d: d, q: q}, nil
	}
	return nil, ErrGenerationFailed
}

// SessionKey derives the ECDH shared secret given the other party's public
// point q, hashing the x-coordinate of d*q with h (or hasher.NewSHA256 if
// h is nil) to obscure its algebraic structure.
func (k *Key) SessionKey(q *ecpointgrouplaw.ECPoint, h hasher.Hasher) ([]byte, error) {
	if err := ValidatePublicKey(k.curve, q); err != nil {
		return nil, err
	}

	shared := q.ScalarMult(k.d)
	if shared.IsIdentity() {
		return nil, ErrInvalidPublicKey
	}

	if h == nil {
		h = hasher.NewSHA256()
	}
	h.Update(bigutil.ToBytes(shared.X()))
	return h.Digest(), nil
}

// Sign computes an ECDSA signature (r, s) over message m using the
// keypair's private scalar. Each attempt draws a fresh ephemeral keypair;
// the rare degenerate case (r == 0 or s == 0) is retried.
func (k *Key) Sign(m []byte, h hasher.Hasher) (r, s *big.Int, err error) {
	n := k.curve.N

	s = big.NewInt(0)
	for s.Sign() == 0 {
		r = big.NewInt(0)
		var ephemeral *Key
		for r.Sign() == 0 {
			ephemeral, err = GenerateKeypair(k.curve)
			if err != nil {
				return nil, nil, err
			}
			r = new(big.Int).Mod(ephemeral.q.X(), n)
		}

		e := hashToInt(m, n, h)

		kInv, err := euclid.Inverse(ephemeral.d, n)
		if err != nil {
			return nil, nil, err
		}

		s = new(big.Int).Mul(k.d, r)
		s.Add(s, e)
		s.Mul(s, kInv)
		s.Mod(s, n)
	}

	return r, s, nil
}

// Verify reports whether signature (r, s) is valid for message m under
// public key q.
func Verify(curve *curves.Curve, q *ecpointgrouplaw.ECPoint, m []byte, r, s *big.Int, h hasher.Hasher) error {
	if err := ValidatePublicKey(curve, q); err != nil {
		return err
	}

	n := curve.N
	if r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return ErrInvalidSignature
	}

	e := hashToInt(m, n, h)

	sInv, err := euclid.Inverse(s, n)
	if err != nil {
		return err
	}

	u1 := new(big.Int).Mul(e, sInv)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, sInv)
	u2.Mod(u2, n)

	base := ecpointgrouplaw.NewBase(curve)
	p1 := base.ScalarMult(u1)
	p2 := q.ScalarMult(u2)
	result, err := p1.Add(p2)
	if err != nil {
		return err
	}
	if result.IsIdentity() {
		return ErrInvalidSignature
	}

	v := new(big.Int).Mod(result.X(), n)
	if v.Cmp(r) != 0 {
		return ErrInvalidSignature
	}
	return nil
}

// hashToInt converts message m to an integer representative of its hash,
// truncated to curve's order n if the hash is longer. This truncates by
// right-shift (discarding the low bits), not by a modulo reduction, so it
// never introduces the bias a naive "mod bitlen(n)" truncation would.
func hashToInt(m []byte, n *big.Int, h hasher.Hasher) *big.Int {
	if h == nil {
		h = hasher.NewSHA256()
	}
	h.Update(m)
	digest := h.Digest()

	i := bigutil.ToInt(digest)
	if n.BitLen() >= i.BitLen() {
		return i
	}
	return new(big.Int).Rsh(i, uint(i.BitLen()-n.BitLen()))
}

// ValidatePublicKey validates public point q against curve, per SEC2
// §3.2.2.1: q must not be the identity, its coordinates must be in range,
// it must lie on the curve, and — when the cofactor exceeds 1 — n*q must
// be the identity.
func ValidatePublicKey(curve *curves.Curve, q *ecpointgrouplaw.ECPoint) error {
	if !q.IsSameCurve(ecpointgrouplaw.NewBase(curve)) {
		return ErrInvalidPublicKey
	}
	if q.IsIdentity() {
		return ErrInvalidPublicKey
	}

	x, y := q.X(), q.Y()
	if x.Sign() < 0 || x.Cmp(curve.P) >= 0 || y.Sign() < 0 || y.Cmp(curve.P) >= 0 {
		return ErrInvalidPublicKey
	}

	pt, err := ecpointgrouplaw.NewECPoint(curve, x, y)
	if err != nil {
		return ErrInvalidPublicKey
	}

	if curve.H.Cmp(big1) > 0 {
		// ScalarMult reduces its scalar modulo n, so n*q is formed as
		// (n-1)*q + q.
		nq, err := pt.ScalarMult(new(big.Int).Sub(curve.N, big1)).Add(pt)
		if err != nil || !nq.IsIdentity() {
			return ErrInvalidPublicKey
		}
	}

	return nil
}

// ValidateCurve performs full SEC2 §3.1.1.2.1 domain validation, combining
// curves.NewCurve's coefficient/discriminant/primality/MOV checks with the
// nG=I check that requires point arithmetic (and so cannot live in the
// leaf curves package without an import cycle).
func ValidateCurve(name string, p, a, b, gx, gy, n, h *big.Int) (*curves.Curve, error) {
	curve, err := curves.NewCurve(name, p, a, b, gx, gy, n, h, primes.IsPrime)
	if err != nil {
		return nil, ErrInvalidCurve
	}

	// ScalarMult reduces its scalar modulo n, so n*G is formed as
	// (n-1)*G + G.
	g := ecpointgrouplaw.NewBase(curve)
	nG, err := g.ScalarMult(new(big.Int).Sub(curve.N, big1)).Add(g)
	if err != nil || !nG.IsIdentity() {
		return nil, ErrInvalidCurve
	}

	return curve, nil
}
