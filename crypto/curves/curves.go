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

// Package curves describes short-Weierstrass elliptic curve domains (the
// SECG catalog plus arbitrary caller-supplied parameters) and validates
// them against the checks in SEC2 §3.1.1.2.1 that do not require point
// arithmetic. It is a leaf package: it knows nothing about point addition
// or scalar multiplication, so ecpointgrouplaw and ec depend on it, never
// the reverse.
package curves

import (
	"errors"
	"math/big"
)

// ErrInvalidCurve is returned when a set of curve parameters fails domain
// validation.
var ErrInvalidCurve = errors.New("invalid curve parameters")

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big3 = big.NewInt(3)
	big4 = big.NewInt(4)
	big27 = big.NewInt(27)
)

// movExclusionRounds bounds the search for an MOV/Frey-Rück reduction
// attack: p^B mod n must not be 1 for any 1 <= B < movExclusionRounds.
const movExclusionRounds = 100

// Curve describes a short-Weierstrass curve y² = x³ + ax + b (mod p) with
// base point G = (Gx, Gy) of prime order n, and cofactor h. The zero value
// is not valid; construct via NewCurve or one of the catalog entries.
type Curve struct {
	Name string
	P    *big.Int
	A    *big.Int
	B    *big.Int
	Gx   *big.Int
	Gy   *big.Int
	N    *big.Int
	H    *big.Int
}

// NewCurve validates the supplied domain parameters (short of the nG = I
// check, which requires point arithmetic the caller must perform
// separately, e.g. with ecpointgrouplaw) and returns a Curve if they pass.
//
// Checks performed, per SEC2 §3.1.1.2.1:
//   - a, b, Gx, Gy in [0, p-1]
//   - n != p
//   - discriminant 4a³ + 27b² ≢ 0 (mod p)
//   - G on the curve
//   - p prime, n prime
//   - h == floor((sqrt(p)+1)^2 / n), bounded by 2^(ceil(log2(p))/16)
//   - MOV/Frey-Rück exclusion: p^B mod n != 1 for 1 <= B < 100
//
// isPrime is injected rather than imported from crypto/primes so this leaf
// package has no dependency on the primality-testing layer above it.
func NewCurve(name string, p, a, b, gx, gy, n, h *big.Int, isPrime func(*big.Int) (bool, error)) (*Curve, error) {
	if inRange(a, p) != nil || inRange(b, p) != nil || inRange(gx, p) != nil || inRange(gy, p) != nil {
		return nil, ErrInvalidCurve
	}

	if n.Cmp(p) == 0 {
		return nil, ErrInvalidCurve
	}

	disc := new(big.Int).Mod(
		new(big.Int).Add(
			new(big.Int).Mul(big4, new(big.Int).Exp(a, big3, p)),
			new(big.Int).Mul(big27, new(big.Int).Exp(b, big.NewInt(2), p)),
		),
		p,
	)
	if disc.Sign() == 0 {
		return nil, ErrInvalidCurve
	}

	if !onCurve(p, a, b, gx, gy) {
		return nil, ErrInvalidCurve
	}

	primeP, err := isPrime(p)
	if err != nil {
		return nil, err
	}
	if !primeP {
		return nil, ErrInvalidCurve
	}

	primeN, err := isPrime(n)
	if err != nil {
		return nil, err
	}
	if !primeN {
		return nil, ErrInvalidCurve
	}

	if !validCofactor(p, n, h) {
		return nil, ErrInvalidCurve
	}

	if !excludesMOV(p, n) {
		return nil, ErrInvalidCurve
	}

	return &Curve{Name: name, P: p, A: a, B: b, Gx: gx, Gy: gy, N: n, H: h}, nil
}

func inRange(x, p *big.Int) error {
	if x.Sign() < 0 || x.Cmp(p) >= 0 {
		return ErrInvalidCurve
	}
	return nil
}

// onCurve reports whether (x, y) satisfies y² = x³ + ax + b (mod p).
func onCurve(p, a, b, x, y *big.Int) bool {
	lhs := new(big.Int).Mod(new(big.Int).Mul(y, y), p)

	rhs := new(big.Int).Exp(x, big3, p)
	rhs.Add(rhs, new(big.Int).Mul(a, x))
	rhs.Add(rhs, b)
	rhs.Mod(rhs, p)

	return lhs.Cmp(rhs) == 0
}

func validCofactor(p, n, h *big.Int) bool {
	// (sqrt(p)+1)^2 = p + 1 + sqrt(4p); since p+1 and n are integers, the
	// floor of the quotient is unchanged by taking floor(sqrt(4p)).
	t := new(big.Int).Sqrt(new(big.Int).Lsh(p, 2))
	t.Add(t, p)
	t.Add(t, big1)
	want := new(big.Int).Div(t, n)
	if want.Cmp(h) != 0 {
		return false
	}

	bound := new(big.Int).Lsh(big1, uint(p.BitLen())/16)
	return h.Cmp(bound) <= 0
}

func excludesMOV(p, n *big.Int) bool {
	for b := int64(1); b < movExclusionRounds; b++ {
		if new(big.Int).Exp(p, big.NewInt(b), n).Cmp(big1) == 0 {
			return false
		}
	}
	return true
}
