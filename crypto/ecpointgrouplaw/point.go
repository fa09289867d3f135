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

// Package ecpointgrouplaw implements short-Weierstrass point addition,
// doubling and scalar multiplication from first principles (the
// chord-and-tangent law), rather than delegating to a standard-library
// elliptic.Curve. This is what lets the package operate over arbitrary
// caller-supplied curves.Curve values, including curves too small for any
// standard-library curve set to represent.
package ecpointgrouplaw

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dchampion/cryptocore/crypto/curves"
)

var (
	// ErrInvalidPoint is returned if a point's coordinates do not satisfy
	// the curve equation.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrDifferentCurve is returned if an operation is attempted between
	// points on two different curves.
	ErrDifferentCurve = errors.New("different elliptic curves")

	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
	big3 = big.NewInt(3)
)

// ECPoint is a point on a short-Weierstrass curve, including the point at
// infinity. The identity element is represented with an explicit tag
// (identity=true) rather than a reserved coordinate pair, so curves with
// b=0 (where (0,0) is itself a valid affine point in some parametrizations)
// are never ambiguous.
type ECPoint struct {
	curve    *curves.Curve
	identity bool
	x        *big.Int
	y        *big.Int
}

// NewECPoint constructs a point on curve from affine coordinates (x, y),
// verifying it satisfies the curve equation.
func NewECPoint(curve *curves.Curve, x, y *big.Int) (*ECPoint, error) {
	if !onCurve(curve, x, y) {
		return nil, ErrInvalidPoint
	}
	return &ECPoint{curve: curve, x: new(big.Int).Set(x), y: new(big.Int).Set(y)}, nil
}

// NewIdentity returns the identity element (point at infinity) of curve.
func NewIdentity(curve *curves.Curve) *ECPoint {
	return &ECPoint{curve: curve, identity: true}
}

// NewBase returns the base point G of curve.
func NewBase(curve *curves.Curve) *ECPoint {
	return &ECPoint{curve: curve, x: new(big.Int).Set(curve.Gx), y: new(big.Int).Set(curve.Gy)}
}

// IsIdentity reports whether p is the point at infinity.
func (p *ECPoint) IsIdentity() bool {
	return p.identity
}

// X returns the affine x-coordinate, or nil if p is the identity.
func (p *ECPoint) X() *big.Int {
	if p.identity {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns the affine y-coordinate, or nil if p is the identity.
func (p *ECPoint) Y() *big.Int {
	if p.identity {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Curve returns the curve p lies on.
func (p *ECPoint) Curve() *curves.Curve {
	return p.curve
}

// IsSameCurve reports whether p and other are defined over the same curve.
func (p *ECPoint) IsSameCurve(other *ECPoint) bool {
	return p.curve == other.curve || (p.curve != nil && other.curve != nil && p.curve.Name == other.curve.Name)
}

// String renders p for diagnostics.
func (p *ECPoint) String() string {
	if p.identity {
		return "I (identity)"
	}
	return fmt.Sprintf("(x, y) = (%s, %s)", p.x, p.y)
}

// Copy returns an independent copy of p.
func (p *ECPoint) Copy() *ECPoint {
	if p.identity {
		return NewIdentity(p.curve)
	}
	return &ECPoint{curve: p.curve, x: new(big.Int).Set(p.x), y: new(big.Int).Set(p.y)}
}

// Equal reports whether p and other represent the same point on the same
// curve. This compares coordinates directly and is not constant time;
// these are public points, so that is not a concern here.
func (p *ECPoint) Equal(other *ECPoint) bool {
	if !p.IsSameCurve(other) {
		return false
	}
	if p.identity || other.identity {
		return p.identity == other.identity
	}
	return p.x.Cmp(other.x) == 0 && p.y.Cmp(other.y) == 0
}

// Neg returns the additive inverse of p: (x, -y mod p).
func (p *ECPoint) Neg() *ECPoint {
	if p.identity {
		return NewIdentity(p.curve)
	}
	negY := new(big.Int).Neg(p.y)
	negY.Mod(negY, p.curve.P)
	return &ECPoint{curve: p.curve, x: new(big.Int).Set(p.x), y: negY}
}

// Add returns p + other on the curve, per the standard chord-and-tangent
// addition law: the identity if both operands are the identity; the
// non-identity operand if the other is the identity; the doubling formula
// if the operands are equal; the identity if the operands share an
// x-coordinate but differ in y (i.e. are mutual inverses); otherwise the
// secant-intersection formula.
func (p *ECPoint) Add(other *ECPoint) (*ECPoint, error) {
	if !p.IsSameCurve(other) {
		return nil, ErrDifferentCurve
	}

	if p.identity && other.identity {
		return NewIdentity(p.curve), nil
	}
	if p.identity {
		return other.Copy(), nil
	}
	if other.identity {
		return p.Copy(), nil
	}

	if p.x.Cmp(other.x) == 0 {
		if p.y.Cmp(other.y) == 0 {
			return p.double(), nil
		}
		return NewIdentity(p.curve), nil
	}

	x, y := secantIntersection(p.curve, p.x, p.y, other.x, other.y)
	return reflectAcrossXAxis(p.curve, x, y), nil
}

// double returns p + p.
func (p *ECPoint) double() *ECPoint {
	if p.identity {
		return NewIdentity(p.curve)
	}
	x, y := tangentIntersection(p.curve, p.x, p.y)
	return reflectAcrossXAxis(p.curve, x, y)
}

// reflectAcrossXAxis returns the additive inverse of the raw intersection
// point (x, y), completing the chord-and-tangent law: the third point of
// intersection with the curve must be reflected across the x-axis to
// yield the sum.
func reflectAcrossXAxis(curve *curves.Curve, x, y *big.Int) *ECPoint {
	ny := new(big.Int).Neg(y)
	ny.Mod(ny, curve.P)
	return &ECPoint{curve: curve, x: new(big.Int).Set(x), y: ny}
}

// tangentIntersection returns the third point of intersection of the curve
// with the line tangent to (x, y).
func tangentIntersection(curve *curves.Curve, x, y *big.Int) (*big.Int, *big.Int) {
	num := new(big.Int).Mul(x, x)
	num.Mul(num, big3)
	num.Add(num, curve.A)

	denom := new(big.Int).Mul(big2, y)
	denom.Mod(denom, curve.P)
	denomInv := new(big.Int).ModInverse(denom, curve.P)

	m := new(big.Int).Mul(num, denomInv)
	m.Mod(m, curve.P)

	x3 := new(big.Int).Mul(m, m)
	x3.Sub(x3, new(big.Int).Mul(big2, x))
	x3.Mod(x3, curve.P)

	y3 := new(big.Int).Sub(x3, x)
	y3.Mul(y3, m)
	y3.Add(y3, y)
	y3.Mod(y3, curve.P)

	return x3, y3
}

// secantIntersection returns the third point of intersection of the curve
// with the secant line through (x1, y1) and (x2, y2).
func secantIntersection(curve *curves.Curve, x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	num := new(big.Int).Sub(y2, y1)

	denom := new(big.Int).Sub(x2, x1)
	denom.Mod(denom, curve.P)
	denomInv := new(big.Int).ModInverse(denom, curve.P)

	m := new(big.Int).Mul(num, denomInv)
	m.Mod(m, curve.P)

	x3 := new(big.Int).Mul(m, m)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, curve.P)

	y3 := new(big.Int).Sub(x3, x1)
	y3.Mul(y3, m)
	y3.Add(y3, y1)
	y3.Mod(y3, curve.P)

	return x3, y3
}

// ScalarMult returns k*p using the double-and-add method, processing k's
// bits from most to least significant. k is first reduced modulo the
// curve's order n.
func (p *ECPoint) ScalarMult(k *big.Int) *ECPoint {
	kModN := new(big.Int).Mod(k, p.curve.N)
	if p.identity || kModN.Sign() == 0 {
		return NewIdentity(p.curve)
	}

	result := p.Copy()
	for i := kModN.BitLen() - 2; i >= 0; i-- {
		result = result.double()
		if kModN.Bit(i) == 1 {
			var err error
			result, err = result.Add(p)
			if err != nil {
				// p and result always share a curve by construction.
				panic(err)
			}
		}
	}
	return result
}

func onCurve(curve *curves.Curve, x, y *big.Int) bool {
	if x == nil || y == nil {
		return false
	}
	lhs := new(big.Int).Exp(y, big2, curve.P)
	rhs := new(big.Int).Exp(x, big3, curve.P)
	rhs.Add(rhs, new(big.Int).Mul(curve.A, x))
	rhs.Add(rhs, curve.B)
	rhs.Mod(rhs, curve.P)
	return lhs.Cmp(rhs) == 0
}
