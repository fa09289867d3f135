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

// Package euclid implements the Euclidean and extended Euclidean
// algorithms, and the modular-inverse and lcm operations built on them.
package euclid

import (
	"errors"
	"math/big"
)

var (
	// ErrNoInverse is returned if a has no modular inverse modulo b (i.e.
	// gcd(a, b) != 1).
	ErrNoInverse = errors.New("no modular inverse exists")
	// ErrInvalidInput is returned if an input precondition (positive
	// operands to Lcm) is violated.
	ErrInvalidInput = errors.New("invalid input")

	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
)

// Gcd returns the greatest common divisor of non-negative a and b via the
// standard Euclidean algorithm: (a, b) <- (b, a mod b) until b = 0.
func Gcd(a, b *big.Int) *big.Int {
	x := new(big.Int).Set(a)
	y := new(big.Int).Set(b)
	for y.Sign() != 0 {
		x, y = y, new(big.Int).Mod(x, y)
	}
	return x
}

// Bezout holds the result of the extended Euclidean algorithm: G is
// gcd(a, b), and X, Y satisfy a*X + b*Y = G.
type Bezout struct {
	G *big.Int
	X *big.Int
	Y *big.Int
}

// GcdX returns the greatest common divisor of non-negative a and b along
// with Bezout coefficients x and y such that a*x + b*y = gcd(a, b). It uses
// the iterative two-register update form rather than recursion, so it does
// not risk stack depth issues at cryptographic scale.
func GcdX(a, b *big.Int) *Bezout {
	aa, bb := new(big.Int).Set(a), new(big.Int).Set(b)
	a1, b1 := big.NewInt(1), big.NewInt(0)
	x, y := big.NewInt(1), big.NewInt(0)

	q, t := new(big.Int), new(big.Int)
	for bb.Sign() != 0 {
		q.QuoRem(aa, bb, t)
		aa, bb = bb, t
		t = new(big.Int)

		x, b1 = b1, new(big.Int).Sub(x, new(big.Int).Mul(q, b1))
		y, a1 = a1, new(big.Int).Sub(y, new(big.Int).Mul(q, a1))
	}

	return &Bezout{G: aa, X: x, Y: y}
}

// Lcm returns the least common multiple of positive a and b.
func Lcm(a, b *big.Int) (*big.Int, error) {
	if a.Sign() <= 0 || b.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	g := Gcd(a, b)
	if g.Sign() <= 0 {
		return nil, ErrInvalidInput
	}
	t := new(big.Int).Div(a, g)
	return t.Mul(t, b), nil
}

// Inverse returns the modular multiplicative inverse of a modulo b,
// normalized to [0, b), where a and b are non-negative integers. Returns
// ErrNoInverse if gcd(a, b) != 1.
func Inverse(a, b *big.Int) (*big.Int, error) {
	bz := GcdX(a, b)
	if bz.G.Cmp(big1) != 0 {
		return nil, ErrNoInverse
	}
	return new(big.Int).Mod(bz.X, b), nil
}
