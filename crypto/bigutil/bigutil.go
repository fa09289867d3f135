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

// Package bigutil provides the shared arithmetic kernel (modular
// exponentiation, CRT encode/decode, byte/int conversion) consumed by the
// dh, rsa and ec packages.
package bigutil

import (
	"errors"
	"math/big"

	"github.com/dchampion/cryptocore/crypto/euclid"
)

// ErrInvalidInput is returned when an arithmetic precondition (positive
// modulus, non-negative operands) is violated.
var ErrInvalidInput = errors.New("invalid input")

var big1 = big.NewInt(1)

// FastModExp returns a^e mod n. n must be >= 1.
func FastModExp(a, e, n *big.Int) (*big.Int, error) {
	if n.Cmp(big1) < 0 {
		return nil, ErrInvalidInput
	}
	return new(big.Int).Exp(a, e, n), nil
}

// FastModExpCRT returns a^e mod (p*q) using the Chinese Remainder Theorem to
// perform the exponentiation modulo the smaller factors p and q, which for
// large semiprime moduli is substantially faster than a single exponentiation
// modulo p*q directly.
//
// The exponent reduction mirrors the source this module is ported from: e is
// reduced modulo (n-1) for each factor n, but if that reduction is zero, the
// unreduced exponent e is used instead. Callers must not invoke this
// function with a base of 0, since the zero-fallback does not special-case
// it.
func FastModExpCRT(a, e, p, q *big.Int) (*big.Int, error) {
	if p.Cmp(big1) < 0 || q.Cmp(big1) < 0 {
		return nil, ErrInvalidInput
	}

	x, err := FastModExp(a, reduceExponent(e, p), p)
	if err != nil {
		return nil, err
	}
	y, err := FastModExp(a, reduceExponent(e, q), q)
	if err != nil {
		return nil, err
	}

	return FromCRT(x, y, p, q)
}

func reduceExponent(e, n *big.Int) *big.Int {
	r := new(big.Int).Mod(e, new(big.Int).Sub(n, big1))
	if r.Sign() == 0 {
		return e
	}
	return r
}

// FromCRT reconstructs x in [0, p*q) from its CRT representation (x mod p,
// x mod q) using Garner's formula. p and q must be coprime.
func FromCRT(x, y, p, q *big.Int) (*big.Int, error) {
	if x.Sign() < 0 || y.Sign() < 0 || p.Cmp(big1) < 0 || q.Cmp(big1) < 0 {
		return nil, ErrInvalidInput
	}

	inv, err := euclid.Inverse(q, p)
	if err != nil {
		return nil, err
	}

	diff := new(big.Int).Sub(x, y)
	t := new(big.Int).Mod(new(big.Int).Mul(diff, inv), p)
	return t.Add(t.Mul(t, q), y), nil
}

// ToCRT returns the CRT representation (x mod p, x mod q) of x.
func ToCRT(x, p, q *big.Int) (a, b *big.Int, err error) {
	if x.Sign() < 0 || p.Cmp(big1) < 0 || q.Cmp(big1) < 0 {
		return nil, nil, ErrInvalidInput
	}
	return new(big.Int).Mod(x, p), new(big.Int).Mod(x, q), nil
}

// ToBytes returns the big-endian, minimal-length byte representation of a
// non-negative integer i.
func ToBytes(i *big.Int) []byte {
	return i.Bytes()
}

// ToInt returns the big-endian integer represented by b.
func ToInt(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
