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

// Package csprng draws cryptographically secure random integers from OS
// entropy. RandBelow uses true rejection sampling against the requested
// bit length rather than a modulo reduction, so it never introduces the
// small bias modulo shortcuts do.
package csprng

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// ErrInvalidInput is returned when a precondition on k, n, l or u is
// violated.
var ErrInvalidInput = errors.New("invalid input")

// RandBits returns a uniformly random non-negative integer with exactly k
// significant bits of entropy (i.e. drawn from [0, 2^k)). k must be >= 1.
func RandBits(k int) (*big.Int, error) {
	if k < 1 {
		return nil, ErrInvalidInput
	}

	numBytes := (k + 7) / 8
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	x := new(big.Int).SetBytes(buf)
	excess := uint(numBytes*8 - k)
	return x.Rsh(x, excess), nil
}

// RandBelow returns a uniformly random integer in [0, n) via rejection
// sampling: draw RandBits(bitlen(n)) until the sample is < n. n must be
// non-negative; RandBelow(0) returns 0.
func RandBelow(n *big.Int) (*big.Int, error) {
	if n.Sign() < 0 {
		return nil, ErrInvalidInput
	}
	if n.Sign() == 0 {
		return big.NewInt(0), nil
	}

	k := n.BitLen()
	for {
		r, err := RandBits(k)
		if err != nil {
			return nil, err
		}
		if r.Cmp(n) < 0 {
			return r, nil
		}
	}
}

// RandRange returns a uniformly random integer in [l, u). Requires
// 0 <= l < u.
func RandRange(l, u *big.Int) (*big.Int, error) {
	if l.Sign() < 0 || u.Cmp(l) <= 0 {
		return nil, ErrInvalidInput
	}
	width := new(big.Int).Sub(u, l)
	r, err := RandBelow(width)
	if err != nil {
		return nil, err
	}
	return r.Add(r, l), nil
}
