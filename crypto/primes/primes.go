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

// Package primes implements primality testing and prime generation: trial
// division against the first 168 primes, the Miller-Rabin probabilistic
// test, Fermat's factorization algorithm (used only to audit moduli, never
// to certify them), and a bit-length-targeted prime generator.
package primes

import (
	"errors"
	"math/big"

	"github.com/dchampion/cryptocore/crypto/bigutil"
	"github.com/dchampion/cryptocore/crypto/csprng"
	"github.com/dchampion/cryptocore/logger"
)

// ErrInvalidInput is returned when n or bitLen violates a precondition.
var ErrInvalidInput = errors.New("invalid input")

// ErrGenerationFailed is returned when a bounded search (prime generation)
// exhausts its retry budget.
var ErrGenerationFailed = errors.New("failed to generate a prime within the retry budget")

// rounds is the number of independent Miller-Rabin witnesses tested; each
// round reduces the false-positive probability by a factor of 4, so 64
// rounds bounds the error at 4^-64.
const rounds = 64

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// smallPrimes holds the 168 primes less than 1000, used to dispense with
// small factors before falling back to Miller-Rabin.
var smallPrimes = []int64{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151,
	157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233,
	239, 241, 251, 257, 263, 269, 271, 277, 281, 283, 293, 307, 311, 313, 317,
	331, 337, 347, 349, 353, 359, 367, 373, 379, 383, 389, 397, 401, 409, 419,
	421, 431, 433, 439, 443, 449, 457, 461, 463, 467, 479, 487, 491, 499, 503,
	509, 521, 523, 541, 547, 557, 563, 569, 571, 577, 587, 593, 599, 601, 607,
	613, 617, 619, 631, 641, 643, 647, 653, 659, 661, 673, 677, 683, 691, 701,
	709, 719, 727, 733, 739, 743, 751, 757, 761, 769, 773, 787, 797, 809, 811,
	821, 823, 827, 829, 839, 853, 857, 859, 863, 877, 881, 883, 887, 907, 911,
	919, 929, 937, 941, 947, 953, 967, 971, 977, 983, 991, 997,
}

// IsPrime reports whether n is prime. For n < 1,000,000 the result is
// deterministic (via trial division against smallPrimes and their
// products); for larger n it is probabilistic with error bounded by
// 4^-64 when it reports true, and exact when it reports false. n must be
// greater than 1.
func IsPrime(n *big.Int) (bool, error) {
	if n.Cmp(big2) < 0 {
		return false, ErrInvalidInput
	}

	if n.Bit(0) == 0 {
		return n.Cmp(big2) == 0, nil
	}

	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		if bp.Cmp(n) == 0 {
			return true, nil
		}
		if new(big.Int).Mod(n, bp).Sign() == 0 {
			return false, nil
		}
	}

	composite, err := isComposite(n)
	if err != nil {
		return false, err
	}
	return !composite, nil
}

// isComposite implements the Miller-Rabin primality test. It returns true
// only when n is certainly composite; a false result means n is prime with
// probability at least 1 - 4^-rounds.
func isComposite(n *big.Int) (bool, error) {
	if n.Cmp(big.NewInt(3)) == 0 {
		return false, nil
	}

	s, t := factorOut2(n)
	nMinus1 := new(big.Int).Sub(n, big1)
	nMinus2 := new(big.Int).Sub(n, big2)

	for i := 0; i < rounds; i++ {
		a, err := csprng.RandRange(big2, nMinus2)
		if err != nil {
			return false, err
		}
		x, err := bigutil.FastModExp(a, s, n)
		if err != nil {
			return false, err
		}

		if x.Cmp(big1) == 0 {
			continue
		}

		found := false
		for j := int64(1); j < t; j++ {
			if x.Cmp(nMinus1) == 0 {
				found = true
				break
			}
			x.Mod(x.Mul(x, x), n)
		}
		if !found && x.Cmp(nMinus1) != 0 {
			return true, nil
		}
	}

	return false, nil
}

// factorOut2 rewrites n-1 as 2^t * s with s odd, returning (s, t).
func factorOut2(n *big.Int) (*big.Int, int64) {
	s := new(big.Int).Sub(n, big1)
	var t int64
	for s.Bit(0) == 0 {
		s.Rsh(s, 1)
		t++
	}
	return s, t
}

// FermatFactor attempts to factor an odd composite n as a difference of two
// squares, n = a² − b² = (a+b)(a−b), searching at most 1000 candidate
// values of a starting near ⌈√n⌉. It is used only to audit a modulus for
// factors that are suspiciously close together (and therefore unsafe for
// RSA); a successful factorization here does not mean n is RSA-unsafe in
// general, only that these particular factors are poorly separated.
func FermatFactor(n *big.Int) (p, q *big.Int, ok bool) {
	a := new(big.Int).Sqrt(n)
	a.Add(a, big1)

	b2 := new(big.Int)
	for tries := 0; tries < 1000; tries++ {
		b2.Sub(new(big.Int).Mul(a, a), n)
		if isSquare(b2) {
			b := new(big.Int).Sqrt(b2)
			return new(big.Int).Add(a, b), new(big.Int).Sub(a, b), true
		}
		a.Add(a, big1)
	}

	return nil, nil, false
}

func isSquare(n *big.Int) bool {
	if n.Sign() < 0 {
		return false
	}
	r := new(big.Int).Sqrt(n)
	return new(big.Int).Mul(r, r).Cmp(n) == 0
}

// GeneratePrime returns a prime with exactly bitLen bits (the top bit set),
// selected by testing randomly drawn candidates for primality. It
// retries up to 100*bitLen times before giving up.
func GeneratePrime(bitLen int) (*big.Int, error) {
	if bitLen < 2 {
		return nil, ErrInvalidInput
	}

	lo := new(big.Int).Lsh(big1, uint(bitLen-1))
	hi := new(big.Int).Lsh(big1, uint(bitLen))

	tries := 100 * bitLen
	for i := 0; i < tries; i++ {
		n, err := csprng.RandRange(lo, hi)
		if err != nil {
			return nil, err
		}
		prime, err := IsPrime(n)
		if err != nil {
			return nil, err
		}
		if prime {
			return n, nil
		}
	}

	logger.Logger().Warn("prime generation exhausted retry budget", "bitLen", bitLen)
	return nil, ErrGenerationFailed
}
