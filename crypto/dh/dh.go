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

// Package dh implements Diffie-Hellman key agreement over a prime-order
// multiplicative subgroup: parameter generation (q, p, g), keypair
// generation, session-key derivation, and domain/public-key validation.
package dh

import (
	"errors"
	"math/big"

	"github.com/dchampion/cryptocore/crypto/bigutil"
	"github.com/dchampion/cryptocore/crypto/csprng"
	"github.com/dchampion/cryptocore/crypto/hasher"
	"github.com/dchampion/cryptocore/crypto/primes"
	"github.com/dchampion/cryptocore/logger"
)

const (
	// QBitLen is the bit length of q, the order of the subgroup public keys
	// must fall within.
	QBitLen = 256
	// PMinBitLen is the smaller of the two supported moduli bit lengths.
	PMinBitLen = 2048
	// PMaxBitLen is the larger of the two supported moduli bit lengths.
	PMaxBitLen = 3072
)

var (
	// ErrInvalidParameters is returned when (q, p, g) fail domain validation.
	ErrInvalidParameters = errors.New("invalid dh parameters")
	// ErrInvalidKey is returned when a public key fails subgroup membership
	// validation.
	ErrInvalidKey = errors.New("invalid dh public key")
	// ErrGenerationFailed is returned when a bounded parameter search is
	// exhausted.
	ErrGenerationFailed = errors.New("failed to generate dh parameters within the retry budget")

	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// Parameters holds the public group parameters (q, p, g) shared by both
// parties in a key agreement. The zero value is not valid; construct via
// GenerateParameters.
type Parameters struct {
	q *big.Int
	p *big.Int
	g *big.Int
}

// Q is the order of the subgroup in which public keys must fall.
func (params *Parameters) Q() *big.Int { return new(big.Int).Set(params.q) }

// P is the group modulus.
func (params *Parameters) P() *big.Int { return new(big.Int).Set(params.p) }

// G is the subgroup generator.
func (params *Parameters) G() *big.Int { return new(big.Int).Set(params.g) }

// Equal reports whether params and other carry the same (q, p, g).
func (params *Parameters) Equal(other *Parameters) bool {
	return params.q.Cmp(other.q) == 0 &&
		params.p.Cmp(other.p) == 0 &&
		params.g.Cmp(other.g) == 0
}

// Key is a Diffie-Hellman keypair derived from a set of Parameters. The
// private component x must never leave the process; PublicKey returns the
// public component y, which may be shared freely.
type Key struct {
	params *Parameters
	x      *big.Int
	y      *big.Int
}

// PublicKey returns this keypair's public component, safe to share.
func (k *Key) PublicKey() *big.Int { return new(big.Int).Set(k.y) }

// Parameters returns the group parameters this keypair was derived from.
func (k *Key) Parameters() *Parameters { return k.params }

// Size returns the bit length of the keypair's modulus.
func (k *Key) Size() int { return k.params.p.BitLen() }

// Equal reports whether k and other share the same parameters and key
// material. The comparison is not constant time, so it can leak timing
// information about the private component.
func (k *Key) Equal(other *Key) bool {
	return k.params.Equal(other.params) &&
		k.x.Cmp(other.x) == 0 &&
		k.y.Cmp(other.y) == 0
}

// GenerateParameters returns a new set of domain parameters for a modulus
// of pBitLen bits, which must be exactly PMinBitLen or PMaxBitLen.
func GenerateParameters(pBitLen int) (*Parameters, error) {
	if pBitLen != PMinBitLen && pBitLen != PMaxBitLen {
		return nil, ErrInvalidParameters
	}

	q, err := primes.GeneratePrime(QBitLen)
	if err != nil {
		return nil, err
	}

	n, p, err := generateP(q, pBitLen)
	if err != nil {
		return nil, err
	}

	g, err := generateG(n, p)
	if err != nil {
		return nil, err
	}

	params := &Parameters{q: q, p: p, g: g}
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}
	return params, nil
}

// generateP searches for n and p such that p = q*n + 1 is prime and
// bitlen(p) == pBitLen.
func generateP(q *big.Int, pBitLen int) (n, p *big.Int, err error) {
	nBitLen := pBitLen - q.BitLen()
	lo := new(big.Int).Lsh(big1, uint(nBitLen-1))
	hi := new(big.Int).Lsh(big1, uint(nBitLen))

	maxTries := 100 * pBitLen
	for i := 0; i < maxTries; i++ {
		candidate, err := csprng.RandRange(lo, hi)
		if err != nil {
			return nil, nil, err
		}
		if candidate.Bit(0) != 0 {
			continue
		}

		qn := new(big.Int).Mul(q, candidate)
		if qn.BitLen() != pBitLen {
			continue
		}

		p := new(big.Int).Add(qn, big1)
		prime, err := primes.IsPrime(p)
		if err != nil {
			return nil, nil, err
		}
		if prime {
			return candidate, p, nil
		}
	}

	logger.Logger().Warn("dh parameter generation exhausted retry budget", "pBitLen", pBitLen)
	return nil, nil, ErrGenerationFailed
}

// generateG finds a generator of the order-q subgroup of the full group
// modulo p, given the cofactor n such that p = q*n + 1.
func generateG(n, p *big.Int) (*big.Int, error) {
	pMinus2 := new(big.Int).Sub(p, big2)
	for {
		a, err := csprng.RandRange(big2, pMinus2)
		if err != nil {
			return nil, err
		}
		g, err := bigutil.FastModExp(a, n, p)
		if err != nil {
			return nil, err
		}
		if g.Cmp(big1) != 0 {
			return g, nil
		}
	}
}

// GenerateKeypair derives a new private/public keypair from params. The
// private component is selected uniformly from [1, q-1].
func GenerateKeypair(params *Parameters) (*Key, error) {
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	x, err := csprng.RandRange(big1, params.q)
	if err != nil {
		return nil, err
	}

	y, err := bigutil.FastModExp(params.g, new(big.Int).Mod(x, params.q), params.p)
	if err != nil {
		return nil, err
	}

	key := &Key{params: params, x: x, y: y}
	if err := ValidatePublicKey(y, params); err != nil {
		return nil, err
	}
	return key, nil
}

// SessionKey derives the shared secret given the other party's public key
// y, hashing the raw Diffie-Hellman result with h (or hasher.NewSHA256 if
// h is nil) to obscure its algebraic structure.
func (k *Key) SessionKey(y *big.Int, h hasher.Hasher) ([]byte, error) {
	if err := ValidatePublicKey(y, k.params); err != nil {
		return nil, err
	}

	ki, err := bigutil.FastModExp(y, new(big.Int).Mod(k.x, k.params.q), k.params.p)
	if err != nil {
		return nil, err
	}

	if h == nil {
		h = hasher.NewSHA256()
	}
	h.Update(bigutil.ToBytes(ki))
	return h.Digest(), nil
}

// ValidatePublicKey validates a public key y against domain parameters
// params, per the subgroup-membership check a receiving party must perform
// before deriving a session key.
func ValidatePublicKey(y *big.Int, params *Parameters) error {
	pMinus1 := new(big.Int).Sub(params.p, big1)
	if y.Cmp(big2) < 0 || y.Cmp(pMinus1) > 0 {
		return ErrInvalidKey
	}

	order, err := bigutil.FastModExp(y, params.q, params.p)
	if err != nil {
		return err
	}
	if order.Cmp(big1) != 0 {
		return ErrInvalidKey
	}

	return nil
}

// ValidateParameters validates a set of domain parameters (q, p, g) before
// they are used to derive a keypair or accepted from a remote party.
func ValidateParameters(params *Parameters) error {
	q, p, g := params.q, params.p, params.g

	if p.BitLen() != PMinBitLen && p.BitLen() != PMaxBitLen {
		return ErrInvalidParameters
	}
	if q.BitLen() != QBitLen {
		return ErrInvalidParameters
	}

	primeP, err := primes.IsPrime(p)
	if err != nil {
		return err
	}
	if !primeP {
		return ErrInvalidParameters
	}

	primeQ, err := primes.IsPrime(q)
	if err != nil {
		return err
	}
	if !primeQ {
		return ErrInvalidParameters
	}

	pMinus1 := new(big.Int).Sub(p, big1)
	if new(big.Int).Mod(pMinus1, q).Sign() != 0 {
		return ErrInvalidParameters
	}

	if g.Cmp(big1) == 0 {
		return ErrInvalidParameters
	}

	order, err := bigutil.FastModExp(g, q, p)
	if err != nil {
		return err
	}
	if order.Cmp(big1) != 0 {
		return ErrInvalidParameters
	}

	return nil
}
