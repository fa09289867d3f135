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

// Package rsa implements RSA key generation with the fixed, paired
// signature and encryption exponents 3 and 5, CRT-accelerated signing,
// full-domain-hash (FDH) message mapping, and key encapsulation.
package rsa

import (
	"errors"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/dchampion/cryptocore/crypto/bigutil"
	"github.com/dchampion/cryptocore/crypto/csprng"
	"github.com/dchampion/cryptocore/crypto/euclid"
	"github.com/dchampion/cryptocore/crypto/hasher"
	"github.com/dchampion/cryptocore/crypto/primes"
	"github.com/dchampion/cryptocore/logger"
)

const (
	// VerificationExponent is the fixed public exponent used to verify
	// signatures. It is never part of the returned key material; callers
	// on both sides of a protocol are assumed to know it in advance.
	VerificationExponent = 3
	// EncryptionExponent is the fixed public exponent used for key
	// encapsulation.
	EncryptionExponent = 5

	// FactorMinBitLen is the smallest allowed bit length of a prime factor.
	FactorMinBitLen = 1024
	// FactorMaxBitLen is the largest allowed bit length of a prime factor.
	FactorMaxBitLen = 4096

	// ModulusMinBitLen is the smallest allowed modulus bit length.
	ModulusMinBitLen = FactorMinBitLen * 2
	// ModulusMaxBitLen is the largest allowed modulus bit length.
	ModulusMaxBitLen = FactorMaxBitLen * 2
)

var (
	// ErrInvalidModulusLen is returned when a requested modulus bit length
	// is out of range or not a multiple of 32.
	ErrInvalidModulusLen = errors.New("invalid rsa modulus bit length")
	// ErrInvalidFactors is returned when p and q fail the post-generation
	// sanity checks (p == q, or n is Fermat-factorable).
	ErrInvalidFactors = errors.New("invalid rsa factors")
	// ErrGenerationFailed is returned when a bounded prime search is
	// exhausted.
	ErrGenerationFailed = errors.New("failed to generate a suitable rsa factor within the retry budget")
	// ErrInvalidCiphertext is returned when a ciphertext integer falls
	// outside [0, n-1].
	ErrInvalidCiphertext = errors.New("invalid rsa ciphertext")
	// ErrInvalidSignature is returned when a signature fails to verify.
	ErrInvalidSignature = errors.New("invalid rsa signature")

	big1 = big.NewInt(1)
	big3 = big.NewInt(VerificationExponent)
	big5 = big.NewInt(EncryptionExponent)
)

// Key is an RSA keypair with the fixed signature-verification exponent 3
// and encryption exponent 5. The zero value is not valid; construct via
// GenerateKey.
type Key struct {
	p     *big.Int
	q     *big.Int
	n     *big.Int
	dSig  *big.Int
	dEnc  *big.Int
}

// N returns the public modulus.
func (k *Key) N() *big.Int { return new(big.Int).Set(k.n) }

// GenerateKey derives a new RSA keypair with a modulus of modulusBitLen
// bits, which must be in [ModulusMinBitLen, ModulusMaxBitLen] and a
// multiple of 32.
func GenerateKey(modulusBitLen int) (*Key, error) {
	if modulusBitLen < ModulusMinBitLen || modulusBitLen > ModulusMaxBitLen || modulusBitLen%32 != 0 {
		return nil, ErrInvalidModulusLen
	}

	factorBitLen := modulusBitLen / 2

	p, err := generateFactor(factorBitLen)
	if err != nil {
		return nil, err
	}
	q, err := generateFactor(factorBitLen)
	if err != nil {
		return nil, err
	}
	n := new(big.Int).Mul(p, q)
	for n.BitLen() < modulusBitLen {
		q, err = generateFactor(factorBitLen)
		if err != nil {
			return nil, err
		}
		n = new(big.Int).Mul(p, q)
	}

	if err := validateFactors(p, q, n); err != nil {
		return nil, err
	}

	pMinus1 := new(big.Int).Sub(p, big1)
	qMinus1 := new(big.Int).Sub(q, big1)
	t, err := euclid.Lcm(pMinus1, qMinus1)
	if err != nil {
		return nil, err
	}

	dSig, err := euclid.Inverse(big3, t)
	if err != nil {
		return nil, err
	}
	dEnc, err := euclid.Inverse(big5, t)
	if err != nil {
		return nil, err
	}

	return &Key{p: p, q: q, n: n, dSig: dSig, dEnc: dEnc}, nil
}

// generateFactor returns a prime of factorBitLen bits suitable for use as
// an RSA modulus factor: n-1 must be coprime to both public exponents, so
// 3 and 5 remain units modulo lcm(p-1, q-1).
func generateFactor(factorBitLen int) (*big.Int, error) {
	if factorBitLen < FactorMinBitLen || factorBitLen > FactorMaxBitLen {
		return nil, ErrInvalidModulusLen
	}

	lo := new(big.Int).Lsh(big1, uint(factorBitLen-1))
	hi := new(big.Int).Sub(new(big.Int).Lsh(big1, uint(factorBitLen)), big1)

	maxTries := 100 * factorBitLen
	for i := 0; i < maxTries; i++ {
		n, err := csprng.RandRange(lo, hi)
		if err != nil {
			return nil, err
		}

		if new(big.Int).Mod(n, big3).Cmp(big1) == 0 {
			continue
		}
		if new(big.Int).Mod(n, big5).Cmp(big1) == 0 {
			continue
		}

		prime, err := primes.IsPrime(n)
		if err != nil {
			return nil, err
		}
		if prime {
			return n, nil
		}
	}

	logger.Logger().Warn("rsa factor generation exhausted retry budget", "factorBitLen", factorBitLen)
	return nil, ErrGenerationFailed
}

// validateFactors guards against a degenerate PRNG: p must differ from q,
// and n must not be Fermat-factorable (i.e. p and q must not be
// suspiciously close together).
func validateFactors(p, q, n *big.Int) error {
	if p.Cmp(q) == 0 {
		return ErrInvalidFactors
	}
	_, _, ok := primes.FermatFactor(n)
	if ok {
		return ErrInvalidFactors
	}
	return nil
}

// EncryptRandomKey samples a random r in [0, n-1], derives a symmetric key
// K = H(r), and returns (K, c), where c is the RSA encryption of r under
// public modulus n and the fixed encryption exponent 5. K must be kept
// secret; only c is meant to travel over an insecure channel.
func EncryptRandomKey(n *big.Int, h hasher.Hasher) (key, ciphertext []byte, err error) {
	r, err := csprng.RandRange(big.NewInt(0), n)
	if err != nil {
		return nil, nil, err
	}

	if h == nil {
		h = hasher.NewSHA256()
	}
	h.Update(bigutil.ToBytes(r))
	key = h.Digest()

	c, err := bigutil.FastModExp(r, big5, n)
	if err != nil {
		return nil, nil, err
	}

	return key, bigutil.ToBytes(c), nil
}

// DecryptRandomKey recovers the symmetric key K from ciphertext c, using
// the keypair's private decryption exponent and CRT-accelerated
// exponentiation.
func (k *Key) DecryptRandomKey(ciphertext []byte, h hasher.Hasher) ([]byte, error) {
	c := bigutil.ToInt(ciphertext)
	if c.Sign() < 0 || c.Cmp(k.n) >= 0 {
		return nil, ErrInvalidCiphertext
	}

	r, err := bigutil.FastModExpCRT(c, k.dEnc, k.p, k.q)
	if err != nil {
		return nil, err
	}

	if h == nil {
		h = hasher.NewSHA256()
	}
	h.Update(bigutil.ToBytes(r))
	return h.Digest(), nil
}

// Sign computes the RSA-FDH signature of message m using the keypair's
// private signature exponent and CRT-accelerated exponentiation.
func (k *Key) Sign(m []byte, h hasher.Hasher) (*big.Int, error) {
	s := msgToRSANumber(k.n, m, h)
	return bigutil.FastModExpCRT(s, k.dSig, k.p, k.q)
}

// Verify reports whether signature o is valid for message m under public
// modulus n and the fixed verification exponent 3.
func Verify(n *big.Int, m []byte, o *big.Int, h hasher.Hasher) error {
	s := msgToRSANumber(n, m, h)

	o1, err := bigutil.FastModExp(o, big3, n)
	if err != nil {
		return err
	}

	if o1.Cmp(s) != 0 {
		return ErrInvalidSignature
	}
	return nil
}

// msgToRSANumber maps message m to an integer representative in [0, n-1]
// suitable for RSA-FDH signing, by seeding a SHAKE-256 extendable-output
// function with H(m) and stretching to ceil(bitlen(n)/8) bytes.
//
// This departs from the source algorithm in two ways, both flagged as
// issues by the source's own TODOs: the stretched bytes are reduced
// modulo n, not modulo bitlen(n) (the latter collapses the representative
// into a tiny range and defeats the purpose of full-domain hashing), and
// byte order is unified to big-endian throughout, rather than switching
// to little-endian only for this one stretching step.
func msgToRSANumber(n *big.Int, m []byte, h hasher.Hasher) *big.Int {
	if h == nil {
		h = hasher.NewSHA256()
	}
	h.Update(m)
	seed := h.Digest()

	xof := sha3.NewShake256()
	xof.Write(seed)

	numBytes := (n.BitLen() + 7) / 8
	xb := make([]byte, numBytes)
	xof.Read(xb)

	xi := bigutil.ToInt(xb)
	return new(big.Int).Mod(xi, n)
}
