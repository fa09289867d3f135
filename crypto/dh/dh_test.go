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
package dh

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dchampion/cryptocore/crypto/primes"
)

func TestDH(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DH Suite")
}

var _ = Describe("GenerateParameters", func() {
	It("rejects a bit length outside {2048, 3072}", func() {
		_, err := GenerateParameters(1024)
		Expect(err).Should(Equal(ErrInvalidParameters))
	})

	It("produces parameters that validate", func() {
		params, err := GenerateParameters(PMinBitLen)
		Expect(err).Should(BeNil())
		Expect(params.P().BitLen()).Should(Equal(PMinBitLen))
		Expect(params.Q().BitLen()).Should(Equal(QBitLen))
		Expect(ValidateParameters(params)).Should(BeNil())
	})
})

var _ = Describe("Key agreement", func() {
	It("lets two parties derive the same session key", func() {
		params, err := GenerateParameters(PMinBitLen)
		Expect(err).Should(BeNil())

		alice, err := GenerateKeypair(params)
		Expect(err).Should(BeNil())
		bob, err := GenerateKeypair(params)
		Expect(err).Should(BeNil())

		kAlice, err := alice.SessionKey(bob.PublicKey(), nil)
		Expect(err).Should(BeNil())
		kBob, err := bob.SessionKey(alice.PublicKey(), nil)
		Expect(err).Should(BeNil())

		Expect(kAlice).Should(Equal(kBob))
		Expect(kAlice).Should(HaveLen(32))
	})

	It("rejects a public key outside the valid range", func() {
		params, err := GenerateParameters(PMinBitLen)
		Expect(err).Should(BeNil())
		_, err = GenerateKeypair(params)
		Expect(err).Should(BeNil())

		err = ValidatePublicKey(big.NewInt(1), params)
		Expect(err).Should(Equal(ErrInvalidKey))
	})
})

var _ = Describe("ValidatePublicKey", func() {
	It("rejects y outside [2, p-1]", func() {
		params, err := GenerateParameters(PMinBitLen)
		Expect(err).Should(BeNil())
		err = ValidatePublicKey(big.NewInt(1), params)
		Expect(err).Should(Equal(ErrInvalidKey))
	})
})

var _ = Describe("ValidateParameters rejects tampered domain parameters", func() {
	var valid *Parameters

	BeforeEach(func() {
		var err error
		valid, err = GenerateParameters(PMinBitLen)
		Expect(err).Should(BeNil())
	})

	It("rejects p not prime", func() {
		// Clearing p's low bit makes it even (and thus composite) without
		// changing its bit length.
		tamperedP := new(big.Int).Set(valid.p)
		tamperedP.SetBit(tamperedP, 0, 0)
		tampered := &Parameters{q: valid.q, p: tamperedP, g: valid.g}
		Expect(ValidateParameters(tampered)).Should(Equal(ErrInvalidParameters))
	})

	It("rejects q not prime", func() {
		tamperedQ := new(big.Int).Set(valid.q)
		tamperedQ.SetBit(tamperedQ, 0, 0)
		tampered := &Parameters{q: tamperedQ, p: valid.p, g: valid.g}
		Expect(ValidateParameters(tampered)).Should(Equal(ErrInvalidParameters))
	})

	It("rejects q not dividing p-1", func() {
		// A second, independently generated 256-bit prime has a negligible
		// chance of dividing valid.p-1, which has a specific 256-bit prime
		// factor already.
		otherQ, err := primes.GeneratePrime(QBitLen)
		Expect(err).Should(BeNil())
		Expect(otherQ.Cmp(valid.q)).ShouldNot(Equal(0))
		tampered := &Parameters{q: otherQ, p: valid.p, g: valid.g}
		Expect(ValidateParameters(tampered)).Should(Equal(ErrInvalidParameters))
	})

	It("rejects g = 1", func() {
		tampered := &Parameters{q: valid.q, p: valid.p, g: big.NewInt(1)}
		Expect(ValidateParameters(tampered)).Should(Equal(ErrInvalidParameters))
	})

	It("rejects g^q != 1 mod p", func() {
		// An arbitrary small g is vanishingly unlikely to generate the
		// order-q subgroup by chance.
		tampered := &Parameters{q: valid.q, p: valid.p, g: big.NewInt(4)}
		Expect(ValidateParameters(tampered)).Should(Equal(ErrInvalidParameters))
	})

	It("rejects p of the wrong bit length", func() {
		tamperedP := new(big.Int).Rsh(valid.p, 1)
		tampered := &Parameters{q: valid.q, p: tamperedP, g: valid.g}
		Expect(ValidateParameters(tampered)).Should(Equal(ErrInvalidParameters))
	})

	It("rejects q of the wrong bit length", func() {
		tamperedQ := new(big.Int).Rsh(valid.q, 1)
		tampered := &Parameters{q: tamperedQ, p: valid.p, g: valid.g}
		Expect(ValidateParameters(tampered)).Should(Equal(ErrInvalidParameters))
	})
})
