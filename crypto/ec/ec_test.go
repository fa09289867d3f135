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
package ec

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/dchampion/cryptocore/crypto/curves"
	"github.com/dchampion/cryptocore/crypto/ecpointgrouplaw"
)

func bigInt(i int64) *big.Int {
	return big.NewInt(i)
}

func TestEC(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "EC Suite")
}

var catalogCurves = []*curves.Curve{
	curves.Secp192k1(),
	curves.Secp192r1(),
	curves.Secp224k1(),
	curves.Secp224r1(),
	curves.Secp256k1(),
	curves.Secp256r1(),
	curves.Secp384r1(),
	curves.Secp521r1(),
}

var _ = Describe("GenerateKeypair / SessionKey", func() {
	DescribeTable("two parties derive the same ECDH session key", func(c *curves.Curve) {
		alice, err := GenerateKeypair(c)
		Expect(err).Should(BeNil())
		bob, err := GenerateKeypair(c)
		Expect(err).Should(BeNil())

		kAlice, err := alice.SessionKey(bob.PublicKey(), nil)
		Expect(err).Should(BeNil())
		kBob, err := bob.SessionKey(alice.PublicKey(), nil)
		Expect(err).Should(BeNil())

		Expect(kAlice).Should(Equal(kBob))
		Expect(kAlice).Should(HaveLen(32))
	},
		Entry("secp192k1", curves.Secp192k1()),
		Entry("secp256k1", curves.Secp256k1()),
		Entry("secp256r1", curves.Secp256r1()),
		Entry("secp384r1", curves.Secp384r1()),
		Entry("secp521r1", curves.Secp521r1()),
	)
})

var _ = Describe("Sign / Verify", func() {
	for _, c := range catalogCurves {
		c := c
		It("round-trips a signature on "+c.Name, func() {
			key, err := GenerateKeypair(c)
			Expect(err).Should(BeNil())

			msg := []byte("Sign and encrypt me!")
			r, s, err := key.Sign(msg, nil)
			Expect(err).Should(BeNil())

			err = Verify(c, key.PublicKey(), msg, r, s, nil)
			Expect(err).Should(BeNil())
		})
	}

	It("rejects a tampered message", func() {
		c := curves.Secp256k1()
		key, err := GenerateKeypair(c)
		Expect(err).Should(BeNil())

		r, s, err := key.Sign([]byte("original message"), nil)
		Expect(err).Should(BeNil())

		err = Verify(c, key.PublicKey(), []byte("tampered message"), r, s, nil)
		Expect(err).Should(Equal(ErrInvalidSignature))
	})

	It("rejects a tampered signature component", func() {
		c := curves.Secp256k1()
		key, err := GenerateKeypair(c)
		Expect(err).Should(BeNil())

		msg := []byte("Sign and encrypt me!")
		r, s, err := key.Sign(msg, nil)
		Expect(err).Should(BeNil())

		tamperedS := new(big.Int).Add(s, big.NewInt(1))
		err = Verify(c, key.PublicKey(), msg, r, tamperedS, nil)
		Expect(err).Should(Equal(ErrInvalidSignature))

		tamperedR := new(big.Int).Add(r, big.NewInt(1))
		err = Verify(c, key.PublicKey(), msg, tamperedR, s, nil)
		Expect(err).Should(Equal(ErrInvalidSignature))
	})

	It("rejects a signature verified against the wrong public key", func() {
		c := curves.Secp256k1()
		key, err := GenerateKeypair(c)
		Expect(err).Should(BeNil())
		other, err := GenerateKeypair(c)
		Expect(err).Should(BeNil())

		msg := []byte("Sign and encrypt me!")
		r, s, err := key.Sign(msg, nil)
		Expect(err).Should(BeNil())

		err = Verify(c, other.PublicKey(), msg, r, s, nil)
		Expect(err).Should(Equal(ErrInvalidSignature))
	})
})

var _ = Describe("ValidateCurve", func() {
	It("accepts secp256k1's own parameters round-tripped through ValidateCurve", func() {
		s := curves.Secp256k1()
		c, err := ValidateCurve(s.Name, s.P, s.A, s.B, s.Gx, s.Gy, s.N, s.H)
		Expect(err).Should(BeNil())
		Expect(c.Name).Should(Equal("secp256k1"))
	})

	It("rejects the toy curve C_test1 on the MOV/FR exclusion test", func() {
		_, err := ValidateCurve("C_test1", bigInt(17), bigInt(2), bigInt(2), bigInt(5), bigInt(1), bigInt(19), bigInt(1))
		Expect(err).Should(Equal(ErrInvalidCurve))
	})
})

var _ = Describe("ValidatePublicKey", func() {
	It("rejects the identity element", func() {
		c := curves.Secp256k1()
		identity := ecpointgrouplaw.NewIdentity(c)
		err := ValidatePublicKey(c, identity)
		Expect(err).Should(Equal(ErrInvalidPublicKey))
	})
})
