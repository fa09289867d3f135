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
package bigutil

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestBigutil(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bigutil Suite")
}

func big_(i int64) *big.Int {
	return big.NewInt(i)
}

var _ = Describe("FastModExp", func() {
	It("computes 2^10 mod 1000 = 24", func() {
		got, err := FastModExp(big_(2), big_(10), big_(1000))
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(big_(24)))
	})

	It("rejects a modulus < 1", func() {
		_, err := FastModExp(big_(2), big_(10), big_(0))
		Expect(err).Should(Equal(ErrInvalidInput))
	})
})

var _ = Describe("FastModExpCRT", func() {
	It("computes 2^10 mod (101*103) = 1024", func() {
		got, err := FastModExpCRT(big_(2), big_(10), big_(101), big_(103))
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(big_(1024)))
	})

	DescribeTable("matches FastModExp over the composite modulus", func(a, e, p, q int64) {
		want, err := FastModExp(big_(a), big_(e), new(big.Int).Mul(big_(p), big_(q)))
		Expect(err).Should(BeNil())
		got, err := FastModExpCRT(big_(a), big_(e), big_(p), big_(q))
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(want))
	},
		Entry("2^10 mod 101*103", int64(2), int64(10), int64(101), int64(103)),
		Entry("7^19 mod 11*13", int64(7), int64(19), int64(11), int64(13)),
	)
})

var _ = Describe("CRT round trip", func() {
	DescribeTable("from_crt(to_crt(x,p,q),p,q) == x", func(x, p, q int64) {
		a, b, err := ToCRT(big_(x), big_(p), big_(q))
		Expect(err).Should(BeNil())
		got, err := FromCRT(a, b, big_(p), big_(q))
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(big_(x)))
	},
		Entry("x=5 mod (7,11)", int64(5), int64(7), int64(11)),
		Entry("x=54 mod (7,11)", int64(54), int64(7), int64(11)),
		Entry("x=0 mod (101,103)", int64(0), int64(101), int64(103)),
	)
})

var _ = Describe("ToBytes/ToInt", func() {
	DescribeTable("round trips through big-endian bytes", func(i int64) {
		n := big_(i)
		Expect(ToInt(ToBytes(n))).Should(Equal(n))
	},
		Entry("0", int64(0)),
		Entry("255", int64(255)),
		Entry("256", int64(256)),
		Entry("123456789", int64(123456789)),
	)
})
