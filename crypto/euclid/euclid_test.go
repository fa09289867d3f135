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
package euclid

import (
	"math/big"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func TestEuclid(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Euclid Suite")
}

func big_(i int64) *big.Int {
	return big.NewInt(i)
}

var _ = Describe("Gcd", func() {
	DescribeTable("Gcd()", func(a, b, want int64) {
		Expect(Gcd(big_(a), big_(b))).Should(Equal(big_(want)))
	},
		Entry("gcd(7, 60)", int64(7), int64(60), int64(1)),
		Entry("gcd(48, 18)", int64(48), int64(18), int64(6)),
		Entry("gcd(0, 5)", int64(0), int64(5), int64(5)),
		Entry("gcd(5, 0)", int64(5), int64(0), int64(5)),
	)
})

var _ = Describe("GcdX", func() {
	It("satisfies Bezout's identity for 7, 60", func() {
		bz := GcdX(big_(7), big_(60))
		Expect(bz.G).Should(Equal(big_(1)))
		Expect(bz.X).Should(Equal(big_(-17)))
		Expect(bz.Y).Should(Equal(big_(2)))
	})

	DescribeTable("a*x + b*y = gcd(a,b)", func(a, b int64) {
		bz := GcdX(big_(a), big_(b))
		lhs := new(big.Int).Add(
			new(big.Int).Mul(big_(a), bz.X),
			new(big.Int).Mul(big_(b), bz.Y),
		)
		Expect(lhs).Should(Equal(bz.G))
	},
		Entry("7, 60", int64(7), int64(60)),
		Entry("1071, 462", int64(1071), int64(462)),
		Entry("240, 46", int64(240), int64(46)),
	)
})

var _ = Describe("Lcm", func() {
	It("computes lcm(4, 6) = 12", func() {
		got, err := Lcm(big_(4), big_(6))
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(big_(12)))
	})

	It("rejects non-positive inputs", func() {
		_, err := Lcm(big_(0), big_(6))
		Expect(err).Should(Equal(ErrInvalidInput))
	})
})

var _ = Describe("Inverse", func() {
	It("computes inverse(7, 60) = 43", func() {
		got, err := Inverse(big_(7), big_(60))
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(big_(43)))
	})

	It("computes inverse(60, 7) = 2", func() {
		got, err := Inverse(big_(60), big_(7))
		Expect(err).Should(BeNil())
		Expect(got).Should(Equal(big_(2)))
	})

	It("returns ErrNoInverse when gcd != 1", func() {
		_, err := Inverse(big_(6), big_(9))
		Expect(err).Should(Equal(ErrNoInverse))
	})

	DescribeTable("round-trips with fast_mod_exp style check", func(a, n int64) {
		inv, err := Inverse(big_(a), big_(n))
		Expect(err).Should(BeNil())
		prod := new(big.Int).Mod(new(big.Int).Mul(big_(a), inv), big_(n))
		Expect(prod).Should(Equal(big_(1)))
	},
		Entry("3 mod 11", int64(3), int64(11)),
		Entry("17 mod 3120", int64(17), int64(3120)),
	)
})
