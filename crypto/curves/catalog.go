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

// Catalog of SECG recommended elliptic curve domain parameters, from
// https://www.secg.org/sec2-v2.pdf. Each entry's p is computed from the
// generating formula in SEC2 rather than transcribed as a literal, as a
// cross-check against transcription error in the remaining hex constants.
package curves

import "math/big"

func hex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: malformed hex constant " + s)
	}
	return n
}

func pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big1, n)
}

// Secp192k1 returns the SEC2 §2.2.1 curve domain parameters.
func Secp192k1() *Curve {
	p := new(big.Int).Sub(pow2(192), pow2(32))
	p.Sub(p, pow2(12))
	p.Sub(p, pow2(8))
	p.Sub(p, pow2(7))
	p.Sub(p, pow2(6))
	p.Sub(p, pow2(3))
	p.Sub(p, big1)

	return &Curve{
		Name: "secp192k1",
		P:    p,
		A:    big.NewInt(0),
		B:    big.NewInt(3),
		Gx:   hex("DB4FF10EC057E9AE26B07D0280B7F4341DA5D1B1EAE06C7D"),
		Gy:   hex("9B2F2F6D9C5628A7844163D015BE86344082AA88D95E2F9D"),
		N:    hex("FFFFFFFFFFFFFFFFFFFFFFFE26F2FC170F69466A74DEFD8D"),
		H:    big.NewInt(1),
	}
}

// Secp192r1 returns the SEC2 §2.2.2 curve domain parameters.
func Secp192r1() *Curve {
	p := new(big.Int).Sub(pow2(192), pow2(64))
	p.Sub(p, big1)

	return &Curve{
		Name: "secp192r1",
		P:    p,
		A:    hex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFC"),
		B:    hex("64210519E59C80E70FA7E9AB72243049FEB8DEECC146B9B1"),
		Gx:   hex("188DA80EB03090F67CBF20EB43A18800F4FF0AFD82FF1012"),
		Gy:   hex("07192B95FFC8DA78631011ED6B24CDD573F977A11E794811"),
		N:    hex("FFFFFFFFFFFFFFFFFFFFFFFF99DEF836146BC9B1B4D22831"),
		H:    big.NewInt(1),
	}
}

// Secp224k1 returns the SEC2 §2.3.1 curve domain parameters.
func Secp224k1() *Curve {
	p := new(big.Int).Sub(pow2(224), pow2(32))
	p.Sub(p, pow2(12))
	p.Sub(p, pow2(11))
	p.Sub(p, pow2(9))
	p.Sub(p, pow2(7))
	p.Sub(p, pow2(4))
	p.Sub(p, big.NewInt(2))
	p.Sub(p, big1)

	return &Curve{
		Name: "secp224k1",
		P:    p,
		A:    big.NewInt(0),
		B:    big.NewInt(5),
		Gx:   hex("A1455B334DF099DF30FC28A169A467E9E47075A90F7E650EB6B7A45C"),
		Gy:   hex("7E089FED7FBA344282CAFBD6F7E319F7C0B0BD59E2CA4BDB556D61A5"),
		N:    hex("10000000000000000000000000001DCE8D2EC6184CAF0A971769FB1F7"),
		H:    big.NewInt(1),
	}
}

// Secp224r1 returns the SEC2 §2.3.2 curve domain parameters.
func Secp224r1() *Curve {
	p := new(big.Int).Sub(pow2(224), pow2(96))
	p.Add(p, big1)

	return &Curve{
		Name: "secp224r1",
		P:    p,
		A:    hex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFE"),
		B:    hex("B4050A850C04B3ABF54132565044B0B7D7BFD8BA270B39432355FFB4"),
		Gx:   hex("B70E0CBD6BB4BF7F321390B94A03C1D356C21122343280D6115C1D21"),
		Gy:   hex("BD376388B5F723FB4C22DFE6CD4375A05A07476444D5819985007E34"),
		N:    hex("FFFFFFFFFFFFFFFFFFFFFFFFFFFF16A2E0B8F03E13DD29455C5C2A3D"),
		H:    big.NewInt(1),
	}
}

// Secp256k1 returns the SEC2 §2.4.1 curve domain parameters (the Bitcoin
// curve).
func Secp256k1() *Curve {
	p := new(big.Int).Sub(pow2(256), pow2(32))
	p.Sub(p, big.NewInt(977))

	return &Curve{
		Name: "secp256k1",
		P:    p,
		A:    big.NewInt(0),
		B:    big.NewInt(7),
		Gx:   hex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"),
		Gy:   hex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"),
		N:    hex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"),
		H:    big.NewInt(1),
	}
}

// Secp256r1 returns the SEC2 §2.4.2 curve domain parameters (NIST P-256).
func Secp256r1() *Curve {
	p := new(big.Int).Mul(pow2(224), new(big.Int).Sub(pow2(32), big1))
	p.Add(p, pow2(192))
	p.Add(p, pow2(96))
	p.Sub(p, big1)

	return &Curve{
		Name: "secp256r1",
		P:    p,
		A:    hex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFC"),
		B:    hex("5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B"),
		Gx:   hex("6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296"),
		Gy:   hex("4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5"),
		N:    hex("FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551"),
		H:    big.NewInt(1),
	}
}

// Secp384r1 returns the SEC2 §2.5.1 curve domain parameters (NIST P-384).
func Secp384r1() *Curve {
	p := new(big.Int).Sub(pow2(384), pow2(128))
	p.Sub(p, pow2(96))
	p.Add(p, pow2(32))
	p.Sub(p, big1)

	return &Curve{
		Name: "secp384r1",
		P:    p,
		A:    hex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFC"),
		B:    hex("B3312FA7E23EE7E4988E056BE3F82D19181D9C6EFE8141120314088F5013875AC656398D8A2ED19D2A85C8EDD3EC2AEF"),
		Gx:   hex("AA87CA22BE8B05378EB1C71EF320AD746E1D3B628BA79B9859F741E082542A385502F25DBF55296C3A545E3872760AB7"),
		Gy:   hex("3617DE4A96262C6F5D9E98BF9292DC29F8F41DBD289A147CE9DA3113B5F0B8C00A60B1CE1D7E819D7A431D7C90EA0E5F"),
		N:    hex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC7634D81F4372DDF581A0DB248B0A77AECEC196ACCC52973"),
		H:    big.NewInt(1),
	}
}

// Secp521r1 returns the SEC2 §2.6.1 curve domain parameters (NIST P-521).
func Secp521r1() *Curve {
	p := new(big.Int).Sub(pow2(521), big1)

	return &Curve{
		Name: "secp521r1",
		P:    p,
		A:    hex("1FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC"),
		B:    hex("51953EB9618E1C9A1F929A21A0B68540EEA2DA725B99B315F3B8B489918EF109E156193951EC7E937B1652C0BD3BB1BF073573DF883D2C34F1EF451FD46B503F00"),
		Gx:   hex("C6858E06B70404E9CD9E3ECB662395B4429C648139053FB521F828AF606B4D3DBAA14B5E77EFE75928FE1DC127A2FFA8DE3348B3C1856A429BF97E7E31C2E5BD66"),
		Gy:   hex("11839296A789A3BC0045C8A5FB42C7D1BD998F54449579B446817AFBD17273E662C97EE72995EF42640C550B9013FAD0761353C7086A272C24088BE94769FD16650"),
		N:    hex("1FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFA51868783BF2F966B7FCC0148F709A5D03BB5C9B8899C47AEBB6FB71E91386409"),
		H:    big.NewInt(1),
	}
}

// ByName returns the catalog entry matching name, or nil if unknown.
func ByName(name string) *Curve {
	switch name {
	case "secp192k1":
		return Secp192k1()
	case "secp192r1":
		return Secp192r1()
	case "secp224k1":
		return Secp224k1()
	case "secp224r1":
		return Secp224r1()
	case "secp256k1":
		return Secp256k1()
	case "secp256r1":
		return Secp256r1()
	case "secp384r1":
		return Secp384r1()
	case "secp521r1":
		return Secp521r1()
	default:
		return nil
	}
}
