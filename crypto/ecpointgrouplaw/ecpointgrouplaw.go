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

package ecpointgrouplaw

import (
	"errors"
	"math/big"

	"github.com/dchampion/cryptocore/crypto/curves"
)

var (
	// ErrDifferentLength is returned if the two slices have different lengths.
	ErrDifferentLength = errors.New("different lengths of slices")
	// ErrEmptySlice is returned if the length of a slice is zero.
	ErrEmptySlice = errors.New("the length of slice is zero")
)

// ScalarBaseMult multiplies curve's base point by k.
func ScalarBaseMult(curve *curves.Curve, k *big.Int) *ECPoint {
	return NewBase(curve).ScalarMult(k)
}

// ComputeLinearCombinationPoint returns the linear combination of points,
// each multiplied by its corresponding scalar. Given [a1,a2,a3] and
// [G1,G2,G3], the result is a1*G1 + a2*G2 + a3*G3.
func ComputeLinearCombinationPoint(scalars []*big.Int, points []*ECPoint) (*ECPoint, error) {
	if len(scalars) == 0 {
		return nil, ErrEmptySlice
	}
	if len(scalars) != len(points) {
		return nil, ErrDifferentLength
	}

	var err error
	result := NewIdentity(points[0].curve)
	for i := range scalars {
		result, err = result.Add(points[i].ScalarMult(scalars[i]))
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
