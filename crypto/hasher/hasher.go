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

// Package hasher defines the injectable hash capability consumed by dh, ec
// and rsa for session-key derivation and signature hashing, and provides
// the default SHA-256 and Blake2b-256 implementations of it.
package hasher

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Hasher is a statically-typed replacement for an ad hoc "object exposing
// update/digest methods": any algorithm satisfying it can be injected into
// the dh, ec and rsa packages in place of the defaults.
type Hasher interface {
	// Update appends data to the running hash state.
	Update(data []byte)
	// Digest returns the hash of all data passed to Update so far. It does
	// not reset the running state.
	Digest() []byte
}

type stdHasher struct {
	h hash.Hash
}

func (s *stdHasher) Update(data []byte) {
	s.h.Write(data)
}

func (s *stdHasher) Digest() []byte {
	return s.h.Sum(nil)
}

// NewSHA256 returns a Hasher backed by crypto/sha256, the default hash used
// by the dh and ec packages.
func NewSHA256() Hasher {
	return &stdHasher{h: sha256.New()}
}

// NewBlake2b256 returns a Hasher backed by golang.org/x/crypto/blake2b, an
// alternate fast hash already part of this module's dependency graph.
func NewBlake2b256() Hasher {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors for a non-empty key of invalid length;
		// we never pass one.
		panic(err)
	}
	return &stdHasher{h: h}
}
