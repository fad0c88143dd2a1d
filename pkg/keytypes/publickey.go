// Copyright 2025 The Glance Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keytypes

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // DSA is a registered key type; verification only.
	"crypto/ecdsa"
	"crypto/rsa"
)

// PublicKeyType identifies the concrete public key capability a signature
// key type expects. A verifier is never constructed from a key whose
// concrete type does not match the declared key type's expectation; this
// is what prevents, for example, presenting an EC key under the DSA name.
type PublicKeyType int

const (
	// PublicKeyRSA expects *rsa.PublicKey.
	PublicKeyRSA PublicKeyType = iota
	// PublicKeyDSA expects *dsa.PublicKey.
	PublicKeyDSA
	// PublicKeyEC expects *ecdsa.PublicKey.
	PublicKeyEC
)

// String returns a human-readable name for the key capability.
func (t PublicKeyType) String() string {
	switch t {
	case PublicKeyRSA:
		return "RSA"
	case PublicKeyDSA:
		return "DSA"
	case PublicKeyEC:
		return "ECDSA"
	default:
		return "unknown"
	}
}

// Matches reports whether the concrete type of key satisfies this capability.
func (t PublicKeyType) Matches(key crypto.PublicKey) bool {
	switch key.(type) {
	case *rsa.PublicKey:
		return t == PublicKeyRSA
	case *dsa.PublicKey:
		return t == PublicKeyDSA
	case *ecdsa.PublicKey:
		return t == PublicKeyEC
	default:
		return false
	}
}
