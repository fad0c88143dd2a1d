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

// Package keytypes maintains the registry of supported signature key types.
//
// Each registered key type binds a name (e.g. "RSA-PSS", "DSA",
// "ECC_SECP384R1") to the public key capability it expects and to a
// constructor that builds the type-specific verifier. The registry is
// populated once at initialization and is read-only afterwards; concurrent
// lookups need no further coordination as long as nothing re-registers
// entries after startup.
package keytypes

import (
	"crypto"
	"sort"
	"sync"

	"github.com/blkart/glance/pkg/metadata"
	"github.com/blkart/glance/pkg/signature"
)

// Key type names registered for every backend.
const (
	// KeyTypeRSAPSS is the RSA-PSS signature key type.
	KeyTypeRSAPSS = "RSA-PSS"
	// KeyTypeDSA is the DSA signature key type.
	KeyTypeDSA = "DSA"
	// ECCKeyTypePrefix prefixes the backend-dependent elliptic curve key
	// types (e.g. "ECC_SECP384R1").
	ECCKeyTypePrefix = "ECC_"
)

// VerifierConstructor builds a verifier for one signature key type family.
// The full property map is passed through so constructors can read
// type-specific optional parameters (RSA-PSS reads the mask generation
// function name and the salt length).
type VerifierConstructor func(sig []byte, hashMethod crypto.Hash, publicKey crypto.PublicKey, props metadata.Properties) (signature.Verifier, error)

// KeyType describes a registered signature key type. Immutable once
// registered; identity is the Name.
type KeyType struct {
	// Name is the key-type name as it appears in image metadata.
	Name string
	// PublicKeyType is the public key capability this key type expects.
	PublicKeyType PublicKeyType
	// NewVerifier constructs the type-specific verifier.
	NewVerifier VerifierConstructor
}

// Registry is an initialize-once, read-only-thereafter table of signature
// key types.
type Registry struct {
	mu    sync.RWMutex
	types map[string]KeyType
}

// NewRegistry creates a registry populated with the RSA-PSS and DSA key
// types plus an ECC_* key type for every candidate curve the backend
// supports. A nil backend selects the Go standard library.
func NewRegistry(backend CurveBackend) *Registry {
	if backend == nil {
		backend = StdCurveBackend{}
	}

	r := &Registry{types: make(map[string]KeyType)}
	r.Register(KeyType{
		Name:          KeyTypeRSAPSS,
		PublicKeyType: PublicKeyRSA,
		NewVerifier:   newPSSVerifier,
	})
	r.Register(KeyType{
		Name:          KeyTypeDSA,
		PublicKeyType: PublicKeyDSA,
		NewVerifier:   newDSAVerifier,
	})

	// Curves the backend does not implement are silently skipped.
	for _, curve := range CandidateCurves {
		if !backend.EllipticCurveSupported(curve) {
			continue
		}
		r.Register(KeyType{
			Name:          ECCKeyTypePrefix + curve,
			PublicKeyType: PublicKeyEC,
			NewVerifier:   newECDSAVerifier,
		})
	}
	return r
}

// Register inserts the descriptor for its name. Registering a name twice
// silently overwrites the previous entry (last write wins). Call only
// during initialization or from a single-threaded setup phase; the rest of
// the subsystem assumes the table is read-only once lookups begin.
func (r *Registry) Register(kt KeyType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[kt.Name] = kt
}

// Lookup resolves a key-type name. Unregistered names fail with
// CauseUnknownKeyType.
func (r *Registry) Lookup(name string) (KeyType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kt, ok := r.types[name]
	if !ok {
		return KeyType{}, signature.NewError(signature.CauseUnknownKeyType,
			"invalid signature key type: %s", name)
	}
	return kt, nil
}

// RegisteredNames returns the sorted list of registered key-type names.
// The ECC_* subset is backend-dependent, so callers must query rather than
// assume it.
func (r *Registry) RegisteredNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, populating it on first use
// with the standard library curve backend.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(StdCurveBackend{})
	})
	return defaultRegistry
}
