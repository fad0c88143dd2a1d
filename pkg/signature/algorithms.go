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

package signature

import (
	"crypto"
	// Link the hash implementations the method table refers to so that
	// crypto.Hash.Available() holds for every table entry.
	_ "crypto/sha256"
	_ "crypto/sha512"
	"sort"
)

// Note: this is the signature hash method, which is independent from the
// image data checksum hash method (handled elsewhere in the registry).
var hashMethods = map[string]crypto.Hash{
	"SHA-224": crypto.SHA224,
	"SHA-256": crypto.SHA256,
	"SHA-384": crypto.SHA384,
	"SHA-512": crypto.SHA512,
}

// HashMethod resolves a hash method name to a hash algorithm.
// Unknown names fail with CauseUnsupportedAlgorithm.
func HashMethod(name string) (crypto.Hash, error) {
	h, ok := hashMethods[name]
	if !ok {
		return 0, NewError(CauseUnsupportedAlgorithm, "invalid signature hash method: %s", name)
	}
	return h, nil
}

// HashMethodNames returns the sorted list of recognized hash method names.
func HashMethodNames() []string {
	names := make([]string, 0, len(hashMethods))
	for name := range hashMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MGF1 is the only recognized mask generation function for RSA-PSS.
const MGF1 = "MGF1"

// MaskGen identifies a mask generation function bound to a hash method.
//
// Go's PSS implementation fixes MGF1's hash to the message hash, so the
// resolved MaskGen carries the declared hash method and no further state.
type MaskGen struct {
	Name string
	Hash crypto.Hash
}

var maskGenAlgorithms = map[string]func(crypto.Hash) MaskGen{
	MGF1: func(h crypto.Hash) MaskGen { return MaskGen{Name: MGF1, Hash: h} },
}

// MaskGenAlgorithm resolves a mask generation function name, binding it to
// the given hash method. Unknown names fail with CauseUnsupportedAlgorithm.
func MaskGenAlgorithm(name string, hash crypto.Hash) (MaskGen, error) {
	ctor, ok := maskGenAlgorithms[name]
	if !ok {
		return MaskGen{}, NewError(CauseUnsupportedAlgorithm, "invalid mask_gen_algorithm: %s", name)
	}
	return ctor(hash), nil
}

// FormatX509 is the only recognized certificate format. Key managers always
// encode X.509 certificates in DER.
const FormatX509 = "X.509"

var certificateFormats = map[string]struct{}{
	FormatX509: {},
}

// CertificateFormatSupported reports whether the given certificate format
// tag is recognized.
func CertificateFormatSupported(format string) bool {
	_, ok := certificateFormats[format]
	return ok
}
