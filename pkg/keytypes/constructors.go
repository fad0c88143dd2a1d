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
	"strconv"

	"github.com/blkart/glance/pkg/metadata"
	"github.com/blkart/glance/pkg/signature"
)

// newPSSVerifier builds the verifier for the RSA-PSS key type. It reads the
// optional mask generation function name (default: MGF1 over the declared
// hash method) and the optional salt length (default: accept the maximum
// length the padding scheme allows).
func newPSSVerifier(sig []byte, hashMethod crypto.Hash, publicKey crypto.PublicKey, props metadata.Properties) (signature.Verifier, error) {
	key, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, signature.NewError(signature.CauseKeyTypeMismatch,
			"invalid public key type for signature key type: %s", KeyTypeRSAPSS)
	}

	// The MGF table binds the function to the declared hash method, which
	// is also what the PSS verification in the backend assumes.
	if name, declared := props[metadata.PropMaskGenAlgorithm]; declared {
		if _, err := signature.MaskGenAlgorithm(name, hashMethod); err != nil {
			return nil, err
		}
	}

	saltLength := rsa.PSSSaltLengthAuto
	if value, declared := props[metadata.PropPSSSaltLength]; declared {
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, signature.WrapError(signature.CauseInvalidParameter, err,
				"invalid pss_salt_length: %s", value)
		}
		saltLength = n
	}

	return signature.NewPSSVerifier(sig, hashMethod, key, saltLength)
}

// newDSAVerifier builds the verifier for the DSA key type. DSA has no
// optional parameters; the verifier is bound directly to the signature,
// hash method, and key.
func newDSAVerifier(sig []byte, hashMethod crypto.Hash, publicKey crypto.PublicKey, _ metadata.Properties) (signature.Verifier, error) {
	key, ok := publicKey.(*dsa.PublicKey)
	if !ok {
		return nil, signature.NewError(signature.CauseKeyTypeMismatch,
			"invalid public key type for signature key type: %s", KeyTypeDSA)
	}
	return signature.NewDSAVerifier(sig, hashMethod, key)
}

// newECDSAVerifier builds the verifier for the ECC_* key types. ECDSA has
// no optional parameters.
func newECDSAVerifier(sig []byte, hashMethod crypto.Hash, publicKey crypto.PublicKey, _ metadata.Properties) (signature.Verifier, error) {
	key, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, signature.NewError(signature.CauseKeyTypeMismatch,
			"invalid public key type for an elliptic curve signature key type")
	}
	return signature.NewECDSAVerifier(sig, hashMethod, key)
}
