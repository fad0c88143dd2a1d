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

// Package metadata defines the image property keys the signature
// verification subsystem reads and the accessors for them. Image properties
// are owned by the registry; this package treats them as read-only.
package metadata

import (
	"encoding/base64"

	"github.com/blkart/glance/pkg/signature"
)

// Required image property names for the current verification scheme.
const (
	// PropSignature holds the base64-encoded signature bytes.
	PropSignature = "img_signature"
	// PropHashMethod names the signature hash method.
	PropHashMethod = "img_signature_hash_method"
	// PropKeyType names the signature key type.
	PropKeyType = "img_signature_key_type"
	// PropCertificateUUID references the signing certificate in the
	// key manager.
	PropCertificateUUID = "img_signature_certificate_uuid"
)

// Optional image property names, read only for RSA-PSS signatures.
const (
	// PropMaskGenAlgorithm optionally names the mask generation function.
	PropMaskGenAlgorithm = "mask_gen_algorithm"
	// PropPSSSaltLength optionally sets the PSS salt length, as a decimal
	// integer string.
	PropPSSSaltLength = "pss_salt_length"
)

// Property names of the deprecated sign-the-hash scheme.
//
// Deprecated: retained only for the legacy verification path; scheduled
// for removal together with the sign-the-hash verification entry point.
const (
	LegacyPropSignature       = "signature"
	LegacyPropHashMethod      = "signature_hash_method"
	LegacyPropKeyType         = "signature_key_type"
	LegacyPropCertificateUUID = "signature_certificate_uuid"
)

// Properties is the read-only key-value metadata attached to an image.
type Properties map[string]string

// ShouldCreateVerifier reports whether the properties carry the full set of
// current-scheme signature metadata, i.e. whether signature verification
// should be attempted at all.
func ShouldCreateVerifier(props Properties) bool {
	if props == nil {
		return false
	}
	_, hasCert := props[PropCertificateUUID]
	_, hasHash := props[PropHashMethod]
	_, hasSig := props[PropSignature]
	_, hasKeyType := props[PropKeyType]
	return hasCert && hasHash && hasSig && hasKeyType
}

// ShouldVerifySignature reports whether the properties carry the full set of
// legacy-scheme signature metadata.
//
// Deprecated: only the legacy verification path consults this.
func ShouldVerifySignature(props Properties) bool {
	if props == nil {
		return false
	}
	_, hasCert := props[LegacyPropCertificateUUID]
	_, hasHash := props[LegacyPropHashMethod]
	_, hasSig := props[LegacyPropSignature]
	_, hasKeyType := props[LegacyPropKeyType]
	return hasCert && hasHash && hasSig && hasKeyType
}

// DecodeSignature decodes the base64 signature property value into the raw
// signature bytes. Malformed encodings fail with CauseInvalidEncoding.
func DecodeSignature(data string) ([]byte, error) {
	sig, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, signature.WrapError(signature.CauseInvalidEncoding, err,
			"the signature data was not properly encoded using base64")
	}
	return sig, nil
}
