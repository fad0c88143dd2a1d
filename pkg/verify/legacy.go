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

// The deprecated sign-the-hash verification path. Kept as a separate entry
// point so its removal is a clean deletion.

package verify

import (
	"context"

	"github.com/blkart/glance/pkg/metadata"
)

var legacyScheme = propertyScheme{
	signature:       metadata.LegacyPropSignature,
	hashMethod:      metadata.LegacyPropHashMethod,
	keyType:         metadata.LegacyPropKeyType,
	certificateUUID: metadata.LegacyPropCertificateUUID,
	present:         metadata.ShouldVerifySignature,
}

// VerifySignature verifies the legacy-scheme signature against the image's
// checksum hash. Unlike GetVerifier, it performs the verification itself:
// the caller supplies the checksum out-of-band and gets a pass/fail answer.
// Returns nil on a cryptographically valid match and a *VerificationError
// with CauseSignatureMismatch otherwise.
//
// Deprecated: the sign-the-hash approach, using the image checksum and
// signature metadata properties that do not start with "img", will be
// removed. New integrations must sign the image data directly and use
// Builder.GetVerifier.
func (b *Builder) VerifySignature(ctx context.Context, checksumHash string, props metadata.Properties) error {
	verifier, err := b.buildVerifier(ctx, props, legacyScheme)
	if err != nil {
		return err
	}

	if _, err := verifier.Write([]byte(checksumHash)); err != nil {
		return err
	}
	return verifier.Verify()
}
