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

package metadata

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/blkart/glance/pkg/signature"
)

func fullProps() Properties {
	return Properties{
		PropSignature:       "c2lnbmF0dXJl",
		PropHashMethod:      "SHA-256",
		PropKeyType:         "RSA-PSS",
		PropCertificateUUID: "cert-1",
	}
}

func TestShouldCreateVerifier(t *testing.T) {
	if !ShouldCreateVerifier(fullProps()) {
		t.Error("ShouldCreateVerifier(full set) = false, want true")
	}
	if ShouldCreateVerifier(nil) {
		t.Error("ShouldCreateVerifier(nil) = true, want false")
	}
	for _, key := range []string{PropSignature, PropHashMethod, PropKeyType, PropCertificateUUID} {
		props := fullProps()
		delete(props, key)
		if ShouldCreateVerifier(props) {
			t.Errorf("ShouldCreateVerifier without %q = true, want false", key)
		}
	}
}

func TestShouldVerifySignature(t *testing.T) {
	props := Properties{
		LegacyPropSignature:       "c2ln",
		LegacyPropHashMethod:      "SHA-256",
		LegacyPropKeyType:         "RSA-PSS",
		LegacyPropCertificateUUID: "cert-1",
	}
	if !ShouldVerifySignature(props) {
		t.Error("ShouldVerifySignature(full legacy set) = false, want true")
	}
	// Current-scheme properties must not satisfy the legacy check.
	if ShouldVerifySignature(fullProps()) {
		t.Error("ShouldVerifySignature(current-scheme set) = true, want false")
	}
	delete(props, LegacyPropKeyType)
	if ShouldVerifySignature(props) {
		t.Error("ShouldVerifySignature without key type = true, want false")
	}
}

func TestDecodeSignature(t *testing.T) {
	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	got, err := DecodeSignature(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("DecodeSignature returned error: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("DecodeSignature = %x, want %x", got, raw)
	}
}

func TestDecodeSignatureInvalid(t *testing.T) {
	_, err := DecodeSignature("not-valid-base64!!")
	if !signature.IsCause(err, signature.CauseInvalidEncoding) {
		t.Errorf("DecodeSignature error = %v, want CauseInvalidEncoding", err)
	}
}
