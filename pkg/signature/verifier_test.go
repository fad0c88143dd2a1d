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
	"crypto/dsa" //nolint:staticcheck
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/asn1"
	"math/big"
	"testing"
)

// signPSS signs content with RSA-PSS over SHA-256.
func signPSS(t *testing.T, key *rsa.PrivateKey, content []byte, saltLength int) []byte {
	t.Helper()
	digest := sha256.Sum256(content)
	sig, err := rsa.SignPSS(rand.Reader, key, crypto.SHA256, digest[:],
		&rsa.PSSOptions{SaltLength: saltLength, Hash: crypto.SHA256})
	if err != nil {
		t.Fatalf("Failed to sign content: %v", err)
	}
	return sig
}

func TestPSSVerifierRoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	content := []byte("registry image content")
	sig := signPSS(t, key, content, rsa.PSSSaltLengthAuto)

	verifier, err := NewPSSVerifier(sig, crypto.SHA256, &key.PublicKey, rsa.PSSSaltLengthAuto)
	if err != nil {
		t.Fatalf("NewPSSVerifier returned error: %v", err)
	}
	if _, err := verifier.Write(content); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := verifier.Verify(); err != nil {
		t.Errorf("Verify() = %v, want nil for matching content", err)
	}
}

func TestPSSVerifierAlteredContent(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	content := []byte("registry image content")
	sig := signPSS(t, key, content, rsa.PSSSaltLengthAuto)

	altered := append([]byte{}, content...)
	altered[0] ^= 0x01

	verifier, err := NewPSSVerifier(sig, crypto.SHA256, &key.PublicKey, rsa.PSSSaltLengthAuto)
	if err != nil {
		t.Fatalf("NewPSSVerifier returned error: %v", err)
	}
	if _, err := verifier.Write(altered); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if err := verifier.Verify(); !IsCause(err, CauseSignatureMismatch) {
		t.Errorf("Verify() = %v, want CauseSignatureMismatch for altered content", err)
	}
}

func TestPSSVerifierExplicitSaltLength(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	content := []byte("salted content")
	sig := signPSS(t, key, content, 64)

	// Matching explicit salt length verifies.
	verifier, err := NewPSSVerifier(sig, crypto.SHA256, &key.PublicKey, 64)
	if err != nil {
		t.Fatalf("NewPSSVerifier returned error: %v", err)
	}
	_, _ = verifier.Write(content)
	if err := verifier.Verify(); err != nil {
		t.Errorf("Verify() with matching salt length = %v, want nil", err)
	}

	// A different expected salt length is a mismatch.
	verifier, err = NewPSSVerifier(sig, crypto.SHA256, &key.PublicKey, 32)
	if err != nil {
		t.Fatalf("NewPSSVerifier returned error: %v", err)
	}
	_, _ = verifier.Write(content)
	if err := verifier.Verify(); !IsCause(err, CauseSignatureMismatch) {
		t.Errorf("Verify() with wrong salt length = %v, want CauseSignatureMismatch", err)
	}
}

func TestPSSVerifierStreamedWrites(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	content := []byte("streamed in several chunks")
	sig := signPSS(t, key, content, rsa.PSSSaltLengthAuto)

	verifier, err := NewPSSVerifier(sig, crypto.SHA256, &key.PublicKey, rsa.PSSSaltLengthAuto)
	if err != nil {
		t.Fatalf("NewPSSVerifier returned error: %v", err)
	}
	for _, chunk := range [][]byte{content[:3], content[3:10], content[10:]} {
		if _, err := verifier.Write(chunk); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
	}
	if err := verifier.Verify(); err != nil {
		t.Errorf("Verify() after chunked writes = %v, want nil", err)
	}
}

func TestVerifierSingleUse(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	content := []byte("one shot")
	sig := signPSS(t, key, content, rsa.PSSSaltLengthAuto)

	verifier, err := NewPSSVerifier(sig, crypto.SHA256, &key.PublicKey, rsa.PSSSaltLengthAuto)
	if err != nil {
		t.Fatalf("NewPSSVerifier returned error: %v", err)
	}
	_, _ = verifier.Write(content)
	if err := verifier.Verify(); err != nil {
		t.Fatalf("First Verify() = %v, want nil", err)
	}
	if err := verifier.Verify(); err == nil {
		t.Error("Second Verify() should fail, verifier is single-use")
	}
	if _, err := verifier.Write(content); err == nil {
		t.Error("Write after Verify should fail")
	}
}

func TestECDSAVerifierRoundTrip(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate ECDSA key: %v", err)
	}
	content := []byte("elliptic content")
	digest := sha512.Sum384(content)
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		t.Fatalf("Failed to sign content: %v", err)
	}

	verifier, err := NewECDSAVerifier(sig, crypto.SHA384, &key.PublicKey)
	if err != nil {
		t.Fatalf("NewECDSAVerifier returned error: %v", err)
	}
	_, _ = verifier.Write(content)
	if err := verifier.Verify(); err != nil {
		t.Errorf("Verify() = %v, want nil for matching content", err)
	}

	verifier, err = NewECDSAVerifier(sig, crypto.SHA384, &key.PublicKey)
	if err != nil {
		t.Fatalf("NewECDSAVerifier returned error: %v", err)
	}
	_, _ = verifier.Write([]byte("elliptic CONTENT"))
	if err := verifier.Verify(); !IsCause(err, CauseSignatureMismatch) {
		t.Errorf("Verify() = %v, want CauseSignatureMismatch for altered content", err)
	}
}

// generateDSAKey produces a small DSA key pair; parameter sizes are kept
// minimal to keep the test fast.
func generateDSAKey(t *testing.T) *dsa.PrivateKey {
	t.Helper()
	var params dsa.Parameters
	if err := dsa.GenerateParameters(&params, rand.Reader, dsa.L1024N160); err != nil {
		t.Fatalf("Failed to generate DSA parameters: %v", err)
	}
	key := &dsa.PrivateKey{PublicKey: dsa.PublicKey{Parameters: params}}
	if err := dsa.GenerateKey(key, rand.Reader); err != nil {
		t.Fatalf("Failed to generate DSA key: %v", err)
	}
	return key
}

func TestDSAVerifierRoundTrip(t *testing.T) {
	key := generateDSAKey(t)
	content := []byte("dsa signed content")

	digest := sha256.Sum256(content)
	truncated := digest[:(key.Q.BitLen()+7)/8]
	r, s, err := dsa.Sign(rand.Reader, key, truncated)
	if err != nil {
		t.Fatalf("Failed to sign content: %v", err)
	}
	sig, err := asn1.Marshal(struct{ R, S *big.Int }{r, s})
	if err != nil {
		t.Fatalf("Failed to encode signature: %v", err)
	}

	verifier, err := NewDSAVerifier(sig, crypto.SHA256, &key.PublicKey)
	if err != nil {
		t.Fatalf("NewDSAVerifier returned error: %v", err)
	}
	_, _ = verifier.Write(content)
	if err := verifier.Verify(); err != nil {
		t.Errorf("Verify() = %v, want nil for matching content", err)
	}

	verifier, err = NewDSAVerifier(sig, crypto.SHA256, &key.PublicKey)
	if err != nil {
		t.Fatalf("NewDSAVerifier returned error: %v", err)
	}
	_, _ = verifier.Write([]byte("dsa signed CONTENT"))
	if err := verifier.Verify(); !IsCause(err, CauseSignatureMismatch) {
		t.Errorf("Verify() = %v, want CauseSignatureMismatch for altered content", err)
	}
}

func TestDSAVerifierMalformedSignature(t *testing.T) {
	key := generateDSAKey(t)

	verifier, err := NewDSAVerifier([]byte("not a DER sequence"), crypto.SHA256, &key.PublicKey)
	if err != nil {
		t.Fatalf("NewDSAVerifier returned error: %v", err)
	}
	_, _ = verifier.Write([]byte("content"))
	if err := verifier.Verify(); !IsCause(err, CauseSignatureMismatch) {
		t.Errorf("Verify() = %v, want CauseSignatureMismatch for malformed signature", err)
	}
}
