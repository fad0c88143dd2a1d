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

package certificate

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/blkart/glance/pkg/signature"
)

// mapManager is a trivial in-test key manager.
type mapManager map[string]RawCertificate

func (m mapManager) Get(_ context.Context, id string) (RawCertificate, error) {
	raw, ok := m[id]
	if !ok {
		return RawCertificate{}, fmt.Errorf("certificate %q not found", id)
	}
	return raw, nil
}

// failingManager always fails with a backend error.
type failingManager struct{}

func (failingManager) Get(context.Context, string) (RawCertificate, error) {
	return RawCertificate{}, errors.New("kms backend unreachable at 10.0.0.5:5696")
}

// selfSignedDER creates a self-signed ECDSA certificate valid over the given
// window and returns its DER encoding.
func selfSignedDER(t *testing.T, notBefore, notAfter time.Time) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "glance-test"},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("Failed to create certificate: %v", err)
	}
	return der
}

func newTestResolver(t *testing.T, manager KeyManager, now time.Time) *Resolver {
	t.Helper()
	r, err := NewResolver(ResolverOptions{
		Manager: manager,
		Now:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	return r
}

func TestNewResolverRequiresManager(t *testing.T) {
	if _, err := NewResolver(ResolverOptions{}); err == nil {
		t.Error("NewResolver without a key manager should fail")
	}
}

func TestResolveSuccess(t *testing.T) {
	now := time.Now().UTC()
	der := selfSignedDER(t, now.Add(-time.Hour), now.Add(time.Hour))
	manager := mapManager{"cert-1": {Format: signature.FormatX509, Data: der}}

	cert, err := newTestResolver(t, manager, now).Resolve(context.Background(), "cert-1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cert.Subject.CommonName != "glance-test" {
		t.Errorf("resolved wrong certificate: %s", cert.Subject.CommonName)
	}
}

func TestResolveRetrievalFailure(t *testing.T) {
	now := time.Now().UTC()
	resolver := newTestResolver(t, failingManager{}, now)

	_, err := resolver.Resolve(context.Background(), "cert-1")
	if !signature.IsCause(err, signature.CauseCertificateRetrieval) {
		t.Fatalf("Resolve = %v, want CauseCertificateRetrieval", err)
	}
	// Backend detail must not leak into the returned error text.
	for _, detail := range []string{"10.0.0.5", "5696", "kms backend"} {
		if strings.Contains(err.Error(), detail) {
			t.Errorf("returned error leaks backend detail %q: %q", detail, err.Error())
		}
	}
}

func TestResolveUnknownFormat(t *testing.T) {
	now := time.Now().UTC()
	der := selfSignedDER(t, now.Add(-time.Hour), now.Add(time.Hour))
	manager := mapManager{"cert-1": {Format: "PGP", Data: der}}

	_, err := newTestResolver(t, manager, now).Resolve(context.Background(), "cert-1")
	if !signature.IsCause(err, signature.CauseCertificateFormat) {
		t.Errorf("Resolve = %v, want CauseCertificateFormat", err)
	}
}

func TestResolveUndecodableData(t *testing.T) {
	now := time.Now().UTC()
	manager := mapManager{"cert-1": {Format: signature.FormatX509, Data: []byte("not DER")}}

	_, err := newTestResolver(t, manager, now).Resolve(context.Background(), "cert-1")
	if !signature.IsCause(err, signature.CauseCertificateFormat) {
		t.Errorf("Resolve = %v, want CauseCertificateFormat", err)
	}
}

func TestValidateWindow(t *testing.T) {
	notBefore := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	der := selfSignedDER(t, notBefore, notAfter)
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("Failed to parse certificate: %v", err)
	}

	cases := []struct {
		name string
		now  time.Time
		want signature.Cause
		ok   bool
	}{
		{"before window", cert.NotBefore.Add(-time.Second), signature.CauseCertificateNotYetValid, false},
		{"at NotBefore", cert.NotBefore, 0, true},
		{"inside window", cert.NotBefore.Add(time.Hour), 0, true},
		{"at NotAfter", cert.NotAfter, 0, true},
		{"after window", cert.NotAfter.Add(time.Second), signature.CauseCertificateExpired, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWindow(cert, tc.now)
			if tc.ok {
				if err != nil {
					t.Errorf("ValidateWindow = %v, want nil", err)
				}
				return
			}
			if !signature.IsCause(err, tc.want) {
				t.Errorf("ValidateWindow = %v, want cause %s", err, tc.want)
			}
		})
	}
}

func TestResolveExpiredCertificate(t *testing.T) {
	notBefore := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	der := selfSignedDER(t, notBefore, notAfter)
	manager := mapManager{"cert-1": {Format: signature.FormatX509, Data: der}}

	_, err := newTestResolver(t, manager, notAfter.Add(time.Hour)).Resolve(context.Background(), "cert-1")
	if !signature.IsCause(err, signature.CauseCertificateExpired) {
		t.Errorf("Resolve = %v, want CauseCertificateExpired", err)
	}
}
