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

//go:build cgo

// Package pkcs11 provides a key manager backed by a PKCS#11 token (HSM or
// software token), using the crypto11 library. Certificates are looked up
// on the token by their CKA_ID attribute.
package pkcs11

import (
	"context"
	"fmt"
	"os"

	"github.com/ThalesGroup/crypto11"

	"github.com/blkart/glance/pkg/certificate"
	"github.com/blkart/glance/pkg/signature"
)

// Ensure KeyManager implements certificate.KeyManager at compile time.
var _ certificate.KeyManager = (*KeyManager)(nil)

// Config describes how to reach the PKCS#11 token.
type Config struct {
	// ModulePath is the path to the PKCS#11 module library.
	ModulePath string
	// TokenLabel selects the token within the module.
	TokenLabel string
	// PIN authenticates the session. Falls back to the PKCS11_PIN
	// environment variable when empty.
	PIN string
}

// KeyManager serves certificates from a PKCS#11 token.
type KeyManager struct {
	ctx *crypto11.Context
}

// New opens a session with the configured token.
func New(cfg Config) (*KeyManager, error) {
	if cfg.ModulePath == "" {
		return nil, fmt.Errorf("PKCS#11 module path not specified")
	}
	if cfg.TokenLabel == "" {
		return nil, fmt.Errorf("PKCS#11 token label not specified")
	}

	pin := cfg.PIN
	if pin == "" {
		pin = os.Getenv("PKCS11_PIN")
	}

	ctx, err := crypto11.Configure(&crypto11.Config{
		Path:       cfg.ModulePath,
		TokenLabel: cfg.TokenLabel,
		Pin:        pin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure PKCS#11 context: %w", err)
	}
	return &KeyManager{ctx: ctx}, nil
}

// Get finds the certificate whose CKA_ID equals the identifier and returns
// its DER bytes in X.509 format.
func (m *KeyManager) Get(_ context.Context, certificateID string) (certificate.RawCertificate, error) {
	cert, err := m.ctx.FindCertificate([]byte(certificateID), nil, nil)
	if err != nil {
		return certificate.RawCertificate{}, fmt.Errorf("PKCS#11 lookup for %q failed: %w", certificateID, err)
	}
	if cert == nil {
		return certificate.RawCertificate{}, fmt.Errorf("certificate %q not found on token", certificateID)
	}

	return certificate.RawCertificate{
		Format: signature.FormatX509,
		Data:   cert.Raw,
	}, nil
}

// Close releases the PKCS#11 session.
func (m *KeyManager) Close() error {
	return m.ctx.Close()
}
