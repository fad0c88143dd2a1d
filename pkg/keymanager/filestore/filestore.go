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

// Package filestore provides a key manager backed by a directory of
// PEM-encoded certificates, one file per identifier (<id>.pem).
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sigstore/sigstore/pkg/cryptoutils"

	"github.com/blkart/glance/pkg/certificate"
	"github.com/blkart/glance/pkg/signature"
)

// Ensure KeyManager implements certificate.KeyManager at compile time.
var _ certificate.KeyManager = (*KeyManager)(nil)

// KeyManager serves certificates from a directory of PEM files.
type KeyManager struct {
	dir string
}

// New creates a key manager rooted at dir. The directory must exist.
func New(dir string) (*KeyManager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("certificate store %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("certificate store %q is not a directory", dir)
	}
	return &KeyManager{dir: dir}, nil
}

// Get reads and parses the PEM file for the given identifier, returning the
// first certificate as DER bytes in X.509 format.
func (m *KeyManager) Get(_ context.Context, certificateID string) (certificate.RawCertificate, error) {
	// Identifiers are opaque lookup keys, never paths.
	if strings.ContainsAny(certificateID, `/\`) || certificateID != filepath.Base(certificateID) {
		return certificate.RawCertificate{}, fmt.Errorf("invalid certificate id %q", certificateID)
	}

	pemBytes, err := os.ReadFile(filepath.Join(m.dir, certificateID+".pem"))
	if err != nil {
		return certificate.RawCertificate{}, fmt.Errorf("certificate %q not found: %w", certificateID, err)
	}

	certs, err := cryptoutils.UnmarshalCertificatesFromPEM(pemBytes)
	if err != nil {
		return certificate.RawCertificate{}, fmt.Errorf("failed to parse certificate %q: %w", certificateID, err)
	}
	if len(certs) == 0 {
		return certificate.RawCertificate{}, fmt.Errorf("no certificate in %q", certificateID+".pem")
	}

	return certificate.RawCertificate{
		Format: signature.FormatX509,
		Data:   certs[0].Raw,
	}, nil
}
