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

// Package inmem provides a map-backed key manager, used by tests and as a
// fixture store for the CLI.
package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/blkart/glance/pkg/certificate"
)

// Ensure KeyManager implements certificate.KeyManager at compile time.
var _ certificate.KeyManager = (*KeyManager)(nil)

// KeyManager stores certificates in memory, keyed by identifier.
type KeyManager struct {
	mu    sync.RWMutex
	certs map[string]certificate.RawCertificate
}

// New creates an empty in-memory key manager.
func New() *KeyManager {
	return &KeyManager{certs: make(map[string]certificate.RawCertificate)}
}

// Put stores a certificate under the given identifier, replacing any
// previous entry.
func (m *KeyManager) Put(certificateID string, cert certificate.RawCertificate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.certs[certificateID] = cert
}

// Get returns the certificate stored under the given identifier.
func (m *KeyManager) Get(_ context.Context, certificateID string) (certificate.RawCertificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cert, ok := m.certs[certificateID]
	if !ok {
		return certificate.RawCertificate{}, fmt.Errorf("certificate %q not found", certificateID)
	}
	return cert, nil
}
