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

// Package certificate resolves signing certificates from an external
// key-management service and validates their trust preconditions (format
// and temporal validity) before their public keys are ever used.
//
// Certificates are fetched fresh on every resolution and owned exclusively
// by the call that fetched them; nothing is cached or shared across calls.
package certificate

import (
	"context"
	"crypto/x509"
	"time"

	"github.com/blkart/glance/pkg/logging"
	"github.com/blkart/glance/pkg/signature"
	"github.com/blkart/glance/pkg/tracing"
)

// RawCertificate is the certificate material a key manager returns for an
// identifier: a format tag and the encoded bytes. For the X.509 format the
// bytes are always DER-encoded.
type RawCertificate struct {
	Format string
	Data   []byte
}

// KeyManager is the external key-management collaborator that stores
// certificates by identifier. The caller context is passed through opaquely
// for authentication.
//
// Implementations must surface distinguishable failure outcomes (not found,
// backend error, transient failure); the resolver treats every non-success
// uniformly and only logs the specific cause.
//
// Precondition: the NotBefore/NotAfter timestamps embedded in returned
// certificates must be UTC-normalized. DER-encoded X.509 satisfies this.
type KeyManager interface {
	Get(ctx context.Context, certificateID string) (RawCertificate, error)
}

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Manager is the key-management collaborator. Required.
	Manager KeyManager
	// Logger receives diagnostic detail (including collaborator error
	// text) that is withheld from returned errors. Optional.
	Logger logging.Logger
	// Now overrides the time source for validity-window checks. Used by
	// tests; defaults to time.Now.
	Now func() time.Time
}

// Resolver fetches signing certificates and validates them before use.
type Resolver struct {
	manager KeyManager
	logger  logging.Logger
	now     func() time.Time
}

// NewResolver creates a Resolver. The key manager is required.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	if opts.Manager == nil {
		return nil, signature.NewError(signature.CauseCertificateRetrieval,
			"no key manager configured for certificate retrieval")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		manager: opts.Manager,
		logger:  logging.EnsureLogger(opts.Logger),
		now:     now,
	}, nil
}

// Resolve fetches the certificate for the given identifier, rejects
// unrecognized formats, decodes the DER bytes, and validates the
// certificate's validity window. A certificate outside its window is never
// returned.
//
// Collaborator failures of any kind surface uniformly as
// CauseCertificateRetrieval; the backend-specific cause is only logged.
func (r *Resolver) Resolve(ctx context.Context, certificateID string) (*x509.Certificate, error) {
	var cert *x509.Certificate
	err := tracing.Run(ctx, "certificate.resolve",
		map[string]interface{}{"certificate_id": certificateID},
		func(ctx context.Context) error {
			var err error
			cert, err = r.resolve(ctx, certificateID)
			return err
		})
	return cert, err
}

func (r *Resolver) resolve(ctx context.Context, certificateID string) (*x509.Certificate, error) {
	// The failure encountered may be backend-specific, since key managers
	// are pluggable. Every non-success is reported the same way.
	raw, err := r.manager.Get(ctx, certificateID)
	if err != nil {
		r.logger.Error("unable to retrieve certificate with ID %s: %v", certificateID, err)
		return nil, signature.WrapError(signature.CauseCertificateRetrieval, err,
			"unable to retrieve certificate with ID: %s", certificateID)
	}

	if !signature.CertificateFormatSupported(raw.Format) {
		return nil, signature.NewError(signature.CauseCertificateFormat,
			"invalid certificate format: %s", raw.Format)
	}

	// Key managers always encode X.509 certificates in DER.
	cert, err := x509.ParseCertificate(raw.Data)
	if err != nil {
		r.logger.Error("unable to decode certificate with ID %s: %v", certificateID, err)
		return nil, signature.WrapError(signature.CauseCertificateFormat, err,
			"unable to decode certificate with ID: %s", certificateID)
	}

	if err := ValidateWindow(cert, r.now().UTC()); err != nil {
		return nil, err
	}
	return cert, nil
}

// ValidateWindow confirms the certificate's validity time range includes
// now. Both comparisons are strict, so an instant equal to either bound is
// treated as valid. now must be UTC; certificate bounds parsed from DER
// already are.
func ValidateWindow(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return signature.NewError(signature.CauseCertificateNotYetValid,
			"certificate is not valid before: %s UTC", cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return signature.NewError(signature.CauseCertificateExpired,
			"certificate is not valid after: %s UTC", cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}
