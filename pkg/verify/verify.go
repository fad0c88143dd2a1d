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

// Package verify orchestrates image signature verification: it extracts the
// signature metadata from image properties, resolves the declared hash
// method and key type, fetches and validates the signing certificate, and
// constructs the type-specific verifier the caller then streams the image
// content through.
//
// Every step is synchronous and stateless per call; the only suspension
// point is the key-manager lookup. Steps execute in a fixed order because
// later steps depend on earlier validation (a certificate is never fetched
// for an id that came from malformed metadata).
package verify

import (
	"context"
	"crypto"

	"github.com/blkart/glance/pkg/certificate"
	"github.com/blkart/glance/pkg/keytypes"
	"github.com/blkart/glance/pkg/logging"
	"github.com/blkart/glance/pkg/metadata"
	"github.com/blkart/glance/pkg/signature"
	"github.com/blkart/glance/pkg/tracing"
)

// requiredPropertiesMessage is returned whenever the property set lacks any
// required field, without naming which one.
const requiredPropertiesMessage = "required image properties for signature verification do not exist. Cannot verify signature"

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// KeyManager is the external certificate store. Required.
	KeyManager certificate.KeyManager
	// Registry is the signature key-type registry. Defaults to
	// keytypes.Default().
	Registry *keytypes.Registry
	// Logger receives diagnostic detail. Optional.
	Logger logging.Logger
	// Resolver overrides the certificate resolver built from KeyManager.
	// Used by tests to control the clock.
	Resolver *certificate.Resolver
}

// Builder constructs verifiers from image signature metadata.
type Builder struct {
	resolver *certificate.Resolver
	registry *keytypes.Registry
	logger   logging.Logger
}

// NewBuilder creates a Builder. The key manager is required unless a
// pre-built resolver is supplied.
func NewBuilder(opts BuilderOptions) (*Builder, error) {
	logger := logging.EnsureLogger(opts.Logger)

	resolver := opts.Resolver
	if resolver == nil {
		var err error
		resolver, err = certificate.NewResolver(certificate.ResolverOptions{
			Manager: opts.KeyManager,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = keytypes.Default()
	}

	return &Builder{
		resolver: resolver,
		registry: registry,
		logger:   logger,
	}, nil
}

// GetVerifier builds a verifier from the image's current-scheme signature
// properties. The returned verifier has not consumed the signature yet;
// the caller streams the image content into it and calls Verify once.
func (b *Builder) GetVerifier(ctx context.Context, props metadata.Properties) (signature.Verifier, error) {
	var verifier signature.Verifier
	err := tracing.Run(ctx, "verify.get_verifier", nil, func(ctx context.Context) error {
		var err error
		verifier, err = b.buildVerifier(ctx, props, currentScheme)
		return err
	})
	return verifier, err
}

// propertyScheme selects which metadata naming convention a build reads.
type propertyScheme struct {
	signature       string
	hashMethod      string
	keyType         string
	certificateUUID string
	present         func(metadata.Properties) bool
}

var currentScheme = propertyScheme{
	signature:       metadata.PropSignature,
	hashMethod:      metadata.PropHashMethod,
	keyType:         metadata.PropKeyType,
	certificateUUID: metadata.PropCertificateUUID,
	present:         metadata.ShouldCreateVerifier,
}

// buildVerifier runs the fixed verification-construction sequence: field
// presence, signature decode, hash resolve, key-type resolve, certificate
// fetch/validate, capability match, constructor invocation.
func (b *Builder) buildVerifier(ctx context.Context, props metadata.Properties, scheme propertyScheme) (signature.Verifier, error) {
	if !scheme.present(props) {
		return nil, signature.NewError(signature.CauseMissingMetadata, requiredPropertiesMessage)
	}

	sig, err := metadata.DecodeSignature(props[scheme.signature])
	if err != nil {
		return nil, err
	}

	hashMethod, err := signature.HashMethod(props[scheme.hashMethod])
	if err != nil {
		return nil, err
	}

	keyType, err := b.registry.Lookup(props[scheme.keyType])
	if err != nil {
		return nil, err
	}

	publicKey, err := b.publicKey(ctx, props[scheme.certificateUUID], keyType)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("building %s verifier with %s hash", keyType.Name, props[scheme.hashMethod])
	return keyType.NewVerifier(sig, hashMethod, publicKey, props)
}

// publicKey resolves the signing certificate and confirms its embedded
// public key matches the capability the declared key type expects. The
// certificate's validity window has already been checked by the resolver
// before the key is extracted.
func (b *Builder) publicKey(ctx context.Context, certificateID string, keyType keytypes.KeyType) (crypto.PublicKey, error) {
	cert, err := b.resolver.Resolve(ctx, certificateID)
	if err != nil {
		return nil, err
	}

	publicKey := cert.PublicKey
	if !keyType.PublicKeyType.Matches(publicKey) {
		return nil, signature.NewError(signature.CauseKeyTypeMismatch,
			"invalid public key type for signature key type: %s", keyType.Name)
	}
	return publicKey, nil
}
