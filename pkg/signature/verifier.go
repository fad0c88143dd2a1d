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

// Package signature defines the verification error family, the algorithm
// lookup tables, and the streaming Verifier implementations for the
// supported signature key type families (RSA-PSS, DSA, ECDSA).
//
// A Verifier is bound at construction to one signature, one hash method,
// one public key and one parameter scheme. Construction never consumes or
// checks the signature; the caller streams the signed content in and asks
// for the outcome exactly once.
package signature

import (
	"crypto"
	"crypto/dsa" //nolint:staticcheck // DSA is a registered key type; verification only.
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/asn1"
	"errors"
	"hash"
	"math/big"
)

// Verifier checks whether streamed content matches the signature it was
// constructed with. Content is fed through Write; Verify finalizes the
// digest and checks the signature. A Verifier is single-use: after Verify
// returns, further calls fail.
type Verifier interface {
	// Write streams signed content into the verifier.
	Write(p []byte) (int, error)
	// Verify reports nil if the streamed content matches the signature,
	// and a *VerificationError with CauseSignatureMismatch otherwise.
	Verify() error
}

var errVerifierConsumed = errors.New("verifier already produced its outcome")

// digestState carries the streaming digest shared by all verifier kinds.
type digestState struct {
	h    hash.Hash
	done bool
}

func (d *digestState) Write(p []byte) (int, error) {
	if d.done {
		return 0, errVerifierConsumed
	}
	return d.h.Write(p)
}

// finalize returns the digest and marks the verifier consumed.
func (d *digestState) finalize() ([]byte, error) {
	if d.done {
		return nil, errVerifierConsumed
	}
	d.done = true
	return d.h.Sum(nil), nil
}

// newDigestState validates backend support for the hash method. A method in
// the lookup table whose implementation is not linked into the binary is
// reported the same way as an unknown algorithm name.
func newDigestState(hashMethod crypto.Hash) (*digestState, error) {
	if !hashMethod.Available() {
		return nil, NewError(CauseUnsupportedAlgorithm,
			"unable to verify signature since the algorithm is unsupported on this system")
	}
	return &digestState{h: hashMethod.New()}, nil
}

// pssVerifier verifies RSA-PSS signatures.
type pssVerifier struct {
	*digestState
	signature []byte
	key       *rsa.PublicKey
	opts      rsa.PSSOptions
}

// NewPSSVerifier creates a Verifier for an RSA-PSS signature. saltLength is
// the expected salt length in bytes; pass rsa.PSSSaltLengthAuto to accept
// any salt length (the maximum-length default).
func NewPSSVerifier(sig []byte, hashMethod crypto.Hash, key *rsa.PublicKey, saltLength int) (Verifier, error) {
	ds, err := newDigestState(hashMethod)
	if err != nil {
		return nil, err
	}
	return &pssVerifier{
		digestState: ds,
		signature:   sig,
		key:         key,
		opts:        rsa.PSSOptions{SaltLength: saltLength, Hash: hashMethod},
	}, nil
}

func (v *pssVerifier) Verify() error {
	digest, err := v.finalize()
	if err != nil {
		return err
	}
	if err := rsa.VerifyPSS(v.key, v.opts.Hash, digest, v.signature, &v.opts); err != nil {
		return WrapError(CauseSignatureMismatch, err, "signature verification failed")
	}
	return nil
}

// dsaVerifier verifies DSA signatures encoded as an ASN.1 DER sequence.
type dsaVerifier struct {
	*digestState
	signature []byte
	key       *dsa.PublicKey
}

// NewDSAVerifier creates a Verifier for a DSA signature bound to the
// declared hash method.
func NewDSAVerifier(sig []byte, hashMethod crypto.Hash, key *dsa.PublicKey) (Verifier, error) {
	ds, err := newDigestState(hashMethod)
	if err != nil {
		return nil, err
	}
	return &dsaVerifier{
		digestState: ds,
		signature:   sig,
		key:         key,
	}, nil
}

// dsaSignature is the DER signature structure produced by DSA signers.
type dsaSignature struct {
	R, S *big.Int
}

func (v *dsaVerifier) Verify() error {
	digest, err := v.finalize()
	if err != nil {
		return err
	}

	var sig dsaSignature
	rest, err := asn1.Unmarshal(v.signature, &sig)
	if err != nil || len(rest) != 0 {
		return WrapError(CauseSignatureMismatch, err, "signature verification failed")
	}

	// DSA operates on the digest truncated to the byte length of Q.
	qlen := (v.key.Q.BitLen() + 7) / 8
	if len(digest) > qlen {
		digest = digest[:qlen]
	}

	if !dsa.Verify(v.key, digest, sig.R, sig.S) {
		return NewError(CauseSignatureMismatch, "signature verification failed")
	}
	return nil
}

// ecdsaVerifier verifies ECDSA signatures encoded as an ASN.1 DER sequence.
type ecdsaVerifier struct {
	*digestState
	signature []byte
	key       *ecdsa.PublicKey
}

// NewECDSAVerifier creates a Verifier for an ECDSA signature bound to the
// declared hash method.
func NewECDSAVerifier(sig []byte, hashMethod crypto.Hash, key *ecdsa.PublicKey) (Verifier, error) {
	ds, err := newDigestState(hashMethod)
	if err != nil {
		return nil, err
	}
	return &ecdsaVerifier{
		digestState: ds,
		signature:   sig,
		key:         key,
	}, nil
}

func (v *ecdsaVerifier) Verify() error {
	digest, err := v.finalize()
	if err != nil {
		return err
	}
	if !ecdsa.VerifyASN1(v.key, digest, v.signature) {
		return NewError(CauseSignatureMismatch, "signature verification failed")
	}
	return nil
}
