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

import "fmt"

// Cause categorizes a signature verification failure.
type Cause int

const (
	// CauseUnknown indicates an unclassified failure.
	CauseUnknown Cause = iota

	// CauseMissingMetadata indicates required signature metadata is absent.
	CauseMissingMetadata

	// CauseInvalidEncoding indicates the signature is not valid base64.
	CauseInvalidEncoding

	// CauseUnsupportedAlgorithm indicates an unrecognized hash method, MGF
	// name, or a combination the crypto backend refuses to construct.
	CauseUnsupportedAlgorithm

	// CauseUnknownKeyType indicates the key-type name is not registered.
	CauseUnknownKeyType

	// CauseInvalidParameter indicates a malformed optional parameter
	// (e.g. a salt length that is not an integer).
	CauseInvalidParameter

	// CauseCertificateRetrieval indicates the key-manager lookup failed.
	CauseCertificateRetrieval

	// CauseCertificateFormat indicates an unrecognized or undecodable
	// certificate format.
	CauseCertificateFormat

	// CauseCertificateNotYetValid indicates the current time precedes the
	// certificate's validity window.
	CauseCertificateNotYetValid

	// CauseCertificateExpired indicates the certificate's validity window
	// has passed.
	CauseCertificateExpired

	// CauseKeyTypeMismatch indicates the resolved public key does not match
	// the declared key type.
	CauseKeyTypeMismatch

	// CauseSignatureMismatch indicates the signature did not match the
	// streamed content.
	CauseSignatureMismatch
)

// String returns a human-readable name for the cause.
func (c Cause) String() string {
	switch c {
	case CauseMissingMetadata:
		return "MissingSignatureMetadata"
	case CauseInvalidEncoding:
		return "InvalidSignatureEncoding"
	case CauseUnsupportedAlgorithm:
		return "UnsupportedAlgorithmName"
	case CauseUnknownKeyType:
		return "UnknownKeyType"
	case CauseInvalidParameter:
		return "InvalidParameterValue"
	case CauseCertificateRetrieval:
		return "CertificateRetrievalFailed"
	case CauseCertificateFormat:
		return "CertificateFormatInvalid"
	case CauseCertificateNotYetValid:
		return "CertificateNotYetValid"
	case CauseCertificateExpired:
		return "CertificateExpired"
	case CauseKeyTypeMismatch:
		return "KeyTypeMismatch"
	case CauseSignatureMismatch:
		return "SignatureMismatch"
	default:
		return "Unknown"
	}
}

// VerificationError is the single externally visible error family for this
// subsystem. Every failure surfaces as a *VerificationError with a Cause for
// programmatic handling and a sanitized, human-readable Message.
//
// The error text never includes backend-specific detail or key material; the
// underlying error is reachable via Unwrap for logging and tests, but Error()
// renders only the cause and the sanitized message.
type VerificationError struct {
	// Cause categorizes the failure.
	Cause Cause

	// Message is a sanitized, human-readable description.
	Message string

	// Err is the underlying error, if any. It is deliberately excluded
	// from Error() output.
	Err error
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	return fmt.Sprintf("signature verification failed: %s: %s", e.Cause, e.Message)
}

// Unwrap returns the underlying error for error chain unwrapping.
func (e *VerificationError) Unwrap() error {
	return e.Err
}

// NewError creates a verification error with the given cause and message.
func NewError(cause Cause, format string, args ...interface{}) *VerificationError {
	return &VerificationError{
		Cause:   cause,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a verification error that records an underlying error.
// The underlying error is available via Unwrap but not rendered by Error().
func WrapError(cause Cause, err error, format string, args ...interface{}) *VerificationError {
	return &VerificationError{
		Cause:   cause,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsCause reports whether err is a *VerificationError with the given cause.
func IsCause(err error, cause Cause) bool {
	var ve *VerificationError
	if AsVerificationError(err, &ve) {
		return ve.Cause == cause
	}
	return false
}

// AsVerificationError is a helper that unwraps err into a *VerificationError.
func AsVerificationError(err error, target **VerificationError) bool {
	for err != nil {
		if ve, ok := err.(*VerificationError); ok {
			*target = ve
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
