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

package keytypes

import "crypto/elliptic"

// CandidateCurves is the fixed list of elliptic curves considered for
// registration as ECC_* key types. Only curves with key sizes >= 384 bits
// are included. Some of these may not be supported by the active crypto
// backend; unsupported curves are silently skipped at registration, so the
// set of valid ECC_* key-type names must be queried via RegisteredNames,
// not assumed.
var CandidateCurves = []string{
	"SECT571K1",
	"SECT409K1",
	"SECT571R1",
	"SECT409R1",
	"SECP521R1",
	"SECP384R1",
}

// CurveBackend reports which elliptic curves the active cryptographic
// backend implements. It is consulted once, at registry initialization.
type CurveBackend interface {
	// EllipticCurveSupported reports whether the named curve is available.
	EllipticCurveSupported(name string) bool
}

// stdCurves maps candidate curve names onto the curves the Go standard
// library implements. The binary (SECT*) curves have no stdlib
// implementation and are therefore never registered with this backend.
var stdCurves = map[string]elliptic.Curve{
	"SECP384R1": elliptic.P384(),
	"SECP521R1": elliptic.P521(),
}

// StdCurveBackend is the CurveBackend of the Go standard library.
type StdCurveBackend struct{}

// EllipticCurveSupported reports whether the standard library implements
// the named curve.
func (StdCurveBackend) EllipticCurveSupported(name string) bool {
	_, ok := stdCurves[name]
	return ok
}
