/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package fingerprint derives deterministic identities for proxy specs.
//
// A fingerprint has the form "<Name>_<hash>", where Name is a readable,
// identifier-safe form of the base type's name and hash is a hex prefix of
// the BLAKE2b-256 digest of the spec's canonical seed. The seed is the CBOR
// canonical encoding of
//
//	[base identifier, sorted method names, sorted interface identifiers, sorted field names]
//
// so two specs with the same name sets share a fingerprint regardless of
// the order of builder calls. Interceptor chain contents, replacement bodies
// and method modes are deliberately left out: specs that only add runtime
// behavior to an already declared method reuse the same synthesized type.
//
// Collisions of truncated hashes are possible in principle. The synthesis
// cache compares Shape bytes on every hit and refuses to reuse a type built
// for a different spec.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/config"
	uref "dirpx.dev/proxy/utils/reflect"
)

// fallbackName is used when the base type yields no readable name.
const fallbackName = "Proxy"

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("fingerprint: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// seed is the canonical identity record of a spec.
type seed struct {
	_          struct{} `cbor:",toarray"`
	Base       string
	Methods    []string
	Interfaces []string
	Fields     []string
}

// shape extends seed with per-method modes for cache compatibility checks.
type shape struct {
	_     struct{} `cbor:",toarray"`
	Seed  seed
	Modes []string
}

// Option customizes Of.
type Option func(*options)

type options struct {
	hashLength int
	maxUnwrap  int
	namer      func(reflect.Type) string
}

// WithHashLength sets the number of hex characters kept from the digest.
// Values are clamped to [apis.MinHashLength, apis.MaxHashLength].
func WithHashLength(n int) Option {
	return func(o *options) { o.hashLength = n }
}

// WithMaxUnwrap bounds how many pointer levels are stripped from the base
// type. It should match the synthesizer's limit. Non-positive values keep
// the default.
func WithMaxUnwrap(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxUnwrap = n
		}
	}
}

// WithNamer overrides how the readable part is derived from the normalized
// base type. The result is sanitized to an identifier-safe form.
func WithNamer(fn func(reflect.Type) string) Option {
	return func(o *options) {
		if fn != nil {
			o.namer = fn
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		hashLength: config.DefaultHashLength,
		maxUnwrap:  config.DefaultMaxUnwrap,
		namer:      func(t reflect.Type) string { return uref.ShortName(t, false) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Of returns the fingerprint of s.
func Of(s apis.Spec, opts ...Option) string {
	o := newOptions(opts)
	base := uref.Deref(s.BaseType(), o.maxUnwrap)
	return label(base, o.namer) + "_" + Hash(mustEncode(newSeed(s, base)), o.hashLength)
}

// Name returns the readable, identifier-safe part of a fingerprint.
func Name(s apis.Spec, opts ...Option) string {
	o := newOptions(opts)
	return label(uref.Deref(s.BaseType(), o.maxUnwrap), o.namer)
}

func label(base reflect.Type, namer func(reflect.Type) string) string {
	if base == nil {
		return fallbackName
	}
	if name := uref.Sanitize(namer(base)); name != "" {
		return name
	}
	return fallbackName
}

// Seed returns the canonical CBOR encoding of s's identity. Only
// WithMaxUnwrap among opts affects it.
func Seed(s apis.Spec, opts ...Option) []byte {
	o := newOptions(opts)
	return mustEncode(newSeed(s, uref.Deref(s.BaseType(), o.maxUnwrap)))
}

// Shape returns the canonical CBOR encoding of s's identity plus the mode
// of every method. Specs with equal Shape can share a synthesized type.
func Shape(s apis.Spec, opts ...Option) []byte {
	o := newOptions(opts)
	sd := newSeed(s, uref.Deref(s.BaseType(), o.maxUnwrap))
	modes := make([]string, len(sd.Methods))
	for i, name := range sd.Methods {
		mode, _ := s.MethodMode(name)
		modes[i] = mode.String()
	}
	return mustEncode(shape{Seed: sd, Modes: modes})
}

// Hash returns the first n hex characters of the BLAKE2b-256 digest of b.
func Hash(b []byte, n int) string {
	switch {
	case n < apis.MinHashLength:
		n = apis.MinHashLength
	case n > apis.MaxHashLength:
		n = apis.MaxHashLength
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])[:n]
}

// newSeed records s with base standing for its unwrapped base type.
func newSeed(s apis.Spec, base reflect.Type) seed {
	ifaces := s.Interfaces()
	ids := make([]string, len(ifaces))
	for i, t := range ifaces {
		ids[i] = uref.Identifier(t)
	}
	// Empty lists must encode as arrays, not null, to stay canonical.
	return seed{
		Base:       uref.Identifier(base),
		Methods:    nonNil(s.MethodNames()),
		Interfaces: ids,
		Fields:     nonNil(s.FieldNames()),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mustEncode(v any) []byte {
	b, err := encMode.Marshal(v)
	if err != nil {
		// Only strings and slices of strings are encoded; this cannot fail.
		panic(fmt.Sprintf("fingerprint: encode: %v", err))
	}
	return b
}
