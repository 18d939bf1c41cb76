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

package apis

import "errors"

var (
	// ErrInvalidSpecArgument is returned by the spec builder when a method
	// implementation is neither a replacement body, an interceptor nor nil,
	// or when it would change the mode fixed earlier for that method.
	ErrInvalidSpecArgument = errors.New("proxy: invalid spec argument")

	// ErrNotWhitelisted is returned when Extend or Invoke targets a method
	// that was never declared interceptable in the originating spec.
	ErrNotWhitelisted = errors.New("proxy: method not whitelisted")

	// ErrSynthesisUnsupported is returned when a proxy type cannot be
	// synthesized for the requested base type and spec.
	ErrSynthesisUnsupported = errors.New("proxy: synthesis unsupported")

	// ErrFingerprintCollision is returned when a cached type was synthesized
	// from a spec that shares the fingerprint but not the shape of the spec
	// being instantiated.
	ErrFingerprintCollision = errors.New("proxy: fingerprint collision")

	// ErrArgument is returned when call arguments do not fit the target
	// method signature, or a required callable is nil.
	ErrArgument = errors.New("proxy: bad argument")

	// ErrUnknownMethod is returned by Call for a method the instance lacks.
	ErrUnknownMethod = errors.New("proxy: unknown method")

	// ErrUnknownField is returned when accessing an undeclared extra field.
	ErrUnknownField = errors.New("proxy: unknown field")

	// ErrResultType is returned when a call result does not have the type
	// the caller asked for.
	ErrResultType = errors.New("proxy: unexpected result type")
)
