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

// Namer identifies application-level entities by a stable, canonical name.
//
// A base type whose zero value implements Namer lends its EntityName to the
// readable part of proxy fingerprints. Proxy instances implement Namer with
// the name of their synthesized type.
//
// Contract:
//
//   - The returned name MUST be non-empty and deterministic for a given
//     concrete type.
//   - The returned name MUST NOT depend on mutable instance state.
//   - Implementations MUST NOT block or perform I/O.
type Namer interface {
	// EntityName returns the canonical, type-level name for this entity.
	EntityName() string
}

// Identifier extends Namer with a per-instance identifier.
//
// EntityName describes the kind of entity (for a proxy: its synthesized type
// name), EntityID distinguishes one instance of that kind from another.
// EntityID MUST be stable for the lifetime of the instance.
type Identifier interface {
	Namer

	// EntityID returns a stable identifier for this entity instance.
	EntityID() string
}
