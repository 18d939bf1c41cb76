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

// Cache maps fingerprints to synthesized types for the lifetime of a process.
type Cache interface {
	// LoadOrSynthesize returns the type cached under key, or calls synth and
	// stores its result. shape is the canonical description of the spec
	// (names and modes); a cached entry whose shape differs yields
	// ErrFingerprintCollision. hit reports whether synth was skipped.
	LoadOrSynthesize(key string, shape []byte, synth func() (Type, error)) (t Type, hit bool, err error)
	// Lookup returns the cached type for key.
	Lookup(key string) (Type, bool)
	// Entries returns a snapshot for diagnostics (order is unspecified).
	Entries() []CacheEntry
	// Len returns the number of cached types.
	Len() int
	// Reset drops every cached type. Intended for tests only.
	Reset()
}

// CacheEntry is a single (fingerprint, type) association.
type CacheEntry struct {
	// Key is the fingerprint.
	Key string
	// Type is the synthesized type.
	Type Type
}
