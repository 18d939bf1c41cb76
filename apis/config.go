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

// Config carries read-only knobs that influence naming, fingerprinting and
// synthesis. It is passed by value and should be treated as immutable by
// implementations.
type Config struct {
	// HashLength is the number of hex characters of the content hash kept in
	// a fingerprint. Values outside [MinHashLength, MaxHashLength] are clamped.
	HashLength int `toml:"hash_length"`

	// MaxUnwrap limits pointer/container unwrapping when normalizing a base
	// type to its nearest named type. Acts as a guard against pathological
	// nesting such as ***T.
	MaxUnwrap int `toml:"max_unwrap"`

	// QualifiedNames prefixes the readable part of a fingerprint with the
	// last element of the base type's package path ("pkg_Type_abc1234").
	QualifiedNames bool `toml:"qualified_names"`

	// StrictArgs disables numeric conversion of call arguments. When set,
	// arguments must be assignable to the parameter type as-is. Otherwise
	// numbers convert between numeric kinds only when no value is lost.
	// It is read on every call, not when a type is synthesized.
	StrictArgs bool `toml:"strict_args"`

	// MetricsNamespace is the Prometheus namespace for factory metrics.
	MetricsNamespace string `toml:"metrics_namespace"`

	// LogLevel selects the level of the factory's default logger. An empty
	// value means no logging unless a logger is supplied explicitly.
	LogLevel string `toml:"log_level"`
}

const (
	// MinHashLength is the shortest hash suffix a fingerprint may carry.
	MinHashLength = 4
	// MaxHashLength is the length of a full hex-encoded 256-bit digest.
	MaxHashLength = 64
)
