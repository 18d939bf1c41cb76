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

import (
	"fmt"
	"strings"
)

// Visibility is the declared access level of an extra field on a proxy type.
//
// # Values
//
//   - Public: readable and writable by any holder of the instance.
//   - Protected: intended for interceptors and bodies of the proxy and its
//     callers' test code; the default for new fields.
//   - Private: intended for the proxy's own interceptors and bodies only.
//
// Go cannot attach access levels to runtime-added state, so Visibility is
// recorded on the synthesized type and reported back to callers; it takes no
// part in fingerprinting.
type Visibility int

const (
	// Protected is the default visibility of extra fields.
	Protected Visibility = iota
	// Public marks a field as part of the instance's public surface.
	Public
	// Private marks a field as internal to the proxy's own behavior.
	Private
)

// String returns "public", "protected" or "private". Unknown values render
// as "Unknown(<n>)" and never panic.
func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return fmt.Sprintf("Unknown(%d)", v)
	}
}

// ParseVisibility parses a textual visibility, case-insensitively and with
// surrounding whitespace trimmed. On failure it returns Protected and a
// non-nil error.
func ParseVisibility(s string) (Visibility, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Protected, fmt.Errorf("visibility: empty value")
	}

	switch strings.ToLower(trimmed) {
	case "public":
		return Public, nil
	case "protected":
		return Protected, nil
	case "private":
		return Private, nil
	default:
		return Protected, fmt.Errorf("visibility: unknown value %q", s)
	}
}

// MustParseVisibility is like ParseVisibility but panics on invalid input.
func MustParseVisibility(s string) Visibility {
	v, err := ParseVisibility(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an error
// rather than being serialized in their diagnostic form.
func (v Visibility) MarshalText() ([]byte, error) {
	switch v {
	case Public, Protected, Private:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("visibility: cannot marshal unknown value %d", v)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *v is left
// unchanged.
func (v *Visibility) UnmarshalText(text []byte) error {
	parsed, err := ParseVisibility(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
