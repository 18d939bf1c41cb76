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

// Package registry stores explicit display names for proxy base types.
//
// A registered name replaces the reflected type name in the readable part of
// every fingerprint built for that base type, which keeps synthesized type
// names stable across package renames.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/config"
	uref "dirpx.dev/proxy/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("proxy(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("proxy(registry): empty name provided")
	// ErrInvalidName is returned when a name has no identifier characters
	// left after sanitizing, so it cannot label a fingerprint.
	ErrInvalidName = errors.New("proxy(registry): name has no identifier characters")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different name.
	ErrConflictingRegistration = errors.New("proxy(registry): conflicting type registration")
)

// New constructs a Registry that normalizes types according to cfg.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg, m: make(map[reflect.Type]string)}
}

// registry is a Registry backed by a read-mostly map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards m.
	mu sync.RWMutex
	// m maps normalized base types to display names.
	m map[reflect.Type]string
}

// Register associates the nearest named type of t with name.
// It is idempotent for the same (type, name) pair.
func (r *registry) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}
	if uref.Sanitize(name) == "" {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.m[b]; ok {
		if old == name {
			return nil
		}
		return fmt.Errorf("%w: %s is already %q", ErrConflictingRegistration, b, old)
	}
	r.m[b] = name
	return nil
}

// Lookup returns the display name registered for t's base type.
func (r *registry) Lookup(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	b, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.m[b]
	return name, ok
}

// Entries returns a snapshot ordered by name.
func (r *registry) Entries() []apis.Entry {
	r.mu.RLock()
	entries := make([]apis.Entry, 0, len(r.m))
	for t, name := range r.m {
		entries = append(entries, apis.Entry{Type: t, Name: name})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.m)
}
