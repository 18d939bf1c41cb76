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

// Package cache is the process-wide store of synthesized proxy types.
//
// Types are keyed by fingerprint. Concurrent misses for the same fingerprint
// collapse into a single synthesis, and a cached type is only handed out to
// callers whose spec has the same shape as the one it was built from.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"dirpx.dev/proxy/apis"
)

var (
	// ErrEmptyKey is returned when an empty fingerprint is provided.
	ErrEmptyKey = errors.New("proxy(cache): empty key provided")
	// ErrNilType is returned when a synthesizer returns neither a type nor an error.
	ErrNilType = errors.New("proxy(cache): synthesizer returned a nil type")
)

// New constructs an empty Cache.
func New() apis.Cache {
	return &cache{}
}

// entry is a cached type together with the shape it was synthesized for.
type entry struct {
	typ   apis.Type
	shape []byte
}

// cache is the default Cache implementation backed by sync.Map.
type cache struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps fingerprints to *entry.
	m sync.Map // map[string]*entry
	// count tracks the number of cached entries.
	count int
	// group collapses concurrent misses per key.
	group singleflight.Group
}

// LoadOrSynthesize returns the type stored under key, synthesizing and
// storing it on a miss. Failed syntheses are not stored.
func (c *cache) LoadOrSynthesize(key string, shape []byte, synth func() (apis.Type, error)) (apis.Type, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	// Fast read path.
	if v, ok := c.m.Load(key); ok {
		t, err := v.(*entry).match(key, shape)
		return t, true, err
	}

	ran := false
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check in case a previous flight stored the entry meanwhile.
		if v, ok := c.m.Load(key); ok {
			return v, nil
		}
		ran = true
		t, err := synth()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, ErrNilType
		}
		e := &entry{typ: t, shape: bytes.Clone(shape)}

		c.mu.Lock()
		defer c.mu.Unlock()
		c.m.Store(key, e)
		c.count++
		return e, nil
	})
	if err != nil {
		return nil, false, err
	}

	// Callers sharing a flight may disagree on shape; each checks its own.
	t, err := v.(*entry).match(key, shape)
	return t, !ran, err
}

func (e *entry) match(key string, shape []byte) (apis.Type, error) {
	if !bytes.Equal(e.shape, shape) {
		return nil, fmt.Errorf("%w: %s", apis.ErrFingerprintCollision, key)
	}
	return e.typ, nil
}

// Lookup returns the cached type for key.
func (c *cache) Lookup(key string) (apis.Type, bool) {
	if v, ok := c.m.Load(key); ok {
		return v.(*entry).typ, true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (c *cache) Entries() []apis.CacheEntry {
	entries := make([]apis.CacheEntry, 0, c.Len())
	c.m.Range(func(key, value any) bool {
		entries = append(entries, apis.CacheEntry{
			Key:  key.(string),
			Type: value.(*entry).typ,
		})
		return true
	})
	return entries
}

// Len returns the number of cached types.
func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset drops every cached type.
func (c *cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.Clear()
	c.count = 0
}
