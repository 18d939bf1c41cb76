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

package builder

import (
	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/cache"
	"dirpx.dev/proxy/registry"
	"dirpx.dev/proxy/resolver"
	"dirpx.dev/proxy/strategy"
	"dirpx.dev/proxy/synth"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry for cfg. Entries of a previous
// registry are carried over; entries that no longer normalize under cfg are
// dropped.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Name)
		}
	}
	return nreg
}

// BuildResolver builds the display-name chain: Namer, then the registry,
// then reflection.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewReflectStrategy(),
	)
}

// BuildCache returns the previous cache when there is one: synthesized types
// outlive configuration changes.
func (b *builder) BuildCache(_ apis.Config, prev apis.Cache, _ any) apis.Cache {
	if prev != nil {
		return prev
	}
	return cache.New()
}

// BuildSynthesizer builds the reflection-based synthesizer. Argument
// strictness is not baked in: instances apply cfg.StrictArgs per call.
func (b *builder) BuildSynthesizer(cfg apis.Config, _ any) apis.Synthesizer {
	return synth.New(synth.WithMaxUnwrap(cfg.MaxUnwrap))
}
