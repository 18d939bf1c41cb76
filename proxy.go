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

package proxy

import (
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/builder"
	"dirpx.dev/proxy/config"
	"dirpx.dev/proxy/metrics"
	"dirpx.dev/proxy/spec"
)

// state is an immutable snapshot of the process-wide factory and the inputs
// it was built from.
type state struct {
	// cfg is the configuration of fac.
	cfg apis.Config
	// log is the logger given to SetLogger, or nil for the config default.
	log *zap.Logger
	// met is the metrics set given to SetMetrics.
	met *metrics.Metrics
	// bld builds the collaborators of fac.
	bld apis.Builder
	// reg is the registry pinned by SetRegistry, kept unchanged by rebuilds.
	reg apis.Registry
	// fac is the default factory.
	fac *Factory
}

var (
	// st holds the current global snapshot.
	st atomic.Pointer[state]
	// buildMu serializes writers.
	buildMu sync.Mutex
)

func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.fac = s.build(nil)
	st.Store(s)
}

// build creates the factory for s. The registry and the cache of prev carry
// over: types synthesized so far stay valid for the whole process.
func (s *state) build(prev *Factory) *Factory {
	opts := []Option{WithConfig(s.cfg), WithBuilder(s.bld), WithMetrics(s.met)}
	if s.log != nil {
		opts = append(opts, WithLogger(s.log))
	}
	switch {
	case s.reg != nil:
		opts = append(opts, WithRegistry(s.reg))
	case prev != nil:
		opts = append(opts, WithRegistry(s.bld.BuildRegistry(s.cfg, prev.reg, nil)))
	}
	if prev != nil {
		opts = append(opts, WithCache(s.bld.BuildCache(s.cfg, prev.cache, nil)))
	}
	return New(opts...)
}

// update applies fn to a copy of the current state and publishes the result
// with a rebuilt factory.
func update(fn func(s *state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	fn(&next)
	next.fac = next.build(old.fac)
	st.Store(&next)
}

// Default returns the process-wide factory.
func Default() *Factory {
	return st.Load().fac
}

// Create returns an empty spec for base using the default factory.
func Create(base any) spec.Spec {
	return Default().Create(base)
}

// Fingerprint returns the fingerprint of s under the default factory.
func Fingerprint(s spec.Spec) string {
	return Default().Fingerprint(s)
}

// NewInstance builds a proxy instance for s with the default factory.
func NewInstance(s spec.Spec, args ...any) (*Instance, error) {
	return Default().Instance(s, args...)
}

// RegisterName adds a display name for t's base type to the global registry.
// Fingerprints of specs over that base type use it from then on.
func RegisterName(t reflect.Type, name string) error {
	return Default().Registry().Register(t, name)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the default
// factory. Already synthesized types are kept.
func SetConfig(cfg apis.Config) {
	update(func(s *state) { s.cfg = config.Sanitize(cfg) })
}

// SetLogger replaces the logger of the default factory. A nil logger
// restores the configuration default.
func SetLogger(l *zap.Logger) {
	update(func(s *state) { s.log = l })
}

// SetMetrics instruments the default factory with m. A nil m disables
// instrumentation.
func SetMetrics(m *metrics.Metrics) {
	update(func(s *state) { s.met = m })
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the builder and rebuilds the default factory with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(s *state) { s.bld = b })
}

// Registry returns the global display-name registry.
func Registry() apis.Registry {
	return Default().Registry()
}

// SetRegistry pins reg as the global registry: later rebuilds keep it
// instead of migrating entries into a fresh one.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(func(s *state) { s.reg = reg })
}

// IsRegistryPinned reports whether the global registry was set explicitly.
func IsRegistryPinned() bool {
	return st.Load().reg != nil
}
