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
	"errors"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/builder"
	"dirpx.dev/proxy/config"
	"dirpx.dev/proxy/fingerprint"
	"dirpx.dev/proxy/metrics"
	"dirpx.dev/proxy/spec"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("proxy: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("proxy: builder returned nil resolver")
	// ErrNilCache is returned when a builder returns a nil cache.
	ErrNilCache = errors.New("proxy: builder returned nil cache")
	// ErrNilSynthesizer is returned when a builder returns a nil synthesizer.
	ErrNilSynthesizer = errors.New("proxy: builder returned nil synthesizer")
)

// Factory turns specs into proxy instances. Types synthesized by a factory
// are cached by fingerprint for the lifetime of its cache, so every spec
// with the same shape shares one type.
//
// A Factory is safe for concurrent use.
type Factory struct {
	cfg   apis.Config
	log   *zap.Logger
	reg   apis.Registry
	res   apis.Resolver
	cache apis.Cache
	syn   apis.Synthesizer
	met   *metrics.Metrics
}

// Option customizes a Factory.
type Option func(*options)

type options struct {
	cfg   *apis.Config
	log   *zap.Logger
	bld   apis.Builder
	reg   apis.Registry
	cache apis.Cache
	syn   apis.Synthesizer
	met   *metrics.Metrics
	promr prometheus.Registerer
}

// WithConfig sets the factory configuration. It is sanitized on use.
func WithConfig(cfg apis.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithLogger sets the logger. By default the factory logs nothing unless
// Config.LogLevel names a level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithBuilder sets the builder used for collaborators not given explicitly.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) { o.bld = b }
}

// WithRegistry pins the display-name registry.
func WithRegistry(reg apis.Registry) Option {
	return func(o *options) { o.reg = reg }
}

// WithCache sets the synthesis cache, typically to share types between
// factories.
func WithCache(c apis.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithSynthesizer replaces the type synthesizer.
func WithSynthesizer(s apis.Synthesizer) Option {
	return func(o *options) { o.syn = s }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.met = m }
}

// WithMetricsRegisterer instruments the factory with collectors under
// Config.MetricsNamespace and registers them with r. It is ignored when
// WithMetrics is also given.
func WithMetricsRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.promr = r }
}

// New creates a Factory. Collaborators not supplied as options are built by
// the builder (builder.New() by default) from the configuration.
func New(opts ...Option) *Factory {
	o := options{bld: builder.New()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.DefaultConfig()
	if o.cfg != nil {
		cfg = *o.cfg
	}
	cfg = config.Sanitize(cfg)

	f := &Factory{cfg: cfg, met: o.met, reg: o.reg, cache: o.cache, syn: o.syn}
	if f.reg == nil {
		f.reg = o.bld.BuildRegistry(cfg, nil, nil)
	}
	f.res = o.bld.BuildResolver(cfg, f.reg, nil, nil)
	f.cache = o.bld.BuildCache(cfg, f.cache, nil)
	if f.syn == nil {
		f.syn = o.bld.BuildSynthesizer(cfg, nil)
	}

	switch {
	case f.reg == nil:
		panic(ErrNilRegistry)
	case f.res == nil:
		panic(ErrNilResolver)
	case f.cache == nil:
		panic(ErrNilCache)
	case f.syn == nil:
		panic(ErrNilSynthesizer)
	}

	log := o.log
	if log == nil {
		log = newLogger(cfg.LogLevel)
	}
	f.log = log.Named("proxy")

	if f.met == nil && o.promr != nil {
		m := metrics.New(cfg.MetricsNamespace)
		if err := m.Register(o.promr); err != nil {
			f.log.Warn("registering metrics failed", zap.Error(err))
		} else {
			f.met = m
		}
	}
	return f
}

// newLogger builds a production logger at level, or a no-op logger when
// level is empty or invalid.
func newLogger(level string) *zap.Logger {
	if level == "" {
		return zap.NewNop()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.NewNop()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Create returns an empty spec for base. See spec.New for accepted forms.
func (f *Factory) Create(base any) spec.Spec {
	return spec.New(base)
}

// Fingerprint returns the cache key of s under this factory's configuration
// and display names.
func (f *Factory) Fingerprint(s spec.Spec) string {
	return fingerprint.Of(s,
		fingerprint.WithHashLength(f.cfg.HashLength),
		fingerprint.WithMaxUnwrap(f.cfg.MaxUnwrap),
		fingerprint.WithNamer(f.displayName),
	)
}

func (f *Factory) shape(s spec.Spec) []byte {
	return fingerprint.Shape(s, fingerprint.WithMaxUnwrap(f.cfg.MaxUnwrap))
}

func (f *Factory) displayName(t reflect.Type) string {
	return f.res.ResolveType(t, f.cfg)
}

// Type returns the proxy type for s, synthesizing it on first use.
func (f *Factory) Type(s spec.Spec) (apis.Type, error) {
	key := f.Fingerprint(s)
	log := f.log.With(zap.String("fingerprint", key))

	typ, hit, err := f.cache.LoadOrSynthesize(key, f.shape(s), func() (apis.Type, error) {
		return f.syn.Synthesize(key, s)
	})
	switch {
	case err != nil:
		f.met.ObserveSynthesis(metrics.ResultError, f.cache.Len())
		if errors.Is(err, apis.ErrFingerprintCollision) {
			log.Warn("fingerprint collision", zap.Stringer("spec", s))
		} else {
			log.Warn("proxy type synthesis failed", zap.Error(err))
		}
		return nil, err
	case hit:
		f.met.ObserveSynthesis(metrics.ResultHit, f.cache.Len())
		log.Debug("proxy type reused", zap.Stringer("base", typ.Base()))
	default:
		f.met.ObserveSynthesis(metrics.ResultMiss, f.cache.Len())
		log.Debug("proxy type synthesized",
			zap.Stringer("base", typ.Base()),
			zap.Strings("methods", typ.Methods()),
			zap.Strings("fields", typ.Fields()),
		)
	}
	return typ, nil
}

// Instance builds a proxy instance for s. args are passed to the base
// constructor, if the spec has one. Interceptor chains and bodies are bound
// from s itself, so instances of one type may behave differently.
// Config.StrictArgs of this factory governs every call the instance makes
// into its base, whichever factory synthesized the type.
func (f *Factory) Instance(s spec.Spec, args ...any) (*Instance, error) {
	typ, err := f.Type(s)
	if err != nil {
		return nil, err
	}
	base, err := typ.New(args, f.cfg.StrictArgs)
	if err != nil {
		f.log.Warn("constructing proxy base failed",
			zap.String("fingerprint", typ.Name()),
			zap.Error(err),
		)
		return nil, err
	}
	f.met.ObserveInstance()
	return newInstance(typ, s, base, f.met, f.cfg.StrictArgs), nil
}

// Config returns the sanitized configuration.
func (f *Factory) Config() apis.Config { return f.cfg }

// Registry returns the display-name registry.
func (f *Factory) Registry() apis.Registry { return f.reg }

// Cache returns the synthesis cache.
func (f *Factory) Cache() apis.Cache { return f.cache }
