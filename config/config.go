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

package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"dirpx.dev/proxy/apis"
)

const (
	// DefaultHashLength is the default number of hex characters of the
	// fingerprint hash. Seven characters keep type names short while staying
	// collision-free for the handful of proxy types a process creates.
	DefaultHashLength = 7
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultQualifiedNames represents the default for QualifiedNames.
	DefaultQualifiedNames = false
	// DefaultStrictArgs represents the default for StrictArgs.
	DefaultStrictArgs = false
	// DefaultMetricsNamespace is the Prometheus namespace of factory metrics.
	DefaultMetricsNamespace = "proxy"
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Sanitize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		HashLength:       DefaultHashLength,
		MaxUnwrap:        DefaultMaxUnwrap,
		QualifiedNames:   DefaultQualifiedNames,
		StrictArgs:       DefaultStrictArgs,
		MetricsNamespace: DefaultMetricsNamespace,
	}
}

// Sanitize clamps out-of-range values of cfg to usable ones.
func Sanitize(cfg apis.Config) apis.Config {
	switch {
	case cfg.HashLength == 0:
		cfg.HashLength = DefaultHashLength
	case cfg.HashLength < apis.MinHashLength:
		cfg.HashLength = apis.MinHashLength
	case cfg.HashLength > apis.MaxHashLength:
		cfg.HashLength = apis.MaxHashLength
	}
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = DefaultMetricsNamespace
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithHashLength sets the HashLength option.
func WithHashLength(n int) Option {
	return func(c *apis.Config) {
		c.HashLength = n
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A non-positive value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithQualifiedNames sets the QualifiedNames option.
func WithQualifiedNames(qualified bool) Option {
	return func(c *apis.Config) {
		c.QualifiedNames = qualified
	}
}

// WithStrictArgs sets the StrictArgs option.
func WithStrictArgs(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictArgs = strict
	}
}

// WithMetricsNamespace sets the MetricsNamespace option.
func WithMetricsNamespace(ns string) Option {
	return func(c *apis.Config) {
		c.MetricsNamespace = ns
	}
}

// WithLogLevel sets the LogLevel option.
func WithLogLevel(level string) Option {
	return func(c *apis.Config) {
		c.LogLevel = level
	}
}

// file is the on-disk layout: settings live under a [proxy] table so the
// file can be shared with other tools.
type file struct {
	Proxy apis.Config `toml:"proxy"`
}

// Decode parses TOML data into a Config. Keys missing from the [proxy] table
// keep their defaults.
func Decode(data []byte) (apis.Config, error) {
	f := file{Proxy: DefaultConfig()}
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return apis.Config{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return apis.Config{}, fmt.Errorf("config: unknown keys %v", undecoded)
	}
	return Sanitize(f.Proxy), nil
}

// Load reads and decodes a TOML configuration file.
func Load(path string) (apis.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return Decode(data)
}
