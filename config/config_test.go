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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.HashLength != config.DefaultHashLength {
		t.Fatalf("HashLength = %d, want %d", got.HashLength, config.DefaultHashLength)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if got.QualifiedNames != config.DefaultQualifiedNames {
		t.Fatalf("QualifiedNames = %v, want %v", got.QualifiedNames, config.DefaultQualifiedNames)
	}
	if got.MetricsNamespace != config.DefaultMetricsNamespace {
		t.Fatalf("MetricsNamespace = %q, want %q", got.MetricsNamespace, config.DefaultMetricsNamespace)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithHashLength_Clamped(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, config.DefaultHashLength},
		{1, apis.MinHashLength},
		{12, 12},
		{1000, apis.MaxHashLength},
	}
	for _, tc := range cases {
		c := config.NewConfig(config.WithHashLength(tc.in))
		if c.HashLength != tc.want {
			t.Errorf("WithHashLength(%d): HashLength = %d, want %d", tc.in, c.HashLength, tc.want)
		}
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithQualifiedNames(false),
		config.WithQualifiedNames(true),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
		config.WithStrictArgs(true),
		config.WithLogLevel("debug"),
		config.WithMetricsNamespace("tests"),
	)

	if !c.QualifiedNames {
		t.Errorf("QualifiedNames = %v, want true (last option wins)", c.QualifiedNames)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
	if !c.StrictArgs || c.LogLevel != "debug" || c.MetricsNamespace != "tests" {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`
[proxy]
hash_length = 10
qualified_names = true
log_level = "info"
`)
	c, err := config.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.HashLength != 10 || !c.QualifiedNames || c.LogLevel != "info" {
		t.Fatalf("Decode = %+v", c)
	}
	// Missing keys keep defaults.
	if c.MaxUnwrap != config.DefaultMaxUnwrap || c.MetricsNamespace != config.DefaultMetricsNamespace {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := config.Decode([]byte("[proxy]\nhash_length = \"x\"")); err == nil {
		t.Fatal("expected type error")
	}
	if _, err := config.Decode([]byte("[proxy]\nno_such_key = 1")); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.toml")
	if err := os.WriteFile(path, []byte("[proxy]\nstrict_args = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.StrictArgs {
		t.Fatalf("StrictArgs = false, want true")
	}

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
