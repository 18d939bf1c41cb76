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

// Package proxy builds proxy objects for Go struct types at run time.
//
// A proxy wraps a base value and lets callers change how some of its methods
// behave without touching the base type: a method can be wrapped by a chain
// of interceptors, replaced outright by a body, or left alone. A proxy can
// also claim extra interfaces and carry extra named fields.
//
// # Design
//
// Building a proxy goes through four pieces:
//
//   - Spec: an immutable description of the proxy. It names the base type
//     and accumulates overridden methods, interfaces and fields. Every
//     builder call returns a new Spec, so partial specs can be shared and
//     forked freely (package spec).
//
//   - Fingerprint: a deterministic identity derived from the names in a
//     spec, of the form "<Name>_<hash>". Specs that differ only in the
//     interceptors or bodies they attach share a fingerprint (package
//     fingerprint).
//
//   - Type: the synthesized proxy type for a fingerprint. It validates the
//     spec against the base type once and is cached for the life of the
//     process, so specs with the same shape synthesize only once (packages
//     synth and cache).
//
//   - Instance: a base value wrapped by a type. Each instance owns an
//     interception engine seeded from the spec it was built with, so two
//     instances of one type can behave differently, and extending one never
//     affects another (package engine).
//
// A Factory ties these together:
//
//	f := proxy.New()
//	s := f.Create(NewGreeter).
//		MustAddMethod("Greet", logCalls).
//		AddField("Tag", apis.Public)
//	p, err := f.Instance(s, "Robert")
//	greeting, err := proxy.First[string](p.Call("Greet", "Hello"))
//
// # Calls
//
// Go cannot add methods to a type at run time, so a proxy is a delegate and
// its methods are reached through Call. Dispatch depends on the method's
// mode in the type:
//
//   - replaced methods run their body;
//   - whitelisted (intercept-mode) methods run through the engine, with the
//     base method at the end of the chain;
//   - every other method runs on the base unchanged.
//
// Interceptors receive the instance as self and a next continuation. They
// may transform arguments and results around next, or short-circuit by not
// calling it. Only whitelisted methods accept interceptors after
// construction:
//
//	err := p.Proxy().Extend("Greet", audit) // apis.ErrNotWhitelisted otherwise
//
// Calls the base makes on itself do not pass through the proxy.
//
// # Global API
//
// The package keeps a process-wide default factory in a read-mostly atomic
// snapshot. Readers never lock:
//
//	Create(base any) spec.Spec
//	NewInstance(s spec.Spec, args ...any) (*Instance, error)
//	Fingerprint(s spec.Spec) string
//	Default() *Factory
//
// Writers rebuild the default factory from the current Builder and publish
// it atomically:
//
//	SetConfig(cfg apis.Config)
//	SetLogger(l *zap.Logger)
//	SetMetrics(m *metrics.Metrics)
//	SetBuilder(b apis.Builder)
//	SetRegistry(reg apis.Registry)
//
// Rebuilds keep the synthesis cache, so types synthesized so far stay valid
// for the whole process. Argument strictness is applied per call, so a new
// Config.StrictArgs reaches instances of cached types as well. Registry entries migrate into the rebuilt registry
// unless the registry was pinned with SetRegistry.
//
// # Display names
//
// The readable part of a fingerprint comes from a resolver chain: a base
// type implementing apis.Namer names itself, a name registered with
// RegisterName comes next, and the reflected type name is the fallback.
//
// # Errors
//
// All errors wrap one of the sentinels in package apis and are matched with
// errors.Is. Builder misconfiguration (a builder returning nil collaborators)
// panics with ErrNilRegistry and friends.
package proxy
