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

package strategy

import (
	"reflect"

	"dirpx.dev/proxy/apis"
	uref "dirpx.dev/proxy/utils/reflect"
)

var namerType = reflect.TypeFor[apis.Namer]()

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy lets a base type choose its own display name: when a fresh
// zero value of the base implements apis.Namer, its EntityName() is used.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

// TryResolveType asks a zero value of t's base type for its EntityName().
// The Namer contract forbids names that depend on instance state, so the
// zero value answers for the whole type.
func (*namerStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	base := uref.Deref(t, cfg.MaxUnwrap)
	if base == nil || base.Kind() == reflect.Interface || !reflect.PointerTo(base).Implements(namerType) {
		return "", false
	}
	return reflect.New(base).Interface().(apis.Namer).EntityName(), true
}
