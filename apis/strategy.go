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

import "reflect"

// Strategy is one step of display-name resolution for proxy base types.
// Strategies are consulted in order by a Resolver; the default chain lets
// the base type name itself, then consults registered names, then falls
// back to the Go type name.
type Strategy interface {
	// TryResolveType returns the display name of t. handled is false when
	// the strategy has no opinion and the next one should be asked.
	TryResolveType(t reflect.Type, cfg Config) (name string, handled bool)
}
