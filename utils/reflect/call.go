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

package reflect

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// ErrArity is returned when the number of call arguments does not match the
// callee's signature.
var ErrArity = errors.New("reflect: wrong number of arguments")

// ErrArgType is returned when an argument cannot be passed as the
// corresponding parameter.
var ErrArgType = errors.New("reflect: argument type mismatch")

// ErrLossyConversion is returned when a numeric argument does not fit the
// parameter type exactly. It always comes wrapped with ErrArgType.
var ErrLossyConversion = errors.New("reflect: numeric conversion loses information")

// Call invokes fn (a func value, typically a bound method) with args and
// returns its results as a slice of interfaces. Arguments are coerced with
// Coerce; strict disables numeric conversions.
//
// For variadic callees the trailing arguments are packed into the variadic
// parameter, unless exactly one trailing argument is already a slice of the
// variadic type, in which case it is spread.
func Call(fn reflect.Value, args []any, strict bool) ([]any, error) {
	ft := fn.Type()
	n := ft.NumIn()

	var out []reflect.Value
	switch {
	case ft.IsVariadic() && len(args) == n && spreadable(args[n-1], ft.In(n-1)):
		in, err := coerceAll(ft, args[:n-1], strict)
		if err != nil {
			return nil, err
		}
		in = append(in, reflect.ValueOf(args[n-1]))
		out = fn.CallSlice(in)
	default:
		if ft.IsVariadic() {
			if len(args) < n-1 {
				return nil, fmt.Errorf("%w: got %d, want at least %d", ErrArity, len(args), n-1)
			}
		} else if len(args) != n {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrArity, len(args), n)
		}
		in, err := coerceAll(ft, args, strict)
		if err != nil {
			return nil, err
		}
		out = fn.Call(in)
	}

	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

func spreadable(a any, slice reflect.Type) bool {
	return a != nil && reflect.TypeOf(a).AssignableTo(slice)
}

func coerceAll(ft reflect.Type, args []any, strict bool) ([]reflect.Value, error) {
	n := ft.NumIn()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= n-1 {
			pt = ft.In(n - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		v, err := Coerce(a, pt, strict)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

// Coerce converts a into a value of type pt.
//
//   - nil becomes the zero value of pointer, interface, slice, map, chan
//     and func types; it is an error for any other kind.
//   - values assignable to pt are passed as-is.
//   - unless strict, numeric values are converted between numeric kinds
//     when the value survives the conversion: out-of-range values and
//     floats with a fractional part bound for an integer are rejected.
func Coerce(a any, pt reflect.Type, strict bool) (reflect.Value, error) {
	if a == nil {
		if nillable(pt.Kind()) {
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrArgType, pt)
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if !strict && numeric(v.Kind()) && numeric(pt.Kind()) {
		if !fits(v, pt) {
			return reflect.Value{}, fmt.Errorf("%w: %w: %v for %s", ErrArgType, ErrLossyConversion, a, pt)
		}
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s for %s", ErrArgType, v.Type(), pt)
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// fits reports whether the numeric value v converts to pt and back
// unchanged, ignoring float rounding.
func fits(v reflect.Value, pt reflect.Type) bool {
	z := reflect.Zero(pt)
	switch {
	case signed(v.Kind()):
		x := v.Int()
		switch {
		case signed(pt.Kind()):
			return !z.OverflowInt(x)
		case unsigned(pt.Kind()):
			return x >= 0 && !z.OverflowUint(uint64(x))
		}
		return true
	case unsigned(v.Kind()):
		x := v.Uint()
		switch {
		case signed(pt.Kind()):
			return x <= math.MaxInt64 && !z.OverflowInt(int64(x))
		case unsigned(pt.Kind()):
			return !z.OverflowUint(x)
		}
		return true
	}

	f := v.Float()
	switch {
	case signed(pt.Kind()):
		return f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 && !z.OverflowInt(int64(f))
	case unsigned(pt.Kind()):
		return f == math.Trunc(f) && f >= 0 && f < 1<<64 && !z.OverflowUint(uint64(f))
	}
	return !z.OverflowFloat(f)
}

func signed(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func unsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
