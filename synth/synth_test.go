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

package synth_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/proxy/apis"
	"dirpx.dev/proxy/spec"
	"dirpx.dev/proxy/synth"
)

type Greeter struct {
	Name string
}

func (g *Greeter) Greet(greeting string) string { return greeting + " " + g.Name }
func (g *Greeter) Sum(xs ...int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
func (g *Greeter) hidden() {}

type Named interface {
	Greet(greeting string) string
}

type Shouter interface {
	Greet(greeting string) string
	Shout() string
}

func NewGreeter(name string) *Greeter { return &Greeter{Name: name} }

func body(apis.Proxied, []any) ([]any, error) { return []any{"body"}, nil }

func synthesize(t *testing.T, s spec.Spec, opts ...synth.Option) (apis.Type, error) {
	t.Helper()
	return synth.New(opts...).Synthesize("Greeter_abc1234", s)
}

func TestSynthesize_Shape(t *testing.T) {
	s := spec.New(NewGreeter).
		MustAddMethod("Greet", nil).
		MustAddMethod("Shout", body).
		AddInterface(reflect.TypeFor[Shouter]()).
		AddField("Tag", apis.Public).
		AddField("note", apis.Protected)

	typ, err := synthesize(t, s)
	require.NoError(t, err)

	assert.Equal(t, "Greeter_abc1234", typ.Name())
	assert.Equal(t, reflect.TypeFor[Greeter](), typ.Base())
	assert.Equal(t, []string{"Greet", "Shout"}, typ.Methods())
	assert.Equal(t, []string{"Tag", "note"}, typ.Fields())

	mode, ok := typ.Mode("Shout")
	require.True(t, ok)
	assert.Equal(t, apis.ModeReplace, mode)
	_, ok = typ.Mode("Sum")
	assert.False(t, ok)

	vis, ok := typ.FieldVisibility("Tag")
	require.True(t, ok)
	assert.Equal(t, apis.Public, vis)

	assert.True(t, typ.Implements(reflect.TypeFor[Shouter]()))
	assert.True(t, typ.Implements(reflect.TypeFor[Named]()))
	assert.False(t, typ.Implements(reflect.TypeFor[fmt.Stringer]()))
	assert.False(t, typ.Implements(reflect.TypeFor[Greeter]()))
}

func TestSynthesize_Unsupported(t *testing.T) {
	cases := map[string]spec.Spec{
		"nil base":             spec.New(nil),
		"non-struct base":      spec.New(reflect.TypeFor[int]()),
		"unnamed struct":       spec.New(struct{ A int }{}),
		"interface base":       spec.New(reflect.TypeFor[Named]()),
		"missing method":       spec.New(Greeter{}).MustAddMethod("Wave", nil),
		"unexported method":    spec.New(Greeter{}).MustAddMethod("hidden", nil),
		"undeclared replace":   spec.New(Greeter{}).MustAddMethod("Shout", body),
		"not an interface":     spec.New(Greeter{}).AddInterface(reflect.TypeFor[Greeter]()),
		"unsatisfied iface":    spec.New(Greeter{}).AddInterface(reflect.TypeFor[Shouter]()),
		"bad field name":       spec.New(Greeter{}).AddField("1st", apis.Public),
		"field shadows field":  spec.New(Greeter{}).AddField("Name", apis.Public),
		"field shadows method": spec.New(Greeter{}).AddField("Greet", apis.Public),
		"bad constructor":      spec.New(func() (*Greeter, int) { return nil, 0 }),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := synthesize(t, s)
			require.ErrorIs(t, err, apis.ErrSynthesisUnsupported)
		})
	}
}

func TestSynthesize_PointerBase(t *testing.T) {
	typ, err := synthesize(t, spec.New(reflect.TypeFor[**Greeter]()))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[Greeter](), typ.Base())
}

func TestNew_Constructor(t *testing.T) {
	typ, err := synthesize(t, spec.New(NewGreeter))
	require.NoError(t, err)

	v, err := typ.New([]any{"Robert"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Robert", v.Interface().(*Greeter).Name)

	_, err = typ.New(nil, false)
	require.ErrorIs(t, err, apis.ErrArgument)
	_, err = typ.New([]any{42}, false)
	require.ErrorIs(t, err, apis.ErrArgument)
}

func TestNew_ValueConstructorAndError(t *testing.T) {
	boom := errors.New("boom")
	ctor := func(name string) (Greeter, error) {
		if name == "" {
			return Greeter{}, boom
		}
		return Greeter{Name: name}, nil
	}
	typ, err := synthesize(t, spec.New(ctor))
	require.NoError(t, err)

	v, err := typ.New([]any{"Ann"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Ann", v.Interface().(*Greeter).Name)

	_, err = typ.New([]any{""}, false)
	require.ErrorIs(t, err, boom)
}

func TestNew_NilConstructorResult(t *testing.T) {
	typ, err := synthesize(t, spec.New(func() *Greeter { return nil }))
	require.NoError(t, err)
	_, err = typ.New(nil, false)
	require.Error(t, err)
}

func TestNew_ZeroValue(t *testing.T) {
	typ, err := synthesize(t, spec.New(Greeter{}))
	require.NoError(t, err)

	v, err := typ.New(nil, false)
	require.NoError(t, err)
	assert.Equal(t, &Greeter{}, v.Interface())

	_, err = typ.New([]any{"x"}, false)
	require.ErrorIs(t, err, apis.ErrArgument)
}

func TestMethod(t *testing.T) {
	typ, err := synthesize(t, spec.New(Greeter{}))
	require.NoError(t, err)
	recv := reflect.ValueOf(&Greeter{Name: "Robert"})

	greet, ok := typ.Method(recv, "Greet", false)
	require.True(t, ok)
	out, err := greet("Hello Mr.")
	require.NoError(t, err)
	assert.Equal(t, []any{"Hello Mr. Robert"}, out)

	sum, ok := typ.Method(recv, "Sum", false)
	require.True(t, ok)
	out, err = sum(1, 2, int8(3))
	require.NoError(t, err)
	assert.Equal(t, []any{6}, out)

	_, err = greet(1, 2)
	require.ErrorIs(t, err, apis.ErrArgument)

	_, ok = typ.Method(recv, "hidden", false)
	assert.False(t, ok)
	_, ok = typ.Method(recv, "Wave", false)
	assert.False(t, ok)
	_, ok = typ.Method(reflect.ValueOf(Greeter{}), "Greet", false)
	assert.False(t, ok)
}

func TestMethod_StrictArgs(t *testing.T) {
	typ, err := synthesize(t, spec.New(Greeter{}))
	require.NoError(t, err)
	recv := reflect.ValueOf(&Greeter{})

	loose, ok := typ.Method(recv, "Sum", false)
	require.True(t, ok)
	out, err := loose(int8(1))
	require.NoError(t, err)
	assert.Equal(t, []any{1}, out)

	strict, ok := typ.Method(recv, "Sum", true)
	require.True(t, ok)
	_, err = strict(int8(1))
	require.ErrorIs(t, err, apis.ErrArgument)
}

func TestNew_StrictArgs(t *testing.T) {
	typ, err := synthesize(t, spec.New(func(n int) *Greeter { return &Greeter{Name: fmt.Sprint(n)} }))
	require.NoError(t, err)

	v, err := typ.New([]any{int64(7)}, false)
	require.NoError(t, err)
	assert.Equal(t, "7", v.Interface().(*Greeter).Name)

	_, err = typ.New([]any{int64(7)}, true)
	require.ErrorIs(t, err, apis.ErrArgument)
}

func TestMethod_ErrorResult(t *testing.T) {
	typ, err := synthesize(t, spec.New(Checker{}))
	require.NoError(t, err)
	check, ok := typ.Method(reflect.ValueOf(&Checker{}), "Check", false)
	require.True(t, ok)

	out, err := check("ok")
	require.NoError(t, err)
	assert.Equal(t, []any{2, nil}, out)

	out, err = check("")
	require.ErrorIs(t, err, errEmpty)
	require.Len(t, out, 2)
	assert.Equal(t, errEmpty, out[1])
}

var errEmpty = errors.New("empty input")

type Checker struct{}

func (*Checker) Check(s string) (int, error) {
	if s == "" {
		return 0, errEmpty
	}
	return len(s), nil
}
