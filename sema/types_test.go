package sema

import (
	"errors"
	"testing"
)

func TestRegistry_RegisterIdempotent(t *testing.T) {
	r := NewRegistry()

	desc := Descriptor{
		Kind: TypeStruct,
		Name: "point",
		Fields: []Field{
			{Name: "x", Type: NamedType("i32")},
			{Name: "y", Type: NamedType("i32")},
		},
	}

	if err := r.Register(desc); err != nil {
		t.Fatalf("register error: %v", err)
	}

	if err := r.Register(desc); err != nil {
		t.Fatalf("identical re-register should be idempotent, got: %v", err)
	}

	changed := desc
	changed.Fields = []Field{{Name: "x", Type: NamedType("f64")}}

	if err := r.Register(changed); !errors.Is(err, ErrTypeRedefinition) {
		t.Fatalf("expected ErrTypeRedefinition, got: %v", err)
	}
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := NewRegistry()

	if err := r.Resolve(NamedType("widget")); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got: %v", err)
	}

	// Container arity is part of resolution.
	if err := r.Resolve(Type{Name: "Map", Args: []Type{NamedType("string")}}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected arity mismatch to fail, got: %v", err)
	}

	ok := Type{Name: "Map", Args: []Type{NamedType("string"), NamedType("i32")}}
	if err := r.Resolve(ok); err != nil {
		t.Fatalf("resolve error: %v", err)
	}
}

func TestRegistry_StructFieldTypeMustBeVisible(t *testing.T) {
	r := NewRegistry()

	desc := Descriptor{
		Kind:   TypeStruct,
		Name:   "node",
		Fields: []Field{{Name: "next", Type: NamedType("missing")}},
	}

	if err := r.Register(desc); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got: %v", err)
	}
}

func TestRegistry_Defaults(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Descriptor{
		Kind: TypeStruct,
		Name: "point",
		Fields: []Field{
			{Name: "x", Type: NamedType("i32")},
			{Name: "y", Type: NamedType("i32")},
		},
	}); err != nil {
		t.Fatalf("register error: %v", err)
	}

	cases := []struct {
		typ  Type
		want string
	}{
		{NamedType("i32"), "0"},
		{NamedType("u64"), "0"},
		{NamedType("f64"), "0"},
		{NamedType("bool"), "false"},
		{NamedType("string"), `""`},
		{NamedType("char"), `'\x00'`},
		{Type{Name: "Vector", Args: []Type{NamedType("i32")}}, "[]"},
		{Type{Name: "Map", Args: []Type{NamedType("string"), NamedType("i32")}}, "{}"},
		{NamedType("point"), "{x: 0, y: 0}"},
	}

	for _, tc := range cases {
		lit, err := r.Default(tc.typ)
		if err != nil {
			t.Fatalf("Default(%s) error: %v", tc.typ, err)
		}

		if got := lit.String(); got != tc.want {
			t.Errorf("Default(%s) = %s, want %s", tc.typ, got, tc.want)
		}
	}

	if _, err := r.Default(NamedType("widget")); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got: %v", err)
	}
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	r.Freeze()

	err := r.Register(Descriptor{Kind: TypeStruct, Name: "late"})
	if !errors.Is(err, ErrRegistryFrozen) {
		t.Fatalf("expected ErrRegistryFrozen, got: %v", err)
	}
}

func TestEnumNumbering_AllImplicit(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Descriptor{
		Kind: TypeEnum,
		Name: "Color",
		Variants: []VariantSpec{
			{Name: "Red"}, {Name: "Green"}, {Name: "Blue"},
		},
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	want := []int64{0, 1, 2}
	for i, v := range r.Variants("Color") {
		if v.Value != want[i] {
			t.Errorf("variant %s = %d, want %d", v.Name, v.Value, want[i])
		}
	}
}

func TestEnumNumbering_AllExplicit(t *testing.T) {
	r := NewRegistry()

	val := func(v int64) *int64 { return &v }

	err := r.Register(Descriptor{
		Kind: TypeEnum,
		Name: "Color",
		Variants: []VariantSpec{
			{Name: "Red", Value: val(255)},
			{Name: "Green", Value: val(128)},
			{Name: "Blue", Value: val(0)},
		},
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	want := []int64{255, 128, 0}
	for i, v := range r.Variants("Color") {
		if v.Value != want[i] || !v.Explicit {
			t.Errorf("variant %s = %d (explicit=%v), want %d explicit",
				v.Name, v.Value, v.Explicit, want[i])
		}
	}
}

func TestEnumNumbering_Modes(t *testing.T) {
	val := func(v int64) *int64 { return &v }

	variants := []VariantSpec{
		{Name: "A"},
		{Name: "B", Value: val(10)},
		{Name: "C"},
	}

	cases := []struct {
		mode EnumNumbering
		want []int64
	}{
		// Unassigned variants resume from their ordinal position.
		{NumberOrdinal, []int64{0, 10, 2}},
		// Unassigned variants continue past the previous value.
		{NumberContinue, []int64{0, 10, 11}},
	}

	for _, tc := range cases {
		r := NewRegistry(WithEnumNumbering(tc.mode))

		if err := r.Register(Descriptor{
			Kind: TypeEnum, Name: "Mode", Variants: variants,
		}); err != nil {
			t.Fatalf("register error: %v", err)
		}

		for i, v := range r.Variants("Mode") {
			if v.Value != tc.want[i] {
				t.Errorf("mode %d: variant %s = %d, want %d",
					tc.mode, v.Name, v.Value, tc.want[i])
			}
		}
	}
}

func TestRegistry_Compatible(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Descriptor{
		Kind:     TypeEnum,
		Name:     "Color",
		Variants: []VariantSpec{{Name: "Red"}, {Name: "Green"}},
	}); err != nil {
		t.Fatalf("register error: %v", err)
	}

	cases := []struct {
		typ  Type
		lit  Literal
		want bool
	}{
		{NamedType("i32"), IntLit(42), true},
		{NamedType("i32"), FloatLit(4.2), false},
		{NamedType("f64"), FloatLit(4.2), true},
		{NamedType("f64"), IntLit(4), false},
		{NamedType("string"), StringLit("x"), true},
		{NamedType("bool"), BoolLit(true), true},
		{NamedType("char"), StringLit("a"), true},
		{NamedType("char"), StringLit("ab"), false},
		{NamedType("Color"), IntLit(1), true},
		{NamedType("Color"), IntLit(7), false},
		{Type{Name: "Vector", Args: []Type{NamedType("i32")}}, EmptyList(), true},
		{Type{Name: "Map", Args: []Type{NamedType("string"), NamedType("i32")}}, EmptyMap(), true},
	}

	for _, tc := range cases {
		if got := r.Compatible(tc.typ, tc.lit); got != tc.want {
			t.Errorf("Compatible(%s, %s) = %v, want %v",
				tc.typ, tc.lit, got, tc.want)
		}
	}
}

func TestType_Equal(t *testing.T) {
	vec := func(arg Type) Type {
		return Type{Name: "Vector", Args: []Type{arg}}
	}

	if !vec(NamedType("i32")).Equal(vec(NamedType("i32"))) {
		t.Error("structurally identical types should be equal")
	}

	if vec(NamedType("i32")).Equal(vec(NamedType("i64"))) {
		t.Error("differing type arguments should not be equal")
	}

	if NamedType("i32").Equal(vec(NamedType("i32"))) {
		t.Error("differing arity should not be equal")
	}
}
