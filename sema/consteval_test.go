package sema

import (
	"errors"
	"testing"
)

// testAnalyzer builds an analyzer over a frozen registry carrying a Color
// enum, matching the setup most tests need.
func testAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()

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

	r.Freeze()

	a, err := New(r, opts...)
	if err != nil {
		t.Fatalf("new analyzer error: %v", err)
	}

	return a
}

func TestEvalConst_Arithmetic(t *testing.T) {
	a := testAnalyzer(t)

	lit, err := a.evalConst(Expr{Source: "2 + 2"})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if lit.Kind != LitInt || lit.Int() != 4 {
		t.Errorf("2 + 2 = %s, want 4", lit)
	}
}

func TestEvalConst_StringConcat(t *testing.T) {
	a := testAnalyzer(t)

	lit, err := a.evalConst(Expr{Source: `"zi" + "nc"`})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if lit.Kind != LitString || lit.Value != "zinc" {
		t.Errorf("concat = %s, want \"zinc\"", lit)
	}
}

func TestEvalConst_EnumVariantLookup(t *testing.T) {
	a := testAnalyzer(t)

	lit, err := a.evalConst(Expr{Source: "Color.Blue"})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if lit.Kind != LitInt || lit.Int() != 2 {
		t.Errorf("Color.Blue = %s, want 2", lit)
	}
}

func TestEvalConst_FunctionCallNotConstant(t *testing.T) {
	a := testAnalyzer(t)

	_, err := a.evalConst(Expr{Source: "read_input()"})
	if !errors.Is(err, ErrNotConstant) {
		t.Fatalf("expected ErrNotConstant, got: %v", err)
	}
}

func TestEvalConst_UnknownNameNotConstant(t *testing.T) {
	a := testAnalyzer(t)

	_, err := a.evalConst(Expr{Source: "runtime_var + 1"})
	if !errors.Is(err, ErrNotConstant) {
		t.Fatalf("expected ErrNotConstant, got: %v", err)
	}
}

func TestEvalConst_ReferencesEarlierConst(t *testing.T) {
	a := testAnalyzer(t)

	err := a.Process(Event{
		Kind:  EventDeclare,
		Name:  "BASE",
		Type:  NamedType("i32"),
		Class: Immutable,
		Const: true,
		Init:  &Expr{Source: "100"},
	})
	if err != nil {
		t.Fatalf("process error: %v", err)
	}

	lit, err := a.evalConst(Expr{Source: "BASE * 2 + 1"})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if lit.Int() != 201 {
		t.Errorf("BASE * 2 + 1 = %s, want 201", lit)
	}
}

func TestEvalConst_ShadowedConstNotVisible(t *testing.T) {
	a := testAnalyzer(t)

	_ = a.Process(Event{
		Kind: EventDeclare, Name: "N", Type: NamedType("i32"),
		Class: Immutable, Const: true, Init: &Expr{Source: "1"},
	})

	_ = a.Process(Event{Kind: EventEnterBlock})

	// Shadow the constant with a runtime variable; the constant
	// environment must not expose the outer value under this name.
	_ = a.Process(Event{
		Kind: EventDeclare, Name: "N", Type: NamedType("i32"),
		Class: Mutable,
		Init:  &Expr{Source: "read_input()", TypeHint: typeRef("i32")},
	})

	if _, err := a.evalConst(Expr{Source: "N + 1"}); !errors.Is(err, ErrNotConstant) {
		t.Fatalf("shadowed const should not fold, got: %v", err)
	}
}

func typeRef(name string) *Type {
	t := NamedType(name)

	return &t
}
