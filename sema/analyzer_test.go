package sema

import (
	"errors"
	"strings"
	"testing"
)

func declareEvent(name string, typ Type, class MutabilityClass, init string) Event {
	ev := Event{Kind: EventDeclare, Name: name, Type: typ, Class: class}
	if init != "" {
		ev.Init = &Expr{Source: init}
	}

	return ev
}

func process(t *testing.T, a *Analyzer, events ...Event) {
	t.Helper()

	for _, ev := range events {
		if err := a.Process(ev); err != nil {
			t.Fatalf("process %s: %v", ev.Kind, err)
		}
	}
}

func kinds(diags []Diagnostic) []DiagKind {
	out := make([]DiagKind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}

	return out
}

func TestAnalyzer_RequiresFrozenRegistry(t *testing.T) {
	if _, err := New(NewRegistry()); !errors.Is(err, ErrRegistryNotFrozen) {
		t.Fatalf("expected ErrRegistryNotFrozen, got: %v", err)
	}
}

func TestAnalyzer_RedeclarationNeverRebinds(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("x", NamedType("i32"), Mutable, "1"),
		declareEvent("x", NamedType("string"), Mutable, `"s"`),
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagDuplicateDeclaration {
		t.Fatalf("diagnostics = %v, want one duplicate-declaration", kinds(diags))
	}

	// The original binding keeps its type.
	sym, _ := a.Lookup("x")
	if !sym.Type.Equal(NamedType("i32")) {
		t.Errorf("binding rebound to %s", sym.Type)
	}
}

func TestAnalyzer_ImmutableSecondAssignment(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("limit", NamedType("i32"), Immutable, "10"),
		Event{Kind: EventAssign, Name: "limit", Value: &Expr{Source: "20"}},
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagImmutableAssignment {
		t.Fatalf("diagnostics = %v, want one immutable-assignment", kinds(diags))
	}

	// The rejected event left the value intact.
	sym, _ := a.Lookup("limit")
	if sym.Value.Int() != 10 {
		t.Errorf("value = %s, want 10", sym.Value)
	}
}

func TestAnalyzer_LockableLifecycle(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		// No initializer: the type default is used.
		declareEvent("RETRY_LIMIT", NamedType("i32"), Lockable, ""),
		Event{Kind: EventLockCommit, Name: "RETRY_LIMIT", Value: &Expr{Source: "3"}},
		Event{Kind: EventLockCommit, Name: "RETRY_LIMIT", Value: &Expr{Source: "9"}},
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagAlreadyLocked {
		t.Fatalf("diagnostics = %v, want one already-locked", kinds(diags))
	}

	// First commit's value sticks.
	sym, _ := a.Lookup("RETRY_LIMIT")
	if sym.Lock != Locked || sym.Value.Int() != 3 {
		t.Errorf("lock=%s value=%s, want locked 3", sym.Lock, sym.Value)
	}
}

func TestAnalyzer_LockablePlainAssignment(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("TOKEN", NamedType("string"), Lockable, ""),
		// Before the lock-commit.
		Event{Kind: EventAssign, Name: "TOKEN", Value: &Expr{Source: `"a"`}},
		Event{Kind: EventLockCommit, Name: "TOKEN", Value: &Expr{Source: `"b"`}},
		// After the lock-commit.
		Event{Kind: EventAssign, Name: "TOKEN", Value: &Expr{Source: `"c"`}},
	)

	diags := a.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v, want two", kinds(diags))
	}

	for _, d := range diags {
		if d.Kind != DiagLockedVariableAssignment {
			t.Errorf("kind = %s, want locked-variable-assignment", d.Kind)
		}
	}
}

func TestAnalyzer_LockCommitOnNonLockable(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("count", NamedType("i32"), Mutable, "0"),
		Event{Kind: EventLockCommit, Name: "count", Value: &Expr{Source: "1"}},
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagNotLockable {
		t.Fatalf("diagnostics = %v, want one not-lockable", kinds(diags))
	}
}

func TestAnalyzer_ConstFolding(t *testing.T) {
	a := testAnalyzer(t)

	ev := declareEvent("X", NamedType("i32"), Immutable, "2 + 2")
	ev.Const = true

	process(t, a, ev)

	if diags := a.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kinds(diags))
	}

	// The folded literal is recorded with no residual expression.
	bindings := a.Bindings()
	if len(bindings) != 1 || bindings[0].Value == nil {
		t.Fatalf("bindings = %+v, want one constant row", bindings)
	}

	if bindings[0].Value.Int() != 4 {
		t.Errorf("const value = %s, want 4", bindings[0].Value)
	}
}

func TestAnalyzer_ConstNonConstantInitializer(t *testing.T) {
	a := testAnalyzer(t)

	ev := declareEvent("X", NamedType("i32"), Immutable, "read_input()")
	ev.Const = true

	process(t, a, ev)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagNonConstantInitializer {
		t.Fatalf("diagnostics = %v, want one non-constant-initializer",
			kinds(diags))
	}

	// The declaration was rejected outright.
	if _, ok := a.Lookup("X"); ok {
		t.Error("rejected const declaration should not be bound")
	}
}

func TestAnalyzer_MutableTypeMismatch(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("count", NamedType("i32"), Mutable, "0"),
		Event{Kind: EventAssign, Name: "count", Value: &Expr{Source: `"ten"`}},
		Event{Kind: EventAssign, Name: "count", Value: &Expr{Source: "10"}},
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagTypeMismatch {
		t.Fatalf("diagnostics = %v, want one type-mismatch", kinds(diags))
	}

	// The pass continued: the well-typed assignment was applied.
	sym, _ := a.Lookup("count")
	if sym.Value.Int() != 10 {
		t.Errorf("value = %s, want 10", sym.Value)
	}
}

func TestAnalyzer_UnknownTypeSuggestion(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a, declareEvent("v", NamedType("Vectr"), Mutable, ""))

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagUnknownType {
		t.Fatalf("diagnostics = %v, want one unknown-type", kinds(diags))
	}

	if !strings.Contains(diags[0].Message, `"Vector"`) {
		t.Errorf("message %q should suggest Vector", diags[0].Message)
	}
}

func TestAnalyzer_UndeclaredName(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("counter", NamedType("i32"), Mutable, "0"),
		Event{Kind: EventAssign, Name: "countr", Value: &Expr{Source: "1"}},
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagUndeclaredName {
		t.Fatalf("diagnostics = %v, want one undeclared-name", kinds(diags))
	}

	if !strings.Contains(diags[0].Message, `"counter"`) {
		t.Errorf("message %q should suggest counter", diags[0].Message)
	}
}

func TestAnalyzer_ScopeExitDiscardsInner(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("x", NamedType("i32"), Mutable, "1"),
		Event{Kind: EventEnterBlock},
		declareEvent("x", NamedType("string"), Mutable, `"inner"`),
		declareEvent("y", NamedType("bool"), Mutable, "true"),
		Event{Kind: EventExitBlock},
	)

	if diags := a.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kinds(diags))
	}

	if _, ok := a.Lookup("y"); ok {
		t.Error("inner declaration resolvable after scope exit")
	}

	sym, ok := a.Lookup("x")
	if !ok || !sym.Type.Equal(NamedType("i32")) {
		t.Errorf("outer binding should remain resolvable as i32, got %+v", sym)
	}
}

func TestAnalyzer_NamingWarnings(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("snake_case", NamedType("i32"), Mutable, "0"),
		declareEvent("camelCase", NamedType("i32"), Mutable, "0"),
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagNamingConvention ||
		diags[0].Severity != SeverityWarning {
		t.Fatalf("diagnostics = %v, want one naming warning", kinds(diags))
	}

	// Warnings never block acceptance.
	if _, ok := a.Lookup("camelCase"); !ok {
		t.Error("warned declaration should still be bound")
	}

	if a.HasErrors() {
		t.Error("warnings must not count as errors")
	}
}

func TestAnalyzer_NamingSuppression(t *testing.T) {
	a := testAnalyzer(t, WithSuppressNamingWarnings(true))

	process(t, a,
		declareEvent("camelCase", NamedType("i32"), Mutable, "0"),
		// Charset violations are errors regardless of suppression.
		declareEvent("my-var", NamedType("i32"), Mutable, "0"),
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagInvalidIdentifierCharacter {
		t.Fatalf("diagnostics = %v, want only invalid-identifier-character",
			kinds(diags))
	}

	if diags[0].Severity != SeverityError {
		t.Error("charset violation must be an error")
	}
}

func TestAnalyzer_EnumTypedDeclaration(t *testing.T) {
	a := testAnalyzer(t)

	process(t, a,
		declareEvent("fg", NamedType("Color"), Mutable, "Color.Green"),
		Event{Kind: EventAssign, Name: "fg", Value: &Expr{Source: "7"}},
	)

	diags := a.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagTypeMismatch {
		t.Fatalf("diagnostics = %v, want one type-mismatch", kinds(diags))
	}

	sym, _ := a.Lookup("fg")
	if sym.Value.Int() != 1 {
		t.Errorf("value = %s, want 1 (Color.Green)", sym.Value)
	}
}

func TestAnalyzer_BindingsTable(t *testing.T) {
	a := testAnalyzer(t)

	constEv := declareEvent("LIMIT", NamedType("i32"), Immutable, "64")
	constEv.Const = true
	constEv.Pos = Pos{File: "main.zn", Line: 1, Col: 1}

	lockEv := declareEvent("MODE", NamedType("Color"), Lockable, "")
	lockEv.Pos = Pos{File: "main.zn", Line: 2, Col: 1}

	process(t, a,
		constEv,
		lockEv,
		Event{Kind: EventLockCommit, Name: "MODE", Value: &Expr{Source: "Color.Blue"}},
	)

	bindings := a.Bindings()
	if len(bindings) != 2 {
		t.Fatalf("bindings = %+v, want 2 rows", bindings)
	}

	if bindings[0].Name != "LIMIT" || !bindings[0].Const ||
		bindings[0].Value.Int() != 64 {
		t.Errorf("row 0 = %+v, want const LIMIT 64", bindings[0])
	}

	// The table reflects the committed final value.
	if bindings[1].Name != "MODE" || bindings[1].Class != Lockable ||
		bindings[1].Value.Int() != 2 {
		t.Errorf("row 1 = %+v, want locked MODE 2", bindings[1])
	}
}

func TestAnalyzer_MalformedStream(t *testing.T) {
	a := testAnalyzer(t)

	if err := a.Process(Event{Kind: EventExitBlock}); err == nil {
		t.Fatal("exit at global scope should be a stream error")
	}
}
