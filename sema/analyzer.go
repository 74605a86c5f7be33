package sema

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// Analyzer processes one compiled unit's ordered event stream, consulting
// the type registry and constant evaluator, mutating the scope table and
// binding states, and collecting diagnostics. Failing events produce an
// Error diagnostic and are not applied; the pass continues so a single run
// surfaces every defect.
//
// Each unit gets its own Analyzer. Independent units may be analyzed in
// parallel as long as they share only a frozen Registry.
type Analyzer struct {
	registry *Registry
	scopes   *ScopeTable
	linter   Linter
	diags    []Diagnostic
	bindings []*Binding
}

// Binding is one row of the read-only table exposed to downstream code
// generation: the declaration site resolved to its type, mutability class,
// and final value when constant-foldable.
type Binding struct {
	Site  Pos
	Name  string
	Type  Type
	Class MutabilityClass
	Const bool
	Value *Literal

	sym *Symbol
}

// Option applies a configuration option to an Analyzer.
type Option func(*Analyzer)

// WithSuppressNamingWarnings disables casing-convention warnings for the
// pass. The setting is fixed before analysis begins and read-only
// thereafter.
func WithSuppressNamingWarnings(suppress bool) Option {
	return func(a *Analyzer) { a.linter = NewLinter(suppress) }
}

// New creates an Analyzer over a frozen registry. An unfrozen registry is
// rejected: registration is a strictly-preceding phase, never mutated
// concurrently with analysis.
func New(registry *Registry, opts ...Option) (*Analyzer, error) {
	if registry == nil || !registry.Frozen() {
		return nil, ErrRegistryNotFrozen
	}

	a := &Analyzer{
		registry: registry,
		scopes:   NewScopeTable(),
		linter:   NewLinter(false),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Process applies one event. The returned error reports malformed event
// streams only (unbalanced scope exits, unknown event kinds); defects in
// the analyzed program are collected as diagnostics instead.
func (a *Analyzer) Process(ev Event) error {
	switch ev.Kind {
	case EventEnterBlock:
		a.scopes.Enter()

		return nil

	case EventExitBlock:
		return a.scopes.Exit()

	case EventDeclare:
		a.declare(ev)

		return nil

	case EventAssign:
		a.assign(ev)

		return nil

	case EventLockCommit:
		a.lockCommit(ev)

		return nil

	default:
		return fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}
}

// declare handles an EventDeclare: validate the identifier, resolve the
// declared type, compute the initializing value, bind the symbol, and lint
// its casing.
func (a *Analyzer) declare(ev Event) {
	if err := CheckCharset(ev.Name); err != nil {
		a.errorf(DiagInvalidIdentifierCharacter, ev.Pos,
			"invalid character in identifier %q", ev.Name)

		return
	}

	if err := a.registry.Resolve(ev.Type); err != nil {
		msg := fmt.Sprintf("unknown type %q in declaration of %q",
			ev.Type.String(), ev.Name)

		if hint := suggest(ev.Type.Name, a.registry.Names()); hint != "" {
			msg += fmt.Sprintf("; did you mean %q?", hint)
		}

		a.errorf(DiagUnknownType, ev.Pos, "%s", msg)

		return
	}

	value, ok := a.initialValue(ev)
	if !ok {
		return
	}

	sym := &Symbol{
		Name:  ev.Name,
		Type:  ev.Type,
		Class: ev.Class,
		Const: ev.Const,
		Value: value,
		Decl:  ev.Pos,
	}

	if ev.Class == Lockable {
		sym.Lock = LockUnset
	}

	if err := a.scopes.Declare(sym); err != nil {
		a.errorf(DiagDuplicateDeclaration, ev.Pos,
			"%q is already declared in this scope", ev.Name)

		return
	}

	a.bindings = append(a.bindings, &Binding{
		Site:  ev.Pos,
		Name:  ev.Name,
		Type:  ev.Type,
		Class: ev.Class,
		Const: ev.Const,
		sym:   sym,
	})

	if diag := a.linter.Check(sym); diag != nil {
		a.diags = append(a.diags, *diag)
	}
}

// initialValue computes the declaration's initializing value: the folded
// initializer expression, or the type default when no initializer is
// given. The second return is false when the declaration must be rejected.
func (a *Analyzer) initialValue(ev Event) (*Literal, bool) {
	if ev.Init == nil {
		if ev.Const {
			a.errorf(DiagNonConstantInitializer, ev.Pos,
				"const declaration of %q requires an initializer", ev.Name)

			return nil, false
		}

		lit, err := a.registry.Default(ev.Type)
		if err != nil {
			a.errorf(DiagUnknownType, ev.Pos,
				"no default value for type %q", ev.Type.String())

			return nil, false
		}

		return &lit, true
	}

	lit, err := a.evalConst(*ev.Init)
	if err == nil {
		if !a.registry.Compatible(ev.Type, lit) {
			a.errorf(DiagTypeMismatch, ev.Pos,
				"initializer %s does not match declared type %q of %q",
				lit, ev.Type.String(), ev.Name)

			return nil, false
		}

		return &lit, true
	}

	// Initializer is not a compile-time constant.
	if ev.Const {
		a.errorf(DiagNonConstantInitializer, ev.Pos,
			"const %q initialized from non-constant expression %q",
			ev.Name, ev.Init.Source)

		return nil, false
	}

	if ev.Init.TypeHint != nil && !ev.Init.TypeHint.Equal(ev.Type) {
		a.errorf(DiagTypeMismatch, ev.Pos,
			"initializer of type %q does not match declared type %q of %q",
			ev.Init.TypeHint.String(), ev.Type.String(), ev.Name)

		return nil, false
	}

	return nil, true
}

// assign handles a plain "=" assignment event.
func (a *Analyzer) assign(ev Event) {
	sym, ok := a.scopes.Lookup(ev.Name)
	if !ok {
		a.undeclared(ev)

		return
	}

	if err := sym.checkAssign(); err != nil {
		kind := DiagImmutableAssignment
		msg := fmt.Sprintf("cannot assign to immutable binding %q", ev.Name)

		if sym.Class == Lockable {
			kind = DiagLockedVariableAssignment
			msg = fmt.Sprintf(
				"lockable binding %q cannot be reassigned; use its lock-commit",
				ev.Name)
		}

		a.errorf(kind, ev.Pos, "%s", msg)

		return
	}

	value, ok := a.checkValue(ev, sym)
	if !ok {
		return
	}

	sym.Value = value
}

// lockCommit handles the one-time "set" operation on a lockable binding.
func (a *Analyzer) lockCommit(ev Event) {
	sym, ok := a.scopes.Lookup(ev.Name)
	if !ok {
		a.undeclared(ev)

		return
	}

	if sym.Class != Lockable {
		a.errorf(DiagNotLockable, ev.Pos,
			"cannot lock %q: declared %s, not lockable",
			ev.Name, sym.Class)

		return
	}

	if sym.Lock == Locked {
		a.errorf(DiagAlreadyLocked, ev.Pos,
			"%q is already locked; its value is final", ev.Name)

		return
	}

	value, ok := a.checkValue(ev, sym)
	if !ok {
		return
	}

	// commitLock cannot fail here: class and lock state were just checked.
	_ = sym.commitLock(value)
}

// checkValue folds or type-checks an event's value expression against the
// target symbol's fixed type. The second return is false when the event
// must be rejected with a type mismatch.
func (a *Analyzer) checkValue(ev Event, sym *Symbol) (*Literal, bool) {
	if ev.Value == nil {
		return nil, true
	}

	value, ok := a.foldValue(*ev.Value, sym.Type)
	if !ok {
		a.errorf(DiagTypeMismatch, ev.Pos,
			"value %q does not match declared type %q of %q",
			ev.Value.Source, sym.Type.String(), ev.Name)

		return nil, false
	}

	return value, true
}

// undeclared reports a use of an unresolvable name, with a fuzzy-matched
// suggestion when one scores.
func (a *Analyzer) undeclared(ev Event) {
	msg := fmt.Sprintf("%q has not been declared", ev.Name)

	if hint := suggest(ev.Name, a.scopes.visibleNames()); hint != "" {
		msg += fmt.Sprintf("; did you mean %q?", hint)
	}

	a.errorf(DiagUndeclaredName, ev.Pos, "%s", msg)
}

// errorf records an Error-severity diagnostic.
func (a *Analyzer) errorf(kind DiagKind, site Pos, format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Site:     site,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns the collected diagnostics in source order.
func (a *Analyzer) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(a.diags))
	copy(out, a.diags)

	return out
}

// HasErrors reports whether any Error-severity diagnostic was collected.
func (a *Analyzer) HasErrors() bool {
	for _, d := range a.diags {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// Bindings returns the read-only table mapping each accepted declaration
// site to its resolved type, mutability class, and final value when
// constant-foldable. Values reflect the state at call time, so lock-commit
// results are visible after the pass completes.
func (a *Analyzer) Bindings() []Binding {
	out := make([]Binding, len(a.bindings))

	for i, b := range a.bindings {
		out[i] = *b
		out[i].Value = b.sym.Value
		out[i].sym = nil
	}

	return out
}

// Lookup resolves a name against the analyzer's current scope chain.
// Exposed for interactive use (the REPL's completion and inspection).
func (a *Analyzer) Lookup(name string) (*Symbol, bool) {
	return a.scopes.Lookup(name)
}

// VisibleNames returns every name resolvable from the current scope.
func (a *Analyzer) VisibleNames() []string {
	return a.scopes.visibleNames()
}

// Registry returns the frozen registry the analyzer consults.
func (a *Analyzer) Registry() *Registry { return a.registry }

// suggest returns the best fuzzy match for name among candidates, or ""
// when nothing scores.
func suggest(name string, candidates []string) string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}
