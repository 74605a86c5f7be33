package sema

import "log/slog"

// Scope is one lexical frame: a mapping from name to Symbol, with a link to
// the enclosing frame. Names are unique within a scope; inner scopes may
// shadow outer bindings of the same name.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
	depth   int
}

// newScope creates a scope nested inside parent (nil for the global scope).
func newScope(parent *Scope) *Scope {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}

	return &Scope{
		parent:  parent,
		symbols: make(map[string]*Symbol),
		depth:   depth,
	}
}

// Depth returns the nesting depth of the scope; the global scope is 0.
func (s *Scope) Depth() int { return s.depth }

// IsGlobal reports whether the scope is the outermost frame.
func (s *Scope) IsGlobal() bool { return s.parent == nil }

// ScopeTable is the stack of nested lexical scopes the analyzer walks.
// Frames are strictly nested: Exit always discards the innermost frame and
// never touches outer bindings, shadowed or not.
type ScopeTable struct {
	global  *Scope
	current *Scope
}

// NewScopeTable creates a table holding only the global scope.
func NewScopeTable() *ScopeTable {
	global := newScope(nil)

	return &ScopeTable{global: global, current: global}
}

// Enter pushes a new innermost scope.
func (t *ScopeTable) Enter() {
	t.current = newScope(t.current)
}

// Exit pops the innermost scope, dropping all of its symbols.
// Exiting the global scope fails with ErrUnbalancedScope.
func (t *ScopeTable) Exit() error {
	if t.current.parent == nil {
		return ErrUnbalancedScope
	}

	t.current = t.current.parent

	return nil
}

// Current returns the innermost scope.
func (t *ScopeTable) Current() *Scope { return t.current }

// Declare binds a symbol in the current scope. Redeclaring a name already
// present in the current scope fails with ErrDuplicateDeclaration, even
// when the type matches; the existing binding is never rebound.
func (t *ScopeTable) Declare(sym *Symbol) error {
	if prev, ok := t.current.symbols[sym.Name]; ok {
		return ErrDuplicateDeclaration.With(
			slog.String("name", sym.Name),
			slog.String("declared", prev.Decl.String()),
		)
	}

	sym.Scope = t.current
	t.current.symbols[sym.Name] = sym

	return nil
}

// Lookup resolves a name by searching from the innermost scope outward.
func (t *ScopeTable) Lookup(name string) (*Symbol, bool) {
	for s := t.current; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// visibleNames returns every name resolvable from the current scope,
// innermost first, without duplicates. Used for suggestion candidates and
// constant environments.
func (t *ScopeTable) visibleNames() []string {
	seen := make(map[string]struct{})
	names := []string{}

	for s := t.current; s != nil; s = s.parent {
		for name := range s.symbols {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}

// visibleConstants returns the constant bindings resolvable from the
// current scope, honoring shadowing (the innermost binding of a name wins,
// even when the shadowing binding is not constant).
func (t *ScopeTable) visibleConstants() []*Symbol {
	seen := make(map[string]struct{})
	consts := []*Symbol{}

	for s := t.current; s != nil; s = s.parent {
		for name, sym := range s.symbols {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}

			if sym.Const && sym.Value != nil {
				consts = append(consts, sym)
			}
		}
	}

	return consts
}
