package sema

import (
	"log/slog"

	"github.com/expr-lang/expr"
)

// Constant evaluation reduces compile-time-only expressions to literal
// values. An expression is constant iff it is closed over literals,
// operators on literals, string concatenation, previously-declared
// constants, and enum-variant value lookup. Anything else (a runtime
// variable, a function call, an unknown name) fails to compile against
// the restricted environment and is reported as not constant.

// constEnv builds the evaluation environment visible at the analyzer's
// current position: constant bindings resolvable from the current scope
// (innermost binding wins) plus the registry's enum variant maps.
func (a *Analyzer) constEnv() map[string]any {
	env := a.registry.enumEnv()

	for _, sym := range a.scopes.visibleConstants() {
		if _, exists := env[sym.Name]; !exists {
			env[sym.Name] = sym.Value.Native()
		}
	}

	return env
}

// evalConst compiles and runs an expression against the constant
// environment. It returns the folded literal, or ErrNotConstant when the
// expression does not reduce at compile time.
func (a *Analyzer) evalConst(e Expr) (Literal, error) {
	if e.Source == "" {
		return Literal{}, ErrNotConstant.With(slog.String("source", e.Source))
	}

	env := a.constEnv()

	program, err := expr.Compile(e.Source, expr.Env(env))
	if err != nil {
		return Literal{}, ErrNotConstant.Wrap(err).
			With(slog.String("source", e.Source))
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return Literal{}, ErrNotConstant.Wrap(err).
			With(slog.String("source", e.Source))
	}

	lit, ok := literalFromAny(result)
	if !ok {
		return Literal{}, ErrNotConstant.With(
			slog.String("source", e.Source),
			slog.String("result_type", resultTypeName(result)),
		)
	}

	return lit, nil
}

// foldValue attempts constant folding of an expression and falls back to
// the collaborator's type hint. It returns the folded literal (nil when
// the expression is runtime-only) and whether the value is an exact match
// for the expected type.
func (a *Analyzer) foldValue(e Expr, want Type) (*Literal, bool) {
	lit, err := a.evalConst(e)
	if err == nil {
		return &lit, a.registry.Compatible(want, lit)
	}

	if e.TypeHint != nil {
		return nil, e.TypeHint.Equal(want)
	}

	// No fold and no hint: the collaborator gave us nothing to check
	// against, so accept the assignment with an unknown value.
	return nil, true
}
