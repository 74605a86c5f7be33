package cmd

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/zinclang/zinc/sema"
	"github.com/zinclang/zinc/unit"
)

// Kong interpolation variable identifiers shared with the cli package.
const (
	ConfigIdentifier = "config"
	CacheIdentifier  = "cache"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Options carries the global analysis flags shared by all commands.
type Options struct {
	IgnoreWarnings bool
	EnumNumbering  string
}

type optionsKey struct{}

// WithOptions returns a new context.Context containing the given Options.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)

	return opts
}

// numberingMode maps the --enum-numbering flag value to its registry mode.
func numberingMode(s string) sema.EnumNumbering {
	if s == "continue" {
		return sema.NumberContinue
	}

	return sema.NumberOrdinal
}

// loadUnits decodes each unit file in order.
func loadUnits(paths []string) ([]*unit.Unit, error) {
	units := make([]*unit.Unit, 0, len(paths))

	for _, path := range paths {
		u, err := unit.LoadFile(path)
		if err != nil {
			return nil, ErrLoadUnit.
				With(slog.String("file", path)).
				Wrap(err)
		}

		units = append(units, u)
	}

	return units, nil
}

// newRegistry registers every unit's type definitions into a fresh registry
// and freezes it. Registration is a strictly-preceding phase: analysis only
// ever sees a frozen registry.
func newRegistry(
	units []*unit.Unit,
	numbering string,
) (*sema.Registry, error) {
	reg := sema.NewRegistry(sema.WithEnumNumbering(numberingMode(numbering)))

	for _, u := range units {
		if err := u.Register(reg); err != nil {
			return nil, ErrRegisterTypes.
				With(slog.String("unit", u.Path)).
				Wrap(err)
		}
	}

	reg.Freeze()

	return reg, nil
}

// unitResult is the outcome of analyzing one unit.
type unitResult struct {
	Unit     *unit.Unit
	Diags    []sema.Diagnostic
	Bindings []sema.Binding
}

// analyzeUnit runs one unit's event stream through a fresh analyzer.
// Diagnostics from type and field name linting precede event diagnostics.
func analyzeUnit(
	reg *sema.Registry,
	u *unit.Unit,
	ignoreWarnings bool,
) (unitResult, error) {
	a, err := sema.New(reg,
		sema.WithSuppressNamingWarnings(ignoreWarnings))
	if err != nil {
		return unitResult{}, err
	}

	diags := u.LintNames(sema.NewLinter(ignoreWarnings))

	for _, ev := range u.Events {
		if err := a.Process(ev); err != nil {
			return unitResult{}, ErrMalformedStream.
				With(slog.String("unit", u.Path)).
				Wrap(err)
		}
	}

	return unitResult{
		Unit:     u,
		Diags:    append(diags, a.Diagnostics()...),
		Bindings: a.Bindings(),
	}, nil
}

// analyzeAll analyzes every unit concurrently against the shared frozen
// registry and returns the per-unit results in input order.
func analyzeAll(
	reg *sema.Registry,
	units []*unit.Unit,
	ignoreWarnings bool,
) ([]unitResult, error) {
	results := make([]unitResult, len(units))
	errs := make([]error, len(units))

	var wg sync.WaitGroup

	for i, u := range units {
		wg.Add(1)

		go func(i int, u *unit.Unit) {
			defer wg.Done()

			results[i], errs[i] = analyzeUnit(reg, u, ignoreWarnings)
		}(i, u)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
