package cmd

import (
	"context"

	"github.com/zinclang/zinc/cli/cmd/repl"
)

// Repl starts an interactive declaration analysis session. Type definitions
// may be preloaded from unit files; declarations and assignments entered at
// the prompt are analyzed immediately.
type Repl struct {
	Paths []string `arg:"" help:"Unit file(s) providing type definitions" name:"paths" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := optionsFrom(ctx)

	units, err := loadUnits(r.Paths)
	if err != nil {
		return err
	}

	reg, err := newRegistry(units, opts.EnumNumbering)
	if err != nil {
		return err
	}

	ktx := kongContextFrom(ctx)
	cacheDir := ktx.Model.Vars()[CacheIdentifier]

	return repl.Run(ctx, repl.Options{
		Registry:       reg,
		CacheDir:       cacheDir,
		IgnoreWarnings: opts.IgnoreWarnings,
	})
}
