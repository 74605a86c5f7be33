package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/zinclang/zinc/log"
	"github.com/zinclang/zinc/report"
	"github.com/zinclang/zinc/sema"
)

// Check analyzes compiled unit files and reports diagnostics.
//
// All units' type definitions are registered into one shared registry
// before any unit's events are analyzed, so cross-unit type references
// resolve regardless of file order. Units are then analyzed concurrently.
type Check struct {
	Paths []string `arg:"" help:"Compiled unit file(s) to analyze" name:"paths" type:"existingfile"`

	Color bool `default:"true" help:"Colorize diagnostic output" negatable:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if len(c.Paths) == 0 {
		return ErrNoUnits
	}

	opts := optionsFrom(ctx)

	units, err := loadUnits(c.Paths)
	if err != nil {
		return err
	}

	reg, err := newRegistry(units, opts.EnumNumbering)
	if err != nil {
		return err
	}

	results, err := analyzeAll(reg, units, opts.IgnoreWarnings)
	if err != nil {
		return err
	}

	var diags []sema.Diagnostic

	bindings := 0

	for _, res := range results {
		diags = append(diags, res.Diags...)
		bindings += len(res.Bindings)

		log.DebugContext(ctx, "unit analyzed",
			slog.String("unit", res.Unit.Path),
			slog.Int("events", len(res.Unit.Events)),
			slog.Int("bindings", len(res.Bindings)),
			slog.Int("diagnostics", len(res.Diags)),
		)
	}

	writer := report.New(os.Stdout, report.WithColor(c.Color))
	if err := writer.PrintAll(diags); err != nil {
		return err
	}

	errs, warns := report.Count(diags)

	log.InfoContext(ctx, "analysis complete",
		slog.Int("units", len(units)),
		slog.Int("bindings", bindings),
		slog.Int("errors", errs),
		slog.Int("warnings", warns),
	)

	if errs > 0 {
		return ErrAnalysisFailed.
			With(slog.Int("errors", errs))
	}

	return nil
}
