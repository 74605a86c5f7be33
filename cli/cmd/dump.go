package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/zinclang/zinc/sema"
)

// Dump analyzes units and prints the resulting binding table, the read-only
// view downstream code generation consumes. Units with analysis errors
// cannot be dumped.
type Dump struct {
	Paths []string `arg:"" help:"Compiled unit file(s) to analyze" name:"paths" type:"existingfile"`

	Format string `default:"yaml" enum:"yaml,json" help:"Output format" short:"o"`
}

// bindingRecord is one serialized row of the binding table.
type bindingRecord struct {
	Unit  string `json:"unit"            yaml:"unit"`
	Site  string `json:"site"            yaml:"site"`
	Name  string `json:"name"            yaml:"name"`
	Type  string `json:"type"            yaml:"type"`
	Class string `json:"class"           yaml:"class"`
	Const bool   `json:"const,omitempty" yaml:"const,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if len(d.Paths) == 0 {
		return ErrNoUnits
	}

	opts := optionsFrom(ctx)

	units, err := loadUnits(d.Paths)
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

	var records []bindingRecord

	for _, res := range results {
		for _, diag := range res.Diags {
			if diag.Severity == sema.SeverityError {
				return ErrAnalysisFailed.
					With(slog.String("unit", res.Unit.Path)).
					With(slog.String("site", diag.Site.String())).
					With(slog.String("message", diag.Message))
			}
		}

		for _, b := range res.Bindings {
			rec := bindingRecord{
				Unit:  res.Unit.Path,
				Site:  b.Site.String(),
				Name:  b.Name,
				Type:  b.Type.String(),
				Class: b.Class.String(),
				Const: b.Const,
			}

			if b.Value != nil {
				rec.Value = b.Value.String()
			}

			records = append(records, rec)
		}
	}

	var data []byte

	switch d.Format {
	case "json":
		data, err = json.MarshalIndent(records, "", "  ")
	default:
		data, err = yaml.Marshal(records)
	}

	if err != nil {
		return ErrMarshal.Wrap(err)
	}

	_, err = fmt.Fprintln(os.Stdout, string(data))

	return err
}
