package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/zinclang/zinc/log"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	values := i.flagValues(ctx)

	data, err := yaml.Marshal(values)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = os.WriteFile(confPath, data, 0o600)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// flagValues collects current values of all persistent flags, keyed by the
// underscore form of the flag name.
func (i *Init) flagValues(ctx context.Context) map[string]any {
	ktx := kongContextFrom(ctx)

	values := make(map[string]any)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden ||
			flag.Name == "help" ||
			strings.HasPrefix(flag.Name, "pprof") {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil {
			continue
		}

		key := strings.ReplaceAll(flag.Name, "-", "_")

		switch v := val.(type) {
		case bool:
			values[key] = v

		case string:
			if v == "" {
				continue
			}

			values[key] = v

		case fmt.Stringer:
			if v.String() == "" {
				continue
			}

			values[key] = v.String()

		default:
			values[key] = fmt.Sprint(v)
		}
	}

	return values
}
