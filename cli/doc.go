// Package cli contains the command line interface for zinc.
//
// # Commands
//
//   - check: analyze compiled unit files and report diagnostics (default)
//   - dump:  analyze units and print the resulting binding table
//   - repl:  interactive declaration analysis session
//   - init:  write a default configuration file
//
// # Usage
//
//	zinc check main.zn.yaml lib.zn.yaml
//	zinc dump --format=json main.zn.yaml
//	zinc repl
//
// # Configuration
//
// Flags read defaults from a YAML config file in the user config
// directory (e.g. ~/.config/zinc/config.yaml). Keys match flag names with
// hyphens or underscores. Command-line flags override the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o zinc .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
