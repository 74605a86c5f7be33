// Package cmd implements the zinc subcommands.
//
// Every command follows the same pipeline: decode unit files, register all
// type definitions into one shared registry, freeze it, then analyze each
// unit's event stream with its own analyzer. Units are independent after
// registration, so analysis runs concurrently.
//
//   - [Check] reports diagnostics and fails when any are errors
//   - [Dump] serializes the binding table for downstream tooling
//   - [Repl] analyzes declarations interactively
//   - [Init] writes a default configuration file
package cmd
