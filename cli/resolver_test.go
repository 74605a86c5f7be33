package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveString(t *testing.T, src string) kong.Resolver {
	t.Helper()

	resolver, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	return resolver
}

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func TestResolve_FlagValues(t *testing.T) {
	resolver := resolveString(t, `
log_level: debug
log_format: text
ignore_warnings: true
`)

	val, err := resolver.Resolve(nil, nil, flagNamed("log_level"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "debug" {
		t.Errorf("log_level = %v, want debug", val)
	}

	val, err = resolver.Resolve(nil, nil, flagNamed("ignore_warnings"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != true {
		t.Errorf("ignore_warnings = %v, want true", val)
	}
}

func TestResolve_HyphenUnderscoreMapping(t *testing.T) {
	resolver := resolveString(t, `log_level: warn`)

	// Kong flag names use hyphens; config keys use underscores.
	val, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != "warn" {
		t.Errorf("log-level = %v, want warn", val)
	}
}

func TestResolve_MissingKey(t *testing.T) {
	resolver := resolveString(t, `log_level: info`)

	val, err := resolver.Resolve(nil, nil, flagNamed("enum-numbering"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("missing key resolved to %v, want nil", val)
	}
}

func TestResolve_NumbersAsStrings(t *testing.T) {
	resolver := resolveString(t, `width: 80`)

	val, err := resolver.Resolve(nil, nil, flagNamed("width"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Kong parses flag values from strings.
	if val != "80" {
		t.Errorf("width = %v (%T), want \"80\"", val, val)
	}
}

func TestResolve_MalformedConfig(t *testing.T) {
	resolver := resolveString(t, "::: not yaml {{{")

	val, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if val != nil {
		t.Errorf("malformed config resolved to %v, want nil", val)
	}
}
