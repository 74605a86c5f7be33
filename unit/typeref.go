package unit

import (
	"fmt"
	"strings"

	"github.com/zinclang/zinc/sema"
)

// ParseTypeRef parses a compact type reference as it appears in unit
// documents, e.g. "i32", "Vector<i32>", "Map<string, Vector<i32>>".
// This is interchange-format plumbing, not Zinc parsing: the reference
// grammar is just a name with optionally nested angle-bracketed arguments.
func ParseTypeRef(s string) (sema.Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return sema.Type{}, fmt.Errorf("empty type reference")
	}

	open := strings.IndexByte(s, '<')
	if open < 0 {
		if strings.ContainsAny(s, ">,") {
			return sema.Type{}, fmt.Errorf("malformed type reference %q", s)
		}

		return sema.NamedType(s), nil
	}

	if !strings.HasSuffix(s, ">") {
		return sema.Type{}, fmt.Errorf("unbalanced angle brackets in %q", s)
	}

	name := strings.TrimSpace(s[:open])
	if name == "" {
		return sema.Type{}, fmt.Errorf("malformed type reference %q", s)
	}

	args, err := splitArgs(s[open+1 : len(s)-1])
	if err != nil {
		return sema.Type{}, fmt.Errorf("in %q: %w", s, err)
	}

	t := sema.Type{Name: name, Args: make([]sema.Type, len(args))}

	for i, arg := range args {
		t.Args[i], err = ParseTypeRef(arg)
		if err != nil {
			return sema.Type{}, err
		}
	}

	return t, nil
}

// splitArgs splits a type-argument list on commas at nesting depth zero.
func splitArgs(s string) ([]string, error) {
	var (
		args  []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '<':
			depth++

		case '>':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced angle brackets")
			}

		case ',':
			if depth == 0 {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unbalanced angle brackets")
	}

	return append(args, s[start:]), nil
}
