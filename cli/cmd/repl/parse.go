package repl

import (
	"strings"

	"github.com/zinclang/zinc/sema"
	"github.com/zinclang/zinc/unit"
)

// declKeywords maps declaration keywords to mutability class and constness.
var declKeywords = map[string]struct {
	class sema.MutabilityClass
	con   bool
}{
	"let":   {sema.Immutable, false},
	"var":   {sema.Mutable, false},
	"lock":  {sema.Lockable, false},
	"const": {sema.Immutable, true},
}

// parseLine converts one input line into an analyzer event. Recognized
// forms:
//
//	{                             enter block
//	}                             exit block
//	let name: Type [= expr]       declare immutable
//	var name: Type [= expr]       declare mutable
//	lock name: Type [= expr]      declare lockable
//	const name: Type = expr       declare immutable constant
//	lock name = expr              commit a lockable's value
//	name = expr                   assign
//
// A "lock" line declares when it carries a type annotation and commits
// otherwise.
func parseLine(line string, pos sema.Pos) (sema.Event, error) {
	line = strings.TrimSpace(line)

	switch line {
	case "{":
		return sema.Event{Kind: sema.EventEnterBlock, Pos: pos}, nil
	case "}":
		return sema.Event{Kind: sema.EventExitBlock, Pos: pos}, nil
	}

	word, rest, _ := strings.Cut(line, " ")

	if kw, ok := declKeywords[word]; ok {
		// "lock name = expr" has no type annotation: it commits rather
		// than declares.
		if word != "lock" || annotated(rest) {
			return parseDeclare(rest, kw.class, kw.con, pos)
		}
	}

	if word == "lock" {
		name, expr, ok := splitAssign(rest)
		if !ok {
			return sema.Event{}, ErrParse.because("lock needs '= expr'")
		}

		return sema.Event{
			Kind:  sema.EventLockCommit,
			Pos:   pos,
			Name:  name,
			Value: &sema.Expr{Source: expr},
		}, nil
	}

	name, expr, ok := splitAssign(line)
	if !ok {
		return sema.Event{}, ErrParse.because("expected 'name = expr'")
	}

	return sema.Event{
		Kind:  sema.EventAssign,
		Pos:   pos,
		Name:  name,
		Value: &sema.Expr{Source: expr},
	}, nil
}

// annotated reports whether a declaration body carries a ": Type"
// annotation before any "=".
func annotated(s string) bool {
	colon := strings.Index(s, ":")
	if colon < 0 {
		return false
	}

	eq := strings.Index(s, "=")

	return eq < 0 || colon < eq
}

// parseDeclare parses "name: Type [= expr]".
func parseDeclare(
	s string,
	class sema.MutabilityClass,
	con bool,
	pos sema.Pos,
) (sema.Event, error) {
	head, expr, assigned := splitAssign(s)

	name, typeRef, ok := strings.Cut(head, ":")
	if !ok {
		return sema.Event{}, ErrParse.because("declaration needs ': Type'")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return sema.Event{}, ErrParse.because("declaration needs a name")
	}

	typ, err := unit.ParseTypeRef(strings.TrimSpace(typeRef))
	if err != nil {
		return sema.Event{}, ErrParse.because(err.Error())
	}

	ev := sema.Event{
		Kind:  sema.EventDeclare,
		Pos:   pos,
		Name:  name,
		Type:  typ,
		Class: class,
		Const: con,
	}

	if assigned {
		ev.Init = &sema.Expr{Source: expr}
	}

	return ev, nil
}

// splitAssign splits "lhs = rhs" at the first "=", trimming both sides.
// Reports false when there is no "=" or either side is empty.
func splitAssign(s string) (lhs, rhs string, ok bool) {
	lhs, rhs, ok = strings.Cut(s, "=")
	if !ok {
		return strings.TrimSpace(s), "", false
	}

	lhs = strings.TrimSpace(lhs)
	rhs = strings.TrimSpace(rhs)

	return lhs, rhs, lhs != "" && rhs != ""
}
