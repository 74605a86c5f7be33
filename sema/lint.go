package sema

import (
	"fmt"
	"log/slog"
)

// NameClass selects which casing rule applies to an identifier.
type NameClass int

const (
	// NameVariable covers ordinary variable bindings and struct fields:
	// lowercase_with_underscores.
	NameVariable NameClass = iota

	// NameConstant covers const bindings and top-level lockable bindings:
	// UPPERCASE_WITH_UNDERSCORES.
	NameConstant
)

// Linter classifies identifiers against the Zinc naming conventions.
// Charset violations are always errors; casing violations are warnings,
// and are never generated while suppression is active. The suppression
// flag is fixed at construction and read-only for the pass's lifetime.
type Linter struct {
	suppress bool
}

// NewLinter creates a linter. suppress disables casing warnings entirely.
func NewLinter(suppress bool) Linter {
	return Linter{suppress: suppress}
}

// CheckCharset validates the identifier character set [A-Za-z0-9_].
// Violations are errors independent of the suppression flag.
func CheckCharset(name string) error {
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' || r == '_' {
			continue
		}

		return ErrInvalidIdentifierChar.With(
			slog.String("name", name),
			slog.String("char", string(r)),
		)
	}

	return nil
}

// Check classifies a declared symbol's name and returns a casing warning
// diagnostic, or nil. Charset validation is separate (CheckCharset) since
// it rejects the declaration outright.
func (l Linter) Check(sym *Symbol) *Diagnostic {
	class := NameVariable
	if sym.Const || (sym.Class == Lockable && sym.Scope != nil && sym.Scope.IsGlobal()) {
		class = NameConstant
	}

	return l.checkName(sym.Name, class, sym.Decl)
}

// CheckField classifies a struct field name, which follows the ordinary
// variable convention.
func (l Linter) CheckField(name string, site Pos) *Diagnostic {
	return l.checkName(name, NameVariable, site)
}

func (l Linter) checkName(name string, class NameClass, site Pos) *Diagnostic {
	if l.suppress {
		return nil
	}

	var want string

	switch class {
	case NameConstant:
		if isScreamingSnake(name) {
			return nil
		}

		want = "UPPERCASE_WITH_UNDERSCORES"

	default:
		if isLowerSnake(name) {
			return nil
		}

		want = "lowercase_with_underscores"
	}

	return &Diagnostic{
		Severity: SeverityWarning,
		Kind:     DiagNamingConvention,
		Site:     site,
		Message:  fmt.Sprintf("name %q should be %s", name, want),
	}
}

// isLowerSnake reports whether the name contains no uppercase letters.
// Charset validity is checked separately.
func isLowerSnake(name string) bool {
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			return false
		}
	}

	return true
}

// isScreamingSnake reports whether the name contains no lowercase letters.
func isScreamingSnake(name string) bool {
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			return false
		}
	}

	return true
}
