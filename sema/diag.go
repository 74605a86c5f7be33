package sema

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity classifies a diagnostic as blocking or advisory.
// Errors reject the offending event; warnings never do.
type Severity int

const (
	// SeverityError marks a diagnostic that rejected its event.
	SeverityError Severity = iota

	// SeverityWarning marks an advisory diagnostic.
	SeverityWarning
)

// String returns a string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DiagKind identifies the rule a diagnostic was produced by.
type DiagKind int

const (
	// DiagDuplicateDeclaration reports a name redeclared in the same scope.
	DiagDuplicateDeclaration DiagKind = iota

	// DiagUnknownType reports a reference to an unregistered type.
	DiagUnknownType

	// DiagTypeMismatch reports a value whose type does not match the
	// binding's declared type.
	DiagTypeMismatch

	// DiagImmutableAssignment reports an assignment to an immutable binding
	// after its initializer.
	DiagImmutableAssignment

	// DiagLockedVariableAssignment reports a plain assignment to a lockable
	// binding, which is never permitted.
	DiagLockedVariableAssignment

	// DiagAlreadyLocked reports a second lock-commit on a locked binding.
	DiagAlreadyLocked

	// DiagNonConstantInitializer reports a const initializer that cannot be
	// folded at compile time.
	DiagNonConstantInitializer

	// DiagInvalidIdentifierCharacter reports an identifier containing a
	// character outside [A-Za-z0-9_].
	DiagInvalidIdentifierCharacter

	// DiagUndeclaredName reports a use of a name with no visible binding.
	DiagUndeclaredName

	// DiagNotLockable reports a lock-commit on a non-lockable binding.
	DiagNotLockable

	// DiagNamingConvention reports a casing-convention violation.
	// Always a warning; suppressed entirely under the suppression flag.
	DiagNamingConvention
)

// String returns the kebab-case name of the diagnostic kind.
func (k DiagKind) String() string {
	switch k {
	case DiagDuplicateDeclaration:
		return "duplicate-declaration"
	case DiagUnknownType:
		return "unknown-type"
	case DiagTypeMismatch:
		return "type-mismatch"
	case DiagImmutableAssignment:
		return "immutable-assignment"
	case DiagLockedVariableAssignment:
		return "locked-variable-assignment"
	case DiagAlreadyLocked:
		return "already-locked"
	case DiagNonConstantInitializer:
		return "non-constant-initializer"
	case DiagInvalidIdentifierCharacter:
		return "invalid-identifier-character"
	case DiagUndeclaredName:
		return "undeclared-name"
	case DiagNotLockable:
		return "not-lockable"
	case DiagNamingConvention:
		return "naming-convention"
	default:
		return "unknown"
	}
}

// Pos locates a diagnostic in the analyzed unit's source.
type Pos struct {
	File string
	Line int
	Col  int
}

// IsZero reports whether the position carries no location.
func (p Pos) IsZero() bool { return p.File == "" && p.Line == 0 && p.Col == 0 }

// String renders the position as "file:line:col".
func (p Pos) String() string {
	if p.File == "" {
		return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
	}

	return p.File + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Before reports whether p precedes q in source order.
// Positions in distinct files order lexically by file name.
func (p Pos) Before(q Pos) bool {
	if p.File != q.File {
		return p.File < q.File
	}

	if p.Line != q.Line {
		return p.Line < q.Line
	}

	return p.Col < q.Col
}

// ParsePos parses a "file:line:col" string. The file part may be empty.
func ParsePos(s string) (Pos, error) {
	var p Pos

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return p, fmt.Errorf("malformed position %q", s)
	}

	line, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return p, fmt.Errorf("malformed position %q: %w", s, err)
	}

	col, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return p, fmt.Errorf("malformed position %q: %w", s, err)
	}

	p.File = strings.Join(parts[:len(parts)-2], ":")
	p.Line = line
	p.Col = col

	return p, nil
}

// Diagnostic is a single finding reported against the analyzed unit.
type Diagnostic struct {
	Severity Severity
	Kind     DiagKind
	Site     Pos
	Message  string
}

// String renders the diagnostic in "file:line:col: severity[kind]: message"
// form.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s[%s]: %s", d.Site, d.Severity, d.Kind, d.Message)
}
