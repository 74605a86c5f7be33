package sema

import "log/slog"

// MutabilityClass is the assignability class fixed at declaration.
// The three classes are mutually exclusive and carry different temporal
// rules, so they are modeled as a tagged value rather than a boolean.
type MutabilityClass int

const (
	// Immutable bindings accept exactly one initializing assignment,
	// coincident with declaration.
	Immutable MutabilityClass = iota

	// Mutable bindings accept any number of assignments of exactly the
	// declared type.
	Mutable

	// Lockable bindings take a mandatory default at declaration and accept
	// exactly one lock-commit; plain assignment is never permitted.
	Lockable
)

// String returns the Zinc keyword for the mutability class.
func (c MutabilityClass) String() string {
	switch c {
	case Immutable:
		return "let"
	case Mutable:
		return "var"
	case Lockable:
		return "lock"
	default:
		return "unknown"
	}
}

// LockState is the lifecycle state attached to Lockable symbols.
// The only transition is Unset to Locked, exactly once.
type LockState int

const (
	// LockNone is the state of non-lockable symbols.
	LockNone LockState = iota

	// LockUnset is a lockable symbol before its lock-commit.
	LockUnset

	// Locked is terminal.
	Locked
)

// String returns a string representation of the lock state.
func (s LockState) String() string {
	switch s {
	case LockNone:
		return "none"
	case LockUnset:
		return "unset"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Symbol is a declared binding: the irreversible association of a name with
// a type and mutability class within a scope. Name and Type never change
// for the symbol's lifetime.
type Symbol struct {
	Name  string
	Type  Type
	Class MutabilityClass
	Const bool
	Lock  LockState
	Value *Literal // current value when constant-foldable, else nil
	Scope *Scope
	Decl  Pos
}

// checkAssign enforces the per-class assignment rules for a plain "="
// assignment. It reports the violation without mutating the symbol.
func (s *Symbol) checkAssign() error {
	switch s.Class {
	case Mutable:
		return nil

	case Lockable:
		// Plain reassignment is rejected regardless of lock state; only the
		// lock-commit operation may change a lockable binding's value.
		return ErrLockedVariableAssignment.With(
			slog.String("name", s.Name),
			slog.String("state", s.Lock.String()),
		)

	default:
		return ErrImmutableAssignment.With(
			slog.String("name", s.Name),
			slog.String("declared", s.Decl.String()),
		)
	}
}

// commitLock performs the one-time Unset to Locked transition, storing the
// committed value. Any commit after the first fails with ErrAlreadyLocked
// and leaves the stored value intact.
func (s *Symbol) commitLock(value *Literal) error {
	if s.Class != Lockable {
		return ErrNotLockable.With(
			slog.String("name", s.Name),
			slog.String("class", s.Class.String()),
		)
	}

	if s.Lock == Locked {
		return ErrAlreadyLocked.With(slog.String("name", s.Name))
	}

	s.Lock = Locked
	s.Value = value

	return nil
}
