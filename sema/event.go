package sema

// EventKind discriminates the event types produced by the parsing
// collaborator.
type EventKind int

const (
	// EventDeclare introduces a new binding in the current scope.
	EventDeclare EventKind = iota

	// EventAssign is a plain "=" assignment to an existing binding.
	EventAssign

	// EventLockCommit is the one-time "set" operation on a lockable binding.
	EventLockCommit

	// EventEnterBlock opens a nested lexical scope.
	EventEnterBlock

	// EventExitBlock closes the innermost scope.
	EventExitBlock
)

// String returns a string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventDeclare:
		return "declare"
	case EventAssign:
		return "assign"
	case EventLockCommit:
		return "lock"
	case EventEnterBlock:
		return "enter"
	case EventExitBlock:
		return "exit"
	default:
		return "unknown"
	}
}

// Expr is an expression handed over by the parsing collaborator.
// Source is the verbatim expression text, compiled with expr-lang when a
// compile-time value is needed. TypeHint is the static type assigned by the
// collaborator's type pass; it is consulted only when the expression does
// not fold to a literal.
type Expr struct {
	Source   string
	TypeHint *Type
}

// Event is one element of the ordered declaration/assignment/lock stream
// the analyzer consumes. Fields beyond Kind, Pos are populated per kind:
//
//   - EventDeclare: Name, Type, Class, Const, Init (nil means type default)
//   - EventAssign: Name, Value
//   - EventLockCommit: Name, Value
//   - EventEnterBlock, EventExitBlock: position only
type Event struct {
	Kind  EventKind
	Pos   Pos
	Name  string
	Type  Type
	Class MutabilityClass
	Const bool
	Init  *Expr
	Value *Expr
}
