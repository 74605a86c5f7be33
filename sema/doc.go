// Package sema implements the Zinc declaration and mutability semantic
// core: symbol resolution and per-binding state tracking over the ordered
// event stream a parsing collaborator produces for one compiled unit.
//
// # Model
//
// A declaration couples a binding's name, type, and mutability class in one
// irreversible statement. The three classes are mutually exclusive and
// carry different temporal rules:
//
//   - Immutable (let): one initializing assignment, at declaration.
//   - Mutable (var): any number of assignments of exactly the declared type.
//   - Lockable (lock): mandatory default at declaration, no plain
//     reassignment ever, exactly one lock-commit fixing the final value.
//
// const declarations are immutable bindings whose initializer must fold to
// a literal at compile time; their value is inlined wherever referenced.
//
// # Components
//
//   - [Registry]: catalogs primitive and user-defined types, their default
//     values, and compatibility rules. Populated in a strictly-preceding
//     phase and frozen before analysis.
//   - Constant evaluation: const initializers and checked values are
//     expr-lang sources compiled against an environment restricted to
//     visible constants and enum variant values; anything else is not
//     constant.
//   - [ScopeTable]: nested lexical frames with shadowing and LIFO exit.
//   - [Symbol]: the per-binding state machine, including the one-way
//     Unset to Locked transition of lockable bindings.
//   - [Linter]: naming-convention classification, never blocking; casing
//     warnings honor a single suppression flag fixed before the pass.
//   - [Analyzer]: the orchestrator. Failing events produce an Error
//     diagnostic and are not applied; the pass continues so one run
//     reports every defect.
//
// # Concurrency
//
// One analyzer processes one unit, strictly sequentially: later events'
// correctness depends on all prior events in program order. Independent
// units may run in parallel over a shared frozen [Registry].
package sema
