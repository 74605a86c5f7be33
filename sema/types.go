package sema

import (
	"log/slog"
	"strings"
)

// Type is a structural reference to a registered type: a name plus zero or
// more type arguments. Two types are equal iff their names and argument
// lists match structurally.
type Type struct {
	Name string
	Args []Type
}

// NamedType constructs a type reference with no arguments.
func NamedType(name string) Type { return Type{Name: name} }

// String renders the type in Zinc source form, e.g. "Map<string, i32>".
func (t Type) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}

	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}

	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// Equal reports structural equality of two type references.
func (t Type) Equal(o Type) bool {
	if t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}

	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}

	return true
}

// IsZero reports whether the reference names no type.
func (t Type) IsZero() bool { return t.Name == "" }

// TypeKind discriminates registered type descriptors.
type TypeKind int

const (
	// TypePrimitive covers the built-in scalar types.
	TypePrimitive TypeKind = iota

	// TypeContainer covers the parameterized collection types, treated as
	// opaque beyond their arity.
	TypeContainer

	// TypeStruct covers user-defined record types.
	TypeStruct

	// TypeEnum covers user-defined enumerations.
	TypeEnum
)

// Field is a named, typed member of a struct descriptor.
type Field struct {
	Name string
	Type Type
}

// VariantSpec describes one enum variant as written in source.
// Value is nil when the variant carries no explicit literal.
type VariantSpec struct {
	Name  string
	Value *int64
}

// Variant is a numbered enum variant after registration.
type Variant struct {
	Name     string
	Value    int64
	Explicit bool
}

// Descriptor describes a type for registration.
type Descriptor struct {
	Kind     TypeKind
	Name     string
	Arity    int           // container type parameters
	Fields   []Field       // struct members
	Variants []VariantSpec // enum variants
}

// entry is a registered descriptor with resolved enum numbering.
type entry struct {
	desc     Descriptor
	variants []Variant
}

// EnumNumbering selects how unassigned enum variants are numbered after an
// explicit value.
type EnumNumbering int

const (
	// NumberOrdinal numbers each unassigned variant by its ordinal position,
	// independent of any explicit values. This is the default.
	NumberOrdinal EnumNumbering = iota

	// NumberContinue numbers each unassigned variant one past the previous
	// variant's value.
	NumberContinue
)

// Registry catalogs primitive and user-defined types, their default values,
// and compatibility rules. It is populated once, frozen, and thereafter
// safe for concurrent read by independent analyzers.
type Registry struct {
	types     map[string]entry
	numbering EnumNumbering
	frozen    bool
}

// RegistryOption applies a configuration option to a Registry.
type RegistryOption func(*Registry)

// WithEnumNumbering selects the enum variant numbering mode.
func WithEnumNumbering(mode EnumNumbering) RegistryOption {
	return func(r *Registry) { r.numbering = mode }
}

// signedInts and friends partition the primitive type names by literal
// compatibility.
var (
	integerTypes = []string{"i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64"}
	floatTypes   = []string{"f32", "f64"}
)

// NewRegistry creates a registry pre-populated with the Zinc primitive and
// container types.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{types: make(map[string]entry)}

	for _, opt := range opts {
		opt(r)
	}

	for _, name := range integerTypes {
		r.types[name] = entry{desc: Descriptor{Kind: TypePrimitive, Name: name}}
	}

	for _, name := range floatTypes {
		r.types[name] = entry{desc: Descriptor{Kind: TypePrimitive, Name: name}}
	}

	for _, name := range []string{"bool", "string", "char"} {
		r.types[name] = entry{desc: Descriptor{Kind: TypePrimitive, Name: name}}
	}

	for name, arity := range map[string]int{"Vector": 1, "List": 1, "Map": 2} {
		r.types[name] = entry{desc: Descriptor{Kind: TypeContainer, Name: name, Arity: arity}}
	}

	return r
}

// Register catalogs a type descriptor. Registration is idempotent for
// structurally identical descriptors; re-registering a name with a
// different descriptor fails with ErrTypeRedefinition. Registering on a
// frozen registry fails with ErrRegistryFrozen.
func (r *Registry) Register(desc Descriptor) error {
	if r.frozen {
		return ErrRegistryFrozen.With(slog.String("type", desc.Name))
	}

	if prev, ok := r.types[desc.Name]; ok {
		if descriptorsEqual(prev.desc, desc) {
			return nil
		}

		return ErrTypeRedefinition.With(slog.String("type", desc.Name))
	}

	e := entry{desc: desc}

	if desc.Kind == TypeEnum {
		e.variants = r.numberVariants(desc.Variants)
	}

	// Struct field types must already be visible; the analyzed unit defines
	// types in source order.
	for _, f := range desc.Fields {
		if err := r.resolve(f.Type); err != nil {
			return WrapError(err).With(
				slog.String("type", desc.Name),
				slog.String("field", f.Name),
			)
		}
	}

	r.types[desc.Name] = e

	return nil
}

// numberVariants assigns values to enum variants according to the
// configured numbering mode.
func (r *Registry) numberVariants(specs []VariantSpec) []Variant {
	variants := make([]Variant, len(specs))
	next := int64(0)

	for i, spec := range specs {
		switch {
		case spec.Value != nil:
			variants[i] = Variant{Name: spec.Name, Value: *spec.Value, Explicit: true}
			next = *spec.Value + 1

		case r.numbering == NumberContinue:
			variants[i] = Variant{Name: spec.Name, Value: next}
			next++

		default: // NumberOrdinal
			variants[i] = Variant{Name: spec.Name, Value: int64(i)}
			next = int64(i) + 1
		}
	}

	return variants
}

// Freeze makes the registry read-only. Analysis requires a frozen registry.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool { return r.frozen }

// Resolve verifies that a type reference names a registered type with the
// correct number of arguments, recursively. A dangling name fails with
// ErrUnknownType.
func (r *Registry) Resolve(t Type) error {
	return r.resolve(t)
}

func (r *Registry) resolve(t Type) error {
	e, ok := r.types[t.Name]
	if !ok {
		return ErrUnknownType.With(slog.String("type", t.Name))
	}

	if len(t.Args) != e.desc.Arity {
		return ErrUnknownType.With(
			slog.String("type", t.String()),
			slog.Int("want_args", e.desc.Arity),
			slog.Int("got_args", len(t.Args)),
		)
	}

	for _, arg := range t.Args {
		if err := r.resolve(arg); err != nil {
			return err
		}
	}

	return nil
}

// Default returns the documented default value for a registered type:
// zero for numeric types, the empty string, false, the null character, an
// empty aggregate for containers, per-field defaults for structs, and the
// first variant's value for enums.
func (r *Registry) Default(t Type) (Literal, error) {
	e, ok := r.types[t.Name]
	if !ok {
		return Literal{}, ErrUnknownType.With(slog.String("type", t.Name))
	}

	switch e.desc.Kind {
	case TypePrimitive:
		return primitiveDefault(t.Name), nil

	case TypeContainer:
		if t.Name == "Map" {
			return EmptyMap(), nil
		}

		return EmptyList(), nil

	case TypeStruct:
		fields := make(map[string]Literal, len(e.desc.Fields))

		for _, f := range e.desc.Fields {
			lit, err := r.Default(f.Type)
			if err != nil {
				return Literal{}, err
			}

			fields[f.Name] = lit
		}

		return Literal{Kind: LitMap, Value: fields}, nil

	case TypeEnum:
		if len(e.variants) == 0 {
			return IntLit(0), nil
		}

		return IntLit(e.variants[0].Value), nil

	default:
		return Literal{}, ErrUnknownType.With(slog.String("type", t.Name))
	}
}

// primitiveDefault returns the default literal for a primitive type name.
func primitiveDefault(name string) Literal {
	switch name {
	case "bool":
		return BoolLit(false)
	case "string":
		return StringLit("")
	case "char":
		return CharLit(0)
	case "f32", "f64":
		return FloatLit(0)
	default:
		return IntLit(0)
	}
}

// Compatible reports whether a folded literal is an exact match for the
// declared type. Containers are opaque: any list literal matches Vector and
// List, any map literal matches Map and struct types.
func (r *Registry) Compatible(t Type, lit Literal) bool {
	e, ok := r.types[t.Name]
	if !ok {
		return false
	}

	switch e.desc.Kind {
	case TypeEnum:
		if lit.Kind != LitInt {
			return false
		}

		for _, v := range e.variants {
			if v.Value == lit.Int() {
				return true
			}
		}

		return false

	case TypeContainer:
		if t.Name == "Map" {
			return lit.Kind == LitMap
		}

		return lit.Kind == LitList

	case TypeStruct:
		return lit.Kind == LitMap

	default:
		return primitiveCompatible(t.Name, lit)
	}
}

// primitiveCompatible matches a literal kind against a primitive type name.
// A one-character string literal satisfies char, since the expression
// engine has no character literal form.
func primitiveCompatible(name string, lit Literal) bool {
	switch name {
	case "bool":
		return lit.Kind == LitBool

	case "string":
		return lit.Kind == LitString

	case "char":
		if lit.Kind == LitChar {
			return true
		}

		s, ok := lit.Value.(string)

		return lit.Kind == LitString && ok && len([]rune(s)) == 1

	case "f32", "f64":
		return lit.Kind == LitFloat

	default:
		return lit.Kind == LitInt
	}
}

// Variants returns the numbered variants of a registered enum type, or nil
// for any other type.
func (r *Registry) Variants(name string) []Variant {
	e, ok := r.types[name]
	if !ok || e.desc.Kind != TypeEnum {
		return nil
	}

	return e.variants
}

// Names returns the sorted names of all registered types.
func (r *Registry) Names() []string {
	return sortedKeys(r.types)
}

// enumEnv builds the enum-variant lookup environment for constant
// evaluation: each enum name maps to a variant-name/value map.
func (r *Registry) enumEnv() map[string]any {
	env := make(map[string]any)

	for name, e := range r.types {
		if e.desc.Kind != TypeEnum {
			continue
		}

		variants := make(map[string]any, len(e.variants))
		for _, v := range e.variants {
			variants[v.Name] = v.Value
		}

		env[name] = variants
	}

	return env
}

// descriptorsEqual reports structural equality of two descriptors.
func descriptorsEqual(a, b Descriptor) bool {
	if a.Kind != b.Kind || a.Name != b.Name || a.Arity != b.Arity {
		return false
	}

	if len(a.Fields) != len(b.Fields) || len(a.Variants) != len(b.Variants) {
		return false
	}

	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name ||
			!a.Fields[i].Type.Equal(b.Fields[i].Type) {
			return false
		}
	}

	for i := range a.Variants {
		if a.Variants[i].Name != b.Variants[i].Name {
			return false
		}

		av, bv := a.Variants[i].Value, b.Variants[i].Value
		if (av == nil) != (bv == nil) {
			return false
		}

		if av != nil && *av != *bv {
			return false
		}
	}

	return true
}
