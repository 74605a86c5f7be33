// Package unit decodes compiled-unit documents: the YAML interchange format
// the parsing collaborator uses to hand the semantic core one unit's type
// definitions and its ordered declaration/assignment/lock event stream.
//
// A unit document looks like:
//
//	unit: main.zn
//	types:
//	  - enum: Color
//	    variants: [Red, Green, Blue]
//	  - struct: point
//	    fields:
//	      - {name: x, type: i32}
//	      - {name: y, type: i32}
//	events:
//	  - declare: {name: MAX, type: i32, class: const, init: "2 + 2", at: "main.zn:1:1"}
//	  - declare: {name: count, type: i32, class: var, init: "0", at: "main.zn:2:1"}
//	  - enter: {at: "main.zn:3:1"}
//	  - assign: {name: count, value: "count + 1", type: i32, at: "main.zn:4:3"}
//	  - exit: {at: "main.zn:5:1"}
//
// Enum variants are either bare names or {name, value} pairs with an
// explicit literal value. The optional "type" on assign/lock entries and
// "init_type" on declare entries carry the collaborator's static type for
// expressions that do not fold to a literal.
package unit

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/zinclang/zinc/sema"
)

// TypeDef is one user-defined type from a unit document, with the site of
// its definition for diagnostics.
type TypeDef struct {
	Desc sema.Descriptor
	Site sema.Pos
}

// Unit is a decoded compiled-unit document.
type Unit struct {
	Path   string
	Types  []TypeDef
	Events []sema.Event
}

// document is the raw YAML shape of a unit file.
type document struct {
	Unit   string     `yaml:"unit"`
	Types  []typeDoc  `yaml:"types"`
	Events []eventDoc `yaml:"events"`
}

type typeDoc struct {
	Enum     string       `yaml:"enum"`
	Struct   string       `yaml:"struct"`
	Variants []variantDoc `yaml:"variants"`
	Fields   []fieldDoc   `yaml:"fields"`
	At       string       `yaml:"at"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// variantDoc accepts either a bare variant name or a {name, value} pair.
type variantDoc struct {
	Name  string `yaml:"name"`
	Value *int64 `yaml:"value"`
}

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (v *variantDoc) UnmarshalYAML(b []byte) error {
	var name string
	if err := yaml.Unmarshal(b, &name); err == nil {
		v.Name = name
		v.Value = nil

		return nil
	}

	type plain variantDoc

	var p plain
	if err := yaml.Unmarshal(b, &p); err != nil {
		return err
	}

	*v = variantDoc(p)

	return nil
}

type eventDoc struct {
	Declare *declareDoc `yaml:"declare"`
	Assign  *valueDoc   `yaml:"assign"`
	Lock    *valueDoc   `yaml:"lock"`
	Enter   *markDoc    `yaml:"enter"`
	Exit    *markDoc    `yaml:"exit"`
}

type declareDoc struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Class    string  `yaml:"class"`
	Init     *string `yaml:"init"`
	InitType string  `yaml:"init_type"`
	At       string  `yaml:"at"`
}

type valueDoc struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Type  string `yaml:"type"`
	At    string `yaml:"at"`
}

type markDoc struct {
	At string `yaml:"at"`
}

// Load decodes a unit document from r. path labels the document in errors
// and defaults positions' file component.
func Load(r io.Reader, path string) (*Unit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read unit %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode unit %s: %w", path, err)
	}

	u := &Unit{Path: doc.Unit}
	if u.Path == "" {
		u.Path = path
	}

	for i, td := range doc.Types {
		def, err := decodeType(td, u.Path)
		if err != nil {
			return nil, fmt.Errorf("unit %s: type %d: %w", path, i, err)
		}

		u.Types = append(u.Types, def)
	}

	for i, ed := range doc.Events {
		ev, err := decodeEvent(ed, u.Path)
		if err != nil {
			return nil, fmt.Errorf("unit %s: event %d: %w", path, i, err)
		}

		u.Events = append(u.Events, ev)
	}

	return u, nil
}

// LoadFile decodes the unit document at path.
func LoadFile(path string) (*Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f, path)
}

// Register catalogs the unit's type definitions into reg, in document
// order. It must run before the registry is frozen.
func (u *Unit) Register(reg *sema.Registry) error {
	for _, def := range u.Types {
		if err := reg.Register(def.Desc); err != nil {
			return fmt.Errorf("type %q at %s: %w", def.Desc.Name, def.Site, err)
		}
	}

	return nil
}

// LintNames runs the identifier checks the analyzer cannot see: type names
// and struct field names defined by this unit. Charset violations are
// Error diagnostics; casing issues are warnings subject to the linter's
// suppression flag.
func (u *Unit) LintNames(l sema.Linter) []sema.Diagnostic {
	var diags []sema.Diagnostic

	for _, def := range u.Types {
		if err := sema.CheckCharset(def.Desc.Name); err != nil {
			diags = append(diags, sema.Diagnostic{
				Severity: sema.SeverityError,
				Kind:     sema.DiagInvalidIdentifierCharacter,
				Site:     def.Site,
				Message: fmt.Sprintf("invalid character in type name %q",
					def.Desc.Name),
			})
		}

		for _, f := range def.Desc.Fields {
			if err := sema.CheckCharset(f.Name); err != nil {
				diags = append(diags, sema.Diagnostic{
					Severity: sema.SeverityError,
					Kind:     sema.DiagInvalidIdentifierCharacter,
					Site:     def.Site,
					Message: fmt.Sprintf("invalid character in field name %q",
						f.Name),
				})

				continue
			}

			if diag := l.CheckField(f.Name, def.Site); diag != nil {
				diags = append(diags, *diag)
			}
		}
	}

	return diags
}

// decodeType converts a raw type entry into a descriptor.
func decodeType(td typeDoc, file string) (TypeDef, error) {
	var def TypeDef

	site, err := decodePos(td.At, file)
	if err != nil {
		return def, err
	}

	def.Site = site

	switch {
	case td.Enum != "" && td.Struct != "":
		return def, fmt.Errorf("entry is both enum %q and struct %q",
			td.Enum, td.Struct)

	case td.Enum != "":
		def.Desc = sema.Descriptor{Kind: sema.TypeEnum, Name: td.Enum}

		for _, v := range td.Variants {
			def.Desc.Variants = append(def.Desc.Variants, sema.VariantSpec{
				Name:  v.Name,
				Value: v.Value,
			})
		}

	case td.Struct != "":
		def.Desc = sema.Descriptor{Kind: sema.TypeStruct, Name: td.Struct}

		for _, f := range td.Fields {
			ft, err := ParseTypeRef(f.Type)
			if err != nil {
				return def, fmt.Errorf("field %q: %w", f.Name, err)
			}

			def.Desc.Fields = append(def.Desc.Fields, sema.Field{
				Name: f.Name,
				Type: ft,
			})
		}

	default:
		return def, fmt.Errorf("entry is neither enum nor struct")
	}

	return def, nil
}

// decodeEvent converts a raw event entry. Exactly one of the five event
// keys must be present.
func decodeEvent(ed eventDoc, file string) (sema.Event, error) {
	switch {
	case ed.Declare != nil:
		return decodeDeclare(*ed.Declare, file)

	case ed.Assign != nil:
		return decodeValueEvent(sema.EventAssign, *ed.Assign, file)

	case ed.Lock != nil:
		return decodeValueEvent(sema.EventLockCommit, *ed.Lock, file)

	case ed.Enter != nil:
		pos, err := decodePos(ed.Enter.At, file)

		return sema.Event{Kind: sema.EventEnterBlock, Pos: pos}, err

	case ed.Exit != nil:
		pos, err := decodePos(ed.Exit.At, file)

		return sema.Event{Kind: sema.EventExitBlock, Pos: pos}, err

	default:
		return sema.Event{}, fmt.Errorf(
			"unrecognized event (want declare, assign, lock, enter, or exit)")
	}
}

func decodeDeclare(d declareDoc, file string) (sema.Event, error) {
	ev := sema.Event{Kind: sema.EventDeclare, Name: d.Name}

	pos, err := decodePos(d.At, file)
	if err != nil {
		return ev, err
	}

	ev.Pos = pos

	if d.Name == "" {
		return ev, fmt.Errorf("declare without a name")
	}

	// The source model requires an explicit type at first binding.
	if d.Type == "" {
		return ev, fmt.Errorf("declaration of %q carries no type", d.Name)
	}

	ev.Type, err = ParseTypeRef(d.Type)
	if err != nil {
		return ev, err
	}

	ev.Class, ev.Const, err = parseClass(d.Class)
	if err != nil {
		return ev, err
	}

	if d.Init != nil {
		ev.Init = &sema.Expr{Source: *d.Init}

		if d.InitType != "" {
			hint, err := ParseTypeRef(d.InitType)
			if err != nil {
				return ev, err
			}

			ev.Init.TypeHint = &hint
		}
	}

	return ev, nil
}

func decodeValueEvent(kind sema.EventKind, d valueDoc, file string) (sema.Event, error) {
	ev := sema.Event{Kind: kind, Name: d.Name}

	pos, err := decodePos(d.At, file)
	if err != nil {
		return ev, err
	}

	ev.Pos = pos

	if d.Name == "" {
		return ev, fmt.Errorf("%s without a name", kind)
	}

	ev.Value = &sema.Expr{Source: d.Value}

	if d.Type != "" {
		hint, err := ParseTypeRef(d.Type)
		if err != nil {
			return ev, err
		}

		ev.Value.TypeHint = &hint
	}

	return ev, nil
}

// parseClass maps a declaration-class keyword to its mutability class.
// "const" is an immutable binding with a compile-time-only initializer.
func parseClass(s string) (sema.MutabilityClass, bool, error) {
	switch s {
	case "let", "":
		return sema.Immutable, false, nil
	case "var":
		return sema.Mutable, false, nil
	case "lock":
		return sema.Lockable, false, nil
	case "const":
		return sema.Immutable, true, nil
	default:
		return sema.Immutable, false, fmt.Errorf("unknown class %q", s)
	}
}

// decodePos parses an "at" position, defaulting the file component.
func decodePos(s, file string) (sema.Pos, error) {
	if s == "" {
		return sema.Pos{File: file}, nil
	}

	pos, err := sema.ParsePos(s)
	if err != nil {
		return sema.Pos{}, err
	}

	if pos.File == "" {
		pos.File = file
	}

	return pos, nil
}
