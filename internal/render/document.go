package render

import (
	"io"

	"github.com/schemawalk/schemawalk/internal/catalog"
)

// DefaultIndent is the pretty-mode indent width used when the caller does
// not pick one.
const DefaultIndent = 2

// Document renders walk events as one streamed JSON document:
// a root object holding a "schemas" array of per-schema objects. It
// mirrors the tree renderer's structure exactly, differing only in
// syntax.
type Document struct {
	w      *Writer
	pretty bool
	groups []bool // true when the open group is an object container
}

// NewDocument returns a Document writing to out. indent applies in
// pretty mode; pass render.DefaultIndent unless configured otherwise.
func NewDocument(out io.Writer, pretty bool, indent int) *Document {
	return &Document{w: NewWriter(out, pretty, indent), pretty: pretty}
}

// Begin opens the root object. Call once, before the first schema.
func (d *Document) Begin() {
	d.w.BeginObject()
	d.w.Key("schemas")
	d.w.BeginArray()
}

// End closes the root object and reports the first write error.
func (d *Document) End() error {
	d.w.EndArray()
	d.w.EndObject()
	if d.pretty {
		d.w.write("\n")
	}
	return d.w.Err()
}

func (d *Document) BeginSchema(name string) {
	d.w.BeginObject()
	d.w.Key("name")
	d.w.Value(name)
}

func (d *Document) EndSchema() { d.w.EndObject() }

func (d *Document) BeginRelations() {
	d.w.Key("relations")
	d.w.BeginArray()
}

func (d *Document) EndRelations() { d.w.EndArray() }

func (d *Document) BeginRelation(rel catalog.Relation, _ bool) {
	d.w.BeginObject()
	d.w.Key("name")
	d.w.Value(rel.Name)
	d.w.Key("kind")
	d.w.Value(rel.Kind.Label())
}

func (d *Document) RelationError(msg string) {
	d.w.Key("error")
	d.w.Value(msg)
}

func (d *Document) EndRelation() { d.w.EndObject() }

// BeginGroup opens the keyed container for a group. foreign_keys is an
// object holding the outgoing/incoming arrays; every other group is an
// array.
func (d *Document) BeginGroup(label string, _ bool) {
	d.w.Key(label)
	object := label == GroupForeignKeys
	if object {
		d.w.BeginObject()
	} else {
		d.w.BeginArray()
	}
	d.groups = append(d.groups, object)
}

func (d *Document) EndGroup() {
	if len(d.groups) == 0 {
		panic("render: group closed but never opened")
	}
	object := d.groups[len(d.groups)-1]
	d.groups = d.groups[:len(d.groups)-1]
	if object {
		d.w.EndObject()
	} else {
		d.w.EndArray()
	}
}

func (d *Document) Routine(r catalog.Routine, _ bool) {
	d.w.BeginObject()
	d.w.Key("name")
	d.w.Value(r.Name)
	d.w.Key("args")
	d.w.Value(r.Args)
	d.w.Key("return_type")
	d.w.Value(r.ReturnType)
	d.w.EndObject()
}

func (d *Document) Column(c catalog.Column, _ bool) {
	d.w.BeginObject()
	d.w.Key("name")
	d.w.Value(c.Name)
	d.w.Key("type")
	d.w.Value(c.Type)
	d.w.Key("not_null")
	d.w.Value(c.NotNull)
	if c.Default != nil {
		d.w.Key("default")
		d.w.Value(*c.Default)
		if c.DefaultFunc != "" {
			d.w.Key("default_func")
			d.w.Value(c.DefaultFunc)
		}
	}
	d.w.EndObject()
}

func (d *Document) Index(ix catalog.Index, _ bool) {
	d.w.BeginObject()
	d.w.Key("name")
	d.w.Value(ix.Name)
	d.w.Key("primary")
	d.w.Value(ix.Primary)
	d.w.Key("unique")
	d.w.Value(ix.Unique)
	d.w.Key("invalid")
	d.w.Value(ix.Invalid)
	d.w.Key("definition")
	d.w.Value(oneline(ix.Def))
	d.w.EndObject()
}

func (d *Document) ForeignKey(fk catalog.ForeignKey, _ bool) {
	d.w.BeginObject()
	d.w.Key("name")
	d.w.Value(fk.Name)
	if fk.Direction == catalog.FKIncoming {
		d.w.Key("src_table")
	} else {
		d.w.Key("ref_table")
	}
	d.w.Value(fk.Table)
	d.w.Key("definition")
	d.w.Value(oneline(fk.Def))
	d.w.EndObject()
}

func (d *Document) Trigger(t catalog.Trigger, _ bool) {
	d.w.BeginObject()
	d.w.Key("name")
	d.w.Value(t.Name)
	d.w.Key("function")
	d.w.Value(t.Function)
	d.w.Key("definition")
	d.w.Value(oneline(t.Def))
	d.w.EndObject()
}

// None is a no-op: an explicitly empty group is just an empty array in
// the document form.
func (d *Document) None() {}

func (d *Document) Err() error { return d.w.Err() }
