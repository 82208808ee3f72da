package render

import (
	"fmt"
	"io"

	"github.com/schemawalk/schemawalk/internal/catalog"
)

// Tree renders walk events as an indented Unicode box-drawing tree.
//
// Per nesting depth it keeps the continuation prefix for child lines:
// "│  " under a non-last ancestor, three spaces under a last one. Each
// sibling line starts with "├─ ", or "└─ " for the last sibling.
type Tree struct {
	w     io.Writer
	err   error
	stack []string // continuation prefix per open container
}

// NewTree returns a Tree writing to w.
func NewTree(w io.Writer) *Tree {
	return &Tree{w: w}
}

func branch(prefix string, last bool) string {
	if last {
		return prefix + "└─ "
	}
	return prefix + "├─ "
}

func childPrefix(prefix string, last bool) string {
	if last {
		return prefix + "   "
	}
	return prefix + "│  "
}

func (t *Tree) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, s)
}

// prefix returns the continuation prefix of the innermost open container.
func (t *Tree) prefix() string {
	if len(t.stack) == 0 {
		panic("render: leaf or container emitted with no open container")
	}
	return t.stack[len(t.stack)-1]
}

func (t *Tree) pop() {
	if len(t.stack) == 0 {
		panic("render: container closed but never opened")
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// BeginSchema prints the bare schema name. A schema is a top-level root,
// not a sibling of anything, so it carries no branch glyph.
func (t *Tree) BeginSchema(name string) {
	t.line(name)
	t.stack = append(t.stack, "")
}

func (t *Tree) EndSchema() { t.pop() }

// BeginRelations is invisible in the text form: relations are direct
// siblings under the schema line.
func (t *Tree) BeginRelations() {
	t.stack = append(t.stack, t.prefix())
}

func (t *Tree) EndRelations() { t.pop() }

func (t *Tree) BeginRelation(rel catalog.Relation, last bool) {
	p := t.prefix()
	t.line(branch(p, last) + rel.Name + " " + rel.Kind.Label())
	t.stack = append(t.stack, childPrefix(p, last))
}

func (t *Tree) RelationError(msg string) {
	t.line(branch(t.prefix(), true) + "(" + msg + ")")
}

func (t *Tree) EndRelation() { t.pop() }

func (t *Tree) BeginGroup(label string, last bool) {
	p := t.prefix()
	t.line(branch(p, last) + label)
	t.stack = append(t.stack, childPrefix(p, last))
}

func (t *Tree) EndGroup() { t.pop() }

func (t *Tree) Routine(r catalog.Routine, last bool) {
	t.line(branch(t.prefix(), last) + fmt.Sprintf("%s(%s) -> %s", r.Name, r.Args, r.ReturnType))
}

func (t *Tree) Column(c catalog.Column, last bool) {
	s := c.Name + ": " + c.Type
	if c.NotNull {
		s += " NOT NULL"
	}
	if c.Default != nil {
		s += " DEFAULT " + *c.Default
		if c.DefaultFunc != "" {
			s += " [func: " + c.DefaultFunc + "]"
		}
	}
	t.line(branch(t.prefix(), last) + s)
}

func (t *Tree) Index(ix catalog.Index, last bool) {
	var tags []string
	if ix.Primary {
		tags = append(tags, "PK")
	}
	if ix.Unique && !ix.Primary {
		tags = append(tags, "UNIQ")
	}
	if ix.Invalid {
		tags = append(tags, "INVALID")
	}
	s := ix.Name
	if len(tags) > 0 {
		s += " [" + joinTags(tags) + "]"
	}
	t.line(branch(t.prefix(), last) + s + " :: " + oneline(ix.Def))
}

func (t *Tree) ForeignKey(fk catalog.ForeignKey, last bool) {
	arrow := "->"
	if fk.Direction == catalog.FKIncoming {
		arrow = "<-"
	}
	t.line(branch(t.prefix(), last) + fmt.Sprintf("%s %s %s :: %s", fk.Name, arrow, fk.Table, oneline(fk.Def)))
}

func (t *Tree) Trigger(tr catalog.Trigger, last bool) {
	s := tr.Name
	if tr.Function != nil {
		s += " [func: " + *tr.Function + "]"
	}
	t.line(branch(t.prefix(), last) + s + " :: " + oneline(tr.Def))
}

func (t *Tree) None() {
	t.line(branch(t.prefix(), true) + "(none)")
}

func (t *Tree) Err() error { return t.err }

func joinTags(tags []string) string {
	s := tags[0]
	for _, tag := range tags[1:] {
		s += "|" + tag
	}
	return s
}
