// Package render turns the structural events of a catalog walk into
// output: an indented box-drawing tree or a streamed JSON document.
//
// Both backends implement Sink and are driven by the same walker, so the
// two formats cannot drift in which entities and attributes they expose;
// they differ only in syntax.
package render

import (
	"strings"

	"github.com/schemawalk/schemawalk/internal/catalog"
)

// Group labels used by the walker. The document writer keys its containers
// by these; the tree renderer prints them as header lines.
const (
	GroupFunctions   = "functions"
	GroupColumns     = "columns"
	GroupIndexes     = "indexes"
	GroupForeignKeys = "foreign_keys"
	GroupOutgoing    = "outgoing"
	GroupIncoming    = "incoming"
	GroupTriggers    = "triggers"
)

// Sink consumes the structural events produced by one or more schema
// walks. Calls are strictly matched: every Begin* has exactly one
// corresponding End*, and leaf calls are valid only inside an open
// container. A mismatched call is a programming fault in the caller and
// panics rather than being reported as a runtime error.
//
// The last flag on containers and leaves is precomputed by the walker
// from the materialized sibling group; sinks never need lookahead.
type Sink interface {
	// BeginSchema opens the top-level container for one schema.
	BeginSchema(name string)
	EndSchema()

	// BeginRelations opens the relation list of the current schema. The
	// tree renderer treats relations as direct siblings under the schema;
	// the document writer makes them an explicit array.
	BeginRelations()
	EndRelations()

	// BeginRelation opens one relation container tagged with its kind.
	BeginRelation(rel catalog.Relation, last bool)
	// RelationError records a per-relation failure (the relation vanished
	// between listing and lookup) as the relation's only content.
	RelationError(msg string)
	EndRelation()

	// BeginGroup opens a named child group (one of the Group* labels).
	BeginGroup(label string, last bool)
	EndGroup()

	Routine(r catalog.Routine, last bool)
	Column(c catalog.Column, last bool)
	Index(ix catalog.Index, last bool)
	ForeignKey(fk catalog.ForeignKey, last bool)
	Trigger(t catalog.Trigger, last bool)

	// None marks the current group as explicitly empty. The tree renderer
	// prints a "(none)" leaf; the document writer leaves the array empty.
	None()

	// Err returns the first output-stream write error, if any.
	Err() error
}

// oneline collapses every run of whitespace in s to a single space.
// Index, constraint, and trigger definitions span multiple lines in the
// catalog; both output formats show them normalized.
func oneline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
