// Package catalog defines the entity model of a relational catalog
// snapshot, the inclusion policy that selects which parts of it to read,
// and the Source contract implemented by the database backends.
//
// Entities are read-only records: the sources build them, the walker
// passes them to a render sink, and nothing mutates them afterwards.
package catalog

// RelKind identifies the kind of a relation.
type RelKind string

const (
	KindTable            RelKind = "r"
	KindPartitionedTable RelKind = "p"
	KindView             RelKind = "v"
	KindMaterializedView RelKind = "m"
	KindForeignTable     RelKind = "f"
)

// Label returns the display label for the kind, e.g. "[table]".
// Unknown kinds fall back to "[rel]".
func (k RelKind) Label() string {
	switch k {
	case KindTable:
		return "[table]"
	case KindPartitionedTable:
		return "[part_table]"
	case KindView:
		return "[view]"
	case KindMaterializedView:
		return "[matview]"
	case KindForeignTable:
		return "[foreign]"
	default:
		return "[rel]"
	}
}

// Relation is one catalog object with a row/column shape.
type Relation struct {
	Name string
	Kind RelKind
}

// RelID identifies a relation for follow-up lookups. Postgres fills OID;
// MySQL addresses relations by schema and name only.
type RelID struct {
	Schema string
	Name   string
	OID    uint32
}

// Column is one attribute of a relation, in catalog ordinal order.
type Column struct {
	Name    string
	Type    string
	NotNull bool
	Default *string // nil if the column has no default expression
	// DefaultFunc is the call target extracted from Default when the
	// expression textually looks like a function call. Empty when absent.
	DefaultFunc string
}

// Index is one index of a relation.
type Index struct {
	Name    string
	Primary bool
	Unique  bool
	Invalid bool
	Def     string // raw definition text; renderers collapse whitespace
}

// FKDirection tells which side of a foreign key the current relation is on.
type FKDirection int

const (
	// FKOutgoing: the current relation references Table.
	FKOutgoing FKDirection = iota
	// FKIncoming: Table references the current relation.
	FKIncoming
)

// ForeignKey is one foreign-key constraint touching a relation.
type ForeignKey struct {
	Name      string
	Def       string
	Table     string // the related table on the other side
	Direction FKDirection
}

// Trigger is one non-internal trigger of a relation.
type Trigger struct {
	Name     string
	Def      string
	Function *string // owning function name; nil when not resolvable
}

// Routine is one function or procedure, scoped to a schema.
type Routine struct {
	Name       string
	Args       string
	ReturnType string
}
