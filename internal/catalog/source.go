package catalog

import "context"

// Source is the read contract for one consistent catalog snapshot.
// All layers above this package talk only to this interface and never
// import the postgres or mysql packages directly.
//
// Every method returns a fully drained, ordered slice: the underlying
// cursor is acquired, read to the end, and released before the method
// returns. This is deliberate: the renderers need sibling counts to mark
// last children, and bounding the buffering to one sibling group at a
// time keeps memory proportional to the largest single group.
//
// Implementations scope all reads to one read-only transaction so the
// whole snapshot is consistent.
type Source interface {
	// Schemas returns schema names ordered by name. When includeAll is
	// false, system/internal schemas are excluded.
	Schemas(ctx context.Context, includeAll bool) ([]string, error)

	// Relations returns the (name, kind) pairs of the given kinds inside
	// schema, ordered by name.
	Relations(ctx context.Context, schema string, kinds []RelKind) ([]Relation, error)

	// ResolveRelation looks up the relation's identifier. ok is false when
	// the relation vanished between listing and lookup (concurrent DDL);
	// that is not an error.
	ResolveRelation(ctx context.Context, schema, name string) (id RelID, ok bool, err error)

	// Columns returns the relation's columns in ordinal order.
	Columns(ctx context.Context, id RelID) ([]Column, error)

	// Indexes returns the relation's indexes ordered by name.
	Indexes(ctx context.Context, id RelID) ([]Index, error)

	// ForeignKeys returns the foreign keys on one side of the relation,
	// ordered by constraint name.
	ForeignKeys(ctx context.Context, id RelID, dir FKDirection) ([]ForeignKey, error)

	// Triggers returns the relation's non-internal triggers ordered by name.
	Triggers(ctx context.Context, id RelID) ([]Trigger, error)

	// Routines returns the schema's functions and procedures ordered by
	// name, then argument list.
	Routines(ctx context.Context, schema string) ([]Routine, error)
}
