// Package walk drives a catalog Source through one deterministic,
// sequential traversal per schema and emits the resulting structure as
// render.Sink events.
//
// Both output formats are produced by the same event sequence, so they
// always expose the same entities and attributes.
package walk

import (
	"context"

	"github.com/schemawalk/schemawalk/internal/catalog"
	"github.com/schemawalk/schemawalk/internal/render"
)

// relNotFound is the per-relation error marker emitted when a relation
// listed moments ago can no longer be resolved, a benign race against
// concurrent DDL, handled locally instead of aborting the walk.
const relNotFound = "rel not found"

// Walker traverses the catalog one schema at a time. Sibling groups are
// materialized one group at a time so that the sink receives precomputed
// last-child flags; memory stays bounded by the largest single group.
type Walker struct {
	src    catalog.Source
	policy *catalog.Policy
}

// New returns a Walker over src filtered by policy.
func New(src catalog.Source, policy *catalog.Policy) *Walker {
	return &Walker{src: src, policy: policy}
}

// Schemas returns the names of the schemas accepted by the policy, in
// the source's order.
func (w *Walker) Schemas(ctx context.Context) ([]string, error) {
	all, err := w.src.Schemas(ctx, w.policy.IncludeAllSchemas)
	if err != nil {
		return nil, err
	}
	var accepted []string
	for _, name := range all {
		if w.policy.AcceptSchema(name) {
			accepted = append(accepted, name)
		}
	}
	return accepted, nil
}

// WalkSchema emits the full event sequence for one schema. Any source
// error aborts the walk; whatever the sink already flushed stays as-is.
func (w *Walker) WalkSchema(ctx context.Context, sink render.Sink, schema string) error {
	rels, err := w.src.Relations(ctx, schema, w.policy.RelationKinds())
	if err != nil {
		return err
	}

	sink.BeginSchema(schema)

	if w.policy.IncludeRoutines {
		// The functions group is the first top-level sibling; it is last
		// only when no relations follow. It opens even when empty.
		sink.BeginGroup(render.GroupFunctions, len(rels) == 0)
		routines, err := w.src.Routines(ctx, schema)
		if err != nil {
			return err
		}
		for i, r := range routines {
			sink.Routine(r, i == len(routines)-1)
		}
		sink.EndGroup()
	}

	sink.BeginRelations()
	for i, rel := range rels {
		if err := w.walkRelation(ctx, sink, schema, rel, i == len(rels)-1); err != nil {
			return err
		}
	}
	sink.EndRelations()

	sink.EndSchema()
	return sink.Err()
}

func (w *Walker) walkRelation(ctx context.Context, sink render.Sink, schema string, rel catalog.Relation, last bool) error {
	sink.BeginRelation(rel, last)
	defer sink.EndRelation()

	id, ok, err := w.src.ResolveRelation(ctx, schema, rel.Name)
	if err != nil {
		return err
	}
	if !ok {
		sink.RelationError(relNotFound)
		return nil
	}

	groups := w.policy.OptionalGroups()

	cols, err := w.src.Columns(ctx, id)
	if err != nil {
		return err
	}
	sink.BeginGroup(render.GroupColumns, groups == 0)
	for i, c := range cols {
		sink.Column(c, i == len(cols)-1)
	}
	sink.EndGroup()

	// Optional groups in fixed order: indexes, foreign_keys, triggers.
	g := 0
	if w.policy.IncludeIndexes {
		g++
		idxs, err := w.src.Indexes(ctx, id)
		if err != nil {
			return err
		}
		sink.BeginGroup(render.GroupIndexes, g == groups)
		for i, ix := range idxs {
			sink.Index(ix, i == len(idxs)-1)
		}
		sink.EndGroup()
	}

	if w.policy.IncludeForeignKeys {
		g++
		if err := w.walkForeignKeys(ctx, sink, id, g == groups); err != nil {
			return err
		}
	}

	if w.policy.IncludeTriggers {
		g++
		trgs, err := w.src.Triggers(ctx, id)
		if err != nil {
			return err
		}
		sink.BeginGroup(render.GroupTriggers, g == groups)
		if len(trgs) == 0 {
			sink.None()
		}
		for i, t := range trgs {
			sink.Trigger(t, i == len(trgs)-1)
		}
		sink.EndGroup()
	}

	return nil
}

// walkForeignKeys emits both fk sides as two always-present sub-groups.
// One cursor is drained per side; the sides never overlap.
func (w *Walker) walkForeignKeys(ctx context.Context, sink render.Sink, id catalog.RelID, last bool) error {
	sink.BeginGroup(render.GroupForeignKeys, last)

	out, err := w.src.ForeignKeys(ctx, id, catalog.FKOutgoing)
	if err != nil {
		return err
	}
	sink.BeginGroup(render.GroupOutgoing, false)
	if len(out) == 0 {
		sink.None()
	}
	for i, fk := range out {
		sink.ForeignKey(fk, i == len(out)-1)
	}
	sink.EndGroup()

	in, err := w.src.ForeignKeys(ctx, id, catalog.FKIncoming)
	if err != nil {
		return err
	}
	sink.BeginGroup(render.GroupIncoming, true)
	if len(in) == 0 {
		sink.None()
	}
	for i, fk := range in {
		sink.ForeignKey(fk, i == len(in)-1)
	}
	sink.EndGroup()

	sink.EndGroup()
	return nil
}
