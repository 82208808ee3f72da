// Package catalogtest provides an in-memory catalog.Source for tests.
// Maps are keyed by "schema.relation"; slices come back in the order they
// were set, so tests control sibling ordering directly.
package catalogtest

import (
	"context"

	"github.com/schemawalk/schemawalk/internal/catalog"
)

// Source is a fixture-backed catalog.Source. The zero value is an empty
// catalog.
type Source struct {
	SchemaNames []string                        // ordered, non-system
	SystemNames []string                        // appended when includeAll
	Rels        map[string][]catalog.Relation   // by schema
	Missing     map[string]bool                 // relations that fail to resolve
	Cols        map[string][]catalog.Column     // by "schema.relation"
	Idxs        map[string][]catalog.Index      // by "schema.relation"
	FKOut       map[string][]catalog.ForeignKey // by "schema.relation"
	FKIn        map[string][]catalog.ForeignKey // by "schema.relation"
	Trgs        map[string][]catalog.Trigger    // by "schema.relation"
	Fns         map[string][]catalog.Routine    // by schema

	// Fail, when set, makes every call return this error.
	Fail error
}

var _ catalog.Source = (*Source)(nil)

func key(schema, name string) string { return schema + "." + name }

func (s *Source) Schemas(_ context.Context, includeAll bool) ([]string, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := append([]string{}, s.SchemaNames...)
	if includeAll {
		out = append(out, s.SystemNames...)
	}
	return out, nil
}

func (s *Source) Relations(_ context.Context, schema string, kinds []catalog.RelKind) ([]catalog.Relation, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	enabled := make(map[catalog.RelKind]bool, len(kinds))
	for _, k := range kinds {
		enabled[k] = true
	}
	var out []catalog.Relation
	for _, r := range s.Rels[schema] {
		if enabled[r.Kind] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Source) ResolveRelation(_ context.Context, schema, name string) (catalog.RelID, bool, error) {
	if s.Fail != nil {
		return catalog.RelID{}, false, s.Fail
	}
	if s.Missing[key(schema, name)] {
		return catalog.RelID{}, false, nil
	}
	return catalog.RelID{Schema: schema, Name: name}, true, nil
}

func (s *Source) Columns(_ context.Context, id catalog.RelID) ([]catalog.Column, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.Cols[key(id.Schema, id.Name)], nil
}

func (s *Source) Indexes(_ context.Context, id catalog.RelID) ([]catalog.Index, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.Idxs[key(id.Schema, id.Name)], nil
}

func (s *Source) ForeignKeys(_ context.Context, id catalog.RelID, dir catalog.FKDirection) ([]catalog.ForeignKey, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	if dir == catalog.FKIncoming {
		return s.FKIn[key(id.Schema, id.Name)], nil
	}
	return s.FKOut[key(id.Schema, id.Name)], nil
}

func (s *Source) Triggers(_ context.Context, id catalog.RelID) ([]catalog.Trigger, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.Trgs[key(id.Schema, id.Name)], nil
}

func (s *Source) Routines(_ context.Context, schema string) ([]catalog.Routine, error) {
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.Fns[schema], nil
}

// Close satisfies the snapshot interfaces used by the server.
func (s *Source) Close(context.Context) error { return nil }
