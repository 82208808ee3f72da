package catalog

import (
	"regexp"

	"github.com/schemawalk/schemawalk/internal/errs"
)

// Policy is the immutable configuration snapshot deciding which optional
// branches of the catalog are read and which schemas are accepted.
// Ordinary and partitioned tables are always requested; the flags only
// widen the relation-kind set.
type Policy struct {
	IncludeViews         bool
	IncludeMatViews      bool
	IncludeForeignTables bool
	IncludeAllSchemas    bool
	IncludeRoutines      bool
	IncludeIndexes       bool
	IncludeForeignKeys   bool
	IncludeTriggers      bool

	// Schema restricts the walk to one schema name, or, when SchemaRegex
	// is set, to names matching it as a regular expression. Empty means
	// all schemas.
	Schema      string
	SchemaRegex bool

	schemaRE *regexp.Regexp
}

// Compile validates the policy's schema filter. It must be called once
// before AcceptSchema when SchemaRegex is set; later calls are no-ops.
func (p *Policy) Compile() error {
	if !p.SchemaRegex || p.Schema == "" || p.schemaRE != nil {
		return nil
	}
	re, err := regexp.Compile(p.Schema)
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "invalid schema pattern", err)
	}
	p.schemaRE = re
	return nil
}

// RelationKinds returns the ordered set of relation kinds to request.
func (p *Policy) RelationKinds() []RelKind {
	kinds := []RelKind{KindTable, KindPartitionedTable}
	if p.IncludeViews {
		kinds = append(kinds, KindView)
	}
	if p.IncludeMatViews {
		kinds = append(kinds, KindMaterializedView)
	}
	if p.IncludeForeignTables {
		kinds = append(kinds, KindForeignTable)
	}
	return kinds
}

// AcceptSchema reports whether the schema named name passes the filter.
func (p *Policy) AcceptSchema(name string) bool {
	if p.Schema == "" {
		return true
	}
	if p.SchemaRegex {
		if p.schemaRE == nil {
			// Compile was not called; fall back to compiling here so a
			// zero-prepared policy still filters instead of matching all.
			re, err := regexp.Compile(p.Schema)
			if err != nil {
				return false
			}
			p.schemaRE = re
		}
		return p.schemaRE.MatchString(name)
	}
	return name == p.Schema
}

// OptionalGroups returns how many per-relation optional groups are enabled.
// The walker uses it to decide which group is the last sibling.
func (p *Policy) OptionalGroups() int {
	n := 0
	if p.IncludeIndexes {
		n++
	}
	if p.IncludeForeignKeys {
		n++
	}
	if p.IncludeTriggers {
		n++
	}
	return n
}
