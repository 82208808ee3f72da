// Package runner wires a catalog source, an inclusion policy, and an
// output sink into one dump run.
package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/schemawalk/schemawalk/internal/catalog"
	"github.com/schemawalk/schemawalk/internal/errs"
	"github.com/schemawalk/schemawalk/internal/logger"
	"github.com/schemawalk/schemawalk/internal/render"
	"github.com/schemawalk/schemawalk/internal/walk"
)

// Format selects the output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. "ascii" is accepted as an alias
// for text.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "ascii", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errs.New(errs.ErrKindInvalidInput, fmt.Sprintf("unknown output format %q", s))
	}
}

// Runner drives one walk over one catalog snapshot.
type Runner struct {
	Source catalog.Source
	Policy *catalog.Policy
	Format Format
	Pretty bool   // JSON only
	Indent int    // JSON pretty indent width; 0 means render.DefaultIndent
	Out    io.Writer
	Log    *logger.Logger
}

// Run walks every accepted schema and renders it to Out. The first fatal
// source error aborts the run; output flushed before the failure stays
// in place.
func (r *Runner) Run(ctx context.Context) error {
	log := r.Log
	if log == nil {
		log = logger.Nop()
	}
	if err := r.Policy.Compile(); err != nil {
		return err
	}

	w := walk.New(r.Source, r.Policy)

	schemas, err := w.Schemas(ctx)
	if err != nil {
		return err
	}
	log.Debugf("walking %d schema(s)", len(schemas))

	switch r.Format {
	case FormatJSON:
		indent := r.Indent
		if indent <= 0 {
			indent = render.DefaultIndent
		}
		doc := render.NewDocument(r.Out, r.Pretty, indent)
		doc.Begin()
		for _, name := range schemas {
			if err := w.WalkSchema(ctx, doc, name); err != nil {
				return err
			}
		}
		return doc.End()

	default:
		tree := render.NewTree(r.Out)
		for i, name := range schemas {
			// One blank line between schema renders, none inside them.
			if i > 0 {
				if _, err := fmt.Fprintln(r.Out); err != nil {
					return err
				}
			}
			if err := w.WalkSchema(ctx, tree, name); err != nil {
				return err
			}
		}
		return tree.Err()
	}
}
