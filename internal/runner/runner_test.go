package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemawalk/schemawalk/internal/catalog"
	"github.com/schemawalk/schemawalk/internal/catalog/catalogtest"
	"github.com/schemawalk/schemawalk/internal/errs"
)

func twoSchemaSource() *catalogtest.Source {
	return &catalogtest.Source{
		SchemaNames: []string{"app", "audit"},
		Rels: map[string][]catalog.Relation{
			"app":   {{Name: "users", Kind: catalog.KindTable}},
			"audit": {{Name: "events", Kind: catalog.KindTable}},
		},
		Cols: map[string][]catalog.Column{
			"app.users":    {{Name: "id", Type: "integer", NotNull: true}},
			"audit.events": {{Name: "at", Type: "timestamptz", NotNull: true}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "text", want: FormatText},
		{in: "ascii", want: FormatText},
		{in: "", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: "yaml", wantErr: true},
		{in: "JSON", wantErr: true},
	}
	for _, tt := range tests {
		t.Run("in="+tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunTextSeparatesSchemasWithBlankLine(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{
		Source: twoSchemaSource(),
		Policy: &catalog.Policy{},
		Format: FormatText,
		Out:    &buf,
	}
	require.NoError(t, r.Run(context.Background()))

	want := strings.Join([]string{
		"app",
		"└─ users [table]",
		"   └─ columns",
		"      └─ id: integer NOT NULL",
		"",
		"audit",
		"└─ events [table]",
		"   └─ columns",
		"      └─ at: timestamptz NOT NULL",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRunJSONDocument(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{
		Source: twoSchemaSource(),
		Policy: &catalog.Policy{},
		Format: FormatJSON,
		Out:    &buf,
	}
	require.NoError(t, r.Run(context.Background()))

	var doc struct {
		Schemas []struct {
			Name string `json:"name"`
		} `json:"schemas"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Schemas, 2)
	assert.Equal(t, "app", doc.Schemas[0].Name)
	assert.Equal(t, "audit", doc.Schemas[1].Name)
}

func TestRunJSONPretty(t *testing.T) {
	var buf bytes.Buffer
	r := &Runner{
		Source: twoSchemaSource(),
		Policy: &catalog.Policy{Schema: "app"},
		Format: FormatJSON,
		Pretty: true,
		Out:    &buf,
	}
	require.NoError(t, r.Run(context.Background()))

	out := buf.String()
	assert.True(t, json.Valid(buf.Bytes()))
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "\n  \"schemas\": [")
}

func TestRunNoSchemas(t *testing.T) {
	src := &catalogtest.Source{}

	var text bytes.Buffer
	require.NoError(t, (&Runner{Source: src, Policy: &catalog.Policy{}, Format: FormatText, Out: &text}).Run(context.Background()))
	assert.Empty(t, text.String())

	var doc bytes.Buffer
	require.NoError(t, (&Runner{Source: src, Policy: &catalog.Policy{}, Format: FormatJSON, Out: &doc}).Run(context.Background()))
	assert.Equal(t, `{"schemas":[]}`, doc.String())
}

func TestRunInvalidSchemaPattern(t *testing.T) {
	r := &Runner{
		Source: twoSchemaSource(),
		Policy: &catalog.Policy{Schema: "app[", SchemaRegex: true},
		Format: FormatText,
		Out:    &bytes.Buffer{},
	}
	err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}
