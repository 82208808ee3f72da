package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemawalk/schemawalk/internal/catalog"
	"github.com/schemawalk/schemawalk/internal/catalog/catalogtest"
	"github.com/schemawalk/schemawalk/internal/logger"
)

func testOpener(src *catalogtest.Source) Opener {
	return func(ctx context.Context) (SnapshotSource, error) {
		return src, nil
	}
}

func testServer(t *testing.T, open Opener, policy *catalog.Policy) *httptest.Server {
	t.Helper()
	srv, err := New(open, policy, logger.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func fixtureSource() *catalogtest.Source {
	return &catalogtest.Source{
		SchemaNames: []string{"app"},
		Rels: map[string][]catalog.Relation{
			"app": {{Name: "users", Kind: catalog.KindTable}},
		},
		Cols: map[string][]catalog.Column{
			"app.users": {{Name: "id", Type: "integer", NotNull: true}},
		},
	}
}

func TestHealthz(t *testing.T) {
	ts := testServer(t, testOpener(fixtureSource()), &catalog.Policy{})

	code, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)
}

func TestHealthzUnreachable(t *testing.T) {
	open := func(ctx context.Context) (SnapshotSource, error) {
		return nil, errors.New("dial failed")
	}
	ts := testServer(t, open, &catalog.Policy{})

	code, _ := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestSchemaText(t *testing.T) {
	ts := testServer(t, testOpener(fixtureSource()), &catalog.Policy{})

	resp, err := http.Get(ts.URL + "/schema")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "└─ users [table]")
}

func TestSchemaJSON(t *testing.T) {
	ts := testServer(t, testOpener(fixtureSource()), &catalog.Policy{})

	resp, err := http.Get(ts.URL + "/schema?format=json")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc struct {
		Schemas []struct {
			Name string `json:"name"`
		} `json:"schemas"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))
	require.Len(t, doc.Schemas, 1)
	assert.Equal(t, "app", doc.Schemas[0].Name)
}

func TestSchemaJSONPretty(t *testing.T) {
	ts := testServer(t, testOpener(fixtureSource()), &catalog.Policy{})

	code, body := get(t, ts.URL+"/schema?format=json&pretty=1")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "\n  \"schemas\": [")
	assert.True(t, json.Valid([]byte(body)))
}

func TestSchemaBadFormat(t *testing.T) {
	ts := testServer(t, testOpener(fixtureSource()), &catalog.Policy{})

	code, body := get(t, ts.URL+"/schema?format=xml")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "unknown output format")
}

func TestSchemaSnapshotOpenFails(t *testing.T) {
	open := func(ctx context.Context) (SnapshotSource, error) {
		return nil, errors.New("pool exhausted")
	}
	ts := testServer(t, open, &catalog.Policy{})

	code, _ := get(t, ts.URL+"/schema")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestSchemaRespectsPolicy(t *testing.T) {
	src := fixtureSource()
	src.SchemaNames = []string{"app", "audit"}
	src.Rels["audit"] = []catalog.Relation{{Name: "events", Kind: catalog.KindTable}}
	src.Cols["audit.events"] = []catalog.Column{{Name: "at", Type: "timestamptz"}}

	ts := testServer(t, testOpener(src), &catalog.Policy{Schema: "audit"})

	code, body := get(t, ts.URL+"/schema")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "audit")
	assert.NotContains(t, body, "users")
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	_, err := New(testOpener(fixtureSource()), &catalog.Policy{Schema: "app[", SchemaRegex: true}, logger.Nop())
	assert.Error(t, err)
}
