// Package mysql implements catalog.Source against MySQL's
// information_schema using database/sql and go-sql-driver/mysql.
//
// MySQL has no materialized views, foreign tables, or partitioned-table
// relkind; those kinds simply never come back from this source. Index
// and foreign-key definition text is synthesized from information_schema
// rows since MySQL exposes no pg_get_indexdef equivalent.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver

	"github.com/schemawalk/schemawalk/internal/catalog"
	"github.com/schemawalk/schemawalk/internal/errs"
)

// Pool wraps a database/sql pool for MySQL.
type Pool struct {
	db  *sql.DB
	cfg *catalog.Config
}

// Connect opens a MySQL pool from cfg and validates it with a ping.
func Connect(ctx context.Context, cfg *catalog.Config) (*Pool, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid DSN", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, mapError(err, "ping failed")
	}

	return &Pool{db: db, cfg: cfg}, nil
}

// Close drains the connection pool.
func (p *Pool) Close() {
	_ = p.db.Close()
}

// Snapshot opens one read-only transaction and returns a catalog.Source
// scoped to it.
func (p *Pool) Snapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, mapError(err, "failed to begin read-only transaction")
	}
	return &Snapshot{tx: tx}, nil
}

// Snapshot is a catalog.Source bound to one read-only transaction.
type Snapshot struct {
	tx *sql.Tx
}

var _ catalog.Source = (*Snapshot)(nil)

// Close commits the read-only transaction.
func (s *Snapshot) Close(_ context.Context) error {
	if err := s.tx.Commit(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return mapError(err, "failed to close snapshot")
	}
	return nil
}

func (s *Snapshot) Schemas(ctx context.Context, includeAll bool) ([]string, error) {
	q := `
		SELECT schema_name
		FROM information_schema.schemata`
	if !includeAll {
		q += `
		WHERE schema_name NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')`
	}
	q += `
		ORDER BY schema_name`

	return s.fetchStrings(ctx, q, "failed to list schemas")
}

// tableTypeFor maps the enabled relation kinds onto information_schema
// table_type values. Kinds MySQL does not model are dropped.
func tableTypes(kinds []catalog.RelKind) []string {
	var types []string
	for _, k := range kinds {
		switch k {
		case catalog.KindTable:
			types = append(types, "BASE TABLE")
		case catalog.KindView:
			types = append(types, "VIEW")
		}
	}
	return types
}

func kindForTableType(t string) catalog.RelKind {
	if t == "VIEW" {
		return catalog.KindView
	}
	return catalog.KindTable
}

func (s *Snapshot) Relations(ctx context.Context, schema string, kinds []catalog.RelKind) ([]catalog.Relation, error) {
	types := tableTypes(kinds)
	if len(types) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat(", ?", len(types))[2:]
	q := fmt.Sprintf(`
		SELECT table_name, table_type
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type IN (%s)
		ORDER BY table_name`, placeholders)

	args := make([]any, 0, len(types)+1)
	args = append(args, schema)
	for _, t := range types {
		args = append(args, t)
	}

	rows, err := s.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(err, "failed to list relations")
	}
	defer rows.Close()

	var rels []catalog.Relation
	for rows.Next() {
		var name, tableType string
		if err := rows.Scan(&name, &tableType); err != nil {
			return nil, mapError(err, "failed to scan relation")
		}
		rels = append(rels, catalog.Relation{Name: name, Kind: kindForTableType(tableType)})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating relations")
	}
	return rels, nil
}

func (s *Snapshot) ResolveRelation(ctx context.Context, schema, name string) (catalog.RelID, bool, error) {
	const q = `
		SELECT 1
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?`

	var one int
	err := s.tx.QueryRowContext(ctx, q, schema, name).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.RelID{}, false, nil
		}
		return catalog.RelID{}, false, mapError(err, "failed to resolve relation")
	}
	return catalog.RelID{Schema: schema, Name: name}, true, nil
}

func (s *Snapshot) Columns(ctx context.Context, id catalog.RelID) ([]catalog.Column, error) {
	const q = `
		SELECT column_name,
		       column_type,
		       is_nullable = 'NO',
		       column_default
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`

	rows, err := s.tx.QueryContext(ctx, q, id.Schema, id.Name)
	if err != nil {
		return nil, mapError(err, "failed to fetch columns")
	}
	defer rows.Close()

	var cols []catalog.Column
	for rows.Next() {
		var c catalog.Column
		if err := rows.Scan(&c.Name, &c.Type, &c.NotNull, &c.Default); err != nil {
			return nil, mapError(err, "failed to scan column")
		}
		if c.Default != nil {
			c.DefaultFunc = catalog.ExtractDefaultFunc(*c.Default)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating columns")
	}
	return cols, nil
}

func (s *Snapshot) Indexes(ctx context.Context, id catalog.RelID) ([]catalog.Index, error) {
	const q = `
		SELECT index_name,
		       index_name = 'PRIMARY',
		       MAX(non_unique) = 0,
		       GROUP_CONCAT(column_name ORDER BY seq_in_index SEPARATOR ', ')
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ?
		GROUP BY index_name
		ORDER BY index_name`

	rows, err := s.tx.QueryContext(ctx, q, id.Schema, id.Name)
	if err != nil {
		return nil, mapError(err, "failed to fetch indexes")
	}
	defer rows.Close()

	var idxs []catalog.Index
	for rows.Next() {
		var ix catalog.Index
		var cols string
		if err := rows.Scan(&ix.Name, &ix.Primary, &ix.Unique, &cols); err != nil {
			return nil, mapError(err, "failed to scan index")
		}
		ix.Def = indexDef(ix, id.Name, cols)
		idxs = append(idxs, ix)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating indexes")
	}
	return idxs, nil
}

// indexDef synthesizes a CREATE INDEX style definition; MySQL stores no
// definition text for indexes.
func indexDef(ix catalog.Index, table, cols string) string {
	kw := "INDEX"
	if ix.Unique {
		kw = "UNIQUE INDEX"
	}
	return fmt.Sprintf("%s %s ON %s (%s)", kw, ix.Name, table, cols)
}

func (s *Snapshot) ForeignKeys(ctx context.Context, id catalog.RelID, dir catalog.FKDirection) ([]catalog.ForeignKey, error) {
	const qOut = `
		SELECT kcu.constraint_name,
		       kcu.referenced_table_name,
		       GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position SEPARATOR ', '),
		       GROUP_CONCAT(kcu.referenced_column_name ORDER BY kcu.ordinal_position SEPARATOR ', ')
		FROM information_schema.key_column_usage kcu
		WHERE kcu.table_schema = ?
		  AND kcu.table_name   = ?
		  AND kcu.referenced_table_name IS NOT NULL
		GROUP BY kcu.constraint_name, kcu.referenced_table_name
		ORDER BY kcu.constraint_name`

	const qIn = `
		SELECT kcu.constraint_name,
		       kcu.table_name,
		       GROUP_CONCAT(kcu.column_name ORDER BY kcu.ordinal_position SEPARATOR ', '),
		       GROUP_CONCAT(kcu.referenced_column_name ORDER BY kcu.ordinal_position SEPARATOR ', ')
		FROM information_schema.key_column_usage kcu
		WHERE kcu.referenced_table_schema = ?
		  AND kcu.referenced_table_name   = ?
		GROUP BY kcu.constraint_name, kcu.table_name
		ORDER BY kcu.constraint_name`

	q := qOut
	if dir == catalog.FKIncoming {
		q = qIn
	}

	rows, err := s.tx.QueryContext(ctx, q, id.Schema, id.Name)
	if err != nil {
		return nil, mapError(err, "failed to fetch foreign keys")
	}
	defer rows.Close()

	var fks []catalog.ForeignKey
	for rows.Next() {
		fk := catalog.ForeignKey{Direction: dir}
		var cols, refCols string
		if err := rows.Scan(&fk.Name, &fk.Table, &cols, &refCols); err != nil {
			return nil, mapError(err, "failed to scan foreign key")
		}
		refTable := fk.Table
		if dir == catalog.FKIncoming {
			refTable = id.Name
		}
		fk.Def = fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)", cols, refTable, refCols)
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating foreign keys")
	}
	return fks, nil
}

func (s *Snapshot) Triggers(ctx context.Context, id catalog.RelID) ([]catalog.Trigger, error) {
	const q = `
		SELECT trigger_name,
		       action_timing,
		       event_manipulation,
		       action_statement
		FROM information_schema.triggers
		WHERE event_object_schema = ? AND event_object_table = ?
		ORDER BY trigger_name`

	rows, err := s.tx.QueryContext(ctx, q, id.Schema, id.Name)
	if err != nil {
		return nil, mapError(err, "failed to fetch triggers")
	}
	defer rows.Close()

	var trgs []catalog.Trigger
	for rows.Next() {
		var t catalog.Trigger
		var timing, event, stmt string
		if err := rows.Scan(&t.Name, &timing, &event, &stmt); err != nil {
			return nil, mapError(err, "failed to scan trigger")
		}
		// MySQL triggers carry an inline body, not an owning function.
		t.Def = fmt.Sprintf("%s %s %s", timing, event, stmt)
		trgs = append(trgs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating triggers")
	}
	return trgs, nil
}

func (s *Snapshot) Routines(ctx context.Context, schema string) ([]catalog.Routine, error) {
	const q = `
		SELECT r.routine_name,
		       COALESCE((
		           SELECT GROUP_CONCAT(CONCAT(p.parameter_name, ' ', p.dtd_identifier)
		                               ORDER BY p.ordinal_position SEPARATOR ', ')
		           FROM information_schema.parameters p
		           WHERE p.specific_schema = r.routine_schema
		             AND p.specific_name   = r.specific_name
		             AND p.ordinal_position > 0
		       ), ''),
		       COALESCE(r.dtd_identifier, '')
		FROM information_schema.routines r
		WHERE r.routine_schema = ?
		  AND r.routine_type IN ('FUNCTION', 'PROCEDURE')
		ORDER BY r.routine_name`

	rows, err := s.tx.QueryContext(ctx, q, schema)
	if err != nil {
		return nil, mapError(err, "failed to fetch routines")
	}
	defer rows.Close()

	var routines []catalog.Routine
	for rows.Next() {
		var r catalog.Routine
		if err := rows.Scan(&r.Name, &r.Args, &r.ReturnType); err != nil {
			return nil, mapError(err, "failed to scan routine")
		}
		routines = append(routines, r)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating routines")
	}
	return routines, nil
}

// fetchStrings runs a query returning one text column.
func (s *Snapshot) fetchStrings(ctx context.Context, q, errMsg string, args ...any) ([]string, error) {
	rows, err := s.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(err, errMsg)
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, mapError(err, errMsg)
		}
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, errMsg)
	}
	return list, nil
}
