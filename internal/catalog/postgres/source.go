// Package postgres implements catalog.Source against the PostgreSQL
// system catalogs (pg_namespace, pg_class, pg_attribute, pg_index,
// pg_constraint, pg_trigger, pg_proc) using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schemawalk/schemawalk/internal/catalog"
	"github.com/schemawalk/schemawalk/internal/errs"
)

// Pool wraps a pgx connection pool. It is safe for concurrent use;
// snapshots taken from it are not.
type Pool struct {
	pool *pgxpool.Pool
	cfg  *catalog.Config
}

// Connect builds a pool from cfg and validates it with a ping.
func Connect(ctx context.Context, cfg *catalog.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid DSN", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if cfg.ApplicationName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapError(err, "ping failed")
	}

	return &Pool{pool: pool, cfg: cfg}, nil
}

// Close drains the connection pool.
func (p *Pool) Close() {
	p.pool.Close()
}

// Snapshot opens one read-only transaction and returns a catalog.Source
// scoped to it. All reads through the snapshot see a single consistent
// view of the catalog. Callers must Close the snapshot when done.
func (p *Pool) Snapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, mapError(err, "failed to begin read-only transaction")
	}

	if p.cfg.StatementTimeout > 0 {
		ms := p.cfg.StatementTimeout.Milliseconds()
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", ms)); err != nil {
			_ = tx.Rollback(ctx)
			return nil, mapError(err, "failed to set statement timeout")
		}
	}

	return &Snapshot{tx: tx}, nil
}

// Snapshot is a catalog.Source bound to one read-only transaction.
// It drives one cursor at a time and must not be shared across goroutines.
type Snapshot struct {
	tx pgx.Tx
}

var _ catalog.Source = (*Snapshot)(nil)

// Close commits the read-only transaction, releasing the snapshot.
func (s *Snapshot) Close(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return mapError(err, "failed to close snapshot")
	}
	return nil
}

func (s *Snapshot) Schemas(ctx context.Context, includeAll bool) ([]string, error) {
	q := qSchemas
	if includeAll {
		q = qAllSchemas
	}

	rows, err := s.tx.Query(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list schemas")
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err, "failed to scan schema name")
		}
		schemas = append(schemas, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating schemas")
	}
	return schemas, nil
}

func (s *Snapshot) Relations(ctx context.Context, schema string, kinds []catalog.RelKind) ([]catalog.Relation, error) {
	kindList := make([]string, len(kinds))
	for i, k := range kinds {
		kindList[i] = string(k)
	}

	rows, err := s.tx.Query(ctx, qRelations, schema, kindList)
	if err != nil {
		return nil, mapError(err, "failed to list relations")
	}
	defer rows.Close()

	var rels []catalog.Relation
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, mapError(err, "failed to scan relation")
		}
		rels = append(rels, catalog.Relation{Name: name, Kind: catalog.RelKind(kind)})
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating relations")
	}
	return rels, nil
}

func (s *Snapshot) ResolveRelation(ctx context.Context, schema, name string) (catalog.RelID, bool, error) {
	var oid uint32
	err := s.tx.QueryRow(ctx, qRelOID, schema, name).Scan(&oid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.RelID{}, false, nil
		}
		return catalog.RelID{}, false, mapError(err, "failed to resolve relation")
	}
	return catalog.RelID{Schema: schema, Name: name, OID: oid}, true, nil
}

func (s *Snapshot) Columns(ctx context.Context, id catalog.RelID) ([]catalog.Column, error) {
	rows, err := s.tx.Query(ctx, qColumns, id.OID)
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
	rows, err := s.tx.Query(ctx, qIndexes, id.OID)
	if err != nil {
		return nil, mapError(err, "failed to fetch indexes")
	}
	defer rows.Close()

	var idxs []catalog.Index
	for rows.Next() {
		var ix catalog.Index
		if err := rows.Scan(&ix.Name, &ix.Primary, &ix.Unique, &ix.Invalid, &ix.Def); err != nil {
			return nil, mapError(err, "failed to scan index")
		}
		idxs = append(idxs, ix)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating indexes")
	}
	return idxs, nil
}

func (s *Snapshot) ForeignKeys(ctx context.Context, id catalog.RelID, dir catalog.FKDirection) ([]catalog.ForeignKey, error) {
	q := qForeignKeysOut
	if dir == catalog.FKIncoming {
		q = qForeignKeysIn
	}

	rows, err := s.tx.Query(ctx, q, id.OID)
	if err != nil {
		return nil, mapError(err, "failed to fetch foreign keys")
	}
	defer rows.Close()

	var fks []catalog.ForeignKey
	for rows.Next() {
		fk := catalog.ForeignKey{Direction: dir}
		if err := rows.Scan(&fk.Name, &fk.Def, &fk.Table); err != nil {
			return nil, mapError(err, "failed to scan foreign key")
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating foreign keys")
	}
	return fks, nil
}

func (s *Snapshot) Triggers(ctx context.Context, id catalog.RelID) ([]catalog.Trigger, error) {
	rows, err := s.tx.Query(ctx, qTriggers, id.OID)
	if err != nil {
		return nil, mapError(err, "failed to fetch triggers")
	}
	defer rows.Close()

	var trgs []catalog.Trigger
	for rows.Next() {
		var t catalog.Trigger
		if err := rows.Scan(&t.Name, &t.Def, &t.Function); err != nil {
			return nil, mapError(err, "failed to scan trigger")
		}
		trgs = append(trgs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating triggers")
	}
	return trgs, nil
}

func (s *Snapshot) Routines(ctx context.Context, schema string) ([]catalog.Routine, error) {
	rows, err := s.tx.Query(ctx, qRoutines, schema)
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
