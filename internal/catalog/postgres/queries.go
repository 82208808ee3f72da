package postgres

// Catalog lookups, one fixed query per entity kind. Each is drained fully
// before the next one runs, inside the snapshot's read-only transaction.

const qSchemas = `
SELECT n.nspname
FROM pg_namespace n
WHERE n.nspname NOT LIKE 'pg\_%'
  AND n.nspname <> 'information_schema'
ORDER BY 1`

const qAllSchemas = `
SELECT n.nspname
FROM pg_namespace n
ORDER BY 1`

const qRelations = `
SELECT c.relname, c.relkind::text
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1
  AND c.relkind::text = ANY($2)
ORDER BY 1`

const qRelOID = `
SELECT c.oid
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = $1 AND c.relname = $2`

const qColumns = `
SELECT a.attname,
       pg_catalog.format_type(a.atttypid, a.atttypmod) AS data_type,
       a.attnotnull,
       pg_get_expr(ad.adbin, ad.adrelid) AS default_expr
FROM pg_attribute a
LEFT JOIN pg_attrdef ad
  ON a.attrelid = ad.adrelid AND a.attnum = ad.adnum
WHERE a.attrelid = $1
  AND a.attnum > 0
  AND NOT a.attisdropped
ORDER BY a.attnum`

const qIndexes = `
SELECT c2.relname                   AS idxname,
       i.indisprimary,
       i.indisunique,
       NOT i.indisvalid             AS is_invalid,
       pg_get_indexdef(i.indexrelid) AS idxdef
FROM pg_index i
JOIN pg_class c  ON c.oid  = i.indrelid
JOIN pg_class c2 ON c2.oid = i.indexrelid
WHERE c.oid = $1
ORDER BY 1`

const qForeignKeysOut = `
SELECT conname,
       pg_get_constraintdef(oid, true) AS def,
       confrelid::regclass::text       AS ref_table
FROM pg_constraint
WHERE conrelid = $1 AND contype = 'f'
ORDER BY 1`

const qForeignKeysIn = `
SELECT conname,
       pg_get_constraintdef(oid, true) AS def,
       conrelid::regclass::text        AS src_table
FROM pg_constraint
WHERE confrelid = $1 AND contype = 'f'
ORDER BY 1`

const qTriggers = `
SELECT t.tgname,
       pg_get_triggerdef(t.oid, true) AS tgdef,
       p.proname                      AS func_name
FROM pg_trigger t
LEFT JOIN pg_proc p ON p.oid = t.tgfoid
WHERE t.tgrelid = $1
  AND NOT t.tgisinternal
ORDER BY 1`

const qRoutines = `
SELECT p.proname,
       pg_catalog.pg_get_function_identity_arguments(p.oid) AS args,
       pg_catalog.format_type(p.prorettype, NULL)           AS rettype
FROM pg_proc p
JOIN pg_namespace n ON n.oid = p.pronamespace
WHERE n.nspname = $1
  AND p.prokind IN ('f','p')
ORDER BY 1, 2`
