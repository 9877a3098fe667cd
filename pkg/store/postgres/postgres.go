package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/diwise/tenant-store/pkg/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const uniqueViolation string = "23505"

var tracer = otel.Tracer("tenant-store/store/postgres")

// Driver stores every collection in its own table with the documents kept
// in a JSONB column
type Driver struct {
	pool *pgxpool.Pool

	mu          sync.Mutex
	collections map[string]*collection
}

func Connect(ctx context.Context, cfg Config) (*Driver, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Driver{
		pool:        pool,
		collections: map[string]*collection{},
	}, nil
}

func (d *Driver) Collection(name string) store.Collection {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.collections[name]
	if !ok {
		c = &collection{name: name, table: tableName(name), pool: d.pool}
		d.collections[name] = c
	}

	return c
}

// Collections lists the collections that have a table in the database
func (d *Driver) Collections(ctx context.Context) ([]string, error) {
	sql := `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name LIKE 'collection\_%' ORDER BY table_name;`

	rows, err := d.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)

	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		names = append(names, strings.TrimPrefix(t, "collection_"))
	}

	return names, rows.Err()
}

func (d *Driver) Close(ctx context.Context) error {
	d.pool.Close()
	return nil
}

type collection struct {
	name  string
	table string
	pool  *pgxpool.Pool

	mu      sync.Mutex
	created bool
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return tracer.Start(ctx, operation, trace.WithAttributes(attribute.String("collection", c.name)))
}

func (c *collection) init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.created {
		return nil
	}

	sql := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		seq BIGSERIAL
	);`, c.table)

	if _, err := c.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to create table for collection %s: %w", c.name, err)
	}

	c.created = true

	return nil
}

func (c *collection) Find(ctx context.Context, filter document.Filter, opts store.FindOptions) (result []document.Document, err error) {
	ctx, span := c.startSpan(ctx, "find")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if err = c.init(ctx); err != nil {
		return nil, err
	}

	q := &query{}

	where, err := q.where(filter)
	if err != nil {
		return nil, err
	}

	order, err := q.orderBy(opts.Sort)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("SELECT doc FROM %s WHERE %s%s%s;", c.table, where, order, q.page(opts))

	logging.GetFromContext(ctx).Debug("find documents", slog.String("collection", c.name), slog.String("sql", sql))

	rows, err := c.pool.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result = make([]document.Document, 0)

	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}

		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}

		result = append(result, doc)
	}

	return result, rows.Err()
}

func (c *collection) FindOne(ctx context.Context, filter document.Filter, opts store.FindOptions) (document.Document, error) {
	opts.Limit = 1

	docs, err := c.Find(ctx, filter, opts)
	if err != nil || len(docs) == 0 {
		return nil, err
	}

	return docs[0], nil
}

func (c *collection) Count(ctx context.Context, filter document.Filter) (n int64, err error) {
	ctx, span := c.startSpan(ctx, "count")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if err = c.init(ctx); err != nil {
		return 0, err
	}

	q := &query{}

	where, err := q.where(filter)
	if err != nil {
		return 0, err
	}

	sql := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s;", c.table, where)

	err = c.pool.QueryRow(ctx, sql, q.args...).Scan(&n)

	return n, err
}

func (c *collection) FindOneAndDelete(ctx context.Context, filter document.Filter) (result document.Document, err error) {
	ctx, span := c.startSpan(ctx, "find-one-and-delete")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if err = c.init(ctx); err != nil {
		return nil, err
	}

	q := &query{}

	where, err := q.where(filter)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("DELETE FROM %[1]s WHERE id = (SELECT id FROM %[1]s WHERE %[2]s ORDER BY seq LIMIT 1 FOR UPDATE) RETURNING doc;", c.table, where)

	var raw []byte
	err = c.pool.QueryRow(ctx, sql, q.args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decode(raw)
}

func (c *collection) FindOneAndUpdate(ctx context.Context, filter document.Filter, update document.Update, opts store.UpdateOptions) (result document.Document, err error) {
	ctx, span := c.startSpan(ctx, "find-one-and-update")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	err = c.inTx(ctx, func(tx pgx.Tx) error {
		matches, err := c.lockMatching(ctx, tx, filter, 1)
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			if !opts.Upsert {
				return nil
			}

			doc, err := c.upsert(ctx, tx, filter, update, opts)
			if err == nil && opts.ReturnNew {
				result = doc
			}
			return err
		}

		after, err := c.rewrite(ctx, tx, matches[0], update, opts.Overwrite)
		if err != nil {
			return err
		}

		result = matches[0]
		if opts.ReturnNew {
			result = after
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *collection) UpdateOne(ctx context.Context, filter document.Filter, update document.Update, opts store.UpdateOptions) (store.UpdateResult, error) {
	return c.update(ctx, "update-one", filter, update, opts, 1)
}

func (c *collection) UpdateMany(ctx context.Context, filter document.Filter, update document.Update, opts store.UpdateOptions) (store.UpdateResult, error) {
	if opts.Overwrite {
		return store.UpdateResult{}, store.ErrReplaceMany
	}
	return c.update(ctx, "update-many", filter, update, opts, 0)
}

func (c *collection) update(ctx context.Context, operation string, filter document.Filter, update document.Update, opts store.UpdateOptions, limit int) (result store.UpdateResult, err error) {
	ctx, span := c.startSpan(ctx, operation)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	err = c.inTx(ctx, func(tx pgx.Tx) error {
		matches, err := c.lockMatching(ctx, tx, filter, limit)
		if err != nil {
			return err
		}

		if len(matches) == 0 && opts.Upsert {
			doc, err := c.upsert(ctx, tx, filter, update, opts)
			if err != nil {
				return err
			}
			result.UpsertedID = doc.ID()
			return nil
		}

		result.MatchedCount = int64(len(matches))

		for _, before := range matches {
			after, err := c.rewrite(ctx, tx, before, update, opts.Overwrite)
			if err != nil {
				return err
			}
			if !document.Equal(map[string]any(before), map[string]any(after)) {
				result.ModifiedCount++
			}
		}

		return nil
	})

	if err != nil {
		return store.UpdateResult{}, err
	}

	return result, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter document.Filter) (int64, error) {
	doc, err := c.FindOneAndDelete(ctx, filter)
	if err != nil || doc == nil {
		return 0, err
	}
	return 1, nil
}

func (c *collection) DeleteMany(ctx context.Context, filter document.Filter) (n int64, err error) {
	ctx, span := c.startSpan(ctx, "delete-many")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if err = c.init(ctx); err != nil {
		return 0, err
	}

	q := &query{}

	where, err := q.where(filter)
	if err != nil {
		return 0, err
	}

	tag, err := c.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s;", c.table, where), q.args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (c *collection) InsertOne(ctx context.Context, doc document.Document) (err error) {
	ctx, span := c.startSpan(ctx, "insert-one")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if err = c.init(ctx); err != nil {
		return err
	}

	return c.insert(ctx, c.pool, doc)
}

// InsertMany writes all documents in one transaction. Nothing is written
// when one of them fails.
func (c *collection) InsertMany(ctx context.Context, docs []document.Document) (err error) {
	ctx, span := c.startSpan(ctx, "insert-many")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	return c.inTx(ctx, func(tx pgx.Tx) error {
		for _, doc := range docs {
			if err := c.insert(ctx, tx, doc); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *collection) EnsureIndex(ctx context.Context, index store.Index) (err error) {
	ctx, span := c.startSpan(ctx, "ensure-index")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if err = c.init(ctx); err != nil {
		return err
	}

	sql, err := indexStatement(c.name, index)
	if err != nil {
		return err
	}

	_, err = c.pool.Exec(ctx, sql)

	return c.mapError(err)
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (c *collection) insert(ctx context.Context, db execer, doc document.Document) error {
	doc = doc.Clone()
	if doc.ID() == nil {
		doc[document.IDKey] = document.NewObjectID()
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	sql := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb);", c.table)

	_, err = db.Exec(ctx, sql, document.Key(doc.ID()), string(raw))

	return c.mapError(err)
}

func (c *collection) upsert(ctx context.Context, tx pgx.Tx, filter document.Filter, update document.Update, opts store.UpdateOptions) (document.Document, error) {
	doc, err := store.Upserted(filter, update, opts.Overwrite)
	if err != nil {
		return nil, err
	}

	if err = c.insert(ctx, tx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// lockMatching selects the matching documents for update. A limit of zero
// selects all of them.
func (c *collection) lockMatching(ctx context.Context, tx pgx.Tx, filter document.Filter, limit int) ([]document.Document, error) {
	q := &query{}

	where, err := q.where(filter)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("SELECT doc FROM %s WHERE %s ORDER BY seq", c.table, where)
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	sql += " FOR UPDATE;"

	rows, err := tx.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]document.Document, 0)

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (c *collection) rewrite(ctx context.Context, tx pgx.Tx, before document.Document, update document.Update, overwrite bool) (document.Document, error) {
	var after document.Document
	var err error

	if overwrite {
		after, err = store.Replace(before, update)
	} else {
		after, err = store.ApplyUpdate(before, update, false)
	}
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(after)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	sql := fmt.Sprintf("UPDATE %s SET doc = $2::jsonb WHERE id = $1;", c.table)

	if _, err = tx.Exec(ctx, sql, document.Key(before.ID()), string(raw)); err != nil {
		return nil, c.mapError(err)
	}

	return after, nil
}

func (c *collection) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	if err := c.init(ctx); err != nil {
		return err
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return err
	}

	if err = fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func (c *collection) mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.NewDuplicateKeyError(c.name, pgErr.ConstraintName, pgErr.Detail)
	}
	return err
}

// decode reads a stored document. Whole numbers are returned as int64 and
// other numbers as float64.
func decode(raw []byte) (document.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	doc := document.Document{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return normalize(map[string]any(doc)).(map[string]any), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	}
	return v
}
