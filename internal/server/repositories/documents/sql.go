package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/dbx"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour of an SQLStore.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) driverName() string {
	if d == DialectSQLite {
		return "sqlite"
	}
	return "pgx"
}

func (d Dialect) gooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// sqlitePlaceholders rewrites $N into SQLite's numbered ?N form.
var sqlitePlaceholders = strings.NewReplacer("$1", "?1", "$2", "?2", "$3", "?3", "$4", "?4", "$5", "?5")

func (d Dialect) rebind(query string) string {
	if d == DialectSQLite {
		return sqlitePlaceholders.Replace(query)
	}
	return query
}

const (
	createQuery = `
		INSERT INTO documents (collection, doc_key, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (collection, doc_key) DO NOTHING
	`
	readQuery = `
		SELECT body FROM documents
		WHERE collection = $1 AND doc_key = $2
	`
	updateQuery = `
		UPDATE documents SET body = $1, updated_at = $2
		WHERE collection = $3 AND doc_key = $4
	`
	deleteQuery = `
		DELETE FROM documents
		WHERE collection = $1 AND doc_key = $2
	`
	listQuery = `
		SELECT doc_key FROM documents
		WHERE collection = $1
		ORDER BY doc_key
	`
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// SQLStore keeps documents in a single "documents" table. It works on
// PostgreSQL through pgx and on SQLite through modernc.org/sqlite.
type SQLStore struct {
	db      *sql.DB
	q       dbx.DBTX
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore wraps an already opened database.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, q: db, dialect: dialect, now: time.Now}
}

// OpenSQLStore opens dsn with the driver matching dialect and checks the
// connection.
func OpenSQLStore(ctx context.Context, dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("sql store: open: %w", err)
	}
	if dialect == DialectSQLite {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql store: ping: %w", err)
	}
	return NewSQLStore(db, dialect), nil
}

// Migrate applies the embedded goose migrations.
func (s *SQLStore) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(s.dialect.gooseDialect()); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

func (s *SQLStore) Create(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	res, err := s.q.ExecContext(ctx, s.dialect.rebind(createQuery), collection, key, string(b), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (s *SQLStore) Read(ctx context.Context, collection, key string, out any) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	var body string
	if err := s.q.QueryRowContext(ctx, s.dialect.rebind(readQuery), collection, key).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return decode([]byte(body), out)
}

func (s *SQLStore) Update(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	res, err := s.q.ExecContext(ctx, s.dialect.rebind(updateQuery), string(b), s.now().UnixMilli(), collection, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLStore) Delete(ctx context.Context, collection, key string) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	res, err := s.q.ExecContext(ctx, s.dialect.rebind(deleteQuery), collection, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLStore) List(ctx context.Context, collection string) ([]string, error) {
	if err := ValidateKey(collection); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, s.dialect.rebind(listQuery), collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return keys, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
