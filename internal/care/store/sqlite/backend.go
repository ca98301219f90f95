package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"carelock/internal/care/store"
	"carelock/pkg/platform/sentinel"
	txcontext "carelock/pkg/platform/tx"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Backend keeps collections in a single-file SQLite database, one row per
// collection.
type Backend struct {
	db *sql.DB
}

func New(db *sql.DB) *Backend {
	return &Backend{db: db}
}

// Migrate brings the schema up to date.
func Migrate(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (b *Backend) Load(ctx context.Context, c store.Collection) ([]byte, error) {
	var payload string
	err := txcontext.Execer(ctx, b.db).QueryRowContext(ctx,
		`SELECT payload FROM record_collections WHERE name = ?`, string(c),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select collection %s: %w: %w", c, sentinel.ErrUnavailable, err)
	}
	return []byte(payload), nil
}

func (b *Backend) Commit(ctx context.Context, writes []store.Write) error {
	now := time.Now().UTC().UnixMilli()
	err := txcontext.Run(ctx, b.db, func(ctx context.Context) error {
		for _, w := range writes {
			_, err := txcontext.Execer(ctx, b.db).ExecContext(ctx, `
				INSERT INTO record_collections (name, payload, updated_at)
				VALUES (?, ?, ?)
				ON CONFLICT(name) DO UPDATE SET
					payload = excluded.payload,
					updated_at = excluded.updated_at
			`, string(w.Collection), string(w.Payload), now)
			if err != nil {
				return fmt.Errorf("upsert collection %s: %w", w.Collection, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit collections: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
