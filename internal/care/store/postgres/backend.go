package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"carelock/internal/care/store"
	"carelock/pkg/platform/sentinel"
	txcontext "carelock/pkg/platform/tx"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Backend stores each collection as one JSONB row of record_collections.
// Writes are last-write-wins; a Commit upserts all rows in one transaction.
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
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (b *Backend) Load(ctx context.Context, c store.Collection) ([]byte, error) {
	var payload []byte
	err := txcontext.Execer(ctx, b.db).QueryRowContext(ctx,
		`SELECT payload FROM record_collections WHERE name = $1`, string(c),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select collection %s: %w: %w", c, sentinel.ErrUnavailable, err)
	}
	return payload, nil
}

func (b *Backend) Commit(ctx context.Context, writes []store.Write) error {
	err := txcontext.Run(ctx, b.db, func(ctx context.Context) error {
		for _, w := range writes {
			if err := b.upsert(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit collections: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (b *Backend) upsert(ctx context.Context, w store.Write) error {
	query := `
		INSERT INTO record_collections (name, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := txcontext.Execer(ctx, b.db).ExecContext(ctx, query, string(w.Collection), w.Payload); err != nil {
		return fmt.Errorf("upsert collection %s: %w", w.Collection, err)
	}
	return nil
}
