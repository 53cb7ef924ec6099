package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"seatwise/internal/config"
	"seatwise/internal/storage"

	"github.com/lib/pq"
)

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	s := &Storage{DB: db}

	if err = s.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS events (
			id              BIGSERIAL PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL,
			date            TIMESTAMPTZ NOT NULL,
			location        TEXT NOT NULL,
			total_seats     INT NOT NULL CHECK (total_seats >= 1),
			seats_available INT NOT NULL CHECK (seats_available >= 0),
			status          TEXT NOT NULL DEFAULT 'pending',
			organizer_id    BIGINT NOT NULL REFERENCES users (id),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (seats_available <= total_seats)
		);

		CREATE TABLE IF NOT EXISTS bookings (
			id         BIGSERIAL PRIMARY KEY,
			ticket_id  TEXT NOT NULL UNIQUE,
			event_id   BIGINT NOT NULL REFERENCES events (id),
			user_id    BIGINT NOT NULL REFERENCES users (id),
			seats      INT NOT NULL CHECK (seats >= 1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id);
		CREATE INDEX IF NOT EXISTS bookings_event_idx ON bookings (event_id);`

	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return err
	}

	return nil
}

type txKey struct{}

// WithTx runs fn inside a transaction carried through the context, so every
// storage call made from fn joins the same transaction. Nested calls reuse
// the outer transaction. A failed rollback is reported as ErrConsistency:
// the seat counter and the ledger may have diverged.
func (s *Storage) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w: rollback failed: %v (original error: %v)", storage.ErrConsistency, rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the transaction from the context when present, the pool otherwise.
func (s *Storage) q(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.DB
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
