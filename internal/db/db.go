// Package db holds the optional Postgres connection used to record playback
// events. Every failure is reported through an errs.ErrorHandler, so callers
// only check a hasErr flag.
package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/btmxh/mediaview/internal/errs"
	_ "github.com/lib/pq"
)

var DB *sql.DB

var (
	GenericError  = errors.New("Unable to access database")
	ErrNoDatabase = errors.New("Database is not configured")
)

const schema = `CREATE TABLE IF NOT EXISTS playback_events (
	id UUID PRIMARY KEY,
	session_id TEXT NOT NULL,
	media_id TEXT NOT NULL,
	media_kind TEXT NOT NULL,
	event TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS playback_events_media_idx ON playback_events (media_id, created_at);`

func InitDB(connStr string) error {
	var err error
	DB, err = sql.Open("postgres", connStr)
	return err
}

// Enabled reports whether InitDB succeeded. Without a database nothing is
// recorded.
func Enabled() bool {
	return DB != nil
}

// Migrate checks the connection and creates the tables if needed.
func Migrate(ctx context.Context) error {
	if DB == nil {
		return ErrNoDatabase
	}
	if err := DB.PingContext(ctx); err != nil {
		return err
	}

	_, err := DB.ExecContext(ctx, schema)
	return err
}

func CloseDB() {
	if DB == nil {
		return
	}

	if err := DB.Close(); err != nil {
		slog.Warn("error while closing database", "err", err)
	}
}

// DatabaseError logs err and shows the user a generic message instead.
func DatabaseError(handler errs.ErrorHandler, err error) {
	handler.PrivateError(err)
	handler.PublicError(http.StatusInternalServerError, GenericError)
}

type Tx struct {
	ctx     context.Context
	tx      *sql.Tx
	handler errs.ErrorHandler
}

func BeginTx(ctx context.Context, handler errs.ErrorHandler) *Tx {
	if DB == nil {
		DatabaseError(handler, ErrNoDatabase)
		return nil
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		DatabaseError(handler, err)
		return nil
	}

	return &Tx{ctx: ctx, tx: tx, handler: handler}
}

func (tx *Tx) Handler() errs.ErrorHandler {
	return tx.handler
}

func (tx *Tx) check(err error) (hasErr bool) {
	if err != nil {
		DatabaseError(tx.handler, err)
		return true
	}
	return false
}

func (tx *Tx) Exec(result *sql.Result, query string, args ...any) (hasErr bool) {
	res, err := tx.tx.ExecContext(tx.ctx, query, args...)
	if tx.check(err) {
		return true
	}

	if result != nil {
		*result = res
	}
	return false
}

// Query runs a query whose rows the caller must close.
func (tx *Tx) Query(rows **sql.Rows, query string, args ...any) (hasErr bool) {
	r, err := tx.tx.QueryContext(tx.ctx, query, args...)
	if tx.check(err) {
		return true
	}

	*rows = r
	return false
}

type QueryRow struct {
	row *sql.Row
	tx  *Tx
}

func (tx *Tx) QueryRow(query string, args ...any) *QueryRow {
	return &QueryRow{row: tx.tx.QueryRowContext(tx.ctx, query, args...), tx: tx}
}

// Scan reads the row into dest. With hasRow set a missing row is not an
// error and is reported through hasRow instead.
func (row *QueryRow) Scan(hasRow *bool, dest ...any) (hasErr bool) {
	err := row.row.Scan(dest...)
	if hasRow != nil {
		*hasRow = err == nil
		if errors.Is(err, sql.ErrNoRows) {
			return false
		}
	}

	return row.tx.check(err)
}

func (tx *Tx) Rollback() {
	if err := tx.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Warn("error while rolling back transaction", "err", err)
	}
}

func (tx *Tx) Commit() (hasErr bool) {
	return tx.check(tx.tx.Commit())
}
