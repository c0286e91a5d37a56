package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by pooled connections and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Scope holds one pooled connection for the lifetime of a request or batch step.
type Scope struct {
	Conn *pgxpool.Conn
}

// Close releases the connection back to the pool. Safe to call twice.
func (s *Scope) Close() {
	if s.Conn == nil {
		return
	}
	s.Conn.Release()
	s.Conn = nil
}

// Acquire takes a connection from the pool.
// The returned Scope MUST be closed with defer scope.Close().
func (db *DB) Acquire(ctx context.Context) (*Scope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Scope{Conn: conn}, nil
}

// ErrNoScope is returned when a repository runs without an acquired scope.
var ErrNoScope = errors.New("no database scope in context")

// GetQuerier returns the active transaction if one is open in ctx, otherwise
// the scope connection.
func GetQuerier(ctx context.Context) (Querier, error) {
	if tx, ok := getTx(ctx); ok {
		return tx, nil
	}
	scope, ok := GetScope(ctx)
	if !ok || scope.Conn == nil {
		return nil, ErrNoScope
	}
	return scope.Conn, nil
}

// WithTx runs fn inside a transaction on the scope connection. The
// transaction commits when fn returns nil and rolls back on error or panic.
// Nested calls join the outer transaction.
func WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := getTx(ctx); ok {
		return fn(ctx)
	}

	scope, ok := GetScope(ctx)
	if !ok || scope.Conn == nil {
		return ErrNoScope
	}

	tx, err := scope.Conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	if err = fn(setTx(ctx, tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
