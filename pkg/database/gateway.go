package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// QueryObserver receives the duration of every gateway operation, labelled by name.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// GatewayOptions tunes a Gateway.
type GatewayOptions struct {
	QueryTimeout time.Duration
	Observer     QueryObserver
	Logger       *zap.Logger
}

// Gateway is the only path to the datastore. It bounds every operation with a timeout,
// classifies driver errors and provides scoped transactions over the shared pool.
type Gateway struct {
	db       *sqlx.DB
	timeout  time.Duration
	observer QueryObserver
	logger   *zap.Logger
}

// NewGateway wraps a pooled connection handle.
func NewGateway(db *sqlx.DB, opts GatewayOptions) *Gateway {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Gateway{db: db, timeout: opts.QueryTimeout, observer: opts.Observer, logger: opts.Logger}
}

// Ping checks that a connection can be acquired.
func (g *Gateway) Ping(ctx context.Context) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	return g.classify(ctx, "ping", g.db.PingContext(ctx))
}

// Close releases the pool.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// Select runs a query and scans every row into dest.
func (g *Gateway) Select(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	defer g.observe(op, time.Now())
	return g.classify(ctx, op, g.db.SelectContext(ctx, dest, query, args...))
}

// Get runs a query expected to return one row.
func (g *Gateway) Get(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	defer g.observe(op, time.Now())
	return g.classify(ctx, op, g.db.GetContext(ctx, dest, query, args...))
}

// Exec runs a statement that returns no rows.
func (g *Gateway) Exec(ctx context.Context, op string, query string, args ...interface{}) (sql.Result, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	defer g.observe(op, time.Now())
	res, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, g.classify(ctx, op, err)
	}
	return res, nil
}

// Tx is a transaction handed to WithTx callbacks.
type Tx struct {
	tx *sqlx.Tx
	g  *Gateway
	op string
}

// Select runs a query inside the transaction.
func (t *Tx) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return t.g.classify(ctx, t.op, t.tx.SelectContext(ctx, dest, query, args...))
}

// Get runs a single-row query inside the transaction.
func (t *Tx) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return t.g.classify(ctx, t.op, t.tx.GetContext(ctx, dest, query, args...))
}

// Exec runs a statement inside the transaction.
func (t *Tx) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, t.g.classify(ctx, t.op, err)
	}
	return res, nil
}

// WithTx acquires a connection, begins a transaction and runs fn. The transaction commits only
// when fn returns nil; any error or panic rolls it back. The connection goes back to the pool
// on every path.
func (g *Gateway) WithTx(ctx context.Context, op string, fn func(ctx context.Context, tx *Tx) error) (err error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()
	defer g.observe(op, time.Now())

	sqlxTx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return g.classify(ctx, op+".begin", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			g.rollback(op, sqlxTx)
			panic(p)
		}
		g.rollback(op, sqlxTx)
	}()

	if err = fn(ctx, &Tx{tx: sqlxTx, g: g, op: op}); err != nil {
		return err
	}

	if err = sqlxTx.Commit(); err != nil {
		// database/sql has already released the connection; nothing left to roll back.
		committed = true
		return g.classify(ctx, op+".commit", err)
	}
	committed = true
	return nil
}

func (g *Gateway) rollback(op string, tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		g.logger.Warn("transaction rollback failed", zap.String("op", op), zap.Error(err))
	}
}

func (g *Gateway) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// classify treats any failure after the operation context expired as unavailability, whatever
// the driver reported.
func (g *Gateway) classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		if _, ok := err.(*Error); !ok {
			return &Error{Op: op, Kind: ErrUnavailable, cause: err}
		}
	}
	return Classify(op, err)
}

func (g *Gateway) observe(op string, start time.Time) {
	if g.observer == nil {
		return
	}
	g.observer.ObserveDBQuery(op, time.Since(start))
}
