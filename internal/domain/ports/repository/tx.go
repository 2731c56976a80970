package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks the explicit non-transactional path.
var NoTX Tx = nil

// TransactionManager executes a function within a database transaction,
// passing the underlying handle via `tx`.
//
// Use-case interfaces stay clean (no transaction types leaking out), while
// repository methods that accept `tx` can detect a transaction handle and run
// locked reads or tx-bound writes as needed. The concrete type of `tx` is
// infra-defined (pgx.Tx for Postgres). Repositories MUST gracefully accept a
// nil tx (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
