package services

import (
	"context"

	"github.com/ekaya-inc/prospect-crm/pkg/database"
)

// TxFunc runs fn inside a transaction. database.WithTx in production;
// tests substitute a pass-through.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// DefaultTx is the production TxFunc.
var DefaultTx TxFunc = database.WithTx

func txOrDefault(tx TxFunc) TxFunc {
	if tx == nil {
		return DefaultTx
	}
	return tx
}
