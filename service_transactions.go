package authkit

import (
	"context"
	"fmt"
	"time"

	"github.com/fernandezvara/dbkit"
)

// Transaction executes a function within a database transaction with
// automatic commit/rollback, handing the callback a Service bound to the
// transaction. If the function returns an error, the transaction is rolled
// back; otherwise it is committed. When the Service is already bound to a
// transaction, a savepoint is used.
//
// Example:
//
//	err := service.Transaction(ctx, func(ctx context.Context, s *authkit.Service) error {
//	    if err := s.AssignUserRole(ctx, userID, roleID); err != nil {
//	        return err // rollback
//	    }
//	    _, err := s.CreateLogin(ctx, userID, password)
//	    return err // nil commits
//	})
func (s *Service) Transaction(ctx context.Context, fn func(ctx context.Context, s *Service) error) error {
	start := time.Now()
	var err error

	switch db := s.db.(type) {
	case *dbkit.Tx:
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, s.WithTx(tx))
		})
	case *dbkit.DBKit:
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, s.WithTx(tx))
		})
	default:
		err = fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	duration := time.Since(start)
	s.txMonitor.recordTransaction(duration, err == nil)

	return err
}

// TransactionWithOptions executes a function within a database transaction
// with custom options: read-only transactions, isolation levels, and other
// transaction parameters. RequestPasswordReset's at-most-one-active
// invariant needs dbkit.SerializableTxOptions() under concurrent callers.
//
// Example:
//
//	err := service.TransactionWithOptions(ctx, dbkit.SerializableTxOptions(),
//	    func(ctx context.Context, s *authkit.Service) error {
//	        _, err := s.RequestPasswordReset(ctx, input)
//	        return err
//	    })
func (s *Service) TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, s *Service) error) error {
	start := time.Now()
	var err error

	switch db := s.db.(type) {
	case *dbkit.Tx:
		// Nested transactions become savepoints; options cannot be changed
		// mid-transaction.
		err = db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return fn(ctx, s.WithTx(tx))
		})
	case *dbkit.DBKit:
		err = db.TransactionWithOptions(ctx, opts, func(tx *dbkit.Tx) error {
			return fn(ctx, s.WithTx(tx))
		})
	default:
		err = fmt.Errorf("transaction support requires a dbkit.DBKit or dbkit.Tx instance")
	}

	duration := time.Since(start)
	s.txMonitor.recordTransaction(duration, err == nil)

	return err
}

// ReadOnlyTransaction executes a function within a read-only database
// transaction. Useful for multi-read decisions (grant set plus login
// history) that want a consistent snapshot.
func (s *Service) ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, s *Service) error) error {
	return s.TransactionWithOptions(ctx, dbkit.ReadOnlyTxOptions(), fn)
}

// GetTransactionMetrics returns transaction statistics recorded by the
// Transaction helpers.
func (s *Service) GetTransactionMetrics() TransactionMetrics {
	return s.txMonitor.getMetrics()
}

// ResetTransactionMetrics resets the transaction statistics.
func (s *Service) ResetTransactionMetrics() {
	s.txMonitor.reset()
}
