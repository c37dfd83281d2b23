package authkit

import (
	"github.com/fernandezvara/dbkit"
)

// Service provides the tenant/role/permission graph, the authorization
// evaluator and the credential lifecycle over a dbkit-managed database.
//
// A Service is a stateless function library over the store: nothing is cached
// across calls, and every operation runs against the dbkit.IDB the Service is
// bound to. Since both *dbkit.DBKit and *dbkit.Tx satisfy dbkit.IDB, a caller
// that needs several operations to commit atomically binds the Service to its
// own transaction:
//
//	err := db.Transaction(ctx, func(tx *dbkit.Tx) error {
//	    s := service.WithTx(tx)
//	    if err := s.AssignUserRole(ctx, userID, roleID); err != nil {
//	        return err
//	    }
//	    _, err := s.CreateLogin(ctx, userID, password)
//	    return err
//	})
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping, so failures
// carry operation names and preserve the original error types for
// classification (dbkit.IsDuplicate, dbkit.IsNotFound). Caller-input
// violations are reported as ErrInvalidParameter before any store mutation;
// store constraint violations propagate unmodified.
type Service struct {
	db        dbkit.IDB
	config    Config
	txMonitor *transactionMonitor
}

// NewService creates a new AuthKit service bound to db.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := authkit.NewService(db, authkit.DefaultConfig())
func NewService(db dbkit.IDB, config Config) *Service {
	return &Service{
		db:        db,
		config:    config.normalize(),
		txMonitor: newTransactionMonitor(),
	}
}

// WithTx returns a Service bound to the given transaction (or any other
// dbkit.IDB). The receiver is not modified; configuration and the transaction
// monitor are shared.
func (s *Service) WithTx(tx dbkit.IDB) *Service {
	return &Service{
		db:        tx,
		config:    s.config,
		txMonitor: s.txMonitor,
	}
}

// Config returns the configuration the service was created with.
func (s *Service) Config() Config {
	return s.config
}
