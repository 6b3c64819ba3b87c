// Package tx decouples domain services from the database driver.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
//
// Approval transitions are the heaviest consumers: a document row lock,
// a stock balance mutation and an audit insert must commit or roll back
// as one unit. Nested calls reuse the transaction already carried in
// the context, so a service method wrapped in RunInTransaction can call
// other wrapped methods without opening a second transaction.
type Manager interface {
	// RunInTransaction executes fn within a transaction. An error from
	// fn rolls the transaction back and is returned unchanged.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
