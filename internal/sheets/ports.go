package sheets

import (
	"context"

	"fintrack/internal/core"
)

// TransactionAppender writes one transaction row to an external sheet and
// returns a reference to the written range.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, t core.Transaction, categoryName string) (rowRef string, err error)
}
