package notify

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
)

// LogNotifier writes events to the application log. It is the sink used when
// no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event domain.EntryEvent) error {
	logger.Info("ledger entry posted", logger.Fields{
		"eventId":         event.EventID,
		"transactionId":   event.TransactionID,
		"reference":       event.Reference,
		"transactionType": event.TransactionType,
		"accountId":       event.AccountID,
		"entryType":       event.EntryType,
		"amount":          event.Amount.String(),
		"currency":        event.Currency,
	})
	return nil
}
