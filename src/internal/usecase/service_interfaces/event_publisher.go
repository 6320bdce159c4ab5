package service_interfaces

import "github.com/api-sage/core-ledger/src/internal/domain"

// EventPublisher accepts posted-entry events. Publish must not block.
type EventPublisher interface {
	Publish(event domain.EntryEvent)
}
