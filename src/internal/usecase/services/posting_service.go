package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingService owns the transaction state machine. It is the only writer of
// entries and transaction status.
type PostingService struct {
	uow       repo_interfaces.UnitOfWork
	publisher service_interfaces.EventPublisher
	now       func() time.Time
}

func NewPostingService(uow repo_interfaces.UnitOfWork, publisher service_interfaces.EventPublisher) *PostingService {
	return &PostingService{
		uow:       uow,
		publisher: publisher,
		now:       time.Now,
	}
}

var (
	_ service_interfaces.PostingService = (*PostingService)(nil)
	_ service_interfaces.Poster         = (*PostingService)(nil)
)

// Submit creates a PENDING transaction for intent and posts it.
func (s *PostingService) Submit(ctx context.Context, intent domain.TransactionIntent) (domain.Transaction, error) {
	created, err := s.Create(ctx, intent)
	if err != nil {
		return domain.Transaction{}, err
	}
	return s.Post(ctx, created.ID)
}

// Create validates intent and stores it as a PENDING transaction.
func (s *PostingService) Create(ctx context.Context, intent domain.TransactionIntent) (domain.Transaction, error) {
	logger.Info("posting service create request", logger.Fields{
		"fromAccountId": valueOrEmpty(intent.FromAccountID),
		"toAccountId":   valueOrEmpty(intent.ToAccountID),
		"amount":        intent.Amount.String(),
		"currency":      intent.Currency,
		"type":          intent.Type,
	})

	var created domain.Transaction
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		txn := s.prepare(domain.Transaction{
			FromAccountID: intent.FromAccountID,
			ToAccountID:   intent.ToAccountID,
			Amount:        intent.Amount,
			Currency:      strings.ToUpper(strings.TrimSpace(intent.Currency)),
			Type:          intent.Type,
			Description:   strings.TrimSpace(intent.Description),
		}, referencePrefixTransaction)
		if err = txn.Validate(); err != nil {
			return domain.Transaction{}, err
		}

		err = s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
			if _, err := s.loadParticipants(ctx, tx, txn); err != nil {
				return err
			}
			created, err = tx.Transactions().Create(ctx, txn)
			return err
		})
		if err == nil || !isConflict(err) {
			break
		}
	}
	if err != nil {
		logger.Error("posting service create failed", err, logger.Fields{"type": intent.Type})
		return domain.Transaction{}, err
	}

	logger.Info("posting service create success", logger.Fields{
		"transactionId": created.ID,
		"reference":     created.Reference,
	})
	return created, nil
}

// Post applies a PENDING transaction. A failure after validation rolls the
// unit back and then marks the transaction FAILED in a unit of its own.
func (s *PostingService) Post(ctx context.Context, transactionID string) (domain.Transaction, error) {
	logger.Info("posting service post request", logger.Fields{"transactionId": transactionID})

	var posted domain.Transaction
	var entries []domain.Entry
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		txn, err := tx.Transactions().GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status.IsTerminal() {
			return fmt.Errorf("%w: transaction %s is %s", domain.ErrIdempotency, txn.ID, txn.Status)
		}

		entries, err = s.apply(ctx, tx, &txn)
		if err != nil {
			return err
		}
		posted = txn
		return nil
	})
	if err != nil {
		logger.Error("posting service post failed", err, logger.Fields{"transactionId": transactionID})
		if !failsTransaction(ctx, err) {
			return domain.Transaction{}, err
		}

		failed, markErr := s.markFailed(ctx, transactionID, err)
		if markErr != nil {
			logger.Error("posting service mark failed", markErr, logger.Fields{"transactionId": transactionID})
			return domain.Transaction{}, err
		}
		return failed, err
	}

	logger.Info("posting service post success", logger.Fields{
		"transactionId": posted.ID,
		"reference":     posted.Reference,
		"entries":       len(entries),
	})
	s.Notify(posted, entries)
	return posted, nil
}

// Hold reserves the amount on the source account. Only available moves.
func (s *PostingService) Hold(ctx context.Context, transactionID string) (domain.Transaction, error) {
	logger.Info("posting service hold request", logger.Fields{"transactionId": transactionID})

	var held domain.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		txn, err := tx.Transactions().GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status.IsTerminal() {
			return fmt.Errorf("%w: transaction %s is %s", domain.ErrIdempotency, txn.ID, txn.Status)
		}
		if txn.Held {
			return fmt.Errorf("%w: transaction %s is already held", domain.ErrInvalidState, txn.ID)
		}
		from := valueOrEmpty(txn.FromAccountID)
		if from == "" {
			return fmt.Errorf("%w: transaction %s has no source account to hold", domain.ErrInvalidState, txn.ID)
		}
		if err := txn.Validate(); err != nil {
			return err
		}

		accounts, err := s.loadParticipants(ctx, tx, txn)
		if err != nil {
			return err
		}
		account := accounts[from]
		if account.Status != domain.AccountStatusActive {
			return fmt.Errorf("%w: account %s is %s", domain.ErrInvalidState, account.ID, account.Status)
		}

		balance, err := tx.Balances().GetForUpdate(ctx, from)
		if err != nil {
			return err
		}
		if !account.CanDebit(balance, txn.Amount) {
			return fmt.Errorf("%w: account %s available %s, requested %s", domain.ErrInsufficientFunds, from, balance.AvailableBalance, txn.Amount)
		}
		if _, err := tx.Balances().Adjust(ctx, from, decimal.Zero, txn.Amount.Neg()); err != nil {
			return err
		}

		txn.Held = true
		held, err = tx.Transactions().Update(ctx, txn)
		return err
	})
	if err != nil {
		logger.Error("posting service hold failed", err, logger.Fields{"transactionId": transactionID})
		return domain.Transaction{}, err
	}

	logger.Info("posting service hold success", logger.Fields{"transactionId": transactionID})
	return held, nil
}

// Cancel moves a PENDING transaction to CANCELLED and releases any hold.
func (s *PostingService) Cancel(ctx context.Context, transactionID string) (domain.Transaction, error) {
	logger.Info("posting service cancel request", logger.Fields{"transactionId": transactionID})

	var cancelled domain.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		txn, err := tx.Transactions().GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status.IsTerminal() {
			return fmt.Errorf("%w: transaction %s is %s", domain.ErrIdempotency, txn.ID, txn.Status)
		}
		if err := releaseHold(ctx, tx, &txn); err != nil {
			return err
		}

		now := s.now().UTC()
		txn.Status = domain.TransactionStatusCancelled
		txn.ProcessedAt = &now
		cancelled, err = tx.Transactions().Update(ctx, txn)
		return err
	})
	if err != nil {
		logger.Error("posting service cancel failed", err, logger.Fields{"transactionId": transactionID})
		return domain.Transaction{}, err
	}

	logger.Info("posting service cancel success", logger.Fields{"transactionId": transactionID})
	return cancelled, nil
}

func (s *PostingService) Get(ctx context.Context, transactionID string) (domain.Transaction, []domain.Entry, error) {
	var txn domain.Transaction
	var entries []domain.Entry
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		if txn, err = tx.Transactions().Get(ctx, transactionID); err != nil {
			return err
		}
		entries, err = tx.Entries().ListByTransaction(ctx, transactionID)
		return err
	})
	if err != nil {
		return domain.Transaction{}, nil, err
	}
	return txn, entries, nil
}

func (s *PostingService) AccountEntries(ctx context.Context, accountID string) ([]domain.Entry, error) {
	var entries []domain.Entry
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		if _, err := tx.Accounts().Get(ctx, accountID); err != nil {
			return err
		}
		var err error
		entries, err = tx.Entries().ListByAccount(ctx, accountID)
		return err
	})
	return entries, err
}

// AccountTransactions pages through every transaction the account takes part
// in, newest first.
func (s *PostingService) AccountTransactions(ctx context.Context, accountID string, page domain.Page) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		if _, err := tx.Accounts().Get(ctx, accountID); err != nil {
			return err
		}
		var err error
		txns, err = tx.Transactions().ListByAccount(ctx, accountID, page.Normalize())
		return err
	})
	return txns, err
}

// PostWithin posts txn inside the caller's unit of work. A txn without an ID
// is created first; the caller publishes the returned entries with Notify
// once its unit has committed.
func (s *PostingService) PostWithin(ctx context.Context, tx repo_interfaces.Tx, txn *domain.Transaction) ([]domain.Entry, error) {
	if txn.ID == "" {
		*txn = s.prepare(*txn, referencePrefixTransaction)
		if err := txn.Validate(); err != nil {
			return nil, err
		}
		created, err := tx.Transactions().Create(ctx, *txn)
		if err != nil {
			return nil, err
		}
		*txn = created
	} else {
		stored, err := tx.Transactions().GetForUpdate(ctx, txn.ID)
		if err != nil {
			return nil, err
		}
		if stored.Status.IsTerminal() {
			return nil, fmt.Errorf("%w: transaction %s is %s", domain.ErrIdempotency, stored.ID, stored.Status)
		}
		*txn = stored
	}

	return s.apply(ctx, tx, txn)
}

// RecordFailed stores txn as a new FAILED transaction carrying reason.
func (s *PostingService) RecordFailed(ctx context.Context, tx repo_interfaces.Tx, txn *domain.Transaction, reason string) error {
	prepared := s.prepare(*txn, referencePrefixTransaction)
	now := s.now().UTC()
	prepared.Status = domain.TransactionStatusFailed
	prepared.ProcessedAt = &now
	prepared.FailureReason = stringPtr(reason)

	created, err := tx.Transactions().Create(ctx, prepared)
	if err != nil {
		return err
	}
	*txn = created
	return nil
}

// Notify publishes one event per posted leg. It never blocks.
func (s *PostingService) Notify(txn domain.Transaction, entries []domain.Entry) {
	if s.publisher == nil {
		return
	}
	for _, entry := range entries {
		s.publisher.Publish(domain.EntryEvent{
			EventID:         uuid.NewString(),
			TransactionID:   txn.ID,
			Reference:       txn.Reference,
			TransactionType: txn.Type,
			AccountID:       entry.AccountID,
			EntryType:       entry.EntryType,
			Amount:          entry.Amount,
			Currency:        txn.Currency,
			OccurredAt:      entry.CreatedAt,
		})
	}
}

func (s *PostingService) prepare(txn domain.Transaction, prefix string) domain.Transaction {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Reference == "" {
		txn.Reference = newReference(prefix)
	}
	txn.Currency = strings.ToUpper(strings.TrimSpace(txn.Currency))
	txn.Status = domain.TransactionStatusPending
	txn.CreatedAt = s.now().UTC()
	return txn
}

// apply moves money for a PENDING transaction: debit leg, credit leg, then
// COMPLETED. Deposit-class and withdrawal-class transactions take their
// missing leg from the currency's settlement account.
func (s *PostingService) apply(ctx context.Context, tx repo_interfaces.Tx, txn *domain.Transaction) ([]domain.Entry, error) {
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	accounts, err := s.loadParticipants(ctx, tx, *txn)
	if err != nil {
		return nil, err
	}
	balances, err := lockBalances(ctx, tx, accounts)
	if err != nil {
		return nil, err
	}

	from := valueOrEmpty(txn.FromAccountID)
	to := valueOrEmpty(txn.ToAccountID)

	debitAccountID, creditAccountID := from, to
	if from == "" || to == "" {
		settlement, err := tx.Accounts().EnsureSettlement(ctx, txn.Currency)
		if err != nil {
			return nil, fmt.Errorf("settlement account %s: %w", txn.Currency, err)
		}
		if from == "" {
			debitAccountID = settlement.ID
		} else {
			creditAccountID = settlement.ID
		}
	}

	if from != "" {
		account := accounts[from]
		if account.Status != domain.AccountStatusActive {
			return nil, fmt.Errorf("%w: account %s is %s", domain.ErrInvalidState, account.ID, account.Status)
		}

		availableDelta := txn.Amount.Neg()
		if txn.Held {
			availableDelta = decimal.Zero
		} else if !account.CanDebit(balances[from], txn.Amount) {
			return nil, fmt.Errorf("%w: account %s available %s, requested %s", domain.ErrInsufficientFunds, from, balances[from].AvailableBalance, txn.Amount)
		}

		if _, err := tx.Balances().Adjust(ctx, from, txn.Amount.Neg(), availableDelta); err != nil {
			return nil, fmt.Errorf("debit account %s: %w", from, err)
		}
	}

	if to != "" {
		account := accounts[to]
		if account.Status != domain.AccountStatusActive {
			return nil, fmt.Errorf("%w: account %s is %s", domain.ErrInvalidState, account.ID, account.Status)
		}
		if _, err := tx.Balances().Adjust(ctx, to, txn.Amount, txn.Amount); err != nil {
			return nil, fmt.Errorf("credit account %s: %w", to, err)
		}
	}

	now := s.now().UTC()
	entries := make([]domain.Entry, 0, 2)
	for _, leg := range []struct {
		accountID string
		entryType domain.EntryType
	}{
		{debitAccountID, domain.EntryTypeDebit},
		{creditAccountID, domain.EntryTypeCredit},
	} {
		entry, err := tx.Entries().Create(ctx, domain.Entry{
			ID:            uuid.NewString(),
			TransactionID: txn.ID,
			AccountID:     leg.accountID,
			EntryType:     leg.entryType,
			Amount:        txn.Amount,
			CreatedAt:     now,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s entry: %w", strings.ToLower(string(leg.entryType)), err)
		}
		entries = append(entries, entry)
	}

	txn.Status = domain.TransactionStatusCompleted
	txn.ProcessedAt = &now
	txn.FailureReason = nil
	updated, err := tx.Transactions().Update(ctx, *txn)
	if err != nil {
		return nil, err
	}
	*txn = updated

	return entries, nil
}

// loadParticipants reads the accounts a transaction references and checks
// they are customer accounts in the transaction's currency.
func (s *PostingService) loadParticipants(ctx context.Context, tx repo_interfaces.Tx, txn domain.Transaction) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, 2)
	for _, id := range []string{valueOrEmpty(txn.FromAccountID), valueOrEmpty(txn.ToAccountID)} {
		if id == "" {
			continue
		}
		account, err := tx.Accounts().Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if account.IsInternal() {
			return nil, fmt.Errorf("%w: account %s is internal", domain.ErrValidation, id)
		}
		if !strings.EqualFold(account.Currency, txn.Currency) {
			return nil, fmt.Errorf("%w: currency %s does not match account %s currency %s", domain.ErrValidation, txn.Currency, id, account.Currency)
		}
		accounts[id] = account
	}
	return accounts, nil
}

// lockBalances locks the balance rows in ascending account id order so two
// transfers touching the same pair cannot deadlock.
func lockBalances(ctx context.Context, tx repo_interfaces.Tx, accounts map[string]domain.Account) (map[string]domain.Balance, error) {
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	balances := make(map[string]domain.Balance, len(ids))
	for _, id := range ids {
		balance, err := tx.Balances().GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock balance %s: %w", id, err)
		}
		balances[id] = balance
	}
	return balances, nil
}

func releaseHold(ctx context.Context, tx repo_interfaces.Tx, txn *domain.Transaction) error {
	from := valueOrEmpty(txn.FromAccountID)
	if !txn.Held || from == "" {
		return nil
	}
	if _, err := tx.Balances().GetForUpdate(ctx, from); err != nil {
		return err
	}
	if _, err := tx.Balances().Adjust(ctx, from, decimal.Zero, txn.Amount); err != nil {
		return fmt.Errorf("release hold on %s: %w", from, err)
	}
	txn.Held = false
	return nil
}

func (s *PostingService) markFailed(ctx context.Context, transactionID string, cause error) (domain.Transaction, error) {
	var failed domain.Transaction
	err := s.uow.Do(context.WithoutCancel(ctx), func(ctx context.Context, tx repo_interfaces.Tx) error {
		txn, err := tx.Transactions().GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status != domain.TransactionStatusPending {
			failed = txn
			return nil
		}
		if err := releaseHold(ctx, tx, &txn); err != nil {
			return err
		}

		now := s.now().UTC()
		txn.Status = domain.TransactionStatusFailed
		txn.ProcessedAt = &now
		txn.FailureReason = stringPtr(cause.Error())
		failed, err = tx.Transactions().Update(ctx, txn)
		return err
	})
	return failed, err
}

// failsTransaction reports whether err should leave the transaction FAILED.
// Rejections before any mutation and cancelled callers leave it PENDING.
func failsTransaction(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, domain.ErrValidation) &&
		!errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, domain.ErrIdempotency)
}
