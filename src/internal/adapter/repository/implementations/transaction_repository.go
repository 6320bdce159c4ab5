package implementations

import (
	"context"
	"database/sql"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
)

const transactionColumns = `id, reference, from_account_id, to_account_id, amount, currency, transaction_type, status, description, held, failure_reason, created_at, processed_at`

type TransactionRepository struct {
	q querier
}

func (r *TransactionRepository) Create(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository create", logger.Fields{
		"transactionId": txn.ID,
		"reference":     txn.Reference,
		"type":          txn.Type,
		"status":        txn.Status,
	})

	const query = `
INSERT INTO transactions (
	id,
	reference,
	from_account_id,
	to_account_id,
	amount,
	currency,
	transaction_type,
	status,
	description,
	held,
	failure_reason,
	created_at,
	processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + transactionColumns

	created, err := scanTransaction(r.q.QueryRowContext(
		ctx,
		query,
		txn.ID,
		txn.Reference,
		nullString(txn.FromAccountID),
		nullString(txn.ToAccountID),
		txn.Amount,
		txn.Currency,
		txn.Type,
		txn.Status,
		txn.Description,
		txn.Held,
		nullString(txn.FailureReason),
		txn.CreatedAt,
		nullTime(txn.ProcessedAt),
	))
	if err != nil {
		logger.Error("transaction repository create failed", err, logger.Fields{"reference": txn.Reference})
		return domain.Transaction{}, classify("create transaction", err)
	}
	return created, nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Transaction{}, classify("get transaction "+id, err)
	}
	return txn, nil
}

func (r *TransactionRepository) GetForUpdate(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	txn, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Transaction{}, classify("lock transaction "+id, err)
	}
	return txn, nil
}

func (r *TransactionRepository) Update(ctx context.Context, txn domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository update", logger.Fields{
		"transactionId": txn.ID,
		"status":        txn.Status,
		"held":          txn.Held,
	})

	const query = `
UPDATE transactions
SET status = $2,
    held = $3,
    failure_reason = $4,
    processed_at = $5,
    description = $6
WHERE id = $1
RETURNING ` + transactionColumns

	updated, err := scanTransaction(r.q.QueryRowContext(
		ctx,
		query,
		txn.ID,
		txn.Status,
		txn.Held,
		nullString(txn.FailureReason),
		nullTime(txn.ProcessedAt),
		txn.Description,
	))
	if err != nil {
		logger.Error("transaction repository update failed", err, logger.Fields{"transactionId": txn.ID})
		return domain.Transaction{}, classify("update transaction", err)
	}
	return updated, nil
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		txn           domain.Transaction
		fromAccountID sql.NullString
		toAccountID   sql.NullString
		failure       sql.NullString
		processedAt   sql.NullTime
	)

	if err := row.Scan(
		&txn.ID,
		&txn.Reference,
		&fromAccountID,
		&toAccountID,
		&txn.Amount,
		&txn.Currency,
		&txn.Type,
		&txn.Status,
		&txn.Description,
		&txn.Held,
		&failure,
		&txn.CreatedAt,
		&processedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	txn.FromAccountID = stringFromNull(fromAccountID)
	txn.ToAccountID = stringFromNull(toAccountID)
	txn.FailureReason = stringFromNull(failure)
	txn.ProcessedAt = timeFromNull(processedAt)
	return txn, nil
}

const entryColumns = `id, transaction_id, account_id, entry_type, amount, created_at`

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, page domain.Page) ([]domain.Transaction, error) {
	page = page.Normalize()

	const query = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE from_account_id = $1
   OR to_account_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.q.QueryContext(ctx, query, accountID, page.Limit, page.Offset)
	if err != nil {
		logger.Error("transaction repository list by account failed", err, logger.Fields{"accountId": accountID})
		return nil, classify("list account transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, classify("scan transaction", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate transactions", err)
	}
	return txns, nil
}

type EntryRepository struct {
	q querier
}

func (r *EntryRepository) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	const query = `
INSERT INTO entries (id, transaction_id, account_id, entry_type, amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + entryColumns

	created, err := scanEntry(r.q.QueryRowContext(
		ctx,
		query,
		entry.ID,
		entry.TransactionID,
		entry.AccountID,
		entry.EntryType,
		entry.Amount,
		entry.CreatedAt,
	))
	if err != nil {
		logger.Error("entry repository create failed", err, logger.Fields{
			"transactionId": entry.TransactionID,
			"accountId":     entry.AccountID,
		})
		return domain.Entry{}, classify("create entry", err)
	}
	return created, nil
}

func (r *EntryRepository) ListByTransaction(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	const query = `SELECT ` + entryColumns + ` FROM entries WHERE transaction_id = $1 ORDER BY seq`
	return r.list(ctx, query, transactionID)
}

func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Entry, error) {
	const query = `SELECT ` + entryColumns + ` FROM entries WHERE account_id = $1 ORDER BY seq`
	return r.list(ctx, query, accountID)
}

func (r *EntryRepository) list(ctx context.Context, query string, arg string) ([]domain.Entry, error) {
	rows, err := r.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, classify("list entries", err)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, classify("scan entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate entries", err)
	}
	return entries, nil
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var entry domain.Entry
	err := row.Scan(
		&entry.ID,
		&entry.TransactionID,
		&entry.AccountID,
		&entry.EntryType,
		&entry.Amount,
		&entry.CreatedAt,
	)
	return entry, err
}
