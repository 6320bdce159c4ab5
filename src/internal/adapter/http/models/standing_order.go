package models

import (
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/shopspring/decimal"
)

type CreateStandingOrderRequest struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   *string         `json:"toAccountId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Frequency     string          `json:"frequency"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	Description   string          `json:"description,omitempty"`
}

func (r CreateStandingOrderRequest) Validate() error {
	var errs fieldErrors

	if strings.TrimSpace(r.FromAccountID) == "" {
		errs.add("fromAccountId is required")
	}
	if !r.Amount.IsPositive() {
		errs.add("amount must be greater than zero")
	}
	if !isCurrencyCode(r.Currency) {
		errs.add("currency must be a 3 letter code")
	}
	if !domain.Frequency(strings.ToUpper(strings.TrimSpace(r.Frequency))).Valid() {
		errs.add("frequency must be one of DAILY, WEEKLY, MONTHLY")
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		errs.add("endDate cannot be before startDate")
	}

	return errs.err()
}

func (r CreateStandingOrderRequest) ToDomain() domain.NewStandingOrder {
	order := domain.NewStandingOrder{
		FromAccountID: strings.TrimSpace(r.FromAccountID),
		ToAccountID:   optional(r.ToAccountID),
		Amount:        r.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(r.Currency)),
		Frequency:     domain.Frequency(strings.ToUpper(strings.TrimSpace(r.Frequency))),
		EndDate:       r.EndDate,
		Description:   strings.TrimSpace(r.Description),
	}
	if r.StartDate != nil {
		order.StartDate = r.StartDate.UTC()
	}
	return order
}

type StandingOrderResponse struct {
	ID                string     `json:"id"`
	Reference         string     `json:"reference"`
	FromAccountID     string     `json:"fromAccountId"`
	ToAccountID       *string    `json:"toAccountId,omitempty"`
	Amount            string     `json:"amount"`
	Currency          string     `json:"currency"`
	Frequency         string     `json:"frequency"`
	StartDate         time.Time  `json:"startDate"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	NextExecutionDate time.Time  `json:"nextExecutionDate"`
	Active            bool       `json:"active"`
	Description       string     `json:"description,omitempty"`
}

func NewStandingOrderResponse(order domain.StandingOrder) StandingOrderResponse {
	return StandingOrderResponse{
		ID:                order.ID,
		Reference:         order.Reference,
		FromAccountID:     order.FromAccountID,
		ToAccountID:       order.ToAccountID,
		Amount:            money.Format(order.Currency, order.Amount),
		Currency:          order.Currency,
		Frequency:         string(order.Frequency),
		StartDate:         order.StartDate,
		EndDate:           order.EndDate,
		NextExecutionDate: order.NextExecutionDate,
		Active:            order.Active,
		Description:       order.Description,
	}
}

func NewStandingOrderResponses(orders []domain.StandingOrder) []StandingOrderResponse {
	out := make([]StandingOrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, NewStandingOrderResponse(order))
	}
	return out
}

type ExecutionResponse struct {
	ID            string    `json:"id"`
	ExecutionDate time.Time `json:"executionDate"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	TransactionID *string   `json:"transactionId,omitempty"`
	FailureReason *string   `json:"failureReason,omitempty"`
}

func NewExecutionResponses(executions []domain.StandingOrderExecution) []ExecutionResponse {
	out := make([]ExecutionResponse, 0, len(executions))
	for _, execution := range executions {
		out = append(out, ExecutionResponse{
			ID:            execution.ID,
			ExecutionDate: execution.ExecutionDate,
			Amount:        execution.Amount.StringFixed(money.Scale),
			Status:        string(execution.Status),
			TransactionID: execution.TransactionID,
			FailureReason: execution.FailureReason,
		})
	}
	return out
}
