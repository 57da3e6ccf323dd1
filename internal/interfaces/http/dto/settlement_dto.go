package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsettlement "github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/application/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
)

// AllocationInstructionRequest is one caller-specified allocation line
type AllocationInstructionRequest struct {
	InvoiceID string          `json:"invoice_id" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// CreateSettlementRequest is the request body for creating or previewing a
// settlement document. Leave allocations empty to let the engine allocate
// target_total against the oldest invoices first.
type CreateSettlementRequest struct {
	CounterpartyID string                         `json:"counterparty_id" binding:"required,uuid"`
	Type           string                         `json:"type" binding:"required,oneof=PAYMENT CREDIT_NOTE DEBIT_NOTE"`
	Date           time.Time                      `json:"date" binding:"required"`
	CurrencyCode   string                         `json:"currency_code" binding:"required,len=3"`
	ExchangeRate   decimal.Decimal                `json:"exchange_rate"`
	PaymentMethod  string                         `json:"payment_method" binding:"omitempty,oneof=CASH TRANSFER CHECK CARD OTHER"`
	Reference      string                         `json:"reference" binding:"max=100"`
	TargetTotal    decimal.Decimal                `json:"target_total"`
	Allocations    []AllocationInstructionRequest `json:"allocations" binding:"omitempty,dive"`
}

// ToApplication converts the request body to the application layer request
func (r *CreateSettlementRequest) ToApplication() (appsettlement.CreateSettlementRequest, error) {
	counterpartyID, err := uuid.Parse(r.CounterpartyID)
	if err != nil {
		return appsettlement.CreateSettlementRequest{}, err
	}

	allocations := make([]appsettlement.AllocationInstruction, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		invoiceID, err := uuid.Parse(a.InvoiceID)
		if err != nil {
			return appsettlement.CreateSettlementRequest{}, err
		}
		allocations = append(allocations, appsettlement.AllocationInstruction{
			InvoiceID: invoiceID,
			Amount:    a.Amount,
		})
	}

	return appsettlement.CreateSettlementRequest{
		CounterpartyID: counterpartyID,
		Type:           settlement.DocumentType(r.Type),
		Date:           r.Date,
		CurrencyCode:   r.CurrencyCode,
		ExchangeRate:   r.ExchangeRate,
		PaymentMethod:  settlement.PaymentMethod(r.PaymentMethod),
		Reference:      r.Reference,
		TargetTotal:    r.TargetTotal,
		Allocations:    allocations,
	}, nil
}

// ConfirmSettlementRequest is the request body for confirming a pending
// settlement. The reference may also have been supplied at creation.
type ConfirmSettlementRequest struct {
	Reference string `json:"reference" binding:"max=100"`
}

// VoidSettlementRequest is the request body for voiding a settlement
type VoidSettlementRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListSettlementsRequest carries the query parameters for listing settlements
type ListSettlementsRequest struct {
	ListRequest
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	Type           string `form:"type" binding:"omitempty,oneof=PAYMENT CREDIT_NOTE DEBIT_NOTE"`
	Status         string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED VOIDED"`
	DateFrom       string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo         string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter converts the query parameters to a repository filter
func (r *ListSettlementsRequest) ToFilter() (settlement.SettlementListFilter, error) {
	r.Normalize()

	filter := settlement.SettlementListFilter{}
	filter.Offset = (r.Page - 1) * r.PageSize
	filter.Limit = r.PageSize
	filter.OrderBy = r.OrderBy

	if r.CounterpartyID != "" {
		id, err := uuid.Parse(r.CounterpartyID)
		if err != nil {
			return filter, err
		}
		filter.CounterpartyID = &id
	}
	if r.Type != "" {
		docType := settlement.DocumentType(r.Type)
		filter.Type = &docType
	}
	if r.Status != "" {
		status := settlement.DocumentStatus(r.Status)
		filter.Status = &status
	}
	if r.DateFrom != "" {
		from, err := time.Parse("2006-01-02", r.DateFrom)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if r.DateTo != "" {
		to, err := time.Parse("2006-01-02", r.DateTo)
		if err != nil {
			return filter, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}

// OutstandingInvoicesRequest carries the query parameters for the
// outstanding invoice listing
type OutstandingInvoicesRequest struct {
	CounterpartyID string `form:"counterparty_id" binding:"required,uuid"`
	CurrencyCode   string `form:"currency_code" binding:"omitempty,len=3"`
}
