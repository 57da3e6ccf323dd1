package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
)

// SettlementService orchestrates settlement creation, confirmation and
// reversal against the invoice ledger
type SettlementService struct {
	invoiceRepo    settlement.InvoiceRepository
	settlementRepo settlement.SettlementRepository
	currencies     acl.CurrencyRegistry
	counterparties acl.CounterpartyDirectory
	converter      *settlement.Converter
	rateTolerance  decimal.Decimal
	logger         *zap.Logger
}

// SettlementServiceOption is a functional option for configuring the service
type SettlementServiceOption func(*SettlementService)

// WithRateTolerance overrides the rate deviation tolerance
func WithRateTolerance(tolerance decimal.Decimal) SettlementServiceOption {
	return func(s *SettlementService) {
		s.rateTolerance = tolerance
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) SettlementServiceOption {
	return func(s *SettlementService) {
		s.logger = logger
	}
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	invoiceRepo settlement.InvoiceRepository,
	settlementRepo settlement.SettlementRepository,
	currencies acl.CurrencyRegistry,
	counterparties acl.CounterpartyDirectory,
	converter *settlement.Converter,
	opts ...SettlementServiceOption,
) *SettlementService {
	s := &SettlementService{
		invoiceRepo:    invoiceRepo,
		settlementRepo: settlementRepo,
		currencies:     currencies,
		counterparties: counterparties,
		converter:      converter,
		rateTolerance:  settlement.DefaultRateTolerance,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AllocationInstruction is one caller-specified allocation in a request
type AllocationInstruction struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// CreateSettlementRequest carries everything needed to create a settlement
// document. When Allocations is empty the engine allocates TargetTotal FIFO;
// otherwise the instructions are applied as given.
type CreateSettlementRequest struct {
	CounterpartyID uuid.UUID
	Type           settlement.DocumentType
	Date           time.Time
	CurrencyCode   string
	ExchangeRate   decimal.Decimal // manual rate override, zero to use the registry rate
	PaymentMethod  settlement.PaymentMethod
	Reference      string
	TargetTotal    decimal.Decimal
	Allocations    []AllocationInstruction
}

// AllocationResult is one committed or previewed allocation
type AllocationResult struct {
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	Amount           decimal.Decimal `json:"amount"`
	AmountFunctional decimal.Decimal `json:"amount_functional"`
	FXDifference     decimal.Decimal `json:"fx_difference"`
}

// SettlementResult is the outcome of a lifecycle operation
type SettlementResult struct {
	ID                   uuid.UUID                 `json:"id"`
	Number               string                    `json:"number"`
	Status               settlement.DocumentStatus `json:"status"`
	TotalAmount          decimal.Decimal           `json:"total_amount"`
	TotalFunctional      decimal.Decimal           `json:"total_functional"`
	FXDifferenceTotal    decimal.Decimal           `json:"fx_difference_total"`
	UnallocatedAmount    decimal.Decimal           `json:"unallocated_amount"`
	RateDeviationFlagged bool                      `json:"rate_deviation_flagged"`
	Allocations          []AllocationResult        `json:"allocations"`
}

// PreviewResult is the outcome of a dry planning run
type PreviewResult struct {
	ExchangeRate         decimal.Decimal    `json:"exchange_rate"`
	TotalAmount          decimal.Decimal    `json:"total_amount"`
	TotalFunctional      decimal.Decimal    `json:"total_functional"`
	FXDifferenceTotal    decimal.Decimal    `json:"fx_difference_total"`
	UnallocatedAmount    decimal.Decimal    `json:"unallocated_amount"`
	RateDeviationFlagged bool               `json:"rate_deviation_flagged"`
	Allocations          []AllocationResult `json:"allocations"`
}

// OutstandingInvoice is the caller-facing view of an invoice with balance left
type OutstandingInvoice struct {
	ID                    uuid.UUID       `json:"id"`
	Number                string          `json:"number"`
	IssueDate             time.Time       `json:"issue_date"`
	DueDate               *time.Time      `json:"due_date,omitempty"`
	CurrencyCode          string          `json:"currency_code"`
	OriginalAmount        decimal.Decimal `json:"original_amount"`
	Balance               decimal.Decimal `json:"balance"`
	ExchangeRateAtPosting decimal.Decimal `json:"exchange_rate_at_posting"`
}

// AccountStatement aggregates a counterparty's settlement position
type AccountStatement struct {
	CounterpartyID   uuid.UUID            `json:"counterparty_id"`
	CounterpartyName string               `json:"counterparty_name"`
	Outstanding      []OutstandingInvoice `json:"outstanding"`
	History          []OutstandingInvoice `json:"history"`
	Payments         []SettlementResult   `json:"payments"`
	Notes            []SettlementResult   `json:"notes"`
	Summary          StatementSummary     `json:"summary"`
}

// StatementSummary carries functional-currency totals for the statement
type StatementSummary struct {
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	TotalSettled      decimal.Decimal `json:"total_settled"`
	FXDifferenceTotal decimal.Decimal `json:"fx_difference_total"`
}

// GetOutstandingInvoices lists a counterparty's invoices with balance left,
// oldest issue date first. This backs a best-effort dashboard: transient
// store failures degrade to an empty list rather than an error.
func (s *SettlementService) GetOutstandingInvoices(ctx context.Context, counterpartyID uuid.UUID, currencyCode string) ([]OutstandingInvoice, error) {
	counterparty, err := s.counterparties.GetCounterparty(ctx, counterpartyID)
	if err != nil {
		return nil, shared.NewNotFoundError("counterparty")
	}

	direction := directionFor(counterparty.Kind)
	invoices, err := s.invoiceRepo.FindOutstanding(ctx, counterpartyID, direction, currencyCode)
	if err != nil {
		s.logger.Warn("outstanding invoice listing degraded to empty",
			zap.String("counterparty_id", counterpartyID.String()),
			zap.Error(err))
		return []OutstandingInvoice{}, nil
	}

	result := make([]OutstandingInvoice, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toOutstandingInvoice(inv))
	}
	return result, nil
}

// PreviewAllocation runs the allocation planner without committing anything.
// Manual amounts exceeding an invoice balance are clamped, matching the
// interactive editing flow.
func (s *SettlementService) PreviewAllocation(ctx context.Context, req CreateSettlementRequest) (*PreviewResult, error) {
	prepared, err := s.prepare(ctx, req, false)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		ExchangeRate:         prepared.rate,
		TotalAmount:          prepared.plan.TotalAllocated,
		TotalFunctional:      prepared.plan.TotalFunctional,
		FXDifferenceTotal:    prepared.plan.FXDifferenceTotal,
		UnallocatedAmount:    prepared.plan.Remaining,
		RateDeviationFlagged: prepared.plan.RateDeviationFlagged,
		Allocations:          toAllocationResults(prepared.plan.Allocations),
	}, nil
}

// CreateSettlement plans, persists and applies a settlement document in one
// atomic unit. Receivable payments and all notes complete within this call;
// payable payments stay pending until confirmed.
func (s *SettlementService) CreateSettlement(ctx context.Context, req CreateSettlementRequest) (*SettlementResult, error) {
	prepared, err := s.prepare(ctx, req, true)
	if err != nil {
		return nil, err
	}

	number, err := s.settlementRepo.NextNumber(ctx, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to issue settlement number: %w", err)
	}

	doc, err := settlement.NewSettlementDocument(number, req.Type, prepared.direction,
		req.CounterpartyID, req.Date, req.CurrencyCode, prepared.rate,
		req.PaymentMethod, req.Reference, prepared.plan)
	if err != nil {
		return nil, err
	}

	touched, err := s.applyPlan(doc, prepared.plan, prepared.invoicesByID)
	if err != nil {
		return nil, err
	}

	if err := s.settlementRepo.CommitSettlement(ctx, doc, touched); err != nil {
		return nil, err
	}

	s.logger.Info("settlement committed",
		zap.String("number", doc.Number),
		zap.String("type", doc.Type.String()),
		zap.String("status", doc.Status.String()),
		zap.String("total", doc.TotalAmount.String()),
		zap.Bool("rate_deviation_flagged", doc.RateDeviationFlagged))
	s.drainEvents(doc)

	result := toSettlementResult(doc)
	result.UnallocatedAmount = prepared.plan.Remaining
	return result, nil
}

// ConfirmSettlement transitions a pending document to completed
func (s *SettlementService) ConfirmSettlement(ctx context.Context, id uuid.UUID, reference string) (*SettlementResult, error) {
	doc, err := s.settlementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, shared.NewNotFoundError("settlement")
	}

	if err := doc.Confirm(reference); err != nil {
		return nil, err
	}
	if err := s.settlementRepo.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("settlement confirmed", zap.String("number", doc.Number))
	s.drainEvents(doc)
	return toSettlementResult(doc), nil
}

// VoidSettlement voids a document and restores every affected invoice
// balance in one atomic unit. Allocation records are preserved for audit.
func (s *SettlementService) VoidSettlement(ctx context.Context, id uuid.UUID, reason, actor string) (*SettlementResult, error) {
	doc, err := s.settlementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, shared.NewNotFoundError("settlement")
	}

	active := doc.ActiveAllocations()
	if err := doc.Void(reason, actor); err != nil {
		return nil, err
	}

	invoiceIDs := make([]uuid.UUID, 0, len(active))
	for _, a := range active {
		invoiceIDs = append(invoiceIDs, a.InvoiceID)
	}
	invoices, err := s.invoiceRepo.FindByIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled invoices: %w", err)
	}
	byID := make(map[uuid.UUID]*settlement.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	touched := make([]*settlement.Invoice, 0, len(active))
	for _, a := range active {
		inv, ok := byID[a.InvoiceID]
		if !ok {
			return nil, shared.NewNotFoundError("settled invoice")
		}
		if doc.AppliesCharges() {
			err = inv.ReverseCharge(a.Amount)
		} else {
			err = inv.ReverseAllocation(a.Amount)
		}
		if err != nil {
			return nil, err
		}
		touched = append(touched, inv)
	}

	if err := s.settlementRepo.VoidSettlement(ctx, doc, touched); err != nil {
		return nil, err
	}

	s.logger.Info("settlement voided",
		zap.String("number", doc.Number),
		zap.String("reason", reason),
		zap.String("actor", actor))
	s.drainEvents(doc)
	return toSettlementResult(doc), nil
}

// GetSettlement fetches one settlement document
func (s *SettlementService) GetSettlement(ctx context.Context, id uuid.UUID) (*SettlementResult, error) {
	doc, err := s.settlementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, shared.NewNotFoundError("settlement")
	}
	return toSettlementResult(doc), nil
}

// ListSettlements lists settlement documents matching the filter
func (s *SettlementService) ListSettlements(ctx context.Context, filter settlement.SettlementListFilter) ([]SettlementResult, int64, error) {
	page, err := s.settlementRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	results := make([]SettlementResult, 0, len(page.Items))
	for _, doc := range page.Items {
		results = append(results, *toSettlementResult(doc))
	}
	return results, page.Total, nil
}

// GetAccountStatement builds a counterparty statement: outstanding invoices,
// invoice history, payments and notes, with functional-currency totals.
// Transient store failures degrade the affected section to empty.
func (s *SettlementService) GetAccountStatement(ctx context.Context, counterpartyID uuid.UUID) (*AccountStatement, error) {
	counterparty, err := s.counterparties.GetCounterparty(ctx, counterpartyID)
	if err != nil {
		return nil, shared.NewNotFoundError("counterparty")
	}

	statement := &AccountStatement{
		CounterpartyID:   counterpartyID,
		CounterpartyName: counterparty.Name,
		Outstanding:      []OutstandingInvoice{},
		History:          []OutstandingInvoice{},
		Payments:         []SettlementResult{},
		Notes:            []SettlementResult{},
	}

	invoices, err := s.invoiceRepo.FindByCounterparty(ctx, counterpartyID)
	if err != nil {
		s.logger.Warn("statement invoice history degraded to empty",
			zap.String("counterparty_id", counterpartyID.String()),
			zap.Error(err))
		invoices = nil
	}
	for _, inv := range invoices {
		view := toOutstandingInvoice(inv)
		statement.History = append(statement.History, view)
		if inv.IsOutstanding() {
			statement.Outstanding = append(statement.Outstanding, view)
			statement.Summary.TotalOutstanding = statement.Summary.TotalOutstanding.
				Add(inv.Balance.Mul(inv.ExchangeRateAtPosting))
		}
	}

	docs, err := s.settlementRepo.FindByCounterparty(ctx, counterpartyID)
	if err != nil {
		s.logger.Warn("statement settlement history degraded to empty",
			zap.String("counterparty_id", counterpartyID.String()),
			zap.Error(err))
		docs = nil
	}
	for _, doc := range docs {
		result := *toSettlementResult(doc)
		if doc.Type == settlement.DocumentTypePayment {
			statement.Payments = append(statement.Payments, result)
		} else {
			statement.Notes = append(statement.Notes, result)
		}
		if doc.Status == settlement.DocumentStatusCompleted {
			statement.Summary.TotalSettled = statement.Summary.TotalSettled.Add(doc.TotalFunctional)
			statement.Summary.FXDifferenceTotal = statement.Summary.FXDifferenceTotal.Add(doc.FXDifferenceTotal)
		}
	}

	return statement, nil
}

// drainEvents logs the events recorded during a state transition and clears
// them once the write is durable
func (s *SettlementService) drainEvents(doc *settlement.SettlementDocument) {
	for _, event := range doc.GetDomainEvents() {
		s.logger.Info("domain event",
			zap.String("event", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID().String()),
			zap.Time("occurred_at", event.GetOccurredAt()))
	}
	doc.ClearDomainEvents()
}

type preparedSettlement struct {
	direction    settlement.Direction
	rate         decimal.Decimal
	plan         *settlement.AllocationPlan
	invoicesByID map[uuid.UUID]*settlement.Invoice
}

// prepare validates the request, resolves the exchange rate and runs the
// planner against live balances. When committing, a manual amount that
// exceeds the live balance means the caller planned against a stale read
// and is rejected as a conflict instead of silently reduced.
func (s *SettlementService) prepare(ctx context.Context, req CreateSettlementRequest, committing bool) (*preparedSettlement, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// one rate scope per operation: lookups inside this settlement may share
	// a resolution, unrelated settlements never do
	ctx = acl.WithRateScope(ctx)

	counterparty, err := s.counterparties.GetCounterparty(ctx, req.CounterpartyID)
	if err != nil {
		return nil, shared.NewValidationError("unknown counterparty")
	}
	direction := directionFor(counterparty.Kind)

	rate, registryRate, err := s.resolveRate(ctx, req.CurrencyCode, req.Date, req.ExchangeRate)
	if err != nil {
		return nil, err
	}

	invoices, err := s.loadTargets(ctx, req, direction)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*settlement.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	targets := s.buildTargets(req.Type, req.CurrencyCode, invoices)

	if committing && len(req.Allocations) > 0 {
		if err := s.checkStaleInstructions(req, byID); err != nil {
			return nil, err
		}
	}

	plan, err := s.runPlanner(req, rate, targets)
	if err != nil {
		return nil, err
	}
	if committing && plan.TotalAllocated.LessThanOrEqual(decimal.Zero) {
		if len(targets) == 0 {
			return nil, shared.NewDomainError(shared.ErrCodeNoInvoices,
				"counterparty has no open invoices to settle")
		}
		return nil, shared.NewValidationError("settlement total must be positive")
	}

	if req.ExchangeRate.IsPositive() && settlement.RateDeviationExceeds(req.ExchangeRate, registryRate, s.rateTolerance) {
		plan.RateDeviationFlagged = true
		s.logger.Warn("manual exchange rate deviates from registry rate",
			zap.String("currency", req.CurrencyCode),
			zap.String("manual", req.ExchangeRate.String()),
			zap.String("registry", registryRate.String()))
	}

	return &preparedSettlement{
		direction:    direction,
		rate:         rate,
		plan:         plan,
		invoicesByID: byID,
	}, nil
}

func (s *SettlementService) validateRequest(req CreateSettlementRequest) error {
	if req.CounterpartyID == uuid.Nil {
		return shared.NewValidationError("counterparty is required")
	}
	if !req.Type.IsValid() {
		return shared.NewValidationError("invalid settlement document type")
	}
	if req.CurrencyCode == "" {
		return shared.NewValidationError("currency is required")
	}
	if req.Date.IsZero() {
		return shared.NewValidationError("settlement date is required")
	}
	if len(req.Allocations) == 0 && req.TargetTotal.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("settlement total must be positive")
	}
	for _, a := range req.Allocations {
		if a.Amount.IsNegative() {
			return shared.NewValidationError("allocation amounts cannot be negative")
		}
	}
	return nil
}

// resolveRate returns the settlement rate and the registry rate. A manual
// rate wins when supplied; the registry rate is still fetched to measure
// deviation. The functional currency always settles at rate 1.
func (s *SettlementService) resolveRate(ctx context.Context, currencyCode string, date time.Time, manualRate decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if currencyCode == s.converter.FunctionalCurrency() {
		return decimal.NewFromInt(1), decimal.NewFromInt(1), nil
	}

	registryRate, err := s.currencies.GetRate(ctx, currencyCode, date)
	if err != nil {
		if manualRate.IsPositive() {
			s.logger.Warn("registry rate unavailable, using manual rate unchecked",
				zap.String("currency", currencyCode),
				zap.Error(err))
			return manualRate, decimal.Zero, nil
		}
		return decimal.Zero, decimal.Zero, shared.NewDomainErrorf(shared.ErrCodeUnknownCurrency,
			"no exchange rate available for %s", currencyCode)
	}

	if manualRate.IsPositive() {
		return manualRate, registryRate, nil
	}
	return registryRate, registryRate, nil
}

// loadTargets fetches the invoices the planner may touch. Debit notes charge
// against the settled portion, so they consider partially and fully paid
// invoices too; payments and credit notes only see outstanding ones.
func (s *SettlementService) loadTargets(ctx context.Context, req CreateSettlementRequest, direction settlement.Direction) ([]*settlement.Invoice, error) {
	if req.Type == settlement.DocumentTypeDebitNote {
		invoices, err := s.invoiceRepo.FindByCounterparty(ctx, req.CounterpartyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load invoices: %w", err)
		}
		return invoices, nil
	}

	invoices, err := s.invoiceRepo.FindOutstanding(ctx, req.CounterpartyID, direction, req.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding invoices: %w", err)
	}
	return invoices, nil
}

// buildTargets snapshots invoices for the planner. A debit note's headroom is
// the amount already settled, not the open balance.
func (s *SettlementService) buildTargets(docType settlement.DocumentType, currencyCode string, invoices []*settlement.Invoice) []settlement.AllocationTarget {
	if docType != settlement.DocumentTypeDebitNote {
		return settlement.TargetsFromInvoices(invoices, currencyCode)
	}

	targets := make([]settlement.AllocationTarget, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Status == settlement.InvoiceStatusVoided {
			continue
		}
		if currencyCode != "" && inv.CurrencyCode != currencyCode {
			continue
		}
		headroom := inv.PaidAmount()
		if headroom.LessThanOrEqual(decimal.Zero) {
			continue
		}
		targets = append(targets, settlement.AllocationTarget{
			InvoiceID:     inv.ID,
			Number:        inv.Number,
			IssueDate:     inv.IssueDate,
			CurrencyCode:  inv.CurrencyCode,
			Balance:       headroom,
			RateAtPosting: inv.ExchangeRateAtPosting,
		})
	}
	return targets
}

func (s *SettlementService) checkStaleInstructions(req CreateSettlementRequest, byID map[uuid.UUID]*settlement.Invoice) error {
	// Instructions may target the same invoice more than once, so the
	// comparison has to run against the per-invoice sum, not each line.
	requested := make(map[uuid.UUID]decimal.Decimal, len(req.Allocations))
	for _, instr := range req.Allocations {
		if _, ok := byID[instr.InvoiceID]; !ok {
			return shared.NewDomainErrorf(shared.ErrCodeNotFound,
				"invoice %s is not open for this counterparty", instr.InvoiceID)
		}
		if instr.Amount.IsNegative() {
			continue
		}
		requested[instr.InvoiceID] = requested[instr.InvoiceID].Add(instr.Amount)
	}

	for id, total := range requested {
		inv := byID[id]
		headroom := inv.Balance
		if req.Type == settlement.DocumentTypeDebitNote {
			headroom = inv.PaidAmount()
		}
		if total.GreaterThan(headroom) {
			return shared.NewDomainErrorf(shared.ErrCodeConcurrencyConflict,
				"invoice %s balance changed since last read, re-fetch and retry", inv.Number)
		}
	}
	return nil
}

func (s *SettlementService) runPlanner(req CreateSettlementRequest, rate decimal.Decimal, targets []settlement.AllocationTarget) (*settlement.AllocationPlan, error) {
	if len(req.Allocations) == 0 {
		planner := settlement.NewFIFOAllocationPlanner(s.converter)
		return planner.Plan(req.TargetTotal, req.CurrencyCode, rate, targets)
	}

	manual := make([]settlement.ManualAllocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		manual = append(manual, settlement.ManualAllocation{InvoiceID: a.InvoiceID, Amount: a.Amount})
	}
	planner := settlement.NewManualAllocationPlanner(s.converter, manual)
	return planner.Plan(req.CurrencyCode, rate, targets)
}

// applyPlan mutates the touched invoices according to the document type
func (s *SettlementService) applyPlan(doc *settlement.SettlementDocument, plan *settlement.AllocationPlan, byID map[uuid.UUID]*settlement.Invoice) ([]*settlement.Invoice, error) {
	touched := make([]*settlement.Invoice, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		inv, ok := byID[a.InvoiceID]
		if !ok {
			return nil, shared.NewNotFoundError("invoice")
		}
		var err error
		if doc.AppliesCharges() {
			err = inv.ApplyCharge(a.Amount)
		} else {
			err = inv.ApplyAllocation(a.Amount)
		}
		if err != nil {
			return nil, err
		}
		touched = append(touched, inv)
	}
	return touched, nil
}

func directionFor(kind acl.CounterpartyKind) settlement.Direction {
	if kind == acl.CounterpartyKindProvider {
		return settlement.DirectionPayable
	}
	return settlement.DirectionReceivable
}

func toOutstandingInvoice(inv *settlement.Invoice) OutstandingInvoice {
	return OutstandingInvoice{
		ID:                    inv.ID,
		Number:                inv.Number,
		IssueDate:             inv.IssueDate,
		DueDate:               inv.DueDate,
		CurrencyCode:          inv.CurrencyCode,
		OriginalAmount:        inv.OriginalAmount,
		Balance:               inv.Balance,
		ExchangeRateAtPosting: inv.ExchangeRateAtPosting,
	}
}

func toAllocationResults(planned []settlement.PlannedAllocation) []AllocationResult {
	results := make([]AllocationResult, 0, len(planned))
	for _, a := range planned {
		results = append(results, AllocationResult{
			InvoiceID:        a.InvoiceID,
			InvoiceNumber:    a.InvoiceNumber,
			Amount:           a.Amount,
			AmountFunctional: a.AmountFunctional,
			FXDifference:     a.FXDifference,
		})
	}
	return results
}

func toSettlementResult(doc *settlement.SettlementDocument) *SettlementResult {
	allocations := make([]AllocationResult, 0, len(doc.Allocations))
	for _, a := range doc.Allocations {
		allocations = append(allocations, AllocationResult{
			InvoiceID:        a.InvoiceID,
			InvoiceNumber:    a.InvoiceNumber,
			Amount:           a.Amount,
			AmountFunctional: a.AmountFunctional,
			FXDifference:     a.FXDifference,
		})
	}
	return &SettlementResult{
		ID:                   doc.ID,
		Number:               doc.Number,
		Status:               doc.Status,
		TotalAmount:          doc.TotalAmount,
		TotalFunctional:      doc.TotalFunctional,
		FXDifferenceTotal:    doc.FXDifferenceTotal,
		RateDeviationFlagged: doc.RateDeviationFlagged,
		Allocations:          allocations,
	}
}
