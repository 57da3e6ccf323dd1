package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
)

// =============================================================================
// Mocks
// =============================================================================

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Invoice, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOutstanding(ctx context.Context, counterpartyID uuid.UUID, direction domain.Direction, currencyCode string) ([]*domain.Invoice, error) {
	args := m.Called(ctx, counterpartyID, direction, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*domain.Invoice, error) {
	args := m.Called(ctx, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SettlementDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementDocument), args.Error(1)
}

func (m *MockSettlementRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*domain.SettlementDocument, error) {
	args := m.Called(ctx, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SettlementDocument), args.Error(1)
}

func (m *MockSettlementRepository) List(ctx context.Context, filter domain.SettlementListFilter) (shared.Paginated[*domain.SettlementDocument], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*domain.SettlementDocument]), args.Error(1)
}

func (m *MockSettlementRepository) CommitSettlement(ctx context.Context, doc *domain.SettlementDocument, invoices []*domain.Invoice) error {
	args := m.Called(ctx, doc, invoices)
	return args.Error(0)
}

func (m *MockSettlementRepository) SaveWithLock(ctx context.Context, doc *domain.SettlementDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockSettlementRepository) VoidSettlement(ctx context.Context, doc *domain.SettlementDocument, invoices []*domain.Invoice) error {
	args := m.Called(ctx, doc, invoices)
	return args.Error(0)
}

func (m *MockSettlementRepository) NextNumber(ctx context.Context, docType domain.DocumentType) (string, error) {
	args := m.Called(ctx, docType)
	return args.String(0), args.Error(1)
}

type MockCurrencyRegistry struct {
	mock.Mock
}

func (m *MockCurrencyRegistry) GetCurrency(ctx context.Context, code string) (*acl.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acl.Currency), args.Error(1)
}

func (m *MockCurrencyRegistry) FunctionalCurrency(ctx context.Context) (*acl.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acl.Currency), args.Error(1)
}

func (m *MockCurrencyRegistry) GetRate(ctx context.Context, code string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, code, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockCounterpartyDirectory struct {
	mock.Mock
}

func (m *MockCounterpartyDirectory) GetCounterparty(ctx context.Context, id uuid.UUID) (*acl.Counterparty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acl.Counterparty), args.Error(1)
}

// =============================================================================
// Fixtures
// =============================================================================

type serviceFixture struct {
	service        *SettlementService
	invoiceRepo    *MockInvoiceRepository
	settlementRepo *MockSettlementRepository
	currencies     *MockCurrencyRegistry
	counterparties *MockCounterpartyDirectory
	counterpartyID uuid.UUID
}

func newServiceFixture(kind acl.CounterpartyKind) *serviceFixture {
	f := &serviceFixture{
		invoiceRepo:    new(MockInvoiceRepository),
		settlementRepo: new(MockSettlementRepository),
		currencies:     new(MockCurrencyRegistry),
		counterparties: new(MockCounterpartyDirectory),
		counterpartyID: uuid.New(),
	}
	f.service = NewSettlementService(
		f.invoiceRepo, f.settlementRepo, f.currencies, f.counterparties,
		domain.NewConverter("DOP"),
	)
	f.counterparties.On("GetCounterparty", mock.Anything, f.counterpartyID).
		Return(&acl.Counterparty{ID: f.counterpartyID, Name: "ACME", Kind: kind}, nil)
	return f
}

func fixtureInvoice(t *testing.T, counterpartyID uuid.UUID, number string, issued time.Time, currency string, amount, rate float64) *domain.Invoice {
	t.Helper()
	inv, err := domain.NewInvoice(number, counterpartyID, domain.DirectionReceivable, issued, nil,
		currency, decimal.NewFromFloat(amount), decimal.NewFromFloat(rate))
	require.NoError(t, err)
	return inv
}

// =============================================================================
// CreateSettlement
// =============================================================================

func TestCreateSettlementFIFOReceivableCompletes(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv1 := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)
	inv2 := fixtureInvoice(t, f.counterpartyID, "INV-2", jan1.AddDate(0, 1, 0), "DOP", 50, 1)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
		Return([]*domain.Invoice{inv1, inv2}, nil)
	f.settlementRepo.On("NextNumber", mock.Anything, domain.DocumentTypePayment).
		Return("PAY-000001", nil)
	f.settlementRepo.On("CommitSettlement", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	result, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		TargetTotal:    decimal.NewFromInt(120),
	})

	require.NoError(t, err)
	assert.Equal(t, "PAY-000001", result.Number)
	assert.Equal(t, domain.DocumentStatusCompleted, result.Status)
	assert.True(t, result.TotalAmount.Equal(decimal.NewFromInt(120)))
	require.Len(t, result.Allocations, 2)
	assert.True(t, result.Allocations[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.Allocations[1].Amount.Equal(decimal.NewFromInt(20)))

	// balances moved before the commit
	assert.True(t, inv1.Balance.IsZero())
	assert.True(t, inv2.Balance.Equal(decimal.NewFromInt(30)))
	f.settlementRepo.AssertExpectations(t)
}

func TestCreateSettlementPayablePaymentStaysPending(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindProvider)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionPayable, "DOP").
		Return([]*domain.Invoice{inv}, nil)
	f.settlementRepo.On("NextNumber", mock.Anything, domain.DocumentTypePayment).
		Return("PAY-000002", nil)
	f.settlementRepo.On("CommitSettlement", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	result, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodTransfer,
		TargetTotal:    decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusPending, result.Status)
}

func TestCreateSettlementZeroTotalRejected(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)

	_, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		TargetTotal:    decimal.Zero,
	})

	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeValidation, domainErr.Code)
	f.settlementRepo.AssertNotCalled(t, "CommitSettlement", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSettlementNoOpenInvoices(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
		Return([]*domain.Invoice{}, nil)

	_, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		TargetTotal:    decimal.NewFromInt(50),
	})

	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeNoInvoices, domainErr.Code)
	f.settlementRepo.AssertNotCalled(t, "CommitSettlement", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSettlementDrainsRecordedEvents(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
		Return([]*domain.Invoice{inv}, nil)
	f.settlementRepo.On("NextNumber", mock.Anything, domain.DocumentTypePayment).
		Return("PAY-000009", nil)

	var committed *domain.SettlementDocument
	f.settlementRepo.On("CommitSettlement", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			committed = args.Get(1).(*domain.SettlementDocument)
			// the write sees the events recorded by the transition
			assert.NotEmpty(t, committed.GetDomainEvents())
		}).
		Return(nil)

	_, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		TargetTotal:    decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	require.NotNil(t, committed)
	assert.Empty(t, committed.GetDomainEvents(), "events are cleared once the write is durable")
}

func TestCreateSettlementStaleManualAmountConflicts(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)
	// another settlement landed after the caller's read
	require.NoError(t, inv.ApplyAllocation(decimal.NewFromInt(60)))

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
		Return([]*domain.Invoice{inv}, nil)

	_, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		Allocations: []AllocationInstruction{
			{InvoiceID: inv.ID, Amount: decimal.NewFromInt(60)},
		},
	})

	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeConcurrencyConflict, domainErr.Code)
	f.settlementRepo.AssertNotCalled(t, "CommitSettlement", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSettlementDuplicateManualAmountsSumAgainstBalance(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
		Return([]*domain.Invoice{inv}, nil)

	// each line fits the balance on its own; together they exceed it
	_, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		Allocations: []AllocationInstruction{
			{InvoiceID: inv.ID, Amount: decimal.NewFromInt(80)},
			{InvoiceID: inv.ID, Amount: decimal.NewFromInt(80)},
		},
	})

	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeConcurrencyConflict, domainErr.Code)
	assert.True(t, inv.Balance.Equal(decimal.NewFromInt(100)), "nothing was applied")
	f.settlementRepo.AssertNotCalled(t, "CommitSettlement", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateSettlementConcurrentCommitOneWinner(t *testing.T) {
	// two requests race for the same invoice; the store accepts the first
	// version and rejects the second
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	run := func(commitErr error) error {
		f := newServiceFixture(acl.CounterpartyKindClient)
		inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)
		f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
			Return([]*domain.Invoice{inv}, nil)
		f.settlementRepo.On("NextNumber", mock.Anything, domain.DocumentTypePayment).
			Return("PAY-000009", nil)
		f.settlementRepo.On("CommitSettlement", mock.Anything, mock.Anything, mock.Anything).
			Return(commitErr)
		_, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
			CounterpartyID: f.counterpartyID,
			Type:           domain.DocumentTypePayment,
			Date:           time.Now(),
			CurrencyCode:   "DOP",
			PaymentMethod:  domain.PaymentMethodCash,
			TargetTotal:    decimal.NewFromInt(60),
		})
		return err
	}

	require.NoError(t, run(nil))

	err := run(shared.ErrConcurrencyConflict)
	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeConcurrencyConflict, domainErr.Code)
}

func TestCreateSettlementManualRateDeviationFlagged(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "USD", 100, 58)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "USD").
		Return([]*domain.Invoice{inv}, nil)
	f.currencies.On("GetRate", mock.Anything, "USD", mock.Anything).
		Return(decimal.NewFromInt(58), nil)
	f.settlementRepo.On("NextNumber", mock.Anything, domain.DocumentTypePayment).
		Return("PAY-000003", nil)
	f.settlementRepo.On("CommitSettlement", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	result, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "USD",
		ExchangeRate:   decimal.NewFromInt(70), // far off the registry's 58
		PaymentMethod:  domain.PaymentMethodCash,
		TargetTotal:    decimal.NewFromInt(100),
	})

	require.NoError(t, err, "deviation flags, it never blocks")
	assert.True(t, result.RateDeviationFlagged)
}

func TestCreateSettlementCrossCurrencyFXLoss(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "USD", 100, 58.0)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "USD").
		Return([]*domain.Invoice{inv}, nil)
	f.currencies.On("GetRate", mock.Anything, "USD", mock.Anything).
		Return(decimal.NewFromFloat(58.5), nil)
	f.settlementRepo.On("NextNumber", mock.Anything, domain.DocumentTypePayment).
		Return("PAY-000004", nil)
	f.settlementRepo.On("CommitSettlement", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	result, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "USD",
		PaymentMethod:  domain.PaymentMethodCash,
		TargetTotal:    decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.True(t, result.TotalFunctional.Equal(decimal.NewFromInt(5850)))
	assert.True(t, result.FXDifferenceTotal.Equal(decimal.NewFromInt(50)), "settling above the posting rate is a loss")
}

func TestCreateDebitNoteChargesSettledPortion(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)
	require.NoError(t, inv.ApplyAllocation(decimal.NewFromInt(80)))

	f.invoiceRepo.On("FindByCounterparty", mock.Anything, f.counterpartyID).
		Return([]*domain.Invoice{inv}, nil)
	f.settlementRepo.On("NextNumber", mock.Anything, domain.DocumentTypeDebitNote).
		Return("DBN-000001", nil)
	f.settlementRepo.On("CommitSettlement", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	result, err := f.service.CreateSettlement(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypeDebitNote,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		Allocations: []AllocationInstruction{
			{InvoiceID: inv.ID, Amount: decimal.NewFromInt(30)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusCompleted, result.Status)
	assert.True(t, inv.Balance.Equal(decimal.NewFromInt(50)), "debit note restores owed amount")
}

// =============================================================================
// Confirm / Void
// =============================================================================

func pendingPayableDocument(t *testing.T, counterpartyID uuid.UUID, invoiceID uuid.UUID) *domain.SettlementDocument {
	t.Helper()
	plan := &domain.AllocationPlan{
		Mode: domain.AllocationModeFIFO,
		Allocations: []domain.PlannedAllocation{{
			InvoiceID:        invoiceID,
			InvoiceNumber:    "INV-1",
			Amount:           decimal.NewFromInt(70),
			AmountFunctional: decimal.NewFromInt(70),
		}},
	}
	plan.TotalAllocated = decimal.NewFromInt(70)
	plan.TotalFunctional = decimal.NewFromInt(70)
	doc, err := domain.NewSettlementDocument("PAY-000010", domain.DocumentTypePayment, domain.DirectionPayable,
		counterpartyID, time.Now(), "DOP", decimal.NewFromInt(1), domain.PaymentMethodTransfer, "", plan)
	require.NoError(t, err)
	return doc
}

func TestConfirmSettlementRequiresReference(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindProvider)
	doc := pendingPayableDocument(t, f.counterpartyID, uuid.New())
	f.settlementRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := f.service.ConfirmSettlement(context.Background(), doc.ID, "")
	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeMissingReference, domainErr.Code)

	f.settlementRepo.On("SaveWithLock", mock.Anything, doc).Return(nil)
	result, err := f.service.ConfirmSettlement(context.Background(), doc.ID, "TRF-777")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusCompleted, result.Status)
}

func TestConfirmSettlementNotFound(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindProvider)
	id := uuid.New()
	f.settlementRepo.On("FindByID", mock.Anything, id).Return(nil, nil)

	_, err := f.service.ConfirmSettlement(context.Background(), id, "REF")
	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeNotFound, domainErr.Code)
}

func TestVoidSettlementRestoresBalances(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindProvider)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)
	require.NoError(t, inv.ApplyAllocation(decimal.NewFromInt(70)))

	doc := pendingPayableDocument(t, f.counterpartyID, inv.ID)
	f.settlementRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.invoiceRepo.On("FindByIDs", mock.Anything, []uuid.UUID{inv.ID}).
		Return([]*domain.Invoice{inv}, nil)
	f.settlementRepo.On("VoidSettlement", mock.Anything, doc, mock.Anything).Return(nil)

	result, err := f.service.VoidSettlement(context.Background(), doc.ID, "entered in error", "maria")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusVoided, result.Status)
	assert.True(t, inv.Balance.Equal(decimal.NewFromInt(100)), "void reproduces pre-settlement balance")
	f.settlementRepo.AssertExpectations(t)
}

func TestVoidVoidedSettlementRejected(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindProvider)
	doc := pendingPayableDocument(t, f.counterpartyID, uuid.New())
	require.NoError(t, doc.Void("first", "maria"))
	f.settlementRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := f.service.VoidSettlement(context.Background(), doc.ID, "again", "maria")
	require.Error(t, err)
	var domainErr shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.ErrCodeInvalidState, domainErr.Code)
}

// =============================================================================
// Reads
// =============================================================================

func TestGetOutstandingInvoicesDegradesToEmpty(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "").
		Return(nil, errors.New("connection reset"))

	result, err := f.service.GetOutstandingInvoices(context.Background(), f.counterpartyID, "")
	require.NoError(t, err, "listings degrade, they do not error")
	assert.Empty(t, result)
}

func TestGetOutstandingInvoicesUnknownCounterparty(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	unknown := uuid.New()
	f.counterparties.On("GetCounterparty", mock.Anything, unknown).
		Return(nil, errors.New("not found"))

	_, err := f.service.GetOutstandingInvoices(context.Background(), unknown, "")
	require.Error(t, err)
}

func TestGetAccountStatement(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	open := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)
	paid := fixtureInvoice(t, f.counterpartyID, "INV-2", jan1, "DOP", 50, 1)
	require.NoError(t, paid.ApplyAllocation(decimal.NewFromInt(50)))

	payment := pendingPayableDocument(t, f.counterpartyID, paid.ID)
	require.NoError(t, payment.Confirm("TRF-1"))

	f.invoiceRepo.On("FindByCounterparty", mock.Anything, f.counterpartyID).
		Return([]*domain.Invoice{open, paid}, nil)
	f.settlementRepo.On("FindByCounterparty", mock.Anything, f.counterpartyID).
		Return([]*domain.SettlementDocument{payment}, nil)

	statement, err := f.service.GetAccountStatement(context.Background(), f.counterpartyID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", statement.CounterpartyName)
	assert.Len(t, statement.History, 2)
	require.Len(t, statement.Outstanding, 1)
	assert.Equal(t, "INV-1", statement.Outstanding[0].Number)
	assert.Len(t, statement.Payments, 1)
	assert.Empty(t, statement.Notes)
	assert.True(t, statement.Summary.TotalOutstanding.Equal(decimal.NewFromInt(100)))
	assert.True(t, statement.Summary.TotalSettled.Equal(decimal.NewFromInt(70)))
}

func TestGetAccountStatementDegradesSectionsToEmpty(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	f.invoiceRepo.On("FindByCounterparty", mock.Anything, f.counterpartyID).
		Return(nil, errors.New("timeout"))
	f.settlementRepo.On("FindByCounterparty", mock.Anything, f.counterpartyID).
		Return(nil, errors.New("timeout"))

	statement, err := f.service.GetAccountStatement(context.Background(), f.counterpartyID)
	require.NoError(t, err)
	assert.Empty(t, statement.Outstanding)
	assert.Empty(t, statement.History)
	assert.Empty(t, statement.Payments)
	assert.Empty(t, statement.Notes)
}

// =============================================================================
// Preview
// =============================================================================

func TestPreviewAllocationClampsInsteadOfConflicting(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)
	require.NoError(t, inv.ApplyAllocation(decimal.NewFromInt(60)))

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
		Return([]*domain.Invoice{inv}, nil)

	preview, err := f.service.PreviewAllocation(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		Allocations: []AllocationInstruction{
			{InvoiceID: inv.ID, Amount: decimal.NewFromInt(60)},
		},
	})

	require.NoError(t, err)
	require.Len(t, preview.Allocations, 1)
	assert.True(t, preview.Allocations[0].Amount.Equal(decimal.NewFromInt(40)), "interactive edit clamps to the live balance")
	assert.True(t, inv.Balance.Equal(decimal.NewFromInt(40)), "preview commits nothing")
}

func TestPreviewAllocationReportsRemainder(t *testing.T) {
	f := newServiceFixture(acl.CounterpartyKindClient)
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inv := fixtureInvoice(t, f.counterpartyID, "INV-1", jan1, "DOP", 100, 1)

	f.invoiceRepo.On("FindOutstanding", mock.Anything, f.counterpartyID, domain.DirectionReceivable, "DOP").
		Return([]*domain.Invoice{inv}, nil)

	preview, err := f.service.PreviewAllocation(context.Background(), CreateSettlementRequest{
		CounterpartyID: f.counterpartyID,
		Type:           domain.DocumentTypePayment,
		Date:           time.Now(),
		CurrencyCode:   "DOP",
		PaymentMethod:  domain.PaymentMethodCash,
		TargetTotal:    decimal.NewFromInt(150),
	})

	require.NoError(t, err)
	assert.True(t, preview.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, preview.UnallocatedAmount.Equal(decimal.NewFromInt(50)))
}
