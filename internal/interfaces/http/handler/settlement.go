package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appsettlement "github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/application/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/logger"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/interfaces/http/dto"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/interfaces/http/middleware"
)

// SettlementService is the application surface the HTTP layer depends on
type SettlementService interface {
	GetOutstandingInvoices(ctx context.Context, counterpartyID uuid.UUID, currencyCode string) ([]appsettlement.OutstandingInvoice, error)
	PreviewAllocation(ctx context.Context, req appsettlement.CreateSettlementRequest) (*appsettlement.PreviewResult, error)
	CreateSettlement(ctx context.Context, req appsettlement.CreateSettlementRequest) (*appsettlement.SettlementResult, error)
	ConfirmSettlement(ctx context.Context, id uuid.UUID, reference string) (*appsettlement.SettlementResult, error)
	VoidSettlement(ctx context.Context, id uuid.UUID, reason, actor string) (*appsettlement.SettlementResult, error)
	GetSettlement(ctx context.Context, id uuid.UUID) (*appsettlement.SettlementResult, error)
	ListSettlements(ctx context.Context, filter settlement.SettlementListFilter) ([]appsettlement.SettlementResult, int64, error)
	GetAccountStatement(ctx context.Context, counterpartyID uuid.UUID) (*appsettlement.AccountStatement, error)
}

// SettlementHandler exposes the settlement engine over HTTP
type SettlementHandler struct {
	BaseHandler
	service SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(service SettlementService) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// RegisterRoutes registers the settlement routes on the given group
func (h *SettlementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settlements := rg.Group("/settlements")
	settlements.GET("/outstanding-invoices", h.OutstandingInvoices)
	settlements.POST("/preview", h.Preview)
	settlements.POST("", h.Create)
	settlements.GET("", h.List)
	settlements.GET("/:id", h.GetByID)
	settlements.POST("/:id/confirm", h.Confirm)
	settlements.POST("/:id/void", h.Void)

	rg.GET("/statements/:counterparty_id", h.Statement)
}

// OutstandingInvoices lists a counterparty's invoices with balance left
func (h *SettlementHandler) OutstandingInvoices(c *gin.Context) {
	var req dto.OutstandingInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	counterpartyID, err := uuid.Parse(req.CounterpartyID)
	if err != nil {
		h.BadRequest(c, "invalid counterparty_id")
		return
	}

	invoices, err := h.service.GetOutstandingInvoices(c.Request.Context(), counterpartyID, req.CurrencyCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Preview plans allocations without committing anything
func (h *SettlementHandler) Preview(c *gin.Context) {
	var req dto.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	appReq, err := req.ToApplication()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PreviewAllocation(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Create commits a settlement document and its balance effects
func (h *SettlementHandler) Create(c *gin.Context) {
	var req dto.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	appReq, err := req.ToApplication()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateSettlement(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("settlement created",
		zap.String("number", result.Number),
		zap.String("status", result.Status.String()),
	)
	h.Created(c, result)
}

// GetByID returns a settlement document with its allocations
func (h *SettlementHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.service.GetSettlement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns a filtered page of settlement documents
func (h *SettlementHandler) List(c *gin.Context) {
	var req dto.ListSettlementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	results, total, err := h.service.ListSettlements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, results, total, req.Page, req.PageSize)
}

// Confirm transitions a pending settlement to completed
func (h *SettlementHandler) Confirm(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ConfirmSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ConfirmSettlement(c.Request.Context(), id, req.Reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Void reverses a settlement and restores the invoice balances it touched
func (h *SettlementHandler) Void(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.VoidSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actor := middleware.GetJWTUsername(c)
	if actor == "" {
		actor = middleware.GetJWTUserID(c)
	}

	result, err := h.service.VoidSettlement(c.Request.Context(), id, req.Reason, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("settlement voided",
		zap.String("number", result.Number),
		zap.String("voided_by", actor),
	)
	h.Success(c, result)
}

// Statement returns a counterparty's full settlement position
func (h *SettlementHandler) Statement(c *gin.Context) {
	counterpartyID, err := uuid.Parse(c.Param("counterparty_id"))
	if err != nil {
		h.BadRequest(c, "invalid counterparty_id")
		return
	}

	statement, err := h.service.GetAccountStatement(c.Request.Context(), counterpartyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}

func (h *SettlementHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
