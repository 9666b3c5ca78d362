package handlers

import (
	"context"
	"encoding/json"

	"github.com/fasthttp/router"
	"github.com/nimasrn/seller-crm/internal/idempotency"
	"github.com/nimasrn/seller-crm/internal/model"
	xhttp "github.com/nimasrn/seller-crm/pkg/http"
)

type TransactionService interface {
	FindAll(ctx context.Context) ([]*model.Transaction, error)
	FindByID(ctx context.Context, id int64) (*model.Transaction, error)
	Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
	Update(ctx context.Context, id int64, p model.TransactionUpdateRequest) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) error
	MaxID(ctx context.Context) (int64, error)
}

type TransactionHandler struct {
	svc   TransactionService
	guard *idempotency.Guard
}

type maxIDResponse struct {
	ID int64 `json:"id"`
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler) {
	e.GET("/transactions", h.ListTransactions)
	e.POST("/transactions", h.CreateTransaction)
	e.GET("/transactions/max-id", h.GetMaxID)
	e.GET("/transactions/{id}", h.GetTransaction)
	e.PATCH("/transactions/{id}", h.UpdateTransaction)
	e.DELETE("/transactions/{id}", h.DeleteTransaction)
}

func NewTransactionHandler(transactionService TransactionService, guard *idempotency.Guard) *TransactionHandler {
	return &TransactionHandler{
		svc:   transactionService,
		guard: guard,
	}
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	txns, err := h.svc.FindAll(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, txns)
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	txn, err := h.svc.FindByID(ctx, id)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, txn)
}

func (h *TransactionHandler) GetMaxID(ctx *xhttp.RequestCtx) {
	id, err := h.svc.MaxID(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, maxIDResponse{ID: id})
}

func (h *TransactionHandler) CreateTransaction(ctx *xhttp.RequestCtx) {
	var req model.TransactionCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeDomainError(ctx, model.NewError(model.KindNotCreated, err, "invalid JSON: %s", err.Error()))
		return
	}

	create := func() ([]byte, error) {
		txn, err := h.svc.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(txn)
	}
	runCreate(ctx, h.guard, "transactions", create)
}

func (h *TransactionHandler) UpdateTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	var req model.TransactionUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeDomainError(ctx, model.NewError(model.KindNotUpdated, err, "invalid JSON: %s", err.Error()))
		return
	}

	txn, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, txn)
}

func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, okResponse)
}
