package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fasthttp/router"
	"github.com/nimasrn/seller-crm/internal/idempotency"
	"github.com/nimasrn/seller-crm/internal/model"
	xhttp "github.com/nimasrn/seller-crm/pkg/http"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type SellerService interface {
	FindAll(ctx context.Context) ([]*model.Seller, error)
	FindByID(ctx context.Context, id int64) (*model.Seller, error)
	FindByName(ctx context.Context, name string) (*model.Seller, error)
	GetTransactionsBySellerID(ctx context.Context, id int64) ([]*model.Transaction, error)
	GetBestSellerForPeriod(ctx context.Context, label string, start, end *time.Time) ([]*model.Seller, error)
	GetSellersBelowAmountForPeriod(ctx context.Context, amount float64, start, end *time.Time) ([]*model.Seller, error)
	Create(ctx context.Context, p model.SellerCreateRequest) (*model.Seller, error)
	Update(ctx context.Context, id int64, p model.SellerUpdateRequest) (*model.Seller, error)
	Delete(ctx context.Context, id int64) error
}

type SellerHandler struct {
	svc   SellerService
	guard *idempotency.Guard
}

func RegisterSellerRoutes(e *router.Group, h *SellerHandler) {
	e.GET("/sellers", h.ListSellers)
	e.POST("/sellers", h.CreateSeller)
	e.GET("/sellers/best", h.GetBestSellers)
	e.GET("/sellers/below", h.GetSellersBelowAmount)
	e.GET("/sellers/by-name/{name}", h.GetSellerByName)
	e.GET("/sellers/{id}", h.GetSeller)
	e.PATCH("/sellers/{id}", h.UpdateSeller)
	e.DELETE("/sellers/{id}", h.DeleteSeller)
	e.GET("/sellers/{id}/transactions", h.GetSellerTransactions)
}

// NewSellerHandler builds the handler. guard may be nil, in which case
// Idempotency-Key headers are ignored.
func NewSellerHandler(sellerService SellerService, guard *idempotency.Guard) *SellerHandler {
	return &SellerHandler{
		svc:   sellerService,
		guard: guard,
	}
}

func (h *SellerHandler) ListSellers(ctx *xhttp.RequestCtx) {
	sellers, err := h.svc.FindAll(ctx)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sellers)
}

func (h *SellerHandler) GetSeller(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	seller, err := h.svc.FindByID(ctx, id)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, seller)
}

func (h *SellerHandler) GetSellerByName(ctx *xhttp.RequestCtx) {
	seller, err := h.svc.FindByName(ctx, pathString(ctx, "name"))
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, seller)
}

func (h *SellerHandler) GetSellerTransactions(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	txns, err := h.svc.GetTransactionsBySellerID(ctx, id)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, txns)
}

// GetBestSellers serves ?period=&startDate=&endDate=.
func (h *SellerHandler) GetBestSellers(ctx *xhttp.RequestCtx) {
	start, err := queryTime(ctx, "startDate")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	end, err := queryTime(ctx, "endDate")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}

	sellers, err := h.svc.GetBestSellerForPeriod(ctx, query(ctx, "period"), start, end)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sellers)
}

// GetSellersBelowAmount serves ?amount=&startDate=&endDate=.
func (h *SellerHandler) GetSellersBelowAmount(ctx *xhttp.RequestCtx) {
	amount, err := queryAmount(ctx, "amount")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	start, err := queryTime(ctx, "startDate")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	end, err := queryTime(ctx, "endDate")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}

	sellers, err := h.svc.GetSellersBelowAmountForPeriod(ctx, amount, start, end)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, sellers)
}

func (h *SellerHandler) CreateSeller(ctx *xhttp.RequestCtx) {
	var req model.SellerCreateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeDomainError(ctx, model.NewError(model.KindNotCreated, err, "invalid JSON: %s", err.Error()))
		return
	}

	create := func() ([]byte, error) {
		seller, err := h.svc.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(seller)
	}
	runCreate(ctx, h.guard, "sellers", create)
}

func (h *SellerHandler) UpdateSeller(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	var req model.SellerUpdateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeDomainError(ctx, model.NewError(model.KindNotUpdated, err, "invalid JSON: %s", err.Error()))
		return
	}

	seller, err := h.svc.Update(ctx, id, req)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, seller)
}

func (h *SellerHandler) DeleteSeller(ctx *xhttp.RequestCtx) {
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

// runCreate writes the result of create, going through guard when the
// request carries an idempotency key.
func runCreate(ctx *xhttp.RequestCtx, guard *idempotency.Guard, scope string, create func() ([]byte, error)) {
	key := string(ctx.Request.Header.Peek(IdempotencyKeyHeader))
	if guard == nil || key == "" {
		body, err := create()
		if err != nil {
			writeDomainError(ctx, err)
			return
		}
		writeRaw(ctx, xhttp.StatusOK, body)
		return
	}

	// the stored result must be written even if the client goes away
	body, replayed, err := guard.Do(context.WithoutCancel(ctx), scope, key, create)
	if err != nil {
		writeDomainError(ctx, err)
		return
	}
	if replayed {
		ctx.Response.Header.Set("Idempotent-Replayed", "true")
	}
	writeRaw(ctx, xhttp.StatusOK, body)
}
