package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yessgo/yesspay/internal/domain/model"
	"github.com/yessgo/yesspay/internal/server/http/dto"
)

const walletCurrency = "KGS"

// WalletHandler manages balance and ledger endpoints.
type WalletHandler struct {
	facade WalletFacade
}

// NewWalletHandler constructs WalletHandler.
func NewWalletHandler(facade WalletFacade) *WalletHandler {
	return &WalletHandler{facade: facade}
}

// Balance handles GET /api/v1/payments/balance.
func (h *WalletHandler) Balance(c *gin.Context) {
	userID := CurrentUserID(c)
	balance, err := h.facade.Balance(c.Request.Context(), userID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: amountToFloat(balance), Currency: walletCurrency})
}

// History handles GET /api/v1/payments/transactions.
func (h *WalletHandler) History(c *gin.Context) {
	userID := CurrentUserID(c)
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	transactions, total, err := h.facade.History(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	resp := dto.TransactionHistoryResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		TotalCount:   total,
		Page:         page,
		PageSize:     pageSize,
	}
	for _, t := range transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// TopUp handles POST /api/v1/wallet/topup.
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID := CurrentUserID(c)
	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	txn, err := h.facade.TopUp(c.Request.Context(), userID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, dto.TopUpResponse{
		TransactionID: txn.ID,
		Balance:       amountToFloat(txn.BalanceAfter),
	})
}

func toTransactionResponse(t model.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        amountToFloat(t.Amount),
		BalanceBefore: amountToFloat(t.BalanceBefore),
		BalanceAfter:  amountToFloat(t.BalanceAfter),
		Status:        string(t.Status),
		PartnerID:     t.PartnerID,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
	}
	if t.OrderID != nil {
		id := t.OrderID.String()
		resp.OrderID = &id
	}
	return resp
}
