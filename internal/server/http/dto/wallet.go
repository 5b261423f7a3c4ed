package dto

import "time"

// BalanceResponse reports the current wallet balance.
type BalanceResponse struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// TopUpRequest credits the wallet.
type TopUpRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// TopUpResponse confirms a wallet credit.
type TopUpResponse struct {
	TransactionID int64   `json:"transaction_id"`
	Balance       float64 `json:"balance"`
}

// TransactionResponse is one ledger entry in the history feed.
type TransactionResponse struct {
	ID            int64      `json:"id"`
	Type          string     `json:"type"`
	Amount        float64    `json:"amount"`
	BalanceBefore float64    `json:"balance_before"`
	BalanceAfter  float64    `json:"balance_after"`
	Status        string     `json:"status"`
	PartnerID     *int64     `json:"partner_id,omitempty"`
	OrderID       *string    `json:"order_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// TransactionHistoryResponse is the paged history envelope.
type TransactionHistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int                   `json:"total_count"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
}
