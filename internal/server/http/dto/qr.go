package dto

import "time"

// GenerateQRResponse is returned after minting a redemption token.
type GenerateQRResponse struct {
	QRCode    string    `json:"qr_code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidateQRRequest carries the scanned code for a read-only preview.
type ValidateQRRequest struct {
	QRCode string `json:"qr_code" binding:"required"`
}

// ValidateQRResponse describes an active token without redeeming it.
type ValidateQRResponse struct {
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ScanQRRequest is the merchant-side redemption payload.
type ScanQRRequest struct {
	QRCode          string  `json:"qr_code" binding:"required"`
	Amount          float64 `json:"amount" binding:"required"`
	DiscountPercent float64 `json:"discount_percent"`
	PartnerID       int64   `json:"partner_id" binding:"required"`
	IdempotencyKey  string  `json:"idempotency_key" binding:"required"`
}

// ScanQRResponse reports the redemption outcome.
type ScanQRResponse struct {
	OrderID        string  `json:"order_id"`
	FinalAmount    float64 `json:"final_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	CashbackAmount float64 `json:"cashback_amount"`
}
