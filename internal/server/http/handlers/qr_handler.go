package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yessgo/yesspay/internal/server/http/dto"
)

// QRHandler manages redemption token endpoints.
type QRHandler struct {
	facade QRFacade
}

// NewQRHandler constructs QRHandler.
func NewQRHandler(facade QRFacade) *QRHandler {
	return &QRHandler{facade: facade}
}

// Generate handles POST /api/v1/qr/generate.
func (h *QRHandler) Generate(c *gin.Context) {
	userID := CurrentUserID(c)
	token, err := h.facade.IssueQR(c.Request.Context(), userID)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, dto.GenerateQRResponse{QRCode: token.Code, ExpiresAt: token.ExpiresAt})
}

// Validate handles POST /api/v1/qr/validate. Read-only preview; the token
// stays redeemable.
func (h *QRHandler) Validate(c *gin.Context) {
	var req dto.ValidateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.ValidateQR(c.Request.Context(), req.QRCode)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	c.JSON(http.StatusOK, dto.ValidateQRResponse{UserID: token.UserID, ExpiresAt: token.ExpiresAt})
}

// Scan handles POST /api/v1/qr/scan.
func (h *QRHandler) Scan(c *gin.Context) {
	var req dto.ScanQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.Scan(
		c.Request.Context(),
		req.QRCode,
		decimal.NewFromFloat(req.Amount),
		decimal.NewFromFloat(req.DiscountPercent),
		req.PartnerID,
		req.IdempotencyKey,
	)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, dto.ScanQRResponse{
		OrderID:        result.OrderID.String(),
		FinalAmount:    amountToFloat(result.FinalAmount),
		DiscountAmount: amountToFloat(result.DiscountAmount),
		CashbackAmount: amountToFloat(result.CashbackAmount),
	})
}
