package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// statusForError maps the domain error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrTokenInvalid):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrTokenExpired):
		return http.StatusGone
	case errors.Is(err, domainErrors.ErrTokenRedeemed):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidAmount), errors.Is(err, domainErrors.ErrInvalidDiscount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func amountToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
