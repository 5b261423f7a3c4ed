package partner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
)

// Client exposes read access to partner pricing policies.
type Client interface {
	Policy(ctx context.Context, partnerID int64) (*model.PartnerPolicy, error)
}

// HTTPClient implements Client via the partner directory HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors JSON payload from the partner directory.
type response struct {
	PartnerID          int64   `json:"partner_id"`
	MaxDiscountPercent float64 `json:"max_discount_percent"`
	CashbackRate       float64 `json:"cashback_rate"`
}

// NewHTTPClient creates HTTP policy client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse partner url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("partner url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

// Policy fetches the pricing policy of a partner.
func (c *HTTPClient) Policy(ctx context.Context, partnerID int64) (*model.PartnerPolicy, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/partners/", strconv.FormatInt(partnerID, 10), "policy")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.PartnerPolicy{
			PartnerID:          data.PartnerID,
			MaxDiscountPercent: decimal.NewFromFloat(data.MaxDiscountPercent),
			CashbackRate:       decimal.NewFromFloat(data.CashbackRate),
		}, nil
	case http.StatusNotFound:
		return nil, domainErrors.ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("partner policy request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("partner directory error: %s", resp.Status)
	}
}
