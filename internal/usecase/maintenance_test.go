package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
	testhelpers "github.com/yessgo/yesspay/internal/test"
)

func TestMaintenanceSweep(t *testing.T) {
	tokens := testhelpers.NewTokenRepositoryStub()
	orders := testhelpers.NewOrderRepositoryStub()
	uc := NewMaintenanceUseCase(tokens, orders, 24*time.Hour)
	base := time.Now()
	uc.now = func() time.Time { return base }

	tokens.Tokens["stale"] = &model.RedemptionToken{Code: "stale", ExpiresAt: base.Add(-30 * time.Hour)}
	tokens.Tokens["lapsed"] = &model.RedemptionToken{Code: "lapsed", ExpiresAt: base.Add(-time.Hour)}
	tokens.Tokens["fresh"] = &model.RedemptionToken{Code: "fresh", ExpiresAt: base.Add(time.Minute)}

	orders.Put(&model.Order{ID: uuid.New(), IdempotencyKey: "old-done", Status: model.OrderCompleted, CreatedAt: base.Add(-48 * time.Hour)})
	orders.Put(&model.Order{ID: uuid.New(), IdempotencyKey: "recent-done", Status: model.OrderCompleted, CreatedAt: base.Add(-time.Hour)})
	orders.Put(&model.Order{ID: uuid.New(), IdempotencyKey: "old-pending", Status: model.OrderPending, CreatedAt: base.Add(-48 * time.Hour)})

	stats, err := uc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep returned error: %v", err)
	}
	if stats.ExpiredTokens != 1 {
		t.Fatalf("expected 1 expired token, got %d", stats.ExpiredTokens)
	}
	if stats.ReleasedKeys != 1 {
		t.Fatalf("expected 1 released key, got %d", stats.ReleasedKeys)
	}
	if _, ok := tokens.Tokens["fresh"]; !ok {
		t.Fatalf("active token must survive the sweep")
	}
	if _, ok := tokens.Tokens["lapsed"]; !ok {
		t.Fatalf("recently expired token must survive until the retention cutoff")
	}
	if _, err := orders.GetByIdempotencyKey(context.Background(), "recent-done"); err != nil {
		t.Fatalf("recent key must survive the sweep: %v", err)
	}
	if _, err := orders.GetByIdempotencyKey(context.Background(), "old-pending"); err != nil {
		t.Fatalf("pending order must keep its key: %v", err)
	}
}

func TestMaintenanceSweepKeepsExpiredErrorKind(t *testing.T) {
	tokens := testhelpers.NewTokenRepositoryStub()
	uc := NewMaintenanceUseCase(tokens, testhelpers.NewOrderRepositoryStub(), 24*time.Hour)
	base := time.Now()
	uc.now = func() time.Time { return base }

	tokens.Tokens["lapsed"] = &model.RedemptionToken{Code: "lapsed", UserID: 1, ExpiresAt: base.Add(-time.Second)}

	validator := NewTokenUseCase(tokens, 3*time.Minute)
	if _, err := validator.Validate(context.Background(), "lapsed"); !errors.Is(err, domainErrors.ErrTokenExpired) {
		t.Fatalf("expected expired token error, got %v", err)
	}
	if _, err := uc.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep returned error: %v", err)
	}
	if _, err := validator.Validate(context.Background(), "lapsed"); !errors.Is(err, domainErrors.ErrTokenExpired) {
		t.Fatalf("expired token must not degrade to invalid after a sweep, got %v", err)
	}
}

func TestMaintenanceSweepTokenError(t *testing.T) {
	tokens := testhelpers.NewTokenRepositoryStub()
	tokens.Err = fmt.Errorf("db down")
	uc := NewMaintenanceUseCase(tokens, testhelpers.NewOrderRepositoryStub(), time.Hour)
	if _, err := uc.Sweep(context.Background()); err == nil {
		t.Fatal("expected token repository error")
	}
}

func TestMaintenanceSweepOrderError(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	orders.Err = fmt.Errorf("db down")
	uc := NewMaintenanceUseCase(testhelpers.NewTokenRepositoryStub(), orders, time.Hour)
	if _, err := uc.Sweep(context.Background()); err == nil {
		t.Fatal("expected order repository error")
	}
}
