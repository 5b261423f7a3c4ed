package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
	"github.com/yessgo/yesspay/internal/domain/repository"
)

// PolicyProvider fetches partner pricing policies.
type PolicyProvider interface {
	Policy(ctx context.Context, partnerID int64) (*model.PartnerPolicy, error)
}

// Notifier publishes best-effort user events after commit.
type Notifier interface {
	Notify(event model.NotificationEvent)
}

// redemptionState tracks orchestrator progress for diagnostics.
type redemptionState string

const (
	stateReceived       redemptionState = "received"
	stateTokenValidated redemptionState = "token_validated"
	statePolicyComputed redemptionState = "policy_computed"
	stateLedgerApplied  redemptionState = "ledger_applied"
	stateCompleted      redemptionState = "completed"
)

const pendingPollInterval = 100 * time.Millisecond

// RedemptionOptions tune idempotency wait, transient retry behaviour and the
// per-attempt deadline of the ledger transaction.
type RedemptionOptions struct {
	PendingWait    time.Duration
	RetryAttempts  uint64
	LedgerDeadline time.Duration
}

// RedemptionUseCase is the orchestrator behind a QR scan: one idempotent
// operation composing token validation, policy computation and the atomic
// ledger unit.
type RedemptionUseCase struct {
	tokens         *TokenUseCase
	orders         repository.OrderRepository
	ledger         repository.LedgerRepository
	policies       PolicyProvider
	notifier       Notifier
	logger         *slog.Logger
	pendingWait    time.Duration
	retryAttempts  uint64
	ledgerDeadline time.Duration
}

// NewRedemptionUseCase constructs RedemptionUseCase.
func NewRedemptionUseCase(tokens *TokenUseCase, orders repository.OrderRepository, ledger repository.LedgerRepository, policies PolicyProvider, notifier Notifier, logger *slog.Logger, opts RedemptionOptions) *RedemptionUseCase {
	wait := opts.PendingWait
	if wait <= 0 {
		wait = 5 * time.Second
	}
	deadline := opts.LedgerDeadline
	if deadline <= 0 {
		deadline = 800 * time.Millisecond
	}
	return &RedemptionUseCase{
		tokens:         tokens,
		orders:         orders,
		ledger:         ledger,
		policies:       policies,
		notifier:       notifier,
		logger:         logger,
		pendingWait:    wait,
		retryAttempts:  opts.RetryAttempts,
		ledgerDeadline: deadline,
	}
}

// Redeem performs a scan: validates the token, computes discount/cashback
// per partner policy and applies the ledger mutations in one atomic unit.
// Replays with a known idempotency key return the stored result unchanged.
func (u *RedemptionUseCase) Redeem(ctx context.Context, code string, orderAmount, requestedPercent decimal.Decimal, partnerID int64, idempotencyKey string) (*model.RedemptionResult, error) {
	state := stateReceived
	log := u.logger.With(slog.String("idempotency_key", idempotencyKey))

	if result, found, err := u.findPrior(ctx, idempotencyKey); err != nil {
		return nil, err
	} else if found {
		return result, nil
	}

	token, err := u.tokens.Validate(ctx, code)
	if err != nil {
		return nil, u.fail(log, state, err)
	}
	state = stateTokenValidated

	policy, err := u.policies.Policy(ctx, partnerID)
	if err != nil {
		return nil, u.fail(log, state, err)
	}
	amounts, err := ComputePolicy(orderAmount, requestedPercent, *policy)
	if err != nil {
		return nil, u.fail(log, state, err)
	}
	state = statePolicyComputed

	ord := model.Order{
		ID:             uuid.New(),
		UserID:         token.UserID,
		PartnerID:      partnerID,
		OriginalAmount: orderAmount.Round(2),
		DiscountAmount: amounts.DiscountAmount,
		CashbackAmount: amounts.CashbackAmount,
		FinalAmount:    amounts.FinalAmount,
		IdempotencyKey: idempotencyKey,
		Status:         model.OrderPending,
	}

	// Cancellation is honored only up to this point. Once the atomic unit
	// starts it runs to commit or rollback; a half-applied ledger must never
	// be observable. Each attempt still carries its own short deadline so a
	// hung connection cannot stall the request.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unitCtx := context.WithoutCancel(ctx)

	var outcome *model.RedemptionOutcome
	backoff := retry.WithMaxRetries(u.retryAttempts, retry.NewExponential(50*time.Millisecond))
	err = retry.Do(unitCtx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, u.ledgerDeadline)
		defer cancel()
		var execErr error
		outcome, execErr = u.ledger.ExecuteRedemption(attemptCtx, model.RedemptionCommand{TokenCode: code, Order: ord})
		if errors.Is(execErr, domainErrors.ErrTransientStore) {
			return retry.RetryableError(execErr)
		}
		return execErr
	})
	if err != nil {
		return nil, u.fail(log, state, err)
	}
	state = stateLedgerApplied

	if !outcome.Created {
		// Lost the key race to a concurrent request; surface its result.
		return u.awaitTerminal(unitCtx, outcome.Order)
	}
	state = stateCompleted

	log.Info("redemption completed",
		slog.String("order_id", outcome.Order.ID.String()),
		slog.String("final_amount", outcome.Order.FinalAmount.String()),
		slog.String("state", string(state)),
	)

	u.notifier.Notify(model.NotificationEvent{
		UserID:         ord.UserID,
		Kind:           model.EventRedemptionCompleted,
		OrderID:        &outcome.Order.ID,
		Amount:         ord.FinalAmount,
		CashbackAmount: ord.CashbackAmount,
	})

	return outcome.Order.Result(), nil
}

// findPrior implements the idempotency guard lookup.
func (u *RedemptionUseCase) findPrior(ctx context.Context, key string) (*model.RedemptionResult, bool, error) {
	ord, err := u.orders.GetByIdempotencyKey(ctx, key)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	result, err := u.awaitTerminal(ctx, ord)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// awaitTerminal resolves an existing order for the key: terminal orders
// yield their stored result immediately, pending ones are re-read within a
// bounded wait instead of re-executing.
func (u *RedemptionUseCase) awaitTerminal(ctx context.Context, ord *model.Order) (*model.RedemptionResult, error) {
	if ord.Terminal() {
		return ord.Result(), nil
	}

	deadline := time.NewTimer(u.pendingWait)
	defer deadline.Stop()
	ticker := time.NewTicker(pendingPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, domainErrors.ErrDuplicateRequest
		case <-ticker.C:
			fresh, err := u.orders.GetByIdempotencyKey(ctx, ord.IdempotencyKey)
			if errors.Is(err, domainErrors.ErrNotFound) {
				// The in-flight attempt rolled back; the key is free again.
				return nil, domainErrors.ErrDuplicateRequest
			}
			if err != nil {
				return nil, err
			}
			if fresh.Terminal() {
				return fresh.Result(), nil
			}
		}
	}
}

func (u *RedemptionUseCase) fail(log *slog.Logger, state redemptionState, err error) error {
	log.Warn("redemption failed",
		slog.String("state", string(state)),
		slog.String("error", err.Error()),
	)
	return err
}
