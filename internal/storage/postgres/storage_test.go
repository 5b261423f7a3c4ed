package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger}
	return storage, mock
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func expectationsMet(t *testing.T, mock pgxmockv3.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(login, password_hash\) VALUES \(\$1, \$2\) RETURNING id, created_at`).
		WithArgs("alice", "hash").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	user, err := storage.Users().Create(context.Background(), "alice", "hash")
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if user.ID != 1 || user.Login != "alice" {
		t.Fatalf("unexpected user %+v", user)
	}
	expectationsMet(t, mock)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := storage.Users().Create(context.Background(), "alice", "hash"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestUserRepositoryGetByLoginNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT id, login, password_hash, created_at FROM users WHERE login=\$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "login", "password_hash", "created_at"}))

	if _, err := storage.Users().GetByLogin(context.Background(), "ghost"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestWalletRepositoryGetByUserID(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, user_id, balance, updated_at FROM wallets WHERE user_id=\$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "user_id", "balance", "updated_at"}).
			AddRow(int64(10), int64(1), mustDec(t, "272.00"), now))

	wallet, err := storage.Wallets().GetByUserID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get wallet returned error: %v", err)
	}
	if !wallet.Balance.Equal(mustDec(t, "272.00")) {
		t.Fatalf("unexpected balance %s", wallet.Balance)
	}
	expectationsMet(t, mock)
}

func TestWalletRepositoryGetByUserIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT id, user_id, balance, updated_at FROM wallets WHERE user_id=\$1`).
		WithArgs(int64(9)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "user_id", "balance", "updated_at"}))

	if _, err := storage.Wallets().GetByUserID(context.Background(), 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestTokenRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	token := &model.RedemptionToken{Code: "code", UserID: 1, IssuedAt: now, ExpiresAt: now.Add(3 * time.Minute)}

	mock.ExpectExec(`INSERT INTO redemption_tokens \(code, user_id, issued_at, expires_at\) VALUES \(\$1, \$2, \$3, \$4\)`).
		WithArgs(token.Code, token.UserID, token.IssuedAt, token.ExpiresAt).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))

	if err := storage.Tokens().Create(context.Background(), token); err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestTokenRepositoryGetByCode(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT code, user_id, issued_at, expires_at, redeemed, redeemed_order_id FROM redemption_tokens WHERE code=\$1`).
		WithArgs("code").
		WillReturnRows(pgxmockv3.NewRows([]string{"code", "user_id", "issued_at", "expires_at", "redeemed", "redeemed_order_id"}).
			AddRow("code", int64(1), now, now.Add(time.Minute), false, (*uuid.UUID)(nil)))

	token, err := storage.Tokens().GetByCode(context.Background(), "code")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if token.Redeemed || token.UserID != 1 {
		t.Fatalf("unexpected token %+v", token)
	}
	expectationsMet(t, mock)
}

func TestTokenRepositoryGetByCodeUnknown(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(`SELECT code, user_id, issued_at, expires_at, redeemed, redeemed_order_id FROM redemption_tokens WHERE code=\$1`).
		WithArgs("missing").
		WillReturnRows(pgxmockv3.NewRows([]string{"code", "user_id", "issued_at", "expires_at", "redeemed", "redeemed_order_id"}))

	if _, err := storage.Tokens().GetByCode(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestTokenRepositoryDeleteExpiredBefore(t *testing.T) {
	storage, mock := newMockStorage(t)
	cutoff := time.Now()

	mock.ExpectExec(`DELETE FROM redemption_tokens WHERE expires_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(pgxmockv3.NewResult("DELETE", 3))

	removed, err := storage.Tokens().DeleteExpiredBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	expectationsMet(t, mock)
}

func TestOrderRepositoryGetByIdempotencyKey(t *testing.T) {
	storage, mock := newMockStorage(t)
	orderID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE idempotency_key=\$1`).
		WithArgs("key-1").
		WillReturnRows(orderRows().AddRow(
			orderID, int64(1), int64(5),
			mustDec(t, "300"), mustDec(t, "60"), mustDec(t, "12"), mustDec(t, "240"),
			"key-1", model.OrderCompleted, now,
		))

	ord, err := storage.Orders().GetByIdempotencyKey(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if ord.ID != orderID || ord.Status != model.OrderCompleted {
		t.Fatalf("unexpected order %+v", ord)
	}
	if !ord.FinalAmount.Equal(mustDec(t, "240")) {
		t.Fatalf("unexpected final amount %s", ord.FinalAmount)
	}
	expectationsMet(t, mock)
}

func orderRows() *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{
		"id", "user_id", "partner_id",
		"original_amount", "discount_amount", "cashback_amount", "final_amount",
		"idempotency_key", "status", "created_at",
	})
}

func TestOrderRepositoryReleaseKeysBefore(t *testing.T) {
	storage, mock := newMockStorage(t)
	cutoff := time.Now()

	mock.ExpectExec(`UPDATE orders SET idempotency_key=NULL`).
		WithArgs(cutoff).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 2))

	released, err := storage.Orders().ReleaseKeysBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("release returned error: %v", err)
	}
	if released != 2 {
		t.Fatalf("expected 2 released, got %d", released)
	}
	expectationsMet(t, mock)
}

func transactionRows() *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{
		"id", "user_id", "type", "amount", "balance_before", "balance_after",
		"status", "partner_id", "order_id", "created_at", "completed_at",
	})
}

func TestTransactionRepositoryListByUser(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()
	orderID := uuid.New()
	partnerID := int64(5)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM transactions WHERE user_id=\$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT id, user_id, type, amount, balance_before, balance_after, status, partner_id, order_id, created_at, completed_at`).
		WithArgs(int64(1), 20, 0).
		WillReturnRows(transactionRows().
			AddRow(int64(2), int64(1), model.TransactionBonus, mustDec(t, "12"), mustDec(t, "260"), mustDec(t, "272"), model.TransactionCompleted, &partnerID, &orderID, now, &now).
			AddRow(int64(1), int64(1), model.TransactionPayment, mustDec(t, "240"), mustDec(t, "500"), mustDec(t, "260"), model.TransactionCompleted, &partnerID, &orderID, now, &now))

	list, total, err := storage.Transactions().ListByUser(context.Background(), 1, 1, 20)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("unexpected result: total=%d len=%d", total, len(list))
	}
	if list[0].Type != model.TransactionBonus || list[1].Type != model.TransactionPayment {
		t.Fatalf("unexpected ordering: %+v", list)
	}
	expectationsMet(t, mock)
}

func TestLedgerApplyLazyWalletCreation(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance FROM wallets WHERE user_id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "balance"}))
	mock.ExpectQuery(`INSERT INTO wallets \(user_id, balance\) VALUES \(\$1, 0\) RETURNING id, balance`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "balance"}).AddRow(int64(10), decimal.Zero))
	mock.ExpectExec(`UPDATE wallets SET balance=\$1, updated_at=NOW\(\) WHERE id=\$2`).
		WithArgs(mustDec(t, "100"), int64(10)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(int64(1), model.TransactionTopUp, mustDec(t, "100"), decimal.Zero, mustDec(t, "100"), model.TransactionCompleted, (*int64)(nil), (*uuid.UUID)(nil)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "completed_at"}).AddRow(int64(1), now, &now))
	mock.ExpectCommit()

	txn, err := storage.Ledger().Apply(context.Background(), model.LedgerEntry{
		UserID: 1,
		Type:   model.TransactionTopUp,
		Amount: mustDec(t, "100"),
	})
	if err != nil {
		t.Fatalf("apply returned error: %v", err)
	}
	if !txn.BalanceBefore.IsZero() || !txn.BalanceAfter.Equal(mustDec(t, "100")) {
		t.Fatalf("unexpected balances %s -> %s", txn.BalanceBefore, txn.BalanceAfter)
	}
	expectationsMet(t, mock)
}

func TestLedgerApplyInsufficientBalance(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance FROM wallets WHERE user_id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "balance"}).AddRow(int64(10), mustDec(t, "50")))
	mock.ExpectRollback()

	_, err := storage.Ledger().Apply(context.Background(), model.LedgerEntry{
		UserID: 1,
		Type:   model.TransactionPayment,
		Amount: mustDec(t, "100"),
	})
	if !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestLedgerApplyDebitWithoutWallet(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, balance FROM wallets WHERE user_id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "balance"}))
	mock.ExpectRollback()

	_, err := storage.Ledger().Apply(context.Background(), model.LedgerEntry{
		UserID: 1,
		Type:   model.TransactionPayment,
		Amount: mustDec(t, "10"),
	})
	if !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	expectationsMet(t, mock)
}

func redemptionCommand(t *testing.T) model.RedemptionCommand {
	t.Helper()
	return model.RedemptionCommand{
		TokenCode: "qr-code",
		Order: model.Order{
			ID:             uuid.New(),
			UserID:         1,
			PartnerID:      5,
			OriginalAmount: mustDec(t, "300"),
			DiscountAmount: mustDec(t, "60"),
			CashbackAmount: mustDec(t, "12"),
			FinalAmount:    mustDec(t, "240"),
			IdempotencyKey: "key-1",
			Status:         model.OrderPending,
		},
	}
}

func TestExecuteRedemption(t *testing.T) {
	storage, mock := newMockStorage(t)
	cmd := redemptionCommand(t)
	ord := cmd.Order
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(ord.ID, ord.UserID, ord.PartnerID, ord.OriginalAmount, ord.DiscountAmount, ord.CashbackAmount, ord.FinalAmount, ord.IdempotencyKey, model.OrderPending).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE redemption_tokens SET redeemed=TRUE, redeemed_order_id=\$1`).
		WithArgs(ord.ID, cmd.TokenCode).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))

	// payment debit
	mock.ExpectQuery(`SELECT id, balance FROM wallets WHERE user_id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "balance"}).AddRow(int64(10), mustDec(t, "500")))
	mock.ExpectExec(`UPDATE wallets SET balance=\$1, updated_at=NOW\(\) WHERE id=\$2`).
		WithArgs(mustDec(t, "260"), int64(10)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(int64(1), model.TransactionPayment, mustDec(t, "240"), mustDec(t, "500"), mustDec(t, "260"), model.TransactionCompleted, &ord.PartnerID, &ord.ID).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "completed_at"}).AddRow(int64(1), now, &now))

	// cashback credit
	mock.ExpectQuery(`SELECT id, balance FROM wallets WHERE user_id=\$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "balance"}).AddRow(int64(10), mustDec(t, "260")))
	mock.ExpectExec(`UPDATE wallets SET balance=\$1, updated_at=NOW\(\) WHERE id=\$2`).
		WithArgs(mustDec(t, "272"), int64(10)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(int64(1), model.TransactionBonus, mustDec(t, "12"), mustDec(t, "260"), mustDec(t, "272"), model.TransactionCompleted, &ord.PartnerID, &ord.ID).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "completed_at"}).AddRow(int64(2), now, &now))

	mock.ExpectExec(`UPDATE orders SET status=\$1 WHERE id=\$2`).
		WithArgs(model.OrderCompleted, ord.ID).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	outcome, err := storage.Ledger().ExecuteRedemption(context.Background(), cmd)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if !outcome.Created {
		t.Fatalf("expected created outcome")
	}
	if outcome.Order.Status != model.OrderCompleted {
		t.Fatalf("unexpected status %s", outcome.Order.Status)
	}
	expectationsMet(t, mock)
}

func TestExecuteRedemptionDuplicateKey(t *testing.T) {
	storage, mock := newMockStorage(t)
	cmd := redemptionCommand(t)
	ord := cmd.Order
	existingID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(ord.ID, ord.UserID, ord.PartnerID, ord.OriginalAmount, ord.DiscountAmount, ord.CashbackAmount, ord.FinalAmount, ord.IdempotencyKey, model.OrderPending).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE idempotency_key=\$1`).
		WithArgs("key-1").
		WillReturnRows(orderRows().AddRow(
			existingID, int64(1), int64(5),
			mustDec(t, "300"), mustDec(t, "60"), mustDec(t, "12"), mustDec(t, "240"),
			"key-1", model.OrderCompleted, now,
		))
	mock.ExpectCommit()

	outcome, err := storage.Ledger().ExecuteRedemption(context.Background(), cmd)
	if err != nil {
		t.Fatalf("execute returned error: %v", err)
	}
	if outcome.Created {
		t.Fatalf("duplicate key must not report created")
	}
	if outcome.Order.ID != existingID {
		t.Fatalf("expected existing order, got %s", outcome.Order.ID)
	}
	expectationsMet(t, mock)
}

func TestExecuteRedemptionTokenAlreadyRedeemed(t *testing.T) {
	storage, mock := newMockStorage(t)
	cmd := redemptionCommand(t)
	ord := cmd.Order

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(ord.ID, ord.UserID, ord.PartnerID, ord.OriginalAmount, ord.DiscountAmount, ord.CashbackAmount, ord.FinalAmount, ord.IdempotencyKey, model.OrderPending).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE redemption_tokens SET redeemed=TRUE, redeemed_order_id=\$1`).
		WithArgs(ord.ID, cmd.TokenCode).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT redeemed, expires_at FROM redemption_tokens WHERE code=\$1`).
		WithArgs(cmd.TokenCode).
		WillReturnRows(pgxmockv3.NewRows([]string{"redeemed", "expires_at"}).AddRow(true, time.Now().Add(time.Minute)))
	mock.ExpectRollback()

	if _, err := storage.Ledger().ExecuteRedemption(context.Background(), cmd); !errors.Is(err, domainErrors.ErrTokenRedeemed) {
		t.Fatalf("expected ErrTokenRedeemed, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestExecuteRedemptionTokenExpired(t *testing.T) {
	storage, mock := newMockStorage(t)
	cmd := redemptionCommand(t)
	ord := cmd.Order

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(ord.ID, ord.UserID, ord.PartnerID, ord.OriginalAmount, ord.DiscountAmount, ord.CashbackAmount, ord.FinalAmount, ord.IdempotencyKey, model.OrderPending).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE redemption_tokens SET redeemed=TRUE, redeemed_order_id=\$1`).
		WithArgs(ord.ID, cmd.TokenCode).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT redeemed, expires_at FROM redemption_tokens WHERE code=\$1`).
		WithArgs(cmd.TokenCode).
		WillReturnRows(pgxmockv3.NewRows([]string{"redeemed", "expires_at"}).AddRow(false, time.Now().Add(-time.Minute)))
	mock.ExpectRollback()

	if _, err := storage.Ledger().ExecuteRedemption(context.Background(), cmd); !errors.Is(err, domainErrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestExecuteRedemptionUnknownToken(t *testing.T) {
	storage, mock := newMockStorage(t)
	cmd := redemptionCommand(t)
	ord := cmd.Order

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(ord.ID, ord.UserID, ord.PartnerID, ord.OriginalAmount, ord.DiscountAmount, ord.CashbackAmount, ord.FinalAmount, ord.IdempotencyKey, model.OrderPending).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE redemption_tokens SET redeemed=TRUE, redeemed_order_id=\$1`).
		WithArgs(ord.ID, cmd.TokenCode).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery(`SELECT redeemed, expires_at FROM redemption_tokens WHERE code=\$1`).
		WithArgs(cmd.TokenCode).
		WillReturnRows(pgxmockv3.NewRows([]string{"redeemed", "expires_at"}))
	mock.ExpectRollback()

	if _, err := storage.Ledger().ExecuteRedemption(context.Background(), cmd); !errors.Is(err, domainErrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestMapStoreError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		transient bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"query canceled", &pgconn.PgError{Code: "57014"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapStoreError(tc.err)
			if tc.transient != errors.Is(got, domainErrors.ErrTransientStore) {
				t.Fatalf("transient=%v mismatch for %v", tc.transient, got)
			}
		})
	}
	if mapStoreError(nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectPing()
	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check returned error: %v", err)
	}
	expectationsMet(t, mock)
}
