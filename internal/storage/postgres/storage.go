package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
	"github.com/yessgo/yesspay/internal/domain/repository"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB is the subset of pgxpool.Pool the storage relies on. Keeping it narrow
// lets tests substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   DB
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type walletRepository struct {
	storage *Storage
}

type transactionRepository struct {
	storage *Storage
}

type tokenRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

// New creates storage, connects the pool and applies pending migrations.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &Storage{pool: pool, logger: logger}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) { _ = db.Close() }(db)

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Wallets() repository.WalletRepository {
	return &walletRepository{storage: s}
}

func (s *Storage) Transactions() repository.TransactionRepository {
	return &transactionRepository{storage: s}
}

func (s *Storage) Tokens() repository.TokenRepository {
	return &tokenRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, mapStoreError(err)
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapStoreError(err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapStoreError(err)
	}
	return &u, nil
}

// --- WalletRepository implementation ---

func (r *walletRepository) GetByUserID(ctx context.Context, userID int64) (*model.Wallet, error) {
	const query = `SELECT id, user_id, balance, updated_at FROM wallets WHERE user_id=$1`
	var w model.Wallet
	err := r.storage.pool.QueryRow(ctx, query, userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapStoreError(err)
	}
	return &w, nil
}

// --- TransactionRepository implementation ---

func (r *transactionRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int, error) {
	const countQuery = `SELECT COUNT(*) FROM transactions WHERE user_id=$1`
	var total int
	if err := r.storage.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, mapStoreError(err)
	}

	const listQuery = `SELECT id, user_id, type, amount, balance_before, balance_after, status, partner_id, order_id, created_at, completed_at
                       FROM transactions WHERE user_id=$1
                       ORDER BY created_at DESC, id DESC
                       LIMIT $2 OFFSET $3`
	offset := (page - 1) * pageSize
	rows, err := r.storage.pool.Query(ctx, listQuery, userID, pageSize, offset)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.BalanceBefore, &t.BalanceAfter, &t.Status, &t.PartnerID, &t.OrderID, &t.CreatedAt, &t.CompletedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapStoreError(err)
	}
	return result, total, nil
}

// --- TokenRepository implementation ---

func (r *tokenRepository) Create(ctx context.Context, token *model.RedemptionToken) error {
	const query = `INSERT INTO redemption_tokens (code, user_id, issued_at, expires_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.storage.pool.Exec(ctx, query, token.Code, token.UserID, token.IssuedAt, token.ExpiresAt); err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return mapStoreError(err)
	}
	return nil
}

func (r *tokenRepository) GetByCode(ctx context.Context, code string) (*model.RedemptionToken, error) {
	const query = `SELECT code, user_id, issued_at, expires_at, redeemed, redeemed_order_id FROM redemption_tokens WHERE code=$1`
	var t model.RedemptionToken
	err := r.storage.pool.QueryRow(ctx, query, code).Scan(&t.Code, &t.UserID, &t.IssuedAt, &t.ExpiresAt, &t.Redeemed, &t.RedeemedOrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrTokenInvalid
		}
		return nil, mapStoreError(err)
	}
	return &t, nil
}

func (r *tokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM redemption_tokens WHERE expires_at < $1`
	tag, err := r.storage.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return tag.RowsAffected(), nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, partner_id, original_amount, discount_amount, cashback_amount, final_amount, COALESCE(idempotency_key, ''), status, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.PartnerID, &o.OriginalAmount, &o.DiscountAmount, &o.CashbackAmount, &o.FinalAmount, &o.IdempotencyKey, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, mapStoreError(err)
	}
	return &o, nil
}

func (r *orderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE idempotency_key=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, key))
}

func (r *orderRepository) ReleaseKeysBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	// The ledger is the audit trail; stale orders lose only their key so the
	// unique constraint stops accumulating dead entries.
	const query = `UPDATE orders SET idempotency_key=NULL
                   WHERE idempotency_key IS NOT NULL AND created_at < $1 AND status IN ('completed', 'failed')`
	tag, err := r.storage.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return tag.RowsAffected(), nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) Apply(ctx context.Context, entry model.LedgerEntry) (*model.Transaction, error) {
	var txn *model.Transaction
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		txn, err = r.storage.applyEntryTx(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return txn, nil
}

func (r *ledgerRepository) ExecuteRedemption(ctx context.Context, cmd model.RedemptionCommand) (*model.RedemptionOutcome, error) {
	var outcome *model.RedemptionOutcome
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		ord := cmd.Order

		const insertQuery = `INSERT INTO orders (id, user_id, partner_id, original_amount, discount_amount, cashback_amount, final_amount, idempotency_key, status)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                             ON CONFLICT (idempotency_key) DO NOTHING`
		tag, err := tx.Exec(ctx, insertQuery, ord.ID, ord.UserID, ord.PartnerID, ord.OriginalAmount, ord.DiscountAmount, ord.CashbackAmount, ord.FinalAmount, ord.IdempotencyKey, model.OrderPending)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// Another request with the same key won the race. Return its
			// order instead of failing.
			query := `SELECT ` + orderColumns + ` FROM orders WHERE idempotency_key=$1`
			existing, err := scanOrder(tx.QueryRow(ctx, query, ord.IdempotencyKey))
			if err != nil {
				return err
			}
			outcome = &model.RedemptionOutcome{Order: existing}
			return nil
		}

		if err := claimToken(ctx, tx, cmd.TokenCode, ord.ID); err != nil {
			return err
		}

		if ord.FinalAmount.IsPositive() {
			payment := model.LedgerEntry{
				UserID:    ord.UserID,
				Type:      model.TransactionPayment,
				Amount:    ord.FinalAmount,
				PartnerID: &ord.PartnerID,
				OrderID:   &ord.ID,
			}
			if _, err := r.storage.applyEntryTx(ctx, tx, payment); err != nil {
				return err
			}
		}
		if ord.CashbackAmount.IsPositive() {
			bonus := model.LedgerEntry{
				UserID:    ord.UserID,
				Type:      model.TransactionBonus,
				Amount:    ord.CashbackAmount,
				PartnerID: &ord.PartnerID,
				OrderID:   &ord.ID,
			}
			if _, err := r.storage.applyEntryTx(ctx, tx, bonus); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, model.OrderCompleted, ord.ID); err != nil {
			return err
		}
		ord.Status = model.OrderCompleted

		outcome = &model.RedemptionOutcome{Order: &ord, Created: true}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return outcome, nil
}

// claimToken is the serialization point for concurrent redemptions of the
// same token: the conditional update lets exactly one transaction through.
func claimToken(ctx context.Context, tx pgx.Tx, code string, orderID uuid.UUID) error {
	const query = `UPDATE redemption_tokens SET redeemed=TRUE, redeemed_order_id=$1
                   WHERE code=$2 AND redeemed=FALSE AND expires_at > NOW()`
	tag, err := tx.Exec(ctx, query, orderID, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var redeemed bool
	var expiresAt time.Time
	err = tx.QueryRow(ctx, `SELECT redeemed, expires_at FROM redemption_tokens WHERE code=$1`, code).Scan(&redeemed, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrTokenInvalid
	}
	if err != nil {
		return err
	}
	if redeemed {
		return domainErrors.ErrTokenRedeemed
	}
	return domainErrors.ErrTokenExpired
}

func (s *Storage) applyEntryTx(ctx context.Context, tx pgx.Tx, entry model.LedgerEntry) (*model.Transaction, error) {
	credit := entry.Type.Credit()

	var walletID int64
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT id, balance FROM wallets WHERE user_id=$1 FOR UPDATE`, entry.UserID).Scan(&walletID, &balance)
	if errors.Is(err, pgx.ErrNoRows) {
		if !credit {
			return nil, domainErrors.ErrInsufficientBalance
		}
		// Wallets are created lazily on first credit.
		err = tx.QueryRow(ctx, `INSERT INTO wallets (user_id, balance) VALUES ($1, 0) RETURNING id, balance`, entry.UserID).Scan(&walletID, &balance)
	}
	if err != nil {
		return nil, err
	}

	before := balance
	var after decimal.Decimal
	if credit {
		after = before.Add(entry.Amount)
	} else {
		after = before.Sub(entry.Amount)
		if after.IsNegative() {
			return nil, domainErrors.ErrInsufficientBalance
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance=$1, updated_at=NOW() WHERE id=$2`, after, walletID); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		UserID:        entry.UserID,
		Type:          entry.Type,
		Amount:        entry.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        model.TransactionCompleted,
		PartnerID:     entry.PartnerID,
		OrderID:       entry.OrderID,
	}
	const insertTxn = `INSERT INTO transactions (user_id, type, amount, balance_before, balance_after, status, partner_id, order_id, completed_at)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
                       RETURNING id, created_at, completed_at`
	err = tx.QueryRow(ctx, insertTxn, txn.UserID, txn.Type, txn.Amount, txn.BalanceBefore, txn.BalanceAfter, txn.Status, txn.PartnerID, txn.OrderID).
		Scan(&txn.ID, &txn.CreatedAt, &txn.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Pool exposes raw connection pool for advanced use.
func (s *Storage) Pool() DB {
	return s.pool
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapStoreError tags retryable storage failures so the orchestrator can
// distinguish them from semantic errors.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03", "57014":
			return fmt.Errorf("%w: %v", domainErrors.ErrTransientStore, err)
		}
		return err
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", domainErrors.ErrTransientStore, err)
	}
	return err
}
