package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
	"github.com/yessgo/yesspay/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// WalletRepositoryStub keeps wallets keyed by owner.
type WalletRepositoryStub struct {
	Wallets map[int64]*model.Wallet
	Err     error
}

// NewWalletRepositoryStub constructs stub repository with initialized map.
func NewWalletRepositoryStub() *WalletRepositoryStub {
	return &WalletRepositoryStub{Wallets: make(map[int64]*model.Wallet)}
}

// Put stores wallet for the given user with the supplied balance.
func (s *WalletRepositoryStub) Put(userID int64, balance decimal.Decimal) {
	if s.Wallets == nil {
		s.Wallets = make(map[int64]*model.Wallet)
	}
	s.Wallets[userID] = &model.Wallet{ID: userID, UserID: userID, Balance: balance, UpdatedAt: time.Now()}
}

// GetByUserID fetches wallet or returns not found.
func (s *WalletRepositoryStub) GetByUserID(ctx context.Context, userID int64) (*model.Wallet, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if wallet, ok := s.Wallets[userID]; ok {
		return wallet, nil
	}
	return nil, domainErrors.ErrNotFound
}

// TokenRepositoryStub keeps redemption tokens in-memory.
type TokenRepositoryStub struct {
	Tokens map[string]*model.RedemptionToken
	Err    error
}

// NewTokenRepositoryStub constructs stub repository with initialized map.
func NewTokenRepositoryStub() *TokenRepositoryStub {
	return &TokenRepositoryStub{Tokens: make(map[string]*model.RedemptionToken)}
}

// Create stores the token keyed by code.
func (s *TokenRepositoryStub) Create(ctx context.Context, token *model.RedemptionToken) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Tokens == nil {
		s.Tokens = make(map[string]*model.RedemptionToken)
	}
	s.Tokens[token.Code] = token
	return nil
}

// GetByCode fetches token or returns token invalid.
func (s *TokenRepositoryStub) GetByCode(ctx context.Context, code string) (*model.RedemptionToken, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if token, ok := s.Tokens[code]; ok {
		return token, nil
	}
	return nil, domainErrors.ErrTokenInvalid
}

// DeleteExpiredBefore removes tokens whose validity ended before cutoff.
func (s *TokenRepositoryStub) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	var removed int64
	for code, token := range s.Tokens {
		if token.ExpiresAt.Before(cutoff) {
			delete(s.Tokens, code)
			removed++
		}
	}
	return removed, nil
}

// OrderRepositoryStub keeps orders keyed by idempotency key. Access is
// mutex-guarded so tests can swap orders concurrently with the poll loop.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order
	Err    error
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Put stores the order under its idempotency key.
func (s *OrderRepositoryStub) Put(order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	s.Orders[order.IdempotencyKey] = order
}

// GetByIdempotencyKey fetches order or returns not found.
func (s *OrderRepositoryStub) GetByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if order, ok := s.Orders[key]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ReleaseKeysBefore clears keys of terminal orders older than cutoff.
func (s *OrderRepositoryStub) ReleaseKeysBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var released int64
	for key, order := range s.Orders {
		if order.Terminal() && order.CreatedAt.Before(cutoff) {
			order.IdempotencyKey = ""
			delete(s.Orders, key)
			released++
		}
	}
	return released, nil
}

// TransactionRepositoryStub keeps per-user transaction history.
type TransactionRepositoryStub struct {
	ByUser map[int64][]model.Transaction
	Err    error
}

// NewTransactionRepositoryStub constructs stub repository with initialized map.
func NewTransactionRepositoryStub() *TransactionRepositoryStub {
	return &TransactionRepositoryStub{ByUser: make(map[int64][]model.Transaction)}
}

// ListByUser pages through stored transactions, newest first ordering is the
// caller's responsibility.
func (s *TransactionRepositoryStub) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Transaction, int, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	all := s.ByUser[userID]
	total := len(all)
	start := (page - 1) * pageSize
	if start >= total {
		return nil, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// LedgerRepositoryStub records applied entries and redemption commands. The
// default behaviour keeps running balances per user and enforces the
// non-negative invariant so usecase tests observe realistic arithmetic.
type LedgerRepositoryStub struct {
	mu       sync.Mutex
	Balances map[int64]decimal.Decimal
	Entries  []model.LedgerEntry
	Commands []model.RedemptionCommand
	NextID   int64

	ApplyFn             func(context.Context, model.LedgerEntry) (*model.Transaction, error)
	ExecuteRedemptionFn func(context.Context, model.RedemptionCommand) (*model.RedemptionOutcome, error)
}

// NewLedgerRepositoryStub constructs stub with initialized balance map.
func NewLedgerRepositoryStub() *LedgerRepositoryStub {
	return &LedgerRepositoryStub{Balances: make(map[int64]decimal.Decimal), NextID: 1}
}

// SetBalance seeds the running balance for a user.
func (s *LedgerRepositoryStub) SetBalance(userID int64, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Balances == nil {
		s.Balances = make(map[int64]decimal.Decimal)
	}
	s.Balances[userID] = balance
}

// Apply mutates the in-memory balance and returns the completed transaction.
func (s *LedgerRepositoryStub) Apply(ctx context.Context, entry model.LedgerEntry) (*model.Transaction, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(entry)
}

func (s *LedgerRepositoryStub) applyLocked(entry model.LedgerEntry) (*model.Transaction, error) {
	if s.Balances == nil {
		s.Balances = make(map[int64]decimal.Decimal)
	}
	before := s.Balances[entry.UserID]
	after := before.Add(entry.Amount)
	if !entry.Type.Credit() {
		after = before.Sub(entry.Amount)
		if after.IsNegative() {
			return nil, domainErrors.ErrInsufficientBalance
		}
	}
	s.Balances[entry.UserID] = after
	if s.NextID == 0 {
		s.NextID = 1
	}
	now := time.Now()
	tx := &model.Transaction{
		ID:            s.NextID,
		UserID:        entry.UserID,
		Type:          entry.Type,
		Amount:        entry.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        model.TransactionCompleted,
		PartnerID:     entry.PartnerID,
		OrderID:       entry.OrderID,
		CreatedAt:     now,
		CompletedAt:   &now,
	}
	s.NextID++
	s.Entries = append(s.Entries, entry)
	return tx, nil
}

// ExecuteRedemption runs the default atomic unit against in-memory state:
// one payment debit, one bonus credit, order completed.
func (s *LedgerRepositoryStub) ExecuteRedemption(ctx context.Context, cmd model.RedemptionCommand) (*model.RedemptionOutcome, error) {
	if s.ExecuteRedemptionFn != nil {
		return s.ExecuteRedemptionFn(ctx, cmd)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Commands = append(s.Commands, cmd)
	order := cmd.Order
	if order.FinalAmount.IsPositive() {
		entry := model.LedgerEntry{
			UserID:    order.UserID,
			Type:      model.TransactionPayment,
			Amount:    order.FinalAmount,
			PartnerID: &order.PartnerID,
			OrderID:   &order.ID,
		}
		if _, err := s.applyLocked(entry); err != nil {
			return nil, err
		}
	}
	if order.CashbackAmount.IsPositive() {
		entry := model.LedgerEntry{
			UserID:    order.UserID,
			Type:      model.TransactionBonus,
			Amount:    order.CashbackAmount,
			PartnerID: &order.PartnerID,
			OrderID:   &order.ID,
		}
		if _, err := s.applyLocked(entry); err != nil {
			return nil, err
		}
	}
	order.Status = model.OrderCompleted
	return &model.RedemptionOutcome{Order: &order, Created: true}, nil
}

// PolicyProviderStub serves a fixed partner policy.
type PolicyProviderStub struct {
	PolicyVal *model.PartnerPolicy
	Err       error
	PolicyFn  func(context.Context, int64) (*model.PartnerPolicy, error)
}

// Policy returns the stubbed policy for any partner.
func (s PolicyProviderStub) Policy(ctx context.Context, partnerID int64) (*model.PartnerPolicy, error) {
	if s.PolicyFn != nil {
		return s.PolicyFn(ctx, partnerID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.PolicyVal != nil {
		return s.PolicyVal, nil
	}
	return nil, domainErrors.ErrNotFound
}

// NotifierStub records delivered events.
type NotifierStub struct {
	mu     sync.Mutex
	Events []model.NotificationEvent
}

// Notify appends the event to the recorded list.
func (s *NotifierStub) Notify(event model.NotificationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

// Recorded returns a copy of the delivered events.
func (s *NotifierStub) Recorded() []model.NotificationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.NotificationEvent, len(s.Events))
	copy(out, s.Events)
	return out
}

// FactoryStub bundles repository stubs behind the factory contract.
type FactoryStub struct {
	UsersRepo        *UserRepositoryStub
	WalletsRepo      *WalletRepositoryStub
	TransactionsRepo *TransactionRepositoryStub
	TokensRepo       *TokenRepositoryStub
	OrdersRepo       *OrderRepositoryStub
	LedgerRepo       *LedgerRepositoryStub
}

// NewFactoryStub constructs the full stub set.
func NewFactoryStub() *FactoryStub {
	return &FactoryStub{
		UsersRepo:        NewUserRepositoryStub(),
		WalletsRepo:      NewWalletRepositoryStub(),
		TransactionsRepo: NewTransactionRepositoryStub(),
		TokensRepo:       NewTokenRepositoryStub(),
		OrdersRepo:       NewOrderRepositoryStub(),
		LedgerRepo:       NewLedgerRepositoryStub(),
	}
}

// Users returns the user repository stub.
func (f *FactoryStub) Users() repository.UserRepository { return f.UsersRepo }

// Wallets returns the wallet repository stub.
func (f *FactoryStub) Wallets() repository.WalletRepository { return f.WalletsRepo }

// Transactions returns the transaction repository stub.
func (f *FactoryStub) Transactions() repository.TransactionRepository { return f.TransactionsRepo }

// Tokens returns the token repository stub.
func (f *FactoryStub) Tokens() repository.TokenRepository { return f.TokensRepo }

// Orders returns the order repository stub.
func (f *FactoryStub) Orders() repository.OrderRepository { return f.OrdersRepo }

// Ledger returns the ledger repository stub.
func (f *FactoryStub) Ledger() repository.LedgerRepository { return f.LedgerRepo }

var (
	_ repository.Factory               = (*FactoryStub)(nil)
	_ repository.UserRepository        = (*UserRepositoryStub)(nil)
	_ repository.WalletRepository      = (*WalletRepositoryStub)(nil)
	_ repository.TransactionRepository = (*TransactionRepositoryStub)(nil)
	_ repository.TokenRepository       = (*TokenRepositoryStub)(nil)
	_ repository.OrderRepository       = (*OrderRepositoryStub)(nil)
	_ repository.LedgerRepository      = (*LedgerRepositoryStub)(nil)
)
