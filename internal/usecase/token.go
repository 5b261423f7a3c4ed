package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"time"

	domainErrors "github.com/yessgo/yesspay/internal/domain/errors"
	"github.com/yessgo/yesspay/internal/domain/model"
	"github.com/yessgo/yesspay/internal/domain/repository"
)

// tokenCodeBytes gives 160 bits of entropy per code.
const tokenCodeBytes = 20

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TokenUseCase issues and validates single-use redemption tokens.
type TokenUseCase struct {
	tokens repository.TokenRepository
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenUseCase constructs TokenUseCase with the given validity window.
func NewTokenUseCase(tokens repository.TokenRepository, ttl time.Duration) *TokenUseCase {
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}
	return &TokenUseCase{tokens: tokens, ttl: ttl, now: time.Now}
}

// Issue mints an unguessable redemption code bound to the user and persists
// it in active state.
func (u *TokenUseCase) Issue(ctx context.Context, userID int64) (*model.RedemptionToken, error) {
	if userID <= 0 {
		return nil, domainErrors.ErrUnauthenticated
	}

	code, err := newTokenCode()
	if err != nil {
		return nil, err
	}

	now := u.now()
	token := &model.RedemptionToken{
		Code:      code,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(u.ttl),
	}
	if err := u.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Validate checks the token without mutating it. The redeemed flag is
// flipped only inside the redemption transaction, so two concurrent
// validations may both see an active token; the conditional claim there
// resolves the race.
func (u *TokenUseCase) Validate(ctx context.Context, code string) (*model.RedemptionToken, error) {
	if code == "" {
		return nil, domainErrors.ErrTokenInvalid
	}
	token, err := u.tokens.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if token.Redeemed {
		return nil, domainErrors.ErrTokenRedeemed
	}
	if token.Expired(u.now()) {
		return nil, domainErrors.ErrTokenExpired
	}
	return token, nil
}

func newTokenCode() (string, error) {
	buf := make([]byte, tokenCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return codeEncoding.EncodeToString(buf), nil
}
