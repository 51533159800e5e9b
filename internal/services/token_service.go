package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/PvUtrix/shked-sub003/internal/errors"
	"github.com/PvUtrix/shked-sub003/internal/logger"
	"github.com/PvUtrix/shked-sub003/internal/models"
)

const (
	// DefaultTokenTTL is how long an issued link token stays redeemable.
	DefaultTokenTTL = 15 * time.Minute

	tokenLength = 6
	// Ambiguous glyphs (0, O, 1, I) are left out.
	tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	tokenDigits   = "23456789"
	maxIssueTries = 5
)

// tokenService handles link token issuance and redemption.
type tokenService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a new TokenServicer. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(db *gorm.DB, ttl time.Duration) TokenServicer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &tokenService{
		db:  db,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Issue creates a fresh token for the user. Outstanding tokens of the same
// user are removed first so only the latest one validates.
func (s *tokenService) Issue(userID string) (*models.LinkToken, error) {
	if userID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user id is required")
	}

	var issued *models.LinkToken
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("user_id = ? AND purpose = ? AND consumed_at IS NULL", userID, models.LinkPurposeMessenger).
			Delete(&models.LinkToken{}).Error; err != nil {
			return err
		}

		for attempt := 0; attempt < maxIssueTries; attempt++ {
			value, err := generateToken()
			if err != nil {
				return err
			}

			var taken int64
			if err := tx.Unscoped().Model(&models.LinkToken{}).Where("token = ?", value).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				continue
			}

			issued = &models.LinkToken{
				UserID:    userID,
				Purpose:   models.LinkPurposeMessenger,
				Token:     value,
				ExpiresAt: s.now().Add(s.ttl),
			}
			return tx.Create(issued).Error
		}
		return errors.New("could not generate a unique link token")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("link token issued", "user_id", userID, "expires_at", issued.ExpiresAt)
	return issued, nil
}

// Validate reports whether the token belongs to the user and is still redeemable.
func (s *tokenService) Validate(userID, token string) bool {
	var count int64
	err := s.db.Model(&models.LinkToken{}).
		Where("user_id = ? AND token = ? AND purpose = ? AND consumed_at IS NULL AND expires_at > ?",
			userID, normalizeToken(token), models.LinkPurposeMessenger, s.now()).
		Count(&count).Error
	if err != nil {
		logger.Get().Errorw("failed to validate link token", "error", err, "user_id", userID)
		return false
	}
	return count == 1
}

// Consume marks the token used. Check and mark happen in one UPDATE so two
// racing redemptions cannot both win.
func (s *tokenService) Consume(userID, token string) bool {
	return consumeToken(s.db, userID, token, s.now())
}

func consumeToken(db *gorm.DB, userID, token string, now time.Time) bool {
	result := db.Model(&models.LinkToken{}).
		Where("user_id = ? AND token = ? AND purpose = ? AND consumed_at IS NULL AND expires_at > ?",
			userID, normalizeToken(token), models.LinkPurposeMessenger, now).
		Update("consumed_at", now)
	if result.Error != nil {
		logger.Get().Errorw("failed to consume link token", "error", result.Error, "user_id", userID)
		return false
	}
	return result.RowsAffected == 1
}

// Lookup resolves a bare token value to its record.
func (s *tokenService) Lookup(token string) (*models.LinkToken, error) {
	return lookupToken(s.db, token, s.now())
}

func lookupToken(db *gorm.DB, token string, now time.Time) (*models.LinkToken, error) {
	value := normalizeToken(token)
	if value == "" {
		return nil, apperrors.ErrTokenNotFound
	}

	var lt models.LinkToken
	if err := db.Where("token = ? AND purpose = ?", value, models.LinkPurposeMessenger).First(&lt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if lt.IsConsumed() {
		return nil, apperrors.ErrTokenAlreadyUsed
	}
	if lt.IsExpired(now) {
		return nil, apperrors.ErrTokenExpired
	}
	return &lt, nil
}

// PurgeExpired hard-deletes tokens that expired or were consumed before the cutoff.
func (s *tokenService) PurgeExpired(before time.Time) (int64, error) {
	result := s.db.Unscoped().
		Where("expires_at <= ? OR consumed_at <= ?", before.UTC(), before.UTC()).
		Delete(&models.LinkToken{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

func normalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// generateToken draws until the value carries at least one digit, so a code
// pasted as bare text never reads like an ordinary word.
func generateToken() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, tokenLength)
	for {
		for i := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", err
			}
			buf[i] = tokenAlphabet[n.Int64()]
		}
		if strings.ContainsAny(string(buf), tokenDigits) {
			return string(buf), nil
		}
	}
}
