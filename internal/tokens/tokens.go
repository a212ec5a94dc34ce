package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mussacharles60/hospital-booking/internal/config"
	"github.com/mussacharles60/hospital-booking/internal/models"
)

// ErrInvalidToken is returned for every verification failure: missing,
// malformed, expired and wrong-signature tokens are indistinguishable to
// callers so the API gives no oracle on why a token was rejected.
var ErrInvalidToken = errors.New("invalid token")

// Kind selects the signing secret and TTL used for a token.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	KindRecover Kind = "password_recover"
	KindSignup  Kind = "doctor_signup_request"
)

// Claims represents the JWT claims carried by every token kind.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed, expiring tokens. Verification is
// stateless; binding a token's subject to a live account is the caller's
// job.
type Service struct {
	cfg config.TokenConfig
}

// NewService creates a token Service from the token configuration.
func NewService(cfg config.TokenConfig) *Service {
	return &Service{cfg: cfg}
}

// Issue signs a token of the given kind for the account.
func (s *Service) Issue(kind Kind, userID string, role models.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl(kind))),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret(kind))
}

// Verify parses and validates a token of the given kind and returns its
// claims. Any failure yields ErrInvalidToken.
func (s *Service) Verify(kind Kind, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret(kind), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *Service) secret(kind Kind) []byte {
	switch kind {
	case KindRefresh:
		return []byte(s.cfg.RefreshSecret)
	case KindRecover:
		return []byte(s.cfg.RecoverSecret)
	case KindSignup:
		return []byte(s.cfg.SignupSecret)
	default:
		return []byte(s.cfg.AccessSecret)
	}
}

func (s *Service) ttl(kind Kind) time.Duration {
	switch kind {
	case KindRefresh:
		return s.cfg.RefreshTTL
	case KindRecover:
		return s.cfg.RecoverTTL
	case KindSignup:
		return s.cfg.SignupTTL
	default:
		return s.cfg.AccessTTL
	}
}
