// Package token signs and verifies the session JWT carried in the auth cookie.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/config"
)

const (
	issuer     = "clinicdesk"
	defaultTTL = 12 * time.Hour
	devSecret  = "clinicdesk-dev-secret"
)

type claims struct {
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id"`
	jwt.RegisteredClaims
}

// Issuer creates and parses HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(cfg config.Config) *Issuer {
	secret := strings.TrimSpace(cfg.AuthJWTSecret)
	if secret == "" {
		secret = devSecret
	}
	ttl := defaultTTL
	if cfg.AuthTokenTTLHrs > 0 {
		ttl = time.Duration(cfg.AuthTokenTTLHrs) * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewIssuerWithClock is used by tests that need to move time.
func NewIssuerWithClock(secret string, ttl time.Duration, now func() time.Time) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: now}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

func (i *Issuer) Issue(user *domain.User) (string, time.Time, error) {
	issuedAt := i.now().UTC()
	expiresAt := issuedAt.Add(i.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:     user.Role,
		ClinicID: user.ClinicID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (i *Issuer) Parse(raw string) (*domain.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.ErrInvalidSession
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidSession
	}

	userID, err := snowflake.ParseString(parsed.Subject)
	if err != nil || userID == 0 {
		return nil, domain.ErrInvalidSession
	}
	clinicID, err := snowflake.ParseString(parsed.ClinicID)
	if err != nil || clinicID == 0 {
		return nil, domain.ErrInvalidSession
	}

	out := &domain.Claims{
		UserID:   userID,
		ClinicID: clinicID,
		Role:     parsed.Role,
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}
