package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var tokenSigningMethod = jwt.SigningMethodHS256

// Purposes namespace the signed tokens so an activation link can never be
// replayed against the password-reset flow and vice versa.
const (
	PurposeActivate      = "activate"
	PurposePasswordReset = "password-reset"
)

// ErrTokenInvalid covers bad signatures, malformed payloads, and
// purpose/issuer mismatches. ErrTokenExpired means the signature checked out
// but the token is older than the caller's max age; callers surface the two
// as distinct user-facing notices.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type tokenClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Signer issues and verifies purpose-scoped vendor tokens.
type Signer struct {
	cfg config.TokenConfig
	now func() time.Time
}

// NewSigner builds a Signer from the token configuration.
func NewSigner(cfg config.TokenConfig) (*Signer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("token issuer is required")
	}
	return &Signer{cfg: cfg, now: time.Now}, nil
}

// Sign mints a compact signed token carrying the vendor id under the given
// purpose. The token records its issue time; expiry is enforced by Verify
// against the caller's max age, so an already-issued link's lifetime can be
// tuned without reissuing.
func (s *Signer) Sign(vendorID uint, purpose string) (string, error) {
	if purpose == "" {
		return "", fmt.Errorf("token purpose is required")
	}

	now := s.now().UTC()
	claims := tokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.cfg.Issuer,
			Subject:  strconv.FormatUint(uint64(vendorID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(tokenSigningMethod, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and purpose, then the age, and returns the
// vendor id the token was minted for.
func (s *Signer) Verify(tokenString, purpose string, maxAge time.Duration) (uint, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(),
		jwt.WithValidMethods([]string{tokenSigningMethod.Alg()}),
	)
	_, err := parser.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != tokenSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(s.cfg.Secret), nil
		},
	)
	if err != nil {
		return 0, ErrTokenInvalid
	}

	if claims.Issuer != s.cfg.Issuer || claims.Purpose != purpose {
		return 0, ErrTokenInvalid
	}
	if claims.IssuedAt == nil {
		return 0, ErrTokenInvalid
	}

	vendorID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || vendorID == 0 {
		return 0, ErrTokenInvalid
	}

	if maxAge > 0 && s.now().UTC().Sub(claims.IssuedAt.Time) > maxAge {
		return 0, ErrTokenExpired
	}

	return uint(vendorID), nil
}
