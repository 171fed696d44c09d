// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"warden/config"
	"warden/internal/domain/service"
)

// Token lifetimes. Access tokens are short because they cannot be revoked;
// everything longer-lived goes through the revocable refresh-token ledger.
const (
	accessTokenTTL        = 15 * time.Minute
	refreshTokenTTL       = 7 * 24 * time.Hour
	passwordResetTokenTTL = time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// A single HMAC secret signs all token kinds; the type claim keeps them
// from being interchangeable.
type jwtService struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.JWT == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret:     cfg.SecretKey.JWT,
		accessTTL:  accessTokenTTL,
		refreshTTL: refreshTokenTTL,
		resetTTL:   passwordResetTokenTTL,
	}, nil
}

// GenerateAccessToken creates a short-lived token carrying the principal's id and email.
func (s *jwtService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.generateToken(userID, email, service.TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken creates the long-lived token whose signed string is
// stored verbatim as the ledger key.
func (s *jwtService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.generateToken(userID, "", service.TokenTypeRefresh, s.refreshTTL)
}

// GeneratePasswordResetToken creates a reset-purpose token. The discriminator
// prevents access or refresh tokens being replayed as reset credentials.
func (s *jwtService) GeneratePasswordResetToken(userID uuid.UUID) (string, error) {
	return s.generateToken(userID, "", service.TokenTypePasswordReset, s.resetTTL)
}

// ValidateToken verifies signature and expiry. Verification is pure: no
// external state is consulted, so a revoked refresh token still validates
// here and must additionally be checked against the ledger.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(service.ErrTokenExpired, "failed to validate token")
		}

		return nil, errors.Wrap(service.ErrTokenInvalid, "failed to parse token structure")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.Wrap(service.ErrTokenInvalid, "unexpected token claims")
	}

	return claimsFromMap(mapClaims)
}

// RefreshTokenDuration returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	// The jti keeps tokens issued within the same second distinct; refresh
	// tokens are ledger keys, so two logins must never produce the same
	// signed string.
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"type": tokenType,
	}
	// Only access tokens carry the email; ledger and reset tokens identify
	// the subject by id alone.
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

func claimsFromMap(mapClaims jwt.MapClaims) (*service.Claims, error) {
	sub, err := mapClaims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, "subject missing from token")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenInvalid, "subject is not a valid user id")
	}

	claims := &service.Claims{UserID: userID}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if tokenType, ok := mapClaims["type"].(string); ok {
		claims.Type = tokenType
	}

	return claims, nil
}
