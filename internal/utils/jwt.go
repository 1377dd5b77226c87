package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthErrorKind classifies token verification failures. The kinds are
// distinguished for logging and tests; clients see a uniform 401.
type AuthErrorKind int

const (
	AuthErrMissingToken AuthErrorKind = iota
	AuthErrMalformed
	AuthErrExpired
	AuthErrInvalidSignature
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthErrMissingToken:
		return "missing token"
	case AuthErrMalformed:
		return "malformed token"
	case AuthErrExpired:
		return "expired token"
	case AuthErrInvalidSignature:
		return "invalid signature"
	}
	return "unknown"
}

// AuthError is a token verification failure with its classified kind.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// JWTClaims custom claims for JWT
type JWTClaims struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey       string
	expirationHours int64
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, expirationHours int64) *JWTUtil {
	return &JWTUtil{secretKey: secretKey, expirationHours: expirationHours}
}

// GenerateToken generates a signed session token carrying identity, role and
// the user's current token epoch. Returns the token and its expiry.
func (ju *JWTUtil) GenerateToken(userID int, username, role string, tokenVersion int) (string, time.Time, error) {
	expiry := time.Now().Add(time.Hour * time.Duration(ju.expirationHours))
	claims := &JWTClaims{
		UserID:       userID,
		Username:     username,
		Role:         role,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   strconv.Itoa(userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiry, nil
}

// ValidateToken validates the token and returns its claims, or an *AuthError
// classifying why verification failed.
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, &AuthError{Kind: AuthErrMissingToken}
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	})
	if err != nil {
		return nil, &AuthError{Kind: classifyJWTError(err), Err: err}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &AuthError{Kind: AuthErrMalformed, Err: errors.New("invalid token claims")}
	}
	return claims, nil
}

func classifyJWTError(err error) AuthErrorKind {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return AuthErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return AuthErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return AuthErrMalformed
	default:
		// Unexpected signing methods land here; treat as a signature problem.
		return AuthErrInvalidSignature
	}
}
