// Package auth provides password hashing and token utilities.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token minted for one purpose is rejected by parsers
// expecting the other.
const (
	PurposeSession     = "session"
	PurposeEmailVerify = "email_verify"
)

var (
	// ErrInvalidToken indicates the token is malformed, expired, or signed
	// with a different secret.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongPurpose indicates a valid token was presented to the wrong parser.
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// Claims carries the registered claims plus application claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"uid"`
	Purpose string `json:"purpose"`
	Email   string `json:"email,omitempty"`
}

// TokenManager issues and verifies HS256 JWTs for sessions and
// email-verification links.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	verifyTTL  time.Duration
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret []byte, sessionTTL, verifyTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     secret,
		sessionTTL: sessionTTL,
		verifyTTL:  verifyTTL,
	}
}

// NewSessionToken issues a session token for the given user.
func (m *TokenManager) NewSessionToken(userID string) (string, error) {
	return m.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:  userID,
		Purpose: PurposeSession,
	})
}

// NewEmailVerifyToken issues a time-limited token binding a user to the
// email address being verified.
func (m *TokenManager) NewEmailVerifyToken(userID, email string) (string, error) {
	return m.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.verifyTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:  userID,
		Purpose: PurposeEmailVerify,
		Email:   email,
	})
}

// ParseSessionToken verifies a session token and returns the user ID.
func (m *TokenManager) ParseSessionToken(tokenString string) (string, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Purpose != PurposeSession {
		return "", ErrWrongPurpose
	}
	return claims.UserID, nil
}

// ParseEmailVerifyToken verifies an email-verification token and returns
// the user ID and the email it was issued for.
func (m *TokenManager) ParseEmailVerifyToken(tokenString string) (userID, email string, err error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.Purpose != PurposeEmailVerify {
		return "", "", ErrWrongPurpose
	}
	return claims.UserID, claims.Email, nil
}

func (m *TokenManager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
