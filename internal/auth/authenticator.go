// Package auth verifies admin credentials and issues session tokens for
// the dashboard.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is the single failure returned for any login
// problem. Unknown user and wrong password are indistinguishable to the
// caller.
var ErrInvalidCredentials = errors.New("invalid username or password")

type credential struct {
	salt string
	hash []byte
}

// Authenticator checks logins against a static allow-list and mints
// session tokens. Passwords are stored salted and hashed, never in
// clear text.
type Authenticator struct {
	users      map[string]credential
	secret     []byte
	sessionTTL time.Duration
}

// NewAuthenticator parses the allow-list. Each entry has the shape
// "username:salt:sha256hex" where the digest covers salt+password.
func NewAuthenticator(entries []string, jwtSecret string, sessionTTL time.Duration) (*Authenticator, error) {
	if jwtSecret == "" {
		return nil, errors.New("auth: jwt secret required")
	}
	users := make(map[string]credential, len(entries))
	for _, entry := range entries {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("auth: malformed credential entry for %q", firstPart(entry))
		}
		hash, err := hex.DecodeString(parts[2])
		if err != nil || len(hash) != sha256.Size {
			return nil, fmt.Errorf("auth: bad digest for user %q", parts[0])
		}
		users[parts[0]] = credential{salt: parts[1], hash: hash}
	}
	return &Authenticator{
		users:      users,
		secret:     []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}, nil
}

func firstPart(entry string) string {
	if i := strings.IndexByte(entry, ':'); i >= 0 {
		return entry[:i]
	}
	return entry
}

// HashPassword produces the digest stored in an allow-list entry. Used
// by the credential generation tooling, never at request time.
func HashPassword(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

// Authenticate verifies the credentials with a constant-time digest
// compare and returns a signed session token.
func (a *Authenticator) Authenticate(username, password string) (string, error) {
	cred, ok := a.users[username]
	if !ok {
		// Burn a hash anyway so a missing user costs the same as a
		// wrong password.
		sha256.Sum256([]byte(password))
		return "", ErrInvalidCredentials
	}

	sum := sha256.Sum256([]byte(cred.salt + password))
	if subtle.ConstantTimeCompare(sum[:], cred.hash) != 1 {
		return "", ErrInvalidCredentials
	}
	return a.issueToken(username)
}

// SessionClaims are the JWT claims carried by an admin session token.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (a *Authenticator) issueToken(username string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    "leadgen-platform",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (a *Authenticator) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
