package auth

import (
	"errors"  // Error values
	"strconv" // User ID to subject conversion
	"time"    // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken is returned for malformed, forged or expired tokens
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenIssuer signs bearer tokens for a user and recovers the user from them
type TokenIssuer interface {
	Issue(userID uint) (string, error)
	Verify(token string) (uint, error)
}

// Claims is the JWT payload
type Claims struct {
	UserID               uint `json:"user_id"` // Custom claim for user ID
	jwt.RegisteredClaims      // Standard JWT claims
}

// JWTIssuer issues HS256 tokens
type JWTIssuer struct {
	secret []byte           // Signing secret
	ttl    time.Duration    // Token lifetime, zero means tokens never expire
	now    func() time.Time // Clock, replaceable in tests
}

// NewJWTIssuer returns a JWTIssuer signing with secret. A zero ttl issues tokens without an exp claim.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a JWT token for a given user ID
func (j *JWTIssuer) Issue(userID uint) (string, error) {
	now := j.now()
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(userID), 10), // Identity claim
			IssuedAt: jwt.NewNumericDate(now),                 // Issued at current time
		},
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl)) // Token expires after ttl
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(j.secret)                        // Sign the token with the secret
}

// Verify parses and validates a JWT token string and returns its user ID
func (j *JWTIssuer) Verify(tokenStr string) (uint, error) {
	keyFunc := func(*jwt.Token) (any, error) {
		return j.secret, nil // Return the secret key for validation
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
