package auth

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtKey is the secret used to sign tokens.
// In a production environment, this should be loaded from an environment
// variable or a secret manager.
var jwtKey = []byte("my_strong_and_long_secret_key_2026")

// CustomClaims defines the structure of the data stored inside the JWT.
// Name is the display name denormalized into realtime sender summaries.
type CustomClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a specific user. Issuance lives
// with the external authentication collaborator; this is used by dev
// tooling and tests.
func GenerateToken(userID, name string, tokenDuration time.Duration) (string, error) {
	expirationTime := time.Now().Add(tokenDuration)

	claims := &CustomClaims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "chat-hub",
		},
	}

	// HS256 (HMAC with SHA256), same as the tokens the account service mints.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken parses and validates the signature and expiration of a JWT
// string.
func ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

var _ contract.IAuthenticator = (*TokenAuthenticator)(nil)

// TokenAuthenticator adapts token validation to the authenticator contract
// the gateway consumes. It must succeed before any connection is
// registered.
type TokenAuthenticator struct{}

func NewTokenAuthenticator() *TokenAuthenticator {
	return &TokenAuthenticator{}
}

func (a *TokenAuthenticator) Authenticate(token string) (domain.Sender, error) {
	claims, err := ValidateToken(token)
	if err != nil {
		return domain.Sender{}, errors.ErrAuthenticationFailed
	}
	return domain.Sender{ID: claims.UserID, Name: claims.Name}, nil
}
