package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "casenotes/pkg/domain-errors"
	"casenotes/pkg/requestcontext"
)

// Claims carries the caller identity embedded in access tokens. UserID is
// the stable identifier recorded as create_user_id; when a token carries no
// user_id claim the subject is used instead.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTService handles JWT creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
}

func NewJWTService(signingKey string, issuer string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// GenerateToken signs a token for the given caller. Used by tests and
// tooling; production tokens come from the external auth service.
func (s *JWTService) GenerateToken(user requestcontext.User, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Name:   user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a token, returning the caller identity.
func (s *JWTService) ValidateToken(tokenString string) (requestcontext.User, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return requestcontext.User{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return requestcontext.User{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return requestcontext.User{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	user := requestcontext.User{
		ID:          claims.UserID,
		Username:    claims.Subject,
		DisplayName: claims.Name,
	}
	// Tokens issued without an explicit user_id claim identify the caller
	// by subject alone.
	if user.ID == "" {
		user.ID = claims.Subject
	}
	if user.ID == "" {
		return requestcontext.User{}, dErrors.New(dErrors.CodeUnauthorized, "token carries no caller identity")
	}
	return user, nil
}
