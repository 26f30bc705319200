package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "github.com/ndlib/mellon-blueprints/pkg/errors"
)

// JWTConfig configures token validation for the HTTP surface.
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  string
}

// JWTValidator validates bearer tokens and extracts the caller identity.
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a validator; a secret is required.
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	return &JWTValidator{config: config}, nil
}

// Validate parses and verifies a token, returning the caller identity.
func (v *JWTValidator) Validate(tokenString string) (UserContext, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if v.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		options = append(options, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, options...)
	if err != nil {
		return UserContext{}, pkgerrors.NewUnauthorizedError("invalid token").WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserContext{}, pkgerrors.NewUnauthorizedError("unexpected token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return UserContext{}, pkgerrors.NewUnauthorizedError("token has no subject")
	}

	user := UserContext{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if rawGroups, ok := claims["groups"].([]interface{}); ok {
		for _, g := range rawGroups {
			if s, ok := g.(string); ok {
				user.Groups = append(user.Groups, s)
			}
		}
	}
	return user, nil
}
