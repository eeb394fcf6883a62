package middleware

import (
	"errors"
	"strings"
	"time"

	"murmur/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Auth issues and validates JWT bearer tokens. Secrets come from
// injected configuration; the previous secret, when configured, is
// still accepted for verification so rotation does not log everyone
// out.
type Auth struct {
	cfg *config.Config
}

// NewAuth creates an Auth using the given configuration.
func NewAuth(cfg *config.Config) *Auth {
	return &Auth{cfg: cfg}
}

// IssueToken signs a token whose subject is the user id.
func (a *Auth) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(a.cfg.JWTExpiryMinutes) * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.JWTSecret))
}

// ParseToken validates a token against the current secret, falling back
// to the previous secret if one is configured. Returns the user id from
// the subject claim.
func (a *Auth) ParseToken(tokenString string) (string, error) {
	secrets := []string{a.cfg.JWTSecret}
	if a.cfg.JWTPreviousSecret != "" {
		secrets = append(secrets, a.cfg.JWTPreviousSecret)
	}

	var lastErr error
	for _, secret := range secrets {
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			lastErr = err
			continue
		}
		if !token.Valid {
			lastErr = errors.New("invalid token")
			continue
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return "", errors.New("invalid token claims")
		}
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return "", errors.New("missing subject claim")
		}
		return sub, nil
	}
	return "", lastErr
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Required enforces authentication; the resolved user id is stored in
// c.Locals("userID").
func (a *Auth) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		userID, err := a.ParseToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// Optional resolves a principal when a valid token is presented but
// lets anonymous requests through. Invalid tokens are treated as
// anonymous, matching the optional-auth contract.
func (a *Auth) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if userID, err := a.ParseToken(token); err == nil {
				c.Locals("userID", userID)
			}
		}
		return c.Next()
	}
}
