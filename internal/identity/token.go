package identity

import (
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims is the subset of the identity token the handlers care about.
type Claims struct {
	UID       string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// IssueToken signs an identity token for id.
func (s *Service) IssueToken(id Identity) (string, error) {
	claims := jwt.MapClaims{
		"uid":   id.UID,
		"email": id.Email,
		"jti":   uuid.NewString(),
		"exp":   s.now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Middleware validates the bearer token and rejects signed-out tokens.
func (s *Service) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: s.secret,
		SuccessHandler: func(c *fiber.Ctx) error {
			claims, err := FromCtx(c)
			if err != nil || s.Revoked(claims.TokenID) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

// FromCtx extracts the claims stored by the jwt middleware in
// c.Locals("user").
func FromCtx(c *fiber.Ctx) (Claims, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return Claims{}, fiber.ErrUnauthorized
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fiber.ErrUnauthorized
	}
	uid, _ := mc["uid"].(string)
	if uid == "" {
		return Claims{}, fiber.ErrUnauthorized
	}

	claims := Claims{UID: uid}
	claims.Email, _ = mc["email"].(string)
	claims.TokenID, _ = mc["jti"].(string)
	switch exp := mc["exp"].(type) {
	case float64:
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	case int64:
		claims.ExpiresAt = time.Unix(exp, 0)
	}
	return claims, nil
}
