package middleware

import (
	"fmt"
	"strings"
	"upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// CallerKeyFiber is the Fiber locals key the authenticated caller lives
	// under.
	CallerKeyFiber = "Caller"
)

// tokenClaims is the shape of our session tokens.
type tokenClaims struct {
	BusinessID *int `json:"businessId,omitempty"`
	Privileged bool `json:"privileged,omitempty"`
	jwt.RegisteredClaims
}

// RequireAuth validates the bearer token and derives the request's Caller
// from its claims. A non-privileged token without a business is rejected:
// every caller must operate either as one tenant or explicitly across all of
// them.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims := &tokenClaims{}
		token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(m.Config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Info("token validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		if claims.Subject == "" {
			log.Info("token missing subject")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}
		if claims.BusinessID == nil && !claims.Privileged {
			log.Info("token has no business and no privilege", "subject", claims.Subject)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Business scope required",
			})
		}

		caller := models.Caller{
			Subject:      claims.Subject,
			BusinessID:   claims.BusinessID,
			IsPrivileged: claims.Privileged,
			// Honored only for privileged callers; WantsDeleted ignores it
			// otherwise.
			IncludeDeleted: c.QueryBool("includeDeleted"),
		}

		c.Locals(CallerKeyFiber, caller)
		return c.Next()
	}
}

// RequirePrivileged guards admin-only routes. Runs after RequireAuth.
func (m *Middleware) RequirePrivileged() fiber.Handler {
	log := m.log.Function("RequirePrivileged")

	return func(c *fiber.Ctx) error {
		caller, ok := c.Locals(CallerKeyFiber).(models.Caller)
		if !ok {
			log.Info("caller not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !caller.IsPrivileged {
			log.Info("caller is not privileged", "subject", caller.Subject)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Privileged access required",
			})
		}

		return c.Next()
	}
}

// GetCaller extracts the authenticated caller from Fiber context.
func GetCaller(c *fiber.Ctx) (models.Caller, bool) {
	caller, ok := c.Locals(CallerKeyFiber).(models.Caller)
	return caller, ok
}
