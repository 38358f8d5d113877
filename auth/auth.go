// auth/auth.go
package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const HeaderToken = "X-Gestor-Token"

// HashToken returns the bcrypt hash to configure as GESTOR_TOKEN_HASH.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Middleware rejects requests whose X-Gestor-Token does not match hash.
// An empty hash disables the check.
func Middleware(hash string) fiber.Handler {
	if hash == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	// bcrypt is slow on purpose; the last accepted token is remembered so
	// a single client does not pay for it on every request.
	var (
		mu       sync.RWMutex
		accepted []byte
	)

	return func(c *fiber.Ctx) error {
		token := []byte(c.Get(HeaderToken))
		if len(token) == 0 {
			return unauthorized(c)
		}

		mu.RLock()
		known := accepted != nil && subtle.ConstantTimeCompare(token, accepted) == 1
		mu.RUnlock()
		if known {
			return c.Next()
		}

		if bcrypt.CompareHashAndPassword([]byte(hash), token) != nil {
			return unauthorized(c)
		}
		mu.Lock()
		accepted = append([]byte(nil), token...)
		mu.Unlock()
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
}
