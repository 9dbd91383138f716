package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"edusphere/store"
)

// GenerateJWT generates a JWT token carrying the user's identity
func GenerateJWT(jwtKey string, ident store.Identity, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId":   ident.UserID,
		"username": ident.Username,
		"role":     ident.Role,
		"email":    email,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtKey))
}

// JWT returns a middleware that checks for a valid JWT token in the request
// and resolves it into a store.Identity under Locals("identity").
func JWT(jwtKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get the token from the Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
		}

		// The token should be prefixed with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
		}

		tokenString := authHeader[len("Bearer "):]

		// Parse and validate the token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtKey), nil
		})
		if err != nil || !token.Valid {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["userId"] == nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
		}

		// JWT numeric claims decode as float64
		userID, ok := claims["userId"].(float64)
		if !ok || userID <= 0 {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)

		c.Locals("identity", store.Identity{
			UserID:   uint(userID),
			Username: username,
			Role:     role,
		})

		return c.Next()
	}
}

// CallerIdentity pulls the resolved identity out of the request context. The
// zero (anonymous) value means the JWT middleware did not run or rejected.
func CallerIdentity(c *fiber.Ctx) store.Identity {
	if ident, ok := c.Locals("identity").(store.Identity); ok {
		return ident
	}
	return store.Identity{}
}
